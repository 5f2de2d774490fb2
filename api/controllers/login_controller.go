package controllers

import (
	"net/http"
	"strings"

	"warbler/api/models"
	"warbler/api/utils/formaterror"

	"github.com/gin-gonic/gin"
)

func (server *Server) SignupForm(c *gin.Context) {
	server.render(c, http.StatusOK, "signup.html", nil)
}

// Signup creates an account from the posted form, signs the new user
// in and sends them to their timeline. A taken username or email
// re-renders the form with the error flashed.
func (server *Server) Signup(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	imageURL := strings.TrimSpace(c.PostForm("image_url"))

	user, err := models.Signup(username, email, password, imageURL)
	if err != nil {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusOK, "signup.html", gin.H{
			"Errors": map[string]string{"Signup": err.Error()},
			"Form":   gin.H{"Username": username, "Email": email, "ImageURL": imageURL},
		})
		return
	}
	if errs := user.Validate(""); len(errs) > 0 {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusOK, "signup.html", gin.H{
			"Errors": errs,
			"Form":   gin.H{"Username": username, "Email": email, "ImageURL": imageURL},
		})
		return
	}

	saved, err := user.SaveUser(server.DB)
	if err != nil {
		server.Metrics.CountBadRequest(c.FullPath())
		for _, msg := range formaterror.FormatError(err.Error()) {
			server.flash(c, msg)
		}
		server.render(c, http.StatusOK, "signup.html", gin.H{
			"Form": gin.H{"Username": username, "Email": email, "ImageURL": imageURL},
		})
		return
	}

	if err := server.signIn(c, saved); err != nil {
		server.Logger.WithError(err).Error("Could not start session")
	}
	server.Metrics.CountSignup(c.FullPath())
	c.Redirect(http.StatusFound, "/")
}

func (server *Server) LoginForm(c *gin.Context) {
	server.render(c, http.StatusOK, "login.html", nil)
}

// Login authenticates against the posted username and password. The
// failure path deliberately does not say which of the two was wrong.
func (server *Server) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	user := models.Authenticate(server.DB, username, password)
	if user == nil {
		server.Metrics.CountBadRequest(c.FullPath())
		server.flash(c, "Invalid credentials.")
		server.render(c, http.StatusOK, "login.html", gin.H{
			"Form": gin.H{"Username": username},
		})
		return
	}

	if err := server.signIn(c, user); err != nil {
		server.Logger.WithError(err).Error("Could not start session")
	}
	server.Metrics.CountLogin(c.FullPath())
	c.Redirect(http.StatusFound, "/")
}

func (server *Server) Logout(c *gin.Context) {
	if err := server.signOut(c); err != nil {
		server.Logger.WithError(err).Error("Could not end session")
	}
	c.Redirect(http.StatusFound, "/login")
}
