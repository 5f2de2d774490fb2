package controllers

import (
	"net/http"
	"os"
	"strings"

	"warbler/api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (server *Server) ForgotPasswordForm(c *gin.Context) {
	server.render(c, http.StatusOK, "password_forgot.html", nil)
}

// ForgotPassword emails a reset link when the address belongs to an
// account. The response is the same either way so the form cannot be
// used to probe for registered emails.
func (server *Server) ForgotPassword(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
	if email == "" {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusOK, "password_forgot.html", gin.H{
			"Errors": map[string]string{"Email": "Required Email"},
		})
		return
	}

	var user models.User
	err := server.DB.Where("email = ?", email).Take(&user).Error
	if err == nil {
		reset := models.PasswordReset{Email: user.Email}
		saved, saveErr := reset.SaveDetails(server.DB)
		if saveErr != nil {
			server.Logger.WithError(saveErr).Error("Could not save reset token")
		} else if server.Mailer != nil {
			appURL := os.Getenv("APP_URL")
			if appURL == "" {
				appURL = "http://localhost:8080"
			}
			if _, mailErr := server.Mailer.SendPasswordReset(user.Email, saved.Token, appURL); mailErr != nil {
				server.Logger.WithError(mailErr).Error("Could not send reset email")
			}
		}
	} else if err != gorm.ErrRecordNotFound {
		server.Logger.WithError(err).Error("Could not look up email")
	}

	server.flash(c, "If that email is registered, a reset link is on its way")
	c.Redirect(http.StatusFound, "/login")
}

func (server *Server) ResetPasswordForm(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	reset, err := (&models.PasswordReset{}).FindByToken(server.DB, token)
	if err != nil {
		server.Metrics.CountBadRequest(c.FullPath())
		server.flash(c, "Invalid or expired reset link")
		c.Redirect(http.StatusFound, "/password/forgot")
		return
	}
	server.render(c, http.StatusOK, "password_reset.html", gin.H{"Token": reset.Token})
}

// ResetPassword sets a new password for the account behind a valid
// token, then burns the token.
func (server *Server) ResetPassword(c *gin.Context) {
	token := strings.TrimSpace(c.PostForm("token"))
	password := c.PostForm("password")
	confirm := c.PostForm("confirm_password")

	reset, err := (&models.PasswordReset{}).FindByToken(server.DB, token)
	if err != nil {
		server.Metrics.CountBadRequest(c.FullPath())
		server.flash(c, "Invalid or expired reset link")
		c.Redirect(http.StatusFound, "/password/forgot")
		return
	}

	if password == "" || password != confirm {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusOK, "password_reset.html", gin.H{
			"Token":  reset.Token,
			"Errors": map[string]string{"Password": "Passwords do not match"},
		})
		return
	}

	user := models.User{Email: reset.Email, Password: password}
	if err := user.UpdatePassword(server.DB); err != nil {
		server.Logger.WithError(err).Error("Could not update password")
		server.flash(c, "Could not update password, please try again")
		c.Redirect(http.StatusFound, "/password/forgot")
		return
	}

	if _, err := reset.DeleteDetails(server.DB); err != nil {
		server.Logger.WithError(err).Warn("Could not remove used reset token")
	}

	server.Metrics.CountSuccess(c.FullPath())
	server.flash(c, "Password updated, please log in")
	c.Redirect(http.StatusFound, "/login")
}
