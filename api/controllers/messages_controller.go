package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"warbler/api/models"
	"warbler/api/utils/formaterror"
	"warbler/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

func (server *Server) NewMessageForm(c *gin.Context) {
	server.render(c, http.StatusOK, "messages_new.html", nil)
}

// CreateMessage posts a message for the signed-in user and redirects
// to their profile.
func (server *Server) CreateMessage(c *gin.Context) {
	user, _ := httpctx.CurrentUser(c)

	message := models.Message{
		Text:   strings.TrimSpace(c.PostForm("text")),
		UserID: user.ID,
	}
	message.Prepare()

	if errs := message.Validate(); len(errs) > 0 {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusOK, "messages_new.html", gin.H{
			"Errors": errs,
			"Form":   gin.H{"Text": message.Text},
		})
		return
	}

	if _, err := message.SaveMessage(server.DB); err != nil {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusOK, "messages_new.html", gin.H{
			"Errors": formaterror.FormatError(err.Error()),
			"Form":   gin.H{"Text": message.Text},
		})
		return
	}

	server.Metrics.CountMessage(c.FullPath())
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", user.ID))
}

// ShowMessage renders a single message.
func (server *Server) ShowMessage(c *gin.Context) {
	mid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusNotFound, "not_found.html", nil)
		return
	}

	message, err := (&models.Message{}).FindMessageByID(server.DB, uint(mid))
	if err != nil {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusNotFound, "not_found.html", nil)
		return
	}

	data := gin.H{"Message": message}
	if viewer, signedIn := httpctx.CurrentUser(c); signedIn {
		if liked, err := viewer.LikedMessageIDs(server.DB); err == nil {
			data["Liked"] = liked
		}
	}
	if n, err := message.CountLikes(server.DB); err == nil {
		data["LikeCount"] = n
	}

	server.Metrics.CountSuccess(c.FullPath())
	server.render(c, http.StatusOK, "messages_show.html", data)
}

// DeleteMessage removes a message. Only its author may do so.
func (server *Server) DeleteMessage(c *gin.Context) {
	user, _ := httpctx.CurrentUser(c)

	mid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusNotFound, "not_found.html", nil)
		return
	}

	message, err := (&models.Message{}).FindMessageByID(server.DB, uint(mid))
	if err != nil {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusNotFound, "not_found.html", nil)
		return
	}

	if message.UserID != user.ID {
		server.Metrics.CountBadRequest(c.FullPath())
		server.flash(c, "Access unauthorized.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	if _, err := message.DeleteAMessage(server.DB, message.ID); err != nil {
		server.Logger.WithError(err).Error("Could not delete message")
		server.flash(c, "Could not delete message")
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", user.ID))
}

// ToggleLike likes a message, or removes the like if it is already
// there. Users cannot like their own messages.
func (server *Server) ToggleLike(c *gin.Context) {
	user, _ := httpctx.CurrentUser(c)

	mid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusNotFound, "not_found.html", nil)
		return
	}

	message, err := (&models.Message{}).FindMessageByID(server.DB, uint(mid))
	if err != nil {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusNotFound, "not_found.html", nil)
		return
	}

	if message.UserID == user.ID {
		server.Metrics.CountBadRequest(c.FullPath())
		server.flash(c, "Access unauthorized.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	redirect := c.DefaultPostForm("redirect", "/")

	existing, err := (&models.Like{}).FindLike(server.DB, user.ID, message.ID)
	if err == nil && existing != nil {
		if _, err := existing.DeleteLike(server.DB); err != nil {
			server.Logger.WithError(err).Error("Could not remove like")
			server.flash(c, "Could not remove like")
		}
		server.Metrics.CountLike(c.FullPath())
		c.Redirect(http.StatusFound, redirect)
		return
	}

	like := models.Like{UserID: user.ID, MessageID: message.ID}
	if _, err := like.SaveLike(server.DB); err != nil {
		server.Logger.WithError(err).Error("Could not save like")
		server.flash(c, "Could not save like")
	}
	server.Metrics.CountLike(c.FullPath())
	c.Redirect(http.StatusFound, redirect)
}
