package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"warbler/api/models"
	"warbler/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// FollowUser adds a follow edge from the signed-in user to the target.
// Following someone twice is a no-op, following yourself is rejected.
func (server *Server) FollowUser(c *gin.Context) {
	viewerID, _ := httpctx.CurrentUserID(c)

	uid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusNotFound, "not_found.html", nil)
		return
	}
	target, err := (&models.User{}).FindUserByID(server.DB, uint(uid))
	if err != nil {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusNotFound, "not_found.html", nil)
		return
	}

	if viewerID == target.ID {
		server.Metrics.CountBadRequest(c.FullPath())
		server.flash(c, "You cannot follow yourself")
		c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", target.ID))
		return
	}

	follow := models.Follow{FollowerID: viewerID, FollowedID: target.ID}
	if _, err := follow.SaveFollow(server.DB); err != nil {
		server.Logger.WithError(err).Error("Could not follow user")
		server.flash(c, "Could not follow user")
		c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", target.ID))
		return
	}

	server.Metrics.CountFollow(c.FullPath())
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/following", viewerID))
}

// StopFollowing removes the follow edge if it exists.
func (server *Server) StopFollowing(c *gin.Context) {
	viewerID, _ := httpctx.CurrentUserID(c)

	uid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusNotFound, "not_found.html", nil)
		return
	}

	follow := models.Follow{FollowerID: viewerID, FollowedID: uint(uid)}
	if _, err := follow.DeleteFollow(server.DB); err != nil {
		server.Logger.WithError(err).Error("Could not unfollow user")
		server.flash(c, "Could not unfollow user")
		c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", uid))
		return
	}

	server.Metrics.CountUnfollow(c.FullPath())
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/following", viewerID))
}
