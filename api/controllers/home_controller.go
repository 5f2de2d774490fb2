package controllers

import (
	"net/http"

	"warbler/api/models"
	"warbler/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// Home shows the signed-in user's timeline: their own messages plus
// those of everyone they follow, newest first. Anonymous visitors get
// the landing page instead.
func (server *Server) Home(c *gin.Context) {
	user, ok := httpctx.CurrentUser(c)
	if !ok {
		server.render(c, http.StatusOK, "home_anon.html", nil)
		return
	}

	messages, err := (&models.Message{}).TimelineFor(server.DB, user.ID)
	if err != nil {
		server.Logger.WithError(err).Error("Could not load timeline")
		server.render(c, http.StatusInternalServerError, "home.html", gin.H{
			"Messages": []models.Message{},
		})
		return
	}

	liked, err := user.LikedMessageIDs(server.DB)
	if err != nil {
		server.Logger.WithError(err).Error("Could not load likes")
		liked = map[uint]bool{}
	}

	server.Metrics.CountSuccess(c.FullPath())
	server.render(c, http.StatusOK, "home.html", gin.H{
		"Messages": messages,
		"Liked":    liked,
	})
}
