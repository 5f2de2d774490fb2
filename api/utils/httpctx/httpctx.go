package httpctx

import (
	"warbler/api/models"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// SetCurrentUser stores the session-resolved user on the request
// context. Called once per request by the session middleware.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(currentUserKey, user)
}

// CurrentUser retrieves the authenticated user from the Gin context if
// present.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// CurrentUserID returns the authenticated user's id, or 0 when the
// request is anonymous.
func CurrentUserID(c *gin.Context) (uint, bool) {
	user, ok := CurrentUser(c)
	if !ok {
		return 0, false
	}
	return user.ID, true
}
