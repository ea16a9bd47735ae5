package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"secularai/internal/models"
	"secularai/internal/services"
)

func usernameFromCtx(c *gin.Context) (string, bool) {
	v, ok := c.Get("username")
	if !ok {
		return "", false
	}
	username, ok := v.(string)
	return username, ok && username != ""
}

// currentUser resolves the authenticated account or aborts the request.
func currentUser(c *gin.Context, auth services.AuthService) (*models.User, bool) {
	username, ok := usernameFromCtx(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return nil, false
	}
	user, err := auth.GetUserByUsername(username)
	if err != nil || user == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, false
	}
	return user, true
}
