package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/vidverse/vidverse_backend/internal/core/domain"
)

// userIDKey is the key used to store the authenticated user's ID in the
// request context.
const userIDKey = contextKey("userID")

// currentUserKey holds the full resolved user attached by the auth gate.
const currentUserKey = contextKey("currentUser")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin
// context. It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetCurrentUserFromCtx retrieves the resolved user attached by the auth
// middleware.
func GetCurrentUserFromCtx(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(currentUserKey).(*domain.User)
	return user, ok
}
