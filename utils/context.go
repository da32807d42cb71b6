package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mercic21/travelmate/logger"
)

// GetUserIDFromContext extracts the authenticated user's ID from the Gin
// context. The auth middleware stores it as a string under "user_id".
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get("user_id")
	if !exists {
		logger.ErrorLogger.Error("User ID not found in context.")
		return uuid.Nil, ErrUserIDNotFound
	}

	userIDStr, ok := raw.(string)
	if !ok {
		logger.ErrorLogger.Errorf("User ID in context is not a string, actual type: %T", raw)
		return uuid.Nil, fmt.Errorf("internal server error: invalid user ID format in context")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to parse user ID string '%s' to UUID: %v", userIDStr, err)
		return uuid.Nil, fmt.Errorf("internal server error: invalid user ID format")
	}
	return userID, nil
}

// IsAdminFromContext reports whether the auth middleware marked the caller
// as an administrator.
func IsAdminFromContext(c *gin.Context) bool {
	raw, exists := c.Get("is_admin")
	if !exists {
		return false
	}
	isAdmin, ok := raw.(bool)
	return ok && isAdmin
}
