// File: internal/common/context_helpers.go
package common

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserIDFromContext retrieves the authenticated user's ID set by the auth
// middleware. The boolean is false when the request is unauthenticated.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetUserEmailFromContext retrieves the authenticated user's email.
func GetUserEmailFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(ContextKeyUserEmail)
	if !exists {
		return "", false
	}
	email, ok := val.(string)
	return email, ok
}

// GetUserRoleFromContext retrieves the authenticated user's role.
func GetUserRoleFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(ContextKeyUserRole)
	if !exists {
		return "", false
	}
	role, ok := val.(string)
	return role, ok
}

// GetTokenJTIFromContext retrieves the token identifier of the current request.
func GetTokenJTIFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(ContextKeyTokenJTI)
	if !exists {
		return "", false
	}
	jti, ok := val.(string)
	return jti, ok
}

// GetTokenExpiryFromContext retrieves the expiry time of the current token.
func GetTokenExpiryFromContext(c *gin.Context) (time.Time, bool) {
	val, exists := c.Get(ContextKeyTokenExp)
	if !exists {
		return time.Time{}, false
	}
	exp, ok := val.(time.Time)
	return exp, ok
}
