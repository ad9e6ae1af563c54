// File: internal/middleware/auth.go
package middleware

import (
	"strings"

	"strategy_backend/internal/common"
	"strategy_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// AuthorizationHeader is the header name for the authorization token.
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens.
	AuthorizationTypeBearer = "Bearer"
)

// AuthMiddleware creates a Gin middleware for JWT authentication. On success
// it stores the user identity and token metadata in the request context.
func AuthMiddleware(tokenService shared.TokenService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header is required."))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		claims, err := tokenService.ValidateToken(parts[1])
		if err != nil {
			logger.Debug("Token validation failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired token."))
			return
		}

		c.Set(common.ContextKeyUserID, claims.UserID)
		c.Set(common.ContextKeyUserEmail, claims.Email)
		c.Set(common.ContextKeyUserRole, claims.Role)
		c.Set(common.ContextKeyTokenJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(common.ContextKeyTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// RoleAuthMiddleware checks that the authenticated user has one of the
// required roles. It must run after AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, ok := common.GetUserRoleFromContext(c)
		if !ok || userRole == "" {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("User role not found in context."))
			return
		}

		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}

		common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
	}
}
