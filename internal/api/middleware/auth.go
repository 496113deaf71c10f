package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/timmy/brandshot/internal/auth"
	"github.com/timmy/brandshot/internal/logger"
)

const (
	// ContextSubjectKey is the gin context key holding the token subject.
	ContextSubjectKey = "auth_subject"
	// ContextRoleKey is the gin context key holding the token role.
	ContextRoleKey = "auth_role"
)

// RequireAuth returns a middleware that validates a Bearer token and
// stores its claims on the request context. Missing or invalid tokens
// abort with 401.
func RequireAuth(manager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header must be a Bearer token"})
			return
		}

		claims, err := manager.ValidateToken(token)
		if err != nil {
			GetLogger(c).WithError(err).Warn("Token validation failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextSubjectKey, claims.Sub)
		c.Set(ContextRoleKey, claims.Role)

		ctx := logger.WithField(c.Request.Context(), "subject", claims.Sub)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole returns a middleware that aborts with 403 unless the
// authenticated token carries the given role. It must run after
// RequireAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, exists := c.Get(ContextRoleKey)
		if !exists || got != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}
