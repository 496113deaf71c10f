package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	AllowedOrigins  []string
	AllowAllOrigins bool
}

// allowOrigin resolves the Access-Control-Allow-Origin value for a
// request origin, or "" when the origin is not allowed.
func (c CORSConfig) allowOrigin(origin string) string {
	if c.AllowAllOrigins {
		return "*"
	}
	if len(c.AllowedOrigins) == 0 {
		return origin
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return origin
		}
	}
	return ""
}

// CORS returns a middleware that handles Cross-Origin Resource Sharing.
// Requests from disallowed origins pass through without CORS headers;
// preflight requests are answered with 204.
func CORS(config CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := config.allowOrigin(origin)
		if allowed == "" {
			c.Next()
			return
		}

		header := c.Writer.Header()
		if allowed == "*" {
			// Wildcard origins cannot carry credentials.
			header.Set("Access-Control-Allow-Credentials", "false")
		} else {
			header.Set("Access-Control-Allow-Credentials", "true")
		}
		header.Set("Access-Control-Allow-Origin", allowed)
		header.Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		header.Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		header.Set("Access-Control-Expose-Headers", "Content-Length")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
