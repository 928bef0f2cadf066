package middleware

import (
	"strings"

	"quiz_backend/internal/config"
	"quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// extractBearerToken parses the Authorization header. The credential must be
// exactly two space-separated parts with a Bearer scheme.
func extractBearerToken(authHeader string) (string, bool) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware fails the request before any handler runs unless it carries
// a well-formed, valid, unexpired bearer credential. On success the decoded
// identity is attached to the request context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		tokenString, ok := extractBearerToken(authHeader)
		if !ok {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// TryAuthMiddleware attaches the identity when a valid credential is present
// and lets the request through anonymously otherwise. Used on routes that
// accept both registered users and guests.
func TryAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			if tokenString, ok := extractBearerToken(authHeader); ok {
				if claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret); err == nil {
					c.Set("user", claims)
				}
			}
		}
		c.Next()
	}
}
