package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenParser verifies a session token and returns the user id it is bound
// to. Satisfied by services.AuthService.
type TokenParser interface {
	ParseToken(token string) (int, error)
}

// ContextUserKey is where the verified user id lands in the gin context.
const ContextUserKey = "user_id"

// Auth verifies the session token (cookie first, Authorization header as a
// fallback) and binds the identity to the request. The WebSocket upgrade
// route sits behind this same middleware, so a connection's identity is
// established by a verified token, never trusted from a query parameter.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token := tokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized! No token provided."})
			return
		}

		userID, err := parser.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextUserKey, userID)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
