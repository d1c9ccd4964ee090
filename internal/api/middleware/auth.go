package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avolkova/clouddisk/internal/domain/auth"
)

// userKey is the gin context key holding the verified user.
const userKey = "auth.user"

// Verifier resolves a bearer token to a verified user.
type Verifier interface {
	Verify(token string) (*auth.User, error)
}

// Auth creates a middleware that requires a valid bearer token and injects
// the verified user into the request context. Requests without one are
// rejected before any storage operation runs.
func Auth(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		user, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the verified user injected by Auth, or nil when the
// route is not guarded.
func CurrentUser(c *gin.Context) *auth.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*auth.User)
	return user
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
