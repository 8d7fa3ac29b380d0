package middleware

import (
	"net/http"
	"strings"

	"github.com/fintrack/tracker/shared/auth"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// TokenParser verifies a bearer token and returns the caller it names.
type TokenParser interface {
	Parse(token string) (auth.Identity, error)
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}
		if !authenticate(c, parser) {
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the caller identity when a bearer token is
// sent and lets anonymous requests through. A token that is sent but invalid
// is rejected rather than treated as anonymous.
func OptionalAuthMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		if !authenticate(c, parser) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, parser TokenParser) bool {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		RespondWithError(c, http.StatusUnauthorized, "Invalid authorization header format")
		c.Abort()
		return false
	}

	id, err := parser.Parse(strings.TrimSpace(parts[1]))
	if err != nil {
		RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token")
		c.Abort()
		return false
	}

	SetIdentity(c, id)
	return true
}

// SetIdentity records id on both the gin context and the request context.
func SetIdentity(c *gin.Context, id auth.Identity) {
	c.Set(identityKey, id)
	c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
}

// GetIdentity returns the authenticated caller, if any.
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

// OwnerID returns the caller's user id, or "" for anonymous requests.
func OwnerID(c *gin.Context) string {
	id, _ := GetIdentity(c)
	return id.UserID
}
