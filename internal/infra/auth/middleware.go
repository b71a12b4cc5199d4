package auth

import (
	"net/http"
	"strings"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	identityKey = "auth.identity"
	cookieName  = "token"
)

// Verifier is the token check the middleware depends on.
type Verifier interface {
	Verify(token string) (Identity, error)
}

var _ Verifier = (*TokenService)(nil)

// RequireAuth rejects requests without a valid bearer token or session cookie.
func RequireAuth(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		id, err := v.Verify(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := FromContext(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if id.Role != domain.RoleAdmin {
			_ = c.Error(ErrForbidden)
			abort(c, http.StatusForbidden, "admin access required")
			return
		}
		c.Next()
	}
}

func FromContext(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

func tokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, found := strings.Cut(h, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
