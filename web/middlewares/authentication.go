package middlewares

import (
	"net/http"
	"strings"

	"ems.com/ems/security"
	"ems.com/ems/web/common"
	"github.com/gin-gonic/gin"
)

const (
	IdentityKey = "identity"
	CookieName  = "ems.ApplicationCookie"
)

func tokenFromRequest(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		// Try to get from cookie
		cookie, err := c.Cookie(CookieName)
		if err != nil || cookie == "" {
			return "", false
		}
		return cookie, true
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// Authentication accepts a bearer token or the application cookie and stores
// the caller's identity on both the gin and the request context.
func Authentication(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := tokenFromRequest(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("authentication required"))
			return
		}

		identity, err := security.ParseIdentityToken(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("invalid or expired token"))
			return
		}

		c.Set(IdentityKey, identity)
		c.Request = c.Request.WithContext(security.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// Identity returns the caller set by Authentication, or the zero Identity.
func Identity(c *gin.Context) security.Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if identity, ok := v.(security.Identity); ok {
			return identity
		}
	}
	return security.FromContext(c.Request.Context())
}
