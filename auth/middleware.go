// Package auth provides Gin middleware for bearer token auth.
package auth

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Middleware enforces bearer token auth and injects claims into the request
// context. Requests without a valid token are rejected with 401.
func Middleware(verifier *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			respondUnauthorized(c, "auth verifier not configured")
			return
		}

		token, ok := extractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			log.Printf("auth failure: missing or malformed Authorization header path=%s", c.Request.URL.Path)
			respondUnauthorized(c, "missing or invalid authorization header")
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			log.Printf("auth failure: token invalid path=%s err=%v", c.Request.URL.Path, err)
			respondUnauthorized(c, "invalid token")
			return
		}

		c.Request = c.Request.WithContext(WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

// OptionalMiddleware attaches claims when a valid bearer token is present and
// otherwise lets the request through anonymously. Invalid tokens are treated
// as anonymous so the device-hash quota flow still works.
func OptionalMiddleware(verifier *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractBearerToken(c.GetHeader("Authorization"))
		if !ok || verifier == nil {
			c.Next()
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			log.Printf("optional auth: ignoring invalid token path=%s err=%v", c.Request.URL.Path, err)
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

func extractBearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": message,
	})
}
