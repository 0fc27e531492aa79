package middleware

import (
	"errors"
	"net/http"
	"strings"

	"threadboard/internal/services"

	"github.com/gin-gonic/gin"
)

// IdentityKey is the gin context key holding the caller's services.Identity.
const IdentityKey = "identity"

var errMissingToken = errors.New("missing bearer token")

// AuthRequired rejects requests without a valid bearer token of the given kind
// and stores the token's identity on the context.
func AuthRequired(tokens *services.TokenService, kind services.TokenKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := BearerToken(c.Request)
		if err == nil {
			var identity services.Identity
			if identity, err = tokens.Parse(raw, kind); err == nil {
				c.Set(IdentityKey, identity)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid token"})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errMissingToken
	}
	return token, nil
}

// CurrentIdentity returns the identity set by AuthRequired.
func CurrentIdentity(c *gin.Context) (services.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return services.Identity{}, false
	}
	identity, ok := v.(services.Identity)
	return identity, ok
}
