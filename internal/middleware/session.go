package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

// ContextUserKey is the gin context key holding the authenticated principal.
const ContextUserKey = "user"

type tokenValidator interface {
	ValidateToken(tokenString string) (*models.SessionClaims, error)
}

// Session parses the bearer token, or the session cookie as a fallback, and
// stores the resulting principal on the context. It never rejects a request
// on its own; the gate decides what an absent or invalid session means.
func Session(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie("session"); err == nil {
				token = cookie
			}
		}
		if token != "" {
			if claims, err := auth.ValidateToken(token); err == nil {
				principal := claims.Principal()
				c.Set(ContextUserKey, &principal)
			}
		}
		c.Next()
	}
}

// PrincipalFrom extracts the principal stored by Session, if any.
func PrincipalFrom(c *gin.Context) *models.Principal {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*models.Principal)
	if !ok {
		return nil
	}
	return principal
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
