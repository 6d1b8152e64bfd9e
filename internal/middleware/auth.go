package middleware

import (
	"net/http"
	"strings"

	"anoa.com/socialblog/internal/entity"
	"anoa.com/socialblog/internal/session"
	"anoa.com/socialblog/pkg/apperror"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

type AuthMiddleware struct {
	sessions *session.Manager
}

func NewAuthMiddleware(sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Fallback to query parameter "token" (useful for WebSockets)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		principal, err := m.sessions.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set("user_id", principal.ID)
		c.Set(principalKey, principal)
		c.Next()
	}
}

// GetPrincipal returns the principal stored by RequireAuth.
func GetPrincipal(c *gin.Context) (entity.Principal, error) {
	v, exists := c.Get(principalKey)
	if !exists {
		return entity.Principal{}, apperror.ErrUnauthorized
	}
	principal, ok := v.(entity.Principal)
	if !ok || principal.ID == "" {
		return entity.Principal{}, apperror.ErrUnauthorized
	}
	return principal, nil
}
