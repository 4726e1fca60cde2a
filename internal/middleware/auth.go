package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"societydocs/api/internal/models"
	"societydocs/api/internal/service"
)

const (
	// SessionCookie carries the opaque session token.
	SessionCookie = "session"

	ContextUser         = "current_user"
	ContextSessionToken = "session_token"
)

// Auth resolves the session cookie to a user and stores both on the
// request context. Every folder and document operation sits behind it.
func Auth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrSessionExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session_expired"})
				return
			}
			if errors.Is(err, service.ErrInvalidCredentials) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session_not_found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}

		c.Set(ContextSessionToken, token)
		c.Set(ContextUser, user)

		c.Next()
	}
}

// CurrentUser pulls the authenticated user placed by Auth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get(ContextUser)
	if !exists {
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	return user, ok
}
