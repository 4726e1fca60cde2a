package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"societydocs/api/internal/config"
	"societydocs/api/internal/security"
)

// FolderTokenHeader carries the short-lived token issued by the folder
// gate. Document endpoints refuse requests without it, so folder
// verification is enforced server-side rather than by the UI alone.
const FolderTokenHeader = "X-Folder-Token"

func FolderAccess(cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
			return
		}

		tokenStr := c.GetHeader(FolderTokenHeader)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "folder_token_required"})
			return
		}

		claims, err := security.ParseFolderToken(tokenStr, cfg.Security.FolderTokenSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_folder_token"})
			return
		}

		if claims.UserID != user.ID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "folder_token_mismatch"})
			return
		}

		c.Next()
	}
}
