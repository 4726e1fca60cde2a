package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"societydocs/api/internal/middleware"
)

type folderVerifyRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password" binding:"required"`
}

// VerifyFolder checks the secondary folder password for the session's
// own user and answers with the folder access token the document
// endpoints require.
func (h HandlerSet) VerifyFolder(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	var req folderVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	// A userId naming anyone but the session user is rejected outright.
	if req.UserID != "" && req.UserID != user.ID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "folder_user_mismatch"})
		return
	}

	token, err := h.folder.Verify(c.Request.Context(), user.ID, req.Password)
	if err != nil {
		h.error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "password verified",
		"folderToken": token,
	})
}
