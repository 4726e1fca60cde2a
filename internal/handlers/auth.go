package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"societydocs/api/internal/middleware"
	"societydocs/api/internal/models"
	"societydocs/api/internal/service"
)

type signupRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
	FlatNumber     string `json:"flatNumber" binding:"required"`
	FolderPassword string `json:"folderPassword" binding:"required"`
}

type userResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	FlatNumber string `json:"flatNumber"`
	Role       string `json:"role"`
}

func publicUser(user models.User) userResponse {
	return userResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		FlatNumber: user.FlatNumber,
		Role:       string(user.Role),
	}
}

func (h HandlerSet) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields are required"})
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), service.SignupInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		FlatNumber:     req.FlatNumber,
		FolderPassword: req.FolderPassword,
	})
	if err != nil {
		h.error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": publicUser(user)})
}

type signinRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) SignIn(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, token, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.error(c, err)
		return
	}

	h.setSessionCookie(c, token, int(h.cfg.Security.SessionTTL.Seconds()))

	c.JSON(http.StatusOK, gin.H{"user": publicUser(user)})
}

func (h HandlerSet) SignOut(c *gin.Context) {
	token := c.GetString(middleware.ContextSessionToken)
	if err := h.auth.SignOut(c.Request.Context(), token); err != nil {
		h.error(c, err)
		return
	}

	h.setSessionCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": publicUser(user)})
}

func (h HandlerSet) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.cfg.Security.SecureCookies, true)
}
