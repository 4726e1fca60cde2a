package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"societydocs/api/internal/config"
	"societydocs/api/internal/middleware"
	"societydocs/api/internal/models"
	"societydocs/api/internal/pdf"
	"societydocs/api/internal/repository"
	"societydocs/api/internal/service"
	"societydocs/api/internal/storage"
)

type HandlerSet struct {
	log       zerolog.Logger
	cfg       *config.AppConfig
	auth      *service.AuthService
	folder    *service.FolderService
	documents *service.DocumentService
	db        *pgxpool.Pool
	cache     *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, blobs storage.BlobStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	auth := service.NewAuthService(userRepo, sessionRepo, cfg, log)
	folder := service.NewFolderService(userRepo, cache, cfg, log)
	documents := service.NewDocumentService(documentRepo, blobs, pdf.SupersededStamper{}, cache, cfg, log)

	return HandlerSet{
		log:       log,
		cfg:       cfg,
		auth:      auth,
		folder:    folder,
		documents: documents,
		db:        db,
		cache:     cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/signup", h.Signup)
		auth.POST("/signin", h.SignIn)

		protected := v1.Group("/auth")
		protected.Use(middleware.Auth(h.auth))
		protected.POST("/signout", h.SignOut)
		protected.GET("/me", h.Me)
	}

	folder := v1.Group("/folder")
	folder.Use(middleware.Auth(h.auth))
	folder.POST("/verify", h.VerifyFolder)

	documents := v1.Group("/documents")
	documents.Use(
		middleware.Auth(h.auth),
		middleware.FolderAccess(h.cfg),
	)
	documents.POST("", h.UploadDocument)
	documents.GET("", h.ListDocuments)
	documents.GET("/:id", h.GetDocument)
	documents.GET("/:id/view", h.ViewDocument)
	documents.POST("/:id/supersede", h.SupersedeDocument)
	documents.DELETE("/:id", h.DeleteDocument)

	admin := v1.Group("/admin")
	admin.Use(
		middleware.Auth(h.auth),
		middleware.RequireRoles(models.UserRoleAdmin),
	)
	admin.GET("/documents", h.AdminListDocuments)
}

// error converts layer sentinels to the HTTP taxonomy. Clients get
// generic messages; detail stays in the server log.
func (h HandlerSet) error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidDocumentType),
		errors.Is(err, service.ErrNotPDF),
		errors.Is(err, repository.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSessionExpired),
		errors.Is(err, service.ErrFolderDenied):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrTooManyAttempts):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrDocumentNotFound),
		errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, storage.ErrObjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadySuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
	}
}
