package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"societydocs/api/internal/config"
	"societydocs/api/internal/ids"
	"societydocs/api/internal/models"
	"societydocs/api/internal/repository"
	"societydocs/api/internal/security"
)

var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
)

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	FindByTokenHash(ctx context.Context, tokenHash []byte) (models.Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash []byte) error
}

type AuthService struct {
	users    UserStore
	sessions SessionStore
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(users UserStore, sessions SessionStore, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
	}
}

type SignupInput struct {
	Name           string
	Email          string
	Password       string
	FlatNumber     string
	FolderPassword string
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (models.User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Name == "" || input.Email == "" || input.Password == "" ||
		input.FlatNumber == "" || input.FolderPassword == "" {
		return models.User{}, ErrMissingFields
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return models.User{}, repository.ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}
	folderHash, err := security.HashPassword(input.FolderPassword)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:                 ids.New(),
		Name:               input.Name,
		Email:              input.Email,
		PasswordHash:       passwordHash,
		FolderPasswordHash: folderHash,
		FlatNumber:         input.FlatNumber,
		Role:               models.UserRoleResident,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// SignIn verifies credentials and mints a fresh opaque session token.
// The raw token is returned once for the cookie; only its hash is stored.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return models.User{}, "", ErrMissingFields
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, tokenHash, err := security.NewSessionToken()
	if err != nil {
		return models.User{}, "", err
	}

	session := models.Session{
		ID:        ids.New(),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(s.cfg.Security.SessionTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return models.User{}, "", err
	}

	return user, token, nil
}

// Authenticate resolves a request-supplied token to its user. It is
// read-only: session expiry is fixed at sign-in, never slid forward.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.User, error) {
	session, err := s.sessions.FindByTokenHash(ctx, security.HashSessionToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if !session.ExpiresAt.After(time.Now()) {
		return models.User{}, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *AuthService) SignOut(ctx context.Context, token string) error {
	err := s.sessions.DeleteByTokenHash(ctx, security.HashSessionToken(token))
	if err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return err
	}
	return nil
}
