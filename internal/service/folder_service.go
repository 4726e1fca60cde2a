package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"societydocs/api/internal/config"
	"societydocs/api/internal/repository"
	"societydocs/api/internal/security"
)

var (
	ErrFolderDenied    = errors.New("invalid folder password")
	ErrTooManyAttempts = errors.New("too many folder attempts")
)

// FolderService is the secondary gate in front of a user's document
// folder. Verification is stateless on the server except for the
// short-lived token it issues, which every document operation requires.
type FolderService struct {
	users   UserStore
	limiter *redis.Client
	cfg     *config.AppConfig
	log     zerolog.Logger
}

func NewFolderService(users UserStore, limiter *redis.Client, cfg *config.AppConfig, log zerolog.Logger) *FolderService {
	return &FolderService{
		users:   users,
		limiter: limiter,
		cfg:     cfg,
		log:     log,
	}
}

// Verify checks the folder password and, on success, issues the folder
// access token. Failed attempts are throttled per user.
func (s *FolderService) Verify(ctx context.Context, userID, password string) (string, error) {
	throttled, err := s.isThrottled(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("folder throttle check failed")
	} else if throttled {
		return "", ErrTooManyAttempts
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(user.FolderPasswordHash) == 0 {
		return "", repository.ErrUserNotFound
	}

	ok, err := security.VerifyPassword(password, user.FolderPasswordHash)
	if err != nil {
		return "", err
	}
	if !ok {
		s.recordFailure(ctx, userID)
		return "", ErrFolderDenied
	}

	s.clearFailures(ctx, userID)

	return security.GenerateFolderToken(s.cfg.Security.FolderTokenSecret, userID, s.cfg.Security.FolderTokenTTL)
}

func (s *FolderService) isThrottled(ctx context.Context, userID string) (bool, error) {
	if s.limiter == nil {
		return false, nil
	}
	count, err := s.limiter.Get(ctx, attemptKey(userID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return count >= s.cfg.Security.FolderMaxAttempts, nil
}

func (s *FolderService) recordFailure(ctx context.Context, userID string) {
	if s.limiter == nil {
		return
	}
	key := attemptKey(userID)
	pipe := s.limiter.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.cfg.Security.FolderAttemptWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("record folder attempt failed")
	}
}

func (s *FolderService) clearFailures(ctx context.Context, userID string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Del(ctx, attemptKey(userID)).Err(); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("clear folder attempts failed")
	}
}

func attemptKey(userID string) string {
	return fmt.Sprintf("folder:attempts:%s", userID)
}
