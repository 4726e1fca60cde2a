package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"societydocs/api/internal/service"
	"societydocs/api/internal/storage"
)

type SessionPurger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Scheduler runs the two maintenance jobs: purging expired sessions
// nightly and retrying deletion of orphaned blobs hourly. Orphans
// arrive on the gc stream whenever a best-effort blob delete failed.
type Scheduler struct {
	cron     *cron.Cron
	sessions SessionPurger
	blobs    storage.BlobStore
	queue    *redis.Client
	log      zerolog.Logger
}

func NewScheduler(sessions SessionPurger, blobs storage.BlobStore, queue *redis.Client, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		sessions: sessions,
		blobs:    blobs,
		queue:    queue,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 3 * * *", s.purgeExpiredSessions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 * * * *", s.collectOrphanBlobs); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for in-flight jobs, up to a bounded grace period.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) purgeExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purged, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("purge expired sessions failed")
		return
	}
	if purged > 0 {
		s.log.Info().Int64("purged", purged).Msg("expired sessions removed")
	}
}

func (s *Scheduler) collectOrphanBlobs() {
	if s.queue == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	entries, err := s.queue.XRangeN(ctx, service.GCStream, "-", "+", 100).Result()
	if err != nil {
		s.log.Error().Err(err).Msg("read gc stream failed")
		return
	}

	for _, entry := range entries {
		locator, _ := entry.Values["locator"].(string)
		if locator == "" {
			s.queue.XDel(ctx, service.GCStream, entry.ID)
			continue
		}

		err := s.blobs.Delete(ctx, locator)
		if err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			s.log.Warn().Err(err).Str("locator", locator).Msg("orphan blob delete failed, will retry")
			continue
		}

		if err := s.queue.XDel(ctx, service.GCStream, entry.ID).Err(); err != nil {
			s.log.Warn().Err(err).Str("entry", entry.ID).Msg("gc stream ack failed")
		}
	}
}
