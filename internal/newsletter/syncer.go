package newsletter

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/digitalshelf/storefront/internal/repository"
	apperrors "github.com/digitalshelf/storefront/pkg/errors"
)

// Subscriber submits a single email to the newsletter platform.
type Subscriber interface {
	Subscribe(ctx context.Context, email string) error
}

// SyncerConfig holds sync run settings.
type SyncerConfig struct {
	// BatchLimit caps how many pending subscribers one run processes.
	BatchLimit int

	// RequestDelay is the pause between platform calls within a run.
	RequestDelay time.Duration
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	Processed  int `json:"processed"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// Syncer drains pending subscribers toward the newsletter platform. Only one
// run may be active at a time.
type Syncer struct {
	repo   repository.SubscriberRepository
	client Subscriber
	cfg    SyncerConfig
	logger *slog.Logger

	mu sync.Mutex
}

// NewSyncer creates a newsletter syncer.
func NewSyncer(repo repository.SubscriberRepository, client Subscriber, cfg SyncerConfig, logger *slog.Logger) *Syncer {
	if cfg.BatchLimit <= 0 {
		cfg.BatchLimit = 100
	}
	return &Syncer{
		repo:   repo,
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// SyncPending pushes all pending subscribers to the newsletter platform,
// recording per-subscriber bookkeeping as it goes. A second concurrent call
// is rejected with ErrSyncRunning.
func (s *Syncer) SyncPending(ctx context.Context) (*SyncResult, error) {
	if !s.mu.TryLock() {
		return nil, apperrors.ErrSyncRunning
	}
	defer s.mu.Unlock()

	pending, err := s.repo.ListUnsynced(ctx, s.cfg.BatchLimit)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{}

	for i, sub := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if i > 0 && s.cfg.RequestDelay > 0 {
			select {
			case <-time.After(s.cfg.RequestDelay):
			case <-ctx.Done():
				return result, ctx.Err()
			}
		}

		result.Processed++
		if err := s.syncOne(ctx, sub.Email); err != nil {
			result.Failed++
		} else {
			result.Successful++
		}
	}

	s.logger.InfoContext(ctx, "newsletter sync run finished",
		slog.Int("processed", result.Processed),
		slog.Int("successful", result.Successful),
		slog.Int("failed", result.Failed),
	)

	return result, nil
}

// SyncEmail pushes a single subscriber to the newsletter platform and
// records the outcome.
func (s *Syncer) SyncEmail(ctx context.Context, email string) error {
	return s.syncOne(ctx, email)
}

// RecordResult stores an externally observed sync outcome for an email
// without calling the platform.
func (s *Syncer) RecordResult(ctx context.Context, email string, success bool, syncErr string) error {
	now := time.Now().UTC()
	if success {
		return s.repo.MarkSynced(ctx, email, now)
	}
	return s.repo.MarkSyncFailed(ctx, email, now, syncErr)
}

func (s *Syncer) syncOne(ctx context.Context, email string) error {
	now := time.Now().UTC()

	if err := s.client.Subscribe(ctx, email); err != nil {
		s.logger.WarnContext(ctx, "newsletter sync failed",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		if recordErr := s.repo.MarkSyncFailed(ctx, email, now, err.Error()); recordErr != nil {
			s.logger.ErrorContext(ctx, "failed to record sync failure",
				slog.String("email", email),
				slog.String("error", recordErr.Error()),
			)
		}
		return err
	}

	if err := s.repo.MarkSynced(ctx, email, now); err != nil {
		s.logger.ErrorContext(ctx, "failed to record sync success",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return err
	}

	return nil
}
