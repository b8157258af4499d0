package event

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalshelf/storefront/internal/domain"
	"github.com/digitalshelf/storefront/internal/newsletter"
	"github.com/digitalshelf/storefront/internal/repository"
	pkgkafka "github.com/digitalshelf/storefront/pkg/kafka"
)

type stubSubscriberRepo struct {
	synced []string
	failed []string
}

func (s *stubSubscriberRepo) Create(context.Context, *domain.Subscriber) error { return nil }

func (s *stubSubscriberRepo) GetByEmail(context.Context, string) (*domain.Subscriber, error) {
	return nil, nil
}

func (s *stubSubscriberRepo) List(context.Context, repository.SubscriberFilter) ([]domain.Subscriber, int, error) {
	return nil, 0, nil
}

func (s *stubSubscriberRepo) ListUnsynced(context.Context, int) ([]domain.Subscriber, error) {
	return nil, nil
}

func (s *stubSubscriberRepo) MarkSynced(_ context.Context, email string, _ time.Time) error {
	s.synced = append(s.synced, email)
	return nil
}

func (s *stubSubscriberRepo) MarkSyncFailed(_ context.Context, email string, _ time.Time, _ string) error {
	s.failed = append(s.failed, email)
	return nil
}

func (s *stubSubscriberRepo) DeleteByEmail(context.Context, string) error { return nil }

type stubPlatform struct {
	err error
}

func (s *stubPlatform) Subscribe(context.Context, string) error { return s.err }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func subscriberCreatedEvent(t *testing.T, email string) *pkgkafka.Event {
	t.Helper()
	ev, err := pkgkafka.NewEvent(TopicSubscriberCreated, "sub-1", AggregateTypeSubscriber, SourceStorefront,
		SubscriberCreatedData{ID: "sub-1", Email: email, Source: domain.SourceProductDownload})
	require.NoError(t, err)
	return ev
}

func TestSubscriberSyncHandler_SyncsEmail(t *testing.T) {
	repo := &stubSubscriberRepo{}
	syncer := newsletter.NewSyncer(repo, &stubPlatform{}, newsletter.SyncerConfig{}, discardLogger())
	handler := SubscriberSyncHandler(syncer, discardLogger())

	err := handler(context.Background(), subscriberCreatedEvent(t, "fan@example.com"))
	require.NoError(t, err)
	assert.Equal(t, []string{"fan@example.com"}, repo.synced)
	assert.Empty(t, repo.failed)
}

func TestSubscriberSyncHandler_SyncFailureDoesNotFailHandler(t *testing.T) {
	repo := &stubSubscriberRepo{}
	platform := &stubPlatform{err: errors.New("platform down")}
	syncer := newsletter.NewSyncer(repo, platform, newsletter.SyncerConfig{}, discardLogger())
	handler := SubscriberSyncHandler(syncer, discardLogger())

	err := handler(context.Background(), subscriberCreatedEvent(t, "fan@example.com"))
	require.NoError(t, err)
	assert.Equal(t, []string{"fan@example.com"}, repo.failed)
}

func TestSubscriberSyncHandler_BadPayload(t *testing.T) {
	repo := &stubSubscriberRepo{}
	syncer := newsletter.NewSyncer(repo, &stubPlatform{}, newsletter.SyncerConfig{}, discardLogger())
	handler := SubscriberSyncHandler(syncer, discardLogger())

	ev := subscriberCreatedEvent(t, "fan@example.com")
	ev.Data = []byte(`{invalid`)

	err := handler(context.Background(), ev)
	assert.Error(t, err)
	assert.Empty(t, repo.synced)
}
