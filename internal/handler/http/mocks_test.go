package http

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/digitalshelf/storefront/internal/domain"
	"github.com/digitalshelf/storefront/internal/event"
	"github.com/digitalshelf/storefront/internal/newsletter"
	"github.com/digitalshelf/storefront/internal/repository"
	"github.com/digitalshelf/storefront/internal/service"
	"github.com/digitalshelf/storefront/pkg/health"
	pkgkafka "github.com/digitalshelf/storefront/pkg/kafka"
	"github.com/digitalshelf/storefront/pkg/middleware"
)

// ============================================================================
// Mock repositories
// ============================================================================

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, page, perPage int) ([]domain.Product, int, error) {
	args := m.Called(ctx, page, perPage)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepository) Upsert(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepository) IncrementSales(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type mockRatingRepository struct {
	mock.Mock
}

func (m *mockRatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *mockRatingRepository) Update(ctx context.Context, rating *domain.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *mockRatingRepository) GetByProductAndEmail(ctx context.Context, productID, email string) (*domain.Rating, error) {
	args := m.Called(ctx, productID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rating), args.Error(1)
}

func (m *mockRatingRepository) ListByProductID(ctx context.Context, productID string) ([]domain.Rating, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.Rating), args.Error(1)
}

func (m *mockRatingRepository) ListAll(ctx context.Context, page, perPage int) ([]domain.Rating, int, error) {
	args := m.Called(ctx, page, perPage)
	return args.Get(0).([]domain.Rating), args.Int(1), args.Error(2)
}

func (m *mockRatingRepository) GetSummary(ctx context.Context, productID string) (*domain.RatingSummary, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}

func (m *mockRatingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockSubscriberRepository struct {
	mock.Mock
}

func (m *mockSubscriberRepository) Create(ctx context.Context, sub *domain.Subscriber) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *mockSubscriberRepository) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscriber), args.Error(1)
}

func (m *mockSubscriberRepository) List(ctx context.Context, filter repository.SubscriberFilter) ([]domain.Subscriber, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Subscriber), args.Int(1), args.Error(2)
}

func (m *mockSubscriberRepository) ListUnsynced(ctx context.Context, limit int) ([]domain.Subscriber, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Subscriber), args.Error(1)
}

func (m *mockSubscriberRepository) MarkSynced(ctx context.Context, email string, at time.Time) error {
	args := m.Called(ctx, email, at)
	return args.Error(0)
}

func (m *mockSubscriberRepository) MarkSyncFailed(ctx context.Context, email string, at time.Time, syncErr string) error {
	args := m.Called(ctx, email, at, syncErr)
	return args.Error(0)
}

func (m *mockSubscriberRepository) DeleteByEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// stubPlatform stands in for the newsletter platform client.
type stubPlatform struct {
	err     error
	started chan struct{}
	block   chan struct{}
}

func (s *stubPlatform) Subscribe(context.Context, string) error {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}
	return s.err
}

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// testEventProducer returns an event producer backed by a Kafka client with
// no reachable broker. Publishing fails and is logged; requests are not
// affected because publishing is best-effort.
func testEventProducer(t *testing.T) *event.Producer {
	t.Helper()
	logger := testLogger()
	cfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(cfg, logger), logger)
}

// testRouter builds the production router on top of mock repositories, with
// no Redis so the rate limiter is a passthrough.
func testRouter(
	t *testing.T,
	products *mockProductRepository,
	ratings *mockRatingRepository,
	subscribers *mockSubscriberRepository,
	platform *stubPlatform,
) http.Handler {
	t.Helper()

	logger := testLogger()
	producer := testEventProducer(t)

	productService := service.NewProductService(products, ratings, producer, logger)
	ratingService := service.NewRatingService(ratings, producer, logger)
	subscriberService := service.NewSubscriberService(subscribers, producer, logger)
	syncer := newsletter.NewSyncer(subscribers, platform, newsletter.SyncerConfig{}, logger)

	cfg := RouterConfig{
		ServiceName: "storefront",
		CORS:        middleware.DefaultCORSConfig(),
	}

	return NewRouter(productService, ratingService, subscriberService, syncer, health.NewHandler(), nil, cfg, logger)
}
