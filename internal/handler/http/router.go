package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/digitalshelf/storefront/internal/newsletter"
	"github.com/digitalshelf/storefront/internal/service"
	"github.com/digitalshelf/storefront/pkg/health"
	"github.com/digitalshelf/storefront/pkg/middleware"
)

// RouterConfig holds the HTTP-level settings the router needs.
type RouterConfig struct {
	ServiceName       string
	CORS              middleware.CORSConfig
	RateLimit         middleware.RateLimitConfig
	PprofAllowedCIDRs []string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	productService *service.ProductService,
	ratingService *service.RatingService,
	subscriberService *service.SubscriberService,
	syncer *newsletter.Syncer,
	healthHandler *health.Handler,
	rdb *redis.Client,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))

	// Throttle the public write endpoints. Without Redis the limiter is
	// skipped entirely rather than half-configured.
	limit := func(next http.Handler) http.Handler { return next }
	if rdb != nil {
		limit = middleware.RateLimit(rdb, cfg.RateLimit, logger)
	}

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	// Storefront API endpoints
	productHandler := NewProductHandler(productService, logger)
	ratingHandler := NewRatingHandler(ratingService, logger)
	subscriberHandler := NewSubscriberHandler(subscriberService, logger)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", productHandler.ListProducts)
		r.Get("/{id}", productHandler.GetProduct)
		r.Get("/{id}/content", productHandler.GetProductContent)
		r.With(limit).Post("/{id}/download", productHandler.TrackDownload)

		r.Get("/{id}/ratings", ratingHandler.ListRatings)
		r.With(limit, ContentTypeJSON).Post("/{id}/ratings", ratingHandler.SubmitRating)
	})

	r.Route("/api/v1/subscribers", func(r chi.Router) {
		r.With(limit, ContentTypeJSON).Post("/", subscriberHandler.Subscribe)
	})

	// Admin API endpoints
	adminHandler := NewAdminHandler(productService, ratingService, subscriberService, syncer, logger)

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.With(ContentTypeJSON).Put("/products/{id}", adminHandler.UpsertProduct)
		r.Delete("/products/{id}", adminHandler.DeleteProduct)

		r.Get("/ratings", adminHandler.ListAllRatings)
		r.Delete("/ratings/{id}", adminHandler.DeleteRating)

		r.Get("/subscribers", adminHandler.ListSubscribers)
		r.Delete("/subscribers", adminHandler.DeleteSubscriber)
		r.With(ContentTypeJSON).Post("/subscribers/sync", adminHandler.SyncSubscribers)
	})

	return r
}
