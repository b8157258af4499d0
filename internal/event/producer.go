package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/digitalshelf/storefront/internal/domain"
	pkgkafka "github.com/digitalshelf/storefront/pkg/kafka"
)

// Kafka topics for storefront domain events.
var (
	TopicSubscriberCreated = pkgkafka.Topic("subscriber", "created")
	TopicRatingSubmitted   = pkgkafka.Topic("rating", "submitted")
	TopicProductDownloaded = pkgkafka.Topic("product", "downloaded")
)

// Aggregate type constants.
const (
	AggregateTypeSubscriber = "subscriber"
	AggregateTypeRating     = "rating"
	AggregateTypeProduct    = "product"
)

// Source identifier for events originating from the storefront service.
const SourceStorefront = "storefront"

// SubscriberCreatedData is the payload for a subscriber.created event.
type SubscriberCreatedData struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	ProductID    string    `json:"product_id,omitempty"`
	Source       string    `json:"source"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// RatingSubmittedData is the payload for a rating.submitted event.
type RatingSubmittedData struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	UserEmail string `json:"user_email"`
	Score     int    `json:"score"`
	Updated   bool   `json:"updated"`
}

// ProductDownloadedData is the payload for a product.downloaded event.
type ProductDownloadedData struct {
	ProductID  string `json:"product_id"`
	SalesCount int    `json:"sales_count"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishSubscriberCreated publishes a subscriber.created event.
func (p *Producer) PublishSubscriberCreated(ctx context.Context, sub *domain.Subscriber) error {
	data := SubscriberCreatedData{
		ID:           sub.ID,
		Email:        sub.Email,
		ProductID:    sub.ProductID,
		Source:       sub.Source,
		SubscribedAt: sub.SubscribedAt,
	}

	event, err := pkgkafka.NewEvent(TopicSubscriberCreated, sub.ID, AggregateTypeSubscriber, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create subscriber.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicSubscriberCreated, event); err != nil {
		return fmt.Errorf("publish subscriber.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published subscriber.created event",
		slog.String("subscriber_id", sub.ID),
		slog.String("source", sub.Source),
	)

	return nil
}

// PublishRatingSubmitted publishes a rating.submitted event.
func (p *Producer) PublishRatingSubmitted(ctx context.Context, rating *domain.Rating, updated bool) error {
	data := RatingSubmittedData{
		ID:        rating.ID,
		ProductID: rating.ProductID,
		UserEmail: rating.UserEmail,
		Score:     rating.Score,
		Updated:   updated,
	}

	event, err := pkgkafka.NewEvent(TopicRatingSubmitted, rating.ID, AggregateTypeRating, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create rating.submitted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicRatingSubmitted, event); err != nil {
		return fmt.Errorf("publish rating.submitted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published rating.submitted event",
		slog.String("rating_id", rating.ID),
		slog.String("product_id", rating.ProductID),
		slog.Bool("updated", updated),
	)

	return nil
}

// PublishProductDownloaded publishes a product.downloaded event.
func (p *Producer) PublishProductDownloaded(ctx context.Context, productID string, salesCount int) error {
	data := ProductDownloadedData{
		ProductID:  productID,
		SalesCount: salesCount,
	}

	event, err := pkgkafka.NewEvent(TopicProductDownloaded, productID, AggregateTypeProduct, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create product.downloaded event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductDownloaded, event); err != nil {
		return fmt.Errorf("publish product.downloaded event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.downloaded event",
		slog.String("product_id", productID),
		slog.Int("sales_count", salesCount),
	)

	return nil
}
