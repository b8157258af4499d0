package repository

import (
	"context"
	"time"

	"github.com/digitalshelf/storefront/internal/domain"
)

// SubscriberFilter defines filter criteria for listing subscribers.
type SubscriberFilter struct {
	Synced    *bool
	ProductID *string
	Source    *string
	Page      int
	PerPage   int
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products ordered by creation time along with the total count.
	List(ctx context.Context, page, perPage int) ([]domain.Product, int, error)

	// Upsert inserts a product or, when the id already exists, replaces its fields.
	Upsert(ctx context.Context, product *domain.Product) error

	// Delete removes a product and its ratings from the store.
	Delete(ctx context.Context, id string) error

	// IncrementSales bumps a product's sales counter and returns the new count.
	IncrementSales(ctx context.Context, id string) (int, error)
}

// RatingRepository defines the interface for rating persistence operations.
type RatingRepository interface {
	// Create inserts a new rating into the store.
	Create(ctx context.Context, rating *domain.Rating) error

	// Update replaces the score, comment, and timestamp of an existing rating.
	Update(ctx context.Context, rating *domain.Rating) error

	// GetByProductAndEmail retrieves the rating a visitor left on a product.
	GetByProductAndEmail(ctx context.Context, productID, email string) (*domain.Rating, error)

	// ListByProductID returns a product's ratings, newest first.
	ListByProductID(ctx context.Context, productID string) ([]domain.Rating, error)

	// ListAll returns paginated ratings across all products with the total count.
	ListAll(ctx context.Context, page, perPage int) ([]domain.Rating, int, error)

	// GetSummary returns the aggregate rating statistics for a product.
	GetSummary(ctx context.Context, productID string) (*domain.RatingSummary, error)

	// Delete removes a rating from the store by its identifier.
	Delete(ctx context.Context, id string) error
}

// SubscriberRepository defines the interface for subscriber persistence operations.
type SubscriberRepository interface {
	// Create inserts a new subscriber into the store.
	Create(ctx context.Context, sub *domain.Subscriber) error

	// GetByEmail retrieves a subscriber by email address.
	GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error)

	// List returns subscribers matching the given filter with the total count.
	List(ctx context.Context, filter SubscriberFilter) ([]domain.Subscriber, int, error)

	// ListUnsynced returns subscribers not yet pushed to the mailing list.
	ListUnsynced(ctx context.Context, limit int) ([]domain.Subscriber, error)

	// MarkSynced records a successful sync for a subscriber.
	MarkSynced(ctx context.Context, email string, at time.Time) error

	// MarkSyncFailed records a failed sync attempt and its error.
	MarkSyncFailed(ctx context.Context, email string, at time.Time, syncErr string) error

	// DeleteByEmail removes a subscriber from the store by email address.
	DeleteByEmail(ctx context.Context, email string) error
}
