package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/digitalshelf/storefront/internal/domain"
	"github.com/digitalshelf/storefront/internal/event"
	"github.com/digitalshelf/storefront/internal/markup"
	"github.com/digitalshelf/storefront/internal/repository"
	apperrors "github.com/digitalshelf/storefront/pkg/errors"
)

// ProductService implements the business logic for product operations.
type ProductService struct {
	products repository.ProductRepository
	ratings  repository.RatingRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(products repository.ProductRepository, ratings repository.RatingRepository, producer *event.Producer, logger *slog.Logger) *ProductService {
	return &ProductService{
		products: products,
		ratings:  ratings,
		producer: producer,
		logger:   logger,
	}
}

// ProductWithSummary pairs a product with its aggregate rating statistics.
type ProductWithSummary struct {
	domain.Product
	Ratings domain.RatingSummary `json:"ratings"`
}

// ProductListResult contains a page of products with rating summaries.
type ProductListResult struct {
	Products   []ProductWithSummary `json:"products"`
	TotalCount int                  `json:"total_count"`
	Page       int                  `json:"page"`
	PerPage    int                  `json:"per_page"`
	TotalPages int                  `json:"total_pages"`
}

// ProductContent is the rendered long description of a product.
type ProductContent struct {
	ProductID string         `json:"product_id"`
	Blocks    []markup.Block `json:"blocks"`
	HTML      string         `json:"html"`
}

// UpsertProductInput holds the parameters for creating or replacing a product.
type UpsertProductInput struct {
	ID              string `json:"id" validate:"required"`
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description"`
	LongDescription string `json:"long_description"`
	Image           string `json:"image"`
	Price           int64  `json:"price" validate:"gte=0"`
	DownloadURL     string `json:"download_url"`
}

// List returns paginated products, each with its rating summary.
func (s *ProductService) List(ctx context.Context, page, perPage int) (*ProductListResult, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	products, total, err := s.products.List(ctx, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	withSummaries := make([]ProductWithSummary, 0, len(products))
	for _, p := range products {
		summary, err := s.ratings.GetSummary(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("get rating summary: %w", err)
		}
		withSummaries = append(withSummaries, ProductWithSummary{Product: p, Ratings: *summary})
	}

	totalPages := total / perPage
	if total%perPage > 0 {
		totalPages++
	}

	return &ProductListResult{
		Products:   withSummaries,
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// Get retrieves a product by ID.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	return s.products.GetByID(ctx, id)
}

// Content returns the product's long description rendered into markup
// blocks and an escaped HTML fragment.
func (s *ProductService) Content(ctx context.Context, id string) (*ProductContent, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	blocks := markup.Render(product.LongDescription)

	return &ProductContent{
		ProductID: product.ID,
		Blocks:    blocks,
		HTML:      markup.HTML(blocks),
	}, nil
}

// Download records a product download, returning the new sales count.
func (s *ProductService) Download(ctx context.Context, id string) (int, error) {
	if id == "" {
		return 0, apperrors.InvalidInput("product id is required")
	}

	count, err := s.products.IncrementSales(ctx, id)
	if err != nil {
		return 0, err
	}

	if err := s.producer.PublishProductDownloaded(ctx, id, count); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.downloaded event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "product downloaded",
		slog.String("product_id", id),
		slog.Int("sales_count", count),
	)

	return count, nil
}

// Upsert creates a product or replaces an existing one with the same id.
func (s *ProductService) Upsert(ctx context.Context, input *UpsertProductInput) (*domain.Product, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.InvalidInput("product title is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("product price must not be negative")
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:              strings.TrimSpace(input.ID),
		Title:           input.Title,
		Description:     input.Description,
		LongDescription: input.LongDescription,
		Image:           input.Image,
		Price:           input.Price,
		DownloadURL:     input.DownloadURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.products.Upsert(ctx, product); err != nil {
		return nil, fmt.Errorf("upsert product: %w", err)
	}

	s.logger.InfoContext(ctx, "product upserted",
		slog.String("product_id", product.ID),
		slog.String("title", product.Title),
	)

	return product, nil
}

// Delete removes a product and its ratings.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("product id is required")
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))

	return nil
}
