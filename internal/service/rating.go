package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/digitalshelf/storefront/internal/domain"
	"github.com/digitalshelf/storefront/internal/event"
	"github.com/digitalshelf/storefront/internal/repository"
	apperrors "github.com/digitalshelf/storefront/pkg/errors"
)

// RatingService implements the business logic for rating operations.
type RatingService struct {
	repo     repository.RatingRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewRatingService creates a new rating service.
func NewRatingService(repo repository.RatingRepository, producer *event.Producer, logger *slog.Logger) *RatingService {
	return &RatingService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// SubmitRatingInput holds the parameters for submitting a rating.
type SubmitRatingInput struct {
	ProductID string `json:"product_id"`
	UserEmail string `json:"user_email"`
	Score     int    `json:"score"`
	Comment   string `json:"comment"`
}

// RatingListResult contains a product's ratings and their aggregate summary.
type RatingListResult struct {
	Ratings []domain.Rating      `json:"ratings"`
	Summary domain.RatingSummary `json:"summary"`
}

// AdminRatingListResult contains a page of ratings across all products.
type AdminRatingListResult struct {
	Ratings    []domain.Rating `json:"ratings"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalPages int             `json:"total_pages"`
}

// Submit records a visitor's rating of a product. A visitor rates each
// product at most once: a repeat submission replaces the stored score,
// comment, and timestamp instead of inserting a duplicate. The returned
// flag reports whether an existing rating was updated.
func (s *RatingService) Submit(ctx context.Context, input *SubmitRatingInput) (*domain.Rating, bool, error) {
	if strings.TrimSpace(input.ProductID) == "" {
		return nil, false, apperrors.InvalidInput("product_id is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.UserEmail))
	if email == "" {
		return nil, false, apperrors.InvalidInput("user_email is required")
	}
	if input.Score < domain.MinScore || input.Score > domain.MaxScore {
		return nil, false, apperrors.InvalidInput(fmt.Sprintf("score must be between %d and %d", domain.MinScore, domain.MaxScore))
	}

	now := time.Now().UTC()

	existing, err := s.repo.GetByProductAndEmail(ctx, input.ProductID, email)
	switch {
	case err == nil:
		existing.Score = input.Score
		existing.Comment = input.Comment
		existing.CreatedAt = now

		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("update rating: %w", err)
		}

		s.publishSubmitted(ctx, existing, true)
		s.logger.InfoContext(ctx, "rating updated",
			slog.String("rating_id", existing.ID),
			slog.String("product_id", existing.ProductID),
			slog.Int("score", existing.Score),
		)

		return existing, true, nil

	case errors.Is(err, apperrors.ErrNotFound):
		rating := &domain.Rating{
			ID:        uuid.New().String(),
			ProductID: input.ProductID,
			UserEmail: email,
			Score:     input.Score,
			Comment:   input.Comment,
			CreatedAt: now,
		}

		if err := s.repo.Create(ctx, rating); err != nil {
			return nil, false, fmt.Errorf("create rating: %w", err)
		}

		s.publishSubmitted(ctx, rating, false)
		s.logger.InfoContext(ctx, "rating created",
			slog.String("rating_id", rating.ID),
			slog.String("product_id", rating.ProductID),
			slog.Int("score", rating.Score),
		)

		return rating, false, nil

	default:
		return nil, false, fmt.Errorf("look up rating: %w", err)
	}
}

// List returns a product's ratings, newest first, with the aggregate summary.
func (s *RatingService) List(ctx context.Context, productID string) (*RatingListResult, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	ratings, err := s.repo.ListByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}

	summary, err := s.repo.GetSummary(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get rating summary: %w", err)
	}

	return &RatingListResult{
		Ratings: ratings,
		Summary: *summary,
	}, nil
}

// ListAll returns paginated ratings across all products.
func (s *RatingService) ListAll(ctx context.Context, page, perPage int) (*AdminRatingListResult, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	ratings, total, err := s.repo.ListAll(ctx, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("list all ratings: %w", err)
	}

	totalPages := total / perPage
	if total%perPage > 0 {
		totalPages++
	}

	return &AdminRatingListResult{
		Ratings:    ratings,
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// Delete removes a rating by its identifier.
func (s *RatingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("rating id is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "rating deleted", slog.String("rating_id", id))

	return nil
}

func (s *RatingService) publishSubmitted(ctx context.Context, rating *domain.Rating, updated bool) {
	if err := s.producer.PublishRatingSubmitted(ctx, rating, updated); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish rating.submitted event",
			slog.String("rating_id", rating.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}
}
