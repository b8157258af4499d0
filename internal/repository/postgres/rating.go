package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/digitalshelf/storefront/internal/domain"
	"github.com/digitalshelf/storefront/pkg/database"
	apperrors "github.com/digitalshelf/storefront/pkg/errors"
)

// RatingRepository implements repository.RatingRepository using PostgreSQL.
type RatingRepository struct {
	pool database.DBTX
}

// NewRatingRepository creates a new PostgreSQL-backed rating repository.
func NewRatingRepository(pool database.DBTX) *RatingRepository {
	return &RatingRepository{pool: pool}
}

const ratingColumns = "id, product_id, user_email, score, comment, created_at"

// Create inserts a new rating into the database.
func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	query := `
		INSERT INTO ratings (` + ratingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`

	ctx, end := database.TraceQuery(ctx, "CreateRating", query)

	_, err := r.pool.Exec(ctx, query,
		rating.ID,
		rating.ProductID,
		rating.UserEmail,
		rating.Score,
		rating.Comment,
		rating.CreatedAt,
	)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("rating", "user_email", rating.UserEmail)
		}
		return fmt.Errorf("insert rating: %w", err)
	}

	return nil
}

// Update replaces the score, comment, and timestamp of an existing rating.
func (r *RatingRepository) Update(ctx context.Context, rating *domain.Rating) error {
	query := `
		UPDATE ratings
		SET score = $1, comment = $2, created_at = $3
		WHERE id = $4`

	ctx, end := database.TraceQuery(ctx, "UpdateRating", query)

	ct, err := r.pool.Exec(ctx, query,
		rating.Score,
		rating.Comment,
		rating.CreatedAt,
		rating.ID,
	)
	end(err)
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("rating", rating.ID)
	}

	return nil
}

// GetByProductAndEmail retrieves the rating a visitor left on a product.
func (r *RatingRepository) GetByProductAndEmail(ctx context.Context, productID, email string) (*domain.Rating, error) {
	query := `
		SELECT ` + ratingColumns + `
		FROM ratings
		WHERE product_id = $1 AND user_email = $2`

	ctx, end := database.TraceQuery(ctx, "GetRating", query)

	var rating domain.Rating
	err := r.pool.QueryRow(ctx, query, productID, email).Scan(
		&rating.ID,
		&rating.ProductID,
		&rating.UserEmail,
		&rating.Score,
		&rating.Comment,
		&rating.CreatedAt,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan rating: %w", err)
	}

	return &rating, nil
}

// ListByProductID returns all ratings for a product, newest first.
func (r *RatingRepository) ListByProductID(ctx context.Context, productID string) ([]domain.Rating, error) {
	query := `
		SELECT ` + ratingColumns + `
		FROM ratings
		WHERE product_id = $1
		ORDER BY created_at DESC`

	ctx, end := database.TraceQuery(ctx, "ListRatings", query)

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	ratings, err := scanRatings(rows, nil)
	end(err)
	if err != nil {
		return nil, err
	}

	return ratings, nil
}

// ListAll returns paginated ratings across all products along with the total count.
func (r *RatingRepository) ListAll(ctx context.Context, page, perPage int) ([]domain.Rating, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	query := `
		SELECT ` + ratingColumns + `,
		       count(*) OVER() AS total_count
		FROM ratings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	ctx, end := database.TraceQuery(ctx, "ListAllRatings", query)

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		end(err)
		return nil, 0, fmt.Errorf("list all ratings: %w", err)
	}
	defer rows.Close()

	var totalCount int
	ratings, err := scanRatings(rows, &totalCount)
	end(err)
	if err != nil {
		return nil, 0, err
	}

	return ratings, totalCount, nil
}

// GetSummary returns the rating count and unrounded average for a product.
// Rounding is a presentation concern and is not applied here.
func (r *RatingRepository) GetSummary(ctx context.Context, productID string) (*domain.RatingSummary, error) {
	query := `
		SELECT COALESCE(AVG(score), 0), COUNT(*)
		FROM ratings
		WHERE product_id = $1`

	ctx, end := database.TraceQuery(ctx, "GetRatingSummary", query)

	var summary domain.RatingSummary
	err := r.pool.QueryRow(ctx, query, productID).Scan(
		&summary.Average,
		&summary.Count,
	)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("get rating summary: %w", err)
	}

	return &summary, nil
}

// Delete removes a rating from the database by its ID.
func (r *RatingRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM ratings WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteRating", query)

	ct, err := r.pool.Exec(ctx, query, id)
	end(err)
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("rating", id)
	}

	return nil
}

// scanRatings drains a rating result set. When totalCount is non-nil the
// query is expected to carry a trailing count(*) OVER() column.
func scanRatings(rows pgx.Rows, totalCount *int) ([]domain.Rating, error) {
	var ratings []domain.Rating

	for rows.Next() {
		var rt domain.Rating

		dest := []any{
			&rt.ID,
			&rt.ProductID,
			&rt.UserEmail,
			&rt.Score,
			&rt.Comment,
			&rt.CreatedAt,
		}
		if totalCount != nil {
			dest = append(dest, totalCount)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan rating row: %w", err)
		}

		ratings = append(ratings, rt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating rows: %w", err)
	}

	if ratings == nil {
		ratings = []domain.Rating{}
	}

	return ratings, nil
}
