package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/digitalshelf/storefront/internal/domain"
	"github.com/digitalshelf/storefront/pkg/database"
	apperrors "github.com/digitalshelf/storefront/pkg/errors"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = "id, title, description, long_description, image, price, download_url, sales_count, created_at, updated_at"

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetProduct", query)

	var p domain.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.LongDescription,
		&p.Image,
		&p.Price,
		&p.DownloadURL,
		&p.SalesCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return &p, nil
}

// List returns paginated products ordered by creation time, newest first,
// along with the total count.
func (r *ProductRepository) List(ctx context.Context, page, perPage int) ([]domain.Product, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	// Use count(*) OVER() for total count in a single query.
	query := `
		SELECT ` + productColumns + `,
		       count(*) OVER() AS total_count
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	ctx, end := database.TraceQuery(ctx, "ListProducts", query)

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		end(err)
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		products   []domain.Product
		totalCount int
	)

	for rows.Next() {
		var p domain.Product

		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.LongDescription,
			&p.Image,
			&p.Price,
			&p.DownloadURL,
			&p.SalesCount,
			&p.CreatedAt,
			&p.UpdatedAt,
			&totalCount,
		); err != nil {
			end(err)
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}
	end(nil)

	if products == nil {
		products = []domain.Product{}
	}

	return products, totalCount, nil
}

// Upsert inserts a product or replaces the fields of an existing one with the
// same id. The sales counter is preserved on update.
func (r *ProductRepository) Upsert(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
		    description = EXCLUDED.description,
		    long_description = EXCLUDED.long_description,
		    image = EXCLUDED.image,
		    price = EXCLUDED.price,
		    download_url = EXCLUDED.download_url,
		    updated_at = EXCLUDED.updated_at`

	ctx, end := database.TraceQuery(ctx, "UpsertProduct", query)

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		p.LongDescription,
		p.Image,
		p.Price,
		p.DownloadURL,
		p.SalesCount,
		p.CreatedAt,
		p.UpdatedAt,
	)
	end(err)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}

	return nil
}

// Delete removes a product and its ratings in a single transaction.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, end := database.TraceQuery(ctx, "DeleteProduct", "DELETE FROM products WHERE id = $1")

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		end(err)
		return fmt.Errorf("begin delete product: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM ratings WHERE product_id = $1`, id); err != nil {
		end(err)
		return fmt.Errorf("delete product ratings: %w", err)
	}

	ct, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		end(err)
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		end(nil)
		return apperrors.NotFound("product", id)
	}

	if err := tx.Commit(ctx); err != nil {
		end(err)
		return fmt.Errorf("commit delete product: %w", err)
	}
	end(nil)

	return nil
}

// IncrementSales bumps a product's sales counter, refreshes updated_at, and
// returns the new count.
func (r *ProductRepository) IncrementSales(ctx context.Context, id string) (int, error) {
	query := `
		UPDATE products
		SET sales_count = sales_count + 1, updated_at = $2
		WHERE id = $1
		RETURNING sales_count`

	ctx, end := database.TraceQuery(ctx, "IncrementSales", query)

	var count int
	err := r.pool.QueryRow(ctx, query, id, time.Now().UTC()).Scan(&count)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NotFound("product", id)
		}
		return 0, fmt.Errorf("increment sales: %w", err)
	}

	return count, nil
}
