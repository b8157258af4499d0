package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/digitalshelf/storefront/internal/domain"
	"github.com/digitalshelf/storefront/internal/repository"
	"github.com/digitalshelf/storefront/pkg/database"
	apperrors "github.com/digitalshelf/storefront/pkg/errors"
)

// SubscriberRepository implements repository.SubscriberRepository using PostgreSQL.
type SubscriberRepository struct {
	pool database.DBTX
}

// NewSubscriberRepository creates a new PostgreSQL-backed subscriber repository.
func NewSubscriberRepository(pool database.DBTX) *SubscriberRepository {
	return &SubscriberRepository{pool: pool}
}

const subscriberColumns = "id, email, product_id, source, subscribed_at, synced, sync_attempts, last_sync_attempt, sync_error"

// Create inserts a new subscriber into the database.
func (r *SubscriberRepository) Create(ctx context.Context, sub *domain.Subscriber) error {
	query := `
		INSERT INTO email_subscribers (` + subscriberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	ctx, end := database.TraceQuery(ctx, "CreateSubscriber", query)

	_, err := r.pool.Exec(ctx, query,
		sub.ID,
		sub.Email,
		nullableString(sub.ProductID),
		sub.Source,
		sub.SubscribedAt,
		sub.Synced,
		sub.SyncAttempts,
		sub.LastSyncAttempt,
		nullableString(sub.SyncError),
	)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("subscriber", "email", sub.Email)
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}

	return nil
}

// GetByEmail retrieves a subscriber by email address.
func (r *SubscriberRepository) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	query := `
		SELECT ` + subscriberColumns + `
		FROM email_subscribers
		WHERE email = $1`

	ctx, end := database.TraceQuery(ctx, "GetSubscriber", query)

	sub, err := r.scanSubscriber(r.pool.QueryRow(ctx, query, email))
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan subscriber: %w", err)
	}

	return sub, nil
}

// List returns subscribers matching the given filter with the total count.
func (r *SubscriberRepository) List(ctx context.Context, filter repository.SubscriberFilter) ([]domain.Subscriber, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Synced != nil {
		conditions = append(conditions, fmt.Sprintf("synced = $%d", argIndex))
		args = append(args, *filter.Synced)
		argIndex++
	}

	if filter.ProductID != nil {
		conditions = append(conditions, fmt.Sprintf("product_id = $%d", argIndex))
		args = append(args, *filter.ProductID)
		argIndex++
	}

	if filter.Source != nil {
		conditions = append(conditions, fmt.Sprintf("source = $%d", argIndex))
		args = append(args, *filter.Source)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT `+subscriberColumns+`,
		       count(*) OVER() AS total_count
		FROM email_subscribers
		%s
		ORDER BY subscribed_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	ctx, end := database.TraceQuery(ctx, "ListSubscribers", query)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		end(err)
		return nil, 0, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var (
		subs       []domain.Subscriber
		totalCount int
	)

	for rows.Next() {
		var (
			sub       domain.Subscriber
			productID *string
			syncErr   *string
		)

		if err := rows.Scan(
			&sub.ID,
			&sub.Email,
			&productID,
			&sub.Source,
			&sub.SubscribedAt,
			&sub.Synced,
			&sub.SyncAttempts,
			&sub.LastSyncAttempt,
			&syncErr,
			&totalCount,
		); err != nil {
			end(err)
			return nil, 0, fmt.Errorf("scan subscriber row: %w", err)
		}

		if productID != nil {
			sub.ProductID = *productID
		}
		if syncErr != nil {
			sub.SyncError = *syncErr
		}

		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, 0, fmt.Errorf("iterate subscriber rows: %w", err)
	}
	end(nil)

	if subs == nil {
		subs = []domain.Subscriber{}
	}

	return subs, totalCount, nil
}

// ListUnsynced returns subscribers not yet pushed to the mailing list,
// oldest first so retries drain in subscription order.
func (r *SubscriberRepository) ListUnsynced(ctx context.Context, limit int) ([]domain.Subscriber, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT ` + subscriberColumns + `
		FROM email_subscribers
		WHERE synced = false
		ORDER BY subscribed_at ASC
		LIMIT $1`

	ctx, end := database.TraceQuery(ctx, "ListUnsyncedSubscribers", query)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("list unsynced subscribers: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscriber

	for rows.Next() {
		var (
			sub       domain.Subscriber
			productID *string
			syncErr   *string
		)

		if err := rows.Scan(
			&sub.ID,
			&sub.Email,
			&productID,
			&sub.Source,
			&sub.SubscribedAt,
			&sub.Synced,
			&sub.SyncAttempts,
			&sub.LastSyncAttempt,
			&syncErr,
		); err != nil {
			end(err)
			return nil, fmt.Errorf("scan subscriber row: %w", err)
		}

		if productID != nil {
			sub.ProductID = *productID
		}
		if syncErr != nil {
			sub.SyncError = *syncErr
		}

		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, fmt.Errorf("iterate subscriber rows: %w", err)
	}
	end(nil)

	if subs == nil {
		subs = []domain.Subscriber{}
	}

	return subs, nil
}

// MarkSynced records a successful sync for a subscriber.
func (r *SubscriberRepository) MarkSynced(ctx context.Context, email string, at time.Time) error {
	query := `
		UPDATE email_subscribers
		SET synced = true, sync_attempts = sync_attempts + 1,
		    last_sync_attempt = $2, sync_error = NULL
		WHERE email = $1`

	ctx, end := database.TraceQuery(ctx, "MarkSubscriberSynced", query)

	ct, err := r.pool.Exec(ctx, query, email, at)
	end(err)
	if err != nil {
		return fmt.Errorf("mark subscriber synced: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("subscriber", email)
	}

	return nil
}

// MarkSyncFailed records a failed sync attempt and its error.
func (r *SubscriberRepository) MarkSyncFailed(ctx context.Context, email string, at time.Time, syncErr string) error {
	query := `
		UPDATE email_subscribers
		SET sync_attempts = sync_attempts + 1,
		    last_sync_attempt = $2, sync_error = $3
		WHERE email = $1`

	ctx, end := database.TraceQuery(ctx, "MarkSubscriberSyncFailed", query)

	ct, err := r.pool.Exec(ctx, query, email, at, syncErr)
	end(err)
	if err != nil {
		return fmt.Errorf("mark subscriber sync failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("subscriber", email)
	}

	return nil
}

// DeleteByEmail removes a subscriber from the database by email address.
func (r *SubscriberRepository) DeleteByEmail(ctx context.Context, email string) error {
	query := `DELETE FROM email_subscribers WHERE email = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteSubscriber", query)

	ct, err := r.pool.Exec(ctx, query, email)
	end(err)
	if err != nil {
		return fmt.Errorf("delete subscriber: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("subscriber", email)
	}

	return nil
}

// scanSubscriber reads a single subscriber row.
func (r *SubscriberRepository) scanSubscriber(row pgx.Row) (*domain.Subscriber, error) {
	var (
		sub       domain.Subscriber
		productID *string
		syncErr   *string
	)

	if err := row.Scan(
		&sub.ID,
		&sub.Email,
		&productID,
		&sub.Source,
		&sub.SubscribedAt,
		&sub.Synced,
		&sub.SyncAttempts,
		&sub.LastSyncAttempt,
		&syncErr,
	); err != nil {
		return nil, err
	}

	if productID != nil {
		sub.ProductID = *productID
	}
	if syncErr != nil {
		sub.SyncError = *syncErr
	}

	return &sub, nil
}

// nullableString maps an empty string to SQL NULL.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
