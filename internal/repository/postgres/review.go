package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/SakshamTolani/ProductPro/internal/domain"
	"github.com/SakshamTolani/ProductPro/internal/repository"
	"github.com/SakshamTolani/ProductPro/pkg/database"
	apperrors "github.com/SakshamTolani/ProductPro/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
// The partial-field diff is stored as JSONB so only proposed fields are
// carried on the row.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create inserts a new change request.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	changesJSON, err := json.Marshal(review.Changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}

	query := `
		INSERT INTO reviews (id, product_id, user_id, changes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	ctx, end := database.TraceQuery(ctx, "CreateReview", query)
	_, err = r.pool.Exec(ctx, query,
		review.ID,
		review.ProductID,
		review.UserID,
		changesJSON,
		review.Status,
		review.CreatedAt,
	)
	end(err)
	if err != nil {
		// The only FK on reviews is user_id; product_id is deliberately
		// unconstrained so reviews outlive their product.
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("user", review.UserID)
		}
		return fmt.Errorf("insert review: %w", storeErr(err))
	}

	return nil
}

// GetByID retrieves a change request by its ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `
		SELECT id, product_id, user_id, changes, status, created_at
		FROM reviews
		WHERE id = $1`

	var (
		rev         domain.Review
		changesJSON []byte
	)
	ctx, end := database.TraceQuery(ctx, "GetReview", query)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rev.ID,
		&rev.ProductID,
		&rev.UserID,
		&changesJSON,
		&rev.Status,
		&rev.CreatedAt,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("get review: %w", storeErr(err))
	}

	if changesJSON != nil {
		if err := json.Unmarshal(changesJSON, &rev.Changes); err != nil {
			return nil, fmt.Errorf("unmarshal changes: %w", err)
		}
	}

	return &rev, nil
}

// List returns change requests matching the filter, newest first, joined
// with the submitter's email and the product title for display.
func (r *ReviewRepository) List(ctx context.Context, filter repository.ReviewFilter) ([]domain.ReviewDetail, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("r.user_id = $%d", argIndex))
		args = append(args, *filter.UserID)
		argIndex++
	}

	if filter.ProductID != nil {
		conditions = append(conditions, fmt.Sprintf("r.product_id = $%d", argIndex))
		args = append(args, *filter.ProductID)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT r.id, r.product_id, r.user_id, r.changes, r.status, r.created_at,
		       COALESCE(u.email, ''), COALESCE(p.title, ''),
		       count(*) OVER() AS total_count
		FROM reviews r
		LEFT JOIN users u ON u.id = r.user_id
		LEFT JOIN products p ON p.id = r.product_id
		%s
		ORDER BY r.created_at DESC
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

	ctx, end := database.TraceQuery(ctx, "ListReviews", query)
	rows, err := r.pool.Query(ctx, query, args...)
	end(err)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", storeErr(err))
	}
	defer rows.Close()

	var (
		reviews    []domain.ReviewDetail
		totalCount int
	)

	for rows.Next() {
		var (
			d           domain.ReviewDetail
			changesJSON []byte
		)

		if err := rows.Scan(
			&d.ID,
			&d.ProductID,
			&d.UserID,
			&changesJSON,
			&d.Status,
			&d.CreatedAt,
			&d.UserEmail,
			&d.ProductTitle,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}

		if changesJSON != nil {
			if err := json.Unmarshal(changesJSON, &d.Changes); err != nil {
				return nil, 0, fmt.Errorf("unmarshal changes: %w", err)
			}
		}

		reviews = append(reviews, d)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", storeErr(err))
	}

	if reviews == nil {
		reviews = []domain.ReviewDetail{}
	}

	return reviews, totalCount, nil
}

// UpdateStatus transitions a change request conditionally on its current
// status. When two decisions race on the same review, the row predicate
// guarantees exactly one UPDATE matches; the loser sees zero rows affected
// and gets an already-processed error.
func (r *ReviewRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ReviewStatus) error {
	query := `
		UPDATE reviews
		SET status = $3
		WHERE id = $1 AND status = $2`

	tctx, end := database.TraceQuery(ctx, "UpdateReviewStatus", query)
	ct, err := r.pool.Exec(tctx, query, id, from, to)
	end(err)
	if err != nil {
		return fmt.Errorf("update review status: %w", storeErr(err))
	}

	if ct.RowsAffected() == 0 {
		// Distinguish a missing review from one already decided.
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return apperrors.AlreadyProcessed(id, string(current.Status))
	}

	return nil
}

// CountByUser returns per-status counts of a user's change requests.
func (r *ReviewRepository) CountByUser(ctx context.Context, userID string) (*domain.UserStats, error) {
	query := `
		SELECT count(*),
		       count(*) FILTER (WHERE status = 'approved'),
		       count(*) FILTER (WHERE status = 'rejected'),
		       count(*) FILTER (WHERE status = 'pending')
		FROM reviews
		WHERE user_id = $1`

	ctx, end := database.TraceQuery(ctx, "CountReviewsByUser", query)
	var stats domain.UserStats
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&stats.Total,
		&stats.Approved,
		&stats.Rejected,
		&stats.Pending,
	)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("count reviews by user: %w", storeErr(err))
	}

	return &stats, nil
}
