package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SakshamTolani/ProductPro/internal/domain"
	"github.com/SakshamTolani/ProductPro/pkg/database"
	apperrors "github.com/SakshamTolani/ProductPro/pkg/errors"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = "id, title, description, price_cents, image_url, created_at, updated_at"

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (id, title, description, price_cents, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	ctx, end := database.TraceQuery(ctx, "CreateProduct", query)
	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		p.PriceCents,
		p.ImageURL,
		p.CreatedAt,
		p.UpdatedAt,
	)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "id", p.ID)
		}
		return fmt.Errorf("insert product: %w", storeErr(err))
	}

	return nil
}

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
		&p.PriceCents,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product: %w", storeErr(err))
	}

	return &p, nil
}

// List returns products ordered newest first along with the total count.
func (r *ProductRepository) List(ctx context.Context, page, perPage int) ([]domain.Product, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	// count(*) OVER() yields the total count in the same query.
	query := `
		SELECT ` + productColumns + `,
		       count(*) OVER() AS total_count
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	ctx, end := database.TraceQuery(ctx, "ListProducts", query)
	rows, err := r.pool.Query(ctx, query, limit, offset)
	end(err)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", storeErr(err))
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
			&p.PriceCents,
			&p.ImageURL,
			&p.CreatedAt,
			&p.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", storeErr(err))
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, totalCount, nil
}

// ApplyFields overwrites only the supplied fields and bumps updated_at.
// Fields not carried by the diff keep their current value.
func (r *ProductRepository) ApplyFields(ctx context.Context, id string, changes domain.ProductChanges) (*domain.Product, error) {
	query := `
		UPDATE products
		SET title       = COALESCE($2, title),
		    description = COALESCE($3, description),
		    price_cents = COALESCE($4, price_cents),
		    image_url   = COALESCE($5, image_url),
		    updated_at  = $6
		WHERE id = $1
		RETURNING ` + productColumns

	ctx, end := database.TraceQuery(ctx, "ApplyProductFields", query)
	var p domain.Product
	err := r.pool.QueryRow(ctx, query,
		id,
		changes.Title,
		changes.Description,
		changes.PriceCents,
		changes.ImageURL,
		time.Now().UTC(),
	).Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.PriceCents,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("apply product fields: %w", storeErr(err))
	}

	return &p, nil
}

// Delete removes a product by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM products WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteProduct", query)
	tag, err := r.pool.Exec(ctx, query, id)
	end(err)
	if err != nil {
		return fmt.Errorf("delete product: %w", storeErr(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}
