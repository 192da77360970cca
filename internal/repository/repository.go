package repository

import (
	"context"

	"github.com/SakshamTolani/ProductPro/internal/domain"
)

// ReviewFilter defines filter criteria for listing change requests.
// Nil fields are not filtered on. Results are ordered newest first.
type ReviewFilter struct {
	Status    *domain.ReviewStatus
	UserID    *string
	ProductID *string
	Page      int
	PerPage   int
}

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	// Create inserts a new product.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products ordered newest first along with the total count.
	List(ctx context.Context, page, perPage int) ([]domain.Product, int, error)

	// ApplyFields overwrites only the fields set in changes, leaves the rest
	// untouched, and bumps updated_at. Returns the updated product.
	ApplyFields(ctx context.Context, id string, changes domain.ProductChanges) (*domain.Product, error)

	// Delete removes a product by its identifier.
	Delete(ctx context.Context, id string) error
}

// ReviewRepository defines change request persistence operations.
type ReviewRepository interface {
	// Create inserts a new change request.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a change request by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// List returns change requests matching the filter, newest first,
	// enriched with submitter email and product title, with the total count.
	List(ctx context.Context, filter ReviewFilter) ([]domain.ReviewDetail, int, error)

	// UpdateStatus transitions a change request from the expected prior
	// status to the new one. The update is conditional on the prior status
	// so that under concurrent decisions only one caller observes the
	// pending row and transitions it; a caller that lost the race gets an
	// already-processed error.
	UpdateStatus(ctx context.Context, id string, from, to domain.ReviewStatus) error

	// CountByUser returns per-status counts of a user's change requests.
	CountByUser(ctx context.Context, userID string) (*domain.UserStats, error)
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Stores bundles the repositories that participate in a transaction.
type Stores struct {
	Products ProductRepository
	Reviews  ReviewRepository
}

// Transactor runs a function with repositories bound to a single database
// transaction. If fn returns an error the transaction is rolled back and
// none of its writes survive.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}
