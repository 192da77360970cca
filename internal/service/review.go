package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SakshamTolani/ProductPro/internal/domain"
	"github.com/SakshamTolani/ProductPro/internal/event"
	"github.com/SakshamTolani/ProductPro/internal/repository"
	apperrors "github.com/SakshamTolani/ProductPro/pkg/errors"
)

// ReviewService implements the moderated edit workflow. Edits from team
// members become pending change requests; edits from admins apply
// immediately. Admins decide pending requests, and an approval applies the
// stored diff to the product in the same transaction as the status change.
type ReviewService struct {
	products repository.ProductRepository
	reviews  repository.ReviewRepository
	tx       repository.Transactor
	cache    ProductCache
	producer *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	products repository.ProductRepository,
	reviews repository.ReviewRepository,
	tx repository.Transactor,
	cache ProductCache,
	producer *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		products: products,
		reviews:  reviews,
		tx:       tx,
		cache:    cache,
		producer: producer,
		logger:   logger,
	}
}

// SubmitResult is the outcome of submitting an edit. Exactly one of Product
// and Review is set: Product when the edit was applied immediately, Review
// when it was queued for moderation.
type SubmitResult struct {
	Applied bool            `json:"applied"`
	Product *domain.Product `json:"product,omitempty"`
	Review  *domain.Review  `json:"review,omitempty"`
}

// SubmitChange routes an edit based on the actor's role. An admin's changes
// are applied to the product immediately; a team member's changes are stored
// as a pending change request. The changes are validated and the product's
// existence checked in both paths.
func (s *ReviewService) SubmitChange(ctx context.Context, actor domain.Actor, productID string, changes domain.ProductChanges) (*SubmitResult, error) {
	if err := changes.Validate(); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	if !actor.Role.Valid() {
		return nil, apperrors.Unauthorized("unknown role")
	}

	// The existence check happens before role dispatch so both paths report
	// a missing product the same way.
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("get product for edit: %w", err)
	}

	if actor.Role == domain.RoleAdmin {
		product, err := s.products.ApplyFields(ctx, productID, changes)
		if err != nil {
			return nil, fmt.Errorf("apply admin edit: %w", err)
		}

		s.invalidateCache(ctx, product.ID)

		if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish product.updated event",
				slog.String("product_id", product.ID),
				slog.String("error", err.Error()),
			)
			// Do not fail the operation if event publishing fails.
		}

		s.logger.InfoContext(ctx, "admin edit applied",
			slog.String("product_id", product.ID),
			slog.String("user_id", actor.ID),
		)

		return &SubmitResult{Applied: true, Product: product}, nil
	}

	review := &domain.Review{
		ID:        uuid.New().String(),
		ProductID: productID,
		UserID:    actor.ID,
		Changes:   changes,
		Status:    domain.ReviewStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create change request: %w", err)
	}

	if err := s.producer.PublishReviewSubmitted(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.submitted event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "change request submitted",
		slog.String("review_id", review.ID),
		slog.String("product_id", productID),
		slog.String("user_id", actor.ID),
	)

	return &SubmitResult{Applied: false, Review: review}, nil
}

// Decide resolves a pending change request. Approval transitions the request
// to approved and applies its stored diff to the product atomically: if the
// product has disappeared, the whole decision rolls back and the request
// stays pending. Rejection only transitions the status; the product is never
// touched.
func (s *ReviewService) Decide(ctx context.Context, actor domain.Actor, reviewID string, decision domain.Decision) (*domain.Review, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.Forbidden("only admins can decide change requests")
	}

	target, ok := decision.TargetStatus()
	if !ok {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown decision %q", decision))
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("get change request: %w", err)
	}

	if review.Status.IsTerminal() {
		return nil, apperrors.AlreadyProcessed(reviewID, string(review.Status))
	}

	if decision == domain.DecisionReject {
		if err := s.reviews.UpdateStatus(ctx, reviewID, domain.ReviewStatusPending, target); err != nil {
			return nil, err
		}

		review.Status = domain.ReviewStatusRejected

		if err := s.producer.PublishReviewRejected(ctx, review); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish review.rejected event",
				slog.String("review_id", review.ID),
				slog.String("error", err.Error()),
			)
		}

		s.logger.InfoContext(ctx, "change request rejected",
			slog.String("review_id", review.ID),
			slog.String("admin_id", actor.ID),
		)

		return review, nil
	}

	var product *domain.Product
	err = s.tx.WithinTx(ctx, func(ctx context.Context, stores repository.Stores) error {
		// The conditional status update is the critical section: under
		// concurrent decisions exactly one caller transitions the row.
		if err := stores.Reviews.UpdateStatus(ctx, reviewID, domain.ReviewStatusPending, target); err != nil {
			return err
		}

		p, err := stores.Products.ApplyFields(ctx, review.ProductID, review.Changes)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				// Rolling back keeps the request pending.
				return apperrors.ApplyFailed(reviewID, err)
			}
			return fmt.Errorf("apply approved changes: %w", err)
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	review.Status = domain.ReviewStatusApproved

	s.invalidateCache(ctx, review.ProductID)

	if err := s.producer.PublishReviewApproved(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.approved event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "change request approved",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
		slog.String("admin_id", actor.ID),
	)

	return review, nil
}

func (s *ReviewService) invalidateCache(ctx context.Context, productID string) {
	if err := s.cache.Invalidate(ctx, productID); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate product cache",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}

// ReviewListResult contains enriched change requests and pagination totals.
type ReviewListResult struct {
	Reviews    []domain.ReviewDetail `json:"reviews"`
	TotalCount int                   `json:"total_count"`
	Page       int                   `json:"page"`
	PerPage    int                   `json:"per_page"`
	TotalPages int                   `json:"total_pages"`
}

// ListPending returns pending change requests for the moderation queue,
// newest first, enriched with submitter email and product title. Admin only.
func (s *ReviewService) ListPending(ctx context.Context, actor domain.Actor, page, perPage int) (*ReviewListResult, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.Forbidden("only admins can view the moderation queue")
	}

	status := domain.ReviewStatusPending
	return s.list(ctx, repository.ReviewFilter{Status: &status, Page: page, PerPage: perPage})
}

// ListSubmissions returns the actor's own change requests across all
// statuses, newest first.
func (s *ReviewService) ListSubmissions(ctx context.Context, actor domain.Actor, page, perPage int) (*ReviewListResult, error) {
	return s.list(ctx, repository.ReviewFilter{UserID: &actor.ID, Page: page, PerPage: perPage})
}

func (s *ReviewService) list(ctx context.Context, filter repository.ReviewFilter) (*ReviewListResult, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	reviews, total, err := s.reviews.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list change requests: %w", err)
	}

	totalPages := total / filter.PerPage
	if total%filter.PerPage > 0 {
		totalPages++
	}

	return &ReviewListResult{
		Reviews:    reviews,
		TotalCount: total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: totalPages,
	}, nil
}

// GetSubmission returns a single change request. Admins can read any
// request; a team member only their own. A request belonging to someone
// else reads as missing so its existence is not leaked.
func (s *ReviewService) GetSubmission(ctx context.Context, actor domain.Actor, reviewID string) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("get change request: %w", err)
	}

	if actor.Role != domain.RoleAdmin && review.UserID != actor.ID {
		return nil, apperrors.NotFound("review", reviewID)
	}

	return review, nil
}

// UserStats returns per-status counts of a user's change requests. A team
// member can only read their own stats; admins can read anyone's.
func (s *ReviewService) UserStats(ctx context.Context, actor domain.Actor, userID string) (*domain.UserStats, error) {
	if userID == "" {
		userID = actor.ID
	}
	if actor.Role != domain.RoleAdmin && userID != actor.ID {
		return nil, apperrors.Forbidden("cannot view another user's stats")
	}

	stats, err := s.reviews.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count change requests: %w", err)
	}

	return stats, nil
}
