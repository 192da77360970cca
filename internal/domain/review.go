package domain

import (
	"errors"
	"time"
)

// Domain validation errors.
var (
	ErrEmptyChanges  = errors.New("change set must contain at least one field")
	ErrEmptyTitle    = errors.New("title must not be empty")
	ErrNegativePrice = errors.New("price must not be negative")
)

// ReviewStatus is the lifecycle state of a change request.
type ReviewStatus string

const (
	// ReviewStatusPending indicates a change request awaiting an admin decision.
	ReviewStatusPending ReviewStatus = "pending"

	// ReviewStatusApproved indicates the changes were applied to the product.
	ReviewStatusApproved ReviewStatus = "approved"

	// ReviewStatusRejected indicates the changes were declined. The product
	// is untouched.
	ReviewStatusRejected ReviewStatus = "rejected"
)

// IsTerminal reports whether the status permits no further transition.
func (s ReviewStatus) IsTerminal() bool {
	return s == ReviewStatusApproved || s == ReviewStatusRejected
}

// CanTransitionTo reports whether the transition s -> target is legal.
// The only legal transitions are pending -> approved and pending -> rejected.
func (s ReviewStatus) CanTransitionTo(target ReviewStatus) bool {
	return s == ReviewStatusPending && target.IsTerminal()
}

// Decision is an admin's verdict on a pending change request.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// TargetStatus returns the review status this decision transitions to.
func (d Decision) TargetStatus() (ReviewStatus, bool) {
	switch d {
	case DecisionApprove:
		return ReviewStatusApproved, true
	case DecisionReject:
		return ReviewStatusRejected, true
	default:
		return "", false
	}
}

// Review is a persisted proposal to change specific fields of a product,
// awaiting an admin decision. A review transitions exactly once in its
// lifecycle: pending -> approved or pending -> rejected.
type Review struct {
	ID        string         `json:"id"`
	ProductID string         `json:"product_id"`
	UserID    string         `json:"user_id"`
	Changes   ProductChanges `json:"changes"`
	Status    ReviewStatus   `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

// ReviewDetail is a review enriched with submitter and product references
// for listings.
type ReviewDetail struct {
	Review
	UserEmail    string `json:"user_email,omitempty"`
	ProductTitle string `json:"product_title,omitempty"`
}

// UserStats holds per-user change request counts.
type UserStats struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Pending  int `json:"pending"`
}
