package domain

import (
	"time"
)

// Product represents a product record in the catalog. All four business
// fields are always present; the record is only mutated through a direct
// admin edit or an approved change request.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductChanges is a partial-field diff against a product. Each field is
// optional; nil means "leave unchanged". The set of legal fields is closed:
// unknown keys are rejected at the transport boundary during decoding.
type ProductChanges struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// IsEmpty reports whether no field is set.
func (c ProductChanges) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.PriceCents == nil && c.ImageURL == nil
}

// Validate checks the diff against product invariants. An empty diff, an
// empty title, or a negative price is invalid.
func (c ProductChanges) Validate() error {
	if c.IsEmpty() {
		return ErrEmptyChanges
	}
	if c.Title != nil && *c.Title == "" {
		return ErrEmptyTitle
	}
	if c.PriceCents != nil && *c.PriceCents < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Apply overlays the set fields onto p. Fields left nil keep whatever the
// product currently holds, even if another change request touched them in
// the interim (last-applied-wins, no merge).
func (c ProductChanges) Apply(p *Product, now time.Time) {
	if c.Title != nil {
		p.Title = *c.Title
	}
	if c.Description != nil {
		p.Description = *c.Description
	}
	if c.PriceCents != nil {
		p.PriceCents = *c.PriceCents
	}
	if c.ImageURL != nil {
		p.ImageURL = *c.ImageURL
	}
	p.UpdatedAt = now
}
