// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

package product

import (
	"context"

	"github.com/phamquangminh/shoply/pkg/pagination"
)

// ProductRepository defines persistence operations for catalog listings.
type ProductRepository interface {
	// Create persists a new listing. A duplicate slug surfaces as Conflict.
	Create(ctx context.Context, p *Product) error

	// GetByID fetches one listing by primary key.
	GetByID(ctx context.Context, id string) (*Product, error)

	// GetByIDs fetches all listings matching the given IDs. Missing IDs are
	// skipped, not errors.
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)

	// List returns a page of listings plus the total count.
	List(ctx context.Context, p pagination.Params) ([]Product, int, error)

	// ListByOwner returns a page of one seller's listings plus their count.
	ListByOwner(ctx context.Context, ownerID string, p pagination.Params) ([]Product, int, error)

	// Update persists title, slug, description, price, stock and image changes.
	Update(ctx context.Context, p *Product) error

	// Delete removes the listing row permanently.
	Delete(ctx context.Context, id string) error
}

// ProductCache is the volatile read-through projection of single listings.
type ProductCache interface {
	// Get returns the cached projection, or apperr.NotFound on a miss.
	Get(ctx context.Context, id string) (*Product, error)

	// Set stores the projection with the configured TTL.
	Set(ctx context.Context, p *Product) error

	// Invalidate drops the projection. Idempotent.
	Invalidate(ctx context.Context, id string) error
}
