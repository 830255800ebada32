// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

package product

import (
	"context"
	"strings"

	"github.com/phamquangminh/shoply/internal/platform/apperr"
	"github.com/phamquangminh/shoply/internal/users/identity"
	"github.com/phamquangminh/shoply/pkg/pagination"
	"github.com/phamquangminh/shoply/pkg/pointer"
	"github.com/phamquangminh/shoply/pkg/slice"
	"github.com/phamquangminh/shoply/pkg/slug"
	"github.com/phamquangminh/shoply/pkg/uuid"
)

// Service implements catalog use cases.
type Service struct {
	products ProductRepository
	cache    ProductCache
}

// NewService constructs the catalog [Service] with its dependencies.
// The cache may be nil; every read then goes straight to Postgres.
func NewService(products ProductRepository, cache ProductCache) *Service {
	return &Service{products: products, cache: cache}
}

// # Inputs

// CreateInput holds the data required to publish a new listing.
type CreateInput struct {
	Title       string
	Description string
	Price       float64
	Stock       int
	Image       string
}

// UpdateInput carries the mutable listing fields. Nil means unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Price       *float64
	Stock       *int
	Image       *string
}

// # Use Cases

/*
Create publishes a new listing owned by the calling seller.

Description: The URL slug is derived from the title. Slugs are unique across
the catalog, so two sellers cannot publish identically titled products.

Parameters:
  - context: context.Context
  - ownerID: string (Calling seller)
  - input: CreateInput

Returns:
  - *Product: Created listing
  - error: apperr.Conflict on a slug collision, or storage errors
*/
func (service *Service) Create(context context.Context, ownerID string, input CreateInput) (*Product, error) {
	title := strings.TrimSpace(input.Title)

	product := &Product{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Slug:        slug.From(title),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       input.Image,
	}

	if err := service.products.Create(context, product); err != nil {
		return nil, err
	}

	return product, nil
}

/*
Get returns one listing, consulting the Redis projection first.

Description: Read-through semantics. A cache miss falls back to Postgres and
repopulates the projection; cache write failures are swallowed because the
authoritative read already succeeded.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Product: Hydrated listing
  - error: apperr.NotFound or storage errors
*/
func (service *Service) Get(context context.Context, id string) (*Product, error) {
	if service.cache != nil {
		if cached, err := service.cache.Get(context, id); err == nil {
			return cached, nil
		}
	}

	product, err := service.products.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	if service.cache != nil {
		_ = service.cache.Set(context, product)
	}

	return product, nil
}

// List returns a page of all listings.
func (service *Service) List(context context.Context, params pagination.Params) ([]Product, int, error) {
	return service.products.List(context, params)
}

// ListByOwner returns a page of one seller's listings.
func (service *Service) ListByOwner(context context.Context, ownerID string, params pagination.Params) ([]Product, int, error) {
	return service.products.ListByOwner(context, ownerID, params)
}

/*
Update modifies a listing owned by the caller.

Description: Ownership is checked against the stored row, never the request.
A title change regenerates the slug. The cached projection is invalidated
after the write commits.

Parameters:
  - context: context.Context
  - callerID: string
  - productID: string
  - input: UpdateInput

Returns:
  - *Product: Updated listing
  - error: apperr.NotFound, apperr.Forbidden for non-owners, or storage errors
*/
func (service *Service) Update(context context.Context, callerID, productID string, input UpdateInput) (*Product, error) {
	product, err := service.products.GetByID(context, productID)
	if err != nil {
		return nil, err
	}
	if product.OwnerID != callerID {
		return nil, apperr.Forbidden("You can only modify your own products")
	}

	if input.Title != nil {
		product.Title = strings.TrimSpace(*input.Title)
		product.Slug = slug.From(product.Title)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	product.Price = pointer.Fallback(input.Price, product.Price)
	product.Stock = pointer.Fallback(input.Stock, product.Stock)
	product.Image = pointer.Fallback(input.Image, product.Image)

	if err := service.products.Update(context, product); err != nil {
		return nil, err
	}

	if service.cache != nil {
		_ = service.cache.Invalidate(context, product.ID)
	}

	return product, nil
}

/*
Delete removes a listing owned by the caller.

Parameters:
  - context: context.Context
  - callerID: string
  - productID: string

Returns:
  - error: apperr.NotFound, apperr.Forbidden for non-owners, or storage errors
*/
func (service *Service) Delete(context context.Context, callerID, productID string) error {
	product, err := service.products.GetByID(context, productID)
	if err != nil {
		return err
	}
	if product.OwnerID != callerID {
		return apperr.Forbidden("You can only modify your own products")
	}

	if err := service.products.Delete(context, productID); err != nil {
		return err
	}

	if service.cache != nil {
		_ = service.cache.Invalidate(context, productID)
	}

	return nil
}

// # Wishlist Integration

/*
ProductsByIDs hydrates wishlist references into catalog projections.

Description: Implements [identity.ProductCatalog]. References that no longer
resolve are dropped silently.

Parameters:
  - context: context.Context
  - ids: []string

Returns:
  - []identity.WishlistProduct: Resolved projections
  - error: Storage errors
*/
func (service *Service) ProductsByIDs(context context.Context, ids []string) ([]identity.WishlistProduct, error) {
	products, err := service.products.GetByIDs(context, ids)
	if err != nil {
		return nil, err
	}

	return slice.Map(products, func(p Product) identity.WishlistProduct {
		return identity.WishlistProduct{
			ID:    p.ID,
			Title: p.Title,
			Slug:  p.Slug,
			Price: p.Price,
			Image: p.Image,
		}
	}), nil
}
