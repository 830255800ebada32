// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

/*
Package product implements the catalog domain: seller-owned listings that
buyers browse, wishlist, and add to carts.

# Architecture

  - Service: Business rules (ownership, slug generation, cache coordination).
  - Repository: Postgres persistence behind a domain interface.
  - Cache: Redis read-through projection keyed by product ID.

The catalog trusts the resolved caller identity from the authentication gate;
it never inspects credentials itself.
*/
package product

import "time"

// # Domain Entities

// Product is a seller-owned catalog listing.
type Product struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldStock       = "stock"
	FieldImage       = "image"
	FieldProductID   = "productId"
	FieldSellerID    = "sellerId"
)

// CacheTTL bounds how stale a cached product projection may get.
const CacheTTL = 10 * time.Minute
