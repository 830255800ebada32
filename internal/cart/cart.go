// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

/*
Package cart implements the buyer shopping cart.

One row per (user, product) pair; adding an already-carted product aggregates
the quantity in a single upsert instead of growing the cart. Lines are
hydrated with catalog projections at read time, so a price change shows up on
the next cart view.
*/
package cart

import "time"

// # Domain Entities

// Item is one stored cart row.
type Item struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Line is a cart row hydrated with its catalog projection.
type Line struct {
	ItemID    string  `json:"itemId"`
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Slug      string  `json:"slug"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// View is the complete cart as returned to the client.
type View struct {
	Lines []Line  `json:"items"`
	Total float64 `json:"total"`
}

// # Field Identifiers

const (
	FieldProductID = "productId"
	FieldQuantity  = "quantity"
)
