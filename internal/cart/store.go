// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

package cart

import "context"

// CartRepository defines persistence operations for cart rows.
type CartRepository interface {
	// Upsert adds quantity to the (userID, productID) row, creating it when
	// absent. The aggregation happens in one statement.
	Upsert(ctx context.Context, item *Item) error

	// Remove deletes the (userID, productID) row. Removing an absent row is
	// a NotFound.
	Remove(ctx context.Context, userID, productID string) error

	// ListLines returns the user's cart rows hydrated with catalog
	// projections, oldest first.
	ListLines(ctx context.Context, userID string) ([]Line, error)
}
