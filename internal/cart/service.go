// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

package cart

import (
	"context"

	"github.com/phamquangminh/shoply/pkg/uuid"
)

// Service implements cart use cases.
type Service struct {
	items CartRepository
}

// NewService constructs the cart [Service] with its dependency.
func NewService(items CartRepository) *Service {
	return &Service{items: items}
}

/*
Add puts quantity units of a product into the caller's cart.

Description: Adding a product that is already carted aggregates the quantity
instead of creating a second line.

Parameters:
  - context: context.Context
  - userID: string
  - productID: string
  - quantity: int (must be positive, validated at the transport layer)

Returns:
  - error: apperr.NotFound on an unknown product, or storage errors
*/
func (service *Service) Add(context context.Context, userID, productID string, quantity int) error {
	return service.items.Upsert(context, &Item{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	})
}

/*
Remove drops a product line from the caller's cart entirely.

Parameters:
  - context: context.Context
  - userID: string
  - productID: string

Returns:
  - error: apperr.NotFound when the product is not carted, or storage errors
*/
func (service *Service) Remove(context context.Context, userID, productID string) error {
	return service.items.Remove(context, userID, productID)
}

/*
View returns the caller's hydrated cart with the running total.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *View: Lines plus total
  - error: Storage errors
*/
func (service *Service) View(context context.Context, userID string) (*View, error) {
	lines, err := service.items.ListLines(context, userID)
	if err != nil {
		return nil, err
	}

	view := &View{Lines: lines}
	for _, line := range lines {
		view.Total += line.Subtotal
	}

	return view, nil
}
