// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

/*
HTTP delivery layer for the cart. All routes are buyer-gated: the role check
is strict membership, so sellers and admins are rejected here.
*/

package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phamquangminh/shoply/internal/platform/middleware"
	requestutil "github.com/phamquangminh/shoply/internal/platform/request"
	"github.com/phamquangminh/shoply/internal/platform/respond"
	"github.com/phamquangminh/shoply/internal/platform/sec"
	"github.com/phamquangminh/shoply/internal/platform/validate"
)

// Handler implements cart HTTP endpoints.
type Handler struct {
	cartService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{cartService: service}
}

// Routes returns a [chi.Router] configured with cart routes.
//
// # Endpoints
//   - GET    /get-cart    : Hydrated cart with total (buyer).
//   - POST   /add-cart    : Adds or aggregates a product line (buyer).
//   - DELETE /remove-cart : Drops a product line (buyer).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(sec.RoleBuyer))
		r.Get("/get-cart", handler.getCart)
		r.Post("/add-cart", handler.addToCart)
		r.Delete("/remove-cart", handler.removeFromCart)
	})

	return router
}

// # Request Payloads

type addCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type removeCartRequest struct {
	ProductID string `json:"productId"`
}

// # Handlers

/*
GetCart returns the caller's hydrated cart.

GET /api/v1/cart/get-cart

Response:
  - 200: View (lines plus total)
*/
func (handler *Handler) getCart(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.cartService.View(request.Context(), principal.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view, "Cart fetched successfully")
}

/*
AddToCart puts a product into the caller's cart.

POST /api/v1/cart/add-cart

Request:
  - Body: addCartRequest (ProductID, Quantity; quantity defaults to 1)

Response:
  - 200: Line added or aggregated
  - 404: Unknown product
*/
func (handler *Handler) addToCart(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input addCartRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	validator := &validate.Validator{}
	validator.Required(FieldProductID, input.ProductID).
		UUID(FieldProductID, input.ProductID).
		Custom(FieldQuantity, input.Quantity < 1, "Quantity must be at least 1")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.cartService.Add(request.Context(), principal.ID, input.ProductID, input.Quantity); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Product added to cart")
}

/*
RemoveFromCart drops a product line from the caller's cart.

DELETE /api/v1/cart/remove-cart

Request:
  - Body: removeCartRequest (ProductID)

Response:
  - 200: Line removed
  - 404: Product not in the cart
*/
func (handler *Handler) removeFromCart(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input removeCartRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldProductID, input.ProductID).UUID(FieldProductID, input.ProductID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.cartService.Remove(request.Context(), principal.ID, input.ProductID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Product removed from cart")
}
