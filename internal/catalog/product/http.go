// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

/*
HTTP delivery layer for the catalog.

Every route sits behind the authentication gate; mutations additionally
require the seller role, and ownership of the targeted listing is enforced by
the service against the stored row.
*/

package product

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phamquangminh/shoply/internal/platform/middleware"
	requestutil "github.com/phamquangminh/shoply/internal/platform/request"
	"github.com/phamquangminh/shoply/internal/platform/respond"
	"github.com/phamquangminh/shoply/internal/platform/sec"
	"github.com/phamquangminh/shoply/internal/platform/validate"
	"github.com/phamquangminh/shoply/pkg/pagination"
)

// Handler implements catalog HTTP endpoints.
type Handler struct {
	productService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{productService: service}
}

// Routes returns a [chi.Router] configured with catalog routes.
//
// # Endpoints
//   - GET    /all-product                  : Lists the catalog (authenticated).
//   - GET    /product/{productId}          : One listing, cache-first (authenticated).
//   - POST   /add-product                  : Publishes a listing (seller).
//   - GET    /product-seller/{sellerId}    : One seller's listings (seller).
//   - PATCH  /update-product/{productId}   : Edits an owned listing (seller).
//   - DELETE /delete-product               : Removes an owned listing (seller).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/all-product", handler.listProducts)
		r.Get("/product/{productId}", handler.getProduct)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(sec.RoleSeller))
		r.Post("/add-product", handler.addProduct)
		r.Get("/product-seller/{sellerId}", handler.listBySeller)
		r.Patch("/update-product/{productId}", handler.updateProduct)
		r.Delete("/delete-product", handler.deleteProduct)
	})

	return router
}

// # Request Payloads

type addProductRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image,omitempty"`
}

type updateProductRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Image       *string  `json:"image"`
}

type deleteProductRequest struct {
	ProductID string `json:"productId"`
}

// # Handlers

/*
AddProduct publishes a new listing owned by the calling seller.

POST /api/v1/product/add-product

Response:
  - 201: Product
  - 400: Validation failure
  - 409: Slug collision
*/
func (handler *Handler) addProduct(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input addProductRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MinLen(FieldTitle, input.Title, 2).
		MaxLen(FieldTitle, input.Title, 200).
		Positive(FieldPrice, input.Price).
		Custom(FieldStock, input.Stock < 0, "Stock cannot be negative")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.productService.Create(request.Context(), principal.ID, CreateInput{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       input.Image,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, product, "Product added successfully")
}

/*
ListProducts returns a page of the whole catalog.

GET /api/v1/product/all-product?page=N&limit=M

Response:
  - 200: []Product with pagination metadata
*/
func (handler *Handler) listProducts(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	products, total, err := handler.productService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, pagination.NewMeta(params.Page, params.Limit, total), "Products fetched successfully")
}

/*
GetProduct returns one listing, cache-first.

GET /api/v1/product/product/{productId}

Response:
  - 200: Product
  - 404: No such listing
*/
func (handler *Handler) getProduct(writer http.ResponseWriter, request *http.Request) {
	productID := requestutil.Param(request, FieldProductID)

	validator := &validate.Validator{}
	validator.Required(FieldProductID, productID).UUID(FieldProductID, productID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.productService.Get(request.Context(), productID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product, "Product fetched successfully")
}

/*
ListBySeller returns a page of one seller's listings.

GET /api/v1/product/product-seller/{sellerId}?page=N&limit=M

Response:
  - 200: []Product with pagination metadata
*/
func (handler *Handler) listBySeller(writer http.ResponseWriter, request *http.Request) {
	sellerID := requestutil.Param(request, FieldSellerID)

	validator := &validate.Validator{}
	validator.Required(FieldSellerID, sellerID).UUID(FieldSellerID, sellerID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	products, total, err := handler.productService.ListByOwner(request.Context(), sellerID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, pagination.NewMeta(params.Page, params.Limit, total), "Seller products fetched successfully")
}

/*
UpdateProduct edits a listing owned by the caller.

PATCH /api/v1/product/update-product/{productId}

Response:
  - 200: Updated product
  - 403: Caller does not own the listing
  - 404: No such listing
*/
func (handler *Handler) updateProduct(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	productID := requestutil.Param(request, FieldProductID)

	var input updateProductRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldProductID, productID).UUID(FieldProductID, productID)
	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title).
			MinLen(FieldTitle, *input.Title, 2).
			MaxLen(FieldTitle, *input.Title, 200)
	}
	if input.Price != nil {
		validator.Positive(FieldPrice, *input.Price)
	}
	if input.Stock != nil {
		validator.Custom(FieldStock, *input.Stock < 0, "Stock cannot be negative")
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.productService.Update(request.Context(), principal.ID, productID, UpdateInput{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       input.Image,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product, "Product updated successfully")
}

/*
DeleteProduct removes a listing owned by the caller.

DELETE /api/v1/product/delete-product

Request:
  - Body: deleteProductRequest (ProductID)

Response:
  - 200: Listing removed
  - 403: Caller does not own the listing
  - 404: No such listing
*/
func (handler *Handler) deleteProduct(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input deleteProductRequest
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

	if err := handler.productService.Delete(request.Context(), principal.ID, input.ProductID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Product deleted successfully")
}
