// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

/*
HTTP delivery layer for user identity management.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Handles JWT orchestration and dual access/refresh cookie injection.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes,
headers, cookies, JSON).
*/

package identity

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/phamquangminh/shoply/internal/platform/apperr"
	"github.com/phamquangminh/shoply/internal/platform/constants"
	"github.com/phamquangminh/shoply/internal/platform/middleware"
	requestutil "github.com/phamquangminh/shoply/internal/platform/request"
	"github.com/phamquangminh/shoply/internal/platform/respond"
	"github.com/phamquangminh/shoply/internal/platform/sec"
	"github.com/phamquangminh/shoply/internal/platform/validate"
	"github.com/phamquangminh/shoply/pkg/pagination"
)

// # Definitions & Constructors

// WishlistProduct is the catalog projection embedded in wishlist responses.
type WishlistProduct struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Slug  string  `json:"slug"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}

// ProductCatalog hydrates wishlist references into product projections.
// The catalog domain provides the implementation.
type ProductCatalog interface {
	ProductsByIDs(ctx context.Context, ids []string) ([]WishlistProduct, error)
}

// CookieSettings controls how the session cookies are written.
type CookieSettings struct {
	Secure     bool
	Domain     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Handler implements identity-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (Registration, Login,
// Session rotation) plus account administration and wishlist membership.
type Handler struct {
	identityService *Service
	catalog         ProductCatalog
	cookies         CookieSettings
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, catalog ProductCatalog, cookies CookieSettings) *Handler {
	return &Handler{identityService: service, catalog: catalog, cookies: cookies}
}

// Routes returns a [chi.Router] configured with identity-specific routes.
//
// # Endpoints
//   - POST  /register         : Creates a new account.
//   - POST  /login            : Authenticates and sets session cookies.
//   - POST  /refresh-token    : Rotates the refresh token.
//   - POST  /logout           : Ends the session (authenticated).
//   - GET   /current-user     : Returns the caller's account (authenticated).
//   - PATCH /update-account   : Updates name/email (authenticated).
//   - GET   /                 : Lists accounts (admin).
//   - PATCH /change-user-role : Sets another account's role (admin).
//   - DELETE /delete-user     : Removes an account (admin).
//   - PATCH /add-wishlist, DELETE /remove-wishlist, GET /get-wishlist (buyer).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh-token", handler.refresh)

	// Authenticated endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Get("/current-user", handler.currentUser)
		r.Patch("/update-account", handler.updateAccount)
	})

	// Administration: strict admin membership
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/", handler.listUsers)
		r.Patch("/change-user-role", handler.changeUserRole)
		r.Delete("/delete-user", handler.deleteUser)
	})

	// Wishlist: strict buyer membership
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(sec.RoleBuyer))
		r.Patch("/add-wishlist", handler.addWishlist)
		r.Delete("/remove-wishlist", handler.removeWishlist)
		r.Get("/get-wishlist", handler.getWishlist)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type updateAccountRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type changeRoleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type userIDRequest struct {
	UserID string `json:"userId"`
}

type wishlistRequest struct {
	ProductID string `json:"productId"`
}

// # Session Handlers

/*
Register handles the creation of a new user account.

POST /api/v1/users/register

Description: Validates input and persists a new user profile. Registration
never opens a session; the client must call /login afterwards.

Request:
  - Body: registerRequest (Name, Email, Password, optional Role)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MinLen(FieldName, input.Name, 2).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.identityService.Register(request.Context(), RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user, "User registered successfully")
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/users/login

Description: Verifies credentials, then sets both session cookies and returns
the token pair in the body for non-browser clients. A successful login
supersedes any session issued earlier for the account.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: User plus token pair
  - 401: Invalid password
  - 404: Unknown email
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.identityService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, result.Tokens)

	respond.OK(writer, map[string]any{
		"user":         result.User,
		"accessToken":  result.Tokens.AccessToken,
		"refreshToken": result.Tokens.RefreshToken,
	}, "User logged in successfully")
}

/*
Refresh rotates the presented refresh token for a new pair.

POST /api/v1/users/refresh-token

Description: Reads the refresh token from the cookie first, falling back to
the request body. A replayed or superseded token ends the session; the client
sees the same response as for any invalid token.

Response:
  - 200: Fresh token pair
  - 401: Missing, invalid, expired, or superseded refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	presented := ""
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
		presented = cookie.Value
	}
	if presented == "" {
		var input refreshRequest
		if err := requestutil.DecodeJSON(request, &input); err == nil {
			presented = input.RefreshToken
		}
	}
	// An absent credential is an authentication failure, not a malformed
	// request: it gets the same 401 class as every other missing token.
	if presented == "" {
		respond.Error(writer, request, apperr.AuthMissing())
		return
	}

	result, err := handler.identityService.Refresh(request.Context(), presented)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, result.Tokens)

	respond.OK(writer, map[string]any{
		"accessToken":  result.Tokens.AccessToken,
		"refreshToken": result.Tokens.RefreshToken,
	}, "Access token refreshed")
}

/*
Logout terminates the current session.

POST /api/v1/users/logout

Description: Empties the session slot for the authenticated caller and clears
both session cookies. Idempotent.

Response:
  - 200: Session terminated
  - 401: Missing or invalid access token
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.identityService.Logout(request.Context(), principal.ID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearSessionCookies(writer)
	respond.OK(writer, nil, "User logged out successfully")
}

// # Account Handlers

/*
CurrentUser returns the authenticated caller's account.

GET /api/v1/users/current-user

Response:
  - 200: User
  - 401: Missing or invalid access token
*/
func (handler *Handler) currentUser(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.identityService.GetCurrent(request.Context(), principal.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "Current user fetched successfully")
}

/*
UpdateAccount modifies the caller's name and/or email.

PATCH /api/v1/users/update-account

Request:
  - Body: updateAccountRequest (Name, Email; omitted fields stay unchanged)

Response:
  - 200: Updated user
  - 400: No fields supplied or invalid email
  - 409: Email already in use
*/
func (handler *Handler) updateAccount(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateAccountRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Custom(FieldName, input.Name == nil && input.Email == nil, "At least one of name or email is required")
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).MinLen(FieldName, *input.Name, 2)
	}
	if input.Email != nil {
		validator.Required(FieldEmail, *input.Email).Email(FieldEmail, *input.Email)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.identityService.UpdateAccount(request.Context(), principal.ID, UpdateAccountInput{
		Name:  input.Name,
		Email: input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "Account updated successfully")
}

// # Administration Handlers

/*
ListUsers returns a page of all accounts.

GET /api/v1/users?page=N&limit=M

Response:
  - 200: []User with pagination metadata
  - 403: Caller is not an admin
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.identityService.ListUsers(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total), "Users fetched successfully")
}

/*
ChangeUserRole sets another account's role.

PATCH /api/v1/users/change-user-role

Request:
  - Body: changeRoleRequest (UserID, Role)

Response:
  - 200: Role updated
  - 400: Unknown role value
  - 404: No such account
*/
func (handler *Handler) changeUserRole(writer http.ResponseWriter, request *http.Request) {
	var input changeRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUserID, input.UserID).
		UUID(FieldUserID, input.UserID).
		Required(FieldRole, input.Role)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.identityService.ChangeRole(request.Context(), input.UserID, input.Role); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "User role updated successfully")
}

/*
DeleteUser permanently removes an account.

DELETE /api/v1/users/delete-user

Request:
  - Body: userIDRequest (UserID)

Response:
  - 200: Account removed
  - 404: No such account
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	var input userIDRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUserID, input.UserID).UUID(FieldUserID, input.UserID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.identityService.DeleteUser(request.Context(), input.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "User deleted successfully")
}

// # Wishlist Handlers

/*
AddWishlist records a product on the caller's wishlist.

PATCH /api/v1/users/add-wishlist

Request:
  - Body: wishlistRequest (ProductID)

Response:
  - 200: Product added (idempotent)
  - 403: Caller is not a buyer
*/
func (handler *Handler) addWishlist(writer http.ResponseWriter, request *http.Request) {
	principal, input, err := handler.wishlistInput(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.identityService.AddWishlist(request.Context(), principal.ID, input.ProductID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Product added to wishlist")
}

/*
RemoveWishlist drops a product from the caller's wishlist.

DELETE /api/v1/users/remove-wishlist

Response:
  - 200: Product removed (idempotent)
*/
func (handler *Handler) removeWishlist(writer http.ResponseWriter, request *http.Request) {
	principal, input, err := handler.wishlistInput(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.identityService.RemoveWishlist(request.Context(), principal.ID, input.ProductID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Product removed from wishlist")
}

/*
GetWishlist returns the caller's wishlist hydrated with product projections.

GET /api/v1/users/get-wishlist

Description: Stored references that no longer resolve to a live product are
silently dropped from the response.

Response:
  - 200: []WishlistProduct
*/
func (handler *Handler) getWishlist(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ids, err := handler.identityService.Wishlist(request.Context(), principal.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	products := []WishlistProduct{}
	if len(ids) > 0 && handler.catalog != nil {
		products, err = handler.catalog.ProductsByIDs(request.Context(), ids)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	respond.OK(writer, products, "Wishlist fetched successfully")
}

// wishlistInput decodes and validates the shared wishlist payload.
func (handler *Handler) wishlistInput(request *http.Request) (*sec.Principal, *wishlistRequest, error) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		return nil, nil, err
	}

	var input wishlistRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return nil, nil, validate.ErrInvalidJSON
	}

	validator := &validate.Validator{}
	validator.Required(FieldProductID, input.ProductID).UUID(FieldProductID, input.ProductID)
	if err := validator.Err(); err != nil {
		return nil, nil, err
	}

	return principal, &input, nil
}

// # Cookie Helpers

// setSessionCookies writes both httpOnly session cookies.
func (handler *Handler) setSessionCookies(writer http.ResponseWriter, tokens TokenPair) {
	http.SetCookie(writer, handler.sessionCookie(
		constants.AccessTokenCookieName, tokens.AccessToken, handler.cookies.AccessTTL))
	http.SetCookie(writer, handler.sessionCookie(
		constants.RefreshTokenCookieName, tokens.RefreshToken, handler.cookies.RefreshTTL))
}

// clearSessionCookies expires both session cookies on the client.
func (handler *Handler) clearSessionCookies(writer http.ResponseWriter) {
	for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
		cookie := handler.sessionCookie(name, "", 0)
		cookie.MaxAge = -1
		http.SetCookie(writer, cookie)
	}
}

func (handler *Handler) sessionCookie(name, value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   handler.cookies.Domain,
		Secure:   handler.cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	if ttl > 0 {
		cookie.Expires = time.Now().Add(ttl)
	}
	return cookie
}
