// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

// Package middleware: gate.go implements the authentication gate and the
// role-based authorization policy applied to protected routes.
//
// # Flow
//
// Authenticate runs globally and attaches a resolved [sec.Principal] to the
// context when a valid access token is presented. RequireAuth and RequireRole
// run per route group and decide whether the request may proceed.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/phamquangminh/shoply/internal/platform/apperr"
	"github.com/phamquangminh/shoply/internal/platform/constants"
	"github.com/phamquangminh/shoply/internal/platform/ctxutil"
	"github.com/phamquangminh/shoply/internal/platform/respond"
	"github.com/phamquangminh/shoply/internal/platform/sec"
)

// AccessVerifier defines the interface needed to verify access tokens.
//
// # Why an interface?
//
// Defining AccessVerifier here decouples the gate from the concrete
// [sec.TokenService], allowing tests to inject a fixed-secret instance.
type AccessVerifier interface {
	VerifyAccessToken(tokenString string) (*sec.AccessClaims, error)
}

// PrincipalResolver resolves a token subject into the current account record.
//
// The resolution is exactly one storage read and no writes, so it is safe to
// run concurrently and repeatedly per request. Role and status come from
// storage, never from the token, so admin changes apply immediately.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID string) (*sec.Principal, error)
}

// Authenticate extracts and verifies the access token, then resolves the caller.
//
// # Token Extraction
//
// The accessToken cookie takes precedence over the Authorization header; the
// header form is 'Authorization: Bearer <token>'. Requests carrying neither
// proceed as anonymous — RequireAuth decides whether anonymity is acceptable
// for the route.
//
// # Failure Classes
//
//   - malformed header or bad signature ⇒ 401 AUTH_INVALID
//   - expired token ⇒ 401 AUTH_EXPIRED
//   - subject no longer resolves ⇒ 401 AUTH_INVALID (a deleted account is
//     indistinguishable from one that never existed, to avoid enumeration)
func Authenticate(verifier AccessVerifier, resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			tokenString, ok := extractToken(request)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if !ok {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification (access domain, stateless) ──────────────
			claims, err := verifier.VerifyAccessToken(tokenString)
			if err != nil {
				if errors.Is(err, sec.ErrTokenExpired) {
					respond.Error(writer, request, apperr.AuthExpired())
					return
				}
				respond.Error(writer, request, apperr.AuthInvalid())
				return
			}

			// ── 3. Identity Resolution (one storage read) ─────────────────────
			principal, err := resolver.ResolvePrincipal(request.Context(), claims.Subject)
			if err != nil {
				if apperr.IsNotFound(err) {
					respond.Error(writer, request, apperr.AuthInvalid())
					return
				}
				respond.Error(writer, request, err)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// extractToken pulls the access token from the cookie or the bearer header.
// The cookie wins when both are present.
func extractToken(request *http.Request) (string, bool) {
	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	authHeader := request.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if a [*sec.Principal] exists in context.
//  2. If missing, abort with HTTP 401 (AUTH_MISSING).
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal := GetPrincipal(request.Context())
		if principal == nil {
			respond.Error(writer, request, apperr.AuthMissing())
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose caller is not a member of the allowed roles.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically implies
// [RequireAuth] so you don't need to mount both.
//
// # Semantics
//
// This is a strict membership check, not a hierarchy: RequireRole(RoleBuyer)
// rejects admins. The denial reveals nothing about whether the underlying
// resource exists — only that access is denied.
func RequireRole(allowed ...sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := GetPrincipal(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if principal == nil {
				respond.Error(writer, request, apperr.AuthMissing())
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !principal.Role.OneOf(allowed...) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// GetPrincipal retrieves the [*sec.Principal] from the [context.Context].
//
// # Returns
//   - The resolved caller identity if the request is authenticated.
//   - nil if the request is anonymous.
func GetPrincipal(ctx context.Context) *sec.Principal {
	return ctxutil.GetPrincipal(ctx)
}
