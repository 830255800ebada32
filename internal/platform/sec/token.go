// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces defined at the point of use.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/phamquangminh/shoply/pkg/uuid"
)

// Sentinel verification failures. Callers classify with [errors.Is] and map
// them onto the HTTP error taxonomy; the distinction matters because expiry
// is a normal lifecycle event while a bad signature is not.
var (
	// ErrTokenInvalid covers bad signatures, wrong signing methods, and
	// malformed token shapes.
	ErrTokenInvalid = errors.New("sec: token invalid")

	// ErrTokenExpired is returned when the token verifies but its exp claim
	// is in the past.
	ErrTokenExpired = errors.New("sec: token expired")
)

// AccessClaims is the payload embedded inside an access token.
//
// The subject carries the account ID; email and name ride along so the HTTP
// layer can label logs without a lookup. Role is deliberately NOT a claim:
// the gate re-reads it from storage on every request so role changes apply
// immediately instead of surviving inside outstanding tokens.
type AccessClaims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenService signs and verifies JWTs across two independent HMAC domains.
//
// # Dual Domains
//
// Access and refresh tokens use separate secrets and separate expiry
// policies, so compromise of one domain does not grant the other. A refresh
// token presented to the access verifier fails with [ErrTokenInvalid], never
// with a silent acceptance.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

// NewTokenService creates a TokenService with two signing domains.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, issuer string) (*TokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("sec: token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, fmt.Errorf("sec: access and refresh secrets must differ")
	}

	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        issuer,
	}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (service *TokenService) AccessTTL() time.Duration { return service.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (service *TokenService) RefreshTTL() time.Duration { return service.refreshTTL }

// # Issuance

// IssueAccessToken creates a short-lived signed access token for a user.
func (service *TokenService) IssueAccessToken(userID, email, name string) (string, error) {
	currentTime := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.accessTTL)),
		},
		Email: email,
		Name:  name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign access token: %w", err)
	}

	return signedToken, nil
}

// IssueRefreshToken creates a long-lived signed refresh token.
//
// Refresh claims carry only the subject plus bookkeeping: anything else a
// rotation needs is re-read from storage at rotation time. The jti makes
// every issuance distinct even within one clock second; rotation compares
// tokens byte-for-byte, so a replacement must never equal the token it
// replaces.
func (service *TokenService) IssueRefreshToken(userID string) (string, error) {
	currentTime := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.New(),
		Subject:   userID,
		Issuer:    service.issuer,
		IssuedAt:  jwt.NewNumericDate(currentTime),
		ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.refreshTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign refresh token: %w", err)
	}

	return signedToken, nil
}

// # Verification
//
// Verification is pure and stateless: it checks signature and expiry only.
// For refresh tokens, whether the token is still the CURRENT session token
// is the session registry's decision, not this package's.

// VerifyAccessToken checks the signature and validity of an access token.
func (service *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, service.keyFor(service.accessSecret))
	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// VerifyRefreshToken checks a refresh token and returns its subject (user ID).
func (service *TokenService) VerifyRefreshToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, service.keyFor(service.refreshSecret))
	if err != nil {
		return "", classifyParseError(err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrTokenInvalid
	}

	return claims.Subject, nil
}

// keyFor returns a jwt key function pinned to HMAC and the given secret.
func (service *TokenService) keyFor(secret []byte) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}
}

// classifyParseError maps jwt parse failures onto the two sentinel errors.
func classifyParseError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrTokenExpired
	}
	return ErrTokenInvalid
}
