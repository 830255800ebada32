// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

package sec

// Principal is the resolved caller identity attached to the request context
// by the authentication gate.
//
// # Freshness
//
// Unlike the token claims it was derived from, a Principal is hydrated from
// storage on every request, so Role and Status reflect the current record.
// An admin demoting a user therefore takes effect on the user's very next
// request, without waiting for their access token to expire.
//
// Credential fields (password hash, refresh token slot) are never part of a
// Principal; downstream handlers cannot leak what they never see.
type Principal struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Email  string        `json:"email"`
	Role   UserRole      `json:"role"`
	Status AccountStatus `json:"status"`
}
