// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

package identity_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamquangminh/shoply/internal/platform/constants"
	"github.com/phamquangminh/shoply/internal/users/identity"
)

func newRefreshHarness(t *testing.T) (*fixture, http.Handler) {
	t.Helper()
	f := newFixture(t, 24*time.Hour)
	handler := identity.NewHandler(f.service, nil, identity.CookieSettings{
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})
	return f, handler.Routes()
}

func doRefresh(router http.Handler, configure func(*http.Request)) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, "/refresh-token", nil)
	if configure != nil {
		configure(request)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Refresh covers the token transport at the HTTP layer: cookie
first, body fallback, and the failure classes a caller can observe.
*/
func TestHandler_Refresh(t *testing.T) {
	t.Run("no_token_is_401_missing_credential", func(t *testing.T) {
		_, router := newRefreshHarness(t)

		recorder := doRefresh(router, nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "Authentication required", body["message"])
		assert.Equal(t, false, body["success"])
	})

	t.Run("cookie_transport_rotates", func(t *testing.T) {
		f, router := newRefreshHarness(t)
		f.register(t, "minh@shoply.app")
		session := f.login(t, "minh@shoply.app")

		recorder := doRefresh(router, func(r *http.Request) {
			r.AddCookie(&http.Cookie{
				Name:  constants.RefreshTokenCookieName,
				Value: session.Tokens.RefreshToken,
			})
		})
		require.Equal(t, http.StatusOK, recorder.Code)

		var body struct {
			Data struct {
				RefreshToken string `json:"refreshToken"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.NotEmpty(t, body.Data.RefreshToken)
		assert.NotEqual(t, session.Tokens.RefreshToken, body.Data.RefreshToken)

		// Replacement cookies accompany the rotation
		names := make([]string, 0)
		for _, cookie := range recorder.Result().Cookies() {
			names = append(names, cookie.Name)
		}
		assert.Contains(t, names, constants.AccessTokenCookieName)
		assert.Contains(t, names, constants.RefreshTokenCookieName)
	})

	t.Run("body_fallback_rotates", func(t *testing.T) {
		f, router := newRefreshHarness(t)
		f.register(t, "minh@shoply.app")
		session := f.login(t, "minh@shoply.app")

		payload := `{"refreshToken":"` + session.Tokens.RefreshToken + `"}`
		request := httptest.NewRequest(http.MethodPost, "/refresh-token", strings.NewReader(payload))
		request.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("replayed_token_is_401", func(t *testing.T) {
		f, router := newRefreshHarness(t)
		f.register(t, "minh@shoply.app")
		session := f.login(t, "minh@shoply.app")

		withCookie := func(r *http.Request) {
			r.AddCookie(&http.Cookie{
				Name:  constants.RefreshTokenCookieName,
				Value: session.Tokens.RefreshToken,
			})
		}

		require.Equal(t, http.StatusOK, doRefresh(router, withCookie).Code)

		recorder := doRefresh(router, withCookie)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "Invalid access or refresh token", body["message"])
	})
}
