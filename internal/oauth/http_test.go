// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package oauth_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgirard/praxia/internal/auth"
	"github.com/mgirard/praxia/internal/oauth"
)

func newTestHandler(provider *stubProvider, states *memoryStateStore) http.Handler {
	repo := newMemoryUserRepository()
	service := oauth.NewService(provider, states, repo, &recordingLinker{}, staticTokens{})
	return oauth.NewHandler(service).Routes()
}

func get(handler http.Handler, target string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, target, nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Start redirects to the provider consent screen with a saved
state.
*/
func TestHandler_Start(t *testing.T) {
	states := newMemoryStateStore()
	handler := newTestHandler(&stubProvider{profile: googleProfile()}, states)

	recorder := get(handler, "/google")
	require.Equal(t, http.StatusFound, recorder.Code)

	location := recorder.Header().Get("Location")
	require.Contains(t, location, "state=")
	assert.Len(t, states.states, 1)
}

/*
TestHandler_Callback_Success carries the token and the base64 user payload
to the SPA route.
*/
func TestHandler_Callback_Success(t *testing.T) {
	states := newMemoryStateStore()
	handler := newTestHandler(&stubProvider{profile: googleProfile()}, states)

	start := get(handler, "/google")
	consent := start.Header().Get("Location")
	state := consent[strings.Index(consent, "state=")+len("state="):]

	recorder := get(handler, "/google/check?state="+state+"&code=provider-code")
	require.Equal(t, http.StatusFound, recorder.Code)

	location, err := url.Parse(recorder.Header().Get("Location"))
	require.NoError(t, err)

	assert.Equal(t, "/app", location.Path)
	query := location.Query()
	assert.Equal(t, "1", query.Get("auth_success"))
	require.NotEmpty(t, query.Get("token"))

	decoded, err := base64.StdEncoding.DecodeString(query.Get("user"))
	require.NoError(t, err)

	var user auth.PublicUser
	require.NoError(t, json.Unmarshal(decoded, &user))
	assert.Equal(t, "marie@example.com", user.Email)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "google-sub-1", *user.GoogleID)
}

/*
TestHandler_Callback_Failures always answers with a redirect to the neutral
route and a flash parameter, never a JSON error.
*/
func TestHandler_Callback_Failures(t *testing.T) {
	tests := []struct {
		name          string
		target        string
		provider      *stubProvider
		expectedFlash string
	}{
		{
			name:          "missing_code",
			target:        "/google/check",
			provider:      &stubProvider{profile: googleProfile()},
			expectedFlash: "No authorization code received",
		},
		{
			name:          "provider_denied",
			target:        "/google/check?error=access_denied&error_description=User+cancelled",
			provider:      &stubProvider{profile: googleProfile()},
			expectedFlash: "User cancelled",
		},
		{
			name:          "state_mismatch",
			target:        "/google/check?state=never-issued&code=x",
			provider:      &stubProvider{profile: googleProfile()},
			expectedFlash: "Google sign-in failed",
		},
		{
			name:          "exchange_failure",
			target:        "/google/check?state=known&code=x",
			provider:      &stubProvider{err: assert.AnError},
			expectedFlash: "Google sign-in failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			states := newMemoryStateStore()
			states.states["known"] = true
			handler := newTestHandler(tt.provider, states)

			recorder := get(handler, tt.target)
			require.Equal(t, http.StatusFound, recorder.Code)

			location, err := url.Parse(recorder.Header().Get("Location"))
			require.NoError(t, err)

			assert.Equal(t, "/", location.Path)
			assert.Equal(t, tt.expectedFlash, location.Query().Get("auth_error"))
			assert.Empty(t, location.Query().Get("token"))
		})
	}
}
