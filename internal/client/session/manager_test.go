// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package session_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgirard/praxia/internal/auth"
	"github.com/mgirard/praxia/internal/client/session"
)

func publicAna() *auth.PublicUser {
	return &auth.PublicUser{
		ID:        "user-1",
		Email:     "ana@example.com",
		FirstName: "Ana",
		LastName:  "Ruiz",
		Roles:     []string{"ROLE_USER"},
	}
}

// newAPIServer serves the /api/me endpoint with a fixed token check.
func newAPIServer(t *testing.T, validToken string, user *auth.PublicUser) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/me", func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		if request.Header.Get("Authorization") != "Bearer "+validToken {
			writer.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(writer).Encode(map[string]string{"message": "Not authenticated"})
			return
		}
		_ = json.NewEncoder(writer).Encode(user)
	})
	mux.HandleFunc("POST /api/login", func(writer http.ResponseWriter, request *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(request.Body).Decode(&body)

		writer.Header().Set("Content-Type", "application/json")
		if body.Email != user.Email || body.Password != "pw123456" {
			writer.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(writer).Encode(map[string]string{"message": "Invalid email or password"})
			return
		}
		_ = json.NewEncoder(writer).Encode(map[string]any{"token": validToken, "user": user})
	})
	mux.HandleFunc("POST /api/register", func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(writer).Encode(map[string]any{
			"message": "Account created successfully",
			"token":   validToken,
			"user":    user,
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func redirectURL(t *testing.T, token string, user *auth.PublicUser) *url.URL {
	t.Helper()

	payload, err := json.Marshal(user)
	require.NoError(t, err)

	params := url.Values{}
	params.Set("auth_success", "1")
	params.Set("token", token)
	params.Set("user", base64.StdEncoding.EncodeToString(payload))

	parsed, err := url.Parse("https://praxia.care/app?" + params.Encode())
	require.NoError(t, err)
	return parsed
}

// # Restoration Paths

/*
TestManager_Restore_FromRedirectParams covers the OAuth landing: credentials
are adopted from the URL and the URL comes back stripped.
*/
func TestManager_Restore_FromRedirectParams(t *testing.T) {
	server := newAPIServer(t, "redirect-token", publicAna())
	storage := session.NewMemoryStorage()
	manager := session.NewManager(session.NewAPIClient(server.URL), storage)

	cleaned, err := manager.Restore(context.Background(), redirectURL(t, "redirect-token", publicAna()))
	require.NoError(t, err)

	assert.True(t, manager.IsAuthenticated())
	assert.Equal(t, "redirect-token", manager.Token())
	require.NotNil(t, manager.CurrentUser())
	assert.Equal(t, "ana@example.com", manager.CurrentUser().Email)

	// Credentials never linger in the URL.
	assert.Empty(t, cleaned.Query().Get("auth_success"))
	assert.Empty(t, cleaned.Query().Get("token"))
	assert.Empty(t, cleaned.Query().Get("user"))

	// The session survives in storage for the next startup.
	stored, ok := storage.Get(session.KeyAuthToken)
	require.True(t, ok)
	assert.Equal(t, "redirect-token", stored)
}

/*
TestManager_Restore_PreservesForeignParams verifies that stripping only
removes the auth parameters.
*/
func TestManager_Restore_PreservesForeignParams(t *testing.T) {
	server := newAPIServer(t, "redirect-token", publicAna())
	manager := session.NewManager(session.NewAPIClient(server.URL), session.NewMemoryStorage())

	pageURL := redirectURL(t, "redirect-token", publicAna())
	query := pageURL.Query()
	query.Set("tab", "appointments")
	pageURL.RawQuery = query.Encode()

	cleaned, err := manager.Restore(context.Background(), pageURL)
	require.NoError(t, err)
	assert.Equal(t, "appointments", cleaned.Query().Get("tab"))
	assert.Empty(t, cleaned.Query().Get("token"))
}

/*
TestManager_Restore_FromStoredToken covers the returning-visitor path: the
stored token is revalidated and the snapshot refreshed from the server.
*/
func TestManager_Restore_FromStoredToken(t *testing.T) {
	server := newAPIServer(t, "stored-token", publicAna())
	storage := session.NewMemoryStorage()
	require.NoError(t, storage.Set(session.KeyAuthToken, "stored-token"))

	manager := session.NewManager(session.NewAPIClient(server.URL), storage)

	pageURL, _ := url.Parse("https://praxia.care/app")
	_, err := manager.Restore(context.Background(), pageURL)
	require.NoError(t, err)

	assert.True(t, manager.IsAuthenticated())
	require.NotNil(t, manager.CurrentUser())
	assert.Equal(t, "user-1", manager.CurrentUser().ID)
}

/*
TestManager_Restore_RejectedTokenClearsStorage verifies that a 401 kills the
stored session entirely.
*/
func TestManager_Restore_RejectedTokenClearsStorage(t *testing.T) {
	server := newAPIServer(t, "valid-token", publicAna())
	storage := session.NewMemoryStorage()
	require.NoError(t, storage.Set(session.KeyAuthToken, "expired-token"))
	require.NoError(t, storage.Set(session.KeyUserData, `{"id":"user-1"}`))

	manager := session.NewManager(session.NewAPIClient(server.URL), storage)

	pageURL, _ := url.Parse("https://praxia.care/app")
	_, err := manager.Restore(context.Background(), pageURL)
	require.NoError(t, err)

	assert.False(t, manager.IsAuthenticated())

	_, hasToken := storage.Get(session.KeyAuthToken)
	_, hasUser := storage.Get(session.KeyUserData)
	assert.False(t, hasToken)
	assert.False(t, hasUser)
}

/*
TestManager_Restore_TransportFailureFallsBackToCache verifies that a network
failure keeps the cached identity instead of logging the user out.
*/
func TestManager_Restore_TransportFailureFallsBackToCache(t *testing.T) {
	// A server that is already gone simulates the API being unreachable.
	dead := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	payload, err := json.Marshal(publicAna())
	require.NoError(t, err)

	storage := session.NewMemoryStorage()
	require.NoError(t, storage.Set(session.KeyAuthToken, "stored-token"))
	require.NoError(t, storage.Set(session.KeyUserData, string(payload)))

	manager := session.NewManager(session.NewAPIClient(deadURL), storage)

	pageURL, _ := url.Parse("https://praxia.care/app")
	_, err = manager.Restore(context.Background(), pageURL)
	require.NoError(t, err)

	assert.True(t, manager.IsAuthenticated())
	assert.Equal(t, "stored-token", manager.Token())
	require.NotNil(t, manager.CurrentUser())
	assert.Equal(t, "ana@example.com", manager.CurrentUser().Email)

	// The token is kept for the next, hopefully connected, startup.
	stored, ok := storage.Get(session.KeyAuthToken)
	require.True(t, ok)
	assert.Equal(t, "stored-token", stored)
}

/*
TestManager_Restore_NoSession covers the cold-start path.
*/
func TestManager_Restore_NoSession(t *testing.T) {
	server := newAPIServer(t, "any", publicAna())
	manager := session.NewManager(session.NewAPIClient(server.URL), session.NewMemoryStorage())

	pageURL, _ := url.Parse("https://praxia.care/")
	_, err := manager.Restore(context.Background(), pageURL)
	require.NoError(t, err)

	assert.False(t, manager.IsAuthenticated())
	assert.Nil(t, manager.CurrentUser())
}

/*
TestManager_Restore_AuthErrorFlash verifies the failure-redirect flash is
captured once and the parameter stripped.
*/
func TestManager_Restore_AuthErrorFlash(t *testing.T) {
	server := newAPIServer(t, "any", publicAna())
	manager := session.NewManager(session.NewAPIClient(server.URL), session.NewMemoryStorage())

	pageURL, _ := url.Parse("https://praxia.care/?auth_error=Google+sign-in+failed")
	cleaned, err := manager.Restore(context.Background(), pageURL)
	require.NoError(t, err)

	assert.False(t, manager.IsAuthenticated())
	assert.Empty(t, cleaned.Query().Get("auth_error"))
	assert.Equal(t, "Google sign-in failed", manager.ConsumeFlash())
	assert.Empty(t, manager.ConsumeFlash(), "flash reads exactly once")
}

// # Login / Logout

/*
TestManager_LoginAndLogout walks the credential lifecycle.
*/
func TestManager_LoginAndLogout(t *testing.T) {
	server := newAPIServer(t, "login-token", publicAna())
	storage := session.NewMemoryStorage()
	manager := session.NewManager(session.NewAPIClient(server.URL), storage)

	user, err := manager.Login(context.Background(), "ana@example.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.True(t, manager.IsAuthenticated())

	stored, ok := storage.Get(session.KeyAuthToken)
	require.True(t, ok)
	assert.Equal(t, "login-token", stored)

	manager.Logout()
	assert.False(t, manager.IsAuthenticated())
	assert.Empty(t, manager.Token())

	_, hasToken := storage.Get(session.KeyAuthToken)
	assert.False(t, hasToken)
}

/*
TestManager_Login_BadCredentials surfaces the server's uniform message as an
[session.APIError].
*/
func TestManager_Login_BadCredentials(t *testing.T) {
	server := newAPIServer(t, "login-token", publicAna())
	manager := session.NewManager(session.NewAPIClient(server.URL), session.NewMemoryStorage())

	_, err := manager.Login(context.Background(), "ana@example.com", "wrong")
	require.Error(t, err)

	apiErr, ok := err.(*session.APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
	assert.False(t, manager.IsAuthenticated())
}

// # Storage

/*
TestFileStorage_RoundTrip verifies persistence across instances.
*/
func TestFileStorage_RoundTrip(t *testing.T) {
	path := t.TempDir() + "/praxia/session.json"

	first := session.NewFileStorage(path)
	require.NoError(t, first.Set(session.KeyAuthToken, "persisted-token"))

	second := session.NewFileStorage(path)
	value, ok := second.Get(session.KeyAuthToken)
	require.True(t, ok)
	assert.Equal(t, "persisted-token", value)

	require.NoError(t, second.Delete(session.KeyAuthToken))
	_, ok = second.Get(session.KeyAuthToken)
	assert.False(t, ok)
}
