// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package auth_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgirard/praxia/internal/auth"
	"github.com/mgirard/praxia/internal/platform/middleware"
	"github.com/mgirard/praxia/internal/platform/sec"
)

// newTestRouter wires the handler behind the real token middleware, the way
// the server does, with an in-memory user store.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := sec.NewTokenServiceFromKey(key, "praxia.care")

	service := auth.NewService(newMemoryUserRepository(), &recordingLinker{}, tokens)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Mount("/api", auth.NewHandler(service).Routes())
	return router
}

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	request.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_RegisterLoginMe walks the full credential lifecycle over HTTP:
register, login with the same credentials, then read /me with the issued
token.
*/
func TestHandler_RegisterLoginMe(t *testing.T) {
	router := newTestRouter(t)

	// ── Register ──────────────────────────────────────────────────────────

	recorder := postJSON(t, router, "/api/register", map[string]string{
		"firstName":       "Ana",
		"lastName":        "Ruiz",
		"email":           "ana@example.com",
		"password":        "pw123456",
		"confirmPassword": "pw123456",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var registered struct {
		Message string          `json:"message"`
		Token   string          `json:"token"`
		User    auth.PublicUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &registered))

	assert.Equal(t, auth.MessageAccountCreated, registered.Message)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "ana@example.com", registered.User.Email)
	assert.Contains(t, registered.User.Roles, sec.RoleUser)

	// ── Login ─────────────────────────────────────────────────────────────

	recorder = postJSON(t, router, "/api/login", map[string]string{
		"email":    "ana@example.com",
		"password": "pw123456",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var loggedIn struct {
		Token string          `json:"token"`
		User  auth.PublicUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &loggedIn))
	require.NotEmpty(t, loggedIn.Token)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	// ── Me ────────────────────────────────────────────────────────────────

	request := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	request.Header.Set("Authorization", "Bearer "+loggedIn.Token)

	meRecorder := httptest.NewRecorder()
	router.ServeHTTP(meRecorder, request)
	require.Equal(t, http.StatusOK, meRecorder.Code)

	var me auth.PublicUser
	require.NoError(t, json.Unmarshal(meRecorder.Body.Bytes(), &me))
	assert.Equal(t, "ana@example.com", me.Email)
	assert.Equal(t, registered.User.ID, me.ID)
}

/*
TestHandler_Register_Conflict returns 409 with the taken-email message.
*/
func TestHandler_Register_Conflict(t *testing.T) {
	router := newTestRouter(t)

	payload := map[string]string{
		"firstName": "Ana",
		"lastName":  "Ruiz",
		"email":     "ana@example.com",
		"password":  "pw123456",
	}

	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/register", payload).Code)

	recorder := postJSON(t, router, "/api/register", payload)
	require.Equal(t, http.StatusConflict, recorder.Code)

	var response struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, auth.MessageEmailTaken, response.Message)
}

/*
TestHandler_Register_BadPayload returns 400 on undecodable JSON.
*/
func TestHandler_Register_BadPayload(t *testing.T) {
	router := newTestRouter(t)

	request := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader([]byte("{not json")))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

/*
TestHandler_Login_Unauthorized returns 401 with the uniform message for both
failure modes.
*/
func TestHandler_Login_Unauthorized(t *testing.T) {
	router := newTestRouter(t)

	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/register", map[string]string{
		"firstName": "Ana",
		"lastName":  "Ruiz",
		"email":     "ana@example.com",
		"password":  "pw123456",
	}).Code)

	for name, payload := range map[string]map[string]string{
		"unknown_email":  {"email": "nobody@example.com", "password": "pw123456"},
		"wrong_password": {"email": "ana@example.com", "password": "wrong-password"},
	} {
		t.Run(name, func(t *testing.T) {
			recorder := postJSON(t, router, "/api/login", payload)
			require.Equal(t, http.StatusUnauthorized, recorder.Code)

			var response struct {
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
			assert.Equal(t, auth.MessageInvalidCredentials, response.Message)
		})
	}
}

/*
TestHandler_Me_RequiresToken returns 401 without a valid bearer token.
*/
func TestHandler_Me_RequiresToken(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing_header", ""},
		{"garbage_token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)
			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		})
	}
}
