// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync"

	"github.com/mgirard/praxia/internal/auth"
	"github.com/mgirard/praxia/internal/platform/constants"
	"github.com/mgirard/praxia/internal/platform/sec"
)

// API is the backend surface the manager needs. Satisfied by [APIClient].
type API interface {
	Login(ctx context.Context, email, password string) (*Credentials, error)
	Register(ctx context.Context, firstName, lastName, email, password, confirmPassword string) (*Credentials, error)
	Me(ctx context.Context, token string) (*auth.PublicUser, error)
}

// Manager holds the current authenticated identity for the UI.
//
// # Restoration
//
// On startup the session comes back from one of three sources, in priority
// order: credentials carried in the page URL after an OAuth redirect, a
// previously stored token revalidated against the API, or neither, leaving
// the manager unauthenticated.
type Manager struct {
	mu      sync.RWMutex
	api     API
	storage Storage

	token string
	user  *auth.PublicUser
	flash string
}

// NewManager constructs a manager over the given API and storage.
func NewManager(api API, storage Storage) *Manager {
	return &Manager{api: api, storage: storage}
}

// Restore initializes the session from the page URL and storage, returning
// the URL with the authentication parameters stripped so they never linger
// in history or get re-processed on reload.
func (manager *Manager) Restore(ctx context.Context, pageURL *url.URL) (*url.URL, error) {
	query := pageURL.Query()

	// Failure flash from an OAuth redirect; consumed, not an error.
	if message := query.Get(constants.ParamAuthError); message != "" {
		manager.setFlash(message)
	}

	// ── 1. Redirect-carried credentials ───────────────────────────────────

	if query.Get(constants.ParamAuthSuccess) == "1" {
		token := query.Get(constants.ParamToken)
		encodedUser := query.Get(constants.ParamUser)

		if user, ok := decodeUserParam(encodedUser); ok && token != "" {
			manager.adopt(token, user)
			return stripAuthParams(pageURL), nil
		}
		// Mangled payload: fall through to the stored-token path.
	}

	cleaned := stripAuthParams(pageURL)

	// ── 2. Stored token, revalidated ──────────────────────────────────────

	token, ok := manager.storage.Get(KeyAuthToken)
	if !ok || token == "" {
		return cleaned, nil
	}

	user, err := manager.api.Me(ctx, token)
	if err == nil {
		manager.adopt(token, user)
		return cleaned, nil
	}

	var apiError *APIError
	if errors.As(err, &apiError) && apiError.Status == http.StatusUnauthorized {
		// The server rejected the token; the stored session is dead.
		manager.clear()
		return cleaned, nil
	}

	// Transport failure or server error: keep the stored token and fall back
	// to the cached snapshot so a flaky network does not log the user out.
	if cached, ok := manager.cachedUser(); ok {
		manager.mu.Lock()
		manager.token = token
		manager.user = cached
		manager.mu.Unlock()
		return cleaned, nil
	}

	return cleaned, err
}

// Login authenticates with email+password and persists the session.
func (manager *Manager) Login(ctx context.Context, email, password string) (*auth.PublicUser, error) {
	credentials, err := manager.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	manager.adopt(credentials.Token, &credentials.User)
	return &credentials.User, nil
}

// Register enrolls a new account and persists the resulting session.
func (manager *Manager) Register(ctx context.Context, firstName, lastName, email, password, confirmPassword string) (*auth.PublicUser, error) {
	credentials, err := manager.api.Register(ctx, firstName, lastName, email, password, confirmPassword)
	if err != nil {
		return nil, err
	}

	manager.adopt(credentials.Token, &credentials.User)
	return &credentials.User, nil
}

// Logout drops the session locally. Tokens are stateless, so there is no
// server call; the credential simply ages out.
func (manager *Manager) Logout() {
	manager.clear()
}

// CurrentUser returns the authenticated user snapshot, or nil.
func (manager *Manager) CurrentUser() *auth.PublicUser {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.user
}

// Token returns the current bearer token, or "".
func (manager *Manager) Token() string {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.token
}

// IsAuthenticated reports whether a session is active.
func (manager *Manager) IsAuthenticated() bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.user != nil
}

// IsAdmin reports whether the current user carries the admin role.
func (manager *Manager) IsAdmin() bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	if manager.user == nil {
		return false
	}
	for _, role := range manager.user.Roles {
		if role == sec.RoleAdmin {
			return true
		}
	}
	return false
}

// ConsumeFlash returns the pending flash message, clearing it.
func (manager *Manager) ConsumeFlash() string {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	message := manager.flash
	manager.flash = ""
	return message
}

// adopt installs a session in memory and mirrors it to storage.
func (manager *Manager) adopt(token string, user *auth.PublicUser) {
	manager.mu.Lock()
	manager.token = token
	manager.user = user
	manager.mu.Unlock()

	// Storage failures leave an in-memory session; next startup just starts
	// unauthenticated.
	_ = manager.storage.Set(KeyAuthToken, token)
	if data, err := json.Marshal(user); err == nil {
		_ = manager.storage.Set(KeyUserData, string(data))
	}
}

// clear drops the session from memory and storage.
func (manager *Manager) clear() {
	manager.mu.Lock()
	manager.token = ""
	manager.user = nil
	manager.mu.Unlock()

	_ = manager.storage.Delete(KeyAuthToken)
	_ = manager.storage.Delete(KeyUserData)
}

// cachedUser decodes the stored user snapshot, if any.
func (manager *Manager) cachedUser() (*auth.PublicUser, bool) {
	data, ok := manager.storage.Get(KeyUserData)
	if !ok || data == "" {
		return nil, false
	}

	user := &auth.PublicUser{}
	if err := json.Unmarshal([]byte(data), user); err != nil {
		return nil, false
	}

	return user, true
}

func (manager *Manager) setFlash(message string) {
	manager.mu.Lock()
	manager.flash = message
	manager.mu.Unlock()
}

// decodeUserParam decodes the base64 JSON user payload of an OAuth redirect.
func decodeUserParam(encoded string) (*auth.PublicUser, bool) {
	if encoded == "" {
		return nil, false
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, false
	}

	user := &auth.PublicUser{}
	if err := json.Unmarshal(data, user); err != nil || user.ID == "" {
		return nil, false
	}

	return user, true
}

// stripAuthParams returns a copy of the URL without the authentication
// query parameters.
func stripAuthParams(pageURL *url.URL) *url.URL {
	cleaned := *pageURL
	query := cleaned.Query()

	query.Del(constants.ParamAuthSuccess)
	query.Del(constants.ParamToken)
	query.Del(constants.ParamUser)
	query.Del(constants.ParamAuthError)

	cleaned.RawQuery = query.Encode()
	return &cleaned
}
