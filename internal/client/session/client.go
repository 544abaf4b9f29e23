// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mgirard/praxia/internal/auth"
)

// APIError is a non-2xx answer from the API, carrying the server's message.
// Distinguishable from transport errors, which come back as plain wrapped
// errors: a 401 means the credential is dead, a connection failure does not.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// APIClient talks to the authentication endpoints of the backend.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a client for the API at the given base URL.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Credentials is a token paired with the user snapshot the server returned
// alongside it.
type Credentials struct {
	Token string          `json:"token"`
	User  auth.PublicUser `json:"user"`
}

// registerResponse adds the creation message to the credential pair.
type registerResponse struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    auth.PublicUser `json:"user"`
}

// Login exchanges email+password for a credential pair.
//
// POST /api/login
func (client *APIClient) Login(ctx context.Context, email, password string) (*Credentials, error) {
	payload := map[string]string{"email": email, "password": password}

	var result Credentials
	if err := client.post(ctx, "/api/login", payload, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Register enrolls a new account and returns its credential pair.
//
// POST /api/register
func (client *APIClient) Register(ctx context.Context, firstName, lastName, email, password, confirmPassword string) (*Credentials, error) {
	payload := map[string]string{
		"firstName":       firstName,
		"lastName":        lastName,
		"email":           email,
		"password":        password,
		"confirmPassword": confirmPassword,
	}

	var result registerResponse
	if err := client.post(ctx, "/api/register", payload, &result); err != nil {
		return nil, err
	}

	return &Credentials{Token: result.Token, User: result.User}, nil
}

// Me revalidates a token and returns the fresh user snapshot behind it.
//
// GET /api/me
func (client *APIClient) Me(ctx context.Context, token string) (*auth.PublicUser, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+"/api/me", nil)
	if err != nil {
		return nil, fmt.Errorf("session_client_request_failed: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+token)

	var user auth.PublicUser
	if err := client.do(request, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// post sends a JSON body and decodes a JSON answer.
func (client *APIClient) post(ctx context.Context, path string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("session_client_encode_failed: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("session_client_request_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	return client.do(request, result)
}

// do executes the request, mapping non-2xx answers to [APIError] and
// everything else that goes wrong to a wrapped transport error.
func (client *APIClient) do(request *http.Request, result any) error {
	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("session_client_transport_failed: %w", err)
	}
	defer response.Body.Close()

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("session_client_read_failed: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		apiError := &APIError{Status: response.StatusCode}

		var serverMessage struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &serverMessage) == nil {
			apiError.Message = serverMessage.Message
		}

		return apiError
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("session_client_decode_failed: %w", err)
	}

	return nil
}
