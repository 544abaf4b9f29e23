// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

// Package oauth bridges third-party Google logins into local sessions: it
// drives the authorization-code flow, resolves the returned profile to a
// local account (linking or creating one as needed), and hands the issued
// bearer token back to the SPA via redirect parameters.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// userInfoEndpoint returns the OpenID Connect claims for the token's subject.
const userInfoEndpoint = "https://www.googleapis.com/oauth2/v3/userinfo"

// exchangeTimeout bounds the two outbound calls of the callback path (code
// exchange, profile fetch) so a slow provider cannot hold the redirect.
const exchangeTimeout = 10 * time.Second

// Profile is the normalized identity returned by the provider.
type Profile struct {
	// ExternalID is the provider's stable subject identifier ("sub").
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
}

// GoogleProvider wraps the oauth2 client configuration for Google.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider builds the provider from client credentials and the
// public base URL the callback is registered under.
func NewGoogleProvider(clientID, clientSecret, publicBaseURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  strings.TrimSuffix(publicBaseURL, "/") + "/connect/google/check",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the provider consent-screen URL carrying the CSRF state.
func (provider *GoogleProvider) AuthURL(state string) string {
	return provider.config.AuthCodeURL(state)
}

// FetchProfile exchanges the authorization code and reads the subject's
// OpenID claims, normalizing them into a [Profile].
func (provider *GoogleProvider) FetchProfile(ctx context.Context, code string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	token, err := provider.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth_code_exchange_failed: %w", err)
	}

	response, err := provider.config.Client(ctx, token).Get(userInfoEndpoint)
	if err != nil {
		return nil, fmt.Errorf("oauth_userinfo_request_failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth_userinfo_status: %d", response.StatusCode)
	}

	var claims struct {
		Sub        string `json:"sub"`
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Name       string `json:"name"`
	}
	if err := json.NewDecoder(response.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("oauth_userinfo_decode_failed: %w", err)
	}

	if claims.Sub == "" || claims.Email == "" {
		return nil, fmt.Errorf("oauth_userinfo_incomplete: missing subject or email")
	}

	return normalizeProfile(claims.Sub, claims.Email, claims.GivenName, claims.FamilyName, claims.Name), nil
}

// normalizeProfile fills the name fields from whatever the provider sent:
// given/family names when present, a split of the display name otherwise,
// and finally the email local part with a "Google" surname.
func normalizeProfile(sub, email, givenName, familyName, displayName string) *Profile {
	profile := &Profile{
		ExternalID: sub,
		Email:      email,
		FirstName:  givenName,
		LastName:   familyName,
	}

	if profile.FirstName == "" && profile.LastName == "" && displayName != "" {
		parts := strings.SplitN(displayName, " ", 2)
		profile.FirstName = parts[0]
		if len(parts) > 1 {
			profile.LastName = parts[1]
		}
	}

	if profile.FirstName == "" && profile.LastName == "" {
		profile.FirstName, _, _ = strings.Cut(email, "@")
		profile.LastName = "Google"
	}

	return profile
}
