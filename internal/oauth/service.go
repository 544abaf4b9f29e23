// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package oauth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mgirard/praxia/internal/auth"
	"github.com/mgirard/praxia/internal/platform/apperr"
	"github.com/mgirard/praxia/internal/platform/ctxutil"
	"github.com/mgirard/praxia/internal/platform/sec"
	"github.com/mgirard/praxia/pkg/uuidv7"
)

// ProfileFetcher turns an authorization code into a normalized provider
// profile. Satisfied by [GoogleProvider]; an interface so tests can stub the
// provider round trips.
type ProfileFetcher interface {
	AuthURL(state string) string
	FetchProfile(ctx context.Context, code string) (*Profile, error)
}

// Service resolves provider profiles to local accounts and issues sessions
// for them.
type Service struct {
	provider ProfileFetcher
	states   StateStore
	users    auth.UserRepository
	contacts auth.ContactLinker
	tokens   auth.TokenProvider
}

// NewService constructs a new oauth [Service] with its dependencies.
func NewService(provider ProfileFetcher, states StateStore, users auth.UserRepository, contacts auth.ContactLinker, tokens auth.TokenProvider) *Service {
	return &Service{
		provider: provider,
		states:   states,
		users:    users,
		contacts: contacts,
		tokens:   tokens,
	}
}

// Begin issues a fresh CSRF state and returns the provider consent URL to
// redirect the browser to.
func (service *Service) Begin(ctx context.Context) (string, error) {
	state, err := sec.GenerateSecureToken(32)
	if err != nil {
		return "", fmt.Errorf("oauth_state_generation_failed: %w", err)
	}

	if err := service.states.Save(ctx, state); err != nil {
		return "", err
	}

	return service.provider.AuthURL(state), nil
}

// Complete finishes the callback leg: it consumes the state, exchanges the
// code for a profile, resolves the profile to a local account, and issues a
// bearer token for it.
func (service *Service) Complete(ctx context.Context, state, code string) (*auth.Session, error) {
	if err := service.states.Consume(ctx, state); err != nil {
		return nil, err
	}

	profile, err := service.provider.FetchProfile(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := service.Resolve(ctx, profile)
	if err != nil {
		return nil, err
	}

	token, err := service.tokens.GenerateAccessToken(user.ID, user.Email, user.RoleSet(), auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("oauth_token_generation_failed: %w", err)
	}

	return &auth.Session{Token: token, User: user}, nil
}

// Resolve maps a provider profile onto a local account.
//
// # Precedence
//  1. An account already linked to the profile's subject ID wins outright.
//  2. Otherwise an account with the same email is linked to the subject and
//     marked verified, never duplicated.
//  3. Otherwise a new verified account is created. Its password column holds
//     random bytes that are not a bcrypt hash, so password login against it
//     fails with the same uniform message as any wrong password.
func (service *Service) Resolve(ctx context.Context, profile *Profile) (*auth.User, error) {
	user, err := service.users.FindByGoogleID(ctx, profile.ExternalID)
	if err == nil {
		return user, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	user, err = service.users.FindByEmail(ctx, profile.Email)
	if err == nil {
		return service.link(ctx, user, profile.ExternalID)
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	return service.create(ctx, profile)
}

// link attaches the provider subject to an existing local account and marks
// it verified, since the provider has vouched for the email.
func (service *Service) link(ctx context.Context, user *auth.User, externalID string) (*auth.User, error) {
	user.GoogleID = &externalID
	user.IsVerified = true

	if err := service.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("oauth_account_link_failed: %w", err)
	}

	return user, nil
}

// create provisions a brand-new account from the provider profile and runs
// the contact-request backfill for it.
func (service *Service) create(ctx context.Context, profile *Profile) (*auth.User, error) {
	placeholder, err := sec.RandomPlaceholderPassword()
	if err != nil {
		return nil, fmt.Errorf("oauth_placeholder_generation_failed: %w", err)
	}

	user := &auth.User{
		ID:           uuidv7.New(),
		Email:        profile.Email,
		PasswordHash: placeholder,
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
		Roles:        []string{sec.RoleUser},
		GoogleID:     &profile.ExternalID,
		IsVerified:   true,
	}

	if err := service.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("oauth_account_creation_failed: %w", err)
	}

	// Same non-fatal semantics as password registration: the login must not
	// fail because linking old contact requests did.
	if service.contacts != nil {
		if err := service.contacts.LinkUnowned(ctx, user.ID, user.Email); err != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "contact_backfill_failed",
				slog.String("user_id", user.ID),
				slog.Any("error", err),
			)
		}
	}

	return user, nil
}
