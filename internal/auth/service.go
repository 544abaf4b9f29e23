// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mgirard/praxia/internal/platform/apperr"
	"github.com/mgirard/praxia/internal/platform/ctxutil"
	"github.com/mgirard/praxia/internal/platform/sec"
	"github.com/mgirard/praxia/internal/platform/validate"
	"github.com/mgirard/praxia/pkg/uuidv7"
)

// TokenProvider defines the contract for issuing signed bearer tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string embedding the given
	// identity snapshot with the given time to live.
	GenerateAccessToken(userID, email string, roles []string, timeToLive time.Duration) (string, error)
}

// ContactLinker attaches previously unowned contact requests to a user.
//
// Implemented by the contact store; declared here so the auth service stays
// independent of the contact package.
type ContactLinker interface {
	// LinkUnowned links every contact request that shares the user's email
	// and has no owner yet. The operation is idempotent.
	LinkUnowned(ctx context.Context, userID, email string) error
}

// Service implements the local authentication use cases: registration,
// email+password login, and session restoration lookups.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed carefully.
type Service struct {
	users    UserRepository
	contacts ContactLinker
	tokens   TokenProvider
}

// NewService constructs a new [Service] with its dependencies.
func NewService(users UserRepository, contacts ContactLinker, tokens TokenProvider) *Service {
	return &Service{
		users:    users,
		contacts: contacts,
		tokens:   tokens,
	}
}

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Session is the outcome of a successful registration or login: a signed
// bearer token plus the account it identifies.
type Session struct {
	Token string
	User  *User
}

// Register validates, hashes, and persists a brand-new user account, then
// issues a bearer token for it.
//
// # Flow
//  1. Validate input (required fields, email format, password confirmation).
//  2. Advisory email uniqueness pre-check.
//  3. Hash the password, construct the entity with the base role.
//  4. Persist — the email unique index is the authoritative check, and a
//     violation surfaces as a Conflict error, never a ValidationError.
//  5. Backfill: link pre-existing unowned contact requests by email.
//  6. Issue the token.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	// ── 1. Input Validation ───────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.Required(FieldFirstName, input.FirstName).
		Required(FieldLastName, input.LastName).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength)

	// Confirmation is optional; when supplied it must match.
	if input.ConfirmPassword != "" {
		validator.Custom(FieldConfirmPassword, input.Password != input.ConfirmPassword, "Passwords do not match")
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Uniqueness Pre-Check (advisory) ────────────────────────────────

	if _, err := service.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperr.Conflict(MessageEmailTaken)
	}

	// ── 3. Security ───────────────────────────────────────────────────────

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 4. Entity Construction & Persistence ──────────────────────────────

	user := &User{
		ID:           uuidv7.New(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Roles:        []string{sec.RoleUser},
		IsVerified:   false,
	}

	if err := service.users.Create(ctx, user); err != nil {
		// The unique index is authoritative; a concurrent registration can
		// slip past the pre-check and still land here as a Conflict.
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict(MessageEmailTaken)
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// ── 5. Contact-Request Backfill ───────────────────────────────────────

	service.runBackfill(ctx, user)

	// ── 6. Token Issuance ─────────────────────────────────────────────────

	return service.issueSession(user)
}

// Login validates credentials and issues a bearer token.
//
// The failure message is uniform whether the email is unknown or the
// password is wrong. Bcrypt's comparison also runs against the random
// placeholder stored for OAuth-only accounts, so those fail identically.
func (service *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Required(FieldPassword, password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Unauthorized(MessageInvalidCredentials)
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized(MessageInvalidCredentials)
	}

	return service.issueSession(user)
}

// CurrentUser resolves a verified token subject to its fresh public view.
// Used by the session-restoration path (GET /api/me).
func (service *Service) CurrentUser(ctx context.Context, userID string) (*PublicUser, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		// The token outlived the account; report it as a dead session.
		return nil, apperr.Unauthorized("Not authenticated")
	}
	return user.PublicView(), nil
}

// issueSession signs a token for the user's current identity snapshot.
func (service *Service) issueSession(user *User) (*Session, error) {
	token, err := service.tokens.GenerateAccessToken(user.ID, user.Email, user.RoleSet(), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &Session{Token: token, User: user}, nil
}

// runBackfill links unowned contact requests to a freshly created account.
//
// A backfill failure must not undo an otherwise successful registration, so
// it is logged and swallowed. LinkUnowned is idempotent and the linkage also
// self-heals on the next contact submission from the same address.
func (service *Service) runBackfill(ctx context.Context, user *User) {
	if service.contacts == nil {
		return
	}
	if err := service.contacts.LinkUnowned(ctx, user.ID, user.Email); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "contact_backfill_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}
}
