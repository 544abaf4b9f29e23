// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package auth

import (
	"context"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Uniqueness of email and Google ID is enforced by database constraints;
// Create and Update surface violations as Conflict errors. Any lookup that
// finds no row returns a NotFound error.
type UserRepository interface {
	// FindByID returns the account with the given ID.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email.
	// The comparison is case-insensitive.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByGoogleID returns the account linked to the given Google subject ID.
	FindByGoogleID(ctx context.Context, googleID string) (*User, error)

	// Create persists a brand-new user account.
	Create(ctx context.Context, user *User) error

	// Update persists changes to the user's mutable fields
	// (names, roles, Google linkage, verified flag).
	Update(ctx context.Context, user *User) error
}
