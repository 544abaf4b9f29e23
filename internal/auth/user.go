// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

// Package auth implements the account and session core of the Praxia site:
// local registration and login, identity snapshots for the token issuer, and
// the public user view exposed to the frontend.
//
// # Architecture
//
// The [User] entity is the "Truth" of the identity subsystem. It has no
// dependencies on outer layers (databases, HTTP, OAuth providers), which
// keeps the account rules testable in isolation.
package auth

import (
	"time"

	"github.com/mgirard/praxia/internal/platform/sec"
)

// User represents a registered account of the practice site.
//
// # Rules
//   - Email is unique, compared case-insensitively.
//   - PasswordHash is produced exclusively via [sec.HashPassword]; for
//     accounts created through Google login it holds a random placeholder
//     that can never match a bcrypt comparison.
//   - Every user has either a usable password hash or a non-nil GoogleID,
//     never neither (also enforced by a table CHECK constraint).
//   - Roles always contain [sec.RoleUser]; see [User.RoleSet].
//   - IsVerified is set when the email is confirmed through an external
//     identity provider.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Roles        []string  `json:"roles"`
	GoogleID     *string   `json:"googleId,omitempty"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// RoleSet returns the user's roles with the base role guaranteed present.
//
// Storage may legitimately hold an empty role list for accounts created
// before role tracking; the base role is a structural guarantee, not a
// stored fact.
func (u *User) RoleSet() []string {
	return sec.WithBaseRole(u.Roles)
}

// HasRole reports whether the user's effective role set contains role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.RoleSet() {
		if r == role {
			return true
		}
	}
	return false
}

// PublicUser is the subset of a [User] that is safe to expose to clients.
// It never includes the password hash.
type PublicUser struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
	GoogleID  *string  `json:"googleId,omitempty"`
}

// PublicView converts a User into its client-safe representation.
func (u *User) PublicView() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     u.RoleSet(),
		GoogleID:  u.GoogleID,
	}
}
