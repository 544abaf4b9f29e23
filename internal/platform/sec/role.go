// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package sec

// # User Roles

// Roles form a flat set, not a hierarchy. Every account carries RoleUser;
// RoleAdmin is granted additionally to practice staff.
const (
	// RoleUser is the base role every authenticated account holds.
	RoleUser = "ROLE_USER"

	// RoleAdmin grants access to the practice dashboard (contact requests, etc.).
	RoleAdmin = "ROLE_ADMIN"
)

// HasRole reports whether the claims contain the given role.
func (c *AuthClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// WithBaseRole returns roles with RoleUser guaranteed present.
//
// The base role is never persisted redundantly by callers that already store
// it, but every identity snapshot handed to the token issuer or a client must
// contain it.
func WithBaseRole(roles []string) []string {
	for _, r := range roles {
		if r == RoleUser {
			return roles
		}
	}
	out := make([]string, 0, len(roles)+1)
	out = append(out, roles...)
	out = append(out, RoleUser)
	return out
}
