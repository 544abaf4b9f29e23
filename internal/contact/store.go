// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package contact

import "context"

// Store defines the persistence operations for contact requests.
type Store interface {
	// Create persists a new contact request.
	Create(ctx context.Context, request *Request) error

	// FindByID returns a single request, or apperr.ErrNotFound.
	FindByID(ctx context.Context, id string) (*Request, error)

	// ListAll returns every request, newest first. Admin surface.
	ListAll(ctx context.Context) ([]*Request, error)

	// ListForUser returns the requests belonging to a caller, either by
	// linkage or by matching email, newest first.
	ListForUser(ctx context.Context, userID, email string) ([]*Request, error)

	// LinkUnowned attaches every unlinked request carrying the given email
	// to the user. Safe to run repeatedly; already-linked rows are left
	// untouched.
	LinkUnowned(ctx context.Context, userID, email string) error
}
