// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mgirard/praxia/internal/platform/apperr"
	"github.com/mgirard/praxia/internal/platform/dberr"
)

// requestColumns is the canonical column list scanned into a [Request].
const requestColumns = `id, first_name, last_name, email, phone, consultation_type, message, confidentiality_accepted, created_at, processed, user_id`

// PostgresStore implements [Store] using pgx against the contact_request
// table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a new PostgreSQL implementation of the contact Store.
func NewStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Create persists a new contact request.
func (store *PostgresStore) Create(ctx context.Context, request *Request) error {
	const query = `
		INSERT INTO contact_request (
			id, first_name, last_name, email, phone, consultation_type, message,
			confidentiality_accepted, created_at, processed, user_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now()
	}

	_, err := store.pool.Exec(ctx, query,
		request.ID,
		request.FirstName,
		request.LastName,
		request.Email,
		request.Phone,
		request.ConsultationType,
		request.Message,
		request.ConfidentialityAccepted,
		request.CreatedAt,
		request.Processed,
		request.UserID,
	)

	if err != nil {
		return dberr.Wrap(err, "Duplicate contact request")
	}

	return nil
}

// FindByID retrieves a contact request by primary key.
func (store *PostgresStore) FindByID(ctx context.Context, id string) (*Request, error) {
	const query = `
		SELECT ` + requestColumns + `
		FROM contact_request
		WHERE id = $1`

	request := &Request{}
	err := store.pool.QueryRow(ctx, query, id).Scan(scanTargets(request)...)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Contact request")
		}
		return nil, fmt.Errorf("postgres_contact_store_query_failed: %w", err)
	}

	return request, nil
}

// ListAll returns every contact request, newest first.
func (store *PostgresStore) ListAll(ctx context.Context) ([]*Request, error) {
	const query = `
		SELECT ` + requestColumns + `
		FROM contact_request
		ORDER BY created_at DESC`

	return store.list(ctx, query)
}

// ListForUser returns the requests owned by the user or carrying the same
// email, newest first. Email matching is case-insensitive, consistent with
// account lookup.
func (store *PostgresStore) ListForUser(ctx context.Context, userID, email string) ([]*Request, error) {
	const query = `
		SELECT ` + requestColumns + `
		FROM contact_request
		WHERE user_id = $1 OR LOWER(email) = LOWER($2)
		ORDER BY created_at DESC`

	return store.list(ctx, query, userID, email)
}

// LinkUnowned attaches unlinked requests with a matching email to the user.
//
// The user_id IS NULL guard makes the operation idempotent: repeated runs
// for the same user leave exactly the same rows linked, and requests already
// owned by a different account are never reassigned.
func (store *PostgresStore) LinkUnowned(ctx context.Context, userID, email string) error {
	const query = `
		UPDATE contact_request
		SET user_id = $1
		WHERE user_id IS NULL AND LOWER(email) = LOWER($2)`

	if _, err := store.pool.Exec(ctx, query, userID, email); err != nil {
		return fmt.Errorf("postgres_contact_store_link_failed: %w", err)
	}

	return nil
}

// list runs a multi-row query and maps the rows into [Request] values.
func (store *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*Request, error) {
	rows, err := store.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_contact_store_query_failed: %w", err)
	}
	defer rows.Close()

	requests := []*Request{}
	for rows.Next() {
		request := &Request{}
		if err := rows.Scan(scanTargets(request)...); err != nil {
			return nil, fmt.Errorf("postgres_contact_store_scan_failed: %w", err)
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_contact_store_rows_failed: %w", err)
	}

	return requests, nil
}

// scanTargets returns the scan destinations matching requestColumns order.
func scanTargets(request *Request) []any {
	return []any{
		&request.ID,
		&request.FirstName,
		&request.LastName,
		&request.Email,
		&request.Phone,
		&request.ConsultationType,
		&request.Message,
		&request.ConfidentialityAccepted,
		&request.CreatedAt,
		&request.Processed,
		&request.UserID,
	}
}
