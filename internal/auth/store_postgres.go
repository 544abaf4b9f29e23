// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package auth

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

// userColumns is the canonical column list scanned into a [User].
const userColumns = `id, email, password_hash, first_name, last_name, roles, google_id, is_verified, created_at, updated_at`

// PostgresUserRepository implements [UserRepository] using pgx.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, SQLSTATE 23505) are mapped to
// domain-friendly [apperr.AppError] values via [dberr.Wrap], so no storage
// detail leaks past this layer.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record into the app_user table.
//
// A unique-index violation on email or google_id comes back as a Conflict
// error; the constraint, not the caller's pre-check, is authoritative.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO app_user (
			id, email, password_hash, first_name, last_name, roles, google_id, is_verified, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.RoleSet(),
		user.GoogleID,
		user.IsVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "An account with this email already exists")
	}

	return nil
}

// FindByEmail retrieves a user record by email, case-insensitively.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM app_user
		WHERE LOWER(email) = LOWER($1)`

	return repository.findOne(ctx, query, email)
}

// FindByGoogleID retrieves the user linked to a Google subject ID.
func (repository *PostgresUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM app_user
		WHERE google_id = $1`

	return repository.findOne(ctx, query, googleID)
}

// FindByID retrieves a user record by primary key.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM app_user
		WHERE id = $1`

	return repository.findOne(ctx, query, id)
}

// Update persists the user's mutable fields (names, roles, Google linkage,
// verified flag) and refreshes the updated_at timestamp.
func (repository *PostgresUserRepository) Update(ctx context.Context, user *User) error {
	const query = `
		UPDATE app_user
		SET email = $2, first_name = $3, last_name = $4, roles = $5,
		    google_id = $6, is_verified = $7, updated_at = $8
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	commandTag, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.RoleSet(),
		user.GoogleID,
		user.IsVerified,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Another account already uses this email or Google account")
	}

	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// findOne runs a single-row query and maps its result into a [User].
func (repository *PostgresUserRepository) findOne(ctx context.Context, query, arg string) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Roles,
		&user.GoogleID,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_query_failed: %w", err)
	}

	return user, nil
}
