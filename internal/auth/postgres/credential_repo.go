// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatewarden Contributors

// Package postgres implements the auth repositories using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/gatewarden/gatewarden/internal/auth"
)

// DB is the subset of *pgxpool.Pool the repositories use. pgxmock pools
// satisfy it too, which keeps the repository tests off a live database.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Unique constraint names from the credentials migration.
const (
	credentialEmailConstraint = "credentials_email_key"
	credentialUserConstraint  = "credentials_user_id_key"
)

// CredentialRepository implements auth.CredentialRepository using PostgreSQL.
type CredentialRepository struct {
	db DB
}

// NewCredentialRepository creates a new CredentialRepository.
func NewCredentialRepository(db DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Create stores a new credential. Unique violations on the email index map to
// auth.ErrEmailExists so registration races resolve to the same failure as
// the pre-check; violations on the user ID index map to auth.ErrDuplicate.
func (r *CredentialRepository) Create(ctx context.Context, credential *auth.Credential) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO credentials (id, email, password_hash, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		credential.ID.String(),
		credential.Email,
		credential.PasswordHash,
		credential.UserID,
		credential.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			if pgErr.ConstraintName == credentialEmailConstraint {
				return oops.Code("CREDENTIAL_EMAIL_EXISTS").
					With("email", credential.Email).
					Wrap(auth.ErrEmailExists)
			}
			return oops.Code("CREDENTIAL_DUPLICATE").
				With("constraint", pgErr.ConstraintName).
				Wrap(auth.ErrDuplicate)
		}
		return oops.Code("CREDENTIAL_CREATE_FAILED").
			With("operation", "insert credential").
			Wrap(err)
	}
	return nil
}

// GetByEmail retrieves a credential by email (case-sensitive, as stored).
func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (*auth.Credential, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, email, password_hash, user_id, created_at
		FROM credentials
		WHERE email = $1
	`, email)

	credential, err := scanCredential(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CREDENTIAL_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CREDENTIAL_GET_BY_EMAIL_FAILED").
			With("operation", "get credential by email").
			Wrap(err)
	}
	return credential, nil
}

// scanCredential scans a single row into a Credential.
// Callers are responsible for handling pgx.ErrNoRows.
func scanCredential(row pgx.Row) (*auth.Credential, error) {
	var (
		idStr        string
		email        string
		passwordHash string
		userID       string
		createdAt    time.Time
	)

	err := row.Scan(&idStr, &email, &passwordHash, &userID, &createdAt)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("CREDENTIAL_SCAN_FAILED").
			With("operation", "scan credential").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("CREDENTIAL_INVALID_ID").
			With("operation", "parse credential id").
			With("id", idStr).
			Wrap(err)
	}

	return &auth.Credential{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		UserID:       userID,
		CreatedAt:    createdAt,
	}, nil
}

// Compile-time interface check.
var _ auth.CredentialRepository = (*CredentialRepository)(nil)
