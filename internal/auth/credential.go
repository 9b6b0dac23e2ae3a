// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatewarden Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Credential links an email and password hash to an externally provisioned
// user identity. Credentials are immutable once created.
type Credential struct {
	ID           ulid.ULID
	Email        string
	PasswordHash string
	UserID       string
	CreatedAt    time.Time
}

// NewCredential creates a validated Credential instance.
func NewCredential(email, passwordHash, userID string) (*Credential, error) {
	if email == "" {
		return nil, oops.Code("CREDENTIAL_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if passwordHash == "" {
		return nil, oops.Code("CREDENTIAL_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	if userID == "" {
		return nil, oops.Code("CREDENTIAL_INVALID_USER").Errorf("user ID cannot be empty")
	}

	return &Credential{
		ID:           ulid.Make(),
		Email:        email,
		PasswordHash: passwordHash,
		UserID:       userID,
		CreatedAt:    time.Now(),
	}, nil
}

// CredentialRepository manages credential persistence.
//
// Implementations must enforce uniqueness of both Email and UserID at the
// storage layer; the service relies on that to resolve registration races.
type CredentialRepository interface {
	// Create stores a new credential. A duplicate email surfaces as
	// ErrEmailExists; a duplicate user ID surfaces as ErrDuplicate.
	Create(ctx context.Context, credential *Credential) error

	// GetByEmail retrieves a credential by email (case-sensitive).
	// Returns ErrNotFound if no credential has the given email.
	GetByEmail(ctx context.Context, email string) (*Credential, error)
}
