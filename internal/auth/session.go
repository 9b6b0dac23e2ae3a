// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatewarden Contributors

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Session is the proof of an authenticated login: an opaque bearer token tied
// to the user that owns it. A user may hold any number of concurrent sessions.
type Session struct {
	ID        ulid.ULID
	Token     string
	UserID    string
	CreatedAt time.Time
}

// NewSession creates a validated Session instance.
func NewSession(token, userID string) (*Session, error) {
	if token == "" {
		return nil, oops.Code("SESSION_INVALID_TOKEN").Errorf("token cannot be empty")
	}
	if userID == "" {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID cannot be empty")
	}

	return &Session{
		ID:        ulid.Make(),
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Now(),
	}, nil
}

// BearerToken extracts the token from an authorization header of the form
// "<scheme> <token>". A missing, malformed, or empty-token header returns
// ("", false); malformed headers are deliberately indistinguishable from
// absent ones.
func BearerToken(authorization string) (string, bool) {
	scheme, token, found := strings.Cut(authorization, " ")
	if !found || scheme == "" {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// SessionRepository manages session persistence.
//
// Implementations must enforce token uniqueness at the storage layer.
type SessionRepository interface {
	// Create stores a new session. A duplicate token surfaces as ErrDuplicate.
	Create(ctx context.Context, session *Session) error

	// GetByToken retrieves a session by its token.
	// Returns ErrNotFound if no session holds the given token.
	GetByToken(ctx context.Context, token string) (*Session, error)

	// DeleteByToken removes the session holding the given token.
	// Returns ErrNotFound if no session holds it.
	DeleteByToken(ctx context.Context, token string) error
}
