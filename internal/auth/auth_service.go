// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatewarden Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("gatewarden/auth")

// Service provides the account operations: registration, login, logout, and
// current-user resolution.
type Service struct {
	credentials CredentialRepository
	sessions    SessionRepository
	hasher      PasswordHasher
	tokens      TokenGenerator
	provisioner ProvisioningClient
	logger      *slog.Logger
}

// NewAuthService creates a new Service. All collaborators are fixed at
// construction; nothing on the service is reassigned afterwards.
func NewAuthService(
	credentials CredentialRepository,
	sessions SessionRepository,
	hasher PasswordHasher,
	tokens TokenGenerator,
	provisioner ProvisioningClient,
) (*Service, error) {
	return NewAuthServiceWithLogger(credentials, sessions, hasher, tokens, provisioner, slog.Default())
}

// NewAuthServiceWithLogger creates a new Service with an explicit logger.
func NewAuthServiceWithLogger(
	credentials CredentialRepository,
	sessions SessionRepository,
	hasher PasswordHasher,
	tokens TokenGenerator,
	provisioner ProvisioningClient,
	logger *slog.Logger,
) (*Service, error) {
	if credentials == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("credentials repository is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("sessions repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("token generator is required")
	}
	if provisioner == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("provisioning client is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("logger is required")
	}
	return &Service{
		credentials: credentials,
		sessions:    sessions,
		hasher:      hasher,
		tokens:      tokens,
		provisioner: provisioner,
		logger:      logger,
	}, nil
}

// dummyPasswordHash is used when a credential doesn't exist to prevent timing
// attacks. We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register creates a credential for a new user. The user identity itself is
// created by the external provisioning system; the credential stores the
// returned user ID alongside the email and password hash.
//
// Duplicate emails fail with ErrEmailExists, both on the pre-check and on a
// write-time unique violation (the backstop for two registrations racing).
// A username the provisioning system reports as taken fails with
// ErrUsernameTaken before anything is written locally.
func (s *Service) Register(ctx context.Context, email, password, username string) (*Credential, error) {
	ctx, span := tracer.Start(ctx, "auth.register",
		trace.WithAttributes(attribute.String("auth.username", username)))
	defer span.End()

	_, err := s.credentials.GetByEmail(ctx, email)
	switch {
	case err == nil:
		span.SetStatus(codes.Error, "email already exists")
		return nil, oops.Code("AUTH_EMAIL_EXISTS").
			With("email", email).
			Wrap(ErrEmailExists)
	case !errors.Is(err, ErrNotFound):
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "get credential by email").
			Wrap(err)
	}

	identity, err := s.provisioner.CreateUser(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken):
			span.SetStatus(codes.Error, "username taken")
			return nil, oops.Code("AUTH_USERNAME_TAKEN").
				With("username", username).
				Wrap(err)
		case errors.Is(err, ErrProvisioningUnavailable):
			return nil, oops.Code("AUTH_PROVISIONING_UNAVAILABLE").
				With("operation", "request user creation").
				Wrap(err)
		}
		// Anything else, including a provisioning internal error, propagates
		// unchanged rather than being reinterpreted.
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	credential, err := NewCredential(email, hash, identity.UserID)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create credential").
			Wrap(err)
	}

	if err := s.credentials.Create(ctx, credential); err != nil {
		if errors.Is(err, ErrEmailExists) {
			span.SetStatus(codes.Error, "email already exists")
			return nil, oops.Code("AUTH_EMAIL_EXISTS").
				With("email", email).
				Wrap(err)
		}
		// The remote identity now exists without a local credential; surface
		// the user ID so reconciliation can find it.
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "persist credential").
			With("orphaned_user_id", identity.UserID).
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", identity.UserID)
	return credential, nil
}

// Login verifies an email/password pair and creates a session. An unknown
// email and a wrong password both fail with ErrInvalidCredentials; the two
// are indistinguishable to the caller, and verification runs against a dummy
// hash when the email is unknown to keep response time consistent.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	ctx, span := tracer.Start(ctx, "auth.login")
	defer span.End()

	credential, lookupErr := s.credentials.GetByEmail(ctx, email)

	targetHash := dummyPasswordHash
	credentialExists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get credential by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = credential.PasswordHash
		credentialExists = true
	}

	// Always verify, even against the dummy hash.
	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !credentialExists {
			return nil, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
		}
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !credentialExists || !valid {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	token, err := s.tokens.Generate()
	if err != nil {
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "generate session token").
			Wrap(err)
	}

	session, err := NewSession(token, credential.UserID)
	if err != nil {
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "create session").
			Wrap(err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "persist session").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", credential.UserID)
	return session, nil
}

// Logout revokes the session named by the authorization header. A missing or
// malformed header is treated the same as an unknown token: ErrSessionNotFound.
func (s *Service) Logout(ctx context.Context, authorization string) error {
	ctx, span := tracer.Start(ctx, "auth.logout")
	defer span.End()

	token, ok := BearerToken(authorization)
	if !ok {
		span.SetStatus(codes.Error, "no bearer token")
		return oops.Code("AUTH_SESSION_NOT_FOUND").Wrap(ErrSessionNotFound)
	}

	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		if errors.Is(err, ErrNotFound) {
			span.SetStatus(codes.Error, "session not found")
			return oops.Code("AUTH_SESSION_NOT_FOUND").Wrap(ErrSessionNotFound)
		}
		return oops.Code("AUTH_LOGOUT_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "session revoked")
	return nil
}

// CurrentUser resolves the authorization header to the user ID owning the
// session. Absent, malformed, and unknown tokens all fail with
// ErrSessionNotFound; the boundary surfaces that as unauthorized.
func (s *Service) CurrentUser(ctx context.Context, authorization string) (string, error) {
	ctx, span := tracer.Start(ctx, "auth.current_user")
	defer span.End()

	token, ok := BearerToken(authorization)
	if !ok {
		span.SetStatus(codes.Error, "no bearer token")
		return "", oops.Code("AUTH_SESSION_NOT_FOUND").Wrap(ErrSessionNotFound)
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			span.SetStatus(codes.Error, "session not found")
			return "", oops.Code("AUTH_SESSION_NOT_FOUND").Wrap(ErrSessionNotFound)
		}
		return "", oops.Code("AUTH_CURRENT_USER_FAILED").
			With("operation", "get session by token").
			Wrap(err)
	}

	return session.UserID, nil
}
