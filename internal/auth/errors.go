// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatewarden Contributors

package auth

import "errors"

// Sentinel errors for the account domain. Callers distinguish outcomes with
// errors.Is; repository and client implementations wrap these with oops codes
// and context before returning them.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a write violates a uniqueness constraint
	// other than the credential email index.
	ErrDuplicate = errors.New("duplicate entity")

	// ErrEmailExists is returned when registering an email that already has
	// a credential.
	ErrEmailExists = errors.New("email already exists")

	// ErrUsernameTaken is returned when the provisioning system reports the
	// requested username as already used.
	ErrUsernameTaken = errors.New("username already used")

	// ErrProvisioningInternal is returned when the provisioning system fails
	// in a way that is not attributable to the request.
	ErrProvisioningInternal = errors.New("provisioning internal error")

	// ErrProvisioningUnavailable is returned when the provisioning system
	// cannot be reached at all.
	ErrProvisioningUnavailable = errors.New("provisioning unavailable")

	// ErrInvalidCredentials is returned on login when the email is unknown or
	// the password does not match. The two causes are deliberately
	// indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSessionNotFound is returned when a bearer token does not resolve to
	// a stored session, including when the authorization header is absent or
	// malformed.
	ErrSessionNotFound = errors.New("session not found")
)
