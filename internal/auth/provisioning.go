// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatewarden Contributors

package auth

import "context"

// Identity is a user identity created by the external provisioning system.
// The service only consumes UserID; Username is echoed back for the boundary.
type Identity struct {
	UserID   string
	Username string
}

// ProvisioningClient creates user identities in the external system of
// record. Implementations must map every failure to one of the sentinel
// errors: ErrUsernameTaken when the username is already used,
// ErrProvisioningInternal for unrecognized responses or unparsable bodies,
// and ErrProvisioningUnavailable when no response arrives at all.
type ProvisioningClient interface {
	// CreateUser requests creation of a remote identity for username.
	// The call is blocking and honors ctx cancellation; it is never
	// retried by this package.
	CreateUser(ctx context.Context, username string) (*Identity, error)
}
