// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatewarden Contributors

// Package auth provides credential and session management for Gatewarden.
//
// # Domain Types
//
// Domain types (Credential, Session) should be created using their
// respective constructors:
//   - NewCredential - creates a Credential with validated email, hash, and user ID
//   - NewSession - creates a Session with validated token and user ID
//
// Direct struct initialization bypasses validation and may create invalid state.
// Repository implementations receive pre-validated types from these constructors.
//
// # Services
//
// Service coordinates the four account operations: Register, Login, Logout,
// and CurrentUser. Registration delegates identity creation to an external
// provisioning system through the ProvisioningClient interface; everything
// else operates on the local credential and session stores.
//
// The service holds no cross-request state. Duplicate registrations racing
// between the uniqueness pre-check and the write are resolved by the backing
// store's unique constraints, never by locks in this package.
package auth
