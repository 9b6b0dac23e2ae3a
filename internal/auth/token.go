// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatewarden Contributors

package auth

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/samber/oops"
)

// MinTokenBytes is the smallest amount of entropy accepted for session
// tokens. 16 random bytes (32 hex chars) is the floor for unguessability.
const MinTokenBytes = 16

// DefaultTokenBytes is the token entropy used when none is configured.
const DefaultTokenBytes = 32

// TokenGenerator produces opaque session tokens.
type TokenGenerator interface {
	// Generate returns a new random token. Tokens carry no embedded
	// structure; they are only ever compared for equality.
	Generate() (string, error)
}

// RandomTokenGenerator implements TokenGenerator using crypto/rand with
// hex encoding. Bytes is the entropy per token and comes from configuration.
type RandomTokenGenerator struct {
	Bytes int
}

// NewRandomTokenGenerator creates a RandomTokenGenerator with the given
// entropy in bytes. Values below MinTokenBytes are rejected.
func NewRandomTokenGenerator(bytes int) (*RandomTokenGenerator, error) {
	if bytes < MinTokenBytes {
		return nil, oops.Code("TOKEN_ENTROPY_TOO_LOW").
			With("bytes", bytes).
			With("min", MinTokenBytes).
			Errorf("token entropy must be at least %d bytes", MinTokenBytes)
	}
	return &RandomTokenGenerator{Bytes: bytes}, nil
}

// Generate returns a new random hex-encoded token.
func (g *RandomTokenGenerator) Generate() (string, error) {
	buf := make([]byte, g.Bytes)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", g.Bytes).
			Wrap(err)
	}
	return hex.EncodeToString(buf), nil
}
