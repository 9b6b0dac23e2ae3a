// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatewarden Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatewarden/gatewarden/internal/auth"
)

func TestNewSession(t *testing.T) {
	t.Run("creates session with generated ID", func(t *testing.T) {
		session, err := auth.NewSession("tok123", "user-42")
		require.NoError(t, err)
		assert.NotZero(t, session.ID)
		assert.Equal(t, "tok123", session.Token)
		assert.Equal(t, "user-42", session.UserID)
		assert.False(t, session.CreatedAt.IsZero())
	})

	t.Run("rejects empty token", func(t *testing.T) {
		session, err := auth.NewSession("", "user-42")
		require.Error(t, err)
		assert.Nil(t, session)
	})

	t.Run("rejects empty user ID", func(t *testing.T) {
		session, err := auth.NewSession("tok123", "")
		require.Error(t, err)
		assert.Nil(t, session)
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name          string
		authorization string
		wantToken     string
		wantOK        bool
	}{
		{name: "well formed header", authorization: "Bearer tok123", wantToken: "tok123", wantOK: true},
		{name: "empty header", authorization: "", wantToken: "", wantOK: false},
		{name: "token without scheme", authorization: "tok123", wantToken: "", wantOK: false},
		{name: "scheme without token", authorization: "Bearer ", wantToken: "", wantOK: false},
		{name: "scheme with blank token", authorization: "Bearer    ", wantToken: "", wantOK: false},
		{name: "leading space", authorization: " Bearertok123", wantToken: "", wantOK: false},
		{name: "extra whitespace around token", authorization: "Bearer  tok123 ", wantToken: "tok123", wantOK: true},
		{name: "non-bearer scheme still parses", authorization: "Token tok123", wantToken: "tok123", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := auth.BearerToken(tt.authorization)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}
