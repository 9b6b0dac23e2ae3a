// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatewarden Contributors

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatewarden/gatewarden/internal/auth"
	"github.com/gatewarden/gatewarden/internal/auth/postgres"
)

func TestSessionRepository_Create(t *testing.T) {
	ctx := context.Background()

	session := &auth.Session{
		ID:        ulid.Make(),
		Token:     "aabbccddeeff00112233445566778899",
		UserID:    "user-42",
		CreatedAt: time.Now().UTC(),
	}

	t.Run("inserts session", func(t *testing.T) {
		mock := newMockPool(t)
		repo := postgres.NewSessionRepository(mock)

		mock.ExpectExec("INSERT INTO sessions").
			WithArgs(session.ID.String(), session.Token, session.UserID, session.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(ctx, session)
		require.NoError(t, err)
	})

	t.Run("duplicate token maps to ErrDuplicate", func(t *testing.T) {
		mock := newMockPool(t)
		repo := postgres.NewSessionRepository(mock)

		mock.ExpectExec("INSERT INTO sessions").
			WithArgs(session.ID.String(), session.Token, session.UserID, session.CreatedAt).
			WillReturnError(&pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "sessions_token_key",
			})

		err := repo.Create(ctx, session)
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrDuplicate)
	})

	t.Run("other database errors are wrapped", func(t *testing.T) {
		mock := newMockPool(t)
		repo := postgres.NewSessionRepository(mock)

		dbErr := errors.New("connection reset")
		mock.ExpectExec("INSERT INTO sessions").
			WithArgs(session.ID.String(), session.Token, session.UserID, session.CreatedAt).
			WillReturnError(dbErr)

		err := repo.Create(ctx, session)
		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, auth.ErrDuplicate)
	})
}

func TestSessionRepository_GetByToken(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stored session", func(t *testing.T) {
		mock := newMockPool(t)
		repo := postgres.NewSessionRepository(mock)

		id := ulid.Make()
		createdAt := time.Now().UTC()
		mock.ExpectQuery("SELECT id, token, user_id, created_at").
			WithArgs("tok123").
			WillReturnRows(pgxmock.NewRows([]string{"id", "token", "user_id", "created_at"}).
				AddRow(id.String(), "tok123", "user-42", createdAt))

		session, err := repo.GetByToken(ctx, "tok123")
		require.NoError(t, err)
		assert.Equal(t, id, session.ID)
		assert.Equal(t, "tok123", session.Token)
		assert.Equal(t, "user-42", session.UserID)
		assert.Equal(t, createdAt, session.CreatedAt)
	})

	t.Run("unknown token maps to ErrNotFound", func(t *testing.T) {
		mock := newMockPool(t)
		repo := postgres.NewSessionRepository(mock)

		mock.ExpectQuery("SELECT id, token, user_id, created_at").
			WithArgs("unknown").
			WillReturnError(pgx.ErrNoRows)

		session, err := repo.GetByToken(ctx, "unknown")
		require.Error(t, err)
		assert.Nil(t, session)
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestSessionRepository_DeleteByToken(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes session", func(t *testing.T) {
		mock := newMockPool(t)
		repo := postgres.NewSessionRepository(mock)

		mock.ExpectExec("DELETE FROM sessions").
			WithArgs("tok123").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := repo.DeleteByToken(ctx, "tok123")
		require.NoError(t, err)
	})

	t.Run("no matching row maps to ErrNotFound", func(t *testing.T) {
		mock := newMockPool(t)
		repo := postgres.NewSessionRepository(mock)

		mock.ExpectExec("DELETE FROM sessions").
			WithArgs("unknown").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.DeleteByToken(ctx, "unknown")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})

	t.Run("database errors are wrapped", func(t *testing.T) {
		mock := newMockPool(t)
		repo := postgres.NewSessionRepository(mock)

		dbErr := errors.New("connection reset")
		mock.ExpectExec("DELETE FROM sessions").
			WithArgs("tok123").
			WillReturnError(dbErr)

		err := repo.DeleteByToken(ctx, "tok123")
		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, auth.ErrNotFound)
	})
}
