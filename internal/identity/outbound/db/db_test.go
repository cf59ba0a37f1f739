package db

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shandysiswandi/twostep/internal/identity/entity"
	"github.com/shandysiswandi/twostep/internal/pkg/goerror"
	"github.com/shandysiswandi/twostep/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewDB(mock, instrument.NewNoop()), mock
}

func TestDB_FindCredentialByEmail(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		db, mock := newMock(t)

		mock.ExpectQuery(`SELECT u.id, u.email, COALESCE\(c.password_hash, ''\)`).
			WithArgs("a@b.com").
			WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash"}).
				AddRow(int64(7), "a@b.com", "$2a$10$hash"))

		got, err := db.FindCredentialByEmail(t.Context(), "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, &entity.Credential{UserID: 7, Email: "a@b.com", PasswordHash: "$2a$10$hash"}, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := newMock(t)

		mock.ExpectQuery(`FROM identity_users`).
			WithArgs("x@b.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := db.FindCredentialByEmail(t.Context(), "x@b.com")
		assert.ErrorIs(t, err, goerror.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDB_ReplaceVerification(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()
	v := entity.Verification{
		ID:         "0190c1a2-0000-7000-8000-000000000001",
		Identifier: "two-step-login-sms-a@b.com",
		Value:      "123456:0",
		ExpiresAt:  now.Add(300 * time.Second),
		CreatedAt:  now,
	}

	t.Run("Success", func(t *testing.T) {
		db, mock := newMock(t)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM identity_verifications WHERE identifier = \$1`).
			WithArgs(v.Identifier).
			WillReturnResult(pgxmock.NewResult("DELETE", 2))
		mock.ExpectExec(`INSERT INTO identity_verifications`).
			WithArgs(v.ID, v.Identifier, v.Value, v.ExpiresAt, v.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		require.NoError(t, db.ReplaceVerification(t.Context(), v))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsertFailsRollsBack", func(t *testing.T) {
		db, mock := newMock(t)
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM identity_verifications`).
			WithArgs(v.Identifier).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec(`INSERT INTO identity_verifications`).
			WithArgs(v.ID, v.Identifier, v.Value, v.ExpiresAt, v.CreatedAt).
			WillReturnError(boom)
		mock.ExpectRollback()

		assert.ErrorIs(t, db.ReplaceVerification(t.Context(), v), boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDB_FindLatestVerification(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()

	t.Run("Found", func(t *testing.T) {
		db, mock := newMock(t)

		mock.ExpectQuery(`ORDER BY created_at DESC`).
			WithArgs("id-1").
			WillReturnRows(pgxmock.NewRows([]string{"id", "identifier", "value", "expires_at", "created_at"}).
				AddRow("v1", "id-1", "000123:0", now.Add(time.Minute), now))

		got, err := db.FindLatestVerification(t.Context(), "id-1")
		require.NoError(t, err)
		assert.Equal(t, "000123", got.Code())
		assert.Equal(t, "v1", got.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("None", func(t *testing.T) {
		db, mock := newMock(t)

		mock.ExpectQuery(`FROM identity_verifications`).
			WithArgs("id-1").
			WillReturnError(pgx.ErrNoRows)

		_, err := db.FindLatestVerification(t.Context(), "id-1")
		assert.ErrorIs(t, err, goerror.ErrNotFound)
	})
}

func TestDB_DeleteVerification(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(`DELETE FROM identity_verifications WHERE id = \$1`).
		WithArgs("v1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, db.DeleteVerification(t.Context(), "v1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_CreateUser(t *testing.T) {
	user := entity.NewUser{ID: 42, Email: "a@b.com", Name: "Ada"}

	t.Run("Success", func(t *testing.T) {
		db, mock := newMock(t)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO identity_users`).
			WithArgs(user.ID, user.Email, user.Name).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`INSERT INTO identity_user_credentials`).
			WithArgs(user.ID, "hash").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		require.NoError(t, db.CreateUser(t.Context(), user, "hash"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate", func(t *testing.T) {
		db, mock := newMock(t)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO identity_users`).
			WithArgs(user.ID, user.Email, user.Name).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectRollback()

		assert.ErrorIs(t, db.CreateUser(t.Context(), user, "hash"), goerror.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
