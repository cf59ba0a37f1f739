//go:build integration

package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/twostep/internal/identity/entity"
	"github.com/shandysiswandi/twostep/internal/pkg/goerror"
	"github.com/shandysiswandi/twostep/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func countVerifications(t *testing.T, pool *pgxpool.Pool, identifier string) int {
	t.Helper()

	var n int
	err := pool.QueryRow(t.Context(),
		`SELECT COUNT(*) FROM identity_verifications WHERE identifier = $1`,
		identifier,
	).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestDB_Postgres(t *testing.T) {
	ctx := t.Context()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("twostep"),
		postgres.WithUsername("twostep"),
		postgres.WithPassword("twostep"),
		postgres.WithInitScripts(filepath.Join("..", "..", "..", "..", "db", "migrations", "0001_init.up.sql")),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := NewDB(pool, instrument.NewNoop())

	require.NoError(t, db.CreateUser(ctx, entity.NewUser{ID: 1, Email: "a@b.com", Name: "Ada"}, "$2a$10$x"))
	assert.ErrorIs(t, db.CreateUser(ctx, entity.NewUser{ID: 2, Email: "a@b.com"}, "h"), goerror.ErrConflict)

	cred, err := db.FindCredentialByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), cred.UserID)
	assert.Equal(t, "$2a$10$x", cred.PasswordHash)

	_, err = db.FindCredentialByEmail(ctx, "none@b.com")
	assert.ErrorIs(t, err, goerror.ErrNotFound)

	now := time.Now().UTC().Truncate(time.Microsecond)
	ident := entity.SMSIdentifier("a@b.com")

	require.NoError(t, db.ReplaceVerification(ctx, entity.Verification{
		ID: "v1", Identifier: ident, Value: "111111:0", ExpiresAt: now.Add(5 * time.Minute), CreatedAt: now,
	}))
	require.NoError(t, db.ReplaceVerification(ctx, entity.Verification{
		ID: "v2", Identifier: ident, Value: "222222:0", ExpiresAt: now.Add(5 * time.Minute), CreatedAt: now.Add(time.Second),
	}))

	assert.Equal(t, 1, countVerifications(t, pool, ident))

	latest, err := db.FindLatestVerification(ctx, ident)
	require.NoError(t, err)
	assert.Equal(t, "v2", latest.ID)
	assert.Equal(t, "222222", latest.Code())

	require.NoError(t, db.DeleteVerification(ctx, "v2"))
	_, err = db.FindLatestVerification(ctx, ident)
	assert.ErrorIs(t, err, goerror.ErrNotFound)
}
