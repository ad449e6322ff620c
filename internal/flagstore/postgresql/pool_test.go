package postgresql

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mbuczko/flagrant/internal/flagerr"
)

// newTestPool opens a Pool against FLAGRANT_TEST_DSN, skipping when it isn't
// set, the same skip-guard newTestService uses in flagmodel's tests.
func newTestPool(t *testing.T) (*Pool, func()) {
	t.Helper()
	dsn := os.Getenv("FLAGRANT_TEST_DSN")
	if dsn == "" {
		t.Skip("FLAGRANT_TEST_DSN not set, skipping Postgres-backed test")
	}

	ctx := context.Background()
	pool, err := Open(ctx, Config{DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, pool.Migrate(ctx))

	return pool, func() { pool.Close() }
}

func TestCreateAndGetProject(t *testing.T) {
	pool, cleanup := newTestPool(t)
	defer cleanup()
	ctx := context.Background()

	created, aerr := pool.CreateProject(ctx, pool.DB(), "pool-project")
	require.Nil(t, aerr)
	require.NotZero(t, created.ID)

	fetched, aerr := pool.GetProject(ctx, pool.DB(), created.ID)
	require.Nil(t, aerr)
	require.Equal(t, created.ID, fetched.ID)
	require.Equal(t, "pool-project", fetched.Name)
}

func TestCreateProjectDuplicateName(t *testing.T) {
	pool, cleanup := newTestPool(t)
	defer cleanup()
	ctx := context.Background()

	_, aerr := pool.CreateProject(ctx, pool.DB(), "dup-project")
	require.Nil(t, aerr)

	_, aerr = pool.CreateProject(ctx, pool.DB(), "dup-project")
	require.ErrorIs(t, aerr, flagerr.ErrNameTaken)
}

func TestGetProjectNotFound(t *testing.T) {
	pool, cleanup := newTestPool(t)
	defer cleanup()
	ctx := context.Background()

	_, aerr := pool.GetProject(ctx, pool.DB(), 9999999)
	require.ErrorIs(t, aerr, flagerr.ErrNotFound)
}

func TestBeginRollback(t *testing.T) {
	pool, cleanup := newTestPool(t)
	defer cleanup()
	ctx := context.Background()

	tx, aerr := pool.Begin(ctx)
	require.Nil(t, aerr)

	_, err := pool.CreateProject(ctx, tx, "tx-project")
	require.Nil(t, err)
	require.NoError(t, tx.Rollback())

	// Rolled back, so a fresh read should not find the project by name
	// (a second insert with the same name must succeed, proving the first
	// never committed).
	_, aerr = pool.CreateProject(ctx, pool.DB(), "tx-project")
	require.Nil(t, aerr)
}

func TestPoolStats(t *testing.T) {
	pool, cleanup := newTestPool(t)
	defer cleanup()

	stats := pool.Stats()
	require.GreaterOrEqual(t, stats.OpenConnections, 0)
}
