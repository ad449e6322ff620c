package flagmodel

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mbuczko/flagrant/internal/flagstore/postgresql"
)

// newTestService opens a Service against FLAGRANT_TEST_DSN, skipping the
// test when it isn't set. Grounded on the teacher's db_test.go newDb
// helper, adapted into a skip guard since a live Postgres is not always
// available to run against.
func newTestService(t *testing.T) (*Service, func()) {
	t.Helper()
	dsn := os.Getenv("FLAGRANT_TEST_DSN")
	if dsn == "" {
		t.Skip("FLAGRANT_TEST_DSN not set, skipping Postgres-backed flagmodel test")
	}

	ctx := context.Background()
	pool, err := postgresql.Open(ctx, postgresql.Config{DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, pool.Migrate(ctx))

	return New(pool), func() { pool.Close() }
}
