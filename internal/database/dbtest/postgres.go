// Package dbtest starts throwaway Postgres instances for integration tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/ajharbinger/score-api/internal/database"
)

// NewPostgres boots Postgres 16, applies the embedded migrations and returns
// an open pool. The test is skipped under -short or without a container provider.
func NewPostgres(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("scores_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, pgContainer)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(dsn))
	// A second run must be a no-op.
	require.NoError(t, database.RunMigrations(dsn))

	db, err := database.New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

// Truncate empties the scores table and restarts its id sequence
func Truncate(t *testing.T, db *database.DB) {
	t.Helper()
	_, err := db.ExecContext(context.Background(), "TRUNCATE scores RESTART IDENTITY")
	require.NoError(t, err)
}
