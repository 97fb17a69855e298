package migrations

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func getTestDB(t *testing.T) (*sql.DB, func()) {
	ctx := context.Background()

	if _, err := os.Stat("/var/run/docker.sock"); err != nil && os.Getenv("DOCKER_HOST") == "" {
		t.Skip("docker is not available, skipping integration test")
	}

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)

	cleanup := func() {
		_ = db.Close()
		_ = pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

func TestRun_AppliesMigrations(t *testing.T) {
	db, cleanup := getTestDB(t)
	defer cleanup()

	path, err := filepath.Abs("../../migrations")
	require.NoError(t, err)

	require.NoError(t, Run(db, path))

	// Повторный запуск не должен падать (ErrNoChange).
	require.NoError(t, Run(db, path))

	var exists bool
	err = db.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables WHERE table_name = 'sweets'
    )`).Scan(&exists)
	require.NoError(t, err)
	require.True(t, exists)

	err = db.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables WHERE table_name = 'users'
    )`).Scan(&exists)
	require.NoError(t, err)
	require.True(t, exists)
}
