package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/udisondev/holdout/internal/db"
)

// SetupTestDB returns a migrated PostgreSQL pool.
// DB_ADDR selects an existing database; otherwise a postgres:16 container
// is started. The test is skipped in -short mode or when no database can
// be reached.
func SetupTestDB(tb testing.TB) *pgxpool.Pool {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping database test in short mode")
	}
	ctx := context.Background()

	dsn := os.Getenv("DB_ADDR")
	if dsn == "" {
		container, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("testdb"),
			postgres.WithUsername("test"),
			postgres.WithPassword("test"),
			postgres.BasicWaitStrategies(),
		)
		if err != nil {
			tb.Skipf("starting postgres container: %v", err)
		}
		tb.Cleanup(func() {
			if err := testcontainers.TerminateContainer(container); err != nil {
				tb.Logf("terminating postgres container: %v", err)
			}
		})

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			tb.Fatalf("getting connection string: %v", err)
		}
	}

	if err := db.RunMigrations(ctx, dsn); err != nil {
		tb.Skipf("running migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		tb.Fatalf("connecting to test db: %v", err)
	}
	tb.Cleanup(pool.Close)

	return pool
}
