// Package testutil provides shared helpers for integration tests.
// Helpers in this package skip automatically when no database is available,
// so unit tests can run without a running database.
//
// A database is available when TEST_DATABASE_URL is set, or when
// TEST_CONTAINERS=1 and Docker is reachable, in which case a throwaway
// Postgres container is started once per test binary.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	dsnOnce sync.Once
	dsn     string
	dsnErr  error
)

// DSN returns the connection string of the test database, or "" when
// integration tests should be skipped. The container (if any) is reaped by
// testcontainers when the test binary exits.
func DSN() (string, error) {
	dsnOnce.Do(func() {
		if v := os.Getenv("TEST_DATABASE_URL"); v != "" {
			dsn = v
			return
		}
		if os.Getenv("TEST_CONTAINERS") != "1" {
			return
		}
		dsn, dsnErr = startContainer(context.Background())
	})
	return dsn, dsnErr
}

func startContainer(ctx context.Context) (string, error) {
	c, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("vacations"),
		postgres.WithUsername("vacations"),
		postgres.WithPassword("vacations"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return "", err
	}
	return c.ConnectionString(ctx, "sslmode=disable")
}

// NewPool opens a *pgxpool.Pool connected to the test database.
//
// The test is skipped automatically if no database is configured, so
// integration tests are opt-in and never break CI environments that lack a DB.
// The pool is closed automatically when the test (and all its subtests) finish.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := requireDSN(t)

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB opens a *sql.DB connected to the test database using the pgx
// database/sql driver.
//
// Use this when you need a *sql.DB rather than a *pgxpool.Pool: for example,
// when driving goose migrations in integration tests.
// The connection is closed automatically when the test finishes.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := requireDSN(t)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// MustOpenSQLDB opens a *sql.DB for the given DSN and panics on any error.
// Use this in TestMain functions where no *testing.T is available.
// Callers are responsible for closing the returned *sql.DB.
func MustOpenSQLDB(dsn string) *sql.DB {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		panic("testutil.MustOpenSQLDB: open: " + err.Error())
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		panic("testutil.MustOpenSQLDB: ping: " + err.Error())
	}
	return db
}

// requireDSN returns the test database DSN, skipping the test if there is none.
func requireDSN(t *testing.T) string {
	t.Helper()
	dsn, err := DSN()
	if err != nil {
		t.Fatalf("testutil: start postgres container: %v", err)
	}
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set and TEST_CONTAINERS!=1; skipping integration test")
	}
	return dsn
}
