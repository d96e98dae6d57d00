// Package repo contains all database access logic for the vacation booking API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here: only SQL and type mapping. Every value-bearing
// statement binds its values as parameters; SQL text is never built from input.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/vacation-booking/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MutationResult is what the store reports back for an INSERT, UPDATE or DELETE.
// The service layer uses RowsAffected as the success signal.
type MutationResult struct {
	// RowsAffected is the number of rows the statement changed.
	RowsAffected int64
	// Message is the command tag text reported by Postgres, e.g. "DELETE 0".
	Message string
	// InsertID is the generated primary key for inserts; zero otherwise.
	InsertID int64
}

func newMutationResult(tag pgconn.CommandTag, insertID int64) MutationResult {
	return MutationResult{
		RowsAffected: tag.RowsAffected(),
		Message:      tag.String(),
		InsertID:     insertID,
	}
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// wrapConstraint wraps err with op, mapping constraint violations onto domain
// sentinels: a failed CHECK is a validation error and a dangling foreign key
// means the referenced row is gone.
func wrapConstraint(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.CheckViolation:
			return fmt.Errorf("%s: %w: violates %s", op, domain.ErrValidation, pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %w: referenced row does not exist", op, domain.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
