// Package postgres implements the store interfaces against a PostgreSQL
// database accessed through database/sql with the pgx driver.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/dstreet/taskhub/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// defaultQueryTimeout bounds statements when no explicit timeout was
// configured, so no store call can hang indefinitely.
const defaultQueryTimeout = 5 * time.Second

// isUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation, such as a duplicate email address.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// isForeignKeyViolation checks if the given error is a PostgreSQL foreign key
// constraint violation, such as a task pointing at a missing user.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}

// withTimeout derives a per-statement deadline from ctx.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// mapDeadline converts a deadline expiry into the store's retryable timeout
// error; other errors pass through unchanged.
func mapDeadline(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return store.ErrTimeout
	}
	return err
}
