package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"solana-sniper-terminal/internal/observability"
)

// Pool wraps pgxpool.Pool for dependency injection.
type Pool struct {
	*pgxpool.Pool
}

// NewPool creates a new Postgres connection pool. The initial connect is
// retried with exponential backoff so the service survives a database that
// comes up a few seconds after it does.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	ping := func() error {
		return pool.Ping(ctx)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(ping, backoff.WithContext(bo, ctx)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Close closes the connection pool.
func (p *Pool) Close() {
	p.Pool.Close()
}

// Exec runs a statement and records query metrics.
func (p *Pool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	start := time.Now()
	tag, err := p.Pool.Exec(ctx, sql, args...)
	observability.RecordDBQuery("postgres", "exec", time.Since(start).Seconds(), err)
	return tag, err
}

// Query runs a query and records query metrics.
func (p *Pool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	start := time.Now()
	rows, err := p.Pool.Query(ctx, sql, args...)
	observability.RecordDBQuery("postgres", "query", time.Since(start).Seconds(), err)
	return rows, err
}

// QueryRow runs a single-row query. Metrics are recorded when the row is
// scanned, since that is where pgx surfaces the error; ErrNoRows is a routine
// outcome and is not counted as a query error.
func (p *Pool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return timedRow{row: p.Pool.QueryRow(ctx, sql, args...), start: time.Now()}
}

type timedRow struct {
	row   pgx.Row
	start time.Time
}

func (r timedRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	recorded := err
	if errors.Is(err, pgx.ErrNoRows) {
		recorded = nil
	}
	observability.RecordDBQuery("postgres", "query_row", time.Since(r.start).Seconds(), recorded)
	return err
}

// PostgreSQL error codes
const (
	pgErrUniqueViolation = "23505" // unique_violation
)

// isDuplicateKeyError checks if error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUniqueViolation
	}

	return false
}

// isNotFoundError checks if error indicates no rows found.
func isNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
