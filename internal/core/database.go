// AngelaMos | 2026
// database.go

package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/templates/storefront/internal/config"
)

const pingTimeout = 5 * time.Second

// Database wraps the sqlx pool opened on the pgx stdlib driver.
type Database struct {
	DB *sqlx.DB
}

func NewDatabase(ctx context.Context, cfg config.DatabaseConfig) (*Database, error) {
	db, err := sqlx.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(jitteredDuration(cfg.ConnMaxLifetime))
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	d := &Database{DB: db}
	if err := d.Ping(ctx); err != nil {
		_ = db.Close() //nolint:errcheck // already failing
		return nil, err
	}
	return d, nil
}

func (d *Database) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// PoolStats is a driver-neutral snapshot of a connection pool.
type PoolStats struct {
	Open     int    `json:"open"`
	InUse    int    `json:"inUse"`
	Idle     int    `json:"idle"`
	Waits    int64  `json:"waits"`
	Timeouts uint32 `json:"timeouts,omitempty"`
}

func (d *Database) PoolStats() PoolStats {
	s := d.DB.Stats()
	return PoolStats{Open: s.OpenConnections, InUse: s.InUse, Idle: s.Idle, Waits: s.WaitCount}
}

func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// DBTX is satisfied by both *sqlx.DB and *sqlx.Tx.
type DBTX interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// NoRows turns sql.ErrNoRows into ErrNotFound and leaves other errors alone.
func NoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Affected reports ErrNotFound when an UPDATE or DELETE matched nothing.
func Affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// InTx runs fn in a read-committed transaction. It commits when fn returns
// nil and rolls back on error or panic.
func InTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback() //nolint:errcheck // no-op after a failed commit
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}

// RetryPolicy bounds how often a unit of work is re-run after a transient
// conflict.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// WithRetry re-runs fn while it fails with a serialization failure or a
// deadlock. Any other error is returned immediately.
func WithRetry(
	ctx context.Context,
	policy RetryPolicy,
	fn func(ctx context.Context) error,
) error {
	attempts := max(policy.Attempts, 1)

	var err error
	for attempt := range attempts {
		err = fn(ctx)
		if err == nil || !IsRetryable(err) {
			return err
		}

		if attempt == attempts-1 {
			break
		}

		wait := jitteredDuration(policy.Delay * time.Duration(attempt+1))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return fmt.Errorf("retries exhausted: %w", err)
}

func IsRetryable(err error) bool {
	code := pgCode(err)
	return code == pgerrcode.SerializationFailure ||
		code == pgerrcode.DeadlockDetected
}

func IsUniqueViolation(err error) bool {
	return pgCode(err) == pgerrcode.UniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == pgerrcode.ForeignKeyViolation
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func jitteredDuration(base time.Duration) time.Duration {
	if base < 7 {
		return base
	}
	//nolint:gosec // G404: non-security-sensitive jitter
	jitter := time.Duration(rand.Int64N(int64(base / 7)))
	return base + jitter
}
