// Package postgresql implements flagstore.Store against PostgreSQL via
// database/sql and the pgx stdlib driver, grounded on the teacher's
// db/dbmanager pool setup and db/postgresql query style.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/mbuczko/flagrant/internal/common/apperrors"
	"github.com/mbuczko/flagrant/internal/flagerr"
	"github.com/mbuczko/flagrant/internal/flagstore"
)

// Pool is a PostgreSQL-backed flagstore.Store.
type Pool struct {
	db *sql.DB
}

var _ flagstore.Store = (*Pool)(nil)

// Config configures the connection pool.
type Config struct {
	DSN                             string
	MaxOpenConns                    int
	MaxIdleConns                    int
	ConnMaxLifetime                 time.Duration
	ConnMaxIdleTime                 time.Duration
	LockTimeout                     time.Duration
	StatementTimeout                time.Duration
	IdleInTransactionSessionTimeout time.Duration
}

// Open creates and pings a connection pool. The configured session parameters
// (lock/statement/idle timeouts) are applied with SET once, on the single
// connection Open acquires; connections the pool opens later do not get them.
func Open(ctx context.Context, cfg Config) (*Pool, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	sessionParams := map[string]time.Duration{
		"lock_timeout":                        cfg.LockTimeout,
		"statement_timeout":                   cfg.StatementTimeout,
		"idle_in_transaction_session_timeout": cfg.IdleInTransactionSessionTimeout,
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	for param, d := range sessionParams {
		if d <= 0 {
			continue
		}
		query := fmt.Sprintf("SET %s = %s", pq.QuoteIdentifier(param), pq.QuoteLiteral(d.String()))
		if _, err := conn.ExecContext(ctx, query); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set %s: %w", param, err)
		}
	}
	conn.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Pool{db: db}, nil
}

// DB returns the connection pool as a flagstore.Querier, for reads that run
// as their own implicit single-statement transaction.
func (p *Pool) DB() flagstore.Querier {
	return p.db
}

// SQLDB returns the underlying *sql.DB, for callers that need pool-level
// operations (Stats, PingContext) rather than query execution.
func (p *Pool) SQLDB() *sql.DB {
	return p.db
}

// Close releases the pool.
func (p *Pool) Close() error {
	return p.db.Close()
}

// Stats exposes pool occupancy as reported by database/sql.
func (p *Pool) Stats() sql.DBStats {
	return p.db.Stats()
}

// Begin opens a transaction, mapping connectivity failures to ErrStoreUnavailable
// the way every §4.2 operation expects.
func (p *Pool) Begin(ctx context.Context) (*sql.Tx, apperrors.Error) {
	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to start transaction")
		return nil, flagerr.ErrStoreUnavailable.Err(err)
	}
	return tx, nil
}
