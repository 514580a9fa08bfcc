package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectTimeout  = 5 * time.Second
	maxConnIdleTime = 5 * time.Minute
)

// PostgresDB is a pgx connection pool to the invoice database
type PostgresDB struct {
	pool *pgxpool.Pool
}

// NewPostgresDB opens a pool of at most maxConns connections (pgx default when
// zero) and fails unless the database answers a ping.
func NewPostgresDB(ctx context.Context, dbURL string, maxConns int32) (*PostgresDB, error) {
	if dbURL == "" {
		return nil, errors.New("database URL is empty")
	}

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	db := &PostgresDB{pool: pool}
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return db, nil
}

// Close releases every pooled connection
func (db *PostgresDB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// GetPool exposes the pool to repositories
func (db *PostgresDB) GetPool() *pgxpool.Pool {
	return db.pool
}

// Ping reports whether the database is reachable; used by the health check
func (db *PostgresDB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// ExecuteTransaction runs fn inside a transaction, committing when fn succeeds.
// The deferred rollback is a no-op after a successful commit.
func (db *PostgresDB) ExecuteTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
