// Package postgres owns the connection pool for the advocate store.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/resilience"
)

const pingTimeout = 5 * time.Second

// Client is a thin wrapper over *sql.DB that adds startup retries and a
// transaction helper.
type Client struct {
	db *sql.DB
}

// New opens the pool described by cfg and waits, with backoff, for the
// database to answer a ping.
func New(ctx context.Context, cfg config.PostgresConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening postgres pool: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	c := &Client{db: db}
	retry := resilience.RetryConfig{MaxAttempts: 5, InitialDelay: 200 * time.Millisecond}
	if err := resilience.Retry(ctx, "postgres-ping", retry, func() error { return c.Ping(ctx) }); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres not reachable: %w", err)
	}
	slog.Info("postgres connected", "host", cfg.Host, "database", cfg.Database, "max_open", cfg.MaxOpenConns)
	return c, nil
}

// Ping bounds each probe so a hung server cannot stall health checks.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return c.db.PingContext(ctx)
}

func (c *Client) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, query, args...)
}

func (c *Client) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.db.ExecContext(ctx, query, args...)
}

// InTx runs fn inside a transaction. The transaction commits only when fn
// returns nil; otherwise it is rolled back and fn's error is returned.
func (c *Client) InTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rolling back: %w", rbErr))
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.db.Close()
}
