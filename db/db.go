package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rafhael-Viana/attendees/config"
)

const pgUniqueViolation = "23505"

// Database wraps the pgx pool.
type Database struct {
	pool *pgxpool.Pool
}

func NewPool(ctx context.Context, c config.DB) (*Database, error) {
	slog.Info("connecting to postgres", "host", c.Host, "port", c.Port, "db", c.Name)

	cfg, err := pgxpool.ParseConfig(c.URL())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	cfg.MaxConns = c.MaxConns
	cfg.MinConns = 1
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Database{pool: pool}, nil
}

func (d *Database) Pool() *pgxpool.Pool {
	return d.pool
}

func (d *Database) Dialect() Dialect { return Postgres }

func (d *Database) Close() {
	slog.Info("closing postgres pool")
	d.pool.Close()
}

func (d *Database) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

func (d *Database) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := d.pool.Exec(ctx, Rebind(query), args...)
	if err != nil {
		return 0, pgError(err)
	}
	return tag.RowsAffected(), nil
}

func (d *Database) QueryRow(ctx context.Context, query string, args ...any) Row {
	return pgRow{row: d.pool.QueryRow(ctx, Rebind(query), args...)}
}

func (d *Database) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := d.pool.Query(ctx, Rebind(query), args...)
	if err != nil {
		return nil, pgError(err)
	}
	return rows, nil
}

type pgRow struct {
	row pgx.Row
}

func (r pgRow) Scan(dest ...any) error {
	if err := r.row.Scan(dest...); err != nil {
		return pgError(err)
	}
	return nil
}

func pgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRows
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
	}
	return err
}
