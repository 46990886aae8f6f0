package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SQLiteDB is a single-file store for development and single-node deployments.
type SQLiteDB struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(path string) (*SQLiteDB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Single connection: Rows must be closed before the next query is issued.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &SQLiteDB{sqlDB: sqlDB}, nil
}

func (s *SQLiteDB) Dialect() Dialect { return SQLite }

func (s *SQLiteDB) Close() {
	if s == nil || s.sqlDB == nil {
		return
	}
	_ = s.sqlDB.Close()
}

func (s *SQLiteDB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.sqlDB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, sqliteError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *SQLiteDB) QueryRow(ctx context.Context, query string, args ...any) Row {
	return sqlRow{row: s.sqlDB.QueryRowContext(ctx, query, args...)}
}

func (s *SQLiteDB) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, sqliteError(err)
	}
	return sqlRows{Rows: rows}, nil
}

type sqlRow struct {
	row *sql.Row
}

func (r sqlRow) Scan(dest ...any) error {
	if err := r.row.Scan(dest...); err != nil {
		return sqliteError(err)
	}
	return nil
}

type sqlRows struct {
	*sql.Rows
}

func (r sqlRows) Close() {
	_ = r.Rows.Close()
}

func sqliteError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRows
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%w: %s", ErrConflict, sqliteErr.Error())
		}
	}
	if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
		return fmt.Errorf("%w: %s", ErrConflict, err.Error())
	}
	return err
}
