package db

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// Dialect names the SQL flavour behind a Conn.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

var (
	// ErrNoRows is returned by Row.Scan when the query matched nothing,
	// whatever the driver.
	ErrNoRows = errors.New("no rows in result set")
	// ErrConflict reports a unique constraint violation.
	ErrConflict = errors.New("unique constraint violation")
)

type Row interface {
	Scan(dest ...any) error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Conn is the query surface shared by the Postgres pool and the SQLite
// handle. Queries are written with '?' placeholders.
type Conn interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	Dialect() Dialect
	Close()
}

// Rebind rewrites '?' placeholders into Postgres' $n form.
func Rebind(query string) string {
	if !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 1
	for _, r := range query {
		if r == '?' {
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			n++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
