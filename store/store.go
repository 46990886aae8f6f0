// Package store persists activities, locations, members and the timecard
// event log over either database dialect.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rafhael-Viana/attendees/db"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// Store implements the persistence and membership collaborators.
type Store struct {
	conn db.Conn
}

func New(conn db.Conn) *Store {
	return &Store{conn: conn}
}

func (s *Store) Conn() db.Conn {
	return s.conn
}

func mapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrNoRows):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, db.ErrConflict):
		return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// inClause renders "col IN (?, ?, ...)" and appends the values to args.
func inClause(col string, ids []int64, args []any) (string, []any) {
	marks := make([]string, len(ids))
	for i, id := range ids {
		marks[i] = "?"
		args = append(args, id)
	}
	return fmt.Sprintf("%s IN (%s)", col, strings.Join(marks, ", ")), args
}

func joinList(values []string) string {
	clean := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			clean = append(clean, v)
		}
	}
	return strings.Join(clean, ",")
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
