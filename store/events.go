package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rafhael-Viana/attendees/models"
)

const eventColumns = `id, member_id, activity_id, location_id, logged_at, direction, origin_address`

func scanEvent(row interface{ Scan(...any) error }) (models.TimecardEvent, error) {
	var e models.TimecardEvent
	var direction string
	err := row.Scan(
		&e.ID,
		&e.MemberID,
		&e.ActivityID,
		&e.LocationID,
		&e.Timestamp,
		&direction,
		&e.OriginAddress,
	)
	e.Direction = models.Direction(direction)
	return e, err
}

// AppendEvent writes one immutable event and returns it with its id.
func (s *Store) AppendEvent(ctx context.Context, e models.TimecardEvent) (models.TimecardEvent, error) {
	if !e.Direction.Valid() {
		return models.TimecardEvent{}, fmt.Errorf("append event: invalid direction %q", e.Direction)
	}
	err := s.conn.QueryRow(ctx, `
		INSERT INTO timecard_events (
			member_id, activity_id, location_id, logged_at, direction, origin_address
		)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		e.MemberID,
		e.ActivityID,
		e.LocationID,
		e.Timestamp,
		string(e.Direction),
		e.OriginAddress,
	).Scan(&e.ID)
	if err != nil {
		return models.TimecardEvent{}, mapErr("append event", err)
	}
	return e, nil
}

func scopeWhere(scope models.EventScope, direction models.Direction) ([]string, []any) {
	where := []string{"activity_id = ?", "member_id = ?", "direction = ?"}
	args := []any{scope.ActivityID, scope.MemberID, string(direction)}
	if scope.LocationID > 0 {
		where = append(where, "location_id = ?")
		args = append(args, scope.LocationID)
	}
	if scope.OriginAddress != "" {
		where = append(where, "origin_address = ?")
		args = append(args, scope.OriginAddress)
	}
	return where, args
}

// LatestEvent returns the most recent event of one direction in scope, or
// nil when there is none.
func (s *Store) LatestEvent(ctx context.Context, scope models.EventScope, direction models.Direction) (*models.TimecardEvent, error) {
	where, args := scopeWhere(scope, direction)
	return s.oneEvent(ctx, "latest event", `
		SELECT `+eventColumns+`
		FROM timecard_events
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY logged_at DESC, id DESC
		LIMIT 1
	`, args...)
}

// NextEvent returns the first event of one direction in scope strictly after
// the cursor, or nil.
func (s *Store) NextEvent(ctx context.Context, scope models.EventScope, direction models.Direction, after models.EventCursor) (*models.TimecardEvent, error) {
	where, args := scopeWhere(scope, direction)
	where = append(where, "(logged_at > ? OR (logged_at = ? AND id > ?))")
	args = append(args, after.Timestamp, after.Timestamp, after.ID)
	return s.oneEvent(ctx, "next event", `
		SELECT `+eventColumns+`
		FROM timecard_events
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY logged_at ASC, id ASC
		LIMIT 1
	`, args...)
}

func (s *Store) oneEvent(ctx context.Context, op, query string, args ...any) (*models.TimecardEvent, error) {
	e, err := scanEvent(s.conn.QueryRow(ctx, query, args...))
	if err != nil {
		err = mapErr(op, err)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// SignIns returns one page of "in" events matching the filter, newest first,
// joined with member and location names.
func (s *Store) SignIns(ctx context.Context, f models.HistoryFilter, limit, offset int) ([]models.HistoryEntry, error) {
	where := []string{"e.activity_id = ?", "e.direction = ?"}
	args := []any{f.ActivityID, string(models.DirectionIn)}

	if f.From > 0 {
		where = append(where, "e.logged_at >= ?")
		args = append(args, f.From)
	}
	if f.To > 0 {
		where = append(where, "e.logged_at <= ?")
		args = append(args, f.To)
	}
	if len(f.MemberIDs) > 0 {
		var clause string
		clause, args = inClause("e.member_id", f.MemberIDs, args)
		where = append(where, clause)
	}
	if len(f.LocationIDs) > 0 {
		var clause string
		clause, args = inClause("e.location_id", f.LocationIDs, args)
		where = append(where, clause)
	}
	if len(f.CourseIDs) > 0 {
		var clause string
		clause, args = inClause("cm.course_id", f.CourseIDs, args)
		where = append(where, "e.member_id IN (SELECT cm.member_id FROM course_members cm WHERE "+clause+")")
	}
	args = append(args, limit, offset)

	rows, err := s.conn.Query(ctx, `
		SELECT e.id, e.member_id, e.activity_id, e.location_id, e.logged_at,
		       e.direction, e.origin_address,
		       COALESCE(m.first_name, ''), COALESCE(m.last_name, ''), COALESCE(l.name, '')
		FROM timecard_events e
		LEFT JOIN members m ON m.id = e.member_id
		LEFT JOIN locations l ON l.id = e.location_id
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY e.logged_at DESC, e.id DESC
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, mapErr("sign-in history", err)
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var h models.HistoryEntry
		var direction string
		if err := rows.Scan(
			&h.Event.ID,
			&h.Event.MemberID,
			&h.Event.ActivityID,
			&h.Event.LocationID,
			&h.Event.Timestamp,
			&direction,
			&h.Event.OriginAddress,
			&h.FirstName,
			&h.LastName,
			&h.LocationName,
		); err != nil {
			return nil, mapErr("scan sign-in", err)
		}
		h.Event.Direction = models.Direction(direction)
		entries = append(entries, h)
	}
	return entries, mapErr("sign-in history", rows.Err())
}
