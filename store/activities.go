package store

import (
	"context"
	"strings"

	"github.com/Rafhael-Viana/attendees/models"
)

const activityColumns = `id, course_id, name, intro, timecard, auto_sign_out, separate_locations,
	location_locked, kiosk_mode, show_roster, lock_view, show_groups, default_view, search_fields`

func scanActivity(row interface{ Scan(...any) error }) (models.Activity, error) {
	var a models.Activity
	var defaultView, searchFields string
	err := row.Scan(
		&a.ID,
		&a.CourseID,
		&a.Name,
		&a.Intro,
		&a.Timecard,
		&a.AutoSignOut,
		&a.SeparateLocations,
		&a.LocationLocked,
		&a.KioskMode,
		&a.ShowRoster,
		&a.LockView,
		&a.ShowGroups,
		&defaultView,
		&searchFields,
	)
	a.DefaultView = models.Tab(defaultView)
	a.SearchFields = splitList(searchFields)
	return a, err
}

// CreateActivity inserts the activity together with its default location.
func (s *Store) CreateActivity(ctx context.Context, a models.Activity) (models.Activity, error) {
	if !a.DefaultView.Valid() {
		a.DefaultView = models.TabAll
	}
	err := s.conn.QueryRow(ctx, `
		INSERT INTO activities (
			course_id, name, intro, timecard, auto_sign_out, separate_locations,
			location_locked, kiosk_mode, show_roster, lock_view, show_groups,
			default_view, search_fields
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		a.CourseID,
		strings.TrimSpace(a.Name),
		a.Intro,
		a.Timecard,
		a.AutoSignOut,
		a.SeparateLocations,
		a.LocationLocked,
		a.KioskMode,
		a.ShowRoster,
		a.LockView,
		a.ShowGroups,
		string(a.DefaultView),
		joinList(a.SearchFields),
	).Scan(&a.ID)
	if err != nil {
		return models.Activity{}, mapErr("create activity", err)
	}

	if _, err := s.CreateLocation(ctx, a.ID, models.DefaultLocationName); err != nil {
		return models.Activity{}, err
	}
	return a, nil
}

func (s *Store) GetActivity(ctx context.Context, id int64) (models.Activity, error) {
	a, err := scanActivity(s.conn.QueryRow(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE id = ?`, id))
	if err != nil {
		return models.Activity{}, mapErr("get activity", err)
	}
	return a, nil
}

func (s *Store) UpdateActivity(ctx context.Context, a models.Activity) error {
	if !a.DefaultView.Valid() {
		a.DefaultView = models.TabAll
	}
	n, err := s.conn.Exec(ctx, `
		UPDATE activities
		SET name = ?, intro = ?, timecard = ?, auto_sign_out = ?, separate_locations = ?,
		    location_locked = ?, kiosk_mode = ?, show_roster = ?, lock_view = ?,
		    show_groups = ?, default_view = ?, search_fields = ?
		WHERE id = ?
	`,
		strings.TrimSpace(a.Name),
		a.Intro,
		a.Timecard,
		a.AutoSignOut,
		a.SeparateLocations,
		a.LocationLocked,
		a.KioskMode,
		a.ShowRoster,
		a.LockView,
		a.ShowGroups,
		string(a.DefaultView),
		joinList(a.SearchFields),
		a.ID,
	)
	if err != nil {
		return mapErr("update activity", err)
	}
	if n == 0 {
		return mapErr("update activity", ErrNotFound)
	}
	return nil
}

// DeleteActivity removes the activity; its locations and events cascade.
func (s *Store) DeleteActivity(ctx context.Context, id int64) error {
	n, err := s.conn.Exec(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return mapErr("delete activity", err)
	}
	if n == 0 {
		return mapErr("delete activity", ErrNotFound)
	}
	return nil
}

func (s *Store) CreateLocation(ctx context.Context, activityID int64, name string) (models.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = models.DefaultLocationName
	}
	l := models.Location{ActivityID: activityID, Name: name}
	err := s.conn.QueryRow(ctx,
		`INSERT INTO locations (activity_id, name) VALUES (?, ?) RETURNING id`,
		activityID, name,
	).Scan(&l.ID)
	if err != nil {
		return models.Location{}, mapErr("create location", err)
	}
	return l, nil
}

func (s *Store) GetLocation(ctx context.Context, id int64) (models.Location, error) {
	var l models.Location
	err := s.conn.QueryRow(ctx,
		`SELECT id, activity_id, name FROM locations WHERE id = ?`, id,
	).Scan(&l.ID, &l.ActivityID, &l.Name)
	if err != nil {
		return models.Location{}, mapErr("get location", err)
	}
	return l, nil
}

// ListLocations returns the activity's locations in creation order.
func (s *Store) ListLocations(ctx context.Context, activityID int64) ([]models.Location, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT id, activity_id, name FROM locations WHERE activity_id = ? ORDER BY id`, activityID)
	if err != nil {
		return nil, mapErr("list locations", err)
	}
	defer rows.Close()

	locations := []models.Location{}
	for rows.Next() {
		var l models.Location
		if err := rows.Scan(&l.ID, &l.ActivityID, &l.Name); err != nil {
			return nil, mapErr("scan location", err)
		}
		locations = append(locations, l)
	}
	return locations, mapErr("list locations", rows.Err())
}

func (s *Store) DeleteLocation(ctx context.Context, id int64) error {
	n, err := s.conn.Exec(ctx, `DELETE FROM locations WHERE id = ?`, id)
	if err != nil {
		return mapErr("delete location", err)
	}
	if n == 0 {
		return mapErr("delete location", ErrNotFound)
	}
	return nil
}
