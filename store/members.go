package store

import (
	"context"

	"github.com/Rafhael-Viana/attendees/models"
)

const memberColumns = `id, username, password_hash, first_name, last_name, email, idnumber, phone1, phone2, roles`

func scanMember(row interface{ Scan(...any) error }) (models.Member, error) {
	var m models.Member
	var roles string
	err := row.Scan(
		&m.ID,
		&m.Username,
		&m.PasswordHash,
		&m.FirstName,
		&m.LastName,
		&m.Email,
		&m.IDNumber,
		&m.Phone1,
		&m.Phone2,
		&roles,
	)
	m.Roles = splitList(roles)
	return m, err
}

func (s *Store) CreateMember(ctx context.Context, m models.Member) (models.Member, error) {
	err := s.conn.QueryRow(ctx, `
		INSERT INTO members (
			username, password_hash, first_name, last_name,
			email, idnumber, phone1, phone2, roles
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		m.Username,
		m.PasswordHash,
		m.FirstName,
		m.LastName,
		m.Email,
		m.IDNumber,
		m.Phone1,
		m.Phone2,
		joinList(m.Roles),
	).Scan(&m.ID)
	if err != nil {
		return models.Member{}, mapErr("create member", err)
	}
	return m, nil
}

func (s *Store) GetMember(ctx context.Context, id int64) (models.Member, error) {
	m, err := scanMember(s.conn.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = ?`, id))
	if err != nil {
		return models.Member{}, mapErr("get member", err)
	}
	return m, nil
}

func (s *Store) GetMemberByUsername(ctx context.Context, username string) (models.Member, error) {
	m, err := scanMember(s.conn.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE username = ? LIMIT 1`, username))
	if err != nil {
		return models.Member{}, mapErr("get member by username", err)
	}
	return m, nil
}

func (s *Store) ListMembers(ctx context.Context) ([]models.Member, error) {
	return s.queryMembers(ctx, "list members",
		`SELECT `+memberColumns+` FROM members ORDER BY last_name, first_name, id`)
}

func (s *Store) UpdateMember(ctx context.Context, m models.Member) error {
	n, err := s.conn.Exec(ctx, `
		UPDATE members
		SET username = ?, password_hash = ?, first_name = ?, last_name = ?,
		    email = ?, idnumber = ?, phone1 = ?, phone2 = ?, roles = ?
		WHERE id = ?
	`,
		m.Username,
		m.PasswordHash,
		m.FirstName,
		m.LastName,
		m.Email,
		m.IDNumber,
		m.Phone1,
		m.Phone2,
		joinList(m.Roles),
		m.ID,
	)
	if err != nil {
		return mapErr("update member", err)
	}
	if n == 0 {
		return mapErr("update member", ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteMember(ctx context.Context, id int64) error {
	n, err := s.conn.Exec(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return mapErr("delete member", err)
	}
	if n == 0 {
		return mapErr("delete member", ErrNotFound)
	}
	return nil
}

func (s *Store) CreateCourse(ctx context.Context, name string) (models.Course, error) {
	c := models.Course{Name: name}
	err := s.conn.QueryRow(ctx, `INSERT INTO courses (name) VALUES (?) RETURNING id`, name).Scan(&c.ID)
	if err != nil {
		return models.Course{}, mapErr("create course", err)
	}
	return c, nil
}

func (s *Store) GetCourse(ctx context.Context, id int64) (models.Course, error) {
	var c models.Course
	err := s.conn.QueryRow(ctx, `SELECT id, name FROM courses WHERE id = ?`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		return models.Course{}, mapErr("get course", err)
	}
	return c, nil
}

// Enrol adds a member to a course, replacing any previous role.
func (s *Store) Enrol(ctx context.Context, courseID, memberID int64, role string) error {
	_, err := s.conn.Exec(ctx, `
		INSERT INTO course_members (course_id, member_id, role)
		VALUES (?, ?, ?)
		ON CONFLICT (course_id, member_id) DO UPDATE SET role = excluded.role
	`, courseID, memberID, role)
	return mapErr("enrol member", err)
}

func (s *Store) CreateGroup(ctx context.Context, courseID int64, name string) (models.Group, error) {
	g := models.Group{CourseID: courseID, Name: name}
	err := s.conn.QueryRow(ctx,
		`INSERT INTO member_groups (course_id, name) VALUES (?, ?) RETURNING id`,
		courseID, name,
	).Scan(&g.ID)
	if err != nil {
		return models.Group{}, mapErr("create group", err)
	}
	return g, nil
}

func (s *Store) GetGroup(ctx context.Context, id int64) (models.Group, error) {
	var g models.Group
	err := s.conn.QueryRow(ctx,
		`SELECT id, course_id, name FROM member_groups WHERE id = ?`, id,
	).Scan(&g.ID, &g.CourseID, &g.Name)
	if err != nil {
		return models.Group{}, mapErr("get group", err)
	}
	return g, nil
}

func (s *Store) ListGroups(ctx context.Context, courseID int64) ([]models.Group, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT id, course_id, name FROM member_groups WHERE course_id = ? ORDER BY name, id`, courseID)
	if err != nil {
		return nil, mapErr("list groups", err)
	}
	defer rows.Close()

	groups := []models.Group{}
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.CourseID, &g.Name); err != nil {
			return nil, mapErr("scan group", err)
		}
		groups = append(groups, g)
	}
	return groups, mapErr("list groups", rows.Err())
}

func (s *Store) AddGroupMember(ctx context.Context, groupID, memberID int64) error {
	_, err := s.conn.Exec(ctx, `
		INSERT INTO group_members (group_id, member_id)
		VALUES (?, ?)
		ON CONFLICT (group_id, member_id) DO NOTHING
	`, groupID, memberID)
	return mapErr("add group member", err)
}

// MemberGroups returns group names per member within a course.
func (s *Store) MemberGroups(ctx context.Context, courseID int64, memberIDs []int64) (map[int64][]string, error) {
	out := make(map[int64][]string, len(memberIDs))
	if len(memberIDs) == 0 {
		return out, nil
	}

	args := []any{courseID}
	in, args := inClause("gm.member_id", memberIDs, args)
	rows, err := s.conn.Query(ctx, `
		SELECT gm.member_id, g.name
		FROM group_members gm
		JOIN member_groups g ON g.id = gm.group_id
		WHERE g.course_id = ? AND `+in+`
		ORDER BY g.name
	`, args...)
	if err != nil {
		return nil, mapErr("member groups", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, mapErr("scan member group", err)
		}
		out[id] = append(out[id], name)
	}
	return out, mapErr("member groups", rows.Err())
}

// EligibleMembers lists the students of the activity's course, optionally
// limited to one group, ordered by surname.
func (s *Store) EligibleMembers(ctx context.Context, activity models.Activity, groupID int64) ([]models.Member, error) {
	query := `
		SELECT m.id, m.username, m.password_hash, m.first_name, m.last_name,
		       m.email, m.idnumber, m.phone1, m.phone2, m.roles
		FROM members m
		JOIN course_members cm ON cm.member_id = m.id
	`
	args := []any{}
	if groupID > 0 {
		query += ` JOIN group_members gm ON gm.member_id = m.id AND gm.group_id = ?`
		args = append(args, groupID)
	}
	query += ` WHERE cm.course_id = ? AND cm.role = ? ORDER BY m.last_name, m.first_name, m.id`
	args = append(args, activity.CourseID, models.CourseRoleStudent)

	return s.queryMembers(ctx, "eligible members", query, args...)
}

// EventMembers lists the members with at least one event in the activity.
func (s *Store) EventMembers(ctx context.Context, activityID int64) ([]models.Member, error) {
	return s.queryMembers(ctx, "event members", `
		SELECT `+memberColumns+`
		FROM members
		WHERE id IN (SELECT DISTINCT member_id FROM timecard_events WHERE activity_id = ?)
		ORDER BY last_name, first_name, id
	`, activityID)
}

func (s *Store) queryMembers(ctx context.Context, op, query string, args ...any) ([]models.Member, error) {
	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(op, err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, mapErr(op, err)
		}
		members = append(members, m)
	}
	return members, mapErr(op, rows.Err())
}
