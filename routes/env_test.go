package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Rafhael-Viana/attendees/attendance"
	"github.com/Rafhael-Viana/attendees/db"
	middleware "github.com/Rafhael-Viana/attendees/middlewares"
	"github.com/Rafhael-Viana/attendees/models"
	"github.com/Rafhael-Viana/attendees/store"
)

const (
	testSecret   = "routes-test-secret"
	testPassword = "correct horse"
)

var day1 = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	app      *App
	handler  http.Handler
	store    *store.Store
	now      time.Time
	course   models.Course
	activity models.Activity
	location models.Location

	admin, teacher, kiosk, ana, bruno member
}

type member struct {
	models.Member
	token string
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "attendees.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(conn.Close)
	ctx := context.Background()
	if err := db.Migrate(ctx, conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	st := store.New(conn)
	hub := NewHub(nil)
	t.Cleanup(hub.Close)

	env := &testEnv{store: st, now: day1.Add(9 * time.Hour)}
	env.app = &App{
		Store:     st,
		Engine:    attendance.New(st, attendance.Config{Timezone: time.UTC, Notifier: hub}),
		Hub:       hub,
		JWTSecret: testSecret,
		TokenTTL:  time.Hour,
		Timeout:   5 * time.Second,
		Now:       func() time.Time { return env.now },
	}
	mux := http.NewServeMux()
	Register(mux, env.app)
	env.handler = mux

	if env.course, err = st.CreateCourse(ctx, "Physics"); err != nil {
		t.Fatalf("create course: %v", err)
	}
	env.activity, err = st.CreateActivity(ctx, models.Activity{
		CourseID:    env.course.ID,
		Name:        "Lab attendance",
		Timecard:    true,
		AutoSignOut: true,
		ShowGroups:  true,
		DefaultView: models.TabAll,
	})
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}
	locations, err := st.ListLocations(ctx, env.activity.ID)
	if err != nil || len(locations) != 1 {
		t.Fatalf("default location: %v, %v", locations, err)
	}
	env.location = locations[0]

	env.admin = env.addMember(t, models.Member{Username: "admin", FirstName: "Ada", LastName: "Admin"}, "", middleware.RoleAdmin)
	env.teacher = env.addMember(t, models.Member{Username: "tess", FirstName: "Tess", LastName: "Alves"}, models.CourseRoleTeacher, middleware.RoleTeacher)
	env.kiosk = env.addMember(t, models.Member{Username: "kiosk", FirstName: "Front", LastName: "Desk"}, "", middleware.RoleKiosk)
	env.ana = env.addMember(t, models.Member{Username: "ana", FirstName: "Ana", LastName: "Silva", IDNumber: "1001"}, models.CourseRoleStudent, middleware.RoleStudent)
	env.bruno = env.addMember(t, models.Member{Username: "bruno", FirstName: "Bruno", LastName: "Costa", IDNumber: "1002"}, models.CourseRoleStudent, middleware.RoleStudent)
	return env
}

func (e *testEnv) addMember(t *testing.T, m models.Member, courseRole string, roles ...string) member {
	t.Helper()
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	m.PasswordHash = string(hash)
	m.Roles = roles
	if m, err = e.store.CreateMember(ctx, m); err != nil {
		t.Fatalf("create member %s: %v", m.Username, err)
	}
	if courseRole != "" {
		if err := e.store.Enrol(ctx, e.course.ID, m.ID, courseRole); err != nil {
			t.Fatalf("enrol %s: %v", m.Username, err)
		}
	}
	token, err := middleware.IssueToken(testSecret, m, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return member{Member: m, token: token}
}

func (e *testEnv) updateActivity(t *testing.T, change func(*models.Activity)) {
	t.Helper()
	change(&e.activity)
	if err := e.store.UpdateActivity(context.Background(), e.activity); err != nil {
		t.Fatalf("update activity: %v", err)
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}
