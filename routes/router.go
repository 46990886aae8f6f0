package routes

import (
	"net/http"

	middleware "github.com/Rafhael-Viana/attendees/middlewares"
)

// Register mounts every route on mux.
func Register(mux *http.ServeMux, app *App) {
	auth := middleware.AuthJWT(app.JWTSecret)
	need := func(c middleware.Capability, h http.HandlerFunc) http.Handler {
		return auth(middleware.RequireCapability(c)(h))
	}

	// Health check
	mux.HandleFunc("GET /api/hello", Hello)

	mux.Handle("POST /api/login", Login(app))

	// Members
	mux.Handle("POST /api/members", need(middleware.CapManage, CreateMember(app)))
	mux.Handle("GET /api/members", need(middleware.CapManage, ListMembers(app)))
	mux.Handle("GET /api/members/{id}", need(middleware.CapManage, GetMember(app)))
	mux.Handle("PATCH /api/members/{id}", need(middleware.CapManage, UpdateMember(app)))
	mux.Handle("DELETE /api/members/{id}", need(middleware.CapManage, DeleteMember(app)))

	// Courses and groups
	mux.Handle("POST /api/courses", need(middleware.CapManage, CreateCourse(app)))
	mux.Handle("POST /api/courses/{id}/members", need(middleware.CapManage, EnrolMember(app)))
	mux.Handle("POST /api/courses/{id}/groups", need(middleware.CapManage, CreateGroup(app)))
	mux.Handle("GET /api/courses/{id}/groups", need(middleware.CapView, ListGroups(app)))
	mux.Handle("POST /api/groups/{id}/members", need(middleware.CapManage, AddGroupMember(app)))

	// Activities
	mux.Handle("POST /api/activities", need(middleware.CapManage, CreateActivity(app)))
	mux.Handle("GET /api/activities/{id}", need(middleware.CapView, GetActivity(app)))
	mux.Handle("PATCH /api/activities/{id}", need(middleware.CapManage, UpdateActivity(app)))
	mux.Handle("DELETE /api/activities/{id}", need(middleware.CapManage, DeleteActivity(app)))

	// Attendance
	mux.Handle("GET /api/activities/{id}/view", need(middleware.CapView, View(app)))
	mux.Handle("GET /api/activities/{id}/refresh", need(middleware.CapView, Refresh(app)))
	mux.Handle("POST /api/activities/{id}/toggle", need(middleware.CapView, Toggle(app)))
	mux.Handle("POST /api/activities/{id}/lookup", need(middleware.CapView, Lookup(app)))
	mux.Handle("GET /api/activities/{id}/history", need(middleware.CapViewHistory, History(app)))
	mux.Handle("GET /api/activities/{id}/history/options", need(middleware.CapViewHistory, HistoryOptions(app)))
	mux.Handle("GET /api/activities/{id}/ws", need(middleware.CapView, LiveRoster(app)))

	// Locations
	mux.Handle("GET /api/activities/{id}/locations", need(middleware.CapView, ListLocations(app)))
	mux.Handle("POST /api/activities/{id}/locations", need(middleware.CapManageLocations, CreateLocation(app)))
	mux.Handle("DELETE /api/activities/{id}/locations/{locationId}", need(middleware.CapManageLocations, DeleteLocation(app)))
}
