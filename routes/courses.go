package routes

import (
	"net/http"
	"strings"

	"github.com/Rafhael-Viana/attendees/models"
)

func CreateCourse(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			Name string `json:"name"`
		}
		if !decodeJSON(w, r, &input) {
			return
		}
		input.Name = strings.TrimSpace(input.Name)
		if input.Name == "" {
			writeMessage(w, http.StatusBadRequest, "name is required")
			return
		}

		ctx, cancel := app.context(r)
		defer cancel()

		c, err := app.Store.CreateCourse(ctx, input.Name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

// EnrolMember adds a member to the course as student (the default) or teacher.
func EnrolMember(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var input struct {
			MemberID int64  `json:"member_id"`
			Role     string `json:"role"`
		}
		if !decodeJSON(w, r, &input) {
			return
		}
		if input.Role == "" {
			input.Role = models.CourseRoleStudent
		}
		if input.Role != models.CourseRoleStudent && input.Role != models.CourseRoleTeacher {
			writeMessage(w, http.StatusBadRequest, "invalid role (student|teacher)")
			return
		}

		ctx, cancel := app.context(r)
		defer cancel()

		if _, err := app.Store.GetCourse(ctx, courseID); err != nil {
			writeError(w, r, err)
			return
		}
		if _, err := app.Store.GetMember(ctx, input.MemberID); err != nil {
			writeError(w, r, err)
			return
		}
		if err := app.Store.Enrol(ctx, courseID, input.MemberID, input.Role); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "enrolled"})
	}
}

func CreateGroup(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var input struct {
			Name string `json:"name"`
		}
		if !decodeJSON(w, r, &input) {
			return
		}
		input.Name = strings.TrimSpace(input.Name)
		if input.Name == "" {
			writeMessage(w, http.StatusBadRequest, "name is required")
			return
		}

		ctx, cancel := app.context(r)
		defer cancel()

		if _, err := app.Store.GetCourse(ctx, courseID); err != nil {
			writeError(w, r, err)
			return
		}
		g, err := app.Store.CreateGroup(ctx, courseID, input.Name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, g)
	}
}

func ListGroups(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		ctx, cancel := app.context(r)
		defer cancel()

		groups, err := app.Store.ListGroups(ctx, courseID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, groups)
	}
}

func AddGroupMember(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var input struct {
			MemberID int64 `json:"member_id"`
		}
		if !decodeJSON(w, r, &input) {
			return
		}

		ctx, cancel := app.context(r)
		defer cancel()

		if _, err := app.Store.GetGroup(ctx, groupID); err != nil {
			writeError(w, r, err)
			return
		}
		if _, err := app.Store.GetMember(ctx, input.MemberID); err != nil {
			writeError(w, r, err)
			return
		}
		if err := app.Store.AddGroupMember(ctx, groupID, input.MemberID); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
	}
}
