package routes

import (
	"context"
	"net/http"
	"strings"

	"github.com/Rafhael-Viana/attendees/models"
)

type activityInput struct {
	CourseID          *int64      `json:"course_id"`
	Name              *string     `json:"name"`
	Intro             *string     `json:"intro"`
	Timecard          *bool       `json:"timecard"`
	AutoSignOut       *bool       `json:"auto_sign_out"`
	SeparateLocations *bool       `json:"separate_locations"`
	LocationLocked    *bool       `json:"location_locked"`
	KioskMode         *bool       `json:"kiosk_mode"`
	ShowRoster        *bool       `json:"show_roster"`
	LockView          *bool       `json:"lock_view"`
	ShowGroups        *bool       `json:"show_groups"`
	DefaultView       *models.Tab `json:"default_view"`
	SearchFields      []string    `json:"search_fields"`
}

var lookupFields = map[string]bool{
	"idnumber": true, "email": true, "username": true, "phone1": true,
	"phone2": true, "firstname": true, "lastname": true,
}

// apply copies the present fields onto a and returns a validation message.
func (in activityInput) apply(a *models.Activity) string {
	if in.Name != nil {
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.Intro != nil {
		a.Intro = *in.Intro
	}
	flags := []struct {
		src *bool
		dst *bool
	}{
		{in.Timecard, &a.Timecard},
		{in.AutoSignOut, &a.AutoSignOut},
		{in.SeparateLocations, &a.SeparateLocations},
		{in.LocationLocked, &a.LocationLocked},
		{in.KioskMode, &a.KioskMode},
		{in.ShowRoster, &a.ShowRoster},
		{in.LockView, &a.LockView},
		{in.ShowGroups, &a.ShowGroups},
	}
	for _, f := range flags {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	if in.DefaultView != nil {
		if !in.DefaultView.Valid() {
			return "invalid default_view (all|onlyin|onlyout)"
		}
		a.DefaultView = *in.DefaultView
	}
	if in.SearchFields != nil {
		for _, f := range in.SearchFields {
			if !lookupFields[f] {
				return "invalid search field " + f
			}
		}
		a.SearchFields = in.SearchFields
	}
	if a.Name == "" {
		return "name is required"
	}
	return ""
}

// CreateActivity creates an activity with timecard and auto sign-out on,
// plus its default location.
func CreateActivity(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input activityInput
		if !decodeJSON(w, r, &input) {
			return
		}
		if input.CourseID == nil {
			writeMessage(w, http.StatusBadRequest, "course_id is required")
			return
		}
		a := models.Activity{
			CourseID:    *input.CourseID,
			Timecard:    true,
			AutoSignOut: true,
			ShowGroups:  true,
			DefaultView: models.TabAll,
		}
		if msg := input.apply(&a); msg != "" {
			writeMessage(w, http.StatusBadRequest, msg)
			return
		}

		ctx, cancel := app.context(r)
		defer cancel()

		if _, err := app.Store.GetCourse(ctx, a.CourseID); err != nil {
			writeError(w, r, err)
			return
		}
		a, err := app.Store.CreateActivity(ctx, a)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)
	}
}

// loadActivity resolves the {id} path value, answering 400/404 itself.
func (app *App) loadActivity(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Activity, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return models.Activity{}, false
	}
	a, err := app.Store.GetActivity(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return models.Activity{}, false
	}
	return a, true
}

func GetActivity(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := app.context(r)
		defer cancel()

		a, ok := app.loadActivity(ctx, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func UpdateActivity(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := app.context(r)
		defer cancel()

		a, ok := app.loadActivity(ctx, w, r)
		if !ok {
			return
		}
		var input activityInput
		if !decodeJSON(w, r, &input) {
			return
		}
		if input.CourseID != nil && *input.CourseID != a.CourseID {
			writeMessage(w, http.StatusBadRequest, "course_id cannot change")
			return
		}
		if msg := input.apply(&a); msg != "" {
			writeMessage(w, http.StatusBadRequest, msg)
			return
		}
		if err := app.Store.UpdateActivity(ctx, a); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// DeleteActivity removes the activity together with its locations and events.
func DeleteActivity(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		ctx, cancel := app.context(r)
		defer cancel()

		if err := app.Store.DeleteActivity(ctx, id); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
