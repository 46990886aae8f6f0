package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/Rafhael-Viana/attendees/attendance"
	middleware "github.com/Rafhael-Viana/attendees/middlewares"
	"github.com/Rafhael-Viana/attendees/models"
)

const (
	ModeSelf   = "self"
	ModeKiosk  = "kiosk"
	ModeRoster = "roster"
)

var allTabs = []models.Tab{models.TabAll, models.TabOnlyIn, models.TabOnlyOut}

type ViewModel struct {
	Activity        models.Activity          `json:"activity"`
	Mode            string                   `json:"mode"`
	Tab             models.Tab               `json:"tab,omitempty"`
	Tabs            []models.Tab             `json:"tabs,omitempty"`
	Location        *models.Location         `json:"location,omitempty"`
	Locations       []models.Location        `json:"locations"`
	GroupID         int64                    `json:"group_id,omitempty"`
	Groups          []models.Group           `json:"groups,omitempty"`
	Status          models.Direction         `json:"status,omitempty"`
	ButtonLabel     string                   `json:"button_label,omitempty"`
	Roster          []attendance.RosterEntry `json:"roster,omitempty"`
	CanToggleOthers bool                     `json:"can_toggle_others"`
	Notice          string                   `json:"notice,omitempty"`
}

type viewParams struct {
	mode       string
	tab        models.Tab
	locationID int64
	groupID    int64
}

func parseViewParams(w http.ResponseWriter, r *http.Request) (viewParams, bool) {
	q := r.URL.Query()
	p := viewParams{mode: q.Get("mode"), tab: models.Tab(q.Get("tab"))}
	if p.mode == "" {
		p.mode = ModeSelf
	}
	if p.mode != ModeSelf && p.mode != ModeKiosk && p.mode != ModeRoster {
		writeMessage(w, http.StatusBadRequest, "invalid mode (self|kiosk|roster)")
		return p, false
	}
	var ok bool
	if p.locationID, ok = queryID(w, r, "location"); !ok {
		return p, false
	}
	if p.groupID, ok = queryID(w, r, "group"); !ok {
		return p, false
	}
	return p, true
}

func canSeeRoster(ctx context.Context, a models.Activity) bool {
	return a.ShowRoster || middleware.Can(ctx, middleware.CapViewRosters)
}

func buttonLabel(status models.Direction) string {
	if status == models.DirectionIn {
		return "Sign out"
	}
	return "Sign in"
}

// View builds the page model for one of the three view modes.
func View(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, ok := parseViewParams(w, r)
		if !ok {
			return
		}
		ctx, cancel := app.context(r)
		defer cancel()

		a, ok := app.loadActivity(ctx, w, r)
		if !ok {
			return
		}

		vm := ViewModel{
			Activity:        a,
			Mode:            params.mode,
			GroupID:         params.groupID,
			CanToggleOthers: a.Timecard && middleware.Can(ctx, middleware.CapSignInOutOthers),
		}

		switch params.mode {
		case ModeKiosk:
			if !a.KioskMode {
				writeError(w, r, attendance.ErrKioskDisabled)
				return
			}
			if !middleware.Can(ctx, middleware.CapSignInOutOthers) {
				writeError(w, r, attendance.ErrPermissionDenied)
				return
			}
		case ModeRoster:
			if !canSeeRoster(ctx, a) {
				writeError(w, r, attendance.ErrPermissionDenied)
				return
			}
		}

		var err error
		if vm.Locations, err = app.Store.ListLocations(ctx, a.ID); err != nil {
			writeError(w, r, err)
			return
		}
		loc, err := app.Engine.ResolveLocation(ctx, a, params.locationID)
		switch {
		case errors.Is(err, attendance.ErrNoLocationConfigured):
			vm.Notice = "No location has been configured for this activity."
		case err != nil:
			writeError(w, r, err)
			return
		default:
			vm.Location = &loc
		}

		if a.ShowGroups {
			if vm.Groups, err = app.Store.ListGroups(ctx, a.CourseID); err != nil {
				writeError(w, r, err)
				return
			}
		}

		presence := attendance.Presence{LocationID: loc.ID, OriginAddress: clientIP(r), Now: app.now()}

		switch params.mode {
		case ModeSelf:
			memberID, _ := middleware.MemberIDFromContext(ctx)
			status, err := app.Engine.Status(ctx, a, memberID, presence)
			if err != nil {
				writeError(w, r, err)
				return
			}
			vm.Status = status
			if a.Timecard && middleware.Can(ctx, middleware.CapSignInOut) {
				vm.ButtonLabel = buttonLabel(status)
			}
		case ModeRoster:
			vm.Tab = a.ResolveTab(params.tab)
			if !a.LockView {
				vm.Tabs = allTabs
			}
			if vm.Roster, err = app.roster(ctx, a, vm.Tab, params.groupID, presence); err != nil {
				writeError(w, r, err)
				return
			}
		}

		writeJSON(w, http.StatusOK, vm)
	}
}

// Refresh returns only the roster entries; clients poll it.
func Refresh(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, ok := parseViewParams(w, r)
		if !ok {
			return
		}
		ctx, cancel := app.context(r)
		defer cancel()

		a, ok := app.loadActivity(ctx, w, r)
		if !ok {
			return
		}
		if !canSeeRoster(ctx, a) {
			writeError(w, r, attendance.ErrPermissionDenied)
			return
		}

		// Same location resolution as View, so polling never disagrees with the page.
		var locationID int64
		loc, err := app.Engine.ResolveLocation(ctx, a, params.locationID)
		switch {
		case errors.Is(err, attendance.ErrNoLocationConfigured):
		case err != nil:
			writeError(w, r, err)
			return
		default:
			locationID = loc.ID
		}

		tab := a.ResolveTab(params.tab)
		presence := attendance.Presence{LocationID: locationID, OriginAddress: clientIP(r), Now: app.now()}
		entries, err := app.roster(ctx, a, tab, params.groupID, presence)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"tab":    tab,
			"roster": entries,
		})
	}
}

// roster evaluates the eligible members and attaches group names when the
// activity shows them. Under a location lock every entry is scoped to the
// viewer's address in p, which is the kiosk's own address on a kiosk.
func (app *App) roster(ctx context.Context, a models.Activity, tab models.Tab, groupID int64, p attendance.Presence) ([]attendance.RosterEntry, error) {
	candidates, err := app.Store.EligibleMembers(ctx, a, groupID)
	if err != nil {
		return nil, err
	}
	entries, err := app.Engine.Roster(ctx, a, candidates, tab, p)
	if err != nil {
		return nil, err
	}
	if !a.ShowGroups || len(entries) == 0 {
		return entries, nil
	}

	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.Member.ID
	}
	groups, err := app.Store.MemberGroups(ctx, a.CourseID, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Groups = groups[entries[i].Member.ID]
	}
	return entries, nil
}
