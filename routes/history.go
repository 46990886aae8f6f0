package routes

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Rafhael-Viana/attendees/models"
)

// parseDateOnly reads YYYY-MM-DD as midnight in loc.
func parseDateOnly(v string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", v, loc)
}

// parseIDs accepts repeated and comma separated ids.
func parseIDs(values []string) ([]int64, bool) {
	var ids []int64
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, false
			}
			ids = append(ids, id)
		}
	}
	return ids, true
}

// History lists sign-in sessions, newest first, one page at a time.
//
// GET /api/activities/{id}/history?from=YYYY-MM-DD&to=YYYY-MM-DD&member=1,2&location=3&course=4&page=0
func History(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		tz := app.Engine.Timezone()
		var f models.HistoryFilter

		if v := q.Get("from"); v != "" {
			d, err := parseDateOnly(v, tz)
			if err != nil {
				writeMessage(w, http.StatusBadRequest, "invalid from (use YYYY-MM-DD)")
				return
			}
			f.From = d.Unix()
		}
		if v := q.Get("to"); v != "" {
			d, err := parseDateOnly(v, tz)
			if err != nil {
				writeMessage(w, http.StatusBadRequest, "invalid to (use YYYY-MM-DD)")
				return
			}
			// inclusive: the whole "to" day
			f.To = d.AddDate(0, 0, 1).Unix() - 1
		}
		if f.From > 0 && f.To > 0 && f.To < f.From {
			writeMessage(w, http.StatusBadRequest, "to is before from")
			return
		}

		var ok bool
		if f.MemberIDs, ok = parseIDs(q["member"]); !ok {
			writeMessage(w, http.StatusBadRequest, "invalid member")
			return
		}
		if f.LocationIDs, ok = parseIDs(q["location"]); !ok {
			writeMessage(w, http.StatusBadRequest, "invalid location")
			return
		}
		if f.CourseIDs, ok = parseIDs(q["course"]); !ok {
			writeMessage(w, http.StatusBadRequest, "invalid course")
			return
		}

		page := 0
		if v := q.Get("page"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				writeMessage(w, http.StatusBadRequest, "invalid page")
				return
			}
			page = n
		}

		ctx, cancel := app.context(r)
		defer cancel()

		a, ok := app.loadActivity(ctx, w, r)
		if !ok {
			return
		}

		result, err := app.Engine.History(ctx, a, f, page, app.now())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// HistoryOptions lists the values the history filters can take: members
// with at least one event and the activity's locations.
func HistoryOptions(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := app.context(r)
		defer cancel()

		a, ok := app.loadActivity(ctx, w, r)
		if !ok {
			return
		}
		members, err := app.Store.EventMembers(ctx, a.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		locations, err := app.Store.ListLocations(ctx, a.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"members":   members,
			"locations": locations,
		})
	}
}
