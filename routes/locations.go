package routes

import (
	"net/http"
)

func ListLocations(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := app.context(r)
		defer cancel()

		a, ok := app.loadActivity(ctx, w, r)
		if !ok {
			return
		}
		locations, err := app.Store.ListLocations(ctx, a.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, locations)
	}
}

// CreateLocation adds a location; a blank name gets the default name.
func CreateLocation(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			Name string `json:"name"`
		}
		if !decodeJSON(w, r, &input) {
			return
		}
		ctx, cancel := app.context(r)
		defer cancel()

		a, ok := app.loadActivity(ctx, w, r)
		if !ok {
			return
		}
		l, err := app.Store.CreateLocation(ctx, a.ID, input.Name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, l)
	}
}

// DeleteLocation refuses to remove the activity's last location.
func DeleteLocation(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locationID, ok := pathID(w, r, "locationId")
		if !ok {
			return
		}
		ctx, cancel := app.context(r)
		defer cancel()

		a, ok := app.loadActivity(ctx, w, r)
		if !ok {
			return
		}
		if err := app.Engine.DeleteLocation(ctx, a, locationID); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
