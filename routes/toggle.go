package routes

import (
	"errors"
	"net/http"

	"github.com/Rafhael-Viana/attendees/attendance"
	middleware "github.com/Rafhael-Viana/attendees/middlewares"
)

// CodeNotFoundMessage is shown when a kiosk code matches no single member.
const CodeNotFoundMessage = "No User found"

type LookupResponse struct {
	Found   bool                     `json:"found"`
	Message string                   `json:"message"`
	Result  *attendance.ToggleResult `json:"result,omitempty"`
}

// Toggle signs the caller, or another member, in or out.
func Toggle(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			MemberID   int64 `json:"member_id"`
			LocationID int64 `json:"location_id"`
		}
		if !decodeOptionalJSON(w, r, &input) {
			return
		}

		ctx, cancel := app.context(r)
		defer cancel()

		caller, _ := middleware.MemberIDFromContext(ctx)
		target := input.MemberID
		if target == 0 {
			target = caller
		}
		need := middleware.CapSignInOut
		if target != caller {
			need = middleware.CapSignInOutOthers
		}
		if !middleware.Can(ctx, need) {
			writeError(w, r, attendance.ErrPermissionDenied)
			return
		}

		a, ok := app.loadActivity(ctx, w, r)
		if !ok {
			return
		}

		res, err := app.Engine.SignInOrOut(ctx, attendance.ToggleRequest{
			Activity:      a,
			MemberID:      target,
			LocationID:    input.LocationID,
			OriginAddress: clientIP(r),
			Now:           app.now(),
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// Lookup resolves a kiosk code to one member and toggles them.
func Lookup(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			Code       string `json:"code"`
			LocationID int64  `json:"location_id"`
			GroupID    int64  `json:"group_id"`
		}
		if !decodeJSON(w, r, &input) {
			return
		}

		ctx, cancel := app.context(r)
		defer cancel()

		if !middleware.Can(ctx, middleware.CapSignInOutOthers) {
			writeError(w, r, attendance.ErrPermissionDenied)
			return
		}
		a, ok := app.loadActivity(ctx, w, r)
		if !ok {
			return
		}
		if !a.KioskMode {
			writeError(w, r, attendance.ErrKioskDisabled)
			return
		}

		m, err := app.Engine.Lookup(ctx, a, input.GroupID, input.Code)
		switch {
		case errors.Is(err, attendance.ErrEmptyInput):
			w.WriteHeader(http.StatusNoContent)
			return
		case errors.Is(err, attendance.ErrCodeNotFound):
			writeJSON(w, http.StatusOK, LookupResponse{Message: CodeNotFoundMessage})
			return
		case err != nil:
			writeError(w, r, err)
			return
		}

		res, err := app.Engine.SignInOrOut(ctx, attendance.ToggleRequest{
			Activity:      a,
			MemberID:      m.ID,
			LocationID:    input.LocationID,
			OriginAddress: clientIP(r),
			Now:           app.now(),
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, LookupResponse{Found: true, Message: res.Message, Result: &res})
	}
}
