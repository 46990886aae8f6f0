package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Rafhael-Viana/attendees/attendance"
	"github.com/Rafhael-Viana/attendees/store"
)

// App carries the dependencies shared by every handler.
type App struct {
	Store     *store.Store
	Engine    *attendance.Engine
	Hub       *Hub
	JWTSecret string
	TokenTTL  time.Duration
	Timeout   time.Duration
	// Now is overridden in tests.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) context(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(r.Context(), timeout)
}

// Hello is the health check.
func Hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads the request body into v and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var syntaxErr *json.SyntaxError
		var unmarshalTypeErr *json.UnmarshalTypeError

		switch {
		case errors.Is(err, io.EOF):
			writeMessage(w, http.StatusBadRequest, "empty body")
		case errors.As(err, &syntaxErr):
			writeMessage(w, http.StatusBadRequest, "malformed JSON")
		case errors.As(err, &unmarshalTypeErr):
			writeMessage(w, http.StatusBadRequest, "wrong type for field "+unmarshalTypeErr.Field)
		default:
			writeMessage(w, http.StatusBadRequest, "invalid JSON")
		}
		return false
	}
	return true
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be omitted.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	return decodeJSON(w, r, v)
}

// pathID parses the named path value as a positive id.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// queryID parses an optional positive id from the query string.
func queryID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 0 {
		writeMessage(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// writeError maps engine and store errors to responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, attendance.ErrInvalidReference), errors.Is(err, store.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, attendance.ErrPermissionDenied):
		writeMessage(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, attendance.ErrNoLocationConfigured):
		writeMessage(w, http.StatusConflict, "No location has been configured for this activity.")
	case errors.Is(err, attendance.ErrCannotDeleteLastLocation):
		writeMessage(w, http.StatusConflict, "The last location of an activity cannot be deleted.")
	case errors.Is(err, attendance.ErrSignInOutDisabled), errors.Is(err, attendance.ErrKioskDisabled):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrAlreadyExists):
		writeMessage(w, http.StatusConflict, "already exists")
	case errors.Is(err, context.DeadlineExceeded):
		slog.ErrorContext(r.Context(), "request timed out", "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusGatewayTimeout, "timeout")
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

// clientIP is the address events are stamped with.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
