package routes

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	middleware "github.com/Rafhael-Viana/attendees/middlewares"
	"github.com/Rafhael-Viana/attendees/models"
	"github.com/Rafhael-Viana/attendees/store"
)

type LoginResponse struct {
	Status string        `json:"status"`
	Token  string        `json:"token"`
	Member models.Member `json:"member"`
}

// Login checks the member's password and issues a JWT.
func Login(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if !decodeJSON(w, r, &input) {
			return
		}
		input.Username = strings.TrimSpace(input.Username)
		if input.Username == "" || input.Password == "" {
			writeMessage(w, http.StatusBadRequest, "username and password are required")
			return
		}

		ctx, cancel := app.context(r)
		defer cancel()

		m, err := app.Store.GetMemberByUsername(ctx, input.Username)
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusUnauthorized, "invalid username or password")
			return
		} else if err != nil {
			writeError(w, r, err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(input.Password)); err != nil {
			writeMessage(w, http.StatusUnauthorized, "invalid username or password")
			return
		}

		token, err := middleware.IssueToken(app.JWTSecret, m, app.TokenTTL, time.Now())
		if err != nil {
			writeError(w, r, err)
			return
		}

		slog.InfoContext(ctx, "member logged in", "member_id", m.ID, "username", m.Username)
		writeJSON(w, http.StatusOK, LoginResponse{Status: "Logged", Token: token, Member: m})
	}
}
