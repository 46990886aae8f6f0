package routes

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	middleware "github.com/Rafhael-Viana/attendees/middlewares"
	"github.com/Rafhael-Viana/attendees/models"
)

type memberInput struct {
	Username  *string  `json:"username"`
	Password  *string  `json:"password"`
	FirstName *string  `json:"first_name"`
	LastName  *string  `json:"last_name"`
	Email     *string  `json:"email"`
	IDNumber  *string  `json:"idnumber"`
	Phone1    *string  `json:"phone1"`
	Phone2    *string  `json:"phone2"`
	Roles     []string `json:"roles"`
}

// apply copies the present fields onto m, hashing a new password.
func (in memberInput) apply(m *models.Member) (string, error) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&m.Username, in.Username)
	set(&m.FirstName, in.FirstName)
	set(&m.LastName, in.LastName)
	set(&m.Email, in.Email)
	set(&m.IDNumber, in.IDNumber)
	set(&m.Phone1, in.Phone1)
	set(&m.Phone2, in.Phone2)
	if in.Roles != nil {
		for _, role := range in.Roles {
			if !middleware.ValidRole(role) {
				return "invalid role " + role, nil
			}
		}
		m.Roles = in.Roles
	}
	if in.Password != nil {
		if *in.Password == "" {
			return "password cannot be empty", nil
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		m.PasswordHash = string(hashed)
	}
	return "", nil
}

func CreateMember(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input memberInput
		if !decodeJSON(w, r, &input) {
			return
		}
		if input.Username == nil || strings.TrimSpace(*input.Username) == "" || input.Password == nil {
			writeMessage(w, http.StatusBadRequest, "username and password are required")
			return
		}

		m := models.Member{Roles: []string{middleware.RoleStudent}}
		msg, err := input.apply(&m)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if msg != "" {
			writeMessage(w, http.StatusBadRequest, msg)
			return
		}

		ctx, cancel := app.context(r)
		defer cancel()

		m, err = app.Store.CreateMember(ctx, m)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

func ListMembers(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := app.context(r)
		defer cancel()

		members, err := app.Store.ListMembers(ctx)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, members)
	}
}

func GetMember(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		ctx, cancel := app.context(r)
		defer cancel()

		m, err := app.Store.GetMember(ctx, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func UpdateMember(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var input memberInput
		if !decodeJSON(w, r, &input) {
			return
		}

		ctx, cancel := app.context(r)
		defer cancel()

		m, err := app.Store.GetMember(ctx, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		msg, err := input.apply(&m)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if msg != "" {
			writeMessage(w, http.StatusBadRequest, msg)
			return
		}
		if m.Username == "" {
			writeMessage(w, http.StatusBadRequest, "username cannot be empty")
			return
		}

		if err := app.Store.UpdateMember(ctx, m); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func DeleteMember(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		ctx, cancel := app.context(r)
		defer cancel()

		if err := app.Store.DeleteMember(ctx, id); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
