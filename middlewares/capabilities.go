package middleware

import (
	"context"
	"net/http"
)

// Capability names one gated operation.
type Capability string

const (
	CapView            Capability = "view"
	CapSignInOut       Capability = "signinout"
	CapSignInOutOthers Capability = "signinoutothers"
	CapViewRosters     Capability = "viewrosters"
	CapViewHistory     Capability = "viewhistory"
	CapManageLocations Capability = "managelocations"
	CapManage          Capability = "manage"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleKiosk   = "kiosk"
	RoleAdmin   = "admin"
)

var roleCapabilities = map[string][]Capability{
	RoleStudent: {CapView, CapSignInOut},
	RoleKiosk:   {CapView, CapSignInOut, CapSignInOutOthers, CapViewRosters},
	RoleTeacher: {CapView, CapSignInOut, CapSignInOutOthers, CapViewRosters, CapViewHistory, CapManageLocations},
	RoleAdmin:   {CapView, CapSignInOut, CapSignInOutOthers, CapViewRosters, CapViewHistory, CapManageLocations, CapManage},
}

// ValidRole reports whether role is known.
func ValidRole(role string) bool {
	_, ok := roleCapabilities[role]
	return ok
}

// HasCapability reports whether any of roles grants c.
func HasCapability(roles []string, c Capability) bool {
	for _, role := range roles {
		for _, granted := range roleCapabilities[role] {
			if granted == c {
				return true
			}
		}
	}
	return false
}

// Can checks c against the roles of the authenticated member in ctx.
func Can(ctx context.Context, c Capability) bool {
	roles, _ := RolesFromContext(ctx)
	return HasCapability(roles, c)
}

// RequireCapability rejects requests whose roles do not grant c.
func RequireCapability(c Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !Can(r.Context(), c) {
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
