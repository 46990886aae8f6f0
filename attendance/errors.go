package attendance

import "errors"

var (
	// ErrInvalidReference: an activity, location or member id does not resolve.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrPermissionDenied: the caller lacks the capability for the operation.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNoLocationConfigured: a toggle needs a location and the activity has none.
	ErrNoLocationConfigured = errors.New("no location configured")
	// ErrCodeNotFound: a kiosk code matched zero or several members.
	ErrCodeNotFound = errors.New("code not found")
	// ErrEmptyInput: a kiosk code was blank. Callers treat it as a no-op.
	ErrEmptyInput = errors.New("empty input")
	// ErrCannotDeleteLastLocation: the location is the activity's only one.
	ErrCannotDeleteLastLocation = errors.New("cannot delete the last location")
	// ErrSignInOutDisabled: the activity's timecard is switched off.
	ErrSignInOutDisabled = errors.New("sign in/out is disabled for this activity")
	// ErrKioskDisabled: code lookup was attempted outside kiosk mode.
	ErrKioskDisabled = errors.New("kiosk mode is disabled for this activity")
)
