package models

type SessionState string

const (
	SessionClosed    SessionState = "closed"
	SessionOpen      SessionState = "open"
	SessionNoSignOut SessionState = "no_sign_out"
)

// Session is a reconstructed sign-in with its resolved sign-out, if any.
type Session struct {
	EventID         int64        `json:"event_id"`
	MemberID        int64        `json:"member_id"`
	MemberName      string       `json:"member_name"`
	LocationID      int64        `json:"location_id"`
	LocationName    string       `json:"location_name"`
	OriginAddress   string       `json:"origin_address"`
	SignInTime      int64        `json:"sign_in_time"`
	SignOutTime     *int64       `json:"sign_out_time"`
	DurationSeconds *int64       `json:"duration_seconds"`
	Duration        string       `json:"duration"`
	State           SessionState `json:"state"`
	Anomaly         bool         `json:"anomaly"`
}

type HistoryPage struct {
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	HasNext  bool      `json:"has_next"`
	Sessions []Session `json:"sessions"`
}

// HistoryEntry is a sign-in event joined with member and location names.
type HistoryEntry struct {
	Event        TimecardEvent
	FirstName    string
	LastName     string
	LocationName string
}
