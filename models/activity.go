package models

// Tab selects a roster partition.
type Tab string

const (
	TabAll     Tab = "all"
	TabOnlyIn  Tab = "onlyin"
	TabOnlyOut Tab = "onlyout"
)

func (t Tab) Valid() bool {
	return t == TabAll || t == TabOnlyIn || t == TabOnlyOut
}

// DefaultSearchFields are matched by kiosk lookup when an activity
// configures none.
var DefaultSearchFields = []string{"idnumber", "email", "username", "phone1", "phone2"}

// Activity is one attendance deployment and its policy flags.
type Activity struct {
	ID       int64  `json:"id"`
	CourseID int64  `json:"course_id"`
	Name     string `json:"name"`
	Intro    string `json:"intro"`

	Timecard          bool     `json:"timecard"`
	AutoSignOut       bool     `json:"auto_sign_out"`
	SeparateLocations bool     `json:"separate_locations"`
	LocationLocked    bool     `json:"location_locked"`
	KioskMode         bool     `json:"kiosk_mode"`
	ShowRoster        bool     `json:"show_roster"`
	LockView          bool     `json:"lock_view"`
	ShowGroups        bool     `json:"show_groups"`
	DefaultView       Tab      `json:"default_view"`
	SearchFields      []string `json:"search_fields"`
}

// LookupFields returns the configured search fields or the default set.
func (a Activity) LookupFields() []string {
	if len(a.SearchFields) == 0 {
		return DefaultSearchFields
	}
	return a.SearchFields
}

// ResolveTab applies the default view and the locked-view policy.
func (a Activity) ResolveTab(requested Tab) Tab {
	def := a.DefaultView
	if !def.Valid() {
		def = TabAll
	}
	if a.LockView || !requested.Valid() {
		return def
	}
	return requested
}

type Location struct {
	ID         int64  `json:"id"`
	ActivityID int64  `json:"activity_id"`
	Name       string `json:"name"`
}

// DefaultLocationName is given to the location created with an activity.
const DefaultLocationName = "Sign In / Out Location"

type Course struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
