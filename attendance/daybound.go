package attendance

import "time"

// DayStart returns the unix timestamp compared against stored events to
// decide "today": the calendar date of now in loc, taken as midnight UTC.
func DayStart(now time.Time, loc *time.Location) int64 {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
}

// SameLocalDay reports whether two unix timestamps fall on the same calendar
// date in loc.
func SameLocalDay(a, b int64, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	ay, am, ad := time.Unix(a, 0).In(loc).Date()
	by, bm, bd := time.Unix(b, 0).In(loc).Date()
	return ay == by && am == bm && ad == bd
}
