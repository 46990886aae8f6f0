package attendance

import (
	"context"
	"time"

	"github.com/Rafhael-Viana/attendees/models"
)

// History returns one page of sign-ins, newest first, each resolved into a
// session with its sign-out and duration.
func (e *Engine) History(ctx context.Context, activity models.Activity, f models.HistoryFilter, page int, now time.Time) (models.HistoryPage, error) {
	if page < 0 {
		page = 0
	}
	if now.IsZero() {
		now = time.Now()
	}
	f.ActivityID = activity.ID

	entries, err := e.store.SignIns(ctx, f, e.pageSize+1, page*e.pageSize)
	if err != nil {
		return models.HistoryPage{}, err
	}

	result := models.HistoryPage{
		Page:     page,
		PageSize: e.pageSize,
		Sessions: make([]models.Session, 0, len(entries)),
	}
	if len(entries) > e.pageSize {
		result.HasNext = true
		entries = entries[:e.pageSize]
	}

	for _, entry := range entries {
		in := entry.Event
		scope := models.EventScope{MemberID: in.MemberID, ActivityID: activity.ID}
		if activity.SeparateLocations {
			scope.LocationID = in.LocationID
		}
		cursor := models.EventCursor{Timestamp: in.Timestamp, ID: in.ID}

		nextIn, err := e.store.NextEvent(ctx, scope, models.DirectionIn, cursor)
		if err != nil {
			return models.HistoryPage{}, err
		}
		nextOut, err := e.store.NextEvent(ctx, scope, models.DirectionOut, cursor)
		if err != nil {
			return models.HistoryPage{}, err
		}

		s := ResolveSession(activity, in, nextIn, nextOut, now, e.tz)
		s.MemberName = fullName(entry.FirstName, entry.LastName)
		s.LocationName = entry.LocationName
		result.Sessions = append(result.Sessions, s)
	}
	return result, nil
}

// ResolveSession pairs a sign-in with the next sign-in and sign-out of the
// same member in scope.
func ResolveSession(activity models.Activity, in models.TimecardEvent, nextIn, nextOut *models.TimecardEvent, now time.Time, tz *time.Location) models.Session {
	s := models.Session{
		EventID:       in.ID,
		MemberID:      in.MemberID,
		LocationID:    in.LocationID,
		OriginAddress: in.OriginAddress,
		SignInTime:    in.Timestamp,
	}

	if nextOut != nil {
		if nextIn == nil || !nextOut.After(*nextIn) {
			out := nextOut.Timestamp
			d := out - in.Timestamp
			s.SignOutTime = &out
			s.DurationSeconds = &d
			s.Duration = FormatDuration(d)
			s.State = models.SessionClosed
			return s
		}
		// A later sign-in precedes the sign-out: this one was never closed.
		return noSignOut(s)
	}

	nowUnix := now.Unix()
	if SameLocalDay(in.Timestamp, nowUnix, tz) || (!activity.AutoSignOut && nextIn == nil) {
		d := nowUnix - in.Timestamp
		if d < 0 {
			d = 0
		}
		s.DurationSeconds = &d
		s.Duration = FormatDuration(d)
		s.State = models.SessionOpen
		return s
	}
	return noSignOut(s)
}

func noSignOut(s models.Session) models.Session {
	s.State = models.SessionNoSignOut
	s.Anomaly = true
	return s
}

func fullName(first, last string) string {
	return models.Member{FirstName: first, LastName: last}.FullName()
}
