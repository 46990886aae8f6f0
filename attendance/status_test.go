package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/Rafhael-Viana/attendees/models"
)

var day1 = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func ev(id int64, d models.Direction, ts time.Time) *models.TimecardEvent {
	return &models.TimecardEvent{ID: id, Direction: d, Timestamp: ts.Unix()}
}

func TestEvaluate(t *testing.T) {
	auto := models.Activity{AutoSignOut: true}
	manual := models.Activity{}
	today := day1.Unix()
	yesterday := day1.AddDate(0, 0, -1)

	cases := []struct {
		name     string
		activity models.Activity
		lastIn   *models.TimecardEvent
		lastOut  *models.TimecardEvent
		want     models.Direction
	}{
		{"never signed in, manual", manual, nil, nil, models.DirectionOut},
		{"never signed in, auto", auto, nil, ev(1, models.DirectionOut, at(day1, 8, 0)), models.DirectionOut},
		{"signed out today", auto, ev(1, models.DirectionIn, at(day1, 9, 0)), ev(2, models.DirectionOut, at(day1, 17, 0)), models.DirectionIn.Opposite()},
		{"signed in today", auto, ev(1, models.DirectionIn, at(day1, 9, 0)), nil, models.DirectionIn},
		{"signed in today after earlier out", auto, ev(3, models.DirectionIn, at(day1, 13, 0)), ev(2, models.DirectionOut, at(day1, 12, 0)), models.DirectionIn},
		{"signed in yesterday", auto, ev(1, models.DirectionIn, at(yesterday, 9, 0)), nil, models.DirectionOut},
		{"signed out yesterday", auto, ev(1, models.DirectionIn, at(yesterday, 9, 0)), ev(2, models.DirectionOut, at(yesterday, 17, 0)), models.DirectionOut},
		{"signed in at midnight", auto, ev(1, models.DirectionIn, day1), nil, models.DirectionIn},
		{"manual in older than out", manual, ev(1, models.DirectionIn, at(day1, 9, 0)), ev(2, models.DirectionOut, at(day1, 10, 0)), models.DirectionOut},
		{"manual in newer than out", manual, ev(3, models.DirectionIn, at(day1, 11, 0)), ev(2, models.DirectionOut, at(day1, 10, 0)), models.DirectionIn},
		{"manual stale in stays in", manual, ev(1, models.DirectionIn, at(yesterday, 9, 0)), nil, models.DirectionIn},
		{"manual tie broken by id, out last", manual, ev(1, models.DirectionIn, at(day1, 9, 0)), ev(2, models.DirectionOut, at(day1, 9, 0)), models.DirectionOut},
		{"manual tie broken by id, in last", manual, ev(2, models.DirectionIn, at(day1, 9, 0)), ev(1, models.DirectionOut, at(day1, 9, 0)), models.DirectionIn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(tc.activity, tc.lastIn, tc.lastOut, today); got != tc.want {
				t.Fatalf("Evaluate = %q, want %q", got, tc.want)
			}
		})
	}
}

type fixture struct {
	store    *memStore
	engine   *Engine
	activity models.Activity
	member   models.Member
	location models.Location
}

func newFixture(t *testing.T, activity models.Activity) *fixture {
	t.Helper()
	s := newMemStore()
	if activity.ID == 0 {
		activity.ID = 1
	}
	activity.Timecard = true
	f := &fixture{
		store:    s,
		engine:   New(s, Config{Timezone: time.UTC}),
		activity: activity,
		member:   s.addMember(models.Member{ID: 7, FirstName: "Ana", LastName: "Silva", IDNumber: "A-7", Email: "ana@example.com"}),
		location: s.addLocation(activity.ID, "Front desk"),
	}
	return f
}

func (f *fixture) seed(d models.Direction, ts time.Time, locationID int64, origin string) models.TimecardEvent {
	if locationID == 0 {
		locationID = f.location.ID
	}
	return f.store.seed(models.TimecardEvent{
		MemberID:      f.member.ID,
		ActivityID:    f.activity.ID,
		LocationID:    locationID,
		Timestamp:     ts.Unix(),
		Direction:     d,
		OriginAddress: origin,
	})
}

func (f *fixture) active(t *testing.T, p Presence) bool {
	t.Helper()
	ok, err := f.engine.IsActive(context.Background(), f.activity, f.member.ID, p)
	if err != nil {
		t.Fatalf("is active: %v", err)
	}
	return ok
}

func TestIsActiveWithoutEventsIsOut(t *testing.T) {
	for _, auto := range []bool{true, false} {
		f := newFixture(t, models.Activity{AutoSignOut: auto})
		if f.active(t, Presence{Now: at(day1, 12, 0)}) {
			t.Fatalf("auto=%v: member with no events reported in", auto)
		}
	}
}

func TestAutoSignOutDayScenario(t *testing.T) {
	f := newFixture(t, models.Activity{AutoSignOut: true})
	f.seed(models.DirectionIn, at(day1, 9, 0), 0, "")
	f.seed(models.DirectionOut, at(day1, 17, 0), 0, "")

	if f.active(t, Presence{Now: at(day1, 18, 0)}) {
		t.Fatal("18:00 day 1: want out")
	}
	if f.active(t, Presence{Now: at(day1.AddDate(0, 0, 1), 9, 0)}) {
		t.Fatal("09:00 day 2: want out")
	}
}

func TestAutoSignOutStillInSameDay(t *testing.T) {
	f := newFixture(t, models.Activity{AutoSignOut: true})
	f.seed(models.DirectionIn, at(day1, 9, 0), 0, "")

	if !f.active(t, Presence{Now: at(day1, 10, 0)}) {
		t.Fatal("10:00 day 1: want in")
	}
	if f.active(t, Presence{Now: at(day1.AddDate(0, 0, 1), 8, 0)}) {
		t.Fatal("next day without events: want out")
	}
}

func TestManualSignInSurvivesDayBoundary(t *testing.T) {
	f := newFixture(t, models.Activity{AutoSignOut: false})
	f.seed(models.DirectionIn, at(day1, 9, 0), 0, "")

	if !f.active(t, Presence{Now: at(day1.AddDate(0, 0, 3), 9, 0)}) {
		t.Fatal("manual toggle only: want in until signed out")
	}
}

func TestSeparateLocationsIsolateStatus(t *testing.T) {
	f := newFixture(t, models.Activity{SeparateLocations: true})
	other := f.store.addLocation(f.activity.ID, "Lab")
	f.seed(models.DirectionIn, at(day1, 9, 0), f.location.ID, "")

	if !f.active(t, Presence{LocationID: f.location.ID, Now: at(day1, 10, 0)}) {
		t.Fatal("location A: want in")
	}
	if f.active(t, Presence{LocationID: other.ID, Now: at(day1, 10, 0)}) {
		t.Fatal("location B: want out")
	}
}

func TestSharedLocationsShareStatus(t *testing.T) {
	f := newFixture(t, models.Activity{SeparateLocations: false})
	other := f.store.addLocation(f.activity.ID, "Lab")
	f.seed(models.DirectionIn, at(day1, 9, 0), f.location.ID, "")

	if !f.active(t, Presence{LocationID: other.ID, Now: at(day1, 10, 0)}) {
		t.Fatal("shared timeline: want in at every location")
	}
}

func TestLocationLockScopesByOrigin(t *testing.T) {
	f := newFixture(t, models.Activity{LocationLocked: true})
	f.seed(models.DirectionIn, at(day1, 9, 0), 0, "10.0.0.1")

	if !f.active(t, Presence{OriginAddress: "10.0.0.1", Now: at(day1, 10, 0)}) {
		t.Fatal("same device: want in")
	}
	if f.active(t, Presence{OriginAddress: "10.0.0.2", Now: at(day1, 10, 0)}) {
		t.Fatal("other device: want out")
	}
}

func TestDayStartUsesLocalCalendarDate(t *testing.T) {
	west := time.FixedZone("UTC-5", -5*3600)
	east := time.FixedZone("UTC+9", 9*3600)
	now := time.Date(2026, time.March, 2, 3, 0, 0, 0, time.UTC)

	if got, want := DayStart(now, time.UTC), day1.Unix(); got != want {
		t.Fatalf("utc day start = %d, want %d", got, want)
	}
	if got, want := DayStart(now, west), day1.AddDate(0, 0, -1).Unix(); got != want {
		t.Fatalf("west day start = %d, want %d", got, want)
	}
	if got, want := DayStart(now, east), day1.Unix(); got != want {
		t.Fatalf("east day start = %d, want %d", got, want)
	}
}

func TestSameLocalDay(t *testing.T) {
	west := time.FixedZone("UTC-5", -5*3600)
	a := at(day1, 1, 0).Unix()
	b := at(day1, 23, 0).Unix()
	if !SameLocalDay(a, b, time.UTC) {
		t.Fatal("utc: want same day")
	}
	if SameLocalDay(a, b, west) {
		t.Fatal("utc-5: 01:00Z and 23:00Z fall on different local dates")
	}
}
