package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Rafhael-Viana/attendees/models"
)

type ToggleRequest struct {
	Activity      models.Activity
	MemberID      int64
	LocationID    int64
	OriginAddress string
	Now           time.Time
}

type ToggleResult struct {
	Event    models.TimecardEvent `json:"event"`
	Member   models.Member        `json:"member"`
	Location models.Location      `json:"location"`
	Message  string               `json:"message"`
}

// SignInOrOut appends the event opposite to the member's current status.
func (e *Engine) SignInOrOut(ctx context.Context, req ToggleRequest) (ToggleResult, error) {
	activity := req.Activity
	if !activity.Timecard {
		return ToggleResult{}, ErrSignInOutDisabled
	}

	member, err := e.store.GetMember(ctx, req.MemberID)
	if err != nil {
		return ToggleResult{}, invalidRef("member", err)
	}

	location, err := e.ResolveLocation(ctx, activity, req.LocationID)
	if err != nil {
		return ToggleResult{}, err
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	unlock := e.locks.lock(activity.ID, member.ID)
	defer unlock()

	status, err := e.Status(ctx, activity, member.ID, Presence{
		LocationID:    location.ID,
		OriginAddress: req.OriginAddress,
		Now:           now,
	})
	if err != nil {
		return ToggleResult{}, err
	}

	event, err := e.store.AppendEvent(ctx, models.TimecardEvent{
		MemberID:      member.ID,
		ActivityID:    activity.ID,
		LocationID:    location.ID,
		Timestamp:     now.Unix(),
		Direction:     status.Opposite(),
		OriginAddress: req.OriginAddress,
	})
	if err != nil {
		return ToggleResult{}, err
	}

	slog.InfoContext(ctx, "timecard event appended",
		"activity_id", activity.ID,
		"member_id", member.ID,
		"location_id", location.ID,
		"direction", event.Direction,
	)
	if e.notifier != nil {
		e.notifier.Publish(event)
	}

	return ToggleResult{
		Event:    event,
		Member:   member,
		Location: location,
		Message:  ToggleMessage(member, event.Direction),
	}, nil
}

// ToggleMessage is the confirmation shown after a sign-in or sign-out.
func ToggleMessage(m models.Member, d models.Direction) string {
	return fmt.Sprintf("%s has been signed %s.", m.FullName(), d)
}
