package attendance

import (
	"context"

	"github.com/Rafhael-Viana/attendees/models"
)

// Evaluate decides a member's status from the latest "in" and "out" events
// in scope. Either event may be nil. dayStart comes from DayStart.
func Evaluate(activity models.Activity, lastIn, lastOut *models.TimecardEvent, dayStart int64) models.Direction {
	if lastIn == nil {
		return models.DirectionOut
	}
	outIsLatest := lastOut != nil && lastOut.After(*lastIn)

	if activity.AutoSignOut {
		switch {
		case outIsLatest && lastOut.Timestamp >= dayStart:
			// signed out today
			return models.DirectionOut
		case lastIn.Timestamp >= dayStart && !outIsLatest:
			return models.DirectionIn
		case lastIn.Timestamp < dayStart && (lastOut == nil || lastOut.Timestamp < dayStart):
			// stale from a previous day
			return models.DirectionOut
		}
		return models.DirectionOut
	}

	if outIsLatest {
		return models.DirectionOut
	}
	return models.DirectionIn
}

// Status returns the member's current direction for the activity.
func (e *Engine) Status(ctx context.Context, activity models.Activity, memberID int64, p Presence) (models.Direction, error) {
	scope := scopeFor(activity, memberID, p)

	lastIn, err := e.store.LatestEvent(ctx, scope, models.DirectionIn)
	if err != nil {
		return "", err
	}
	if lastIn == nil {
		return models.DirectionOut, nil
	}
	lastOut, err := e.store.LatestEvent(ctx, scope, models.DirectionOut)
	if err != nil {
		return "", err
	}
	return Evaluate(activity, lastIn, lastOut, DayStart(p.now(), e.tz)), nil
}

func (e *Engine) IsActive(ctx context.Context, activity models.Activity, memberID int64, p Presence) (bool, error) {
	status, err := e.Status(ctx, activity, memberID, p)
	if err != nil {
		return false, err
	}
	return status == models.DirectionIn, nil
}
