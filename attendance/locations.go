package attendance

import (
	"context"
	"fmt"

	"github.com/Rafhael-Viana/attendees/models"
)

// ResolveLocation returns the requested location, or the activity's first
// one when id is zero.
func (e *Engine) ResolveLocation(ctx context.Context, activity models.Activity, id int64) (models.Location, error) {
	locations, err := e.store.ListLocations(ctx, activity.ID)
	if err != nil {
		return models.Location{}, err
	}
	if len(locations) == 0 {
		return models.Location{}, ErrNoLocationConfigured
	}
	if id == 0 {
		return locations[0], nil
	}
	for _, l := range locations {
		if l.ID == id {
			return l, nil
		}
	}
	return models.Location{}, fmt.Errorf("location %d: %w", id, ErrInvalidReference)
}

// DeleteLocation removes a location unless it is the activity's last one.
func (e *Engine) DeleteLocation(ctx context.Context, activity models.Activity, id int64) error {
	locations, err := e.store.ListLocations(ctx, activity.ID)
	if err != nil {
		return err
	}
	found := false
	for _, l := range locations {
		if l.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("location %d: %w", id, ErrInvalidReference)
	}
	if len(locations) == 1 {
		return ErrCannotDeleteLastLocation
	}
	return invalidRef("location", e.store.DeleteLocation(ctx, id))
}
