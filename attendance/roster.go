package attendance

import (
	"context"

	"github.com/Rafhael-Viana/attendees/models"
)

type RosterEntry struct {
	Member models.Member    `json:"member"`
	Status models.Direction `json:"status"`
	Groups []string         `json:"groups,omitempty"`
}

// Roster evaluates every candidate's status and keeps those belonging to
// tab, preserving candidate order.
func (e *Engine) Roster(ctx context.Context, activity models.Activity, candidates []models.Member, tab models.Tab, p Presence) ([]RosterEntry, error) {
	if p.Now.IsZero() {
		p.Now = p.now()
	}
	entries := make([]RosterEntry, 0, len(candidates))
	for _, m := range candidates {
		status, err := e.Status(ctx, activity, m.ID, p)
		if err != nil {
			return nil, err
		}
		switch {
		case tab == models.TabOnlyIn && status != models.DirectionIn:
			continue
		case tab == models.TabOnlyOut && status == models.DirectionIn:
			continue
		}
		entries = append(entries, RosterEntry{Member: m, Status: status})
	}
	return entries, nil
}

// Filter partitions candidates by tab; "all" is the identity.
func (e *Engine) Filter(ctx context.Context, activity models.Activity, candidates []models.Member, tab models.Tab, p Presence) ([]models.Member, error) {
	if tab == models.TabAll || !tab.Valid() {
		return candidates, nil
	}
	entries, err := e.Roster(ctx, activity, candidates, tab, p)
	if err != nil {
		return nil, err
	}
	out := make([]models.Member, len(entries))
	for i, entry := range entries {
		out[i] = entry.Member
	}
	return out, nil
}
