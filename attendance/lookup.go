package attendance

import (
	"context"
	"strings"

	"github.com/Rafhael-Viana/attendees/models"
)

// Lookup resolves a kiosk code to the single eligible member whose
// configured search fields contain it exactly. Zero or several matches are
// both ErrCodeNotFound.
func (e *Engine) Lookup(ctx context.Context, activity models.Activity, groupID int64, code string) (models.Member, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.Member{}, ErrEmptyInput
	}

	candidates, err := e.store.EligibleMembers(ctx, activity, groupID)
	if err != nil {
		return models.Member{}, err
	}

	member, ok := MatchCode(candidates, activity.LookupFields(), code)
	if !ok {
		return models.Member{}, ErrCodeNotFound
	}
	return member, nil
}

// MatchCode returns the only candidate with a field equal to code.
func MatchCode(candidates []models.Member, fields []string, code string) (models.Member, bool) {
	var match models.Member
	matches := 0
	for _, c := range candidates {
		for _, f := range fields {
			if c.Field(f) == code {
				match = c
				matches++
				break
			}
		}
		if matches > 1 {
			return models.Member{}, false
		}
	}
	return match, matches == 1
}
