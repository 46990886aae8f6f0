// Package attendance turns the per-member timecard event log into current
// in/out status, roster partitions and reconstructed session history.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Rafhael-Viana/attendees/models"
	"github.com/Rafhael-Viana/attendees/store"
)

const DefaultPageSize = 200

// EventStore is the append-only timecard log.
type EventStore interface {
	AppendEvent(ctx context.Context, e models.TimecardEvent) (models.TimecardEvent, error)
	LatestEvent(ctx context.Context, scope models.EventScope, direction models.Direction) (*models.TimecardEvent, error)
	NextEvent(ctx context.Context, scope models.EventScope, direction models.Direction, after models.EventCursor) (*models.TimecardEvent, error)
	SignIns(ctx context.Context, f models.HistoryFilter, limit, offset int) ([]models.HistoryEntry, error)
}

// Directory resolves members and the members eligible to sign in/out.
type Directory interface {
	GetMember(ctx context.Context, id int64) (models.Member, error)
	EligibleMembers(ctx context.Context, activity models.Activity, groupID int64) ([]models.Member, error)
}

type LocationStore interface {
	ListLocations(ctx context.Context, activityID int64) ([]models.Location, error)
	DeleteLocation(ctx context.Context, id int64) error
}

type Store interface {
	EventStore
	Directory
	LocationStore
}

// Notifier is told about every appended event.
type Notifier interface {
	Publish(e models.TimecardEvent)
}

type Config struct {
	// Timezone is the server/display timezone that defines "today".
	Timezone *time.Location
	PageSize int
	Notifier Notifier
}

type Engine struct {
	store    Store
	tz       *time.Location
	pageSize int
	notifier Notifier
	locks    stripedLock
}

func New(s Store, cfg Config) *Engine {
	e := &Engine{
		store:    s,
		tz:       cfg.Timezone,
		pageSize: cfg.PageSize,
		notifier: cfg.Notifier,
	}
	if e.tz == nil {
		e.tz = time.UTC
	}
	if e.pageSize <= 0 {
		e.pageSize = DefaultPageSize
	}
	return e
}

func (e *Engine) Timezone() *time.Location { return e.tz }

func (e *Engine) PageSize() int { return e.pageSize }

// Presence carries the request-scoped inputs of a status question.
type Presence struct {
	LocationID    int64
	OriginAddress string
	Now           time.Time
}

func (p Presence) now() time.Time {
	if p.Now.IsZero() {
		return time.Now()
	}
	return p.Now
}

// scopeFor narrows the event scope according to the activity policy.
func scopeFor(activity models.Activity, memberID int64, p Presence) models.EventScope {
	scope := models.EventScope{MemberID: memberID, ActivityID: activity.ID}
	if activity.SeparateLocations {
		scope.LocationID = p.LocationID
	}
	if activity.LocationLocked {
		scope.OriginAddress = p.OriginAddress
	}
	return scope
}

func invalidRef(what string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrInvalidReference)
	}
	return err
}

const lockStripes = 64

// stripedLock serializes toggles per (activity, member) key.
type stripedLock struct {
	stripes [lockStripes]sync.Mutex
}

func (l *stripedLock) lock(activityID, memberID int64) func() {
	h := uint64(activityID)*1_000_003 ^ uint64(memberID)
	mu := &l.stripes[h%lockStripes]
	mu.Lock()
	return mu.Unlock
}
