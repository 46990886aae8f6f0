package attendance

import (
	"context"
	"sort"
	"sync"

	"github.com/Rafhael-Viana/attendees/models"
	"github.com/Rafhael-Viana/attendees/store"
)

// memStore is an in-memory Store for engine tests.
type memStore struct {
	mu        sync.Mutex
	events    []models.TimecardEvent
	members   map[int64]models.Member
	eligible  []models.Member
	groups    map[int64][]int64
	locations map[int64][]models.Location
	nextID    int64
}

func newMemStore() *memStore {
	return &memStore{
		members:   map[int64]models.Member{},
		groups:    map[int64][]int64{},
		locations: map[int64][]models.Location{},
	}
}

func (s *memStore) addMember(m models.Member) models.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[m.ID] = m
	s.eligible = append(s.eligible, m)
	return m
}

func (s *memStore) addLocation(activityID int64, name string) models.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	l := models.Location{ID: 1000 + s.nextID, ActivityID: activityID, Name: name}
	s.locations[activityID] = append(s.locations[activityID], l)
	return l
}

// seed appends an event directly, bypassing the engine.
func (s *memStore) seed(e models.TimecardEvent) models.TimecardEvent {
	out, _ := s.AppendEvent(context.Background(), e)
	return out
}

func (s *memStore) AppendEvent(_ context.Context, e models.TimecardEvent) (models.TimecardEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = s.nextID
	s.events = append(s.events, e)
	return e, nil
}

func matches(e models.TimecardEvent, scope models.EventScope, d models.Direction) bool {
	if e.ActivityID != scope.ActivityID || e.MemberID != scope.MemberID || e.Direction != d {
		return false
	}
	if scope.LocationID > 0 && e.LocationID != scope.LocationID {
		return false
	}
	if scope.OriginAddress != "" && e.OriginAddress != scope.OriginAddress {
		return false
	}
	return true
}

func (s *memStore) LatestEvent(_ context.Context, scope models.EventScope, d models.Direction) (*models.TimecardEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *models.TimecardEvent
	for i := range s.events {
		e := s.events[i]
		if !matches(e, scope, d) {
			continue
		}
		if best == nil || e.After(*best) {
			best = &e
		}
	}
	return best, nil
}

func (s *memStore) NextEvent(_ context.Context, scope models.EventScope, d models.Direction, after models.EventCursor) (*models.TimecardEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pivot := models.TimecardEvent{Timestamp: after.Timestamp, ID: after.ID}
	var best *models.TimecardEvent
	for i := range s.events {
		e := s.events[i]
		if !matches(e, scope, d) || !e.After(pivot) {
			continue
		}
		if best == nil || best.After(e) {
			best = &e
		}
	}
	return best, nil
}

func (s *memStore) SignIns(_ context.Context, f models.HistoryFilter, limit, offset int) ([]models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ins []models.TimecardEvent
	for _, e := range s.events {
		if e.ActivityID != f.ActivityID || e.Direction != models.DirectionIn {
			continue
		}
		if f.From > 0 && e.Timestamp < f.From {
			continue
		}
		if f.To > 0 && e.Timestamp > f.To {
			continue
		}
		if len(f.MemberIDs) > 0 && !contains(f.MemberIDs, e.MemberID) {
			continue
		}
		if len(f.LocationIDs) > 0 && !contains(f.LocationIDs, e.LocationID) {
			continue
		}
		ins = append(ins, e)
	}
	sort.Slice(ins, func(i, j int) bool { return ins[i].After(ins[j]) })

	out := []models.HistoryEntry{}
	for i := offset; i < len(ins) && len(out) < limit; i++ {
		m := s.members[ins[i].MemberID]
		out = append(out, models.HistoryEntry{Event: ins[i], FirstName: m.FirstName, LastName: m.LastName})
	}
	return out, nil
}

func (s *memStore) GetMember(_ context.Context, id int64) (models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return models.Member{}, store.ErrNotFound
	}
	return m, nil
}

func (s *memStore) EligibleMembers(_ context.Context, _ models.Activity, groupID int64) ([]models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if groupID == 0 {
		return append([]models.Member(nil), s.eligible...), nil
	}
	var out []models.Member
	for _, m := range s.eligible {
		if contains(s.groups[groupID], m.ID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memStore) ListLocations(_ context.Context, activityID int64) ([]models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Location{}, s.locations[activityID]...), nil
}

func (s *memStore) DeleteLocation(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for aid, locs := range s.locations {
		for i, l := range locs {
			if l.ID == id {
				s.locations[aid] = append(locs[:i], locs[i+1:]...)
				return nil
			}
		}
	}
	return store.ErrNotFound
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
