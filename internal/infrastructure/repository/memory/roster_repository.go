package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/roster"
)

type RosterRepository struct {
	mu      sync.RWMutex
	byMatch map[string][]roster.Entry
	byID    map[string]string // entry id -> match id
	now     func() time.Time
}

func NewRosterRepository(seed []roster.Entry) *RosterRepository {
	r := &RosterRepository{
		byMatch: make(map[string][]roster.Entry),
		byID:    make(map[string]string),
		now:     time.Now,
	}
	for _, e := range seed {
		r.byMatch[e.MatchID] = append(r.byMatch[e.MatchID], e)
		r.byID[e.ID] = e.MatchID
	}

	return r
}

func (r *RosterRepository) GetByID(_ context.Context, id string) (roster.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matchID, ok := r.byID[id]
	if !ok {
		return roster.Entry{}, false, nil
	}
	for _, e := range r.byMatch[matchID] {
		if e.ID == id {
			return e, true, nil
		}
	}

	return roster.Entry{}, false, nil
}

func (r *RosterRepository) ListByMatch(_ context.Context, matchID string) ([]roster.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.byMatch[matchID]
	out := make([]roster.Entry, 0, len(entries))
	out = append(out, entries...)

	return out, nil
}

func (r *RosterRepository) ListByMatchAndSide(_ context.Context, matchID string, side match.Side) ([]roster.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Entry, 0)
	for _, e := range r.byMatch[matchID] {
		if e.Side == side {
			out = append(out, e)
		}
	}

	return out, nil
}

func (r *RosterRepository) Replace(_ context.Context, matchID string, entries []roster.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, old := range r.byMatch[matchID] {
		delete(r.byID, old.ID)
	}
	next := make([]roster.Entry, 0, len(entries))
	for _, e := range entries {
		next = append(next, e)
		r.byID[e.ID] = matchID
	}
	r.byMatch[matchID] = next

	return nil
}

func (r *RosterRepository) UpdateFlags(_ context.Context, id string, isStarting, isCaptain *bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	matchID, ok := r.byID[id]
	if !ok {
		return nil
	}
	entries := r.byMatch[matchID]
	for i := range entries {
		if entries[i].ID != id {
			continue
		}
		if isStarting != nil {
			entries[i].IsStarting = *isStarting
		}
		if isCaptain != nil {
			entries[i].IsCaptain = *isCaptain
		}
		entries[i].UpdatedAt = r.now().UTC()
		break
	}

	return nil
}

func (r *RosterRepository) DemoteCaptains(_ context.Context, matchID string, side match.Side, keepEntryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.byMatch[matchID]
	for i := range entries {
		if entries[i].Side != side || entries[i].ID == keepEntryID {
			continue
		}
		if entries[i].IsCaptain {
			entries[i].IsCaptain = false
			entries[i].UpdatedAt = r.now().UTC()
		}
	}

	return nil
}

// DeleteByMatch is the cascade hook target for match deletion.
func (r *RosterRepository) DeleteByMatch(matchID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.byMatch[matchID] {
		delete(r.byID, e.ID)
	}
	delete(r.byMatch, matchID)
}
