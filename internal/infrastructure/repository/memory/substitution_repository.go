package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/match-tracker/internal/domain/substitution"
)

// SubstitutionRepository keeps per-match substitution logs ordered by append
// sequence. A process-wide counter stands in for the store-assigned seq.
type SubstitutionRepository struct {
	mu      sync.RWMutex
	byMatch map[string][]substitution.Event
	byID    map[string]string // event id -> match id
	nextSeq int64
}

func NewSubstitutionRepository(seed []substitution.Event) *SubstitutionRepository {
	r := &SubstitutionRepository{
		byMatch: make(map[string][]substitution.Event),
		byID:    make(map[string]string),
	}
	for _, ev := range seed {
		if ev.Seq > r.nextSeq {
			r.nextSeq = ev.Seq
		}
		r.byMatch[ev.MatchID] = append(r.byMatch[ev.MatchID], ev)
		r.byID[ev.ID] = ev.MatchID
	}

	return r
}

func (r *SubstitutionRepository) GetByID(_ context.Context, id string) (substitution.Event, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matchID, ok := r.byID[id]
	if !ok {
		return substitution.Event{}, false, nil
	}
	for _, ev := range r.byMatch[matchID] {
		if ev.ID == id {
			return ev, true, nil
		}
	}

	return substitution.Event{}, false, nil
}

func (r *SubstitutionRepository) ListByMatch(_ context.Context, matchID string) ([]substitution.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	log := r.byMatch[matchID]
	out := make([]substitution.Event, 0, len(log))
	out = append(out, log...)

	return out, nil
}

func (r *SubstitutionRepository) Latest(_ context.Context, matchID string) (substitution.Event, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	log := r.byMatch[matchID]
	if len(log) == 0 {
		return substitution.Event{}, false, nil
	}

	return log[len(log)-1], true, nil
}

func (r *SubstitutionRepository) Append(_ context.Context, item *substitution.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSeq++
	item.Seq = r.nextSeq
	r.byMatch[item.MatchID] = append(r.byMatch[item.MatchID], *item)
	r.byID[item.ID] = item.MatchID

	return nil
}

func (r *SubstitutionRepository) DeleteLatest(_ context.Context, matchID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	log := r.byMatch[matchID]
	if len(log) == 0 || log[len(log)-1].ID != id {
		return nil
	}
	delete(r.byID, id)
	r.byMatch[matchID] = log[:len(log)-1]

	return nil
}

// DeleteByMatch is the cascade hook target for match deletion.
func (r *SubstitutionRepository) DeleteByMatch(matchID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ev := range r.byMatch[matchID] {
		delete(r.byID, ev.ID)
	}
	delete(r.byMatch, matchID)
}
