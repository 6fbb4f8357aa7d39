package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/shot"
)

type ShotRepository struct {
	mu      sync.RWMutex
	byMatch map[string][]shot.Event
	byID    map[string]string // shot id -> match id
}

func NewShotRepository(seed []shot.Event) *ShotRepository {
	r := &ShotRepository{
		byMatch: make(map[string][]shot.Event),
		byID:    make(map[string]string),
	}
	for _, ev := range seed {
		r.byMatch[ev.MatchID] = append(r.byMatch[ev.MatchID], ev)
		r.byID[ev.ID] = ev.MatchID
	}

	return r
}

func (r *ShotRepository) GetByID(_ context.Context, id string) (shot.Event, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matchID, ok := r.byID[id]
	if !ok {
		return shot.Event{}, false, nil
	}
	for _, ev := range r.byMatch[matchID] {
		if ev.ID == id {
			return ev, true, nil
		}
	}

	return shot.Event{}, false, nil
}

func (r *ShotRepository) ListByMatch(_ context.Context, matchID string) ([]shot.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shots := r.byMatch[matchID]
	out := make([]shot.Event, 0, len(shots))
	out = append(out, shots...)

	return out, nil
}

func (r *ShotRepository) CountGoals(_ context.Context, matchID string, side match.Side) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, ev := range r.byMatch[matchID] {
		if ev.Side == side && ev.Result == shot.ResultGoal {
			count++
		}
	}

	return count, nil
}

func (r *ShotRepository) Create(_ context.Context, item shot.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byMatch[item.MatchID] = append(r.byMatch[item.MatchID], item)
	r.byID[item.ID] = item.MatchID

	return nil
}

func (r *ShotRepository) UpdateResult(_ context.Context, id string, result shot.Result, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	matchID, ok := r.byID[id]
	if !ok {
		return nil
	}
	shots := r.byMatch[matchID]
	for i := range shots {
		if shots[i].ID == id {
			shots[i].Result = result
			shots[i].UpdatedAt = updatedAt
			break
		}
	}

	return nil
}

func (r *ShotRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	matchID, ok := r.byID[id]
	if !ok {
		return nil
	}
	shots := r.byMatch[matchID]
	for i := range shots {
		if shots[i].ID == id {
			r.byMatch[matchID] = append(shots[:i:i], shots[i+1:]...)
			break
		}
	}
	delete(r.byID, id)

	return nil
}

// DeleteByMatch is the cascade hook target for match deletion.
func (r *ShotRepository) DeleteByMatch(matchID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ev := range r.byMatch[matchID] {
		delete(r.byID, ev.ID)
	}
	delete(r.byMatch, matchID)
}
