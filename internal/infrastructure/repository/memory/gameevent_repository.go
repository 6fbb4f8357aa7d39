package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/match-tracker/internal/domain/gameevent"
)

type GameEventRepository struct {
	mu      sync.RWMutex
	byMatch map[string][]gameevent.Event
}

func NewGameEventRepository(seed []gameevent.Event) *GameEventRepository {
	r := &GameEventRepository{byMatch: make(map[string][]gameevent.Event)}
	for _, ev := range seed {
		r.byMatch[ev.MatchID] = append(r.byMatch[ev.MatchID], ev)
	}

	return r
}

func (r *GameEventRepository) ListByMatch(_ context.Context, matchID string) ([]gameevent.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := r.byMatch[matchID]
	out := make([]gameevent.Event, 0, len(events))
	out = append(out, events...)

	return out, nil
}

func (r *GameEventRepository) Create(_ context.Context, item gameevent.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byMatch[item.MatchID] = append(r.byMatch[item.MatchID], item)

	return nil
}

// DeleteByMatch is the cascade hook target for match deletion.
func (r *GameEventRepository) DeleteByMatch(matchID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byMatch, matchID)
}
