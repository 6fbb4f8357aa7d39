package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
)

// MatchRepository keeps matches in process memory. Cascade deletion of
// dependent records is wired through the optional dependents hook so the
// match store does not import every sibling store.
type MatchRepository struct {
	mu      sync.RWMutex
	items   map[string]match.Match
	cascade []func(matchID string)
}

func NewMatchRepository(seed []match.Match) *MatchRepository {
	items := make(map[string]match.Match, len(seed))
	for _, m := range seed {
		items[m.ID] = m
	}

	return &MatchRepository{items: items}
}

// OnDelete registers a cascade hook invoked after a match is removed.
func (r *MatchRepository) OnDelete(fn func(matchID string)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cascade = append(r.cascade, fn)
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[id]
	return m, ok, nil
}

// GetByIDForUpdate is identical to GetByID here; callers serialize writes
// through the per-match keyed lock instead of row locks.
func (r *MatchRepository) GetByIDForUpdate(ctx context.Context, id string) (match.Match, bool, error) {
	return r.GetByID(ctx, id)
}

func (r *MatchRepository) ListByStatus(_ context.Context, status match.Status) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.items))
	for _, m := range r.items {
		if m.Status == status {
			out = append(out, m)
		}
	}

	return out, nil
}

func (r *MatchRepository) Create(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}

func (r *MatchRepository) UpdateStatus(_ context.Context, id string, status match.Status, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[id]
	if !ok {
		return nil
	}
	m.Status = status
	m.UpdatedAt = updatedAt
	r.items[id] = m

	return nil
}

func (r *MatchRepository) UpdateSchedule(_ context.Context, id string, status match.Status, scheduledAt, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[id]
	if !ok {
		return nil
	}
	m.Status = status
	m.ScheduledAt = scheduledAt
	m.UpdatedAt = updatedAt
	r.items[id] = m

	return nil
}

func (r *MatchRepository) UpdateConfig(_ context.Context, id string, scheduledAt *time.Time, periodCount *int, periodDuration *time.Duration, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[id]
	if !ok {
		return nil
	}
	if scheduledAt != nil {
		m.ScheduledAt = *scheduledAt
	}
	if periodCount != nil {
		m.PeriodCount = *periodCount
	}
	if periodDuration != nil {
		m.PeriodDuration = *periodDuration
	}
	m.UpdatedAt = updatedAt
	r.items[id] = m

	return nil
}

func (r *MatchRepository) ApplyScoreDelta(_ context.Context, id string, delta match.ScoreDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[id]
	if !ok {
		return nil
	}
	if delta.Side == match.SideHome {
		m.HomeScore = clampScore(m.HomeScore + delta.Delta)
	} else {
		m.AwayScore = clampScore(m.AwayScore + delta.Delta)
	}
	r.items[id] = m

	return nil
}

func (r *MatchRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	_, ok := r.items[id]
	delete(r.items, id)
	cascade := r.cascade
	r.mu.Unlock()

	if ok {
		for _, fn := range cascade {
			fn(id)
		}
	}

	return nil
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
