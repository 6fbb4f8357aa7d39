package match

import (
	"context"
	"time"
)

// ScoreDelta is an atomic adjustment to one side's score counter. The store
// applies it as a single increment floored at zero, never as read-then-write.
type ScoreDelta struct {
	Side  Side
	Delta int
}

// Repository exposes match persistence operations.
type Repository interface {
	GetByID(ctx context.Context, id string) (Match, bool, error)
	// GetByIDForUpdate reads the match while holding an exclusive row lock
	// until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (Match, bool, error)
	ListByStatus(ctx context.Context, status Status) ([]Match, error)
	Create(ctx context.Context, item Match) error
	UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error
	UpdateSchedule(ctx context.Context, id string, status Status, scheduledAt time.Time, updatedAt time.Time) error
	UpdateConfig(ctx context.Context, id string, scheduledAt *time.Time, periodCount *int, periodDuration *time.Duration, updatedAt time.Time) error
	ApplyScoreDelta(ctx context.Context, id string, delta ScoreDelta) error
	// Delete removes the match; dependent records cascade in the store.
	Delete(ctx context.Context, id string) error
}
