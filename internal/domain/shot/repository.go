package shot

import (
	"context"
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
)

// Repository exposes shot ledger persistence operations.
type Repository interface {
	GetByID(ctx context.Context, id string) (Event, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Event, error)
	// CountGoals tallies currently-existing goal-result shots for one side,
	// the ledger truth the denormalized score counter must agree with.
	CountGoals(ctx context.Context, matchID string, side match.Side) (int, error)
	Create(ctx context.Context, item Event) error
	UpdateResult(ctx context.Context, id string, result Result, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}
