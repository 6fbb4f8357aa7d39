package roster

import (
	"context"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
)

// Repository exposes roster persistence operations.
type Repository interface {
	GetByID(ctx context.Context, id string) (Entry, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Entry, error)
	ListByMatchAndSide(ctx context.Context, matchID string, side match.Side) ([]Entry, error)
	// Replace atomically clears the match roster and inserts the given set.
	Replace(ctx context.Context, matchID string, entries []Entry) error
	UpdateFlags(ctx context.Context, id string, isStarting, isCaptain *bool) error
	// DemoteCaptains clears the captain flag for every entry of the side
	// except the one identified by keepEntryID.
	DemoteCaptains(ctx context.Context, matchID string, side match.Side, keepEntryID string) error
}
