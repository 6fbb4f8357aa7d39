package gameevent

import "context"

// Repository exposes the read-mostly game event audit trail.
type Repository interface {
	ListByMatch(ctx context.Context, matchID string) ([]Event, error)
	Create(ctx context.Context, item Event) error
}
