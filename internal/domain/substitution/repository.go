package substitution

import "context"

// Repository exposes the substitution log. The log is an ordered,
// monotonically growing sequence: only Append and DeleteLatest mutate it.
type Repository interface {
	GetByID(ctx context.Context, id string) (Event, bool, error)
	// ListByMatch returns events in ascending (created_at, seq) order.
	ListByMatch(ctx context.Context, matchID string) ([]Event, error)
	// Latest returns the most recently appended event for the match.
	Latest(ctx context.Context, matchID string) (Event, bool, error)
	// Append persists the event and fills in its store-assigned Seq.
	Append(ctx context.Context, item *Event) error
	DeleteLatest(ctx context.Context, matchID, id string) error
}
