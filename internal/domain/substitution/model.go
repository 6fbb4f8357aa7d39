package substitution

import (
	"fmt"
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
)

// Event is one log record exchanging an active player for a benched one.
// Events are append-only; the only permitted deletion is of the most recent
// event for a match. Seq is assigned by the store and breaks creation-time
// ties, so (CreatedAt, Seq) is a strict total order.
type Event struct {
	ID            string
	MatchID       string
	Side          match.Side
	PlayerInID    string
	PlayerOutID   string
	Period        int
	TimeRemaining time.Duration
	Reason        string
	Seq           int64
	CreatedAt     time.Time
}

func (e Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("substitution id is required")
	}
	if e.MatchID == "" {
		return fmt.Errorf("substitution match id is required")
	}
	if e.PlayerInID == "" || e.PlayerOutID == "" {
		return fmt.Errorf("substitution requires both players")
	}
	if e.PlayerInID == e.PlayerOutID {
		return fmt.Errorf("player cannot substitute for themselves")
	}
	if e.Side != match.SideHome && e.Side != match.SideAway {
		return fmt.Errorf("invalid substitution side: %s", e.Side)
	}
	if e.Period < 1 {
		return fmt.Errorf("substitution period must be at least 1")
	}

	return nil
}
