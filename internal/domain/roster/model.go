package roster

import (
	"fmt"
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
)

// Entry assigns a player to one side of a match with starting/captain flags.
type Entry struct {
	ID               string
	MatchID          string
	Side             match.Side
	PlayerID         string
	IsStarting       bool
	IsCaptain        bool
	StartingPosition string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (e Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("roster entry id is required")
	}
	if e.MatchID == "" {
		return fmt.Errorf("roster entry match id is required")
	}
	if e.PlayerID == "" {
		return fmt.Errorf("roster entry player id is required")
	}
	if e.Side != match.SideHome && e.Side != match.SideAway {
		return fmt.Errorf("invalid roster entry side: %s", e.Side)
	}

	return nil
}

// ValidateBatch enforces the invariants of a full roster replacement: at most
// one captain per side and no player rostered twice on the same side.
func ValidateBatch(entries []Entry) error {
	captainBySide := make(map[match.Side]string, 2)
	seen := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}

		key := string(e.Side) + "::" + e.PlayerID
		if _, dup := seen[key]; dup {
			return fmt.Errorf("player %s appears twice on side %s", e.PlayerID, e.Side)
		}
		seen[key] = struct{}{}

		if !e.IsCaptain {
			continue
		}
		if prior, ok := captainBySide[e.Side]; ok {
			return fmt.Errorf("side %s has two captains: %s and %s", e.Side, prior, e.PlayerID)
		}
		captainBySide[e.Side] = e.PlayerID
	}

	return nil
}
