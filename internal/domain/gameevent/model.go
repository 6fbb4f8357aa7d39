package gameevent

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
)

// Type classifies an audit-trail game event. None of these feed derived
// state; they exist for the match record only.
type Type string

const (
	TypeFoul         Type = "FOUL"
	TypeSubstitution Type = "SUBSTITUTION"
	TypeTimeout      Type = "TIMEOUT"
)

func ParseType(value string) (Type, bool) {
	switch Type(strings.ToUpper(strings.TrimSpace(value))) {
	case TypeFoul:
		return TypeFoul, true
	case TypeSubstitution:
		return TypeSubstitution, true
	case TypeTimeout:
		return TypeTimeout, true
	default:
		return "", false
	}
}

// Event is one audit-trail record for a match.
type Event struct {
	ID            string
	MatchID       string
	Side          match.Side
	Type          Type
	PlayerID      string
	Period        int
	TimeRemaining time.Duration
	Details       string
	CreatedAt     time.Time
}

func (e Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("game event id is required")
	}
	if e.MatchID == "" {
		return fmt.Errorf("game event match id is required")
	}
	if e.Side != match.SideHome && e.Side != match.SideAway {
		return fmt.Errorf("invalid game event side: %s", e.Side)
	}
	if _, ok := ParseType(string(e.Type)); !ok {
		return fmt.Errorf("invalid game event type: %s", e.Type)
	}
	if e.Period < 1 {
		return fmt.Errorf("game event period must be at least 1")
	}

	return nil
}
