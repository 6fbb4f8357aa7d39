package shot

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
)

// Result classifies the outcome of a shot attempt.
type Result string

const (
	ResultGoal    Result = "GOAL"
	ResultMiss    Result = "MISS"
	ResultBlocked Result = "BLOCKED"
)

func ParseResult(value string) (Result, bool) {
	switch Result(strings.ToUpper(strings.TrimSpace(value))) {
	case ResultGoal:
		return ResultGoal, true
	case ResultMiss:
		return ResultMiss, true
	case ResultBlocked:
		return ResultBlocked, true
	default:
		return "", false
	}
}

// Event is one recorded shot attempt. Identity is immutable; the result may
// be corrected after the fact and the event may be deleted, each of which
// feeds a compensating score adjustment.
type Event struct {
	ID            string
	MatchID       string
	Side          match.Side
	PlayerID      string
	X             float64
	Y             float64
	Result        Result
	Period        int
	TimeRemaining time.Duration
	Distance      float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (e Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("shot id is required")
	}
	if e.MatchID == "" {
		return fmt.Errorf("shot match id is required")
	}
	if e.PlayerID == "" {
		return fmt.Errorf("shot player id is required")
	}
	if e.Side != match.SideHome && e.Side != match.SideAway {
		return fmt.Errorf("invalid shot side: %s", e.Side)
	}
	if _, ok := ParseResult(string(e.Result)); !ok {
		return fmt.Errorf("invalid shot result: %s", e.Result)
	}
	if e.Period < 1 {
		return fmt.Errorf("shot period must be at least 1")
	}

	return nil
}
