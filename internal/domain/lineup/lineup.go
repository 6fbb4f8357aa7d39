package lineup

import (
	"sort"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/roster"
	"github.com/riskibarqy/match-tracker/internal/domain/substitution"
)

// Partition is the active/bench split of one side's rostered players.
type Partition struct {
	Active []string
	Bench  []string
}

// Lineup is the derived on-field state of a match at the end of the
// substitution log.
type Lineup struct {
	Home Partition
	Away Partition
}

func (l Lineup) Side(side match.Side) Partition {
	if side == match.SideHome {
		return l.Home
	}
	return l.Away
}

// Derive replays the substitution log over the starting roster and returns
// the active/bench partition per side. Events must already be in ascending
// (created_at, seq) order, which is the repository contract.
func Derive(entries []roster.Entry, log []substitution.Event) Lineup {
	active := make(map[string]bool, len(entries))
	sideByPlayer := make(map[string]match.Side, len(entries))
	for _, e := range entries {
		active[e.PlayerID] = e.IsStarting
		sideByPlayer[e.PlayerID] = e.Side
	}

	for _, ev := range log {
		active[ev.PlayerOutID] = false
		active[ev.PlayerInID] = true
	}

	var out Lineup
	for playerID, isActive := range active {
		side, ok := sideByPlayer[playerID]
		if !ok {
			continue
		}
		p := &out.Home
		if side == match.SideAway {
			p = &out.Away
		}
		if isActive {
			p.Active = append(p.Active, playerID)
		} else {
			p.Bench = append(p.Bench, playerID)
		}
	}

	sort.Strings(out.Home.Active)
	sort.Strings(out.Home.Bench)
	sort.Strings(out.Away.Active)
	sort.Strings(out.Away.Bench)

	return out
}

// IsActive answers the single-player query without a full replay: a player is
// on the field iff they started and have been subbed in as often as out, or
// did not start and have been subbed in more often than out.
func IsActive(started bool, insCount, outsCount int) bool {
	if started {
		return insCount == outsCount
	}
	return insCount > outsCount
}

// PlayerActive resolves one player's state against a roster and log using the
// closed form. The replay in Derive must agree with this for every log.
func PlayerActive(playerID string, entries []roster.Entry, log []substitution.Event) bool {
	started := false
	for _, e := range entries {
		if e.PlayerID == playerID {
			started = e.IsStarting
			break
		}
	}

	ins, outs := 0, 0
	for _, ev := range log {
		if ev.PlayerInID == playerID {
			ins++
		}
		if ev.PlayerOutID == playerID {
			outs++
		}
	}

	return IsActive(started, ins, outs)
}
