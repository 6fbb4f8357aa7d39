package memory

import (
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/roster"
)

const (
	MatchIDDerby    = "match-derby-2026"
	MatchIDFriendly = "match-friendly-2026"
)

func SeedMatches() []match.Match {
	kickoff := time.Date(2026, time.September, 12, 19, 30, 0, 0, time.UTC)

	return []match.Match{
		{
			ID:             MatchIDDerby,
			HomeClubID:     "club-jakarta-hawks",
			AwayClubID:     "club-bandung-bulls",
			HomeTeamID:     "team-hawks-senior",
			AwayTeamID:     "team-bulls-senior",
			Status:         match.StatusScheduled,
			ScheduledAt:    kickoff,
			PeriodCount:    2,
			PeriodDuration: 30 * time.Minute,
			CreatedAt:      kickoff.Add(-14 * 24 * time.Hour),
			UpdatedAt:      kickoff.Add(-14 * 24 * time.Hour),
		},
		{
			ID:             MatchIDFriendly,
			HomeClubID:     "club-surabaya-sharks",
			AwayClubID:     "club-bali-waves",
			HomeTeamID:     "team-sharks-senior",
			AwayTeamID:     "team-waves-senior",
			Status:         match.StatusScheduled,
			ScheduledAt:    kickoff.Add(7 * 24 * time.Hour),
			PeriodCount:    4,
			PeriodDuration: 12 * time.Minute,
			CreatedAt:      kickoff.Add(-7 * 24 * time.Hour),
			UpdatedAt:      kickoff.Add(-7 * 24 * time.Hour),
		},
	}
}

func SeedRosterEntries() []roster.Entry {
	created := time.Date(2026, time.September, 10, 9, 0, 0, 0, time.UTC)

	entry := func(id, playerID string, side match.Side, starting, captain bool, position string) roster.Entry {
		return roster.Entry{
			ID:               id,
			MatchID:          MatchIDDerby,
			Side:             side,
			PlayerID:         playerID,
			IsStarting:       starting,
			IsCaptain:        captain,
			StartingPosition: position,
			CreatedAt:        created,
			UpdatedAt:        created,
		}
	}

	return []roster.Entry{
		entry("re-h01", "player-h01", match.SideHome, true, true, "PG"),
		entry("re-h02", "player-h02", match.SideHome, true, false, "SG"),
		entry("re-h03", "player-h03", match.SideHome, true, false, "SF"),
		entry("re-h04", "player-h04", match.SideHome, true, false, "PF"),
		entry("re-h05", "player-h05", match.SideHome, true, false, "C"),
		entry("re-h06", "player-h06", match.SideHome, false, false, ""),
		entry("re-h07", "player-h07", match.SideHome, false, false, ""),
		entry("re-a01", "player-a01", match.SideAway, true, true, "PG"),
		entry("re-a02", "player-a02", match.SideAway, true, false, "SG"),
		entry("re-a03", "player-a03", match.SideAway, true, false, "SF"),
		entry("re-a04", "player-a04", match.SideAway, true, false, "PF"),
		entry("re-a05", "player-a05", match.SideAway, true, false, "C"),
		entry("re-a06", "player-a06", match.SideAway, false, false, ""),
	}
}
