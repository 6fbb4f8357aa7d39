package postgres

import (
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/roster"
)

type rosterTableModel struct {
	ID               string    `db:"id"`
	MatchID          string    `db:"match_id"`
	Side             string    `db:"side"`
	PlayerID         string    `db:"player_id"`
	IsStarting       bool      `db:"is_starting"`
	IsCaptain        bool      `db:"is_captain"`
	StartingPosition string    `db:"starting_position"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (m rosterTableModel) toDomain() roster.Entry {
	return roster.Entry{
		ID:               m.ID,
		MatchID:          m.MatchID,
		Side:             match.Side(m.Side),
		PlayerID:         m.PlayerID,
		IsStarting:       m.IsStarting,
		IsCaptain:        m.IsCaptain,
		StartingPosition: m.StartingPosition,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
