package postgres

import (
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/substitution"
)

type substitutionTableModel struct {
	ID               string    `db:"id"`
	MatchID          string    `db:"match_id"`
	Side             string    `db:"side"`
	PlayerInID       string    `db:"player_in_id"`
	PlayerOutID      string    `db:"player_out_id"`
	Period           int       `db:"period"`
	RemainingSeconds int64     `db:"remaining_seconds"`
	Reason           string    `db:"reason"`
	Seq              int64     `db:"seq"`
	CreatedAt        time.Time `db:"created_at"`
}

func (m substitutionTableModel) toDomain() substitution.Event {
	return substitution.Event{
		ID:            m.ID,
		MatchID:       m.MatchID,
		Side:          match.Side(m.Side),
		PlayerInID:    m.PlayerInID,
		PlayerOutID:   m.PlayerOutID,
		Period:        m.Period,
		TimeRemaining: time.Duration(m.RemainingSeconds) * time.Second,
		Reason:        m.Reason,
		Seq:           m.Seq,
		CreatedAt:     m.CreatedAt,
	}
}
