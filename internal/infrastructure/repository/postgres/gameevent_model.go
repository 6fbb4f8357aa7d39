package postgres

import (
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/gameevent"
	"github.com/riskibarqy/match-tracker/internal/domain/match"
)

type gameEventTableModel struct {
	ID               string    `db:"id"`
	MatchID          string    `db:"match_id"`
	Side             string    `db:"side"`
	EventType        string    `db:"event_type"`
	PlayerID         string    `db:"player_id"`
	Period           int       `db:"period"`
	RemainingSeconds int64     `db:"remaining_seconds"`
	Details          string    `db:"details"`
	CreatedAt        time.Time `db:"created_at"`
}

func (m gameEventTableModel) toDomain() gameevent.Event {
	return gameevent.Event{
		ID:            m.ID,
		MatchID:       m.MatchID,
		Side:          match.Side(m.Side),
		Type:          gameevent.Type(m.EventType),
		PlayerID:      m.PlayerID,
		Period:        m.Period,
		TimeRemaining: time.Duration(m.RemainingSeconds) * time.Second,
		Details:       m.Details,
		CreatedAt:     m.CreatedAt,
	}
}
