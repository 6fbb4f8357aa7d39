package postgres

import (
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/shot"
)

type shotTableModel struct {
	ID               string    `db:"id"`
	MatchID          string    `db:"match_id"`
	Side             string    `db:"side"`
	PlayerID         string    `db:"player_id"`
	X                float64   `db:"x"`
	Y                float64   `db:"y"`
	Result           string    `db:"result"`
	Period           int       `db:"period"`
	RemainingSeconds int64     `db:"remaining_seconds"`
	Distance         float64   `db:"distance"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (m shotTableModel) toDomain() shot.Event {
	return shot.Event{
		ID:            m.ID,
		MatchID:       m.MatchID,
		Side:          match.Side(m.Side),
		PlayerID:      m.PlayerID,
		X:             m.X,
		Y:             m.Y,
		Result:        shot.Result(m.Result),
		Period:        m.Period,
		TimeRemaining: time.Duration(m.RemainingSeconds) * time.Second,
		Distance:      m.Distance,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
