package postgres

import (
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
)

type matchTableModel struct {
	ID             string    `db:"id"`
	HomeClubID     string    `db:"home_club_id"`
	AwayClubID     string    `db:"away_club_id"`
	HomeTeamID     string    `db:"home_team_id"`
	AwayTeamID     string    `db:"away_team_id"`
	Status         string    `db:"status"`
	ScheduledAt    time.Time `db:"scheduled_at"`
	HomeScore      int       `db:"home_score"`
	AwayScore      int       `db:"away_score"`
	PeriodCount    int       `db:"period_count"`
	PeriodSeconds  int64     `db:"period_seconds"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:             m.ID,
		HomeClubID:     m.HomeClubID,
		AwayClubID:     m.AwayClubID,
		HomeTeamID:     m.HomeTeamID,
		AwayTeamID:     m.AwayTeamID,
		Status:         match.Status(m.Status),
		ScheduledAt:    m.ScheduledAt,
		HomeScore:      m.HomeScore,
		AwayScore:      m.AwayScore,
		PeriodCount:    m.PeriodCount,
		PeriodDuration: time.Duration(m.PeriodSeconds) * time.Second,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
