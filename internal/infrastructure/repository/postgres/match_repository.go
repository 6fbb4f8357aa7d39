package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	qb "github.com/riskibarqy/match-tracker/internal/platform/querybuilder"
)

const matchColumns = "id, home_club_id, away_club_id, home_team_id, away_team_id, status, scheduled_at, home_score, away_score, period_count, period_seconds, created_at, updated_at"

type MatchRepository struct {
	store *Store
}

func NewMatchRepository(store *Store) *MatchRepository {
	return &MatchRepository{store: store}
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	return r.getByID(ctx, id, false)
}

func (r *MatchRepository) GetByIDForUpdate(ctx context.Context, id string) (match.Match, bool, error) {
	return r.getByID(ctx, id, true)
}

func (r *MatchRepository) getByID(ctx context.Context, id string, forUpdate bool) (match.Match, bool, error) {
	builder := qb.Select(matchColumns).From("matches").Where(qb.Eq("id", id))
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *MatchRepository) ListByStatus(ctx context.Context, status match.Status) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns).From("matches").
		Where(qb.Eq("status", string(status))).
		OrderBy("scheduled_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches by status: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) error {
	query, args, err := qb.InsertInto("matches").
		Columns("id", "home_club_id", "away_club_id", "home_team_id", "away_team_id", "status", "scheduled_at", "home_score", "away_score", "period_count", "period_seconds", "created_at", "updated_at").
		Values(
			item.ID,
			item.HomeClubID,
			item.AwayClubID,
			item.HomeTeamID,
			item.AwayTeamID,
			string(item.Status),
			item.ScheduledAt,
			item.HomeScore,
			item.AwayScore,
			item.PeriodCount,
			int64(item.PeriodDuration/time.Second),
			item.CreatedAt,
			item.UpdatedAt,
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	return nil
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, id string, status match.Status, updatedAt time.Time) error {
	query, args, err := qb.Update("matches").
		Set("status", string(status)).
		Set("updated_at", updatedAt).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match status query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update match status: %w", err)
	}

	return nil
}

func (r *MatchRepository) UpdateSchedule(ctx context.Context, id string, status match.Status, scheduledAt, updatedAt time.Time) error {
	query, args, err := qb.Update("matches").
		Set("status", string(status)).
		Set("scheduled_at", scheduledAt).
		Set("updated_at", updatedAt).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match schedule query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update match schedule: %w", err)
	}

	return nil
}

func (r *MatchRepository) UpdateConfig(ctx context.Context, id string, scheduledAt *time.Time, periodCount *int, periodDuration *time.Duration, updatedAt time.Time) error {
	builder := qb.Update("matches").Set("updated_at", updatedAt)
	if scheduledAt != nil {
		builder = builder.Set("scheduled_at", *scheduledAt)
	}
	if periodCount != nil {
		builder = builder.Set("period_count", *periodCount)
	}
	if periodDuration != nil {
		builder = builder.Set("period_seconds", int64(*periodDuration/time.Second))
	}
	query, args, err := builder.Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build update match config query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update match config: %w", err)
	}

	return nil
}

// ApplyScoreDelta adjusts one side's counter as a single atomic increment
// floored at zero, never as read-then-write.
func (r *MatchRepository) ApplyScoreDelta(ctx context.Context, id string, delta match.ScoreDelta) error {
	column := "home_score"
	if delta.Side == match.SideAway {
		column = "away_score"
	}

	query, args, err := qb.Update("matches").
		SetExpr(column, fmt.Sprintf("GREATEST(%s + ?, 0)", column), delta.Delta).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build apply score delta query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("apply score delta: %w", err)
	}

	return nil
}

// Delete removes the match row; dependent tables cascade via their foreign
// keys.
func (r *MatchRepository) Delete(ctx context.Context, id string) error {
	query, args, err := qb.DeleteFrom("matches").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}

	return nil
}
