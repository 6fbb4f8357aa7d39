package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/shot"
	qb "github.com/riskibarqy/match-tracker/internal/platform/querybuilder"
)

const shotColumns = "id, match_id, side, player_id, x, y, result, period, remaining_seconds, distance, created_at, updated_at"

type ShotRepository struct {
	store *Store
}

func NewShotRepository(store *Store) *ShotRepository {
	return &ShotRepository{store: store}
}

func (r *ShotRepository) GetByID(ctx context.Context, id string) (shot.Event, bool, error) {
	query, args, err := qb.Select(shotColumns).From("shot_events").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return shot.Event{}, false, fmt.Errorf("build get shot query: %w", err)
	}

	var row shotTableModel
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &row, query, args...); err != nil {
		if isNotFound(err) {
			return shot.Event{}, false, nil
		}
		return shot.Event{}, false, fmt.Errorf("get shot by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *ShotRepository) ListByMatch(ctx context.Context, matchID string) ([]shot.Event, error) {
	query, args, err := qb.Select(shotColumns).From("shot_events").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list shots query: %w", err)
	}

	var rows []shotTableModel
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list shots: %w", err)
	}

	out := make([]shot.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *ShotRepository) CountGoals(ctx context.Context, matchID string, side match.Side) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("shot_events").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("side", string(side)),
			qb.Eq("result", string(shot.ResultGoal)),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count goals query: %w", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &count, query, args...); err != nil {
		return 0, fmt.Errorf("count goals: %w", err)
	}

	return count, nil
}

func (r *ShotRepository) Create(ctx context.Context, item shot.Event) error {
	query, args, err := qb.InsertInto("shot_events").
		Columns("id", "match_id", "side", "player_id", "x", "y", "result", "period", "remaining_seconds", "distance", "created_at", "updated_at").
		Values(
			item.ID,
			item.MatchID,
			string(item.Side),
			item.PlayerID,
			item.X,
			item.Y,
			string(item.Result),
			item.Period,
			int64(item.TimeRemaining/time.Second),
			item.Distance,
			item.CreatedAt,
			item.UpdatedAt,
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert shot query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert shot: match %s does not exist: %w", item.MatchID, err)
		}
		return fmt.Errorf("insert shot: %w", err)
	}

	return nil
}

func (r *ShotRepository) UpdateResult(ctx context.Context, id string, result shot.Result, updatedAt time.Time) error {
	query, args, err := qb.Update("shot_events").
		Set("result", string(result)).
		Set("updated_at", updatedAt).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update shot result query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update shot result: %w", err)
	}

	return nil
}

func (r *ShotRepository) Delete(ctx context.Context, id string) error {
	query, args, err := qb.DeleteFrom("shot_events").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete shot query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete shot: %w", err)
	}

	return nil
}
