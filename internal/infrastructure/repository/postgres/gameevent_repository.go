package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/match-tracker/internal/domain/gameevent"
	qb "github.com/riskibarqy/match-tracker/internal/platform/querybuilder"
)

const gameEventColumns = "id, match_id, side, event_type, player_id, period, remaining_seconds, details, created_at"

type GameEventRepository struct {
	store *Store
}

func NewGameEventRepository(store *Store) *GameEventRepository {
	return &GameEventRepository{store: store}
}

func (r *GameEventRepository) ListByMatch(ctx context.Context, matchID string) ([]gameevent.Event, error) {
	query, args, err := qb.Select(gameEventColumns).From("game_events").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list game events query: %w", err)
	}

	var rows []gameEventTableModel
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list game events: %w", err)
	}

	out := make([]gameevent.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *GameEventRepository) Create(ctx context.Context, item gameevent.Event) error {
	query, args, err := qb.InsertInto("game_events").
		Columns("id", "match_id", "side", "event_type", "player_id", "period", "remaining_seconds", "details", "created_at").
		Values(
			item.ID,
			item.MatchID,
			string(item.Side),
			string(item.Type),
			item.PlayerID,
			item.Period,
			int64(item.TimeRemaining/time.Second),
			item.Details,
			item.CreatedAt,
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert game event query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert game event: match %s does not exist: %w", item.MatchID, err)
		}
		return fmt.Errorf("insert game event: %w", err)
	}

	return nil
}
