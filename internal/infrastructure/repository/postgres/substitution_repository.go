package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/match-tracker/internal/domain/substitution"
	qb "github.com/riskibarqy/match-tracker/internal/platform/querybuilder"
)

const substitutionColumns = "id, match_id, side, player_in_id, player_out_id, period, remaining_seconds, reason, seq, created_at"

type SubstitutionRepository struct {
	store *Store
}

func NewSubstitutionRepository(store *Store) *SubstitutionRepository {
	return &SubstitutionRepository{store: store}
}

func (r *SubstitutionRepository) GetByID(ctx context.Context, id string) (substitution.Event, bool, error) {
	query, args, err := qb.Select(substitutionColumns).From("substitution_events").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return substitution.Event{}, false, fmt.Errorf("build get substitution query: %w", err)
	}

	var row substitutionTableModel
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &row, query, args...); err != nil {
		if isNotFound(err) {
			return substitution.Event{}, false, nil
		}
		return substitution.Event{}, false, fmt.Errorf("get substitution by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *SubstitutionRepository) ListByMatch(ctx context.Context, matchID string) ([]substitution.Event, error) {
	query, args, err := qb.Select(substitutionColumns).From("substitution_events").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("created_at", "seq").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list substitutions query: %w", err)
	}

	var rows []substitutionTableModel
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list substitutions: %w", err)
	}

	out := make([]substitution.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *SubstitutionRepository) Latest(ctx context.Context, matchID string) (substitution.Event, bool, error) {
	query, args, err := qb.Select(substitutionColumns).From("substitution_events").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("created_at DESC", "seq DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return substitution.Event{}, false, fmt.Errorf("build latest substitution query: %w", err)
	}

	var row substitutionTableModel
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &row, query, args...); err != nil {
		if isNotFound(err) {
			return substitution.Event{}, false, nil
		}
		return substitution.Event{}, false, fmt.Errorf("get latest substitution: %w", err)
	}

	return row.toDomain(), true, nil
}

// Append inserts the event and reads back its store-assigned seq, which
// breaks ordering ties between events created in the same instant.
func (r *SubstitutionRepository) Append(ctx context.Context, item *substitution.Event) error {
	query, args, err := qb.InsertInto("substitution_events").
		Columns("id", "match_id", "side", "player_in_id", "player_out_id", "period", "remaining_seconds", "reason", "created_at").
		Values(
			item.ID,
			item.MatchID,
			string(item.Side),
			item.PlayerInID,
			item.PlayerOutID,
			item.Period,
			int64(item.TimeRemaining/time.Second),
			item.Reason,
			item.CreatedAt,
		).
		Suffix("RETURNING seq").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert substitution query: %w", err)
	}

	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &item.Seq, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert substitution: match %s does not exist: %w", item.MatchID, err)
		}
		return fmt.Errorf("insert substitution: %w", err)
	}

	return nil
}

func (r *SubstitutionRepository) DeleteLatest(ctx context.Context, matchID, id string) error {
	query, args, err := qb.DeleteFrom("substitution_events").
		Where(
			qb.Eq("id", id),
			qb.Eq("match_id", matchID),
			qb.Expr("seq = (SELECT MAX(seq) FROM substitution_events WHERE match_id = ?)", matchID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete substitution query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete substitution: %w", err)
	}

	return nil
}
