package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/roster"
	qb "github.com/riskibarqy/match-tracker/internal/platform/querybuilder"
)

const rosterColumns = "id, match_id, side, player_id, is_starting, is_captain, starting_position, created_at, updated_at"

type RosterRepository struct {
	store *Store
}

func NewRosterRepository(store *Store) *RosterRepository {
	return &RosterRepository{store: store}
}

func (r *RosterRepository) GetByID(ctx context.Context, id string) (roster.Entry, bool, error) {
	query, args, err := qb.Select(rosterColumns).From("roster_entries").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return roster.Entry{}, false, fmt.Errorf("build get roster entry query: %w", err)
	}

	var row rosterTableModel
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Entry{}, false, nil
		}
		return roster.Entry{}, false, fmt.Errorf("get roster entry by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *RosterRepository) ListByMatch(ctx context.Context, matchID string) ([]roster.Entry, error) {
	return r.list(ctx, qb.Eq("match_id", matchID))
}

func (r *RosterRepository) ListByMatchAndSide(ctx context.Context, matchID string, side match.Side) ([]roster.Entry, error) {
	return r.list(ctx, qb.Eq("match_id", matchID), qb.Eq("side", string(side)))
}

func (r *RosterRepository) list(ctx context.Context, conditions ...qb.Condition) ([]roster.Entry, error) {
	query, args, err := qb.Select(rosterColumns).From("roster_entries").
		Where(conditions...).
		OrderBy("side", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list roster entries query: %w", err)
	}

	var rows []rosterTableModel
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list roster entries: %w", err)
	}

	out := make([]roster.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

// Replace clears the match roster and inserts the given set. Callers run it
// inside a transaction so a failed insert rolls the delete back.
func (r *RosterRepository) Replace(ctx context.Context, matchID string, entries []roster.Entry) error {
	query, args, err := qb.DeleteFrom("roster_entries").Where(qb.Eq("match_id", matchID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build clear roster query: %w", err)
	}
	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear roster: %w", err)
	}

	if len(entries) == 0 {
		return nil
	}

	builder := qb.InsertInto("roster_entries").
		Columns("id", "match_id", "side", "player_id", "is_starting", "is_captain", "starting_position", "created_at", "updated_at")
	for _, e := range entries {
		builder = builder.Values(
			e.ID,
			e.MatchID,
			string(e.Side),
			e.PlayerID,
			e.IsStarting,
			e.IsCaptain,
			e.StartingPosition,
			e.CreatedAt,
			e.UpdatedAt,
		)
	}
	query, args, err = builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert roster query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert roster: match %s does not exist: %w", matchID, err)
		}
		return fmt.Errorf("insert roster: %w", err)
	}

	return nil
}

func (r *RosterRepository) UpdateFlags(ctx context.Context, id string, isStarting, isCaptain *bool) error {
	builder := qb.Update("roster_entries").Set("updated_at", time.Now().UTC())
	if isStarting != nil {
		builder = builder.Set("is_starting", *isStarting)
	}
	if isCaptain != nil {
		builder = builder.Set("is_captain", *isCaptain)
	}
	query, args, err := builder.Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build update roster flags query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update roster flags: %w", err)
	}

	return nil
}

func (r *RosterRepository) DemoteCaptains(ctx context.Context, matchID string, side match.Side, keepEntryID string) error {
	query, args, err := qb.Update("roster_entries").
		Set("is_captain", false).
		Set("updated_at", time.Now().UTC()).
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("side", string(side)),
			qb.Eq("is_captain", true),
			qb.Neq("id", keepEntryID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build demote captains query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("demote captains: %w", err)
	}

	return nil
}
