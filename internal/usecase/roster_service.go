package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/roster"
	"github.com/riskibarqy/match-tracker/internal/domain/substitution"
	idgen "github.com/riskibarqy/match-tracker/internal/platform/id"
	"github.com/riskibarqy/match-tracker/internal/platform/matchlock"
)

// ReplaceRosterEntryInput is one entry of a full roster replacement.
type ReplaceRosterEntryInput struct {
	Side             string
	PlayerID         string
	IsStarting       bool
	IsCaptain        bool
	StartingPosition string
}

// ReplaceRosterInput replaces the whole roster of a match, all-or-nothing.
type ReplaceRosterInput struct {
	ActorID string
	MatchID string
	Entries []ReplaceRosterEntryInput
}

// UpdateRosterEntryInput toggles flags on one roster entry. At least one
// field must be present.
type UpdateRosterEntryInput struct {
	ActorID    string
	EntryID    string
	IsStarting *bool
	IsCaptain  *bool
}

// RosterService owns per-match roster entries and the captaincy invariant.
type RosterService struct {
	matchRepo  match.Repository
	rosterRepo roster.Repository
	subRepo    substitution.Repository
	tx         TxRunner
	locks      *matchlock.Keyed
	authorizer Authorizer
	notifier   Notifier
	idGen      idgen.Generator
	logger     *slog.Logger
	now        func() time.Time
}

func NewRosterService(
	matchRepo match.Repository,
	rosterRepo roster.Repository,
	subRepo substitution.Repository,
	tx TxRunner,
	locks *matchlock.Keyed,
	authorizer Authorizer,
	notifier Notifier,
	idGen idgen.Generator,
	logger *slog.Logger,
) *RosterService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NewNopNotifier()
	}

	return &RosterService{
		matchRepo:  matchRepo,
		rosterRepo: rosterRepo,
		subRepo:    subRepo,
		tx:         tx,
		locks:      locks,
		authorizer: authorizer,
		notifier:   notifier,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *RosterService) ListByMatch(ctx context.Context, matchID string) ([]roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ListByMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	if _, exists, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		return nil, fmt.Errorf("get match by id: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	entries, err := s.rosterRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list roster entries: %w", err)
	}

	return entries, nil
}

// Replace validates the whole batch before any write, then atomically clears
// and reinserts the match roster. Once substitutions exist the roster is
// frozen, otherwise every later derived lineup would detach from the log.
func (s *RosterService) Replace(ctx context.Context, input ReplaceRosterInput) ([]roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Replace")
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	if input.MatchID == "" {
		return nil, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	if len(input.Entries) == 0 {
		return nil, fmt.Errorf("%w: roster entries are required", ErrInvalidInput)
	}

	release := s.locks.Lock(input.MatchID)
	defer release()

	var out []roster.Entry
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		m, exists, err := s.matchRepo.GetByIDForUpdate(ctx, input.MatchID)
		if err != nil {
			return fmt.Errorf("get match for update: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
		}

		// The batch spans both sides, so either club's staff may submit it.
		if err := authorizeAnyClub(ctx, s.authorizer, s.logger, input.ActorID, m.HomeClubID, m.AwayClubID); err != nil {
			return err
		}

		if m.IsTerminal() {
			return fmt.Errorf("%w: roster cannot change once the match is %s (status=%s)", ErrStateConflict, m.Status, m.Status)
		}

		if _, hasSubs, err := s.subRepo.Latest(ctx, input.MatchID); err != nil {
			return fmt.Errorf("check substitution log: %w", err)
		} else if hasSubs {
			return fmt.Errorf("%w: roster is frozen once substitutions are recorded (status=%s)", ErrStateConflict, m.Status)
		}

		now := s.now().UTC()
		entries := make([]roster.Entry, 0, len(input.Entries))
		for i, in := range input.Entries {
			side, ok := match.ParseSide(in.Side)
			if !ok {
				return fmt.Errorf("%w: entry %d has unknown side %q", ErrInvalidInput, i, in.Side)
			}
			playerID := strings.TrimSpace(in.PlayerID)
			if playerID == "" {
				return fmt.Errorf("%w: entry %d is missing a player id", ErrInvalidInput, i)
			}

			id, err := s.idGen.NewID()
			if err != nil {
				return fmt.Errorf("generate roster entry id: %w", err)
			}
			entries = append(entries, roster.Entry{
				ID:               id,
				MatchID:          input.MatchID,
				Side:             side,
				PlayerID:         playerID,
				IsStarting:       in.IsStarting,
				IsCaptain:        in.IsCaptain,
				StartingPosition: strings.TrimSpace(in.StartingPosition),
				CreatedAt:        now,
				UpdatedAt:        now,
			})
		}

		if err := roster.ValidateBatch(entries); err != nil {
			return fmt.Errorf("%w: %v", ErrStateConflict, err)
		}

		if err := s.rosterRepo.Replace(ctx, input.MatchID, entries); err != nil {
			return fmt.Errorf("replace roster: %w", err)
		}

		out = entries
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, Notification{MatchID: input.MatchID, Kind: NotifyRosterReplaced, Payload: out})

	return out, nil
}

// UpdateEntry toggles the starting/captain flags of one entry. Promoting a
// captain first demotes any sitting captain on the same side.
func (s *RosterService) UpdateEntry(ctx context.Context, input UpdateRosterEntryInput) (roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.UpdateEntry")
	defer span.End()

	input.EntryID = strings.TrimSpace(input.EntryID)
	if input.EntryID == "" {
		return roster.Entry{}, fmt.Errorf("%w: entry_id is required", ErrInvalidInput)
	}
	if input.IsStarting == nil && input.IsCaptain == nil {
		return roster.Entry{}, fmt.Errorf("%w: update requires at least one flag", ErrInvalidInput)
	}

	entry, exists, err := s.rosterRepo.GetByID(ctx, input.EntryID)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("get roster entry: %w", err)
	}
	if !exists {
		return roster.Entry{}, fmt.Errorf("%w: roster entry=%s", ErrNotFound, input.EntryID)
	}

	release := s.locks.Lock(entry.MatchID)
	defer release()

	var out roster.Entry
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		m, exists, err := s.matchRepo.GetByIDForUpdate(ctx, entry.MatchID)
		if err != nil {
			return fmt.Errorf("get match for update: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: match=%s", ErrNotFound, entry.MatchID)
		}

		// Entry sides never change, so the pre-lock read is safe to
		// authorize against.
		if err := authorizeClub(ctx, s.authorizer, s.logger, input.ActorID, m.ClubFor(entry.Side)); err != nil {
			return err
		}

		// Reload under the lock; the pre-lock read may be stale.
		entry, exists, err = s.rosterRepo.GetByID(ctx, input.EntryID)
		if err != nil {
			return fmt.Errorf("get roster entry: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: roster entry=%s", ErrNotFound, input.EntryID)
		}

		if input.IsCaptain != nil && *input.IsCaptain {
			if err := s.rosterRepo.DemoteCaptains(ctx, entry.MatchID, entry.Side, entry.ID); err != nil {
				return fmt.Errorf("demote captains: %w", err)
			}
		}

		if err := s.rosterRepo.UpdateFlags(ctx, entry.ID, input.IsStarting, input.IsCaptain); err != nil {
			return fmt.Errorf("update roster entry flags: %w", err)
		}

		if input.IsStarting != nil {
			entry.IsStarting = *input.IsStarting
		}
		if input.IsCaptain != nil {
			entry.IsCaptain = *input.IsCaptain
		}
		entry.UpdatedAt = s.now().UTC()
		out = entry
		return nil
	})
	if err != nil {
		return roster.Entry{}, err
	}

	s.notifier.Notify(ctx, Notification{MatchID: out.MatchID, Kind: NotifyRosterEntryUpdated, Payload: out})

	return out, nil
}
