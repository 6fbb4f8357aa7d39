package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/gameevent"
	"github.com/riskibarqy/match-tracker/internal/domain/lineup"
	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/roster"
	"github.com/riskibarqy/match-tracker/internal/domain/substitution"
	idgen "github.com/riskibarqy/match-tracker/internal/platform/id"
	"github.com/riskibarqy/match-tracker/internal/platform/matchlock"
)

// ProposeSubstitutionInput swaps one on-court player for a benched teammate.
type ProposeSubstitutionInput struct {
	ActorID       string
	MatchID       string
	Side          string
	PlayerInID    string
	PlayerOutID   string
	Period        int
	TimeRemaining time.Duration
	Reason        string
}

// RetractSubstitutionInput undoes one substitution. Only the most recent
// event of the match may be retracted.
type RetractSubstitutionInput struct {
	ActorID        string
	MatchID        string
	SubstitutionID string
}

// SubstitutionService appends to and retracts from the per-match
// substitution log.
type SubstitutionService struct {
	matchRepo  match.Repository
	rosterRepo roster.Repository
	subRepo    substitution.Repository
	eventRepo  gameevent.Repository
	tx         TxRunner
	locks      *matchlock.Keyed
	authorizer Authorizer
	notifier   Notifier
	idGen      idgen.Generator
	logger     *slog.Logger
	now        func() time.Time
}

func NewSubstitutionService(
	matchRepo match.Repository,
	rosterRepo roster.Repository,
	subRepo substitution.Repository,
	eventRepo gameevent.Repository,
	tx TxRunner,
	locks *matchlock.Keyed,
	authorizer Authorizer,
	notifier Notifier,
	idGen idgen.Generator,
	logger *slog.Logger,
) *SubstitutionService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NewNopNotifier()
	}

	return &SubstitutionService{
		matchRepo:  matchRepo,
		rosterRepo: rosterRepo,
		subRepo:    subRepo,
		eventRepo:  eventRepo,
		tx:         tx,
		locks:      locks,
		authorizer: authorizer,
		notifier:   notifier,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *SubstitutionService) ListByMatch(ctx context.Context, matchID string) ([]substitution.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubstitutionService.ListByMatch")
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

	events, err := s.subRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list substitutions: %w", err)
	}

	return events, nil
}

// Propose validates a swap against the current derived lineup and appends it
// to the log together with a SUBSTITUTION timeline event, in one transaction.
func (s *SubstitutionService) Propose(ctx context.Context, input ProposeSubstitutionInput) (substitution.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubstitutionService.Propose")
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	input.PlayerInID = strings.TrimSpace(input.PlayerInID)
	input.PlayerOutID = strings.TrimSpace(input.PlayerOutID)
	if input.MatchID == "" {
		return substitution.Event{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	side, ok := match.ParseSide(input.Side)
	if !ok {
		return substitution.Event{}, fmt.Errorf("%w: unknown side %q", ErrInvalidInput, input.Side)
	}
	if input.PlayerInID == "" || input.PlayerOutID == "" {
		return substitution.Event{}, fmt.Errorf("%w: both player_in_id and player_out_id are required", ErrInvalidInput)
	}
	if input.PlayerInID == input.PlayerOutID {
		return substitution.Event{}, fmt.Errorf("%w: a player cannot replace themselves", ErrInvalidInput)
	}
	if input.Period < 1 {
		return substitution.Event{}, fmt.Errorf("%w: period must be at least 1", ErrInvalidInput)
	}
	if input.TimeRemaining < 0 {
		return substitution.Event{}, fmt.Errorf("%w: time_remaining cannot be negative", ErrInvalidInput)
	}

	release := s.locks.Lock(input.MatchID)
	defer release()

	var out substitution.Event
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		m, exists, err := s.matchRepo.GetByIDForUpdate(ctx, input.MatchID)
		if err != nil {
			return fmt.Errorf("get match for update: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
		}

		if err := authorizeClub(ctx, s.authorizer, s.logger, input.ActorID, m.ClubFor(side)); err != nil {
			return err
		}

		if m.Status != match.StatusInProgress {
			return fmt.Errorf("%w: substitutions require an in-progress match (status=%s)", ErrStateConflict, m.Status)
		}

		entries, err := s.rosterRepo.ListByMatchAndSide(ctx, input.MatchID, side)
		if err != nil {
			return fmt.Errorf("list roster entries: %w", err)
		}
		rostered := make(map[string]bool, len(entries))
		for _, e := range entries {
			rostered[e.PlayerID] = true
		}
		if !rostered[input.PlayerInID] {
			return fmt.Errorf("%w: player=%s is not on the %s roster", ErrNotFound, input.PlayerInID, side)
		}
		if !rostered[input.PlayerOutID] {
			return fmt.Errorf("%w: player=%s is not on the %s roster", ErrNotFound, input.PlayerOutID, side)
		}

		log, err := s.subRepo.ListByMatch(ctx, input.MatchID)
		if err != nil {
			return fmt.Errorf("list substitutions: %w", err)
		}
		if !lineup.PlayerActive(input.PlayerOutID, entries, log) {
			return fmt.Errorf("%w: player=%s is not currently on the court", ErrStateConflict, input.PlayerOutID)
		}
		if lineup.PlayerActive(input.PlayerInID, entries, log) {
			return fmt.Errorf("%w: player=%s is already on the court", ErrStateConflict, input.PlayerInID)
		}

		id, err := s.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate substitution id: %w", err)
		}
		now := s.now().UTC()
		ev := substitution.Event{
			ID:            id,
			MatchID:       input.MatchID,
			Side:          side,
			PlayerInID:    input.PlayerInID,
			PlayerOutID:   input.PlayerOutID,
			Period:        input.Period,
			TimeRemaining: input.TimeRemaining,
			Reason:        strings.TrimSpace(input.Reason),
			CreatedAt:     now,
		}
		if err := ev.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := s.subRepo.Append(ctx, &ev); err != nil {
			return fmt.Errorf("append substitution: %w", err)
		}

		timelineID, err := s.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate game event id: %w", err)
		}
		timeline := gameevent.Event{
			ID:            timelineID,
			MatchID:       input.MatchID,
			Side:          side,
			Type:          gameevent.TypeSubstitution,
			PlayerID:      input.PlayerInID,
			Period:        input.Period,
			TimeRemaining: input.TimeRemaining,
			Details:       fmt.Sprintf("%s in for %s", input.PlayerInID, input.PlayerOutID),
			CreatedAt:     now,
		}
		if err := s.eventRepo.Create(ctx, timeline); err != nil {
			return fmt.Errorf("record substitution timeline event: %w", err)
		}

		out = ev
		return nil
	})
	if err != nil {
		return substitution.Event{}, err
	}

	s.notifier.Notify(ctx, Notification{MatchID: input.MatchID, Kind: NotifySubstitutionCreated, Payload: out})

	return out, nil
}

// Retract removes a substitution from the log. The log is append-only except
// at its tip, so anything other than the most recent event is refused.
func (s *SubstitutionService) Retract(ctx context.Context, input RetractSubstitutionInput) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubstitutionService.Retract")
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	input.SubstitutionID = strings.TrimSpace(input.SubstitutionID)
	if input.MatchID == "" {
		return fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	if input.SubstitutionID == "" {
		return fmt.Errorf("%w: substitution_id is required", ErrInvalidInput)
	}

	release := s.locks.Lock(input.MatchID)
	defer release()

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		m, exists, err := s.matchRepo.GetByIDForUpdate(ctx, input.MatchID)
		if err != nil {
			return fmt.Errorf("get match for update: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
		}

		target, exists, err := s.subRepo.GetByID(ctx, input.SubstitutionID)
		if err != nil {
			return fmt.Errorf("get substitution: %w", err)
		}
		if !exists || target.MatchID != input.MatchID {
			return fmt.Errorf("%w: substitution=%s", ErrNotFound, input.SubstitutionID)
		}

		if err := authorizeClub(ctx, s.authorizer, s.logger, input.ActorID, m.ClubFor(target.Side)); err != nil {
			return err
		}

		latest, exists, err := s.subRepo.Latest(ctx, input.MatchID)
		if err != nil {
			return fmt.Errorf("get latest substitution: %w", err)
		}
		if !exists || latest.ID != target.ID {
			return fmt.Errorf("%w: only the most recent substitution can be retracted", ErrStateConflict)
		}

		if err := s.subRepo.DeleteLatest(ctx, input.MatchID, target.ID); err != nil {
			return fmt.Errorf("delete substitution: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, Notification{MatchID: input.MatchID, Kind: NotifySubstitutionRetracted, Payload: input.SubstitutionID})

	return nil
}
