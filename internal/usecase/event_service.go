package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/gameevent"
	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/roster"
	"github.com/riskibarqy/match-tracker/internal/domain/shot"
	idgen "github.com/riskibarqy/match-tracker/internal/platform/id"
	"github.com/riskibarqy/match-tracker/internal/platform/matchlock"
)

// RecordShotInput records one shot attempt against the ledger.
type RecordShotInput struct {
	ActorID       string
	MatchID       string
	Side          string
	PlayerID      string
	X             float64
	Y             float64
	Result        string
	Period        int
	TimeRemaining time.Duration
	Distance      float64
}

// UpdateShotInput corrects the result of an existing shot. Identity fields
// are immutable, only the result can change.
type UpdateShotInput struct {
	ActorID string
	ShotID  string
	Result  string
}

// DeleteShotInput removes a shot from the ledger.
type DeleteShotInput struct {
	ActorID string
	ShotID  string
}

// RecordGameEventInput appends one audit-trail event to the match timeline.
type RecordGameEventInput struct {
	ActorID       string
	MatchID       string
	Side          string
	Type          string
	PlayerID      string
	Period        int
	TimeRemaining time.Duration
	Details       string
}

// TimelineEntry is one item of the merged match timeline.
type TimelineEntry struct {
	Kind      string
	CreatedAt time.Time
	Shot      *shot.Event
	GameEvent *gameevent.Event
}

const (
	TimelineKindShot      = "SHOT"
	TimelineKindGameEvent = "GAME_EVENT"
)

// EventService owns the shot ledger, the denormalized score it reconciles,
// and the audit-trail game events.
type EventService struct {
	matchRepo  match.Repository
	rosterRepo roster.Repository
	shotRepo   shot.Repository
	eventRepo  gameevent.Repository
	tx         TxRunner
	locks      *matchlock.Keyed
	authorizer Authorizer
	notifier   Notifier
	idGen      idgen.Generator
	logger     *slog.Logger
	now        func() time.Time
}

func NewEventService(
	matchRepo match.Repository,
	rosterRepo roster.Repository,
	shotRepo shot.Repository,
	eventRepo gameevent.Repository,
	tx TxRunner,
	locks *matchlock.Keyed,
	authorizer Authorizer,
	notifier Notifier,
	idGen idgen.Generator,
	logger *slog.Logger,
) *EventService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NewNopNotifier()
	}

	return &EventService{
		matchRepo:  matchRepo,
		rosterRepo: rosterRepo,
		shotRepo:   shotRepo,
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

// RecordShot stores a shot and, when it is a goal, credits the shooting side
// in the same transaction so the score never drifts from the ledger.
func (s *EventService) RecordShot(ctx context.Context, input RecordShotInput) (shot.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.RecordShot")
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.MatchID == "" {
		return shot.Event{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	if input.PlayerID == "" {
		return shot.Event{}, fmt.Errorf("%w: player_id is required", ErrInvalidInput)
	}
	side, ok := match.ParseSide(input.Side)
	if !ok {
		return shot.Event{}, fmt.Errorf("%w: unknown side %q", ErrInvalidInput, input.Side)
	}
	result, ok := shot.ParseResult(input.Result)
	if !ok {
		return shot.Event{}, fmt.Errorf("%w: unknown shot result %q", ErrInvalidInput, input.Result)
	}
	if err := validateCoordinates(input.X, input.Y, input.Distance); err != nil {
		return shot.Event{}, err
	}
	if input.Period < 1 {
		return shot.Event{}, fmt.Errorf("%w: period must be at least 1", ErrInvalidInput)
	}
	if input.TimeRemaining < 0 {
		return shot.Event{}, fmt.Errorf("%w: time_remaining cannot be negative", ErrInvalidInput)
	}

	release := s.locks.Lock(input.MatchID)
	defer release()

	var out shot.Event
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
			return fmt.Errorf("%w: shots require an in-progress match (status=%s)", ErrStateConflict, m.Status)
		}

		entries, err := s.rosterRepo.ListByMatchAndSide(ctx, input.MatchID, side)
		if err != nil {
			return fmt.Errorf("list roster entries: %w", err)
		}
		onSide := false
		for _, e := range entries {
			if e.PlayerID == input.PlayerID {
				onSide = true
				break
			}
		}
		if !onSide {
			return fmt.Errorf("%w: player=%s is not on the %s roster", ErrNotFound, input.PlayerID, side)
		}

		id, err := s.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate shot id: %w", err)
		}
		now := s.now().UTC()
		ev := shot.Event{
			ID:            id,
			MatchID:       input.MatchID,
			Side:          side,
			PlayerID:      input.PlayerID,
			X:             input.X,
			Y:             input.Y,
			Result:        result,
			Period:        input.Period,
			TimeRemaining: input.TimeRemaining,
			Distance:      input.Distance,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := ev.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := s.shotRepo.Create(ctx, ev); err != nil {
			return fmt.Errorf("create shot: %w", err)
		}

		if result == shot.ResultGoal {
			if err := s.matchRepo.ApplyScoreDelta(ctx, input.MatchID, match.ScoreDelta{Side: side, Delta: 1}); err != nil {
				return fmt.Errorf("apply score delta: %w", err)
			}
		}

		out = ev
		return nil
	})
	if err != nil {
		return shot.Event{}, err
	}

	s.notifier.Notify(ctx, Notification{MatchID: input.MatchID, Kind: NotifyShotCreated, Payload: out})

	return out, nil
}

// UpdateShot corrects a shot result. Crossing the goal boundary in either
// direction applies a compensating score delta in the same transaction.
func (s *EventService) UpdateShot(ctx context.Context, input UpdateShotInput) (shot.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.UpdateShot")
	defer span.End()

	input.ShotID = strings.TrimSpace(input.ShotID)
	if input.ShotID == "" {
		return shot.Event{}, fmt.Errorf("%w: shot_id is required", ErrInvalidInput)
	}
	result, ok := shot.ParseResult(input.Result)
	if !ok {
		return shot.Event{}, fmt.Errorf("%w: unknown shot result %q", ErrInvalidInput, input.Result)
	}

	existing, exists, err := s.shotRepo.GetByID(ctx, input.ShotID)
	if err != nil {
		return shot.Event{}, fmt.Errorf("get shot: %w", err)
	}
	if !exists {
		return shot.Event{}, fmt.Errorf("%w: shot=%s", ErrNotFound, input.ShotID)
	}

	release := s.locks.Lock(existing.MatchID)
	defer release()

	var out shot.Event
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		m, exists, err := s.matchRepo.GetByIDForUpdate(ctx, existing.MatchID)
		if err != nil {
			return fmt.Errorf("get match for update: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: match=%s", ErrNotFound, existing.MatchID)
		}

		// A shot's side never changes, so the pre-lock read is safe to
		// authorize against.
		if err := authorizeClub(ctx, s.authorizer, s.logger, input.ActorID, m.ClubFor(existing.Side)); err != nil {
			return err
		}

		// Reload under the lock; the pre-lock read may be stale.
		existing, exists, err = s.shotRepo.GetByID(ctx, input.ShotID)
		if err != nil {
			return fmt.Errorf("get shot: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: shot=%s", ErrNotFound, input.ShotID)
		}

		now := s.now().UTC()
		if err := s.shotRepo.UpdateResult(ctx, existing.ID, result, now); err != nil {
			return fmt.Errorf("update shot result: %w", err)
		}

		wasGoal := existing.Result == shot.ResultGoal
		isGoal := result == shot.ResultGoal
		switch {
		case !wasGoal && isGoal:
			if err := s.matchRepo.ApplyScoreDelta(ctx, existing.MatchID, match.ScoreDelta{Side: existing.Side, Delta: 1}); err != nil {
				return fmt.Errorf("apply score delta: %w", err)
			}
		case wasGoal && !isGoal:
			if err := s.matchRepo.ApplyScoreDelta(ctx, existing.MatchID, match.ScoreDelta{Side: existing.Side, Delta: -1}); err != nil {
				return fmt.Errorf("apply score delta: %w", err)
			}
		}

		existing.Result = result
		existing.UpdatedAt = now
		out = existing
		return nil
	})
	if err != nil {
		return shot.Event{}, err
	}

	s.notifier.Notify(ctx, Notification{MatchID: out.MatchID, Kind: NotifyShotUpdated, Payload: out})

	return out, nil
}

// DeleteShot removes a shot. Deleting a goal debits the side that was
// credited when it was recorded.
func (s *EventService) DeleteShot(ctx context.Context, input DeleteShotInput) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.DeleteShot")
	defer span.End()

	input.ShotID = strings.TrimSpace(input.ShotID)
	if input.ShotID == "" {
		return fmt.Errorf("%w: shot_id is required", ErrInvalidInput)
	}

	existing, exists, err := s.shotRepo.GetByID(ctx, input.ShotID)
	if err != nil {
		return fmt.Errorf("get shot: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: shot=%s", ErrNotFound, input.ShotID)
	}

	release := s.locks.Lock(existing.MatchID)
	defer release()

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		m, exists, err := s.matchRepo.GetByIDForUpdate(ctx, existing.MatchID)
		if err != nil {
			return fmt.Errorf("get match for update: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: match=%s", ErrNotFound, existing.MatchID)
		}

		if err := authorizeClub(ctx, s.authorizer, s.logger, input.ActorID, m.ClubFor(existing.Side)); err != nil {
			return err
		}

		existing, exists, err = s.shotRepo.GetByID(ctx, input.ShotID)
		if err != nil {
			return fmt.Errorf("get shot: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: shot=%s", ErrNotFound, input.ShotID)
		}

		if err := s.shotRepo.Delete(ctx, existing.ID); err != nil {
			return fmt.Errorf("delete shot: %w", err)
		}

		if existing.Result == shot.ResultGoal {
			if err := s.matchRepo.ApplyScoreDelta(ctx, existing.MatchID, match.ScoreDelta{Side: existing.Side, Delta: -1}); err != nil {
				return fmt.Errorf("apply score delta: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, Notification{MatchID: existing.MatchID, Kind: NotifyShotDeleted, Payload: input.ShotID})

	return nil
}

func (s *EventService) ListShots(ctx context.Context, matchID string) ([]shot.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.ListShots")
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

	shots, err := s.shotRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list shots: %w", err)
	}

	return shots, nil
}

// RecordGameEvent appends one audit-trail event. These never feed derived
// state, so the only gates are match existence and liveness.
func (s *EventService) RecordGameEvent(ctx context.Context, input RecordGameEventInput) (gameevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.RecordGameEvent")
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	if input.MatchID == "" {
		return gameevent.Event{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	side, ok := match.ParseSide(input.Side)
	if !ok {
		return gameevent.Event{}, fmt.Errorf("%w: unknown side %q", ErrInvalidInput, input.Side)
	}
	eventType, ok := gameevent.ParseType(input.Type)
	if !ok {
		return gameevent.Event{}, fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, input.Type)
	}
	if input.Period < 1 {
		return gameevent.Event{}, fmt.Errorf("%w: period must be at least 1", ErrInvalidInput)
	}
	if input.TimeRemaining < 0 {
		return gameevent.Event{}, fmt.Errorf("%w: time_remaining cannot be negative", ErrInvalidInput)
	}

	release := s.locks.Lock(input.MatchID)
	defer release()

	var out gameevent.Event
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
			return fmt.Errorf("%w: game events require an in-progress match (status=%s)", ErrStateConflict, m.Status)
		}

		id, err := s.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate game event id: %w", err)
		}
		ev := gameevent.Event{
			ID:            id,
			MatchID:       input.MatchID,
			Side:          side,
			Type:          eventType,
			PlayerID:      strings.TrimSpace(input.PlayerID),
			Period:        input.Period,
			TimeRemaining: input.TimeRemaining,
			Details:       strings.TrimSpace(input.Details),
			CreatedAt:     s.now().UTC(),
		}
		if err := ev.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := s.eventRepo.Create(ctx, ev); err != nil {
			return fmt.Errorf("create game event: %w", err)
		}

		out = ev
		return nil
	})
	if err != nil {
		return gameevent.Event{}, err
	}

	s.notifier.Notify(ctx, Notification{MatchID: input.MatchID, Kind: NotifyGameEventCreated, Payload: out})

	return out, nil
}

// ListMatchTimeline merges shots and game events into one chronological feed.
func (s *EventService) ListMatchTimeline(ctx context.Context, matchID string) ([]TimelineEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.ListMatchTimeline")
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

	shots, err := s.shotRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list shots: %w", err)
	}
	events, err := s.eventRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list game events: %w", err)
	}

	entries := make([]TimelineEntry, 0, len(shots)+len(events))
	for i := range shots {
		entries = append(entries, TimelineEntry{Kind: TimelineKindShot, CreatedAt: shots[i].CreatedAt, Shot: &shots[i]})
	}
	for i := range events {
		entries = append(entries, TimelineEntry{Kind: TimelineKindGameEvent, CreatedAt: events[i].CreatedAt, GameEvent: &events[i]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})

	return entries, nil
}

func validateCoordinates(x, y, distance float64) error {
	for _, v := range []float64{x, y, distance} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: shot coordinates must be finite numbers", ErrInvalidInput)
		}
	}
	if distance < 0 {
		return fmt.Errorf("%w: shot distance cannot be negative", ErrInvalidInput)
	}

	return nil
}
