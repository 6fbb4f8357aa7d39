package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	idgen "github.com/riskibarqy/match-tracker/internal/platform/id"
	"github.com/riskibarqy/match-tracker/internal/platform/matchlock"
)

const (
	defaultPeriodCount    = 2
	defaultPeriodDuration = 30 * time.Minute
)

// CreateMatchInput is the incoming payload for scheduling a match.
type CreateMatchInput struct {
	ActorID        string
	HomeClubID     string
	AwayClubID     string
	HomeTeamID     string
	AwayTeamID     string
	ScheduledAt    time.Time
	PeriodCount    int
	PeriodDuration time.Duration
}

// TransitionMatchInput requests one lifecycle operation on a match.
type TransitionMatchInput struct {
	ActorID     string
	MatchID     string
	Op          match.TransitionOp
	ScheduledAt *time.Time
}

// UpdateMatchInput is the whitelisted partial-update command for a match.
// Score fields are deliberately absent: the score counter is owned by the
// reconciler and manual edits go through the shot correction workflow.
type UpdateMatchInput struct {
	ActorID        string
	MatchID        string
	ScheduledAt    *time.Time
	PeriodCount    *int
	PeriodDuration *time.Duration
}

// MatchService owns the match lifecycle state machine.
type MatchService struct {
	matchRepo  match.Repository
	tx         TxRunner
	locks      *matchlock.Keyed
	authorizer Authorizer
	notifier   Notifier
	idGen      idgen.Generator
	logger     *slog.Logger
	now        func() time.Time
}

func NewMatchService(
	matchRepo match.Repository,
	tx TxRunner,
	locks *matchlock.Keyed,
	authorizer Authorizer,
	notifier Notifier,
	idGen idgen.Generator,
	logger *slog.Logger,
) *MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NewNopNotifier()
	}

	return &MatchService{
		matchRepo:  matchRepo,
		tx:         tx,
		locks:      locks,
		authorizer: authorizer,
		notifier:   notifier,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return m, nil
}

func (s *MatchService) ListByStatus(ctx context.Context, status match.Status) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByStatus")
	defer span.End()

	if _, ok := match.AllStatuses[status]; !ok {
		return nil, fmt.Errorf("%w: unknown match status %q", ErrInvalidInput, status)
	}

	items, err := s.matchRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list matches by status: %w", err)
	}

	return items, nil
}

func (s *MatchService) Create(ctx context.Context, input CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	input.HomeClubID = strings.TrimSpace(input.HomeClubID)
	input.AwayClubID = strings.TrimSpace(input.AwayClubID)
	input.HomeTeamID = strings.TrimSpace(input.HomeTeamID)
	input.AwayTeamID = strings.TrimSpace(input.AwayTeamID)

	if input.HomeClubID == "" || input.AwayClubID == "" {
		return match.Match{}, fmt.Errorf("%w: home and away clubs are required", ErrInvalidInput)
	}
	if input.HomeClubID == input.AwayClubID && input.HomeTeamID == input.AwayTeamID {
		return match.Match{}, fmt.Errorf("%w: a club cannot play itself without distinct sub-teams", ErrInvalidInput)
	}
	if input.ScheduledAt.IsZero() {
		return match.Match{}, fmt.Errorf("%w: scheduled_at is required", ErrInvalidInput)
	}

	if err := s.authorize(ctx, input.ActorID, input.HomeClubID, input.AwayClubID); err != nil {
		return match.Match{}, err
	}

	if input.PeriodCount == 0 {
		input.PeriodCount = defaultPeriodCount
	}
	if input.PeriodDuration == 0 {
		input.PeriodDuration = defaultPeriodDuration
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	now := s.now().UTC()
	item := match.Match{
		ID:             id,
		HomeClubID:     input.HomeClubID,
		AwayClubID:     input.AwayClubID,
		HomeTeamID:     input.HomeTeamID,
		AwayTeamID:     input.AwayTeamID,
		Status:         match.StatusScheduled,
		ScheduledAt:    input.ScheduledAt.UTC(),
		PeriodCount:    input.PeriodCount,
		PeriodDuration: input.PeriodDuration,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := item.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.matchRepo.Create(ctx, item); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	s.notifier.Notify(ctx, Notification{MatchID: item.ID, Kind: NotifyMatchCreated, Payload: item})

	return item, nil
}

// Transition applies one lifecycle operation. The whole check-then-write runs
// under the match's exclusive lock and a single transaction.
func (s *MatchService) Transition(ctx context.Context, input TransitionMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Transition")
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	if input.MatchID == "" {
		return match.Match{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	release := s.locks.Lock(input.MatchID)
	defer release()

	var out match.Match
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		m, exists, err := s.matchRepo.GetByIDForUpdate(ctx, input.MatchID)
		if err != nil {
			return fmt.Errorf("get match for update: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
		}

		if err := s.authorize(ctx, input.ActorID, m.HomeClubID, m.AwayClubID); err != nil {
			return err
		}

		ok, reason := match.CanTransition(m.Status, input.Op)
		if !ok {
			return fmt.Errorf("%w: %s (status=%s)", ErrStateConflict, reason, m.Status)
		}

		now := s.now().UTC()
		switch input.Op {
		case match.OpStart:
			m.Status = match.StatusInProgress
		case match.OpEnd:
			m.Status = match.StatusCompleted
		case match.OpCancel:
			m.Status = match.StatusCancelled
		case match.OpReschedule:
			if input.ScheduledAt != nil {
				m.Status = match.StatusScheduled
				m.ScheduledAt = input.ScheduledAt.UTC()
				m.UpdatedAt = now
				out = m
				return s.matchRepo.UpdateSchedule(ctx, m.ID, m.Status, m.ScheduledAt, now)
			}
			m.Status = match.StatusToReschedule
		}

		m.UpdatedAt = now
		out = m
		return s.matchRepo.UpdateStatus(ctx, m.ID, m.Status, now)
	})
	if err != nil {
		return match.Match{}, err
	}

	s.notifier.Notify(ctx, Notification{MatchID: out.ID, Kind: NotifyMatchTransitioned, Payload: out})

	return out, nil
}

func (s *MatchService) Update(ctx context.Context, input UpdateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Update")
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	if input.MatchID == "" {
		return match.Match{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	if input.ScheduledAt == nil && input.PeriodCount == nil && input.PeriodDuration == nil {
		return match.Match{}, fmt.Errorf("%w: update requires at least one field", ErrInvalidInput)
	}
	if input.PeriodCount != nil && *input.PeriodCount < 1 {
		return match.Match{}, fmt.Errorf("%w: period count must be at least 1", ErrInvalidInput)
	}
	if input.PeriodDuration != nil && *input.PeriodDuration <= 0 {
		return match.Match{}, fmt.Errorf("%w: period duration must be positive", ErrInvalidInput)
	}

	release := s.locks.Lock(input.MatchID)
	defer release()

	var out match.Match
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		m, exists, err := s.matchRepo.GetByIDForUpdate(ctx, input.MatchID)
		if err != nil {
			return fmt.Errorf("get match for update: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
		}

		if err := s.authorize(ctx, input.ActorID, m.HomeClubID, m.AwayClubID); err != nil {
			return err
		}

		now := s.now().UTC()
		if input.ScheduledAt != nil {
			m.ScheduledAt = input.ScheduledAt.UTC()
		}
		if input.PeriodCount != nil {
			m.PeriodCount = *input.PeriodCount
		}
		if input.PeriodDuration != nil {
			m.PeriodDuration = *input.PeriodDuration
		}
		m.UpdatedAt = now
		out = m

		var scheduledAt *time.Time
		if input.ScheduledAt != nil {
			scheduledAt = &m.ScheduledAt
		}
		return s.matchRepo.UpdateConfig(ctx, m.ID, scheduledAt, input.PeriodCount, input.PeriodDuration, now)
	})
	if err != nil {
		return match.Match{}, err
	}

	s.notifier.Notify(ctx, Notification{MatchID: out.ID, Kind: NotifyMatchUpdated, Payload: out})

	return out, nil
}

// Delete removes a match and, by cascade, every dependent record. This is an
// administrative action; the transport layer restricts it to admins.
func (s *MatchService) Delete(ctx context.Context, actorID, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Delete")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	release := s.locks.Lock(matchID)
	defer release()

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		m, exists, err := s.matchRepo.GetByIDForUpdate(ctx, matchID)
		if err != nil {
			return fmt.Errorf("get match for update: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
		}

		if err := s.authorize(ctx, actorID, m.HomeClubID, m.AwayClubID); err != nil {
			return err
		}

		return s.matchRepo.Delete(ctx, matchID)
	})
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, Notification{MatchID: matchID, Kind: NotifyMatchDeleted})

	return nil
}

func (s *MatchService) authorize(ctx context.Context, actorID string, clubIDs ...string) error {
	return authorizeAnyClub(ctx, s.authorizer, s.logger, actorID, clubIDs...)
}
