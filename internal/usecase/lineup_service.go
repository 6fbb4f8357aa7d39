package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/match-tracker/internal/domain/lineup"
	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/roster"
	"github.com/riskibarqy/match-tracker/internal/domain/substitution"
)

// LineupService derives the current on-field lineup of a match from its
// roster and substitution log. It holds no state of its own.
type LineupService struct {
	matchRepo  match.Repository
	rosterRepo roster.Repository
	subRepo    substitution.Repository
	logger     *slog.Logger
}

func NewLineupService(
	matchRepo match.Repository,
	rosterRepo roster.Repository,
	subRepo substitution.Repository,
	logger *slog.Logger,
) *LineupService {
	if logger == nil {
		logger = slog.Default()
	}

	return &LineupService{
		matchRepo:  matchRepo,
		rosterRepo: rosterRepo,
		subRepo:    subRepo,
		logger:     logger,
	}
}

// GetActiveLineup loads the roster and the substitution log concurrently and
// replays the log over the starting assignments.
func (s *LineupService) GetActiveLineup(ctx context.Context, matchID string) (lineup.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.GetActiveLineup")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return lineup.Lineup{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	if _, exists, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		return lineup.Lineup{}, fmt.Errorf("get match by id: %w", err)
	} else if !exists {
		return lineup.Lineup{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	var (
		entries []roster.Entry
		log     []substitution.Event
	)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		entries, err = s.rosterRepo.ListByMatch(ctx, matchID)
		if err != nil {
			return fmt.Errorf("list roster entries: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		log, err = s.subRepo.ListByMatch(ctx, matchID)
		if err != nil {
			return fmt.Errorf("list substitutions: %w", err)
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return lineup.Lineup{}, err
	}

	return lineup.Derive(entries, log), nil
}
