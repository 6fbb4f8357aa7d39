package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/riskibarqy/match-tracker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-tracker/internal/platform/matchlock"
)

// clubAuthorizer grants management of an explicit club set only.
type clubAuthorizer struct {
	clubs map[string]bool
}

func (a clubAuthorizer) CanManageClub(_ context.Context, _, clubID string) (bool, error) {
	return a.clubs[clubID], nil
}

// newClubScopedFixture wires the services against an authorizer that only
// allows the derby's away club, impersonating that club's scorekeeper.
func newClubScopedFixture() *fixture {
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	rosterRepo := memory.NewRosterRepository(memory.SeedRosterEntries())
	subRepo := memory.NewSubstitutionRepository(nil)
	shotRepo := memory.NewShotRepository(nil)
	eventRepo := memory.NewGameEventRepository(nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tx := NewPassthroughTxRunner()
	locks := matchlock.New()
	auth := clubAuthorizer{clubs: map[string]bool{"club-bandung-bulls": true}}
	notifier := &captureNotifier{}
	idGen := &seqIDGenerator{prefix: "id"}

	return &fixture{
		matchRepo:     matchRepo,
		rosterRepo:    rosterRepo,
		subRepo:       subRepo,
		shotRepo:      shotRepo,
		eventRepo:     eventRepo,
		notifier:      notifier,
		matches:       NewMatchService(matchRepo, tx, locks, auth, notifier, idGen, logger),
		rosters:       NewRosterService(matchRepo, rosterRepo, subRepo, tx, locks, auth, notifier, idGen, logger),
		substitutions: NewSubstitutionService(matchRepo, rosterRepo, subRepo, eventRepo, tx, locks, auth, notifier, idGen, logger),
		events:        NewEventService(matchRepo, rosterRepo, shotRepo, eventRepo, tx, locks, auth, notifier, idGen, logger),
		lineups:       NewLineupService(matchRepo, rosterRepo, subRepo, logger),
	}
}

func TestAuthorization_SideScopedMutations(t *testing.T) {
	f := newClubScopedFixture()
	ctx := t.Context()

	// Match-level operations accept either club's staff.
	if err := f.startMatch(ctx, memory.MatchIDDerby); err != nil {
		t.Fatalf("away club staff could not start the match: %v", err)
	}

	// The away scorekeeper records for their own side.
	_, err := f.events.RecordShot(ctx, RecordShotInput{
		ActorID:  "away-scorekeeper",
		MatchID:  memory.MatchIDDerby,
		Side:     "AWAY",
		PlayerID: "player-a01",
		Result:   "GOAL",
		Period:   1,
	})
	if err != nil {
		t.Fatalf("away-side shot by away staff failed: %v", err)
	}

	// But not for the opponent.
	_, err = f.events.RecordShot(ctx, RecordShotInput{
		ActorID:  "away-scorekeeper",
		MatchID:  memory.MatchIDDerby,
		Side:     "HOME",
		PlayerID: "player-h01",
		Result:   "GOAL",
		Period:   1,
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for home-side shot, got %v", err)
	}

	// Substitutions follow the same side scoping.
	_, err = f.substitutions.Propose(ctx, ProposeSubstitutionInput{
		ActorID:     "away-scorekeeper",
		MatchID:     memory.MatchIDDerby,
		Side:        "AWAY",
		PlayerInID:  "player-a06",
		PlayerOutID: "player-a01",
		Period:      1,
	})
	if err != nil {
		t.Fatalf("away-side substitution by away staff failed: %v", err)
	}

	_, err = f.substitutions.Propose(ctx, ProposeSubstitutionInput{
		ActorID:     "away-scorekeeper",
		MatchID:     memory.MatchIDDerby,
		Side:        "HOME",
		PlayerInID:  "player-h06",
		PlayerOutID: "player-h01",
		Period:      1,
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for home-side substitution, got %v", err)
	}

	// Game events too.
	_, err = f.events.RecordGameEvent(ctx, RecordGameEventInput{
		ActorID: "away-scorekeeper",
		MatchID: memory.MatchIDDerby,
		Side:    "HOME",
		Type:    "FOUL",
		Period:  1,
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for home-side game event, got %v", err)
	}
}

func TestAuthorization_DeniesActorWithNoClub(t *testing.T) {
	f := newClubScopedFixture()
	ctx := t.Context()

	auth := clubAuthorizer{clubs: map[string]bool{}}
	f.matches = NewMatchService(f.matchRepo, NewPassthroughTxRunner(), matchlock.New(), auth, f.notifier, &seqIDGenerator{prefix: "id"}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := f.matches.Transition(ctx, TransitionMatchInput{
		ActorID: "stranger",
		MatchID: memory.MatchIDDerby,
		Op:      "start",
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for actor with no club, got %v", err)
	}
}
