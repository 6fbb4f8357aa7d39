package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-tracker/internal/platform/matchlock"
)

type seqIDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.next++
	return fmt.Sprintf("%s-%03d", g.prefix, g.next), nil
}

type captureNotifier struct {
	mu    sync.Mutex
	kinds []string
}

func (n *captureNotifier) Notify(_ context.Context, notification Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.kinds = append(n.kinds, notification.Kind)
}

func (n *captureNotifier) Kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]string, len(n.kinds))
	copy(out, n.kinds)
	return out
}

// fixture wires every service against shared in-memory stores, the way the
// application does in demo mode.
type fixture struct {
	matchRepo  *memory.MatchRepository
	rosterRepo *memory.RosterRepository
	subRepo    *memory.SubstitutionRepository
	shotRepo   *memory.ShotRepository
	eventRepo  *memory.GameEventRepository

	notifier *captureNotifier

	matches       *MatchService
	rosters       *RosterService
	substitutions *SubstitutionService
	events        *EventService
	lineups       *LineupService
}

func newFixture() *fixture {
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	rosterRepo := memory.NewRosterRepository(memory.SeedRosterEntries())
	subRepo := memory.NewSubstitutionRepository(nil)
	shotRepo := memory.NewShotRepository(nil)
	eventRepo := memory.NewGameEventRepository(nil)

	matchRepo.OnDelete(rosterRepo.DeleteByMatch)
	matchRepo.OnDelete(subRepo.DeleteByMatch)
	matchRepo.OnDelete(shotRepo.DeleteByMatch)
	matchRepo.OnDelete(eventRepo.DeleteByMatch)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tx := NewPassthroughTxRunner()
	locks := matchlock.New()
	auth := AllowAllAuthorizer{}
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

func (f *fixture) startMatch(ctx context.Context, matchID string) error {
	_, err := f.matches.Transition(ctx, TransitionMatchInput{
		ActorID: "coach-1",
		MatchID: matchID,
		Op:      match.OpStart,
	})
	return err
}

func timePtr(t time.Time) *time.Time        { return &t }
func boolPtr(v bool) *bool                  { return &v }
func intPtr(v int) *int                     { return &v }
func durPtr(d time.Duration) *time.Duration { return &d }
