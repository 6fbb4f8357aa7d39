package usecase

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/repository/memory"
)

func shotInput(playerID, side, result string) RecordShotInput {
	return RecordShotInput{
		ActorID:  "coach-1",
		MatchID:  memory.MatchIDDerby,
		Side:     side,
		PlayerID: playerID,
		X:        12.5,
		Y:        -3.25,
		Result:   result,
		Period:   1,
		Distance: 6.4,
	}
}

func goalInput(playerID string) RecordShotInput {
	return shotInput(playerID, "HOME", "GOAL")
}

func TestEventService_RecordShot_Gates(t *testing.T) {
	f := newFixture()
	ctx := t.Context()

	// Shots require an in-progress match.
	_, err := f.events.RecordShot(ctx, goalInput("player-h01"))
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict before start, got %v", err)
	}

	if err := f.startMatch(ctx, memory.MatchIDDerby); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// The shooter must be rostered on the claimed side.
	_, err = f.events.RecordShot(ctx, shotInput("player-a01", "HOME", "GOAL"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-side shooter, got %v", err)
	}

	// Coordinates must be finite.
	bad := goalInput("player-h01")
	bad.X = math.NaN()
	if _, err := f.events.RecordShot(ctx, bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for NaN coordinate, got %v", err)
	}
	bad = goalInput("player-h01")
	bad.Y = math.Inf(1)
	if _, err := f.events.RecordShot(ctx, bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for infinite coordinate, got %v", err)
	}
}

func TestEventService_ScoreFollowsLedger(t *testing.T) {
	f := newFixture()
	ctx := t.Context()

	if err := f.startMatch(ctx, memory.MatchIDDerby); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	goal, err := f.events.RecordShot(ctx, goalInput("player-h01"))
	if err != nil {
		t.Fatalf("record goal failed: %v", err)
	}
	if _, err := f.events.RecordShot(ctx, shotInput("player-h02", "HOME", "MISS")); err != nil {
		t.Fatalf("record miss failed: %v", err)
	}
	if _, err := f.events.RecordShot(ctx, shotInput("player-a01", "AWAY", "GOAL")); err != nil {
		t.Fatalf("record away goal failed: %v", err)
	}

	assertScore(t, f, 1, 1)

	// Correcting the goal to a miss debits home.
	if _, err := f.events.UpdateShot(ctx, UpdateShotInput{ActorID: "coach-1", ShotID: goal.ID, Result: "MISS"}); err != nil {
		t.Fatalf("update shot failed: %v", err)
	}
	assertScore(t, f, 0, 1)

	// And back again credits it.
	if _, err := f.events.UpdateShot(ctx, UpdateShotInput{ActorID: "coach-1", ShotID: goal.ID, Result: "GOAL"}); err != nil {
		t.Fatalf("update shot failed: %v", err)
	}
	assertScore(t, f, 1, 1)

	// Same-result update is a no-op on the score.
	if _, err := f.events.UpdateShot(ctx, UpdateShotInput{ActorID: "coach-1", ShotID: goal.ID, Result: "GOAL"}); err != nil {
		t.Fatalf("update shot failed: %v", err)
	}
	assertScore(t, f, 1, 1)

	// Deleting the goal debits home once.
	if err := f.events.DeleteShot(ctx, DeleteShotInput{ActorID: "coach-1", ShotID: goal.ID}); err != nil {
		t.Fatalf("delete shot failed: %v", err)
	}
	assertScore(t, f, 0, 1)
}

// TestEventService_ScoreConsistency_RandomOps drives a random sequence of
// record/update/delete operations and checks after every step that the
// denormalized counters equal the goal counts in the ledger.
func TestEventService_ScoreConsistency_RandomOps(t *testing.T) {
	f := newFixture()
	ctx := t.Context()

	if err := f.startMatch(ctx, memory.MatchIDDerby); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	rng := rand.New(rand.NewSource(20260912))
	results := []string{"GOAL", "MISS", "BLOCKED"}
	shooters := map[string][]string{
		"HOME": {"player-h01", "player-h02", "player-h03"},
		"AWAY": {"player-a01", "player-a02"},
	}
	var live []string

	for step := 0; step < 400; step++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(live) == 0:
			side := "HOME"
			if rng.Intn(2) == 1 {
				side = "AWAY"
			}
			players := shooters[side]
			created, err := f.events.RecordShot(ctx, shotInput(players[rng.Intn(len(players))], side, results[rng.Intn(len(results))]))
			if err != nil {
				t.Fatalf("step %d: record failed: %v", step, err)
			}
			live = append(live, created.ID)
		case op == 1:
			id := live[rng.Intn(len(live))]
			if _, err := f.events.UpdateShot(ctx, UpdateShotInput{ActorID: "coach-1", ShotID: id, Result: results[rng.Intn(len(results))]}); err != nil {
				t.Fatalf("step %d: update failed: %v", step, err)
			}
		default:
			i := rng.Intn(len(live))
			if err := f.events.DeleteShot(ctx, DeleteShotInput{ActorID: "coach-1", ShotID: live[i]}); err != nil {
				t.Fatalf("step %d: delete failed: %v", step, err)
			}
			live = append(live[:i], live[i+1:]...)
		}

		m, err := f.matches.Get(ctx, memory.MatchIDDerby)
		if err != nil {
			t.Fatalf("step %d: get match failed: %v", step, err)
		}
		for _, side := range []match.Side{match.SideHome, match.SideAway} {
			want, err := f.shotRepo.CountGoals(ctx, memory.MatchIDDerby, side)
			if err != nil {
				t.Fatalf("step %d: count goals failed: %v", step, err)
			}
			if got := m.ScoreFor(side); got != want {
				t.Fatalf("step %d: %s score %d diverged from ledger %d", step, side, got, want)
			}
		}
	}
}

func TestEventService_RecordGameEvent_AndTimeline(t *testing.T) {
	f := newFixture()
	ctx := t.Context()

	if err := f.startMatch(ctx, memory.MatchIDDerby); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if _, err := f.events.RecordGameEvent(ctx, RecordGameEventInput{
		ActorID:  "coach-1",
		MatchID:  memory.MatchIDDerby,
		Side:     "HOME",
		Type:     "FOUL",
		PlayerID: "player-h03",
		Period:   1,
		Details:  "reach-in",
	}); err != nil {
		t.Fatalf("record game event failed: %v", err)
	}
	if _, err := f.events.RecordShot(ctx, goalInput("player-h01")); err != nil {
		t.Fatalf("record shot failed: %v", err)
	}

	_, err := f.events.RecordGameEvent(ctx, RecordGameEventInput{
		ActorID: "coach-1",
		MatchID: memory.MatchIDDerby,
		Side:    "HOME",
		Type:    "EJECTION",
		Period:  1,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown type, got %v", err)
	}

	timeline, err := f.events.ListMatchTimeline(ctx, memory.MatchIDDerby)
	if err != nil {
		t.Fatalf("list timeline failed: %v", err)
	}
	if len(timeline) != 2 {
		t.Fatalf("expected 2 timeline entries, got %d", len(timeline))
	}
	for i := 1; i < len(timeline); i++ {
		if timeline[i].CreatedAt.Before(timeline[i-1].CreatedAt) {
			t.Fatalf("timeline out of order at %d", i)
		}
	}
}

func TestEventService_ScoreNeverNegative(t *testing.T) {
	f := newFixture()
	ctx := t.Context()

	if err := f.startMatch(ctx, memory.MatchIDDerby); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// A direct repo-level debit on a zero score clamps instead of going
	// negative, mirroring the store-side floor.
	if err := f.matchRepo.ApplyScoreDelta(ctx, memory.MatchIDDerby, match.ScoreDelta{Side: match.SideHome, Delta: -1}); err != nil {
		t.Fatalf("apply delta failed: %v", err)
	}
	assertScore(t, f, 0, 0)
}

func assertScore(t *testing.T, f *fixture, home, away int) {
	t.Helper()

	m, err := f.matches.Get(t.Context(), memory.MatchIDDerby)
	if err != nil {
		t.Fatalf("get match failed: %v", err)
	}
	if m.HomeScore != home || m.AwayScore != away {
		t.Fatalf("expected score %d-%d, got %d-%d", home, away, m.HomeScore, m.AwayScore)
	}
}
