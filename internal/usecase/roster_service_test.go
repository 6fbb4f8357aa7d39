package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/repository/memory"
)

func TestRosterService_Replace_AllOrNothing(t *testing.T) {
	f := newFixture()
	ctx := t.Context()

	before, err := f.rosters.ListByMatch(ctx, memory.MatchIDDerby)
	if err != nil {
		t.Fatalf("list roster failed: %v", err)
	}

	// Two captains on the same side must reject the whole batch.
	_, err = f.rosters.Replace(ctx, ReplaceRosterInput{
		ActorID: "coach-1",
		MatchID: memory.MatchIDDerby,
		Entries: []ReplaceRosterEntryInput{
			{Side: "HOME", PlayerID: "player-x1", IsStarting: true, IsCaptain: true},
			{Side: "HOME", PlayerID: "player-x2", IsStarting: true, IsCaptain: true},
			{Side: "AWAY", PlayerID: "player-y1", IsStarting: true},
		},
	})
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict for duplicate captains, got %v", err)
	}

	after, err := f.rosters.ListByMatch(ctx, memory.MatchIDDerby)
	if err != nil {
		t.Fatalf("list roster failed: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("rejected replace must not write: had %d entries, now %d", len(before), len(after))
	}

	// A valid batch replaces the set wholesale.
	replaced, err := f.rosters.Replace(ctx, ReplaceRosterInput{
		ActorID: "coach-1",
		MatchID: memory.MatchIDDerby,
		Entries: []ReplaceRosterEntryInput{
			{Side: "HOME", PlayerID: "player-x1", IsStarting: true, IsCaptain: true, StartingPosition: "PG"},
			{Side: "HOME", PlayerID: "player-x2", IsStarting: false},
			{Side: "AWAY", PlayerID: "player-y1", IsStarting: true, IsCaptain: true, StartingPosition: "C"},
		},
	})
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if len(replaced) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(replaced))
	}

	current, err := f.rosters.ListByMatch(ctx, memory.MatchIDDerby)
	if err != nil {
		t.Fatalf("list roster failed: %v", err)
	}
	if len(current) != 3 {
		t.Fatalf("expected old roster gone, got %d entries", len(current))
	}
}

func TestRosterService_Replace_RejectsDuplicatePlayer(t *testing.T) {
	f := newFixture()

	_, err := f.rosters.Replace(t.Context(), ReplaceRosterInput{
		ActorID: "coach-1",
		MatchID: memory.MatchIDDerby,
		Entries: []ReplaceRosterEntryInput{
			{Side: "HOME", PlayerID: "player-x1", IsStarting: true},
			{Side: "HOME", PlayerID: "player-x1", IsStarting: false},
		},
	})
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict for duplicate player, got %v", err)
	}
}

func TestRosterService_Replace_FrozenOnceSubstitutionsExist(t *testing.T) {
	f := newFixture()
	ctx := t.Context()

	if err := f.startMatch(ctx, memory.MatchIDDerby); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := f.substitutions.Propose(ctx, ProposeSubstitutionInput{
		ActorID:     "coach-1",
		MatchID:     memory.MatchIDDerby,
		Side:        "HOME",
		PlayerInID:  "player-h06",
		PlayerOutID: "player-h01",
		Period:      1,
	}); err != nil {
		t.Fatalf("propose failed: %v", err)
	}

	_, err := f.rosters.Replace(ctx, ReplaceRosterInput{
		ActorID: "coach-1",
		MatchID: memory.MatchIDDerby,
		Entries: []ReplaceRosterEntryInput{
			{Side: "HOME", PlayerID: "player-z1", IsStarting: true},
		},
	})
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict once log is non-empty, got %v", err)
	}
}

func TestRosterService_UpdateEntry_CaptainPromotionDemotesSitting(t *testing.T) {
	f := newFixture()
	ctx := t.Context()

	// player-h01 (re-h01) is the seeded home captain; promote re-h02.
	updated, err := f.rosters.UpdateEntry(ctx, UpdateRosterEntryInput{
		ActorID:   "coach-1",
		EntryID:   "re-h02",
		IsCaptain: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("update entry failed: %v", err)
	}
	if !updated.IsCaptain {
		t.Fatalf("expected re-h02 to be captain")
	}

	entries, err := f.rosterRepo.ListByMatchAndSide(ctx, memory.MatchIDDerby, match.SideHome)
	if err != nil {
		t.Fatalf("list home roster failed: %v", err)
	}
	captains := 0
	for _, e := range entries {
		if e.IsCaptain {
			captains++
			if e.ID != "re-h02" {
				t.Fatalf("expected only re-h02 as captain, found %s", e.ID)
			}
		}
	}
	if captains != 1 {
		t.Fatalf("expected exactly one home captain, got %d", captains)
	}

	// The away captain is untouched.
	away, err := f.rosterRepo.ListByMatchAndSide(ctx, memory.MatchIDDerby, match.SideAway)
	if err != nil {
		t.Fatalf("list away roster failed: %v", err)
	}
	awayCaptains := 0
	for _, e := range away {
		if e.IsCaptain {
			awayCaptains++
		}
	}
	if awayCaptains != 1 {
		t.Fatalf("expected away captain untouched, got %d", awayCaptains)
	}
}

func TestRosterService_UpdateEntry_RequiresAFlag(t *testing.T) {
	f := newFixture()

	_, err := f.rosters.UpdateEntry(t.Context(), UpdateRosterEntryInput{
		ActorID: "coach-1",
		EntryID: "re-h02",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty update, got %v", err)
	}
}
