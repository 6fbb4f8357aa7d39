package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/repository/memory"
)

func TestMatchService_Create_DefaultsPeriodConfig(t *testing.T) {
	f := newFixture()

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	f.matches.now = func() time.Time { return now }

	created, err := f.matches.Create(t.Context(), CreateMatchInput{
		ActorID:     "coach-1",
		HomeClubID:  "club-a",
		AwayClubID:  "club-b",
		HomeTeamID:  "team-a",
		AwayTeamID:  "team-b",
		ScheduledAt: now.Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create match failed: %v", err)
	}

	if created.Status != match.StatusScheduled {
		t.Fatalf("expected SCHEDULED, got %s", created.Status)
	}
	if created.PeriodCount != 2 || created.PeriodDuration != 30*time.Minute {
		t.Fatalf("expected default period config, got count=%d duration=%v", created.PeriodCount, created.PeriodDuration)
	}
	if !created.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %v, got %v", now, created.CreatedAt)
	}
}

func TestMatchService_Create_RejectsSelfPlay(t *testing.T) {
	f := newFixture()

	_, err := f.matches.Create(t.Context(), CreateMatchInput{
		ActorID:     "coach-1",
		HomeClubID:  "club-a",
		AwayClubID:  "club-a",
		HomeTeamID:  "team-a",
		AwayTeamID:  "team-a",
		ScheduledAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchService_Transition_Lifecycle(t *testing.T) {
	f := newFixture()
	ctx := t.Context()

	started, err := f.matches.Transition(ctx, TransitionMatchInput{
		ActorID: "coach-1",
		MatchID: memory.MatchIDDerby,
		Op:      match.OpStart,
	})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if started.Status != match.StatusInProgress {
		t.Fatalf("expected IN_PROGRESS, got %s", started.Status)
	}

	// Starting twice must be refused without changing anything.
	_, err = f.matches.Transition(ctx, TransitionMatchInput{
		ActorID: "coach-1",
		MatchID: memory.MatchIDDerby,
		Op:      match.OpStart,
	})
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict on double start, got %v", err)
	}

	ended, err := f.matches.Transition(ctx, TransitionMatchInput{
		ActorID: "coach-1",
		MatchID: memory.MatchIDDerby,
		Op:      match.OpEnd,
	})
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if ended.Status != match.StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", ended.Status)
	}

	// Completed is terminal.
	for _, op := range []match.TransitionOp{match.OpStart, match.OpEnd, match.OpCancel, match.OpReschedule} {
		_, err := f.matches.Transition(ctx, TransitionMatchInput{
			ActorID: "coach-1",
			MatchID: memory.MatchIDDerby,
			Op:      op,
		})
		if !errors.Is(err, ErrStateConflict) {
			t.Fatalf("expected ErrStateConflict for %s on completed match, got %v", op, err)
		}
	}
}

func TestMatchService_Transition_RescheduleFlow(t *testing.T) {
	f := newFixture()
	ctx := t.Context()

	// Without a new date the match parks in TO_RESCHEDULE.
	parked, err := f.matches.Transition(ctx, TransitionMatchInput{
		ActorID: "coach-1",
		MatchID: memory.MatchIDDerby,
		Op:      match.OpReschedule,
	})
	if err != nil {
		t.Fatalf("reschedule without date failed: %v", err)
	}
	if parked.Status != match.StatusToReschedule {
		t.Fatalf("expected TO_RESCHEDULE, got %s", parked.Status)
	}

	newDate := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)
	rescheduled, err := f.matches.Transition(ctx, TransitionMatchInput{
		ActorID:     "coach-1",
		MatchID:     memory.MatchIDDerby,
		Op:          match.OpReschedule,
		ScheduledAt: timePtr(newDate),
	})
	if err != nil {
		t.Fatalf("reschedule with date failed: %v", err)
	}
	if rescheduled.Status != match.StatusScheduled {
		t.Fatalf("expected SCHEDULED after reschedule, got %s", rescheduled.Status)
	}
	if !rescheduled.ScheduledAt.Equal(newDate) {
		t.Fatalf("expected scheduled_at %v, got %v", newDate, rescheduled.ScheduledAt)
	}
}

func TestMatchService_Transition_StartFromParked(t *testing.T) {
	f := newFixture()
	ctx := t.Context()

	parked, err := f.matches.Transition(ctx, TransitionMatchInput{
		ActorID: "coach-1",
		MatchID: memory.MatchIDDerby,
		Op:      match.OpReschedule,
	})
	if err != nil {
		t.Fatalf("reschedule without date failed: %v", err)
	}
	if parked.Status != match.StatusToReschedule {
		t.Fatalf("expected TO_RESCHEDULE, got %s", parked.Status)
	}

	// A parked match may start directly; no fresh date is required first.
	started, err := f.matches.Transition(ctx, TransitionMatchInput{
		ActorID: "coach-1",
		MatchID: memory.MatchIDDerby,
		Op:      match.OpStart,
	})
	if err != nil {
		t.Fatalf("start from parked failed: %v", err)
	}
	if started.Status != match.StatusInProgress {
		t.Fatalf("expected IN_PROGRESS, got %s", started.Status)
	}
}

func TestMatchService_Transition_CancelledIsTerminal(t *testing.T) {
	f := newFixture()
	ctx := t.Context()

	cancelled, err := f.matches.Transition(ctx, TransitionMatchInput{
		ActorID: "coach-1",
		MatchID: memory.MatchIDDerby,
		Op:      match.OpCancel,
	})
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != match.StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", cancelled.Status)
	}

	// No amount of prior history makes these legal again; reschedule alone
	// may revive a cancelled match.
	for _, op := range []match.TransitionOp{match.OpStart, match.OpEnd, match.OpCancel} {
		_, err := f.matches.Transition(ctx, TransitionMatchInput{
			ActorID: "coach-1",
			MatchID: memory.MatchIDDerby,
			Op:      op,
		})
		if !errors.Is(err, ErrStateConflict) {
			t.Fatalf("expected ErrStateConflict for %s on cancelled match, got %v", op, err)
		}
	}
}

func TestMatchService_Update_RequiresAField(t *testing.T) {
	f := newFixture()

	_, err := f.matches.Update(t.Context(), UpdateMatchInput{
		ActorID: "coach-1",
		MatchID: memory.MatchIDDerby,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty update, got %v", err)
	}

	updated, err := f.matches.Update(t.Context(), UpdateMatchInput{
		ActorID:        "coach-1",
		MatchID:        memory.MatchIDDerby,
		PeriodCount:    intPtr(4),
		PeriodDuration: durPtr(12 * time.Minute),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.PeriodCount != 4 || updated.PeriodDuration != 12*time.Minute {
		t.Fatalf("unexpected period config: count=%d duration=%v", updated.PeriodCount, updated.PeriodDuration)
	}
}

func TestMatchService_Delete_CascadesDependents(t *testing.T) {
	f := newFixture()
	ctx := t.Context()

	if err := f.startMatch(ctx, memory.MatchIDDerby); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := f.events.RecordShot(ctx, goalInput("player-h01")); err != nil {
		t.Fatalf("record shot failed: %v", err)
	}

	if err := f.matches.Delete(ctx, "admin-1", memory.MatchIDDerby); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := f.matches.Get(ctx, memory.MatchIDDerby); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	entries, err := f.rosterRepo.ListByMatch(ctx, memory.MatchIDDerby)
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected roster cascade, got %d entries (err=%v)", len(entries), err)
	}
	shots, err := f.shotRepo.ListByMatch(ctx, memory.MatchIDDerby)
	if err != nil || len(shots) != 0 {
		t.Fatalf("expected shot cascade, got %d shots (err=%v)", len(shots), err)
	}
}

func TestMatchService_Unauthorized_FailsClosed(t *testing.T) {
	f := newFixture()

	f.matches.authorizer = deniedAuthorizer{}
	_, err := f.matches.Transition(t.Context(), TransitionMatchInput{
		ActorID: "coach-1",
		MatchID: memory.MatchIDDerby,
		Op:      match.OpStart,
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	f.matches.authorizer = failingAuthorizer{}
	_, err = f.matches.Transition(t.Context(), TransitionMatchInput{
		ActorID: "coach-1",
		MatchID: memory.MatchIDDerby,
		Op:      match.OpStart,
	})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}

	m, err := f.matches.Get(t.Context(), memory.MatchIDDerby)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if m.Status != match.StatusScheduled {
		t.Fatalf("expected status unchanged after refusals, got %s", m.Status)
	}
}

type deniedAuthorizer struct{}

func (deniedAuthorizer) CanManageClub(context.Context, string, string) (bool, error) {
	return false, nil
}

type failingAuthorizer struct{}

func (failingAuthorizer) CanManageClub(context.Context, string, string) (bool, error) {
	return false, errors.New("collaborator down")
}
