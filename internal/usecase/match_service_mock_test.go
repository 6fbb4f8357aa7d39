package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/platform/matchlock"
)

type matchRepoMock struct {
	mock.Mock
}

func (m *matchRepoMock) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(match.Match), args.Bool(1), args.Error(2)
}

func (m *matchRepoMock) GetByIDForUpdate(ctx context.Context, id string) (match.Match, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(match.Match), args.Bool(1), args.Error(2)
}

func (m *matchRepoMock) ListByStatus(ctx context.Context, status match.Status) ([]match.Match, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]match.Match), args.Error(1)
}

func (m *matchRepoMock) Create(ctx context.Context, item match.Match) error {
	return m.Called(ctx, item).Error(0)
}

func (m *matchRepoMock) UpdateStatus(ctx context.Context, id string, status match.Status, updatedAt time.Time) error {
	return m.Called(ctx, id, status, updatedAt).Error(0)
}

func (m *matchRepoMock) UpdateSchedule(ctx context.Context, id string, status match.Status, scheduledAt time.Time, updatedAt time.Time) error {
	return m.Called(ctx, id, status, scheduledAt, updatedAt).Error(0)
}

func (m *matchRepoMock) UpdateConfig(ctx context.Context, id string, scheduledAt *time.Time, periodCount *int, periodDuration *time.Duration, updatedAt time.Time) error {
	return m.Called(ctx, id, scheduledAt, periodCount, periodDuration, updatedAt).Error(0)
}

func (m *matchRepoMock) ApplyScoreDelta(ctx context.Context, id string, delta match.ScoreDelta) error {
	return m.Called(ctx, id, delta).Error(0)
}

func (m *matchRepoMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newMockedMatchService(repo *matchRepoMock) *MatchService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMatchService(repo, NewPassthroughTxRunner(), matchlock.New(), AllowAllAuthorizer{}, nil, &seqIDGenerator{prefix: "m"}, logger)
}

func TestMatchServiceGet_WrapsStoreErrors(t *testing.T) {
	repo := &matchRepoMock{}
	service := newMockedMatchService(repo)

	storeErr := errors.New("connection reset")
	repo.On("GetByID", mock.Anything, "match-1").Return(match.Match{}, false, storeErr).Once()

	_, err := service.Get(t.Context(), "match-1")
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	repo.AssertExpectations(t)
}

func TestMatchServiceTransition_NoWritesOnIllegalOp(t *testing.T) {
	repo := &matchRepoMock{}
	service := newMockedMatchService(repo)

	completed := match.Match{
		ID:          "match-1",
		HomeClubID:  "club-a",
		AwayClubID:  "club-b",
		Status:      match.StatusCompleted,
		PeriodCount: 2,
	}
	repo.On("GetByIDForUpdate", mock.Anything, "match-1").Return(completed, true, nil).Once()

	_, err := service.Transition(t.Context(), TransitionMatchInput{
		ActorID: "coach-1",
		MatchID: "match-1",
		Op:      match.OpStart,
	})
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict, got %v", err)
	}

	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}
