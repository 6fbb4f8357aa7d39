package httpapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/match-tracker/internal/domain/user"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/broadcast"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-tracker/internal/platform/id"
	"github.com/riskibarqy/match-tracker/internal/platform/matchlock"
	"github.com/riskibarqy/match-tracker/internal/usecase"
)

// tokenVerifier resolves a fixed token-to-principal table, standing in for
// the account service.
type tokenVerifier map[string]user.Principal

func (v tokenVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	principal, ok := v[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return principal, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

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
	tx := usecase.NewPassthroughTxRunner()
	locks := matchlock.New()
	auth := usecase.AllowAllAuthorizer{}
	notifier := usecase.NewNopNotifier()
	idGen := id.NewRandomGenerator()

	handler := NewHandler(
		usecase.NewMatchService(matchRepo, tx, locks, auth, notifier, idGen, logger),
		usecase.NewRosterService(matchRepo, rosterRepo, subRepo, tx, locks, auth, notifier, idGen, logger),
		usecase.NewSubstitutionService(matchRepo, rosterRepo, subRepo, eventRepo, tx, locks, auth, notifier, idGen, logger),
		usecase.NewEventService(matchRepo, rosterRepo, shotRepo, eventRepo, tx, locks, auth, notifier, idGen, logger),
		usecase.NewLineupService(matchRepo, rosterRepo, subRepo, logger),
		broadcast.NewHub(logger),
		logger,
	)

	verifier := tokenVerifier{
		"coach-token": {UserID: "coach-1", Role: user.RoleCoach},
		"admin-token": {UserID: "admin-1", Role: user.RoleAdmin},
	}

	return NewRouter(handler, verifier, logger, nil)
}

func doJSON(t *testing.T, router http.Handler, method, path, token, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if rec.Body.Len() > 0 {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal response for %s %s: %v", method, path, err)
		}
	}
	return rec.Code, envelope
}

func TestRouter_RequiresAuthForWrites(t *testing.T) {
	router := newTestRouter(t)

	code, _ := doJSON(t, router, http.MethodPost, "/v1/matches", "", `{"home_club_id":"a","away_club_id":"b","scheduled_at":"2026-10-01T18:00:00Z"}`)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}

	code, _ = doJSON(t, router, http.MethodGet, "/v1/matches/"+memory.MatchIDDerby, "", "")
	if code != http.StatusOK {
		t.Fatalf("expected public read to succeed, got %d", code)
	}
}

func TestRouter_MatchLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	code, envelope := doJSON(t, router, http.MethodPost, "/v1/matches", "coach-token",
		`{"home_club_id":"club-medan-eagles","away_club_id":"club-bali-sharks","scheduled_at":"2026-10-01T18:00:00Z","period_count":4,"period_seconds":720}`)
	if code != http.StatusCreated {
		t.Fatalf("expected 201 creating match, got %d (%v)", code, envelope)
	}
	data, _ := envelope["data"].(map[string]any)
	matchID, _ := data["id"].(string)
	if matchID == "" {
		t.Fatalf("expected created match id in response, got %v", envelope)
	}
	if got, _ := data["status"].(string); got != "SCHEDULED" {
		t.Fatalf("expected SCHEDULED, got %q", got)
	}

	code, envelope = doJSON(t, router, http.MethodPost, "/v1/matches/"+matchID+"/transition", "coach-token", `{"op":"start"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200 starting match, got %d (%v)", code, envelope)
	}
	data, _ = envelope["data"].(map[string]any)
	if got, _ := data["status"].(string); got != "IN_PROGRESS" {
		t.Fatalf("expected IN_PROGRESS, got %q", got)
	}

	code, envelope = doJSON(t, router, http.MethodPost, "/v1/matches/"+matchID+"/transition", "coach-token", `{"op":"start"}`)
	if code != http.StatusConflict {
		t.Fatalf("expected 409 on double start, got %d (%v)", code, envelope)
	}
}

func TestRouter_ShotAdjustsScore(t *testing.T) {
	router := newTestRouter(t)

	code, envelope := doJSON(t, router, http.MethodPost, "/v1/matches/"+memory.MatchIDDerby+"/transition", "coach-token", `{"op":"start"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200 starting derby, got %d (%v)", code, envelope)
	}

	code, envelope = doJSON(t, router, http.MethodPost, "/v1/matches/"+memory.MatchIDDerby+"/shots", "coach-token",
		`{"side":"HOME","player_id":"player-h01","x":12.5,"y":3.0,"result":"GOAL","period":1,"remaining_seconds":540,"distance":6.5}`)
	if code != http.StatusCreated {
		t.Fatalf("expected 201 recording shot, got %d (%v)", code, envelope)
	}

	code, envelope = doJSON(t, router, http.MethodGet, "/v1/matches/"+memory.MatchIDDerby, "", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200 reading match, got %d", code)
	}
	data, _ := envelope["data"].(map[string]any)
	if got, _ := data["home_score"].(float64); got != 1 {
		t.Fatalf("expected home_score=1, got %v", data["home_score"])
	}
}

func TestRouter_DeleteMatchRequiresAdmin(t *testing.T) {
	router := newTestRouter(t)

	code, _ := doJSON(t, router, http.MethodDelete, "/v1/matches/"+memory.MatchIDFriendly, "coach-token", "")
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for coach delete, got %d", code)
	}

	code, _ = doJSON(t, router, http.MethodDelete, "/v1/matches/"+memory.MatchIDFriendly, "admin-token", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200 for admin delete, got %d", code)
	}

	code, _ = doJSON(t, router, http.MethodGet, "/v1/matches/"+memory.MatchIDFriendly, "", "")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", code)
	}
}

func TestRouter_RejectsUnknownFields(t *testing.T) {
	router := newTestRouter(t)

	code, _ := doJSON(t, router, http.MethodPost, "/v1/matches", "coach-token",
		`{"home_club_id":"a","away_club_id":"b","scheduled_at":"2026-10-01T18:00:00Z","bogus":true}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", code)
	}
}
