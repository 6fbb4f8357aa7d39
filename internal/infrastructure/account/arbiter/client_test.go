package arbiter

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/match-tracker/internal/platform/resilience"
	"github.com/riskibarqy/match-tracker/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := NewClient(srv.Client(), Config{
		BaseURL:        srv.URL,
		IntrospectPath: "/v1/auth/introspect",
		ManagePath:     "/v1/assignments/check",
		AnswerTTL:      time.Minute,
	}, logger)

	return client, srv
}

func TestClientVerifyAccessToken_ParsesPrincipal(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/auth/introspect" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if req["token"] != "token-abc" {
			t.Fatalf("unexpected token value: %s", req["token"])
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"active":  true,
			"user_id": "user-123",
			"email":   "coach@example.com",
			"role":    "coach",
		})
	})

	principal, err := client.VerifyAccessToken(t.Context(), "token-abc")
	if err != nil {
		t.Fatalf("verify token failed: %v", err)
	}
	if principal.UserID != "user-123" || string(principal.Role) != "coach" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestClientVerifyAccessToken_InactiveToken(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"active": false})
	})

	_, err := client.VerifyAccessToken(t.Context(), "token-expired")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClientCanManageClub_CachesAnswer(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/v1/assignments/check" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"allowed": true})
	})

	for i := 0; i < 3; i++ {
		allowed, err := client.CanManageClub(t.Context(), "coach-1", "club-a")
		if err != nil {
			t.Fatalf("can manage club failed: %v", err)
		}
		if !allowed {
			t.Fatalf("expected allowed")
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 upstream call, got %d", got)
	}
}

func TestClientCanManageClub_CircuitOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	srvHandler := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	srv := httptest.NewServer(http.HandlerFunc(srvHandler))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := NewClient(srv.Client(), Config{
		BaseURL:    srv.URL,
		ManagePath: "/v1/assignments/check",
		AnswerTTL:  time.Nanosecond,
		Breaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, logger)

	for i := 0; i < 2; i++ {
		if _, err := client.CanManageClub(t.Context(), "coach-1", "club-a"); err == nil {
			t.Fatalf("expected error on attempt %d", i)
		}
		time.Sleep(time.Millisecond)
	}

	// The breaker is open now; the next call fails without hitting the wire.
	_, err := client.CanManageClub(t.Context(), "coach-1", "club-b")
	if !errors.Is(err, errArbiterTransient) {
		t.Fatalf("expected transient error from open circuit, got %v", err)
	}
}
