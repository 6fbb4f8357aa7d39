package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/match-tracker/internal/infrastructure/broadcast"
	"github.com/riskibarqy/match-tracker/internal/usecase"
)

type Handler struct {
	matchService        *usecase.MatchService
	rosterService       *usecase.RosterService
	substitutionService *usecase.SubstitutionService
	eventService        *usecase.EventService
	lineupService       *usecase.LineupService
	hub                 *broadcast.Hub
	logger              *slog.Logger
	validator           *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	rosterService *usecase.RosterService,
	substitutionService *usecase.SubstitutionService,
	eventService *usecase.EventService,
	lineupService *usecase.LineupService,
	hub *broadcast.Hub,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		matchService:        matchService,
		rosterService:       rosterService,
		substitutionService: substitutionService,
		eventService:        eventService,
		lineupService:       lineupService,
		hub:                 hub,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) actorID(ctx context.Context) (string, error) {
	principal, ok := principalFromContext(ctx)
	if !ok || principal.UserID == "" {
		return "", fmt.Errorf("%w: missing authenticated principal", usecase.ErrUnauthorized)
	}
	return principal.UserID, nil
}

// StreamMatch upgrades the connection and streams broadcast frames for one
// match. Errors after the upgrade are handled inside the hub.
func (h *Handler) StreamMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	if _, err := h.matchService.Get(ctx, matchID); err != nil {
		h.logger.WarnContext(ctx, "stream match rejected", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.hub.ServeWS(w, r.WithContext(ctx), matchID)
}
