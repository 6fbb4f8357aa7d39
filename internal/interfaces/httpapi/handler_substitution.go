package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/match-tracker/internal/domain/substitution"
	"github.com/riskibarqy/match-tracker/internal/usecase"
)

type substitutionDTO struct {
	ID               string    `json:"id"`
	MatchID          string    `json:"match_id"`
	Side             string    `json:"side"`
	PlayerInID       string    `json:"player_in_id"`
	PlayerOutID      string    `json:"player_out_id"`
	Period           int       `json:"period"`
	RemainingSeconds int64     `json:"remaining_seconds"`
	Reason           string    `json:"reason,omitempty"`
	Seq              int64     `json:"seq"`
	CreatedAt        time.Time `json:"created_at"`
}

func substitutionToDTO(e substitution.Event) substitutionDTO {
	return substitutionDTO{
		ID:               e.ID,
		MatchID:          e.MatchID,
		Side:             string(e.Side),
		PlayerInID:       e.PlayerInID,
		PlayerOutID:      e.PlayerOutID,
		Period:           e.Period,
		RemainingSeconds: int64(e.TimeRemaining / time.Second),
		Reason:           e.Reason,
		Seq:              e.Seq,
		CreatedAt:        e.CreatedAt,
	}
}

type proposeSubstitutionRequest struct {
	Side             string `json:"side" validate:"required,oneof=HOME AWAY home away"`
	PlayerInID       string `json:"player_in_id" validate:"required"`
	PlayerOutID      string `json:"player_out_id" validate:"required"`
	Period           int    `json:"period" validate:"required,min=1"`
	RemainingSeconds int64  `json:"remaining_seconds" validate:"min=0"`
	Reason           string `json:"reason" validate:"omitempty,max=200"`
}

func (h *Handler) ListSubstitutions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSubstitutions")
	defer span.End()

	matchID := r.PathValue("matchID")
	events, err := h.substitutionService.ListByMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list substitutions failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]substitutionDTO, 0, len(events))
	for _, e := range events {
		items = append(items, substitutionToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ProposeSubstitution(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProposeSubstitution")
	defer span.End()

	actorID, err := h.actorID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	matchID := r.PathValue("matchID")

	var req proposeSubstitutionRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.substitutionService.Propose(ctx, usecase.ProposeSubstitutionInput{
		ActorID:       actorID,
		MatchID:       matchID,
		Side:          req.Side,
		PlayerInID:    req.PlayerInID,
		PlayerOutID:   req.PlayerOutID,
		Period:        req.Period,
		TimeRemaining: time.Duration(req.RemainingSeconds) * time.Second,
		Reason:        req.Reason,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "propose substitution failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, substitutionToDTO(created))
}

func (h *Handler) RetractSubstitution(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RetractSubstitution")
	defer span.End()

	actorID, err := h.actorID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	matchID := r.PathValue("matchID")
	substitutionID := r.PathValue("substitutionID")

	err = h.substitutionService.Retract(ctx, usecase.RetractSubstitutionInput{
		ActorID:        actorID,
		MatchID:        matchID,
		SubstitutionID: substitutionID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "retract substitution failed", "match_id", matchID, "substitution_id", substitutionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"retracted": substitutionID})
}
