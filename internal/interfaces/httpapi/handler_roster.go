package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/match-tracker/internal/domain/roster"
	"github.com/riskibarqy/match-tracker/internal/usecase"
)

type rosterEntryDTO struct {
	ID               string    `json:"id"`
	MatchID          string    `json:"match_id"`
	Side             string    `json:"side"`
	PlayerID         string    `json:"player_id"`
	IsStarting       bool      `json:"is_starting"`
	IsCaptain        bool      `json:"is_captain"`
	StartingPosition string    `json:"starting_position,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func rosterEntryToDTO(e roster.Entry) rosterEntryDTO {
	return rosterEntryDTO{
		ID:               e.ID,
		MatchID:          e.MatchID,
		Side:             string(e.Side),
		PlayerID:         e.PlayerID,
		IsStarting:       e.IsStarting,
		IsCaptain:        e.IsCaptain,
		StartingPosition: e.StartingPosition,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

type replaceRosterEntryRequest struct {
	Side             string `json:"side" validate:"required,oneof=HOME AWAY home away"`
	PlayerID         string `json:"player_id" validate:"required"`
	IsStarting       bool   `json:"is_starting"`
	IsCaptain        bool   `json:"is_captain"`
	StartingPosition string `json:"starting_position" validate:"omitempty,max=20"`
}

type replaceRosterRequest struct {
	Entries []replaceRosterEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

type updateRosterEntryRequest struct {
	IsStarting *bool `json:"is_starting"`
	IsCaptain  *bool `json:"is_captain"`
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoster")
	defer span.End()

	matchID := r.PathValue("matchID")
	entries, err := h.rosterService.ListByMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get roster failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rosterEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, rosterEntryToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ReplaceRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReplaceRoster")
	defer span.End()

	actorID, err := h.actorID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	matchID := r.PathValue("matchID")

	var req replaceRosterRequest
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

	entries := make([]usecase.ReplaceRosterEntryInput, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, usecase.ReplaceRosterEntryInput{
			Side:             e.Side,
			PlayerID:         e.PlayerID,
			IsStarting:       e.IsStarting,
			IsCaptain:        e.IsCaptain,
			StartingPosition: e.StartingPosition,
		})
	}

	replaced, err := h.rosterService.Replace(ctx, usecase.ReplaceRosterInput{
		ActorID: actorID,
		MatchID: matchID,
		Entries: entries,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "replace roster failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rosterEntryDTO, 0, len(replaced))
	for _, e := range replaced {
		items = append(items, rosterEntryToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) UpdateRosterEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateRosterEntry")
	defer span.End()

	actorID, err := h.actorID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	entryID := r.PathValue("entryID")

	var req updateRosterEntryRequest
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

	updated, err := h.rosterService.UpdateEntry(ctx, usecase.UpdateRosterEntryInput{
		ActorID:    actorID,
		EntryID:    entryID,
		IsStarting: req.IsStarting,
		IsCaptain:  req.IsCaptain,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update roster entry failed", "entry_id", entryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterEntryToDTO(updated))
}
