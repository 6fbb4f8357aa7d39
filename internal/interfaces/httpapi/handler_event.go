package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/match-tracker/internal/domain/gameevent"
	"github.com/riskibarqy/match-tracker/internal/domain/shot"
	"github.com/riskibarqy/match-tracker/internal/usecase"
)

type shotDTO struct {
	ID               string    `json:"id"`
	MatchID          string    `json:"match_id"`
	Side             string    `json:"side"`
	PlayerID         string    `json:"player_id"`
	X                float64   `json:"x"`
	Y                float64   `json:"y"`
	Result           string    `json:"result"`
	Period           int       `json:"period"`
	RemainingSeconds int64     `json:"remaining_seconds"`
	Distance         float64   `json:"distance"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func shotToDTO(e shot.Event) shotDTO {
	return shotDTO{
		ID:               e.ID,
		MatchID:          e.MatchID,
		Side:             string(e.Side),
		PlayerID:         e.PlayerID,
		X:                e.X,
		Y:                e.Y,
		Result:           string(e.Result),
		Period:           e.Period,
		RemainingSeconds: int64(e.TimeRemaining / time.Second),
		Distance:         e.Distance,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

type gameEventDTO struct {
	ID               string    `json:"id"`
	MatchID          string    `json:"match_id"`
	Side             string    `json:"side"`
	Type             string    `json:"type"`
	PlayerID         string    `json:"player_id,omitempty"`
	Period           int       `json:"period"`
	RemainingSeconds int64     `json:"remaining_seconds"`
	Details          string    `json:"details,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func gameEventToDTO(e gameevent.Event) gameEventDTO {
	return gameEventDTO{
		ID:               e.ID,
		MatchID:          e.MatchID,
		Side:             string(e.Side),
		Type:             string(e.Type),
		PlayerID:         e.PlayerID,
		Period:           e.Period,
		RemainingSeconds: int64(e.TimeRemaining / time.Second),
		Details:          e.Details,
		CreatedAt:        e.CreatedAt,
	}
}

type timelineEntryDTO struct {
	Kind      string        `json:"kind"`
	CreatedAt time.Time     `json:"created_at"`
	Shot      *shotDTO      `json:"shot,omitempty"`
	GameEvent *gameEventDTO `json:"game_event,omitempty"`
}

type recordShotRequest struct {
	Side             string  `json:"side" validate:"required,oneof=HOME AWAY home away"`
	PlayerID         string  `json:"player_id" validate:"required"`
	X                float64 `json:"x"`
	Y                float64 `json:"y"`
	Result           string  `json:"result" validate:"required"`
	Period           int     `json:"period" validate:"required,min=1"`
	RemainingSeconds int64   `json:"remaining_seconds" validate:"min=0"`
	Distance         float64 `json:"distance" validate:"min=0"`
}

type updateShotRequest struct {
	Result string `json:"result" validate:"required"`
}

type recordGameEventRequest struct {
	Side             string `json:"side" validate:"required,oneof=HOME AWAY home away"`
	Type             string `json:"type" validate:"required"`
	PlayerID         string `json:"player_id" validate:"omitempty"`
	Period           int    `json:"period" validate:"required,min=1"`
	RemainingSeconds int64  `json:"remaining_seconds" validate:"min=0"`
	Details          string `json:"details" validate:"omitempty,max=500"`
}

func (h *Handler) RecordShot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordShot")
	defer span.End()

	actorID, err := h.actorID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	matchID := r.PathValue("matchID")

	var req recordShotRequest
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

	created, err := h.eventService.RecordShot(ctx, usecase.RecordShotInput{
		ActorID:       actorID,
		MatchID:       matchID,
		Side:          req.Side,
		PlayerID:      req.PlayerID,
		X:             req.X,
		Y:             req.Y,
		Result:        req.Result,
		Period:        req.Period,
		TimeRemaining: time.Duration(req.RemainingSeconds) * time.Second,
		Distance:      req.Distance,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record shot failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, shotToDTO(created))
}

func (h *Handler) ListShots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListShots")
	defer span.End()

	matchID := r.PathValue("matchID")
	shots, err := h.eventService.ListShots(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list shots failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]shotDTO, 0, len(shots))
	for _, e := range shots {
		items = append(items, shotToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) UpdateShot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateShot")
	defer span.End()

	actorID, err := h.actorID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	shotID := r.PathValue("shotID")

	var req updateShotRequest
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

	updated, err := h.eventService.UpdateShot(ctx, usecase.UpdateShotInput{
		ActorID: actorID,
		ShotID:  shotID,
		Result:  req.Result,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update shot failed", "shot_id", shotID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, shotToDTO(updated))
}

func (h *Handler) DeleteShot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteShot")
	defer span.End()

	actorID, err := h.actorID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	shotID := r.PathValue("shotID")

	if err := h.eventService.DeleteShot(ctx, usecase.DeleteShotInput{
		ActorID: actorID,
		ShotID:  shotID,
	}); err != nil {
		h.logger.WarnContext(ctx, "delete shot failed", "shot_id", shotID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"deleted": shotID})
}

func (h *Handler) RecordGameEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordGameEvent")
	defer span.End()

	actorID, err := h.actorID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	matchID := r.PathValue("matchID")

	var req recordGameEventRequest
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

	created, err := h.eventService.RecordGameEvent(ctx, usecase.RecordGameEventInput{
		ActorID:       actorID,
		MatchID:       matchID,
		Side:          req.Side,
		Type:          req.Type,
		PlayerID:      req.PlayerID,
		Period:        req.Period,
		TimeRemaining: time.Duration(req.RemainingSeconds) * time.Second,
		Details:       req.Details,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record game event failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, gameEventToDTO(created))
}

func (h *Handler) GetMatchTimeline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchTimeline")
	defer span.End()

	matchID := r.PathValue("matchID")
	entries, err := h.eventService.ListMatchTimeline(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match timeline failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]timelineEntryDTO, 0, len(entries))
	for _, entry := range entries {
		item := timelineEntryDTO{
			Kind:      entry.Kind,
			CreatedAt: entry.CreatedAt,
		}
		if entry.Shot != nil {
			dto := shotToDTO(*entry.Shot)
			item.Shot = &dto
		}
		if entry.GameEvent != nil {
			dto := gameEventToDTO(*entry.GameEvent)
			item.GameEvent = &dto
		}
		items = append(items, item)
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
