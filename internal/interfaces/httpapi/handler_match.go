package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/usecase"
)

type matchDTO struct {
	ID            string    `json:"id"`
	HomeClubID    string    `json:"home_club_id"`
	AwayClubID    string    `json:"away_club_id"`
	HomeTeamID    string    `json:"home_team_id,omitempty"`
	AwayTeamID    string    `json:"away_team_id,omitempty"`
	Status        string    `json:"status"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	HomeScore     int       `json:"home_score"`
	AwayScore     int       `json:"away_score"`
	PeriodCount   int       `json:"period_count"`
	PeriodSeconds int64     `json:"period_seconds"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:            m.ID,
		HomeClubID:    m.HomeClubID,
		AwayClubID:    m.AwayClubID,
		HomeTeamID:    m.HomeTeamID,
		AwayTeamID:    m.AwayTeamID,
		Status:        string(m.Status),
		ScheduledAt:   m.ScheduledAt,
		HomeScore:     m.HomeScore,
		AwayScore:     m.AwayScore,
		PeriodCount:   m.PeriodCount,
		PeriodSeconds: int64(m.PeriodDuration / time.Second),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

type createMatchRequest struct {
	HomeClubID    string    `json:"home_club_id" validate:"required"`
	AwayClubID    string    `json:"away_club_id" validate:"required"`
	HomeTeamID    string    `json:"home_team_id" validate:"omitempty"`
	AwayTeamID    string    `json:"away_team_id" validate:"omitempty"`
	ScheduledAt   time.Time `json:"scheduled_at" validate:"required"`
	PeriodCount   int       `json:"period_count" validate:"omitempty,min=1"`
	PeriodSeconds int64     `json:"period_seconds" validate:"omitempty,min=1"`
}

type transitionMatchRequest struct {
	Op          string     `json:"op" validate:"required,oneof=start end cancel reschedule"`
	ScheduledAt *time.Time `json:"scheduled_at" validate:"omitempty"`
}

type updateMatchRequest struct {
	ScheduledAt   *time.Time `json:"scheduled_at" validate:"omitempty"`
	PeriodCount   *int       `json:"period_count" validate:"omitempty,min=1"`
	PeriodSeconds *int64     `json:"period_seconds" validate:"omitempty,min=1"`
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	actorID, err := h.actorID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createMatchRequest
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

	created, err := h.matchService.Create(ctx, usecase.CreateMatchInput{
		ActorID:        actorID,
		HomeClubID:     req.HomeClubID,
		AwayClubID:     req.AwayClubID,
		HomeTeamID:     req.HomeTeamID,
		AwayTeamID:     req.AwayTeamID,
		ScheduledAt:    req.ScheduledAt,
		PeriodCount:    req.PeriodCount,
		PeriodDuration: time.Duration(req.PeriodSeconds) * time.Second,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(created))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	m, err := h.matchService.Get(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(m))
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	status := match.Status(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))))
	if status == "" {
		writeError(ctx, w, fmt.Errorf("%w: status query parameter is required", usecase.ErrInvalidInput))
		return
	}

	matches, err := h.matchService.ListByStatus(ctx, status)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "status", status, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) TransitionMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TransitionMatch")
	defer span.End()

	actorID, err := h.actorID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	matchID := r.PathValue("matchID")

	var req transitionMatchRequest
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

	op, ok := match.ParseTransitionOp(req.Op)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: unknown transition %q", usecase.ErrInvalidInput, req.Op))
		return
	}

	updated, err := h.matchService.Transition(ctx, usecase.TransitionMatchInput{
		ActorID:     actorID,
		MatchID:     matchID,
		Op:          op,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "transition match failed", "match_id", matchID, "op", req.Op, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(updated))
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatch")
	defer span.End()

	actorID, err := h.actorID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	matchID := r.PathValue("matchID")

	var req updateMatchRequest
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

	input := usecase.UpdateMatchInput{
		ActorID:     actorID,
		MatchID:     matchID,
		ScheduledAt: req.ScheduledAt,
		PeriodCount: req.PeriodCount,
	}
	if req.PeriodSeconds != nil {
		duration := time.Duration(*req.PeriodSeconds) * time.Second
		input.PeriodDuration = &duration
	}

	updated, err := h.matchService.Update(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "update match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(updated))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	actorID, err := h.actorID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	matchID := r.PathValue("matchID")

	if err := h.matchService.Delete(ctx, actorID, matchID); err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"deleted": matchID})
}
