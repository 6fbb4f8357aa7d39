package httpapi

import (
	"net/http"

	"github.com/riskibarqy/match-tracker/internal/domain/lineup"
)

type lineupPartitionDTO struct {
	Active []string `json:"active"`
	Bench  []string `json:"bench"`
}

type lineupDTO struct {
	Home lineupPartitionDTO `json:"home"`
	Away lineupPartitionDTO `json:"away"`
}

func lineupToDTO(l lineup.Lineup) lineupDTO {
	return lineupDTO{
		Home: lineupPartitionDTO{Active: l.Home.Active, Bench: l.Home.Bench},
		Away: lineupPartitionDTO{Active: l.Away.Active, Bench: l.Away.Bench},
	}
}

func (h *Handler) GetLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLineup")
	defer span.End()

	matchID := r.PathValue("matchID")
	derived, err := h.lineupService.GetActiveLineup(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get lineup failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(derived))
}
