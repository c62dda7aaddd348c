package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/XavierBriggs/paddock/internal/db"
)

// GetSchedule returns the calendar for a season.
// GET /api/v1/schedule/{year}
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	year, err := yearParam(r, "year")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	calendar, err := h.store.SeasonCalendar(ctx, year)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve schedule", err)
		return
	}
	if len(calendar) == 0 {
		respondComputeError(w, db.ErrNotFound)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"year":   year,
		"rounds": calendar,
		"count":  len(calendar),
	})
}
