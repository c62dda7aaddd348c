package handlers

import (
	"context"
	"net/http"
	"time"
)

// GetSeasonStandings returns the complete championship report for a year:
// race metadata plus ranked driver and constructor tables with race-by-race
// points.
// GET /api/v1/standings/{year}
func (h *Handler) GetSeasonStandings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	year, err := yearParam(r, "year")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	report, err := h.seasonReport(ctx, year)
	if err != nil {
		respondComputeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetDriverStandings returns only the ranked driver table for a year.
// GET /api/v1/standings/{year}/drivers
func (h *Handler) GetDriverStandings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	year, err := yearParam(r, "year")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	report, err := h.seasonReport(ctx, year)
	if err != nil {
		respondComputeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"year":      report.Year,
		"standings": report.DriverResults,
		"count":     len(report.DriverResults),
	})
}

// GetConstructorStandings returns only the ranked constructor table for a year.
// GET /api/v1/standings/{year}/constructors
func (h *Handler) GetConstructorStandings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	year, err := yearParam(r, "year")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	report, err := h.seasonReport(ctx, year)
	if err != nil {
		respondComputeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"year":      report.Year,
		"standings": report.ConstructorResults,
		"count":     len(report.ConstructorResults),
	})
}
