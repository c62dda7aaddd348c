package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/XavierBriggs/paddock/internal/cache"
	"github.com/XavierBriggs/paddock/internal/championship"
	"github.com/XavierBriggs/paddock/internal/db"
	"github.com/XavierBriggs/paddock/pkg/models"
	"github.com/go-chi/chi/v5"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	store   db.Store
	reports *cache.ReportCache
}

// NewHandler creates a new handler with dependencies. The report cache is
// optional; a nil cache means every request recomputes from Postgres.
func NewHandler(store db.Store, reports *cache.ReportCache) *Handler {
	return &Handler{
		store:   store,
		reports: reports,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	// Check database connectivity
	if err := h.store.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unhealthy", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "paddock-api",
	})
}

// GetSeasons lists every cached season year
func (h *Handler) GetSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	years, err := h.store.Seasons(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve seasons", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"seasons": years,
		"count":   len(years),
	})
}

// seasonReport returns the championship report for a year, from cache when
// possible. Returns db.ErrNotFound for years with no cached calendar.
func (h *Handler) seasonReport(ctx context.Context, year int) (*models.SeasonReport, error) {
	if h.reports != nil {
		if report, err := h.reports.ReadReport(ctx, year); err == nil {
			return report, nil
		}
	}

	report, err := h.computeReport(ctx, year)
	if err != nil {
		return nil, err
	}

	if h.reports != nil {
		// Best effort; a cache write failure must not fail the request.
		_ = h.reports.WriteReport(ctx, report)
	}

	return report, nil
}

// RefreshSeason recomputes a season's report from Postgres and rewrites the
// cache entry, skipping any stale cached copy. The scheduled refresher calls
// this for the season currently running.
func (h *Handler) RefreshSeason(ctx context.Context, year int) error {
	report, err := h.computeReport(ctx, year)
	if err != nil {
		return err
	}
	if h.reports == nil {
		return nil
	}
	return h.reports.WriteReport(ctx, report)
}

func (h *Handler) computeReport(ctx context.Context, year int) (*models.SeasonReport, error) {
	calendar, err := h.store.SeasonCalendar(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("load calendar: %w", err)
	}
	if len(calendar) == 0 {
		return nil, db.ErrNotFound
	}

	entries, err := h.store.SeasonEntries(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}

	driverMeta, err := h.store.DriverMeta(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("load driver metadata: %w", err)
	}

	teamMeta, err := h.store.TeamMeta(ctx)
	if err != nil {
		return nil, fmt.Errorf("load team metadata: %w", err)
	}

	report, err := championship.BuildSeasonReport(year, calendar, entries, driverMeta, teamMeta)
	if err != nil {
		return nil, err
	}

	return &report, nil
}

// Helper functions

func yearParam(r *http.Request, param string) (int, error) {
	value := chi.URLParam(r, param)
	year, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("year must be an integer, got %q", value)
	}
	return year, nil
}

func parseIntQuery(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// respondComputeError maps engine and store failures onto status codes:
// invalid input is the caller's fault, a missing year is a 404, anything
// else is ours.
func respondComputeError(w http.ResponseWriter, err error) {
	var invalid *championship.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		respondError(w, http.StatusBadRequest, invalid.Reason, err)
	case errors.Is(err, db.ErrNotFound):
		respondError(w, http.StatusNotFound, "no data for requested season", nil)
	default:
		respondError(w, http.StatusInternalServerError, "failed to compute standings", err)
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("error encoding response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}

	if err != nil {
		fmt.Printf("error: %s - %v\n", message, err)
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		fmt.Printf("error encoding error response: %v\n", err)
	}
}
