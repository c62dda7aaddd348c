package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/XavierBriggs/paddock/internal/championship"
	"github.com/XavierBriggs/paddock/internal/db"
	"github.com/XavierBriggs/paddock/pkg/models"
	"github.com/go-chi/chi/v5"
)

// GetDriverSeasons lists the seasons a driver has results in. The name is
// resolved fuzzily, so "max-verstappen" and "Max Verstapen" both work.
// GET /api/v1/drivers/{name}/seasons
func (h *Handler) GetDriverSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	driver, err := h.resolveDriver(ctx, w, r)
	if err != nil {
		return
	}

	years, err := h.store.DriverSeasons(ctx, driver.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "driver has no recorded seasons", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to retrieve seasons", err)
		return
	}
	if len(years) == 0 {
		respondError(w, http.StatusNotFound, "driver has no recorded seasons", nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"driver":     driver.DisplayName,
		"seasons":    years,
		"debutYear":  years[len(years)-1],
		"latestYear": years[0],
	})
}

// GetDriverDetail returns one driver's season: race-by-race results with
// points, summary stats, and their championship position computed against
// the whole field.
// GET /api/v1/drivers/{name}?year=2024
func (h *Handler) GetDriverDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	driver, err := h.resolveDriver(ctx, w, r)
	if err != nil {
		return
	}

	year := parseIntQuery(r, "year", time.Now().UTC().Year())

	detail, err := h.driverSeasonDetail(ctx, *driver, year)
	if err != nil {
		respondComputeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// resolveDriver looks up the {name} URL parameter. On failure it writes the
// error response itself and returns a non-nil error so callers just return.
func (h *Handler) resolveDriver(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.Driver, error) {
	name := chi.URLParam(r, "name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "driver name is required", nil)
		return nil, errors.New("missing name")
	}

	driver, err := h.store.FindDriverByName(ctx, name)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "driver not found", nil)
			return nil, err
		}
		respondError(w, http.StatusInternalServerError, "failed to resolve driver", err)
		return nil, err
	}

	return driver, nil
}

func (h *Handler) driverSeasonDetail(ctx context.Context, driver models.Driver, year int) (*models.DriverSeasonDetail, error) {
	calendar, err := h.store.SeasonCalendar(ctx, year)
	if err != nil {
		return nil, err
	}
	if len(calendar) == 0 {
		return nil, db.ErrNotFound
	}

	entries, err := h.store.SeasonEntries(ctx, year)
	if err != nil {
		return nil, err
	}

	rules := championship.RulesFor(year)
	aggregated, err := championship.AggregateDrivers(entries, rules, calendar)
	if err != nil {
		return nil, err
	}

	rounds, ok := aggregated[driver.ID]
	if !ok {
		return nil, db.ErrNotFound
	}

	detail := &models.DriverSeasonDetail{
		Driver:               driver,
		Year:                 year,
		ChampionshipPosition: championship.PositionOf(driver.ID, championship.Totals(aggregated)),
		RacesCompleted:       len(rounds),
	}

	// Grid positions come from qualifying, wins and podiums from the race
	// classification.
	grid := make(map[int]*int)
	finish := make(map[int]*int)
	for _, entry := range entries {
		if entry.DriverID != driver.ID {
			continue
		}
		switch entry.SessionKind {
		case models.SessionQualifying:
			grid[entry.RoundNumber] = entry.FinishPosition
			if entry.FinishPosition != nil && *entry.FinishPosition == 1 {
				detail.Poles++
			}
		case models.SessionRace:
			finish[entry.RoundNumber] = entry.FinishPosition
			if entry.FinishPosition != nil {
				if *entry.FinishPosition == 1 {
					detail.Wins++
				}
				if *entry.FinishPosition <= 3 {
					detail.Podiums++
				}
			}
		}
	}

	for _, rp := range rounds {
		var points float64
		if rp.Points != nil {
			points = *rp.Points
		}
		detail.TotalPoints += points
		detail.RaceResults = append(detail.RaceResults, models.DriverRaceResult{
			Round:          rp.RoundNumber,
			RaceName:       rp.EventName,
			Country:        rp.Country,
			GridPosition:   grid[rp.RoundNumber],
			FinishPosition: finish[rp.RoundNumber],
			Points:         points,
		})
	}

	return detail, nil
}
