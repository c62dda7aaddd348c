package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/XavierBriggs/paddock/internal/providers/espn"
	"github.com/XavierBriggs/paddock/pkg/models"
)

// Drift is one driver whose computed season total disagrees with the total
// ESPN publishes. Drift usually means a missing or half-ingested round.
type Drift struct {
	DriverName string
	Computed   float64
	Reported   float64
}

// Verifier cross-checks computed standings against ESPN's published driver
// standings.
type Verifier struct {
	espn   *espn.Client
	logger *slog.Logger
}

// NewVerifier creates a standings cross-checker.
func NewVerifier(client *espn.Client, logger *slog.Logger) *Verifier {
	return &Verifier{
		espn:   client,
		logger: logger,
	}
}

// VerifySeason fetches ESPN's driver standings for a year and compares each
// published total against the computed standings rows. It returns one Drift
// per disagreement; an empty slice means the season reconciles.
func (v *Verifier) VerifySeason(ctx context.Context, year int, rows []models.StandingsRow) ([]Drift, error) {
	standings, err := v.espn.FetchDriverStandings(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("fetch driver standings: %w", err)
	}

	reported := make(map[string]float64, len(standings.Standings))
	for _, entry := range standings.Standings {
		if entry.Athlete.Ref == "" {
			continue
		}
		var athlete espn.Athlete
		if err := v.espn.FetchRef(ctx, entry.Athlete, &athlete); err != nil {
			return nil, fmt.Errorf("fetch athlete: %w", err)
		}
		reported[athlete.FullName] = entry.ChampionshipPoints()
	}

	drifts := compareTotals(reported, rows)
	v.logger.Info("season verified", "year", year, "published", len(reported), "drift", len(drifts))
	return drifts, nil
}

// compareTotals matches published driver names to computed rows fuzzily and
// collects every disagreement. A published driver with no computed row drifts
// against zero, which surfaces drivers the ingest never saw.
func compareTotals(reported map[string]float64, rows []models.StandingsRow) []Drift {
	names := make(map[string]string, len(rows))
	totals := make(map[string]float64, len(rows))
	for _, row := range rows {
		names[row.EntityID] = row.DisplayName
		totals[row.EntityID] = row.TotalPoints
	}

	var drifts []Drift
	for name, points := range reported {
		display := name
		var computed float64
		if id := matchName(name, names); id != "" {
			computed = totals[id]
			display = names[id]
		}
		if math.Abs(computed-points) > 1e-9 {
			drifts = append(drifts, Drift{
				DriverName: display,
				Computed:   computed,
				Reported:   points,
			})
		}
	}

	sort.Slice(drifts, func(i, j int) bool { return drifts[i].DriverName < drifts[j].DriverName })
	return drifts
}
