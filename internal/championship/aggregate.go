package championship

import (
	"sort"

	"github.com/XavierBriggs/paddock/pkg/models"
)

// AggregateDrivers folds a season's classified results into per-driver,
// per-round point totals. A driver with both a race and a sprint entry for
// the same round gets the sum of both. Only rounds the driver actually
// entered appear in the output; missing rounds are filled in with nil points
// by the standings assembler.
func AggregateDrivers(entries []models.ResultEntry, rules SeasonRules, calendar []models.Round) (map[string][]models.RoundPoints, error) {
	return aggregate(entries, rules, calendar, func(e models.ResultEntry) string { return e.DriverID })
}

// AggregateConstructors is AggregateDrivers keyed by team: both of a team's
// cars contribute to the same round total.
func AggregateConstructors(entries []models.ResultEntry, rules SeasonRules, calendar []models.Round) (map[string][]models.RoundPoints, error) {
	return aggregate(entries, rules, calendar, func(e models.ResultEntry) string { return e.TeamID })
}

func aggregate(entries []models.ResultEntry, rules SeasonRules, calendar []models.Round, keyOf func(models.ResultEntry) string) (map[string][]models.RoundPoints, error) {
	rounds := make(map[int]models.Round, len(calendar))
	for _, r := range calendar {
		rounds[r.RoundNumber] = r
	}

	// entity -> round -> accumulated points. A group existing at all proves
	// participation, so totals start at 0, never nil.
	acc := make(map[string]map[int]*models.RoundPoints)

	for _, entry := range entries {
		round, ok := rounds[entry.RoundNumber]
		if !ok {
			return nil, invalidInputf("round %d is not on the %d-round calendar", entry.RoundNumber, len(calendar))
		}

		key := keyOf(entry)
		if key == "" {
			return nil, invalidInputf("result for round %d has no entity id", entry.RoundNumber)
		}

		// Qualifying sets the grid, not the score. A driver who qualified but
		// never started a race or sprint did not participate for scoring
		// purposes, so qualifying entries must not open a round group.
		if entry.SessionKind == models.SessionQualifying {
			continue
		}

		byRound, ok := acc[key]
		if !ok {
			byRound = make(map[int]*models.RoundPoints)
			acc[key] = byRound
		}

		rp, ok := byRound[entry.RoundNumber]
		if !ok {
			zero := 0.0
			rp = &models.RoundPoints{
				RoundNumber: round.RoundNumber,
				EventName:   round.EventName,
				Country:     round.Country,
				Points:      &zero,
			}
			byRound[entry.RoundNumber] = rp
		}

		*rp.Points += PointsFor(entry, rules)
	}

	out := make(map[string][]models.RoundPoints, len(acc))
	for key, byRound := range acc {
		rps := make([]models.RoundPoints, 0, len(byRound))
		for _, rp := range byRound {
			rps = append(rps, *rp)
		}
		sort.Slice(rps, func(i, j int) bool { return rps[i].RoundNumber < rps[j].RoundNumber })
		out[key] = rps
	}

	return out, nil
}
