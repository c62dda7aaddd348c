package championship

import "github.com/XavierBriggs/paddock/pkg/models"

// PositionOf returns a driver's championship rank within a season given
// every competitor's total points: one plus the number of entities strictly
// ahead. Entities on equal points share the same rank (competition ranking,
// 1-1-3 rather than 1-2-3).
func PositionOf(driverID string, totals map[string]float64) int {
	own := totals[driverID]
	rank := 1
	for id, points := range totals {
		if id != driverID && points > own {
			rank++
		}
	}
	return rank
}

// Totals flattens standings rows (or any aggregation output) into the
// entity -> total points map PositionOf consumes.
func Totals(aggregated map[string][]models.RoundPoints) map[string]float64 {
	totals := make(map[string]float64, len(aggregated))
	for id, rounds := range aggregated {
		for _, rp := range rounds {
			if rp.Points != nil {
				totals[id] += *rp.Points
			}
		}
	}
	return totals
}
