package championship

import "github.com/XavierBriggs/paddock/pkg/models"

// PointsFor computes the championship points a single session result is worth
// under the given season's rules.
//
// Qualifying never pays points (pole position is tracked as race metadata).
// A nil or unclassified finishing position is worth zero, not an error: a DNF
// is a legitimate zero-point outcome. Half-points rounds halve the race table
// value before the fastest-lap bonus is added.
func PointsFor(entry models.ResultEntry, rules SeasonRules) float64 {
	switch entry.SessionKind {
	case models.SessionQualifying:
		return 0

	case models.SessionSprint:
		if entry.FinishPosition == nil {
			return 0
		}
		return rules.SprintPoints[*entry.FinishPosition]

	case models.SessionRace:
		var points float64
		if entry.FinishPosition != nil {
			points = rules.RacePoints[*entry.FinishPosition]
		}
		if rules.HalfPointsRounds[entry.RoundNumber] {
			points /= 2
		}
		if fastestLapCounts(entry, rules) {
			points++
		}
		return points
	}

	return 0
}

// fastestLapCounts reports whether the entry earns the fastest-lap bonus:
// the rule must be in force, the driver must be classified, and in the modern
// era they must finish inside the top-N window.
func fastestLapCounts(entry models.ResultEntry, rules SeasonRules) bool {
	if !rules.FastestLapEligible || !entry.HadFastestLap || entry.FinishPosition == nil {
		return false
	}
	return rules.FastestLapTopN == 0 || *entry.FinishPosition <= rules.FastestLapTopN
}
