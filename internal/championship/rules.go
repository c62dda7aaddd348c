package championship

// SeasonRules holds the scoring rules in force for one championship year.
// Scoring changed materially across F1 history: table sizes, fastest-lap
// bonuses, and sprint races all came and went. Instances are immutable after
// RulesFor returns them and safe for concurrent reads.
type SeasonRules struct {
	Year int

	// RacePoints maps finishing position to points for the main race.
	RacePoints map[int]float64

	// SprintPoints maps finishing position to points for sprint races.
	// Empty before 2021.
	SprintPoints map[int]float64

	// FastestLapEligible is true when the fastest lap of the race earns a
	// bonus point (1950-1959 and 2019 onward).
	FastestLapEligible bool

	// FastestLapTopN caps fastest-lap eligibility to drivers finishing at or
	// above this position. 0 means no cap (the 1950s rule).
	FastestLapTopN int

	// HalfPointsRounds lists rounds of this season where race points were
	// halved (shortened/red-flagged races).
	HalfPointsRounds map[int]bool
}

var (
	pointsModern = map[int]float64{1: 25, 2: 18, 3: 15, 4: 12, 5: 10, 6: 8, 7: 6, 8: 4, 9: 2, 10: 1}
	points2003   = map[int]float64{1: 10, 2: 8, 3: 6, 4: 5, 5: 4, 6: 3, 7: 2, 8: 1}
	points1991   = map[int]float64{1: 10, 2: 6, 3: 4, 4: 3, 5: 2, 6: 1}
	points1961   = map[int]float64{1: 9, 2: 6, 3: 4, 4: 3, 5: 2, 6: 1}
	points1960   = map[int]float64{1: 8, 2: 6, 3: 4, 4: 3, 5: 2, 6: 1}
	points1950   = map[int]float64{1: 8, 2: 6, 3: 4, 4: 3, 5: 2}

	sprintPoints = map[int]float64{1: 8, 2: 7, 3: 6, 4: 5, 5: 4, 6: 3, 7: 2, 8: 1}

	// Curated list of races scored at half points. 1984 round 6 (Monaco,
	// stopped at 31 laps) and 2021 round 12 (Spa, two laps behind the safety
	// car). Further red-flagged races are one-line additions here.
	halfPointsRounds = map[int]map[int]bool{
		1984: {6: true},
		2021: {12: true},
	}
)

// RulesFor returns the scoring rules for a championship year. It is total
// over all integers: years before 1950 get the 1950 table, future years get
// the current one.
func RulesFor(year int) SeasonRules {
	rules := SeasonRules{Year: year, HalfPointsRounds: halfPointsRounds[year]}

	switch {
	case year >= 2010:
		rules.RacePoints = pointsModern
	case year >= 2003:
		rules.RacePoints = points2003
	case year >= 1991:
		rules.RacePoints = points1991
	case year >= 1961:
		rules.RacePoints = points1961
	case year == 1960:
		rules.RacePoints = points1960
	default:
		rules.RacePoints = points1950
	}

	if year >= 2021 {
		rules.SprintPoints = sprintPoints
	}

	// The fastest-lap point existed 1950-1959 with no position requirement
	// and returned in 2019 restricted to top-ten finishers.
	switch {
	case year <= 1959:
		rules.FastestLapEligible = true
	case year >= 2019:
		rules.FastestLapEligible = true
		rules.FastestLapTopN = 10
	}

	return rules
}
