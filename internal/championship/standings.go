package championship

import (
	"sort"

	"github.com/XavierBriggs/paddock/pkg/models"
)

// BuildSeasonReport is the engine entry point: given a season's calendar, its
// classified results, and display metadata for the entities involved, it
// produces the full championship picture for the year.
//
// The computation is pure and side-effect free; concurrent calls for
// different seasons need no coordination.
func BuildSeasonReport(year int, calendar []models.Round, entries []models.ResultEntry, driverMeta, teamMeta map[string]models.EntityMeta) (models.SeasonReport, error) {
	rules := RulesFor(year)

	drivers, err := AggregateDrivers(entries, rules, calendar)
	if err != nil {
		return models.SeasonReport{}, err
	}
	constructors, err := AggregateConstructors(entries, rules, calendar)
	if err != nil {
		return models.SeasonReport{}, err
	}

	return models.SeasonReport{
		Year:               year,
		RaceMetadata:       buildRaceMetadata(calendar, entries, rules, driverMeta, teamMeta),
		DriverResults:      assembleRows(calendar, drivers, driverMeta),
		ConstructorResults: assembleRows(calendar, constructors, teamMeta),
	}, nil
}

// assembleRows turns aggregated round maps into ranked standings rows. Every
// row carries one RoundPoints per calendar round, in calendar order; rounds
// the entity skipped get nil points so consumers can distinguish absence from
// scoring zero.
func assembleRows(calendar []models.Round, aggregated map[string][]models.RoundPoints, meta map[string]models.EntityMeta) []models.StandingsRow {
	rows := make([]models.StandingsRow, 0, len(aggregated))

	for entityID, rounds := range aggregated {
		byRound := make(map[int]models.RoundPoints, len(rounds))
		for _, rp := range rounds {
			byRound[rp.RoundNumber] = rp
		}

		results := make([]models.RoundPoints, 0, len(calendar))
		var total float64
		for _, round := range calendar {
			rp, ok := byRound[round.RoundNumber]
			if !ok {
				rp = models.RoundPoints{
					RoundNumber: round.RoundNumber,
					EventName:   round.EventName,
					Country:     round.Country,
				}
			}
			if rp.Points != nil {
				total += *rp.Points
			}
			results = append(results, rp)
		}

		// An entity missing from the metadata source still gets a row; only
		// its display fields stay empty.
		m := meta[entityID]
		rows = append(rows, models.StandingsRow{
			EntityID:     entityID,
			DisplayName:  m.DisplayName,
			Abbreviation: m.Abbreviation,
			TeamName:     m.TeamName,
			LogoURL:      m.LogoURL,
			TotalPoints:  total,
			RaceResults:  results,
		})
	}

	// Descending points; ties ordered by display name, then entity ID, so
	// output is deterministic across runs.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		if rows[i].DisplayName != rows[j].DisplayName {
			return rows[i].DisplayName < rows[j].DisplayName
		}
		return rows[i].EntityID < rows[j].EntityID
	})

	return rows
}

type teamScore struct {
	points       float64
	bestPosition int
}

// buildRaceMetadata records, for every calendar round, the race winner, the
// pole sitter, the sprint winner, and the top-scoring constructor. Rounds
// with no recorded results keep all winner fields empty.
func buildRaceMetadata(calendar []models.Round, entries []models.ResultEntry, rules SeasonRules, driverMeta, teamMeta map[string]models.EntityMeta) []models.RaceMetadata {
	winners := make(map[int]string)
	poles := make(map[int]string)
	sprintWinners := make(map[int]string)
	teamScores := make(map[int]map[string]*teamScore)

	for _, entry := range entries {
		if entry.FinishPosition != nil && *entry.FinishPosition == 1 {
			switch entry.SessionKind {
			case models.SessionRace:
				winners[entry.RoundNumber] = driverLabel(entry.DriverID, driverMeta)
			case models.SessionQualifying:
				poles[entry.RoundNumber] = driverLabel(entry.DriverID, driverMeta)
			case models.SessionSprint:
				sprintWinners[entry.RoundNumber] = driverLabel(entry.DriverID, driverMeta)
			}
		}

		if entry.SessionKind != models.SessionRace {
			continue
		}
		scores, ok := teamScores[entry.RoundNumber]
		if !ok {
			scores = make(map[string]*teamScore)
			teamScores[entry.RoundNumber] = scores
		}
		score, ok := scores[entry.TeamID]
		if !ok {
			score = &teamScore{bestPosition: int(^uint(0) >> 1)}
			scores[entry.TeamID] = score
		}
		score.points += PointsFor(entry, rules)
		if entry.FinishPosition != nil && *entry.FinishPosition < score.bestPosition {
			score.bestPosition = *entry.FinishPosition
		}
	}

	metadata := make([]models.RaceMetadata, 0, len(calendar))
	for _, round := range calendar {
		metadata = append(metadata, models.RaceMetadata{
			RoundNumber:       round.RoundNumber,
			EventName:         round.EventName,
			Country:           round.Country,
			HasSprint:         round.HasSprint,
			RaceWinner:        winners[round.RoundNumber],
			PolePosition:      poles[round.RoundNumber],
			SprintWinner:      sprintWinners[round.RoundNumber],
			ConstructorWinner: topTeam(teamScores[round.RoundNumber], teamMeta),
		})
	}

	return metadata
}

// topTeam picks the constructor with the highest race-session points for a
// round. Ties go to the team with the better best finish, then team name.
func topTeam(scores map[string]*teamScore, teamMeta map[string]models.EntityMeta) string {
	var bestID string
	var best *teamScore
	for teamID, score := range scores {
		if best == nil || score.points > best.points ||
			(score.points == best.points && score.bestPosition < best.bestPosition) ||
			(score.points == best.points && score.bestPosition == best.bestPosition && teamLabel(teamID, teamMeta) < teamLabel(bestID, teamMeta)) {
			bestID, best = teamID, score
		}
	}
	if bestID == "" {
		return ""
	}
	return teamLabel(bestID, teamMeta)
}

func driverLabel(driverID string, meta map[string]models.EntityMeta) string {
	if m, ok := meta[driverID]; ok && m.Abbreviation != "" {
		return m.Abbreviation
	}
	if m, ok := meta[driverID]; ok && m.DisplayName != "" {
		return m.DisplayName
	}
	return driverID
}

func teamLabel(teamID string, meta map[string]models.EntityMeta) string {
	if m, ok := meta[teamID]; ok && m.DisplayName != "" {
		return m.DisplayName
	}
	return teamID
}
