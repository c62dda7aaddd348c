package championship_test

import (
	"errors"
	"testing"

	"github.com/XavierBriggs/paddock/internal/championship"
	"github.com/XavierBriggs/paddock/pkg/models"
)

func calendarOf(n int) []models.Round {
	rounds := make([]models.Round, 0, n)
	for i := 1; i <= n; i++ {
		rounds = append(rounds, models.Round{RoundNumber: i, EventName: "Round", Country: "Somewhere"})
	}
	return rounds
}

func TestAggregateDriversCombinesRaceAndSprint(t *testing.T) {
	rules := championship.RulesFor(2023)
	entries := []models.ResultEntry{
		{DriverID: "ver", TeamID: "rbr", RoundNumber: 4, SessionKind: models.SessionSprint, FinishPosition: pos(1)},
		{DriverID: "ver", TeamID: "rbr", RoundNumber: 4, SessionKind: models.SessionRace, FinishPosition: pos(1)},
	}

	agg, err := championship.AggregateDrivers(entries, rules, calendarOf(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rounds := agg["ver"]
	if len(rounds) != 1 {
		t.Fatalf("got %d rounds, want 1", len(rounds))
	}
	if rounds[0].Points == nil || *rounds[0].Points != 33 {
		t.Errorf("round 4 points = %v, want 33 (25 race + 8 sprint)", rounds[0].Points)
	}
}

func TestAggregateDriversQualifyingOnlyIsNotParticipation(t *testing.T) {
	rules := championship.RulesFor(2023)
	entries := []models.ResultEntry{
		// Qualified on pole, never started the race.
		{DriverID: "hul", TeamID: "haas", RoundNumber: 2, SessionKind: models.SessionQualifying, FinishPosition: pos(1)},
	}

	agg, err := championship.AggregateDrivers(entries, rules, calendarOf(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := agg["hul"]; ok {
		t.Error("qualifying-only entry created a scoring round; want no participation")
	}
}

func TestAggregateDriversDNFIsZeroNotAbsent(t *testing.T) {
	rules := championship.RulesFor(2023)
	entries := []models.ResultEntry{
		{DriverID: "sai", TeamID: "fer", RoundNumber: 1, SessionKind: models.SessionRace, FinishPosition: nil},
	}

	agg, err := championship.AggregateDrivers(entries, rules, calendarOf(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rounds := agg["sai"]
	if len(rounds) != 1 {
		t.Fatalf("got %d rounds, want 1", len(rounds))
	}
	if rounds[0].Points == nil {
		t.Fatal("DNF round has nil points; want explicit zero (participation happened)")
	}
	if *rounds[0].Points != 0 {
		t.Errorf("DNF points = %v, want 0", *rounds[0].Points)
	}
}

func TestAggregateConstructorsSumsBothCars(t *testing.T) {
	rules := championship.RulesFor(2023)
	entries := []models.ResultEntry{
		{DriverID: "ver", TeamID: "rbr", RoundNumber: 1, SessionKind: models.SessionRace, FinishPosition: pos(1)},
		{DriverID: "per", TeamID: "rbr", RoundNumber: 1, SessionKind: models.SessionRace, FinishPosition: pos(2)},
	}

	agg, err := championship.AggregateConstructors(entries, rules, calendarOf(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rounds := agg["rbr"]
	if len(rounds) != 1 || rounds[0].Points == nil {
		t.Fatalf("unexpected aggregation shape: %+v", rounds)
	}
	if *rounds[0].Points != 43 {
		t.Errorf("team round points = %v, want 43 (25 + 18)", *rounds[0].Points)
	}
}

func TestAggregateRejectsOffCalendarRound(t *testing.T) {
	rules := championship.RulesFor(2023)
	entries := []models.ResultEntry{
		{DriverID: "ver", TeamID: "rbr", RoundNumber: 9, SessionKind: models.SessionRace, FinishPosition: pos(1)},
	}

	_, err := championship.AggregateDrivers(entries, rules, calendarOf(5))
	if err == nil {
		t.Fatal("expected error for round outside the calendar")
	}

	var invalid *championship.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Errorf("error type = %T, want *InvalidInputError", err)
	}
}

func TestAggregateRejectsMissingEntityID(t *testing.T) {
	rules := championship.RulesFor(2023)
	entries := []models.ResultEntry{
		{DriverID: "", TeamID: "rbr", RoundNumber: 1, SessionKind: models.SessionRace, FinishPosition: pos(1)},
	}

	_, err := championship.AggregateDrivers(entries, rules, calendarOf(1))
	var invalid *championship.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Errorf("error = %v, want *InvalidInputError for empty entity id", err)
	}
}
