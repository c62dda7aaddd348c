package championship_test

import (
	"testing"

	"github.com/XavierBriggs/paddock/internal/championship"
	"github.com/XavierBriggs/paddock/pkg/models"
)

func TestPositionOf(t *testing.T) {
	totals := map[string]float64{
		"ver": 454,
		"per": 260,
		"ham": 234,
		"alo": 206,
		"lec": 206,
		"nor": 205,
	}

	tests := []struct {
		name   string
		driver string
		want   int
	}{
		{"Leader", "ver", 1},
		{"Second", "per", 2},
		{"Third", "ham", 3},
		{"Tied fourth, first of pair", "alo", 4},
		{"Tied fourth, second of pair", "lec", 4},
		{"After a tie ranking is not dense", "nor", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := championship.PositionOf(tt.driver, totals); got != tt.want {
				t.Errorf("PositionOf(%s) = %d, want %d", tt.driver, got, tt.want)
			}
		})
	}
}

func TestPositionOfUnknownDriverRanksLast(t *testing.T) {
	totals := map[string]float64{"ver": 100, "ham": 50}

	// A driver absent from the totals has zero points and ranks behind every
	// scorer.
	if got := championship.PositionOf("missing", totals); got != 3 {
		t.Errorf("PositionOf(missing) = %d, want 3", got)
	}
}

func TestTotals(t *testing.T) {
	ten, twelve := 10.0, 12.5
	aggregated := map[string][]models.RoundPoints{
		"ver": {
			{RoundNumber: 1, Points: &ten},
			{RoundNumber: 2, Points: nil}, // skipped round contributes nothing
			{RoundNumber: 3, Points: &twelve},
		},
		"ham": {
			{RoundNumber: 1, Points: nil},
		},
	}

	totals := championship.Totals(aggregated)

	if totals["ver"] != 22.5 {
		t.Errorf("ver total = %v, want 22.5", totals["ver"])
	}
	if totals["ham"] != 0 {
		t.Errorf("ham total = %v, want 0", totals["ham"])
	}
}
