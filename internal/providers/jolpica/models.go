package jolpica

// The Ergast-compatible API serializes every number as a string; conversion
// happens at the ingest boundary, not here.

// envelope is the MRData wrapper every endpoint shares.
type envelope struct {
	MRData struct {
		Total     string     `json:"total"`
		RaceTable *raceTable `json:"RaceTable"`
	} `json:"MRData"`
}

type raceTable struct {
	Season string `json:"season"`
	Races  []Race `json:"Races"`
}

// Race is one round of a season, with whichever result lists the endpoint
// includes.
type Race struct {
	Season   string  `json:"season"`
	Round    string  `json:"round"`
	RaceName string  `json:"raceName"`
	Date     string  `json:"date"`
	Circuit  Circuit `json:"Circuit"`

	// Sprint is present on schedule rows for sprint weekends.
	Sprint *SessionDate `json:"Sprint"`

	Results           []Result `json:"Results"`
	SprintResults     []Result `json:"SprintResults"`
	QualifyingResults []Result `json:"QualifyingResults"`
}

// Circuit identifies the venue.
type Circuit struct {
	CircuitID   string `json:"circuitId"`
	CircuitName string `json:"circuitName"`
	Location    struct {
		Locality string `json:"locality"`
		Country  string `json:"country"`
	} `json:"Location"`
}

// SessionDate marks a scheduled session within a weekend.
type SessionDate struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// Result is one classified entry in a session.
type Result struct {
	Number       string      `json:"number"`
	Position     string      `json:"position"`
	PositionText string      `json:"positionText"`
	Points       string      `json:"points"`
	Status       string      `json:"status"`
	Driver       Driver      `json:"Driver"`
	Constructor  Constructor `json:"Constructor"`
	FastestLap   *FastestLap `json:"FastestLap"`
}

// Driver identifies a competitor.
type Driver struct {
	DriverID        string `json:"driverId"`
	Code            string `json:"code"`
	PermanentNumber string `json:"permanentNumber"`
	GivenName       string `json:"givenName"`
	FamilyName      string `json:"familyName"`
}

// Constructor identifies a team.
type Constructor struct {
	ConstructorID string `json:"constructorId"`
	Name          string `json:"name"`
}

// FastestLap marks a result's fastest-lap standing; rank "1" means the
// fastest lap of the race.
type FastestLap struct {
	Rank string `json:"rank"`
	Lap  string `json:"lap"`
}

// FullName returns the driver's display name.
func (d Driver) FullName() string {
	return d.GivenName + " " + d.FamilyName
}

// HadFastestLap reports whether this result set the race's fastest lap.
func (r Result) HadFastestLap() bool {
	return r.FastestLap != nil && r.FastestLap.Rank == "1"
}

// Classified reports whether the entry has a real finishing position.
// Ergast position text uses "R" (retired), "D" (disqualified), "W"
// (withdrawn) and similar markers for unclassified entries.
func (r Result) Classified() bool {
	switch r.PositionText {
	case "R", "D", "E", "W", "F", "N", "":
		return false
	}
	return true
}
