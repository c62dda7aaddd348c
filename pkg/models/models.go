package models

import "time"

// SessionKind identifies the competitive segment a result belongs to.
type SessionKind string

const (
	SessionRace       SessionKind = "Race"
	SessionSprint     SessionKind = "Sprint"
	SessionQualifying SessionKind = "Qualifying"
)

// ResultEntry is one classified participation record for a single session.
// FinishPosition is nil when the driver was not classified (DNF/DSQ with no
// recorded position), which is distinct from the driver being absent from the
// round entirely (no entry at all).
type ResultEntry struct {
	DriverID       string      `json:"driverId"`
	TeamID         string      `json:"teamId"`
	RoundNumber    int         `json:"roundNumber"`
	EventName      string      `json:"eventName"`
	Country        string      `json:"country"`
	SessionKind    SessionKind `json:"sessionKind"`
	FinishPosition *int        `json:"finishPosition"`
	HadFastestLap  bool        `json:"hadFastestLap"`
}

// Round is one points-paying event on a season calendar.
type Round struct {
	RoundNumber int       `json:"roundNumber"`
	EventName   string    `json:"eventName"`
	Country     string    `json:"country"`
	HasSprint   bool      `json:"hasSprint"`
	EventDate   time.Time `json:"eventDate"`
}

// EntityMeta is display-only information for a driver or team. The
// championship engine attaches it to output rows but never computes from it.
type EntityMeta struct {
	DisplayName  string `json:"displayName"`
	Abbreviation string `json:"abbreviation,omitempty"`
	TeamName     string `json:"teamName,omitempty"`
	LogoURL      string `json:"logoUrl,omitempty"`
	Color        string `json:"color,omitempty"`
}

// RoundPoints is the per-round scoring cell of a standings row. Points is nil
// for rounds the entity did not participate in.
type RoundPoints struct {
	RoundNumber int      `json:"roundNumber"`
	EventName   string   `json:"eventName"`
	Country     string   `json:"country"`
	Points      *float64 `json:"points"`
}

// StandingsRow is one ranked entity (driver or constructor) with its full
// calendar of round results.
type StandingsRow struct {
	EntityID     string        `json:"entityId"`
	DisplayName  string        `json:"displayName"`
	Abbreviation string        `json:"abbreviation,omitempty"`
	TeamName     string        `json:"teamName,omitempty"`
	LogoURL      string        `json:"logoUrl,omitempty"`
	TotalPoints  float64       `json:"totalPoints"`
	RaceResults  []RoundPoints `json:"raceResults"`
}

// RaceMetadata summarizes one round: who won, who took pole, and who won the
// sprint if the round had one. Winner fields are empty for rounds with no
// recorded results.
type RaceMetadata struct {
	RoundNumber       int    `json:"roundNumber"`
	EventName         string `json:"eventName"`
	Country           string `json:"country"`
	HasSprint         bool   `json:"hasSprint"`
	RaceWinner        string `json:"raceWinner,omitempty"`
	PolePosition      string `json:"polePosition,omitempty"`
	SprintWinner      string `json:"sprintWinner,omitempty"`
	ConstructorWinner string `json:"constructorWinner,omitempty"`
}

// SeasonReport is the complete championship picture for one year.
type SeasonReport struct {
	Year               int            `json:"year"`
	RaceMetadata       []RaceMetadata `json:"raceMetadata"`
	DriverResults      []StandingsRow `json:"driverResults"`
	ConstructorResults []StandingsRow `json:"constructorResults"`
}

// Driver is a stored driver identity row.
type Driver struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	Abbreviation string `json:"abbreviation"`
	Number       string `json:"number,omitempty"`
	HeadshotURL  string `json:"headshotUrl,omitempty"`
}

// Team is a stored constructor identity row.
type Team struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	LogoURL     string `json:"logoUrl,omitempty"`
	Color       string `json:"color,omitempty"`
}

// DriverRaceResult is one round of a driver season detail view.
type DriverRaceResult struct {
	Round          int     `json:"round"`
	RaceName       string  `json:"raceName"`
	Country        string  `json:"country"`
	GridPosition   *int    `json:"gridPosition"`
	FinishPosition *int    `json:"finishPosition"`
	Points         float64 `json:"points"`
}

// DriverSeasonDetail is the response shape for the driver detail endpoint.
type DriverSeasonDetail struct {
	Driver               Driver             `json:"driver"`
	Year                 int                `json:"year"`
	ChampionshipPosition int                `json:"championshipPosition"`
	TotalPoints          float64            `json:"totalPoints"`
	Wins                 int                `json:"wins"`
	Podiums              int                `json:"podiums"`
	Poles                int                `json:"poles"`
	RacesCompleted       int                `json:"racesCompleted"`
	RaceResults          []DriverRaceResult `json:"raceResults"`
}

// ErrorResponse is the standard error envelope for API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
