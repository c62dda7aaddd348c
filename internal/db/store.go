package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/XavierBriggs/paddock/pkg/models"
	_ "github.com/lib/pq"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrNotFound is returned when a lookup matches no rows.
var ErrNotFound = errors.New("not found")

// Store defines the read interface the championship engine's collaborators
// use: season calendars, classified result rows, and display metadata.
// DriverSeasons returns ErrNotFound instead of an empty slice when the driver
// has no results at all.
type Store interface {
	SeasonCalendar(ctx context.Context, year int) ([]models.Round, error)
	SeasonEntries(ctx context.Context, year int) ([]models.ResultEntry, error)
	DriverMeta(ctx context.Context, year int) (map[string]models.EntityMeta, error)
	TeamMeta(ctx context.Context) (map[string]models.EntityMeta, error)
	FindDriverByName(ctx context.Context, name string) (*models.Driver, error)
	DriverSeasons(ctx context.Context, driverID string) ([]int, error)
	Seasons(ctx context.Context) ([]int, error)
	Close() error
	Ping(ctx context.Context) error
}

// Client implements Store over Postgres.
type Client struct {
	db *sql.DB
}

// NewClient opens a Postgres connection pool and verifies connectivity.
func NewClient(dsn string) (*Client, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db}, nil
}

// NewClientFromDB wraps an existing connection, mainly for the sync CLI which
// shares one pool between reads and ingest writes.
func NewClientFromDB(db *sql.DB) *Client {
	return &Client{db: db}
}

// SeasonCalendar returns the ordered rounds of a season, independent of who
// participated.
func (c *Client) SeasonCalendar(ctx context.Context, year int) ([]models.Round, error) {
	query := `
		SELECT round_number, event_name, country, has_sprint, event_date
		FROM races
		WHERE year = $1
		ORDER BY round_number
	`

	rows, err := c.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("query calendar: %w", err)
	}
	defer rows.Close()

	var calendar []models.Round
	for rows.Next() {
		var r models.Round
		var eventDate sql.NullTime
		if err := rows.Scan(&r.RoundNumber, &r.EventName, &r.Country, &r.HasSprint, &eventDate); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		if eventDate.Valid {
			r.EventDate = eventDate.Time
		}
		calendar = append(calendar, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calendar: %w", err)
	}

	return calendar, nil
}

// SeasonEntries returns every classified result row for a season, ordered by
// round. Drivers absent from a round are simply absent from its rows.
func (c *Client) SeasonEntries(ctx context.Context, year int) ([]models.ResultEntry, error) {
	query := `
		SELECT sr.driver_id, sr.team_id, r.round_number, r.event_name, r.country,
		       sr.session_kind, sr.position, sr.fastest_lap
		FROM session_results sr
		JOIN races r ON sr.year = r.year AND sr.round_number = r.round_number
		WHERE sr.year = $1
		ORDER BY r.round_number, sr.session_kind, sr.position NULLS LAST
	`

	rows, err := c.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("query season results: %w", err)
	}
	defer rows.Close()

	var entries []models.ResultEntry
	for rows.Next() {
		var e models.ResultEntry
		var kind string
		var position sql.NullInt64
		if err := rows.Scan(
			&e.DriverID, &e.TeamID, &e.RoundNumber, &e.EventName, &e.Country,
			&kind, &position, &e.HadFastestLap,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		e.SessionKind = models.SessionKind(kind)
		if position.Valid {
			p := int(position.Int64)
			e.FinishPosition = &p
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate season results: %w", err)
	}

	return entries, nil
}

// DriverMeta returns display metadata for every driver who has a result in
// the season. The team shown is the one from the driver's most recent round,
// which matters for mid-season seat swaps.
func (c *Client) DriverMeta(ctx context.Context, year int) (map[string]models.EntityMeta, error) {
	query := `
		WITH driver_latest_team AS (
			SELECT d.id AS driver_id, d.display_name, d.abbreviation,
			       t.display_name AS team_name, t.logo_url,
			       ROW_NUMBER() OVER (PARTITION BY d.id ORDER BY sr.round_number DESC) AS rn
			FROM session_results sr
			JOIN drivers d ON sr.driver_id = d.id
			JOIN teams t ON sr.team_id = t.id
			WHERE sr.year = $1 AND sr.session_kind = 'Race'
		)
		SELECT driver_id, display_name, abbreviation, team_name, logo_url
		FROM driver_latest_team
		WHERE rn = 1
	`

	rows, err := c.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("query driver meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]models.EntityMeta)
	for rows.Next() {
		var id string
		var m models.EntityMeta
		var logo sql.NullString
		if err := rows.Scan(&id, &m.DisplayName, &m.Abbreviation, &m.TeamName, &logo); err != nil {
			return nil, fmt.Errorf("scan driver meta: %w", err)
		}
		m.LogoURL = logo.String
		meta[id] = m
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate driver meta: %w", err)
	}

	return meta, nil
}

// TeamMeta returns display metadata for all teams.
func (c *Client) TeamMeta(ctx context.Context) (map[string]models.EntityMeta, error) {
	query := `SELECT id, display_name, logo_url, color FROM teams`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query team meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]models.EntityMeta)
	for rows.Next() {
		var id string
		var m models.EntityMeta
		var logo, color sql.NullString
		if err := rows.Scan(&id, &m.DisplayName, &logo, &color); err != nil {
			return nil, fmt.Errorf("scan team meta: %w", err)
		}
		m.LogoURL = logo.String
		m.Color = color.String
		meta[id] = m
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team meta: %w", err)
	}

	return meta, nil
}

// FindDriverByName resolves a driver by display name. Exact (case
// insensitive) matches win; otherwise the closest name by Levenshtein
// distance is used, so URL slugs like "max-verstappen" and minor misspellings
// still resolve.
func (c *Client) FindDriverByName(ctx context.Context, name string) (*models.Driver, error) {
	normalized := strings.ToLower(strings.ReplaceAll(name, "-", " "))

	query := `SELECT id, display_name, abbreviation, number, headshot_url FROM drivers`
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query drivers: %w", err)
	}
	defer rows.Close()

	var drivers []models.Driver
	for rows.Next() {
		var d models.Driver
		var number, headshot sql.NullString
		if err := rows.Scan(&d.ID, &d.DisplayName, &d.Abbreviation, &number, &headshot); err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}
		d.Number = number.String
		d.HeadshotURL = headshot.String
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drivers: %w", err)
	}

	var best *models.Driver
	bestDistance := -1
	for i := range drivers {
		candidate := strings.ToLower(drivers[i].DisplayName)
		if candidate == normalized {
			return &drivers[i], nil
		}
		distance := fuzzy.LevenshteinDistance(normalized, candidate)
		if bestDistance == -1 || distance < bestDistance {
			best = &drivers[i]
			bestDistance = distance
		}
	}

	// Reject matches that are further away than a third of the name; a
	// garbage query should 404 rather than return an arbitrary driver.
	if best == nil || bestDistance > len(normalized)/3 {
		return nil, ErrNotFound
	}

	return best, nil
}

// DriverSeasons lists the years a driver has at least one result in,
// newest first.
func (c *Client) DriverSeasons(ctx context.Context, driverID string) ([]int, error) {
	query := `
		SELECT DISTINCT year FROM session_results
		WHERE driver_id = $1
		ORDER BY year DESC
	`

	rows, err := c.db.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, fmt.Errorf("query driver seasons: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, fmt.Errorf("scan season year: %w", err)
		}
		years = append(years, year)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate driver seasons: %w", err)
	}

	if len(years) == 0 {
		return nil, ErrNotFound
	}

	return years, nil
}

// Seasons lists every year with at least one cached race.
func (c *Client) Seasons(ctx context.Context) ([]int, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT DISTINCT year FROM races ORDER BY year DESC`)
	if err != nil {
		return nil, fmt.Errorf("query seasons: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, fmt.Errorf("scan year: %w", err)
		}
		years = append(years, year)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seasons: %w", err)
	}

	return years, nil
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// Ping checks database connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
