package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/XavierBriggs/paddock/internal/providers/espn"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxNameDistance is the largest Levenshtein distance still accepted when
// reconciling a cached name against an ESPN name. The two sources romanize
// names differently ("Perez" vs "Pérez"), so exact matching loses real
// drivers.
const maxNameDistance = 3

// Enricher reconciles cached identities with ESPN's separate ID scheme and
// copies over the display assets only ESPN has: driver headshots, team logos
// and colors.
type Enricher struct {
	espn   *espn.Client
	writer *Writer
	logger *slog.Logger
}

// NewEnricher creates an identity/branding enricher.
func NewEnricher(client *espn.Client, writer *Writer, logger *slog.Logger) *Enricher {
	return &Enricher{
		espn:   client,
		writer: writer,
		logger: logger,
	}
}

// EnrichSeason matches the season's cached drivers and teams against ESPN by
// name and stores headshots, logos, and colors for the ones that resolve.
// Unmatched entities are logged and skipped; missing artwork is cosmetic,
// unlike missing results.
func (e *Enricher) EnrichSeason(ctx context.Context, year int) error {
	if err := e.enrichDrivers(ctx, year); err != nil {
		return err
	}
	return e.enrichTeams(ctx, year)
}

func (e *Enricher) enrichDrivers(ctx context.Context, year int) error {
	cached, err := e.cachedNames(ctx, `SELECT id, display_name FROM drivers`)
	if err != nil {
		return err
	}
	if len(cached) == 0 {
		return nil
	}

	roster, err := e.espn.FetchSeasonAthletes(ctx, year)
	if err != nil {
		return fmt.Errorf("fetch season roster: %w", err)
	}

	matched := 0
	for _, ref := range roster.Items {
		var athlete espn.Athlete
		if err := e.espn.FetchRef(ctx, ref, &athlete); err != nil {
			return fmt.Errorf("fetch athlete: %w", err)
		}
		if athlete.Headshot == nil || athlete.Headshot.Href == "" {
			continue
		}

		driverID := matchName(athlete.FullName, cached)
		if driverID == "" {
			e.logger.Warn("no cached driver for ESPN athlete", "athlete", athlete.FullName, "year", year)
			continue
		}

		if err := e.writer.UpdateDriverHeadshot(ctx, driverID, athlete.Headshot.Href); err != nil {
			return err
		}
		matched++
	}

	e.logger.Info("drivers enriched", "year", year, "matched", matched, "roster", len(roster.Items))
	return nil
}

// enrichTeams pulls the constructor standings, whose manufacturer profiles
// carry the only logo and color data ESPN exposes, and attaches them to the
// cached teams.
func (e *Enricher) enrichTeams(ctx context.Context, year int) error {
	cached, err := e.cachedNames(ctx, `SELECT id, display_name FROM teams`)
	if err != nil {
		return err
	}
	if len(cached) == 0 {
		return nil
	}

	standings, err := e.espn.FetchConstructorStandings(ctx, year)
	if err != nil {
		return fmt.Errorf("fetch constructor standings: %w", err)
	}

	matched := 0
	for _, entry := range standings.Standings {
		if entry.Manufacturer.Ref == "" {
			continue
		}

		var team espn.Team
		if err := e.espn.FetchRef(ctx, entry.Manufacturer, &team); err != nil {
			return fmt.Errorf("fetch manufacturer: %w", err)
		}

		logoURL := teamLogo(team)
		if logoURL == "" && team.Color == "" {
			continue
		}

		name := team.DisplayName
		if name == "" {
			name = team.Name
		}
		teamID := matchName(name, cached)
		if teamID == "" {
			e.logger.Warn("no cached team for ESPN manufacturer", "manufacturer", name, "year", year)
			continue
		}

		if err := e.writer.UpdateTeamBranding(ctx, teamID, logoURL, team.Color); err != nil {
			return err
		}
		matched++
	}

	e.logger.Info("teams enriched", "year", year, "matched", matched, "standings", len(standings.Standings))
	return nil
}

func (e *Enricher) cachedNames(ctx context.Context, query string) (map[string]string, error) {
	rows, err := e.writer.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query cached names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan name row: %w", err)
		}
		names[id] = name
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate name rows: %w", err)
	}

	return names, nil
}

// matchName finds the cached entity whose name is closest to the ESPN name,
// within the accepted distance.
func matchName(espnName string, cached map[string]string) string {
	target := strings.ToLower(espnName)

	bestID := ""
	bestDistance := maxNameDistance + 1
	for id, name := range cached {
		distance := fuzzy.LevenshteinDistance(target, strings.ToLower(name))
		if distance < bestDistance {
			bestID = id
			bestDistance = distance
		}
	}

	return bestID
}

// teamLogo picks the first hosted logo, matching how the branding source
// orders its assets.
func teamLogo(team espn.Team) string {
	if len(team.Logos) == 0 {
		return ""
	}
	return team.Logos[0].Href
}
