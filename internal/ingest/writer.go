package ingest

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/XavierBriggs/paddock/pkg/models"
)

// ResultRow is one classified entry ready to be cached, carrying the identity
// rows it depends on so a single transaction can upsert all three.
type ResultRow struct {
	Driver      models.Driver
	Team        models.Team
	SessionKind models.SessionKind
	Position    *int
	FastestLap  bool
	Status      string
}

// Writer persists ingested seasons into the Postgres cache.
type Writer struct {
	db *sql.DB
}

// NewWriter creates a new cache writer.
func NewWriter(db *sql.DB) *Writer {
	return &Writer{
		db: db,
	}
}

// UpsertRound writes or refreshes one calendar row.
func (w *Writer) UpsertRound(ctx context.Context, year int, round models.Round) error {
	query := `
		INSERT INTO races (year, round_number, event_name, country, has_sprint, event_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (year, round_number) DO UPDATE SET
			event_name = EXCLUDED.event_name,
			country = EXCLUDED.country,
			has_sprint = EXCLUDED.has_sprint,
			event_date = EXCLUDED.event_date,
			updated_at = NOW()
	`

	var eventDate interface{}
	if !round.EventDate.IsZero() {
		eventDate = round.EventDate
	}

	_, err := w.db.ExecContext(ctx, query,
		year, round.RoundNumber, round.EventName, round.Country, round.HasSprint, eventDate)
	if err != nil {
		return fmt.Errorf("failed to upsert round %d/%d: %w", year, round.RoundNumber, err)
	}

	return nil
}

// WriteSessionResults replaces one session's classification for a round:
// identities first, then the result rows, all in one transaction so a failed
// fetch never leaves a half-written session behind.
func (w *Writer) WriteSessionResults(ctx context.Context, year, round int, kind models.SessionKind, rows []ResultRow) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if commit doesn't happen

	driverQuery := `
		INSERT INTO drivers (id, display_name, abbreviation, number, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			abbreviation = EXCLUDED.abbreviation,
			number = EXCLUDED.number,
			updated_at = NOW()
	`

	teamQuery := `
		INSERT INTO teams (id, display_name, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			updated_at = NOW()
	`

	resultQuery := `
		INSERT INTO session_results (year, round_number, session_kind, driver_id, team_id, position, fastest_lap, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (year, round_number, session_kind, driver_id) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			position = EXCLUDED.position,
			fastest_lap = EXCLUDED.fastest_lap,
			status = EXCLUDED.status,
			updated_at = NOW()
	`

	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, driverQuery,
			row.Driver.ID, row.Driver.DisplayName, row.Driver.Abbreviation, row.Driver.Number); err != nil {
			return fmt.Errorf("failed to upsert driver %s: %w", row.Driver.ID, err)
		}

		if _, err := tx.ExecContext(ctx, teamQuery,
			row.Team.ID, row.Team.DisplayName); err != nil {
			return fmt.Errorf("failed to upsert team %s: %w", row.Team.ID, err)
		}

		var position interface{}
		if row.Position != nil {
			position = *row.Position
		}
		if _, err := tx.ExecContext(ctx, resultQuery,
			year, round, string(kind), row.Driver.ID, row.Team.ID, position, row.FastestLap, row.Status); err != nil {
			return fmt.Errorf("failed to upsert result %s/%s round %d: %w", row.Driver.ID, kind, round, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateDriverHeadshot attaches an ESPN headshot URL to a driver row.
func (w *Writer) UpdateDriverHeadshot(ctx context.Context, driverID, url string) error {
	_, err := w.db.ExecContext(ctx,
		`UPDATE drivers SET headshot_url = $2, updated_at = NOW() WHERE id = $1`, driverID, url)
	if err != nil {
		return fmt.Errorf("failed to update driver headshot: %w", err)
	}
	return nil
}

// UpdateTeamBranding attaches an ESPN logo and color to a team row.
func (w *Writer) UpdateTeamBranding(ctx context.Context, teamID, logoURL, color string) error {
	_, err := w.db.ExecContext(ctx,
		`UPDATE teams SET logo_url = $2, color = $3, updated_at = NOW() WHERE id = $1`, teamID, logoURL, color)
	if err != nil {
		return fmt.Errorf("failed to update team branding: %w", err)
	}
	return nil
}
