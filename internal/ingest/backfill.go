package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/XavierBriggs/paddock/internal/cache"
	"github.com/XavierBriggs/paddock/internal/providers/jolpica"
	"github.com/XavierBriggs/paddock/pkg/models"
	"github.com/google/uuid"
	progressbar "github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// roundFetchLimit bounds concurrent round fetches; the public results API
// rate-limits aggressively.
const roundFetchLimit = 4

// resultsSource is the slice of the results API the backfiller consumes.
type resultsSource interface {
	Schedule(ctx context.Context, year int) ([]jolpica.Race, error)
	RaceResults(ctx context.Context, year, round int) ([]jolpica.Result, error)
	SprintResults(ctx context.Context, year, round int) ([]jolpica.Result, error)
	QualifyingResults(ctx context.Context, year, round int) ([]jolpica.Result, error)
}

// reportInvalidator drops cached season reports once their underlying rows
// change.
type reportInvalidator interface {
	Invalidate(ctx context.Context, year int) error
}

// Backfiller pulls season schedules and classifications from the results API
// and writes them into the Postgres cache. Per-row failures abort the season:
// a silently dropped result would corrupt every standings computation built
// on top of it.
type Backfiller struct {
	results resultsSource
	writer  *Writer
	reports reportInvalidator
	logger  *slog.Logger
}

// NewBackfiller creates a backfill pipeline. A nil report cache skips
// invalidation; recomputed seasons then go stale until their TTL expires.
func NewBackfiller(results *jolpica.Client, writer *Writer, reports *cache.ReportCache, logger *slog.Logger) *Backfiller {
	b := &Backfiller{
		results: results,
		writer:  writer,
		logger:  logger,
	}
	if reports != nil {
		b.reports = reports
	}
	return b
}

// Options controls a backfill run.
type Options struct {
	FromYear     int
	ToYear       int
	ShowProgress bool
}

// Run backfills the inclusive year range, one season at a time. Each season's
// cached report is invalidated after its rows land, so the next standings
// request recomputes from the fresh data.
func (b *Backfiller) Run(ctx context.Context, opts Options) error {
	if opts.FromYear > opts.ToYear {
		return fmt.Errorf("invalid year range %d-%d", opts.FromYear, opts.ToYear)
	}

	log := b.logger.With("run_id", uuid.NewString())
	started := time.Now()
	log.Info("backfill starting", "from", opts.FromYear, "to", opts.ToYear)

	bar := progressbar.NewOptions(opts.ToYear-opts.FromYear+1,
		progressbar.OptionSetDescription("seasons"),
		progressbar.OptionSetVisibility(opts.ShowProgress))

	for year := opts.FromYear; year <= opts.ToYear; year++ {
		if err := b.backfillSeason(ctx, year, log); err != nil {
			return fmt.Errorf("season %d: %w", year, err)
		}
		b.invalidateReport(ctx, year, log)
		_ = bar.Add(1)
	}

	log.Info("backfill complete", "elapsed", time.Since(started).Round(time.Second).String())
	return nil
}

// BackfillSeason fetches one season's calendar and every round's race,
// sprint, and qualifying classifications, upserting as it goes. Rounds are
// fetched concurrently with a small limit.
func (b *Backfiller) BackfillSeason(ctx context.Context, year int) error {
	if err := b.backfillSeason(ctx, year, b.logger); err != nil {
		return err
	}
	b.invalidateReport(ctx, year, b.logger)
	return nil
}

func (b *Backfiller) backfillSeason(ctx context.Context, year int, log *slog.Logger) error {
	schedule, err := b.results.Schedule(ctx, year)
	if err != nil {
		return fmt.Errorf("fetch schedule: %w", err)
	}
	if len(schedule) == 0 {
		log.Warn("no rounds in schedule", "year", year)
		return nil
	}

	rounds := make([]models.Round, 0, len(schedule))
	for _, race := range schedule {
		round, err := scheduleRound(race)
		if err != nil {
			return err
		}
		if err := b.writer.UpsertRound(ctx, year, round); err != nil {
			return err
		}
		rounds = append(rounds, round)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(roundFetchLimit)

	for _, round := range rounds {
		round := round
		g.Go(func() error {
			return b.backfillRound(gctx, year, round)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("season cached", "year", year, "rounds", len(rounds))
	return nil
}

// invalidateReport drops the year's cached report. Best effort: the fresh
// rows are already committed, and a failed invalidation only delays them
// behind the cache TTL.
func (b *Backfiller) invalidateReport(ctx context.Context, year int, log *slog.Logger) {
	if b.reports == nil {
		return
	}
	if err := b.reports.Invalidate(ctx, year); err != nil {
		log.Warn("failed to invalidate cached report", "year", year, "error", err)
		return
	}
	log.Info("cached report invalidated", "year", year)
}

func (b *Backfiller) backfillRound(ctx context.Context, year int, round models.Round) error {
	race, err := b.results.RaceResults(ctx, year, round.RoundNumber)
	if err != nil {
		return fmt.Errorf("round %d race results: %w", round.RoundNumber, err)
	}
	if err := b.writeSession(ctx, year, round.RoundNumber, models.SessionRace, race); err != nil {
		return err
	}

	qualifying, err := b.results.QualifyingResults(ctx, year, round.RoundNumber)
	if err != nil {
		return fmt.Errorf("round %d qualifying results: %w", round.RoundNumber, err)
	}
	if err := b.writeSession(ctx, year, round.RoundNumber, models.SessionQualifying, qualifying); err != nil {
		return err
	}

	if round.HasSprint {
		sprint, err := b.results.SprintResults(ctx, year, round.RoundNumber)
		if err != nil {
			return fmt.Errorf("round %d sprint results: %w", round.RoundNumber, err)
		}
		if err := b.writeSession(ctx, year, round.RoundNumber, models.SessionSprint, sprint); err != nil {
			return err
		}
	}

	return nil
}

func (b *Backfiller) writeSession(ctx context.Context, year, round int, kind models.SessionKind, results []jolpica.Result) error {
	if len(results) == 0 {
		return nil
	}

	rows := make([]ResultRow, 0, len(results))
	for _, result := range results {
		row, err := resultRow(result, kind)
		if err != nil {
			return fmt.Errorf("round %d %s: %w", round, kind, err)
		}
		rows = append(rows, row)
	}

	if err := b.writer.WriteSessionResults(ctx, year, round, kind, rows); err != nil {
		return err
	}

	return nil
}

// scheduleRound converts an API schedule row into a calendar round.
func scheduleRound(race jolpica.Race) (models.Round, error) {
	number, err := strconv.Atoi(race.Round)
	if err != nil {
		return models.Round{}, fmt.Errorf("bad round number %q: %w", race.Round, err)
	}

	round := models.Round{
		RoundNumber: number,
		EventName:   race.RaceName,
		Country:     race.Circuit.Location.Country,
		HasSprint:   race.Sprint != nil,
	}
	if race.Date != "" {
		if date, err := time.Parse("2006-01-02", race.Date); err == nil {
			round.EventDate = date
		}
	}

	return round, nil
}

// resultRow converts one API classification entry. Unclassified finishes
// (retirements, disqualifications) keep a nil position; that nil is what the
// engine later reads as "entered but scored nothing".
func resultRow(result jolpica.Result, kind models.SessionKind) (ResultRow, error) {
	row := ResultRow{
		Driver: models.Driver{
			ID:           result.Driver.DriverID,
			DisplayName:  result.Driver.FullName(),
			Abbreviation: result.Driver.Code,
			Number:       result.Driver.PermanentNumber,
		},
		Team: models.Team{
			ID:          result.Constructor.ConstructorID,
			DisplayName: result.Constructor.Name,
		},
		SessionKind: kind,
		FastestLap:  kind == models.SessionRace && result.HadFastestLap(),
		Status:      result.Status,
	}

	if row.Driver.ID == "" {
		return ResultRow{}, fmt.Errorf("result entry has no driver id")
	}
	if row.Team.ID == "" {
		return ResultRow{}, fmt.Errorf("result entry has no constructor id")
	}

	if result.Classified() {
		position, err := strconv.Atoi(result.Position)
		if err != nil {
			return ResultRow{}, fmt.Errorf("bad position %q for %s: %w", result.Position, row.Driver.ID, err)
		}
		row.Position = &position
	}

	return row, nil
}
