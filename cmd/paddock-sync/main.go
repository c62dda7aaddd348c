package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/XavierBriggs/paddock/internal/cache"
	"github.com/XavierBriggs/paddock/internal/championship"
	"github.com/XavierBriggs/paddock/internal/config"
	"github.com/XavierBriggs/paddock/internal/db"
	"github.com/XavierBriggs/paddock/internal/ingest"
	"github.com/XavierBriggs/paddock/internal/providers/espn"
	"github.com/XavierBriggs/paddock/internal/providers/jolpica"
	"github.com/XavierBriggs/paddock/pkg/models"
	"github.com/alecthomas/kong"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

type globalCmd struct {
	cfg    *config.Config
	logger *slog.Logger
}

var CLI struct {
	globalCmd

	Backfill  backfillCmd  `cmd:"" help:"Fetch season schedules and results into the Postgres cache."`
	Enrich    enrichCmd    `cmd:"" help:"Match cached drivers and teams to ESPN and store headshots, logos, and colors."`
	Refresh   refreshCmd   `cmd:"" help:"Recompute a season report and rewrite its Redis cache entry."`
	Standings standingsCmd `cmd:"" help:"Print a season's championship standings."`
	Verify    verifyCmd    `cmd:"" help:"Cross-check a season's computed standings against ESPN's published totals."`
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	CLI.cfg = cfg
	CLI.logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx := kong.Parse(&CLI)
	err = ctx.Run(&CLI.globalCmd)
	ctx.FatalIfErrorf(err)
}

// openDB opens the shared pool the subcommands read and write through.
func openDB(ctx context.Context, g *globalCmd) (*sql.DB, error) {
	pool, err := sql.Open("postgres", g.cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := db.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return pool, nil
}

// openReportCache connects to Redis so ingest runs can invalidate the seasons
// they touch. Backfills still work without it, so a down Redis degrades to a
// warning instead of failing the run.
func openReportCache(ctx context.Context, g *globalCmd) (*cache.ReportCache, *redis.Client) {
	opts, err := redis.ParseURL(g.cfg.Redis.URL)
	if err != nil {
		g.logger.Warn("bad redis url, cached reports will go stale until TTL", "error", err)
		return nil, nil
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		g.logger.Warn("redis unreachable, cached reports will go stale until TTL", "error", err)
		client.Close()
		return nil, nil
	}

	return cache.NewReportCache(client), client
}

type backfillCmd struct {
	From       int  `arg:"" help:"First season year to backfill."`
	To         int  `help:"Last season year to backfill (defaults to the same as FROM)."`
	NoProgress bool `help:"Disable the progress bar."`
}

func (cmd backfillCmd) Run(g *globalCmd) error {
	ctx := context.Background()

	pool, err := openDB(ctx, g)
	if err != nil {
		return err
	}
	defer pool.Close()

	to := cmd.To
	if to == 0 {
		to = cmd.From
	}

	reports, redisClient := openReportCache(ctx, g)
	if redisClient != nil {
		defer redisClient.Close()
	}

	backfiller := ingest.NewBackfiller(
		jolpica.New(g.cfg.Providers.JolpicaBaseURL),
		ingest.NewWriter(pool),
		reports,
		g.logger,
	)

	return backfiller.Run(ctx, ingest.Options{
		FromYear:     cmd.From,
		ToYear:       to,
		ShowProgress: !cmd.NoProgress,
	})
}

type enrichCmd struct {
	Year int `arg:"" help:"Season year whose drivers should be matched against ESPN."`
}

func (cmd enrichCmd) Run(g *globalCmd) error {
	ctx := context.Background()

	pool, err := openDB(ctx, g)
	if err != nil {
		return err
	}
	defer pool.Close()

	enricher := ingest.NewEnricher(
		espn.New(g.cfg.Providers.ESPNBaseURL),
		ingest.NewWriter(pool),
		g.logger,
	)

	return enricher.EnrichSeason(ctx, cmd.Year)
}

type refreshCmd struct {
	Year int `arg:"" help:"Season year to recompute and re-cache."`
}

func (cmd refreshCmd) Run(g *globalCmd) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := openDB(ctx, g)
	if err != nil {
		return err
	}
	defer pool.Close()

	report, err := computeReport(ctx, db.NewClientFromDB(pool), cmd.Year)
	if err != nil {
		return err
	}

	redisOpts, err := redis.ParseURL(g.cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	reports := cache.NewReportCache(redisClient)
	if err := reports.WriteReport(ctx, report); err != nil {
		return fmt.Errorf("write report cache: %w", err)
	}

	g.logger.Info("season report cached", "year", cmd.Year,
		"drivers", len(report.DriverResults), "constructors", len(report.ConstructorResults))
	return nil
}

type standingsCmd struct {
	Year         int  `arg:"" help:"Season year to print."`
	Constructors bool `help:"Print the constructor table instead of the driver table."`
	Top          int  `help:"Limit output to the top N rows." default:"0"`
}

func (cmd standingsCmd) Run(g *globalCmd) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := openDB(ctx, g)
	if err != nil {
		return err
	}
	defer pool.Close()

	report, err := computeReport(ctx, db.NewClientFromDB(pool), cmd.Year)
	if err != nil {
		return err
	}

	rows := report.DriverResults
	title := fmt.Sprintf("%d Drivers' Championship", cmd.Year)
	if cmd.Constructors {
		rows = report.ConstructorResults
		title = fmt.Sprintf("%d Constructors' Championship", cmd.Year)
	}
	if cmd.Top > 0 && cmd.Top < len(rows) {
		rows = rows[:cmd.Top]
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Pos", "Name", "Team", "Rounds", "Points"})
	for i, row := range rows {
		scored := 0
		for _, rp := range row.RaceResults {
			if rp.Points != nil {
				scored++
			}
		}
		t.AppendRow(table.Row{i + 1, row.DisplayName, row.TeamName, scored, row.TotalPoints})
	}
	t.Render()

	return nil
}

type verifyCmd struct {
	Year int `arg:"" help:"Season year to cross-check against ESPN."`
}

func (cmd verifyCmd) Run(g *globalCmd) error {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	pool, err := openDB(ctx, g)
	if err != nil {
		return err
	}
	defer pool.Close()

	report, err := computeReport(ctx, db.NewClientFromDB(pool), cmd.Year)
	if err != nil {
		return err
	}

	verifier := ingest.NewVerifier(espn.New(g.cfg.Providers.ESPNBaseURL), g.logger)
	drifts, err := verifier.VerifySeason(ctx, cmd.Year, report.DriverResults)
	if err != nil {
		return err
	}

	if len(drifts) == 0 {
		fmt.Printf("✓ %d computed standings match ESPN\n", cmd.Year)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("%d standings drift", cmd.Year))
	t.AppendHeader(table.Row{"Driver", "Computed", "ESPN"})
	for _, d := range drifts {
		t.AppendRow(table.Row{d.DriverName, d.Computed, d.Reported})
	}
	t.Render()

	return fmt.Errorf("%d drivers drift from published standings", len(drifts))
}

// computeReport builds a season report straight from Postgres, bypassing the
// Redis cache.
func computeReport(ctx context.Context, store db.Store, year int) (*models.SeasonReport, error) {
	calendar, err := store.SeasonCalendar(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("load calendar: %w", err)
	}
	if len(calendar) == 0 {
		return nil, fmt.Errorf("no cached rounds for %d, run backfill first", year)
	}
	sort.Slice(calendar, func(i, j int) bool { return calendar[i].RoundNumber < calendar[j].RoundNumber })

	entries, err := store.SeasonEntries(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}

	driverMeta, err := store.DriverMeta(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("load driver metadata: %w", err)
	}

	teamMeta, err := store.TeamMeta(ctx)
	if err != nil {
		return nil, fmt.Errorf("load team metadata: %w", err)
	}

	report, err := championship.BuildSeasonReport(year, calendar, entries, driverMeta, teamMeta)
	if err != nil {
		return nil, err
	}

	return &report, nil
}
