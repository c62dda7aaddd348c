package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XavierBriggs/paddock/internal/cache"
	"github.com/XavierBriggs/paddock/internal/config"
	"github.com/XavierBriggs/paddock/internal/db"
	"github.com/XavierBriggs/paddock/internal/handlers"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	fmt.Println("=== Paddock API v0 ===")

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Connect to Postgres cache
	store, err := db.NewClient(cfg.Postgres.DSN)
	if err != nil {
		fmt.Printf("❌ Failed to connect to Postgres: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.EnsureSchema(context.Background()); err != nil {
		fmt.Printf("❌ Failed to apply schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Connected to Postgres")

	// Connect to Redis for cached season reports
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		fmt.Printf("❌ Failed to parse Redis URL: %v\n", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Connected to Redis")

	// Initialize handlers
	reports := cache.NewReportCache(redisClient)
	handler := handlers.NewHandler(store, reports)

	// Keep the running season's report warm
	scheduler, err := startRefresher(handler, cfg.Refresh.IntervalMinutes)
	if err != nil {
		fmt.Printf("❌ Failed to start refresh scheduler: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = scheduler.Shutdown() }()

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Routes
	r.Get("/health", handler.HealthCheck)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Seasons
		r.Get("/seasons", handler.GetSeasons)
		r.Get("/schedule/{year}", handler.GetSchedule)

		// Standings
		r.Get("/standings/{year}", handler.GetSeasonStandings)
		r.Get("/standings/{year}/drivers", handler.GetDriverStandings)
		r.Get("/standings/{year}/constructors", handler.GetConstructorStandings)

		// Drivers
		r.Get("/drivers/{name}", handler.GetDriverDetail)
		r.Get("/drivers/{name}/seasons", handler.GetDriverSeasons)
	})

	// Start server
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("✓ Paddock API listening on %s\n", cfg.Server.Addr)
		fmt.Println("  Endpoints:")
		fmt.Println("    GET  /health")
		fmt.Println("    GET  /api/v1/seasons")
		fmt.Println("    GET  /api/v1/schedule/{year}")
		fmt.Println("    GET  /api/v1/standings/{year}")
		fmt.Println("    GET  /api/v1/standings/{year}/drivers")
		fmt.Println("    GET  /api/v1/standings/{year}/constructors")
		fmt.Println("    GET  /api/v1/drivers/{name}")
		fmt.Println("    GET  /api/v1/drivers/{name}/seasons")

		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		fmt.Printf("❌ Server error: %v\n", err)
		os.Exit(1)

	case sig := <-shutdown:
		fmt.Printf("\n⚠️  Received signal: %v\n", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("⚠️  Graceful shutdown failed: %v\n", err)
			if err := srv.Close(); err != nil {
				fmt.Printf("❌ Could not stop server: %v\n", err)
			}
		}
	}

	fmt.Println("✓ Shutdown complete")
}

// startRefresher schedules a periodic recompute of the current season's
// report so dashboard requests rarely pay the full computation.
func startRefresher(handler *handlers.Handler, intervalMinutes int) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(time.Duration(intervalMinutes)*time.Minute),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			year := time.Now().UTC().Year()
			if err := handler.RefreshSeason(ctx, year); err != nil {
				if errors.Is(err, db.ErrNotFound) {
					slog.Debug("current season not cached yet", "year", year)
					return
				}
				slog.Error("season refresh failed", "year", year, "error", err)
				return
			}
			slog.Info("season report refreshed", "year", year)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh job: %w", err)
	}

	scheduler.Start()
	return scheduler, nil
}
