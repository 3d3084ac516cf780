package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oyvinddd/officesports-sub001/internal/config"
	"github.com/oyvinddd/officesports-sub001/internal/database"
	server "github.com/oyvinddd/officesports-sub001/internal/http"
	"github.com/oyvinddd/officesports-sub001/internal/ledger"
	"github.com/oyvinddd/officesports-sub001/internal/metrics"
	"github.com/oyvinddd/officesports-sub001/internal/notifier/slack"
	"github.com/oyvinddd/officesports-sub001/internal/pubsub"
	"github.com/oyvinddd/officesports-sub001/internal/rating"
	"github.com/oyvinddd/officesports-sub001/internal/recorder"
	"github.com/oyvinddd/officesports-sub001/internal/season"
	"github.com/oyvinddd/officesports-sub001/internal/store"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	sports := make([]ledger.Sport, 0, len(cfg.Sports))
	for _, sport := range cfg.Sports {
		sports = append(sports, ledger.Sport(sport))
	}

	docs := store.New(db)
	lgr := ledger.New(docs, rating.NewEngine(cfg.Rating.KFactor), ledger.Config{
		InitialScore:      cfg.Rating.InitialScore,
		FloorScoreAtZero:  cfg.Rating.FloorScoreAtZero,
		MaxCommitAttempts: cfg.Rating.MaxCommitAttempts,
	})
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	pubsub := pubsub.New(cfg.ProjectID)
	rec := recorder.New(lgr, docs, metricsSvc, pubsub, notifier, recorder.Config{
		Sports: sports,
		Blackout: recorder.BlackoutPolicy{
			Enabled:   cfg.Blackout.Enabled,
			Start:     cfg.Blackout.Start,
			End:       cfg.Blackout.End,
			ExemptIDs: cfg.Blackout.ExemptIDs,
		},
	})
	coordinator := season.New(lgr, metricsSvc, pubsub, notifier, season.Config{
		Sports:     sports,
		ResetScore: cfg.Rating.InitialScore,
	})

	s := server.NewServer(
		lgr,
		rec,
		coordinator,
		docs,
		metricsSvc,
		metricsHandler,
		cfg,
		notifier,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
