package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtmate/courtmate/internal/availability"
	"github.com/courtmate/courtmate/internal/club"
	"github.com/courtmate/courtmate/internal/config"
	"github.com/courtmate/courtmate/internal/database"
	"github.com/courtmate/courtmate/internal/events"
	server "github.com/courtmate/courtmate/internal/http"
	"github.com/courtmate/courtmate/internal/invites"
	"github.com/courtmate/courtmate/internal/match"
	"github.com/courtmate/courtmate/internal/metrics"
	"github.com/courtmate/courtmate/internal/notifier/email"
	slacknotifier "github.com/courtmate/courtmate/internal/notifier/slack"
	"github.com/courtmate/courtmate/internal/pubsub"
	"github.com/courtmate/courtmate/internal/share"
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

	profiles := club.New(db)
	matches := match.New(db)
	inviteStore := invites.New(db)
	polls := availability.New(db)

	counters := metrics.New(db)
	metricsSvc := metrics.NewService().WithStore(counters)
	metricsHandler := metrics.NewMetricsHandler()

	mailer := email.NewClient(cfg.Email.Endpoint, cfg.Email.APIKey, cfg.Email.From, metricsSvc)
	announcer := slacknotifier.NewAnnouncer(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	shareSvc := share.New(cfg.BaseURL)
	pubsubClient := pubsub.New(cfg.ProjectID)
	dispatcher := events.New(matches, profiles, mailer, announcer, shareSvc, metricsSvc)

	s := server.NewServer(
		matches,
		profiles,
		inviteStore,
		polls,
		shareSvc,
		dispatcher,
		announcer,
		metricsSvc,
		counters,
		metricsHandler,
		cfg,
		pubsubClient,
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
