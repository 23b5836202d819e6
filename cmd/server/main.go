package main

import (
	"context"
	"os/signal"
	"syscall"

	"smartcare/internal/alerts"
	"smartcare/internal/config"
	"smartcare/internal/db"
	"smartcare/internal/events"
	"smartcare/internal/handlers"
	"smartcare/internal/jobs"
	"smartcare/internal/logging"
	"smartcare/internal/metrics"
	"smartcare/internal/queue"
	"smartcare/internal/server"
	"smartcare/internal/sessionid"
	"smartcare/internal/triage"
	"smartcare/internal/upstream"
	"smartcare/internal/validation"
)

// unlistedSymptom is the statistics key for symptoms outside the triage
// table, so free-form input cannot grow the label set.
const unlistedSymptom = "other"

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.IsDev())

	if ok, msg := validation.ValidateURL(cfg.UpstreamURL); !ok {
		logger.Fatal().Str("upstream_url", cfg.UpstreamURL).Msg("invalid UPSTREAM_URL: " + msg)
	}

	// Clinical catalog
	catalog, err := config.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.CatalogFile).Msg("failed to load catalog")
	}
	table, err := catalog.TriageTable()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid triage table")
	}
	steps := catalog.InstructionCatalog()
	logger.Info().Str("version", catalog.Version).Int("features", len(catalog.Features)).Msg("catalog loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Triage statistics database (optional)
	var (
		lookupStore metrics.LookupStore
		dbPinger    handlers.Pinger
	)
	if cfg.StatsEnabled() {
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer database.Close()

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
		logger.Info().Msg("migrations completed successfully")
		lookupStore = database
		dbPinger = database
	} else {
		logger.Warn().Msg("DATABASE_URL not set; triage statistics are kept in process only")
	}

	m := metrics.New(lookupStore, logger)

	client := upstream.New(cfg.UpstreamURL, cfg.UpstreamTimeout, logger,
		upstream.WithFailureHook(m.RecordUpstreamFailure))

	board := alerts.NewBoard(cfg.AlertDismissAfter, alerts.WithObserver(func(a alerts.Alert) {
		m.RecordAlert(string(a.Kind))
	}))

	dispatcher := events.NewDispatcher()
	events.Bind(dispatcher, events.Deps{
		Triage:       table,
		Instructions: steps,
		Catalog:      catalog,
		Alerts:       board,
		Hospitals:    client,
		OnClassify: func(symptom string, c triage.Classification) {
			if !table.Has(symptom) {
				symptom = unlistedSymptom
			}
			m.RecordTriage(symptom, string(c.Label))
		},
	})

	// Background queue refresh
	var snapshot queue.Snapshot
	poller := jobs.NewQueuePoller(client, &snapshot, cfg.QueuePollInterval, logger)
	go poller.Start(ctx)

	srv := server.New(cfg, logger)
	srv.RegisterRoutes(server.Deps{
		Catalog:      catalog,
		Triage:       table,
		Instructions: steps,
		Events:       dispatcher,
		Alerts:       board,
		Snapshot:     &snapshot,
		Upstream:     client,
		Sessions:     sessionid.NewProvider(),
		Database:     dbPinger,
		Metrics:      m.Handler(),
	})

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info().Msg("shutting down server")
	if err := srv.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	m.Flush()
	logger.Info().Msg("server exited")
}
