package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/analytics"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/api"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/config"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/database"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/ledger"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/logger"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/refdata"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/repository"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/scheduler"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/service"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/version"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.SetGlobalLogger(logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}))
	log.Info().Str("version", version.Version).Msg("starting portfolio snapshot backend")

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	ctx := context.Background()
	schema, err := database.Migrate(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	log.Info().Str("path", cfg.Database.Path).Int64("schema", schema).Msg("connected to database")

	// Create repositories
	referenceRepo := repository.NewReferenceRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)

	if cfg.Reference.Path != "" {
		ref, err := refdata.ImportFile(ctx, cfg.Reference.Path, referenceRepo)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to import reference data")
		}
		log.Info().
			Str("path", cfg.Reference.Path).
			Int("assets", len(ref.Assets)).
			Int("currencies", len(ref.Currencies)).
			Msg("reference data imported")
	}

	// Create services
	holdings := ledger.NewFileSource(cfg.Ledger.Path)
	log.Info().Str("path", holdings.Path()).Msg("reading holdings ledger")
	systemService := service.NewSystemService(db)
	snapshotService := service.NewSnapshotService(holdings, referenceRepo, quoteRepo, analytics.Options{
		BaseCurrency:            cfg.Snapshot.BaseCurrency,
		DefaultHistoricalReturn: cfg.Snapshot.DefaultHistoricalReturn,
		DefaultForwardReturn:    cfg.Snapshot.DefaultForwardReturn,
	}).WithRiskMetrics(model.RiskMetrics{
		Beta:        cfg.Risk.Beta,
		MaxDrawdown: cfg.Risk.MaxDrawdown,
		Volatility:  cfg.Risk.Volatility,
	})
	quoteService := service.NewQuoteService(
		holdings,
		quoteRepo,
		yahoo.NewFinanceClient(yahoo.WithTimeout(cfg.Quotes.Timeout)),
		cfg.Quotes.Concurrency,
	)

	// Schedule quote refreshes
	sched := scheduler.New(log.Logger, 5*time.Minute)
	if cfg.Quotes.RefreshSchedule != "" {
		job := service.NewQuoteRefreshJob(quoteService)
		if err := sched.AddJob(cfg.Quotes.RefreshSchedule, job); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.Quotes.RefreshSchedule).Msg("invalid quote refresh schedule")
		}
		go func() {
			if err := sched.RunNow(job); err != nil {
				log.Warn().Err(err).Msg("initial quote refresh failed")
			}
		}()
	}
	sched.Start()

	// Create router
	router := api.NewRouter(api.Services{
		System:   systemService,
		Snapshot: snapshotService,
		Quotes:   quoteService,
	}, cfg, log.Logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	sched.Stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exited")
}
