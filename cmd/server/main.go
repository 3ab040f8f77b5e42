package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/api"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/config"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/database"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/logger"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/repository"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/scheduler"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/service"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/version"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Logger config is part of the configuration, so use the default logger here.
		fallbackLog := logger.New(logger.Config{Level: "info"})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(log)

	log.Info().Str("version", version.Version).Msg("Starting brokerage snapshot backend")

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	log.Info().Str("path", cfg.Database.Path).Msg("Connected to database")

	// Create repositories
	snapshotRepo := repository.NewSnapshotRepository(db)
	stockPriceRepo := repository.NewStockPriceRepository(db)

	// Create services
	var priceFallback service.PriceSource
	if cfg.Prices.YahooFallback {
		priceFallback = yahoo.NewFinanceClient()
	}
	unrealizedGainsService := service.NewPriceUnrealizedGainsService(stockPriceRepo, priceFallback, log)
	snapshotService := service.NewSnapshotService(snapshotRepo, unrealizedGainsService, log)
	processor := service.NewSnapshotProcessor(snapshotRepo, snapshotService, cfg.Reconcile.Workers, log)

	services := api.Services{
		System:    service.NewSystemService(db),
		Query:     service.NewSnapshotQueryService(snapshotRepo),
		Processor: processor,
	}

	// Schedule the nightly consistency sweep
	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.Reconcile.Schedule, scheduler.NewConsistencySweepJob(processor, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register consistency sweep")
	}
	sched.Start()
	defer sched.Stop()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(services, cfg, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
