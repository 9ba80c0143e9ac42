package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/source"
	gsheet "fintrack/internal/source/google"
	mem "fintrack/internal/source/memory"
	"fintrack/internal/storage"
	"fintrack/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting fintrack-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var ledger source.Ledger
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		ledger = repo
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	case "sheets":
		cli, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		ledger = cli
		logger.Info("Initialized Google Sheets backend", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	default:
		ledger = mem.NewFromFiles(cfg.SeedDir)
		logger.Info("Initialized memory backend", "seed_dir", cfg.SeedDir)
	}

	// Without a broker the worker still runs scheduled passes; it just
	// cannot receive on-demand requests or publish alerts.
	var (
		amqpClient *amqp.Client
		alerts     services.AlertPublisher
	)
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRequestQueue, cfg.AMQPAlertQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		amqpClient, alerts = client, client
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPRequestQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	reports := services.NewReportService(ledger, alerts, logger.WithComponent(applog.ComponentReport), analytics.Options{
		WindowMonths:  cfg.WindowMonths,
		Threshold:     cfg.AnomalyThreshold,
		HorizonMonths: cfg.HorizonMonths,
		Weights: analytics.Weights{
			Savings:         cfg.SavingsWeight,
			Diversification: cfg.DiversificationWeight,
			Consistency:     cfg.ConsistencyWeight,
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := worker.NewAnalysisWorker(reports, amqpClient)

	stopSchedule, err := w.StartSchedule(ctx, cfg.AnalysisCron)
	if err != nil {
		logger.Error("Failed to start analysis schedule", "error", err, "spec", cfg.AnalysisCron)
		os.Exit(1)
	}
	defer stopSchedule()

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	stopped := false
	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case err := <-done:
		stopped = true
		if err != nil && err != context.Canceled {
			logger.Error("Message consumption failed", "error", err)
		}
	}

	logger.Info("Shutting down worker...")
	cancel()

	if !stopped {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			logger.Warn("Shutdown timeout reached")
		}
	}
	logger.Info("Worker shutdown complete")
}
