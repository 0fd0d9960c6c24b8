package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"crewfin/internal/amqp"
	"crewfin/internal/backend"
	"crewfin/internal/backend/memory"
	"crewfin/internal/backend/rest"
	"crewfin/internal/config"
	applog "crewfin/internal/log"
	"crewfin/internal/services"
	"crewfin/internal/storage"
	"crewfin/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	applog.SetDefault(logger)

	logger.Info("Starting crewfin-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	archive, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite archive", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer archive.Close()

	var store backend.Store
	switch cfg.DataBackend {
	case "rest":
		store = rest.NewClient(cfg.APIBaseURL, rest.WithMaxRetries(cfg.APIMaxRetries))
	default:
		store = memory.New()
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The worker keeps its own warm snapshot so a restarted server finds
	// recent figures in the audit trail, not to serve traffic.
	dash := services.NewDashboardService(store, store)
	refresher := worker.NewRefreshWorker(dash, cfg.PollInterval)
	auditor := worker.NewAuditWorker(archive)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	logger.Info("Consuming finance events",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	err = amqpClient.Consume(ctx, func(tx *amqp.TransactionChangedMessage, st *amqp.StatementRecordedMessage) error {
		if err := auditor.Handle(ctx, tx, st); err != nil {
			return err
		}
		if tx != nil {
			if err := refresher.Notify(ctx); err != nil {
				logger.Warn("Snapshot refresh after change failed", "error", err)
			}
		}
		return nil
	})
	if err != nil && err != context.Canceled {
		logger.Error("Consumer stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
