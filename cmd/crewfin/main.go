package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"crewfin/internal/amqp"
	"crewfin/internal/backend"
	"crewfin/internal/backend/memory"
	"crewfin/internal/backend/rest"
	"crewfin/internal/config"
	apphttp "crewfin/internal/http"
	applog "crewfin/internal/log"
	"crewfin/internal/services"
	"crewfin/internal/storage"
	"crewfin/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Choose data backend (default: memory for local development).
	var store backend.Store
	switch cfg.DataBackend {
	case "rest":
		store = rest.NewClient(cfg.APIBaseURL,
			rest.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
			rest.WithMaxRetries(cfg.APIMaxRetries))
		logger.Info("Initialized REST backend", "base_url", cfg.APIBaseURL)
	default:
		store = memory.New()
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	}

	// Local archive for statement figures and the audit trail.
	archive, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite archive", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer archive.Close()

	// AMQP is optional; without it the server runs standalone and change
	// messages are simply not published.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in standalone mode", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange)
		}
	} else {
		logger.Info("AMQP disabled - change messages will not be published")
	}

	dash := services.NewDashboardService(store, store)
	txs := services.NewTransactionService(store, amqpClient, dash)
	reports := services.NewReportService(store, archive, amqpClient)
	plans := services.NewPlanService(store, txs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background poller keeps the overview warm between client requests.
	refresher := worker.NewRefreshWorker(dash, cfg.PollInterval)
	go func() {
		if err := refresher.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("Refresh worker stopped", "error", err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, dash, txs, store, reports, plans)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting crewfin server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"poll_interval", cfg.PollInterval)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
