package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/franalderete7/expenzo-sub000/internal/amqp"
	"github.com/franalderete7/expenzo-sub000/internal/config"
	applog "github.com/franalderete7/expenzo-sub000/internal/log"
	"github.com/franalderete7/expenzo-sub000/internal/storage"
	"github.com/franalderete7/expenzo-sub000/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting expenzo-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the receipt worker")
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	receiptWorker := worker.NewReceiptWorker(store, worker.LogSender{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumeErr := make(chan error, 1)
	go func() {
		consumeErr <- amqpClient.ConsumeReceiptDispatch(ctx, receiptWorker.HandleDispatchMessage)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case err := <-consumeErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", "error", err)
		}
	}

	// Give in-flight handlers time to finish
	logger.Info("Shutting down worker...")
	cancel()

	select {
	case <-consumeErr:
	case <-time.After(5 * time.Second):
		logger.Warn("Shutdown timeout reached")
	}
	logger.Info("Worker shutdown complete")
}
