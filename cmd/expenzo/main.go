package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/franalderete7/expenzo-sub000/internal/amqp"
	"github.com/franalderete7/expenzo-sub000/internal/auth"
	"github.com/franalderete7/expenzo-sub000/internal/config"
	apphttp "github.com/franalderete7/expenzo-sub000/internal/http"
	applog "github.com/franalderete7/expenzo-sub000/internal/log"
	"github.com/franalderete7/expenzo-sub000/internal/services"
	"github.com/franalderete7/expenzo-sub000/internal/storage"
)

// noopPublisher stands in when no broker is configured. Receipts stay
// pending until a worker deployment picks them up.
type noopPublisher struct{}

func (noopPublisher) PublishReceiptDispatch(ctx context.Context, receiptID string) error {
	slog.WarnContext(ctx, "No AMQP broker configured, receipt left pending", "receipt_id", receiptID)
	return nil
}

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentAPI})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	var publisher services.ReceiptPublisher = noopPublisher{}
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
	}

	srv := apphttp.NewServer(":"+cfg.Port, store, auth.NewVerifier(cfg.JWTSecret), publisher)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	logger.Info("Starting expenzo server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
