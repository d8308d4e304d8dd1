package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spendy/internal/amqp"
	"spendy/internal/config"
	applog "spendy/internal/log"
	"spendy/internal/remark"
	"spendy/internal/storage"
	"spendy/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: "spendy-worker"})
	applog.SetDefault(logger)

	logger.Info("Starting spendy-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Model-backed commentary when credentials exist, canned lines otherwise.
	var generator remark.Generator
	if os.Getenv("GOOGLE_API_KEY") != "" || os.Getenv("GEMINI_API_KEY") != "" {
		g, err := remark.NewGemini(context.Background(), cfg.GeminiModel, cfg.RemarkPrompt)
		if err != nil {
			logger.Error("Failed to initialize remark generator", "error", err)
			os.Exit(1)
		}
		generator = g
		logger.Info("Remark generator initialized", "model", cfg.GeminiModel)
	} else {
		generator = remark.Static{}
		logger.Info("No model API key provided - using static remarks")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	remarkWorker := worker.NewRemarkWorker(repo, generator, cfg.RemarkBatchSize, logger)

	// On startup, pick up transactions that missed their remark request.
	logger.Info("Performing startup remark check...")
	if err := remarkWorker.StartupCheck(ctx); err != nil {
		logger.Error("Startup remark check failed", "error", err)
		// Don't exit - continue with normal operation
	}

	go func() {
		err := amqpClient.ConsumeRemarkRequests(ctx, func(msg *amqp.RemarkRequestMessage) error {
			return remarkWorker.HandleRemarkMessage(ctx, msg)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", "error", err)
			cancel()
		}
	}()

	// Periodic backup scan for anything the queue missed.
	ticker := time.NewTicker(cfg.RemarkInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := remarkWorker.ProcessPendingRemarks(ctx); err != nil {
					logger.Error("Periodic remark scan failed", "error", err)
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
