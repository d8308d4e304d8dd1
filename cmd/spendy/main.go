package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spendy/internal/amqp"
	"spendy/internal/config"
	apphttp "spendy/internal/http"
	applog "spendy/internal/log"
	"spendy/internal/receipt"
	"spendy/internal/services"
	"spendy/internal/storage"
	"spendy/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: "spendy"})
	applog.SetDefault(logger)

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

	// AMQP is optional; without it transactions simply get no commentary.
	var publisher services.Publisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, remark requests disabled", "error", err)
	} else {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	svc := services.New(repo, store.New(), publisher, cfg.DefaultCurrency)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := svc.Bootstrap(bootCtx); err != nil {
		bootCancel()
		logger.Error("Failed to bootstrap in-memory store", "error", err)
		os.Exit(1)
	}
	bootCancel()
	logger.Info("Store bootstrapped",
		"transactions", len(svc.Store().Transactions()),
		"categories", len(svc.Store().Categories()),
		"budgets", len(svc.Store().Budgets()))

	// Receipt scanning is optional too; it needs model credentials.
	var parser receipt.Parser
	if os.Getenv("GOOGLE_API_KEY") != "" || os.Getenv("GEMINI_API_KEY") != "" {
		p, err := receipt.NewGeminiParser(context.Background(), cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to initialize receipt parser", "error", err)
			os.Exit(1)
		}
		parser = p
		logger.Info("Receipt parser initialized", "model", cfg.GeminiModel)
	} else {
		logger.Info("Receipt scanning disabled - no model API key provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, parser)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

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

	logger.Info("Starting spendy server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
