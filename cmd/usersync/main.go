package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/hooksmith/usersync/internal/core/config"
	"github.com/hooksmith/usersync/internal/core/storage"
	"github.com/hooksmith/usersync/internal/core/storage/memory"
	"github.com/hooksmith/usersync/internal/core/storage/postgres"
	"github.com/hooksmith/usersync/internal/ingestion"
	"github.com/hooksmith/usersync/internal/lifecycle"
	"github.com/hooksmith/usersync/internal/migrations"
	"github.com/hooksmith/usersync/internal/receipts"
	"github.com/hooksmith/usersync/internal/relay"
	"github.com/hooksmith/usersync/internal/router"
	"github.com/hooksmith/usersync/internal/server"
	"github.com/hooksmith/usersync/internal/webhook"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "usersync.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Load .env for local development; absent in deployments.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(logger)
	slog.Info("Loaded config",
		"database", cfg.Database.Type,
		"test_mode", cfg.Webhook.TestMode,
		"relay_enabled", cfg.Relay.Enabled && cfg.Relay.URL != "",
		"receipts_enabled", cfg.Receipts.Enabled)

	if cfg.Webhook.TestMode {
		slog.Warn("Webhook test mode enabled: signatures are NOT verified")
	}

	// 2. Initialize Storage
	store, dbHealth, closeStore, err := openStore(cfg.Database)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// 3. Initialize Receipts (redelivery detection)
	receiptStore, receiptHealth, closeReceipts := openReceipts(cfg.Receipts)
	defer closeReceipts()

	// 4. Initialize Verifier
	verifier := webhook.NewVerifier(webhook.Options{
		Secrets:         webhook.StaticSecrets(cfg.Webhook.DefaultSecret, cfg.Webhook.SecretsByEventType()),
		TestMode:        cfg.Webhook.TestMode,
		AllowTestHeader: cfg.Webhook.AllowTestHeader,
		Tolerance:       cfg.Webhook.ToleranceDuration(),
	})

	// 5. Initialize Lifecycle (store writes + downstream relay)
	notifier := relay.NewNotifier(relay.NewHTTPSender(nil), relay.Config{
		Enabled: cfg.Relay.Enabled,
		URL:     cfg.Relay.URL,
		Timeout: cfg.Relay.TimeoutDuration(),
	})
	lifecycleSvc := lifecycle.NewService(store, notifier)
	eventRouter := router.New(lifecycleSvc)

	// 6. Initialize Ingestion
	ingestionSvc := ingestion.NewService(verifier, eventRouter, receiptStore, cfg.Server.MaxBodySizeMB)

	// 7. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), dbHealth, cfg.Server.Mode)
	if receiptHealth != nil {
		srv.AddHealthCheck("receipts", receiptHealth)
	}
	ingestionSvc.RegisterRoutes(srv.Engine)

	// 8. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Process-local receipts are pruned in background; redis expires keys itself.
	if memReceipts, ok := receiptStore.(*receipts.MemoryStore); ok {
		go func() {
			if err := receipts.NewSweeper(memReceipts, receipts.DefaultSweepInterval).Start(ctx); err != nil {
				slog.Error("Receipt sweeper stopped with error", "error", err)
			}
		}()
	}

	// Signal handler → triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func openStore(cfg corecfg.DatabaseConfig) (storage.Store, server.HealthChecker, func(), error) {
	if cfg.Type == "memory" {
		slog.Warn("Using in-memory store: data is lost on restart")
		s := memory.NewStore()
		return s, s, func() {}, nil
	}

	db, err := postgres.Open(cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := migrations.RunMigrations(db, cfg.AutoMigrate); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	adapter, err := postgres.NewAdapter(db)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	return adapter, adapter, func() {
		if err := adapter.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}, nil
}

func openReceipts(cfg corecfg.ReceiptsConfig) (receipts.Store, server.HealthChecker, func()) {
	if !cfg.Enabled {
		slog.Info("Delivery receipts disabled by config")
		return nil, nil, func() {}
	}

	if cfg.Backend == "memory" {
		return receipts.NewMemoryStore(cfg.TTLDuration()), nil, func() {}
	}

	client := receipts.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	rs := receipts.NewRedisStore(client, cfg.TTLDuration())
	slog.Info("Delivery receipts backed by redis", "addr", cfg.RedisAddr, "ttl", cfg.TTLDuration())
	return rs, rs, func() {
		if err := rs.Close(); err != nil {
			slog.Error("Failed to close redis client", "error", err)
		}
	}
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
