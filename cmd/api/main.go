package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/feral-file/trait-inventory/internal/adapter"
	"github.com/feral-file/trait-inventory/internal/api/middleware"
	"github.com/feral-file/trait-inventory/internal/api/server"
	"github.com/feral-file/trait-inventory/internal/api/shared/executor"
	"github.com/feral-file/trait-inventory/internal/config"
	"github.com/feral-file/trait-inventory/internal/inventory"
	"github.com/feral-file/trait-inventory/internal/ledger"
	"github.com/feral-file/trait-inventory/internal/logger"
	"github.com/feral-file/trait-inventory/internal/messaging"
	"github.com/feral-file/trait-inventory/internal/providers/jetstream"
	"github.com/feral-file/trait-inventory/internal/ratelimit"
	"github.com/feral-file/trait-inventory/internal/store"
	"github.com/feral-file/trait-inventory/internal/sweeper"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		Service:         "trait-inventory-api",
		Environment:     cfg.Environment,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Trait Inventory API")

	// Connect to database
	gormLogLevel := gormlogger.Warn
	if cfg.Debug {
		gormLogLevel = gormlogger.Info
	}
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: store.NewGormLogger(gormLogLevel, cfg.Database.SlowThreshold),
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	if err := store.ConfigureReadReplica(db, cfg.Database.ReadDSN()); err != nil {
		logger.FatalCtx(ctx, "Failed to configure read replica", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
		zap.Bool("read_replica", cfg.Database.ReadHost != ""),
	)

	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()

	purchaseLedger := ledger.New(dataStore, clock)
	inventoryManager := inventory.NewManager(inventory.Config{
		ReservationTTL:                 cfg.Inventory.ReservationTTL,
		MaxActiveReservationsPerWallet: cfg.Inventory.MaxActiveReservationsPerWallet,
		MaxTraitsPerRequest:            cfg.Inventory.MaxTraitsPerRequest,
		BulkCancelConcurrency:          cfg.Inventory.BulkCancelConcurrency,
		TreasuryWallet:                 cfg.Inventory.TreasuryWallet,
	}, dataStore, purchaseLedger, clock)
	reservationSweeper := sweeper.NewReservationSweeper(sweeper.ReservationSweeperConfig{}, dataStore, clock)

	// Purchase events are optional
	publisher := messaging.NewNoopPublisher()
	if cfg.NATS.URL != "" {
		publisher, err = jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
			PublishTimeout: cfg.NATS.PublishTimeout,
		}, adapter.NewNatsJetStream(), adapter.NewJSON(), adapter.NewJCS())
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create purchase event publisher", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Purchase events enabled", zap.String("stream", cfg.NATS.StreamName))
	} else {
		logger.WarnCtx(ctx, "NATS URL not configured, purchase events are disabled")
	}
	defer publisher.Close()

	// Per-wallet throttling is optional
	limiter := ratelimit.NewUnlimited()
	if cfg.Redis.Addr != "" {
		limiter, err = ratelimit.NewWalletLimiter(ratelimit.Config{
			ReservationsPerMinute: cfg.RateLimit.ReservationsPerMinute,
			Burst:                 cfg.RateLimit.Burst,
			EnableLocalFallback:   cfg.RateLimit.EnableLocalFallback,
			MaxLocalWallets:       cfg.RateLimit.MaxLocalWallets,
		}, adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB), clock)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create rate limiter", zap.Error(err))
		}
	} else {
		logger.WarnCtx(ctx, "Redis address not configured, reservation rate limiting is disabled")
	}
	defer func() {
		_ = limiter.Close()
	}()

	exec := executor.NewExecutor(inventoryManager, purchaseLedger, reservationSweeper, publisher, limiter, clock)

	srv := server.New(server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}, exec)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}

	logger.Info("API server stopped")
}
