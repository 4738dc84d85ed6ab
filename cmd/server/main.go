package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/mrnovoice/bankledger/internal/adapter/http"
	"github.com/mrnovoice/bankledger/internal/adapter/http/handler"
	postgresRepo "github.com/mrnovoice/bankledger/internal/adapter/repository/postgres"
	redisRepo "github.com/mrnovoice/bankledger/internal/adapter/repository/redis"
	"github.com/mrnovoice/bankledger/internal/domain"
	"github.com/mrnovoice/bankledger/internal/infrastructure/config"
	"github.com/mrnovoice/bankledger/internal/infrastructure/logger"
	"github.com/mrnovoice/bankledger/internal/infrastructure/metrics"
	"github.com/mrnovoice/bankledger/internal/infrastructure/postgres"
	"github.com/mrnovoice/bankledger/internal/infrastructure/redis"
	"github.com/mrnovoice/bankledger/internal/usecase"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	currentFloor, err := decimal.NewFromString(cfg.CurrentAccountFloor)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.CurrentAccountFloor).Msg("invalid current account floor")
	}

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize stores
	txManager := postgresRepo.NewTxManager(pool)
	accountStore := postgresRepo.NewAccountStore(pool)
	entryStore := postgresRepo.NewEntryStore(pool)
	holderStore := postgresRepo.NewHolderStore(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	m := metrics.New()
	registry := usecase.NewRegistry(accountStore, idGen, domain.BalancePolicy{CurrentFloor: currentFloor})
	journal := usecase.NewJournal(entryStore)
	engine := usecase.NewEngine(txManager, registry, journal, idGen,
		usecase.WithMaxCommitAttempts(cfg.MaxCommitAttempts),
		usecase.WithRetryBackoff(cfg.RetryInitialBackoff, cfg.RetryMaxBackoff),
		usecase.WithRetrier(postgresRepo.NewRetrier(log.Logger)),
		usecase.WithLogger(log.Logger),
		usecase.WithMetrics(m),
	)
	holderUC := usecase.NewHolderUseCase(holderStore, idGen)
	reconciliationUC := usecase.NewReconciliationUseCase(registry, journal, m)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		HolderHandler:         handler.NewHolderHandler(holderUC),
		AccountHandler:        handler.NewAccountHandler(engine, registry),
		LedgerHandler:         handler.NewLedgerHandler(engine),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
