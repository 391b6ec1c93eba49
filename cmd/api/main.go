package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parrot-ordering/internal/cache"
	"parrot-ordering/internal/config"
	"parrot-ordering/internal/database"
	"parrot-ordering/internal/events"
	"parrot-ordering/internal/handler"
	"parrot-ordering/internal/repository"
	"parrot-ordering/internal/router"
	"parrot-ordering/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting parrot-ordering API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize repositories
	dishRepo := repository.NewDishRepository(pool, logger)
	offerRepo := repository.NewOfferRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	offersCache, closeCache := newOffersCache(ctx, cfg.Redis, logger)
	defer closeCache()

	publisher := newPublisher(cfg.Kafka, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	// Initialize services
	clock := service.NewClock(cfg.App.Location())
	catalogService := service.NewCatalogService(dishRepo, logger)
	ledgerService := service.NewLedgerService(offerRepo, offersCache, publisher, clock, logger)
	cartService := service.NewCartService(cartRepo, dishRepo, offerRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, offerRepo, dishRepo, offersCache, publisher, clock, logger)

	// Initialize HTTP handlers
	dishHandler := handler.NewDishHandler(catalogService, logger)
	offerHandler := handler.NewOfferHandler(ledgerService, orderService, clock, logger)
	cartHandler := handler.NewCartHandler(cartService, clock, logger)
	orderHandler := handler.NewOrderHandler(orderService, clock, logger)

	// Initialize router
	mux := router.New(dishHandler, offerHandler, cartHandler, orderHandler, cfg.Auth.APIKey, cfg.Server.AllowedOrigins, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("timezone", cfg.App.Timezone).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newOffersCache connects to Redis when enabled. An unreachable Redis is not
// fatal: listings are then always read from the database.
func newOffersCache(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) (cache.OffersCache, func()) {
	if !cfg.Enabled {
		logger.Info().Msg("offers cache disabled")
		return cache.Nop{}, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn().
			Err(err).
			Str("addr", cfg.Addr).
			Msg("failed to connect to redis, running without offers cache")
		_ = client.Close()
		return cache.Nop{}, func() {}
	}

	logger.Info().Str("addr", cfg.Addr).Int("ttl_seconds", cfg.OffersTTL).Msg("offers cache enabled")

	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close redis client")
		}
	}
	return cache.NewRedisOffersCache(client, time.Duration(cfg.OffersTTL)*time.Second, logger), closeFn
}

func newPublisher(cfg config.KafkaConfig, logger zerolog.Logger) events.Publisher {
	if !cfg.Enabled {
		logger.Info().Msg("event publishing disabled")
		return events.Nop{}
	}

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("event publishing enabled")

	return events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Brokers, cfg.Topic), logger)
}
