package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cart-offer/internal/config"
	"cart-offer/internal/database"
	"cart-offer/internal/handler"
	"cart-offer/internal/offer"
	"cart-offer/internal/repository"
	"cart-offer/internal/router"
	"cart-offer/internal/segment"
	"cart-offer/internal/service"

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
	logger.Info().Msg("starting cart-offer API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := newStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	resolver, closeResolver, err := newResolver(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeResolver()

	// Initialize services
	offerService := service.NewOfferService(store, offer.NewValidator(logger), logger)
	cartService := service.NewCartService(offer.NewEngine(store, logger), resolver, logger)

	if err := seedOffers(ctx, cfg, offerService, logger); err != nil {
		return err
	}

	// Initialize HTTP handlers
	offerHandler := handler.NewOfferHandler(offerService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)

	if cfg.Auth.APIKey == "" {
		logger.Warn().Msg("API_KEY not set, API authentication disabled")
	}

	// Initialize router
	mux := router.New(offerHandler, cartHandler, cfg.Auth.APIKey, logger)

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

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newStore returns the configured offer store and a function releasing it.
func newStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (offer.Store, func(), error) {
	if cfg.Store.Backend != config.StorePostgres {
		logger.Info().Msg("using in-memory offer store")
		return offer.NewMemoryStore(logger), func() {}, nil
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logger.Info().Msg("using PostgreSQL offer store")
	return repository.NewOfferRepository(pool, logger), pool.Close, nil
}

// newResolver returns the segment resolver: the HTTP segment service when a URL
// is configured, otherwise the static fixtures, optionally behind Redis.
func newResolver(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (segment.Resolver, func(), error) {
	var resolver segment.Resolver

	if cfg.Segment.ServiceURL != "" {
		httpResolver, err := segment.NewHTTPResolver(cfg.Segment.ServiceURL, cfg.Segment.Timeout, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize segment resolver: %w", err)
		}
		logger.Info().Str("url", cfg.Segment.ServiceURL).Msg("using segment service")
		resolver = httpResolver
	} else {
		fixtures, err := segment.ParseFixtures(cfg.Segment.Fixtures)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse segment fixtures: %w", err)
		}
		logger.Info().Int("users", len(fixtures)).Msg("using static segment fixtures (SEGMENT_SERVICE_URL not set)")
		resolver = segment.NewStaticResolver(fixtures)
	}

	if !cfg.Redis.Enabled {
		return resolver, func() {}, nil
	}

	client, err := segment.ConnectRedis(ctx, segment.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize segment cache: %w", err)
	}

	closeClient := func() {
		if err := client.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close redis client")
		}
	}

	return segment.NewCachedResolver(resolver, client, cfg.Redis.CacheTTL, cfg.Segment.Timeout, logger), closeClient, nil
}

// seedOffers registers the configured seed files, trying S3 first when enabled.
func seedOffers(ctx context.Context, cfg *config.Config, svc service.OfferService, logger zerolog.Logger) error {
	if len(cfg.Seed.Files) == 0 {
		return nil
	}

	fileLoader := offer.NewFileLoader(logger)

	var s3Loader offer.Loader
	if cfg.S3.Enabled {
		l, err := offer.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = l
		}
	} else {
		logger.Info().Msg("using local file system for offer seed files (S3 disabled)")
	}

	loader := offer.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)

	if _, err := offer.Seed(ctx, loader, cfg.Seed.Files, service.Register(svc), logger); err != nil {
		return fmt.Errorf("failed to seed offers: %w", err)
	}

	return nil
}
