// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"adsfront/internal/adsapi"
	"adsfront/internal/cache"
	"adsfront/internal/config"
	"adsfront/internal/db"
	"adsfront/internal/db/migrations"
	"adsfront/internal/logging"
	"adsfront/internal/metrics"
	"adsfront/internal/repository"
	"adsfront/internal/routes"
	"adsfront/internal/services"
)

const purgeInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, database := openStore(ctx, cfg, logger)
	if database != nil {
		defer database.Close()
	}

	client := adsapi.NewClient(
		adsapi.NewTransport(cfg.BaseURL, cfg.RequestTimeout, cfg.RateLimit, cfg.RateBurst),
		logger,
	)
	listing := cache.New(store, cfg.CacheTTL, logger)
	defer listing.Close()

	m := metrics.New()
	ads := services.NewAdsService(client, listing, m, logger)

	deps := routes.Deps{
		Ads:            ads,
		Metrics:        m,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	}
	if database != nil {
		deps.DB = database.DB
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("backend", cfg.BaseURL).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server")

	// Give server 5 seconds to finish current requests
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}
	logger.Info().Msg("server exiting")
}

// openStore picks the Postgres-backed store when a cache database is
// configured and the in-process one otherwise.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (cache.Store, *db.Database) {
	if cfg.CacheDatabaseURL == "" {
		mem := cache.NewMemoryStore()
		mem.StartSweeper(purgeInterval)
		logger.Info().Msg("using in-memory listing cache")
		return mem, nil
	}

	if err := db.EnsureDatabase(ctx, cfg.CacheDatabaseURL, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure cache database exists")
	}
	database, err := db.New(ctx, cfg.CacheDatabaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to cache database")
	}
	if err := migrations.RunMigrations(database.DB, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	repo := repository.NewCacheRepository(database.DB)
	go purgeLoop(ctx, repo, logger)
	return repo, database
}

func purgeLoop(ctx context.Context, repo *repository.CacheRepository, logger zerolog.Logger) {
	t := time.NewTicker(purgeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := repo.PurgeExpired(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("purging expired cache rows failed")
				continue
			}
			if n > 0 {
				logger.Debug().Int64("rows", n).Msg("purged expired cache rows")
			}
		}
	}
}
