package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"framebrew/internal/adapter/repo"
	"framebrew/internal/cache"
	"framebrew/internal/domain"
	"framebrew/internal/engine"
	"framebrew/internal/events"
	"framebrew/internal/http/handlers"
	"framebrew/internal/http/httpapi"
	"framebrew/internal/infra"
	"framebrew/internal/infra/geoip"
	"framebrew/internal/memstore"
	"framebrew/internal/middleware"
	"framebrew/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store domain.Store
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		store = repo.NewStore(pool)
	} else {
		logger.Warn().Msg("DATABASE_URL not set, using in-memory store")
		store = memstore.New()
	}

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip resolver unavailable")
	} else if resolver != nil {
		lookup = resolver.CountryCode
		defer resolver.Close()
	}

	fileStore, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}

	bus := events.NewBus(cfg.EventBufferSize)
	bus.Subscribe(func(e events.Event) {
		logger.Info().
			Str("job_id", e.JobID).
			Str("video_id", e.VideoID).
			Str("status", string(e.Status)).
			Msg("job status changed")
	})

	// The query cache follows the bus so cached list/detail results stay
	// current; terminal transitions surface in the notification log.
	queryCache := cache.NewStore(func(n cache.Notification) {
		logger.Info().
			Str("level", string(n.Level)).
			Str("video_id", n.VideoID).
			Str("job_id", n.JobID).
			Msg(n.Message)
	})
	queryCache.AttachTo(bus)

	eng := engine.New(ctx, engine.Options{
		Store:    store,
		Bus:      bus,
		Logger:   logger,
		BaseURL:  cfg.StorageBaseURL,
		DelayMin: cfg.GenDelayMin,
		DelayMax: cfg.GenDelayMax,
	})

	app := handlers.NewApp(store, eng, bus, logger)
	router := httpapi.NewRouter(app, cfg, logger, lookup, fileStore)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
