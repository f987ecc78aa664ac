package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"hiring-assistant/internal/cfg"
	"hiring-assistant/internal/evaluator"
	"hiring-assistant/internal/features"
	"hiring-assistant/internal/metrics"
	"hiring-assistant/internal/ml"
	"hiring-assistant/internal/server"
	"hiring-assistant/internal/storage"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	cfg.ConfigureLogging(c.LogLevel, c.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	mw := metrics.NewWrapper(m)

	store := initializeStorage(c)
	if store != nil {
		defer store.Close()
	}

	registry := loadRegistry(ctx, c, store, mw)
	mw.UpdateRegistry(registry.Len(), len(registry.Unavailable()))
	if _, ok := registry.Get(c.DefaultModel); !ok {
		log.Warn().Str("model", c.DefaultModel).Msg("Default classifier is not available")
	}

	eval := evaluator.New(registry,
		evaluator.WithValidator(features.Validator{EnforceRanges: c.EnforceRanges}),
		evaluator.WithMetrics(mw),
	)

	srv := server.New(eval, server.Config{
		Port:         c.ListenPort,
		DefaultModel: c.DefaultModel,
		Registry:     registry,
		Metrics:      mw,
	})
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("server start failed")
	}

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// initializeStorage opens the artifact store if MODEL_STORE_PATH is configured
func initializeStorage(c cfg.Settings) *storage.Store {
	if c.ModelStorePath == "" {
		return nil
	}
	store, err := storage.New(c.ModelStorePath)
	if err != nil {
		// Store-backed models will be reported as unavailable.
		log.Warn().Err(err).Str("path", c.ModelStorePath).Msg("model store unavailable")
		return nil
	}
	return store
}

func loadRegistry(ctx context.Context, c cfg.Settings, store *storage.Store, mw *metrics.MetricsWrapper) *ml.Registry {
	opts := []ml.LoadOption{
		ml.WithMetrics(mw),
		ml.WithConcurrency(c.LoadConcurrency),
	}
	if store != nil {
		opts = append(opts, ml.WithStore(store))
	}
	return ml.Load(ctx, c.Sources(), opts...)
}
