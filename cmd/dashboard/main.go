package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gridsight/forecast-dashboard/internal/backend"
	"github.com/gridsight/forecast-dashboard/internal/config"
	"github.com/gridsight/forecast-dashboard/internal/query"
	"github.com/gridsight/forecast-dashboard/internal/server"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if level, err := zerolog.ParseLevel(config.LogLevel()); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	api := backend.New(
		config.BackendBaseURL(),
		config.BackendTimeout(),
		backend.WithUnauthorizedEmpty(config.UnauthorizedPolicy() == "empty"),
	)

	var cache query.Cache
	switch config.CacheBackend() {
	case "redis":
		rc, err := query.NewRedisCache(config.RedisAddr())
		if err != nil {
			log.Fatal().Err(err).Msg("redis cache init failed")
		}
		cache = rc
	default:
		cache = query.NewMemoryCache(config.CacheTTL())
	}
	defer cache.Close()

	queries := query.NewClient(cache, config.CacheTTL())
	srv := server.New(api, queries, config.AlertsPollInterval())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	srv.Run(ctx)

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	addr := config.ListenAddr()
	log.Info().Str("addr", addr).Str("backend", api.BaseURL()).Msg("dashboard listening")
	if err := srv.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}
