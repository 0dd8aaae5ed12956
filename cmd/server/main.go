package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/oggyb/muzz-interest/internal/app"
	"github.com/oggyb/muzz-interest/internal/cache"
	"github.com/oggyb/muzz-interest/internal/config"
	"github.com/oggyb/muzz-interest/internal/db"
	"github.com/oggyb/muzz-interest/internal/events"
	"github.com/oggyb/muzz-interest/internal/logger"
	"github.com/oggyb/muzz-interest/internal/observability"
	"github.com/oggyb/muzz-interest/internal/server"
	"github.com/oggyb/muzz-interest/internal/service/interest"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg, log, nil)
	if err != nil {
		log.Error("failed to init tracing", "err", err)
		return
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("tracer shutdown failed", "err", err)
		}
	}()

	// Init DB (migrates on open)
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(ctx); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}
	defer redisCache.Close()

	bus, err := events.NewRedisBus(redisCache.Client, cfg.Swipe.EventsChannel, log)
	if err != nil {
		log.Error("failed to init event bus", "err", err)
		return
	}

	appCtx := app.New(cfg, database, redisCache, bus, log)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database, db.SeedOptions{}); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	registrars := []server.Registrar{
		interest.NewRegistrar(appCtx),
	}

	if err := server.StartGRPCServer(ctx, cfg, log, registrars...); err != nil {
		log.Error("gRPC server stopped", "err", err)
	}
}
