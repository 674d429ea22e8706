package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/workshophub/portal/docs"
	"github.com/workshophub/portal/internal/api"
	"github.com/workshophub/portal/internal/infrastructure/backend"
	"github.com/workshophub/portal/internal/infrastructure/config"
	mongodb "github.com/workshophub/portal/internal/infrastructure/db/mongo"
	redisdb "github.com/workshophub/portal/internal/infrastructure/db/redis"
	"github.com/workshophub/portal/internal/infrastructure/queue"
	"github.com/workshophub/portal/pkg/logger"
)

// @title        Workshop Portal API
// @version      1.0
// @description  Session-gated navigation and OTP verification for the workshop marketplace.
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer rdb.Close()

	client, db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.NewFlowRepository(db).EnsureIndexes(ctx, cfg.Session.FlowTTL); err != nil {
		log.Fatal().Err(err).Msg("flow index setup failed")
	}

	dispatcher := queue.NewDispatcher(0, mongodb.NewAuditRepository(db), log)
	dispatcher.Start(ctx)

	verificationBackend := backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout, log)

	e := api.NewRouter(db, rdb, verificationBackend, dispatcher, cfg.Session.TTL, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("portal started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
