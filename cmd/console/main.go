package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/image-ehr/clinic-console/internal/api"
	"github.com/image-ehr/clinic-console/internal/core/service"
	"github.com/image-ehr/clinic-console/internal/infrastructure/backend"
	mongodb "github.com/image-ehr/clinic-console/internal/infrastructure/db/mongo"
	redisdb "github.com/image-ehr/clinic-console/internal/infrastructure/db/redis"
	"github.com/image-ehr/clinic-console/internal/infrastructure/queue"
	"github.com/image-ehr/clinic-console/internal/pkg/config"
	"github.com/image-ehr/clinic-console/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.CookieSecret == "" {
		log.Fatal().Msg("COOKIE_SECRET must be set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Infrastructure ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:    cfg.Redis.Addr,
		DB:      cfg.Redis.DB,
		Timeout: cfg.Redis.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer rdb.Close()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongodb")
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	gateway := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, log)

	// --- Services ---
	sessionStore := redisdb.NewSessionStore(rdb, cfg.Session.TTL, log)
	loginGuard := redisdb.NewLoginGuard(rdb)
	auditRepo := mongodb.NewLoginAuditRepository(db)

	auditDispatcher := queue.NewAuditDispatcher(0, auditRepo, log)
	auditDispatcher.Start(ctx)

	sessions := service.NewSessionService(
		sessionStore,
		gateway,
		loginGuard,
		auditDispatcher,
		cfg.Session.RevalidateAfter,
		log,
	)

	// --- HTTP server ---
	e := api.NewRouter(api.Dependencies{
		Sessions:     sessions,
		Gateway:      gateway,
		Audit:        auditRepo,
		Mongo:        db,
		Redis:        rdb,
		CookieSecret: cfg.CookieSecret,
		CookieTTL:    cfg.Session.TTL,
		WebDir:       cfg.WebDir,
		Log:          log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("backend", cfg.Backend.BaseURL).
		Msg("clinic console started")

	waitForShutdown(log)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func waitForShutdown(log zerolog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")
}
