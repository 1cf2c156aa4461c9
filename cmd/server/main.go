// Command server runs the clinic authentication API.
//
// @title        Clinic Auth API
// @version      1.0
// @description  Session authentication and role authorization for the clinic queue.
// @BasePath     /
// @securityDefinitions.apikey  SessionToken
// @in                          header
// @name                        X-Session-Token
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/medqueue/clinic-auth/internal/api"
	"github.com/medqueue/clinic-auth/internal/api/handler"
	"github.com/medqueue/clinic-auth/internal/core/service"
	mongostore "github.com/medqueue/clinic-auth/internal/infrastructure/db/mongo"
	redisstore "github.com/medqueue/clinic-auth/internal/infrastructure/db/redis"
	"github.com/medqueue/clinic-auth/internal/infrastructure/hashing"
	"github.com/medqueue/clinic-auth/internal/infrastructure/queue"
	"github.com/medqueue/clinic-auth/internal/pkg/config"
	"github.com/medqueue/clinic-auth/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "clinic-auth",
		Env:     cfg.Env,
	})

	// Cancel on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Warn().Err(err).Msg("could not ensure principal indexes")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// Workers outlive the signal context so in-flight logins can finish
	// during graceful shutdown; Stop drains them afterwards.
	pool := queue.NewPool(cfg.Hash.Workers, cfg.Hash.Queue, logger.Component("hash_pool"))
	pool.Start(context.Background())
	defer pool.Stop()

	admins := mongostore.NewAdminRepository(db)
	users := mongostore.NewUserRepository(db)
	directory := service.NewDirectory(admins, users)

	resolver := service.NewPrincipalResolver(admins, users, hashing.NewPooledHasher(pool), logger.Component("resolver"))
	defer resolver.Wait()

	sessions := service.NewSessionManager(
		redisstore.NewSessionStore(rdb),
		directory,
		service.SessionOptions{TTL: cfg.Session.TTL, Sliding: cfg.Session.Sliding},
		logger.Component("sessions"),
	)
	authz := service.NewRoleAuthorizer(sessions)
	auth := service.NewAuthService(resolver, sessions, authz, logger.Component("auth"))

	e := api.NewRouter(api.Dependencies{
		Auth:      auth,
		Authz:     authz,
		Directory: directory,
		Cookie: handler.SessionCookie{
			Name:    cfg.Session.CookieName,
			Secure:  cfg.Session.CookieSecure,
			TTL:     sessions.TTL(),
			Sliding: cfg.Session.Sliding,
		},
		HealthChecks: map[string]handler.PingFunc{
			"mongodb": func(ctx context.Context) error { return mongostore.Ping(ctx, client) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Log: logger.Component("http"),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(sctx)
	})
	return g.Wait()
}
