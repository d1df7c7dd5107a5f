package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/rollcall/core/attendance"
	"github.com/dmitrymomot/rollcall/core/logger"
	"github.com/dmitrymomot/rollcall/core/secrets"
	"github.com/dmitrymomot/rollcall/core/session"
	"github.com/dmitrymomot/rollcall/handler"
	"github.com/dmitrymomot/rollcall/httpserver"
	"github.com/dmitrymomot/rollcall/integration/database/pg"
	"github.com/dmitrymomot/rollcall/integration/database/redis"
	"github.com/dmitrymomot/rollcall/metrics"
	"github.com/dmitrymomot/rollcall/pkg/broadcast"
	"github.com/dmitrymomot/rollcall/pkg/jwt"
	"github.com/dmitrymomot/rollcall/pkg/ratelimiter"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, log := loadConfig()

			db, err := pg.Connect(ctx, cfg.DB)
			if err != nil {
				return errors.Join(errors.New("database connect"), err)
			}
			defer db.Close()
			if err := pg.Migrate(ctx, db, log.With("component", "migration")); err != nil {
				return errors.Join(errors.New("database migrate"), err)
			}

			rdb, err := redis.Connect(ctx, cfg.Redis)
			if err != nil {
				return errors.Join(errors.New("redis connect"), err)
			}
			defer rdb.Close()

			vaultKey, err := cfg.vaultKey()
			if err != nil {
				return err
			}
			vault, err := secrets.NewVault(pg.NewSecretStore(db), vaultKey)
			if err != nil {
				return err
			}

			registry := session.NewRegistry(pg.NewSessionStore(db), vault,
				session.WithMaxAge(cfg.Session.MaxAge),
				session.WithDefaultProximityRadius(cfg.Session.DefaultProximityRadius),
			)

			m := metrics.New()
			feed := broadcast.NewMemoryBroadcaster[attendance.Receipt](cfg.FeedBuffer)
			defer feed.Close()

			svc := attendance.NewService(
				registry,
				vault,
				redis.NewReplayGuard(rdb, cfg.GuardRetention),
				pg.NewRecordStore(db),
				attendance.WithSkewWindow(cfg.SkewWindow),
				attendance.WithFeed(feed),
				attendance.WithMetrics(m),
			)

			tokens, err := jwt.NewFromString(cfg.JWTSigningKey,
				jwt.WithIssuer(cfg.AppName),
				jwt.WithTTL(cfg.TokenTTL),
			)
			if err != nil {
				return err
			}

			limiterStore := ratelimiter.NewMemoryStore()
			limiterStore.Start(ctx, 10*time.Minute, time.Hour)
			limiter, err := ratelimiter.NewBucket(limiterStore, cfg.RateLimit)
			if err != nil {
				return err
			}

			h := handler.New(log, registry, svc, feed,
				handler.WithClaimBaseURL(cfg.ClaimBaseURL),
				handler.WithSessionGauge(m),
				handler.WithInstrument(m),
				handler.WithMetricsHandler(m.Handler()),
				handler.WithReadinessChecks(pg.Healthcheck(db), redis.Healthcheck(rdb)),
			)

			srv, err := httpserver.NewFromConfig(cfg.Server, httpserver.WithLogger(log))
			if err != nil {
				return err
			}

			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(srv.Run(ctx, h.Routes(tokens, limiter)))

			if err := eg.Wait(); err != nil {
				return err
			}
			log.Info("application stopped", logger.Component("main"))
			return nil
		},
	}
}
