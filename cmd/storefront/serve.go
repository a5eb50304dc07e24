package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matst80/slask-storefront/pkg/cache"
	"github.com/matst80/slask-storefront/pkg/common"
	"github.com/matst80/slask-storefront/pkg/config"
	"github.com/matst80/slask-storefront/pkg/content"
	"github.com/matst80/slask-storefront/pkg/messaging"
	"github.com/matst80/slask-storefront/pkg/server"
	"github.com/matst80/slask-storefront/pkg/storage"
	"github.com/matst80/slask-storefront/pkg/tracking"
	"github.com/matst80/slask-storefront/pkg/transport"
)

func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront api",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
}

type app struct {
	cfg    *config.Config
	rdb    *redis.Client
	broker *messaging.RabbitBroker
	rest   *transport.RestTransport
	ws     *server.WebServer
}

func (a *app) connectRedis(ctx context.Context) {
	rc := a.cfg.Redis
	if rc.Addr == "" {
		return
	}
	rdb := cache.NewRedisClient(rc.Addr, rc.Password, rc.DB)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).WithField("addr", rc.Addr).Warn("Redis unavailable, running without second tier")
		_ = rdb.Close()
		return
	}
	a.rdb = rdb
	log.WithField("addr", rc.Addr).Info("Connected to redis")
}

func (a *app) connectRabbit() {
	if a.cfg.Rabbit.Url == "" {
		return
	}
	broker, err := messaging.Connect(a.cfg.Rabbit, messaging.ContentUrlsChanged, messaging.CacheInvalidated, messaging.Tracking)
	if err != nil {
		log.WithError(err).Warn("Rabbit unavailable, running without fan-out")
		return
	}
	a.broker = broker
}

func (a *app) build(ctx context.Context) error {
	tc, err := a.cfg.TranslatorConfiguration()
	if err != nil {
		return err
	}
	a.rest = transport.NewRestTransport(a.cfg.Backend.Config)

	syncOpts := []cache.SyncOption{
		cache.WithName("responses"),
		cache.WithCapacity(a.cfg.Cache.Capacity),
	}
	a.ws = &server.WebServer{
		Translator:  tc,
		Crawlers:    a.cfg.Translator.Crawlers,
		Admin:       adminAuth(a.cfg),
		Content:     content.NewCollection(a.cfg.Content.Patterns),
		Sessions:    tracking.NewRegistry(a.cfg.Sessions.Tracked, a.cfg.Sessions.Ttl),
		SearchPath:  a.cfg.Backend.SearchPath,
		ContentPath: a.cfg.Backend.ContentPath,
	}
	if a.cfg.Admin.ApiKey == "" && a.cfg.Admin.Secret == "" {
		log.Warn("No admin api key or secret configured, admin routes refuse every request")
	}
	if a.rdb != nil {
		syncOpts = append(syncOpts, cache.WithStore(cache.NewRedisStore(a.rdb, a.cfg.Redis.Prefix, a.cfg.Redis.Ttl)))
		a.ws.Patterns = content.NewRedisPatternStore(a.rdb, a.cfg.Redis.Prefix)
	} else if a.cfg.Storage.Root != "" {
		a.ws.Patterns = storage.NewDiskStorage(a.cfg.Server.Country, a.cfg.Storage.Root)
	}
	a.ws.Responses = cache.NewCachedSync(a.rest, syncOpts...)

	if err := a.ws.LoadPatterns(ctx); err != nil {
		log.WithError(err).Warn("Failed to load stored content patterns")
	}
	if a.broker != nil {
		a.ws.Publisher = a.broker
		a.ws.Tracking = tracking.NewRabbitTracking(a.broker, a.cfg.Server.Country)
		if err := a.ws.Listen(a.broker); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) close(ctx context.Context) error {
	if a.broker != nil {
		if err := a.broker.Close(); err != nil {
			log.WithError(err).Warn("Failed to close rabbit connection")
		}
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			log.WithError(err).Warn("Failed to close redis client")
		}
	}
	if a.rest != nil {
		return a.rest.Close()
	}
	return nil
}

func runServe(ctx context.Context, cfg *config.Config) error {
	a := &app{cfg: cfg}
	a.connectRedis(ctx)
	a.connectRabbit()
	if err := a.build(ctx); err != nil {
		_ = a.close(ctx)
		return err
	}

	srv := common.NewServerWithTimeouts(&http.Server{
		Addr:    cfg.Server.Addr,
		Handler: a.ws.Handle(),
	}, cfg.Server.Timeouts)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return common.RunServerWithShutdown(gctx, srv, "storefront", cfg.Server.Timeouts, a.close)
	})
	g.Go(func() error {
		return a.ws.Sessions.Run(gctx, time.Minute)
	})
	if a.broker != nil {
		g.Go(func() error {
			return a.broker.Watch(gctx)
		})
	}
	return g.Wait()
}
