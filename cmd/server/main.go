package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"golang.org/x/sync/errgroup"

	"minimarket/internal/audit"
	"minimarket/internal/backend"
	cartHandler "minimarket/internal/cart/handler"
	cartMetrics "minimarket/internal/cart/metrics"
	cartService "minimarket/internal/cart/service"
	"minimarket/internal/checkout"
	checkoutHandler "minimarket/internal/checkout/handler"
	checkoutService "minimarket/internal/checkout/service"
	jwttoken "minimarket/internal/jwt_token"
	"minimarket/internal/kvstore"
	locationHandler "minimarket/internal/location/handler"
	locationService "minimarket/internal/location/service"
	ordersHandler "minimarket/internal/orders/handler"
	ordersMetrics "minimarket/internal/orders/metrics"
	ordersService "minimarket/internal/orders/service"
	"minimarket/internal/platform/config"
	"minimarket/internal/platform/httpserver"
	"minimarket/internal/platform/logger"
	"minimarket/internal/platform/metrics"
	"minimarket/internal/platform/postgres"
	"minimarket/internal/platform/redis"
	"minimarket/internal/platform/tracing"
	httptransport "minimarket/internal/transport/http"
)

const (
	purgeInterval     = time.Hour
	// relayed audit events kept in memory before they are dropped
	auditRetention    = 24 * time.Hour
	memoryAuditEvents = 10000
)

// expiryPurger is a kv backend that has to delete expired entries itself.
type expiryPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// infra holds the opened storage handles so they can be closed on shutdown.
type infra struct {
	db      *sql.DB
	redis   *redis.Client
	sqlite  *kvstore.SQLite
	store   kvstore.Store
	purger  expiryPurger
}

func (i *infra) Close() {
	if i.sqlite != nil {
		_ = i.sqlite.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	inf, err := openInfra(ctx, cfg)
	if err != nil {
		return err
	}
	defer inf.Close()

	m := metrics.New()
	api, err := backend.New(cfg.Backend, backend.WithLogger(log), backend.WithMetrics(m))
	if err != nil {
		return err
	}

	var auditStore interface {
		audit.Store
		audit.Outbox
	}
	var memAudit *audit.InMemoryStore
	if inf.db != nil {
		auditStore = audit.NewPostgresStore(inf.db)
	} else {
		memAudit = audit.NewInMemoryStore(audit.WithCapacity(memoryAuditEvents))
		auditStore = memAudit
	}
	auditor := audit.NewPublisher(auditStore, log)

	scopeTx := kvstore.NewShardedScopeTx(inf.store, 0)

	carts, err := cartService.New(scopeTx, api,
		cartService.WithLogger(log),
		cartService.WithMetrics(cartMetrics.New()),
		cartService.WithAuditPublisher(auditor),
	)
	if err != nil {
		return err
	}

	validator, err := checkout.NewValidator(cfg.Checkout.Location(), cfg.Checkout.MaxDaysAhead, cfg.Checkout.OpenHour, cfg.Checkout.CloseHour)
	if err != nil {
		return err
	}
	checkouts, err := checkoutService.New(validator, carts, api,
		checkoutService.WithLogger(log),
		checkoutService.WithAuditPublisher(auditor),
	)
	if err != nil {
		return err
	}

	orders, err := ordersService.New(api,
		ordersService.WithLogger(log),
		ordersService.WithMetrics(ordersMetrics.New()),
		ordersService.WithAuditPublisher(auditor),
		ordersService.WithLocation(cfg.Checkout.Location()),
	)
	if err != nil {
		return err
	}

	locations, err := locationService.New(scopeTx, api, locationService.WithLogger(log))
	if err != nil {
		return err
	}

	tokens := jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer))
	checks := map[string]httptransport.Check{
		"storage": func(ctx context.Context) error { return kvstore.Ping(ctx, inf.store) },
	}
	if inf.redis != nil {
		checks["redis"] = inf.redis.Health
	}
	if inf.db != nil {
		checks["postgres"] = inf.db.PingContext
	}
	health := httptransport.NewHealth(checks, api.BreakerState)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		Metrics:      m,
		Tokens:       tokens,
		AdminToken:   cfg.Auth.AdminAPIToken,
		CookieSecure: cfg.Server.CookieSecure,
		ServiceName:  cfg.Tracing.ServiceName,
		Cart:         cartHandler.New(carts, log),
		Checkout:     checkoutHandler.New(checkouts, validator, log),
		Orders:       ordersHandler.New(orders, log),
		Location:     locationHandler.New(locations, log),
		Health:       health,
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	var relay *audit.Relay
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := audit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			return err
		}
		defer sink.Close()
		if err := sink.EnsureTopic(ctx, 1, 1); err != nil {
			log.Warn("could not ensure audit topic", "topic", cfg.Kafka.AuditTopic, "error", err)
		}
		relay = audit.NewRelay(auditStore, sink, cfg.Kafka.PollInterval, cfg.Kafka.BatchSize, log)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting minimarket", "addr", cfg.Server.Addr, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if relay != nil {
		g.Go(func() error {
			if err := relay.Run(gctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if inf.purger != nil || memAudit != nil {
		g.Go(func() error {
			purgeLoop(gctx, inf.purger, memAudit, log)
			return nil
		})
	}

	return g.Wait()
}

func openInfra(ctx context.Context, cfg *config.Config) (*infra, error) {
	inf := &infra{}
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if db != nil {
		inf.db = db
		if err := postgres.Migrate(db); err != nil {
			inf.Close()
			return nil, err
		}
	}

	switch cfg.Storage.Driver {
	case config.DriverRedis:
		rc, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			inf.Close()
			return nil, err
		}
		inf.redis = rc
		inf.store = kvstore.NewRedis(rc.Client, cfg.Storage.CartTTL)
	case config.DriverPostgres:
		pg := kvstore.NewPostgres(inf.db, cfg.Storage.CartTTL)
		inf.store = pg
		inf.purger = pg
	case config.DriverSQLite:
		s, err := kvstore.OpenSQLite(cfg.Storage.SQLitePath, cfg.Storage.CartTTL)
		if err != nil {
			inf.Close()
			return nil, err
		}
		inf.sqlite = s
		inf.store = s
		inf.purger = s
	default:
		mem := kvstore.NewInMemory(kvstore.WithMemoryTTL(cfg.Storage.CartTTL))
		inf.store = mem
		inf.purger = mem
	}
	return inf, nil
}

// purgeLoop keeps expired carts and relayed in-memory audit events from
// accumulating. Either argument may be nil.
func purgeLoop(ctx context.Context, kv expiryPurger, events *audit.InMemoryStore, log *slog.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if kv != nil {
				n, err := kv.PurgeExpired(ctx)
				if err != nil {
					log.Warn("kv purge failed", "error", err)
				} else if n > 0 {
					log.Info("purged expired kv entries", "rows", n)
				}
			}
			if events != nil {
				if n, _ := events.PurgePublished(ctx, now.Add(-auditRetention)); n > 0 {
					log.Info("dropped relayed audit events", "events", n)
				}
			}
		}
	}
}
