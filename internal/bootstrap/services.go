package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/driftline/driftline/config"
	"github.com/driftline/driftline/internal/adapters/content"
	"github.com/driftline/driftline/internal/adapters/memkv"
	"github.com/driftline/driftline/internal/adapters/postgres"
	rediskv "github.com/driftline/driftline/internal/adapters/redis"
	httpx "github.com/driftline/driftline/internal/http"
	"github.com/driftline/driftline/internal/ports"
	"github.com/driftline/driftline/internal/session"
)

// App holds the wired application: every long-lived dependency the server
// needs, plus the handles Run uses to tear them down.
type App struct {
	Config   config.AppConfig
	Logger   *slog.Logger
	Sessions *session.Manager
	Router   httpx.RouterServices

	db    *sql.DB
	redis goredis.UniversalClient
}

// BuildApp wires the application from configuration. It connects the
// stores, selects the auth provider, and assembles the session manager
// and router services.
func BuildApp(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	// Credential store backing
	var kv ports.KV
	if cfg.CredStore.InMemory {
		logger.Info("credential store: in-memory (dev only)")
		kv = memkv.New()
	} else {
		client, err := ConnectRedis(DatabaseConfig{RedisConfig: cfg.Redis, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		app.redis = client
		kv = rediskv.NewKV(rediskv.Options{
			Client: client,
			Prefix: cfg.CredStore.KeyPrefix,
			TTL:    cfg.CredStore.TTL,
		})
	}

	// Audit trail
	var audit ports.AuditStore
	var auditReader httpx.AuditReader
	db, err := ConnectDB(DatabaseConfig{DBConfig: cfg.Postgres, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	app.db = db
	auditStore := postgres.NewAuditStore(db, logger)
	if err := auditStore.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure audit schema: %w", err)
	}
	audit = auditStore
	auditReader = auditStore

	// Auth provider
	providers, err := BuildAuthProviders(cfg.Auth)
	if err != nil {
		return nil, err
	}

	// Content API client
	feed, err := content.NewClient(content.Config{BaseURL: cfg.ContentAPIURL})
	if err != nil {
		return nil, fmt.Errorf("build content client: %w", err)
	}

	// Session manager
	realtimeCfg := session.RealtimeConfig{}
	if cfg.Realtime.Enabled {
		realtimeCfg = session.RealtimeConfig{
			Endpoint: cfg.Realtime.Endpoint,
			Origin:   cfg.Realtime.Origin,
			Param:    cfg.Realtime.Param,
		}
	}
	app.Sessions = session.NewManager(session.ManagerOptions{
		KV:       kv,
		Audit:    audit,
		Realtime: realtimeCfg,
		Logger:   logger,
		IdleTTL:  cfg.SessionIdleTTL,
	})

	app.Router = httpx.RouterServices{
		Sessions:     app.Sessions,
		Identity:     providers.Identity,
		Flow:         providers.Flow,
		Feed:         feed,
		Audit:        auditReader,
		CookieDomain: cfg.HTTP.CookieDomain,
		IsDev:        cfg.IsDev,
		Logger:       logger,
	}

	return app, nil
}

// Close releases the app's long-lived connections.
func (a *App) Close() {
	if a.Sessions != nil {
		a.Sessions.Shutdown()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Logger.Error("close database failed", "error", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Error("close redis failed", "error", err)
		}
	}
}

// Run starts the HTTP server and blocks until a shutdown signal arrives
// or a component fails.
func Run(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := BuildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	server := StartHTTPServer(cfg.HTTP, app.Router, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		ShutdownHTTPServer(context.Background(), server, logger)
		return nil
	})

	return g.Wait()
}
