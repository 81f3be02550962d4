package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/goalflow-backend/internal/data/db"
	"github.com/yungbote/goalflow-backend/internal/http"
	"github.com/yungbote/goalflow-backend/internal/observability"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
	"github.com/yungbote/goalflow-backend/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Store    db.Store
	DB       *gorm.DB
	Router   *gin.Engine
	Repos    Repos
	Services Services
	Clients  Clients
	SSEHub   *realtime.SSEHub
	Metrics  *observability.Metrics

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// New opens the store and wires everything. It does not migrate; call
// Migrate first when the schema may be behind.
func New(cfg Config) (*App, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	store, err := db.Open(cfg.StoreOptions(), log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreMode, err)
	}
	a, err := build(cfg, log, store)
	if err != nil {
		_ = store.Close()
		log.Sync()
		return nil, err
	}
	return a, nil
}

func build(cfg Config, log *logger.Logger, store db.Store) (*App, error) {
	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: cfg.OtelServiceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.OtelEndpoint,
		Headers:     observability.ParseHeaders(cfg.OtelHeaders),
		Insecure:    cfg.OtelInsecure,
		SampleRatio: cfg.OtelSampleRatio,
	})

	clients, err := wireClients(log, cfg)
	if err != nil {
		return nil, err
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	hub := realtime.NewSSEHub(log)
	var pub realtime.Publisher
	if clients.SSEBus != nil {
		pub = clients.SSEBus
	}
	notifier := realtime.Counted(realtime.NewNotifier(hub, pub, log), func(e realtime.SSEEvent) {
		metrics.IncEvent(string(e))
	})

	theDB := store.DB()
	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, notifier)
	if err != nil {
		_ = clients.Close()
		return nil, err
	}
	handlerset := wireHandlers(log, theDB, serviceset, hub)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Store:        store,
		DB:           theDB,
		Router:       router,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		SSEHub:       hub,
		Metrics:      metrics,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Migrate() error {
	a.Log.Info("Running migrations...", "store", a.Store.Mode())
	if err := db.AutoMigrateAll(a.DB); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// Start launches background work: the Redis forwarder that feeds messages
// published by any instance into this instance's hub.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	if a.Clients.SSEBus != nil {
		if err := a.Clients.SSEBus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
			return fmt.Errorf("start SSE forwarder: %w", err)
		}
	}
	return nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return errors.New("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Server listening", "addr", addr, "store", a.Store.Mode())
	return http.NewServer(addr, a.Router).Run(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown", "error", err)
		}
	}
	if err := a.Clients.Close(); err != nil {
		a.Log.Warn("close clients", "error", err)
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Log.Warn("close store", "error", err)
		}
	}
	a.Log.Sync()
}
