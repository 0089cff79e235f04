package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-studyplan/internal/config"
	"github.com/yungbote/neurobridge-studyplan/internal/data/db"
	httpserver "github.com/yungbote/neurobridge-studyplan/internal/http"
	"github.com/yungbote/neurobridge-studyplan/internal/observability"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/kvstore"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/shutdown"
)

type App struct {
	Log      *logger.Logger
	Cfg      *config.Config
	DB       *gorm.DB
	Store    kvstore.Store
	Metrics  *observability.Metrics
	Services Services
	Server   *httpserver.Server

	dbService    *db.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context, log *logger.Logger, cfg *config.Config) (*App, error) {
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Observability.OtelEnabled,
		ServiceName: cfg.Observability.ServiceName,
		Environment: cfg.Env,
		Endpoint:    cfg.Observability.OtelEndpoint,
		Headers:     observability.ParseHeaders(cfg.Observability.OtelHeaders),
		Insecure:    cfg.Observability.OtelInsecure,
		SampleRatio: cfg.Observability.OtelSampleRatio,
	})
	metrics := observability.Init(log, cfg.Observability.MetricsEnabled)

	clients, err := wireClients(log, cfg)
	if err != nil {
		return nil, err
	}

	serviceset, err := wireServices(log, cfg, clients)
	if err != nil {
		clients.Close()
		return nil, err
	}

	server := wireServer(log, cfg, metrics, clients, serviceset)

	return &App{
		Log:          log,
		Cfg:          cfg,
		DB:           clients.DB.DB(),
		Store:        clients.Store,
		Metrics:      metrics,
		Services:     serviceset,
		Server:       server,
		dbService:    clients.DB,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background collectors. They stop when Close is called.
func (a *App) Start(ctx context.Context) {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
	a.Metrics.StartStoreCollector(ctx, a.Log, a.Store)
	a.Metrics.StartSLOEvaluator(ctx, a.Log)
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	steps := []shutdown.Step{}
	if a.Store != nil {
		steps = append(steps, shutdown.Step{Name: "store", Close: func(context.Context) error { return a.Store.Close() }})
	}
	if a.dbService != nil {
		steps = append(steps, shutdown.Step{Name: "database", Close: func(context.Context) error { return a.dbService.Close() }})
	}
	if a.otelShutdown != nil {
		steps = append(steps, shutdown.Step{Name: "otel", Close: a.otelShutdown})
		a.otelShutdown = nil
	}
	shutdown.Run(a.Log, a.Cfg.HTTP.ShutdownTimeout.Duration, steps...)
	a.Store, a.dbService = nil, nil
	a.Log.Sync()
}
