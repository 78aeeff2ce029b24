package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sandevgo/aide/internal/config"
	"github.com/sandevgo/aide/internal/metrics"
	"github.com/sandevgo/aide/internal/providers/news"
	"github.com/sandevgo/aide/internal/providers/weather"
	"github.com/sandevgo/aide/internal/service/assistant"
	"github.com/sandevgo/aide/internal/service/command"
	"github.com/sandevgo/aide/internal/service/dispatch"
	"github.com/sandevgo/aide/internal/service/intent"
	"github.com/sandevgo/aide/internal/service/notify"
	"github.com/sandevgo/aide/internal/storage/sqlite"
	"github.com/sandevgo/aide/internal/transport/cli"
	"github.com/sandevgo/aide/internal/transport/telegram"
	"github.com/sandevgo/aide/pkg/log"
	"github.com/sandevgo/aide/pkg/srv"
)

// App holds the wired core shared by every subcommand.
type App struct {
	Config     *config.AppConfig
	Store      *sqlite.Store
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	Scheduler  *notify.Scheduler
	Dispatcher *dispatch.Dispatcher
	Assistant  *assistant.Assistant

	// Sinks receives every fired notification. Transports append to it
	// before the scheduler starts.
	Sinks notify.Multi

	services []srv.Service
}

func NewApp(ctx context.Context) (*App, error) {
	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, fmt.Errorf("failed to init env: %w", err)
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	weatherCfg := config.NewWeatherConfig(ctx)
	newsCfg := config.NewNewsConfig(ctx)

	app := &App{
		Config: appCfg,
		Sinks:  notify.Multi{notify.Log{}},
	}

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.services = append(app.services, srv.NewCleanup(db.Close))
	app.Store = sqlite.NewStore(db)

	// 3. Metrics
	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.Metrics = metrics.MustNew(app.Registry)

	// 4. Notifications
	app.Scheduler = notify.NewScheduler(&app.Sinks,
		notify.WithStore(app.Store),
		notify.WithNotes(app.Store),
		notify.WithOffsets(appCfg.NotifyOffsets),
		notify.WithMetrics(app.Metrics),
	)

	// 5. Dispatcher
	lat, lon, hasCoords := appCfg.GetDefaultCoordinates()
	app.Dispatcher = dispatch.New(
		dispatch.Deps{
			Weather:   weather.NewClient(weatherCfg),
			News:      news.NewClient(newsCfg),
			Store:     app.Store,
			Scheduler: app.Scheduler,
			Metrics:   app.Metrics,
		},
		dispatch.Options{
			DefaultCity:      appCfg.DefaultCity,
			DefaultLat:       lat,
			DefaultLon:       lon,
			HasDefaultCoords: hasCoords,
			NewsCountry:      newsCfg.Country,
			NewsLanguage:     newsCfg.Language,
			DemoMode:         appCfg.DemoMode,
			NotifyOffsets:    appCfg.NotifyOffsets,
			WeatherTTL:       appCfg.WeatherTTL,
			NewsTTL:          appCfg.NewsTTL,
			CacheMaxItems:    appCfg.CacheMaxItems,
		},
	)

	// 6. Assistant
	router := command.NewRouter(app.Dispatcher, app.Store)
	app.Assistant = assistant.New(intent.New(), app.Dispatcher, router, app.Store)

	log.FromCtx(ctx).Debug().
		Str("runtime", appCfg.GetRuntimePath()).
		Bool("demo", appCfg.DemoMode).
		Msg("core initialized")

	return app, nil
}

// Services returns the core services followed by extra and the scheduler.
func (a *App) Services(extra ...srv.Service) []srv.Service {
	services := append([]srv.Service{}, a.services...)
	services = append(services, extra...)
	return append(services, a.Scheduler)
}

// StartOptions switch off parts of the configured service set.
type StartOptions struct {
	NoCLI     bool
	NoMetrics bool
}

// NewServices wires every long-running service for the start command.
func NewServices(ctx context.Context, opts StartOptions) ([]srv.Service, error) {
	app, err := NewApp(ctx)
	if err != nil {
		return nil, err
	}
	if opts.NoCLI {
		app.Config.EnableCLI = false
	}

	var services []srv.Service

	// Metrics endpoint
	metricsCfg := config.NewMetricsConfig(ctx)
	if metricsCfg.Addr != "" && !opts.NoMetrics {
		services = append(services, metrics.NewServer(metricsCfg.Addr, metricsCfg.Path, app.Registry))
	}

	// Transports
	transports, err := initTransports(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize transports: %w", err)
	}
	services = append(services, transports...)
	if len(transports) == 0 {
		log.FromCtx(ctx).Warn().Msg("no chat transport enabled, reminders will only be logged")
	}

	return app.Services(services...), nil
}

func initTransports(ctx context.Context, app *App) ([]srv.Service, error) {
	var services []srv.Service

	// Telegram Bot
	if app.Config.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, app.Assistant)
		if err != nil {
			return nil, err
		}
		app.Sinks = append(app.Sinks, bot)
		services = append(services, bot)
	}

	// Interactive chat
	if app.Config.EnableCLI {
		rl, err := cli.NewReadLine(app.Assistant, app.Config)
		if err != nil {
			return nil, err
		}
		app.Sinks = append(app.Sinks, rl)
		services = append(services, rl)
	}

	return services, nil
}
