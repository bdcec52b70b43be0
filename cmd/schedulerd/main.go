package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	schedulerd "github.com/Deepreo/schedulerd"
	"github.com/Deepreo/schedulerd/core"
	"github.com/Deepreo/schedulerd/modules/cache"
	"github.com/Deepreo/schedulerd/modules/command"
	"github.com/Deepreo/schedulerd/modules/engine"
	"github.com/Deepreo/schedulerd/modules/event"
	"github.com/Deepreo/schedulerd/modules/query"
	"github.com/Deepreo/schedulerd/modules/schedules"
	"github.com/Deepreo/schedulerd/modules/servers"
	"github.com/Deepreo/schedulerd/modules/store"
	"github.com/Deepreo/schedulerd/modules/timer"
	"github.com/Deepreo/schedulerd/modules/trigger"
)

func main() {
	configPath := flag.String("config", "", "path to the configuration file")
	flag.Parse()

	cfg, err := schedulerd.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("schedulerd exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *schedulerd.Config, logger *slog.Logger) error {
	pg, err := store.NewPostgres(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer pg.Close()
	if err := pg.EnsureSchema(ctx); err != nil {
		return err
	}

	var scheduleStore core.ScheduleStore = pg
	if cfg.Cache.Enabled {
		redisCache, err := cache.New(ctx, &cfg.Cache)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		scheduleStore = store.NewCached(pg, redisCache, logger)
	}

	notifier, err := event.NewNotifier(logger)
	if err != nil {
		return err
	}
	notifier.Use(event.OTelMiddleware)

	factory, err := timer.NewFactory()
	if err != nil {
		return err
	}

	jobTrigger, err := trigger.NewHTTPTrigger(&cfg.Trigger, logger)
	if err != nil {
		return err
	}

	registry := engine.NewRegistry()
	composer := engine.NewComposer(factory, jobTrigger, scheduleStore, logger)
	reconciler := engine.NewReconciler(scheduleStore, registry, composer, notifier, logger)

	server, err := servers.NewHttpServer(servers.WithConfig(&cfg.Server))
	if err != nil {
		return err
	}
	if err := schedules.Register(server, command.NewInMemory(), query.NewInMemory(), scheduleStore, notifier); err != nil {
		return err
	}

	app, err := schedulerd.New(server, notifier, reconciler, factory, logger)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), servers.DefaultShutdownTimeout)
		defer cancel()
		if err := app.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown failed", "error", err)
		}
	}()

	logger.Info("Starting schedulerd", "port", cfg.Server.Port)
	return app.Run(ctx)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
