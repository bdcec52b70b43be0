package schedulerd

import (
	"context"
	"log/slog"

	"github.com/Deepreo/schedulerd/core"
)

// Engine is the reconciliation controller lifecycle exposed to the host.
type Engine interface {
	Start(ctx context.Context) error
	Stop()
}

// TimerRuntime owns the shared timer scheduler.
type TimerRuntime interface {
	Shutdown() error
}

type Application struct {
	server   core.Server
	notifier core.ScheduleNotifier
	engine   Engine
	timers   TimerRuntime
	logger   *slog.Logger
}

func New(server core.Server, notifier core.ScheduleNotifier, engine Engine, timers TimerRuntime, logger *slog.Logger) (*Application, error) {
	return &Application{
		server:   server,
		notifier: notifier,
		engine:   engine,
		timers:   timers,
		logger:   logger,
	}, nil
}

// Run starts the notifier, performs the initial resync and serves the API.
// It blocks until the server stops.
func (app *Application) Run(ctx context.Context) error {
	go func() {
		if err := app.notifier.Run(ctx); err != nil {
			app.logger.Error("Notifier failed", "error", err)
		}
	}()

	if err := app.engine.Start(ctx); err != nil {
		return err
	}

	return app.server.Run()
}

// Shutdown tears down all timers before stopping the API server so nothing
// fires after shutdown was requested.
func (app *Application) Shutdown(ctx context.Context) error {
	if app.engine != nil {
		app.engine.Stop()
	}
	if app.timers != nil {
		if err := app.timers.Shutdown(); err != nil {
			app.logger.Error("Timer runtime shutdown failed", "error", err)
		}
	}
	return app.server.Shutdown(ctx)
}
