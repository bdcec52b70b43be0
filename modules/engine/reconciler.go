package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Deepreo/schedulerd/core"
	"github.com/Deepreo/schedulerd/errors"
)

// Reconciler keeps the registry consistent with the schedule store. It
// rebuilds everything on startup and applies incremental changes as the
// notifier delivers them.
type Reconciler struct {
	store    core.ScheduleStore
	registry *Registry
	composer *Composer
	notifier core.ScheduleNotifier
	logger   *slog.Logger

	// Serializes resyncs. Notifications arrive one at a time, but a full
	// resync must not interleave with an incremental one.
	mu sync.Mutex
}

func NewReconciler(store core.ScheduleStore, registry *Registry, composer *Composer, notifier core.ScheduleNotifier, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		store:    store,
		registry: registry,
		composer: composer,
		notifier: notifier,
		logger:   logger,
	}
}

// Start verifies the store is reachable, performs the initial full resync
// and registers for change notifications. A store that is not ready is
// fatal and aborts startup.
func (r *Reconciler) Start(ctx context.Context) error {
	if err := r.store.HealthCheck(ctx); err != nil {
		return errors.InfraError(fmt.Errorf("schedule store is not ready: %w", err))
	}
	if err := r.FullResync(ctx); err != nil {
		return err
	}

	r.notifier.OnSaved(r.RecreateSchedule)
	r.notifier.OnDeleted(func(ctx context.Context, id string) error {
		r.HandleDeleted(id)
		return nil
	})
	return nil
}

// Stop tears down every active timer so nothing fires after shutdown was
// requested.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registry.DestroyAll()
}

// FullResync rebuilds all timers from the complete persisted record set.
// One record failing to schedule is logged and skipped; it never aborts
// the rest of the fleet.
func (r *Reconciler) FullResync(ctx context.Context) error {
	records, err := r.store.QueryAll(ctx)
	if err != nil {
		return errors.InfraError(fmt.Errorf("failed to query schedule records: %w", err))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.registry.DestroyAll()
	scheduled := 0
	for _, record := range records {
		if err := r.schedule(ctx, record); err != nil {
			r.logger.Error("failed to schedule record",
				"schedule_id", record.ID, "job", record.JobName, "error", err)
			continue
		}
		scheduled++
	}
	r.logger.Info("full resync complete", "records", len(records), "scheduled", scheduled)
	return nil
}

// RecreateSchedule replaces the timer chain of one already-loaded record.
func (r *Reconciler) RecreateSchedule(ctx context.Context, record core.ScheduleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.registry.Destroy(record.ID)
	return r.schedule(ctx, record)
}

// RecreateScheduleByID fetches the record first; an id that is gone from
// the store degrades to a destroy.
func (r *Reconciler) RecreateScheduleByID(ctx context.Context, id string) error {
	record, err := r.store.FetchByID(ctx, id)
	if err != nil {
		return errors.InfraError(fmt.Errorf("failed to fetch schedule %s: %w", id, err))
	}
	if record == nil {
		r.HandleDeleted(id)
		return nil
	}
	return r.RecreateSchedule(ctx, *record)
}

// HandleDeleted tears down the timers of a removed record. Unknown ids
// are ignored.
func (r *Reconciler) HandleDeleted(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.registry.Destroy(id)
	r.logger.Info("schedule removed", "schedule_id", id)
}

func (r *Reconciler) schedule(ctx context.Context, record core.ScheduleRecord) error {
	timers, err := r.composer.Compose(ctx, record)
	if err != nil {
		return err
	}
	if len(timers) == 0 {
		// Overdue one-shot, already triggered inline; nothing to keep.
		return nil
	}
	r.registry.Set(record.ID, timers)
	return nil
}
