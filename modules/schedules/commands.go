// Package schedules exposes the schedule-record CRUD surface: commands
// and queries over the store, and the HTTP endpoints dispatching to them.
// Every committed write publishes a notification so the scheduling engine
// can resync the affected record.
package schedules

import (
	"context"
	"fmt"

	"github.com/Deepreo/schedulerd/core"
	"github.com/Deepreo/schedulerd/errors"
	"github.com/Deepreo/schedulerd/modules/cronexpr"
)

type SaveScheduleCommand struct {
	Record core.ScheduleRecord
}

func (c SaveScheduleCommand) CommandID() string { return c.Record.ID }

type DeleteScheduleCommand struct {
	ID string
}

func (c DeleteScheduleCommand) CommandID() string { return c.ID }

type SaveScheduleHandler struct {
	store    core.ScheduleStore
	notifier core.ScheduleNotifier
}

func (h *SaveScheduleHandler) Handle(ctx context.Context, cmd SaveScheduleCommand) error {
	record := cmd.Record
	if err := record.Validate(); err != nil {
		return errors.ValidationError(err)
	}
	if record.Repeats() {
		// Reject intervals the cron builder cannot express at write time
		// instead of at the next resync.
		if _, err := cronexpr.Build(record.TimeOfDay, record.DaysOfWeek, record.RepeatMinutes); err != nil {
			return err
		}
	}

	if err := h.store.Save(ctx, &record); err != nil {
		return errors.InfraError(fmt.Errorf("failed to save schedule %s: %w", record.ID, err))
	}
	return h.notifier.PublishSaved(ctx, record)
}

type DeleteScheduleHandler struct {
	store    core.ScheduleStore
	notifier core.ScheduleNotifier
}

func (h *DeleteScheduleHandler) Handle(ctx context.Context, cmd DeleteScheduleCommand) error {
	if cmd.ID == "" {
		return errors.ValidationError(fmt.Errorf("schedule id is required"))
	}
	if err := h.store.Destroy(ctx, cmd.ID); err != nil {
		return errors.InfraError(fmt.Errorf("failed to delete schedule %s: %w", cmd.ID, err))
	}
	return h.notifier.PublishDeleted(ctx, cmd.ID)
}
