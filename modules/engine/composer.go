// Package engine contains the scheduling engine: it classifies schedule
// records into timer chains, owns the registry of live timers and keeps
// that registry consistent with the schedule store.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/Deepreo/schedulerd/core"
	"github.com/Deepreo/schedulerd/errors"
	"github.com/Deepreo/schedulerd/modules/cronexpr"
)

// Composer turns one schedule record into its timer chain. Classification
// happens along two axes sampled at composition time: whether the start
// instant is still in the future, and whether the schedule repeats.
type Composer struct {
	factory core.TimerFactory
	trigger core.JobTrigger
	store   core.ScheduleStore
	logger  *slog.Logger
}

func NewComposer(factory core.TimerFactory, trigger core.JobTrigger, store core.ScheduleStore, logger *slog.Logger) *Composer {
	return &Composer{
		factory: factory,
		trigger: trigger,
		store:   store,
		logger:  logger,
	}
}

// Compose returns the started timer chain realizing the record, outer
// timer first. An overdue one-shot record is triggered inline and yields
// no timers at all.
func (c *Composer) Compose(ctx context.Context, record core.ScheduleRecord) ([]core.Timer, error) {
	if err := record.Validate(); err != nil {
		return nil, errors.ValidationError(err)
	}

	isInFuture := record.StartAfter.After(time.Now())

	switch {
	case !isInFuture && !record.Repeats():
		// The only chance to run this record already passed; run it now
		// and retire the record instead of scheduling anything.
		c.runOnce(ctx, record)
		return nil, nil

	case !isInFuture && record.Repeats():
		repeating, err := c.repeatingTimer(record)
		if err != nil {
			return nil, err
		}
		if err := repeating.Start(); err != nil {
			return nil, errors.DomainError(err)
		}
		return []core.Timer{repeating}, nil

	case isInFuture && !record.Repeats():
		oneShot := c.factory.AtDate(record.StartAfter, func(ctx context.Context) {
			c.runOnce(ctx, record)
		})
		if err := oneShot.Start(); err != nil {
			return nil, errors.DomainError(err)
		}
		return []core.Timer{oneShot}, nil

	default:
		// A cron expression cannot say "do not begin before X", so an
		// outer one-shot timer starts the inner repeating timer at the
		// start instant. The inner timer stays inert until then.
		repeating, err := c.repeatingTimer(record)
		if err != nil {
			return nil, err
		}
		outer := c.factory.AtDate(record.StartAfter, func(ctx context.Context) {
			if err := repeating.Start(); err != nil {
				c.logger.Error("failed to start repeating timer",
					"schedule_id", record.ID, "job", record.JobName, "error", err)
			}
		})
		if err := outer.Start(); err != nil {
			return nil, errors.DomainError(err)
		}
		return []core.Timer{outer, repeating}, nil
	}
}

func (c *Composer) repeatingTimer(record core.ScheduleRecord) (core.Timer, error) {
	expr, err := cronexpr.Build(record.TimeOfDay, record.DaysOfWeek, record.RepeatMinutes)
	if err != nil {
		return nil, err
	}
	return c.factory.Cron(expr, func(ctx context.Context) {
		c.fire(ctx, record)
	}), nil
}

// fire triggers the job. Trigger failures are contained here; a failed
// call never unwinds into the timer scheduler.
func (c *Composer) fire(ctx context.Context, record core.ScheduleRecord) {
	if err := c.trigger.Trigger(ctx, record.JobName, record.Params); err != nil {
		c.logger.Error("job trigger failed",
			"schedule_id", record.ID, "job", record.JobName, "error", err)
	}
}

// runOnce triggers a one-shot record and requests its deletion from the
// store so it is not rescheduled on the next resync.
func (c *Composer) runOnce(ctx context.Context, record core.ScheduleRecord) {
	c.fire(ctx, record)
	if err := c.store.Destroy(ctx, record.ID); err != nil {
		c.logger.Error("failed to delete spent one-shot schedule",
			"schedule_id", record.ID, "job", record.JobName, "error", err)
	}
}
