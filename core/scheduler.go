package core

import (
	"context"
	"time"
)

// FireFunc is invoked by a timer on every fire.
type FireFunc func(ctx context.Context)

// Timer is one scheduled timer handle. Handles are created idle; Start
// arms them and Stop disarms them. Stop is idempotent and safe on handles
// that never started or already retired.
type Timer interface {
	Start() error
	Stop()
}

// TimerFactory mints timers backed by a shared scheduler. All timers fire
// in UTC regardless of the host time zone.
type TimerFactory interface {
	// AtDate returns a one-shot timer that fires once at the given instant
	// and then retires itself.
	AtDate(at time.Time, fire FireFunc) Timer
	// Cron returns a repeating timer driven by a six-field (seconds
	// granularity) cron expression. Expression errors surface on Start.
	Cron(expr string, fire FireFunc) Timer
}

// JobTrigger performs the outbound call that executes a job by name.
// Implementations log their own failures; callers on the timer-fire path
// must not propagate the returned error beyond the callback.
type JobTrigger interface {
	Trigger(ctx context.Context, jobName string, params map[string]any) error
}

// ScheduleStore is the persistence collaborator for schedule records.
type ScheduleStore interface {
	QueryAll(ctx context.Context) ([]ScheduleRecord, error)
	FetchByID(ctx context.Context, id string) (*ScheduleRecord, error)
	Save(ctx context.Context, record *ScheduleRecord) error
	Destroy(ctx context.Context, id string) error
	HealthCheck(ctx context.Context) error
}

// ScheduleSavedFunc handles a created or updated schedule record.
type ScheduleSavedFunc func(ctx context.Context, record ScheduleRecord) error

// ScheduleDeletedFunc handles the removal of a schedule record.
type ScheduleDeletedFunc func(ctx context.Context, id string) error

// ScheduleNotifier delivers change notifications from the persistence side
// to the scheduling engine, one at a time, after the write committed.
type ScheduleNotifier interface {
	PublishSaved(ctx context.Context, record ScheduleRecord) error
	PublishDeleted(ctx context.Context, id string) error
	OnSaved(fn ScheduleSavedFunc)
	OnDeleted(fn ScheduleDeletedFunc)
	Run(ctx context.Context) error
}
