// Package timer wraps gocron with the start/stop timer-handle semantics
// the scheduling engine needs: handles are minted idle, armed with Start
// and disarmed with an idempotent Stop.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Deepreo/schedulerd/core"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

type timerState int

const (
	stateIdle timerState = iota
	stateRunning
	stateStopped
)

// Factory mints timers backed by a single running gocron scheduler pinned
// to UTC.
type Factory struct {
	scheduler gocron.Scheduler
}

func NewFactory() (*Factory, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}
	s.Start()
	return &Factory{scheduler: s}, nil
}

// Shutdown stops the underlying scheduler; all timers minted by this
// factory stop firing.
func (f *Factory) Shutdown() error {
	return f.scheduler.Shutdown()
}

// AtDate returns an idle one-shot timer that fires once at the given
// instant and retires itself.
func (f *Factory) AtDate(at time.Time, fire core.FireFunc) core.Timer {
	t := &gocronTimer{scheduler: f.scheduler}
	t.definition = gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(at))
	t.task = gocron.NewTask(func() {
		t.retire()
		fire(context.Background())
	})
	return t
}

// Cron returns an idle repeating timer driven by a six-field cron
// expression. An invalid expression surfaces as an error on Start.
func (f *Factory) Cron(expr string, fire core.FireFunc) core.Timer {
	t := &gocronTimer{
		scheduler:  f.scheduler,
		definition: gocron.CronJob(expr, true),
	}
	t.task = gocron.NewTask(func() {
		fire(context.Background())
	})
	return t
}

type gocronTimer struct {
	scheduler  gocron.Scheduler
	definition gocron.JobDefinition
	task       gocron.Task

	mu    sync.Mutex
	state timerState
	jobID uuid.UUID
}

func (t *gocronTimer) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case stateRunning:
		return fmt.Errorf("timer already started")
	case stateStopped:
		return fmt.Errorf("timer already stopped")
	}

	job, err := t.scheduler.NewJob(t.definition, t.task)
	if err != nil {
		return err
	}
	t.jobID = job.ID()
	t.state = stateRunning
	return nil
}

// Stop is idempotent: it is safe on a timer that never started, already
// stopped or retired after its single fire.
func (t *gocronTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == stateRunning {
		// A retired one-shot may already be unknown to the scheduler.
		_ = t.scheduler.RemoveJob(t.jobID)
	}
	t.state = stateStopped
}

// retire marks a one-shot timer as spent so a later Stop is a no-op.
func (t *gocronTimer) retire() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == stateRunning {
		t.state = stateStopped
	}
}
