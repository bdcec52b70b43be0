package engine_test

import (
	"context"
	"sync"
	"time"

	"github.com/Deepreo/schedulerd/core"
)

// fakeTimer records its lifecycle transitions and lets tests invoke the
// fire callback directly.
type fakeTimer struct {
	mu       sync.Mutex
	kind     string // "date" or "cron"
	at       time.Time
	expr     string
	fire     core.FireFunc
	startErr error
	started  bool
	stopped  bool
}

func (t *fakeTimer) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.startErr != nil {
		return t.startErr
	}
	t.started = true
	return nil
}

func (t *fakeTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTimer) isStarted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.started
}

func (t *fakeTimer) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type fakeFactory struct {
	mu       sync.Mutex
	timers   []*fakeTimer
	startErr error
}

func (f *fakeFactory) AtDate(at time.Time, fire core.FireFunc) core.Timer {
	return f.mint(&fakeTimer{kind: "date", at: at, fire: fire})
}

func (f *fakeFactory) Cron(expr string, fire core.FireFunc) core.Timer {
	return f.mint(&fakeTimer{kind: "cron", expr: expr, fire: fire})
}

func (f *fakeFactory) mint(t *fakeTimer) *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.startErr = f.startErr
	f.timers = append(f.timers, t)
	return t
}

type triggerCall struct {
	jobName string
	params  map[string]any
}

type fakeTrigger struct {
	mu    sync.Mutex
	calls []triggerCall
	err   error
}

func (t *fakeTrigger) Trigger(ctx context.Context, jobName string, params map[string]any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, triggerCall{jobName: jobName, params: params})
	return t.err
}

func (t *fakeTrigger) callCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

type fakeStore struct {
	mu          sync.Mutex
	records     map[string]core.ScheduleRecord
	destroyed   []string
	queryAllErr error
	healthErr   error
}

func newFakeStore(records ...core.ScheduleRecord) *fakeStore {
	s := &fakeStore{records: make(map[string]core.ScheduleRecord)}
	for _, r := range records {
		s.records[r.ID] = r
	}
	return s
}

func (s *fakeStore) QueryAll(ctx context.Context) ([]core.ScheduleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queryAllErr != nil {
		return nil, s.queryAllErr
	}
	out := make([]core.ScheduleRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	return out, nil
}

func (s *fakeStore) FetchByID(ctx context.Context, id string) (*core.ScheduleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *fakeStore) Save(ctx context.Context, record *core.ScheduleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = *record
	return nil
}

func (s *fakeStore) Destroy(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	s.destroyed = append(s.destroyed, id)
	return nil
}

func (s *fakeStore) HealthCheck(ctx context.Context) error {
	return s.healthErr
}

func (s *fakeStore) destroyedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.destroyed...)
}

// fakeNotifier captures the registered callbacks so tests can deliver
// notifications synchronously.
type fakeNotifier struct {
	onSaved   core.ScheduleSavedFunc
	onDeleted core.ScheduleDeletedFunc
}

func (n *fakeNotifier) PublishSaved(ctx context.Context, record core.ScheduleRecord) error {
	if n.onSaved != nil {
		return n.onSaved(ctx, record)
	}
	return nil
}

func (n *fakeNotifier) PublishDeleted(ctx context.Context, id string) error {
	if n.onDeleted != nil {
		return n.onDeleted(ctx, id)
	}
	return nil
}

func (n *fakeNotifier) OnSaved(fn core.ScheduleSavedFunc)     { n.onSaved = fn }
func (n *fakeNotifier) OnDeleted(fn core.ScheduleDeletedFunc) { n.onDeleted = fn }
func (n *fakeNotifier) Run(ctx context.Context) error         { return nil }
