package event_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/Deepreo/schedulerd/core"
	"github.com/Deepreo/schedulerd/modules/event"
)

func TestNotifier_SavedRoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	n, err := event.NewNotifier(logger)
	if err != nil {
		t.Fatalf("Failed to create notifier: %v", err)
	}

	done := make(chan core.ScheduleRecord, 1)
	n.OnSaved(func(ctx context.Context, record core.ScheduleRecord) error {
		done <- record
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := n.Run(ctx); err != nil {
			t.Logf("Notifier stopped: %v", err)
		}
	}()
	time.Sleep(100 * time.Millisecond)

	record := core.ScheduleRecord{
		ID:            "sched-1",
		JobName:       "nightlyReport",
		StartAfter:    time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		RepeatMinutes: 60,
		TimeOfDay:     core.TimeOfDay{Hour: 2, Minute: 30},
	}
	if err := n.PublishSaved(ctx, record); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	select {
	case got := <-done:
		if got.ID != record.ID || got.JobName != record.JobName || got.RepeatMinutes != record.RepeatMinutes {
			t.Errorf("received record %+v, want %+v", got, record)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for saved notification")
	}
}

func TestNotifier_DeletedRoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	n, err := event.NewNotifier(logger)
	if err != nil {
		t.Fatalf("Failed to create notifier: %v", err)
	}

	done := make(chan string, 1)
	n.OnDeleted(func(ctx context.Context, id string) error {
		done <- id
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := n.Run(ctx); err != nil {
			t.Logf("Notifier stopped: %v", err)
		}
	}()
	time.Sleep(100 * time.Millisecond)

	if err := n.PublishDeleted(ctx, "sched-9"); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	select {
	case id := <-done:
		if id != "sched-9" {
			t.Errorf("received id %s, want sched-9", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for deleted notification")
	}
}
