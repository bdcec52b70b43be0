package schedules

import (
	"context"
	"testing"
	"time"

	"github.com/Deepreo/schedulerd/core"
	"github.com/Deepreo/schedulerd/errors"
	"github.com/Deepreo/schedulerd/modules/store"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	saved   []core.ScheduleRecord
	deleted []string
}

func (n *fakeNotifier) PublishSaved(ctx context.Context, record core.ScheduleRecord) error {
	n.saved = append(n.saved, record)
	return nil
}

func (n *fakeNotifier) PublishDeleted(ctx context.Context, id string) error {
	n.deleted = append(n.deleted, id)
	return nil
}

func (n *fakeNotifier) OnSaved(fn core.ScheduleSavedFunc)     {}
func (n *fakeNotifier) OnDeleted(fn core.ScheduleDeletedFunc) {}
func (n *fakeNotifier) Run(ctx context.Context) error         { return nil }

func validRecord(id string) core.ScheduleRecord {
	return core.ScheduleRecord{
		ID:         id,
		JobName:    "sendReport",
		Params:     map[string]any{"recipient": "ops"},
		StartAfter: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestSaveScheduleHandler(t *testing.T) {
	t.Run("Saves And Publishes", func(t *testing.T) {
		st := store.NewInMemory()
		notifier := &fakeNotifier{}
		handler := &SaveScheduleHandler{store: st, notifier: notifier}

		record := validRecord("s1")
		record.RepeatMinutes = 30
		record.TimeOfDay = core.TimeOfDay{Hour: 8}

		err := handler.Handle(context.Background(), SaveScheduleCommand{Record: record})
		require.NoError(t, err)

		stored, err := st.FetchByID(context.Background(), "s1")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "sendReport", stored.JobName)

		require.Len(t, notifier.saved, 1)
		assert.Equal(t, "s1", notifier.saved[0].ID)
	})

	t.Run("Rejects Invalid Record", func(t *testing.T) {
		st := store.NewInMemory()
		notifier := &fakeNotifier{}
		handler := &SaveScheduleHandler{store: st, notifier: notifier}

		record := validRecord("s2")
		record.JobName = ""

		err := handler.Handle(context.Background(), SaveScheduleCommand{Record: record})
		require.Error(t, err)
		assert.Equal(t, errors.ERR_VALIDATION, errors.GetLevel(err))
		assert.Empty(t, notifier.saved)
	})

	t.Run("Rejects Interval Of A Day Or More", func(t *testing.T) {
		st := store.NewInMemory()
		notifier := &fakeNotifier{}
		handler := &SaveScheduleHandler{store: st, notifier: notifier}

		record := validRecord("s3")
		record.RepeatMinutes = 1440

		err := handler.Handle(context.Background(), SaveScheduleCommand{Record: record})
		require.Error(t, err)
		assert.Equal(t, errors.ERR_VALIDATION, errors.GetLevel(err))

		stored, fetchErr := st.FetchByID(context.Background(), "s3")
		require.NoError(t, fetchErr)
		assert.Nil(t, stored, "Rejected record must not reach the store")
	})
}

func TestDeleteScheduleHandler(t *testing.T) {
	t.Run("Deletes And Publishes", func(t *testing.T) {
		st := store.NewInMemory()
		notifier := &fakeNotifier{}
		record := validRecord("s1")
		require.NoError(t, st.Save(context.Background(), &record))

		handler := &DeleteScheduleHandler{store: st, notifier: notifier}
		err := handler.Handle(context.Background(), DeleteScheduleCommand{ID: "s1"})
		require.NoError(t, err)

		stored, fetchErr := st.FetchByID(context.Background(), "s1")
		require.NoError(t, fetchErr)
		assert.Nil(t, stored)
		assert.Equal(t, []string{"s1"}, notifier.deleted)
	})

	t.Run("Rejects Empty ID", func(t *testing.T) {
		handler := &DeleteScheduleHandler{store: store.NewInMemory(), notifier: &fakeNotifier{}}
		err := handler.Handle(context.Background(), DeleteScheduleCommand{ID: ""})
		require.Error(t, err)
		assert.Equal(t, errors.ERR_VALIDATION, errors.GetLevel(err))
	})
}

func TestGetScheduleHandler(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		st := store.NewInMemory()
		record := validRecord("s1")
		require.NoError(t, st.Save(context.Background(), &record))

		handler := &GetScheduleHandler{store: st}
		got, err := handler.Handle(context.Background(), GetScheduleQuery{ID: "s1"})
		require.NoError(t, err)
		assert.Equal(t, "sendReport", got.JobName)
	})

	t.Run("Not Found", func(t *testing.T) {
		handler := &GetScheduleHandler{store: store.NewInMemory()}
		_, err := handler.Handle(context.Background(), GetScheduleQuery{ID: "missing"})
		assert.ErrorIs(t, err, fiber.ErrNotFound)
	})
}

func TestListSchedulesHandler(t *testing.T) {
	st := store.NewInMemory()
	for _, id := range []string{"a", "b", "c"} {
		record := validRecord(id)
		require.NoError(t, st.Save(context.Background(), &record))
	}

	handler := &ListSchedulesHandler{store: st}
	records, err := handler.Handle(context.Background(), ListSchedulesQuery{})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}
