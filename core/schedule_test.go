package core_test

import (
	"testing"
	"time"

	"github.com/Deepreo/schedulerd/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input string
		want  core.TimeOfDay
	}{
		{"14:30:00.000Z", core.TimeOfDay{Hour: 14, Minute: 30}},
		{"14:30:15Z", core.TimeOfDay{Hour: 14, Minute: 30, Second: 15}},
		{"02:05:09", core.TimeOfDay{Hour: 2, Minute: 5, Second: 9}},
		{"23:59", core.TimeOfDay{Hour: 23, Minute: 59}},
	}

	for _, tt := range tests {
		got, err := core.ParseTimeOfDay(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	for _, input := range []string{"", "25:00:00", "noon", "14h30"} {
		_, err := core.ParseTimeOfDay(input)
		assert.Error(t, err, input)
	}
}

func TestTimeOfDayString(t *testing.T) {
	assert.Equal(t, "04:05:06", core.TimeOfDay{Hour: 4, Minute: 5, Second: 6}.String())
}

func TestScheduleRecordValidate(t *testing.T) {
	valid := core.ScheduleRecord{
		ID:            "sched-1",
		JobName:       "nightlyReport",
		StartAfter:    time.Now(),
		RepeatMinutes: 30,
		DaysOfWeek:    []bool{true, false, false, false, false, false, false},
	}
	assert.NoError(t, valid.Validate())

	t.Run("missing id", func(t *testing.T) {
		r := valid
		r.ID = ""
		assert.Error(t, r.Validate())
	})

	t.Run("missing job name", func(t *testing.T) {
		r := valid
		r.JobName = ""
		assert.Error(t, r.Validate())
	})

	t.Run("zero start after", func(t *testing.T) {
		r := valid
		r.StartAfter = time.Time{}
		assert.Error(t, r.Validate())
	})

	t.Run("negative repeat", func(t *testing.T) {
		r := valid
		r.RepeatMinutes = -10
		assert.Error(t, r.Validate())
	})

	t.Run("short mask", func(t *testing.T) {
		r := valid
		r.DaysOfWeek = []bool{true, true}
		assert.Error(t, r.Validate())
	})
}

func TestScheduleRecordRepeats(t *testing.T) {
	r := core.ScheduleRecord{}
	assert.False(t, r.Repeats())
	r.RepeatMinutes = 1
	assert.True(t, r.Repeats())
}
