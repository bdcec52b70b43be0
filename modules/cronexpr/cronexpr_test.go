package cronexpr_test

import (
	"testing"

	"github.com/Deepreo/schedulerd/core"
	"github.com/Deepreo/schedulerd/errors"
	"github.com/Deepreo/schedulerd/modules/cronexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_MinuteAndHourSteps(t *testing.T) {
	tod := core.TimeOfDay{Hour: 14, Minute: 30}

	tests := []struct {
		name          string
		repeatMinutes int
		want          string
	}{
		{"sub-hour interval", 30, "0 30-59/30 14-23 * * *"},
		{"mixed interval", 90, "0 30-59/30 14-23/1 * * *"},
		{"whole-hour interval", 120, "0 0 14-23/2 * * *"},
		{"single minute", 1, "0 30-59/1 14-23 * * *"},
		{"almost a day", 1439, "0 30-59/59 14-23/23 * * *"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cronexpr.Build(tod, nil, tt.repeatMinutes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild_StartsAtTimeOfDay(t *testing.T) {
	got, err := cronexpr.Build(core.TimeOfDay{Hour: 3, Minute: 7}, nil, 15)
	require.NoError(t, err)
	assert.Equal(t, "0 7-59/15 3-23 * * *", got)
}

func TestBuild_DaysOfWeekShifted(t *testing.T) {
	// Tuesday and Thursday in a Sunday-first mask.
	mask := []bool{false, false, true, false, true, false, false}
	got, err := cronexpr.Build(core.TimeOfDay{Hour: 9}, mask, 60)
	require.NoError(t, err)
	assert.Equal(t, "0 0 9-23/1 * * 3,5", got)
}

func TestBuild_SaturdayWrapsToZero(t *testing.T) {
	mask := []bool{false, false, false, false, false, false, true}
	got, err := cronexpr.Build(core.TimeOfDay{}, mask, 60)
	require.NoError(t, err)
	assert.Equal(t, "0 0 0-23/1 * * 0", got)
}

func TestBuild_EmptyMaskMeansEveryDay(t *testing.T) {
	for _, mask := range [][]bool{nil, make([]bool, 7)} {
		got, err := cronexpr.Build(core.TimeOfDay{}, mask, 60)
		require.NoError(t, err)
		assert.Equal(t, "0 0 0-23/1 * * *", got)
	}
}

func TestBuild_RejectsInvalidIntervals(t *testing.T) {
	for _, repeatMinutes := range []int{0, -5, 1440, 2880} {
		_, err := cronexpr.Build(core.TimeOfDay{}, nil, repeatMinutes)
		require.Error(t, err, "repeatMinutes=%d", repeatMinutes)
		assert.Equal(t, errors.ERR_VALIDATION, errors.GetLevel(err))
	}
}
