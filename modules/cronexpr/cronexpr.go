// Package cronexpr converts a schedule's recurrence description into the
// six-field (seconds granularity) cron expression the timer scheduler
// understands. All expressions are meant to be evaluated in UTC.
package cronexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Deepreo/schedulerd/core"
	"github.com/Deepreo/schedulerd/errors"
)

// minutesPerDay is the largest repeat interval expressible with a 0-23
// hour field. Longer intervals are rejected instead of emitting an
// out-of-range hour step.
const minutesPerDay = 24 * 60

// Build returns the cron expression for a schedule repeating every
// repeatMinutes, phase-anchored at timeOfDay and optionally restricted to
// the weekdays set in daysOfWeek (index 0 = Sunday; nil or all-false
// means every day).
func Build(timeOfDay core.TimeOfDay, daysOfWeek []bool, repeatMinutes int) (string, error) {
	if repeatMinutes <= 0 {
		return "", errors.ValidationError(
			fmt.Errorf("repeat interval must be a positive number of minutes, got %d", repeatMinutes))
	}
	if repeatMinutes >= minutesPerDay {
		return "", errors.ValidationError(
			fmt.Errorf("repeat interval %dm spans a day or more and cannot be expressed as an hour range", repeatMinutes))
	}

	hours := repeatMinutes / 60
	minutes := repeatMinutes % 60

	minuteField := "0"
	if minutes != 0 {
		minuteField = fmt.Sprintf("%d-59/%d", timeOfDay.Minute, minutes)
	}

	hourField := fmt.Sprintf("%d-23", timeOfDay.Hour)
	if hours != 0 {
		hourField += "/" + strconv.Itoa(hours)
	}

	return fmt.Sprintf("0 %s %s * * %s", minuteField, hourField, dayOfWeekField(daysOfWeek)), nil
}

// dayOfWeekField shifts each set mask index into the cron engine's
// day-of-week numbering.
func dayOfWeekField(daysOfWeek []bool) string {
	var days []string
	for i, set := range daysOfWeek {
		if set {
			days = append(days, strconv.Itoa((i+1)%7))
		}
	}
	if len(days) == 0 {
		return "*"
	}
	return strings.Join(days, ",")
}
