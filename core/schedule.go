package core

import (
	"fmt"
	"time"
)

// TimeOfDay anchors the phase of a repeating schedule within its period.
// It is always interpreted in UTC.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

var timeOfDayLayouts = []string{
	"15:04:05.000Z",
	"15:04:05Z",
	"15:04:05",
	"15:04",
}

// ParseTimeOfDay accepts the ISO-style forms stored on schedule records,
// e.g. "14:30:00.000Z", "14:30:00" or "14:30".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range timeOfDayLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day: %q", s)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// ScheduleRecord is the persisted description of when and how often a named
// job should be triggered. The scheduling engine only holds it transiently
// while (re)building timers; the store owns it.
type ScheduleRecord struct {
	ID            string         `json:"id"`
	JobName       string         `json:"job_name"`
	Params        map[string]any `json:"params,omitempty"`
	StartAfter    time.Time      `json:"start_after"`
	RepeatMinutes int            `json:"repeat_minutes,omitempty"`
	TimeOfDay     TimeOfDay      `json:"time_of_day"`
	// DaysOfWeek restricts repetition to certain weekdays, index 0 being
	// Sunday. Nil or all-false means every day.
	DaysOfWeek []bool `json:"days_of_week,omitempty"`
}

// Repeats reports whether the record describes a recurring schedule.
func (r *ScheduleRecord) Repeats() bool {
	return r.RepeatMinutes > 0
}

func (r *ScheduleRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("schedule record has no id")
	}
	if r.JobName == "" {
		return fmt.Errorf("schedule %s has no job name", r.ID)
	}
	if r.StartAfter.IsZero() {
		return fmt.Errorf("schedule %s has no start_after timestamp", r.ID)
	}
	if r.RepeatMinutes < 0 {
		return fmt.Errorf("schedule %s has negative repeat_minutes %d", r.ID, r.RepeatMinutes)
	}
	if len(r.DaysOfWeek) != 0 && len(r.DaysOfWeek) != 7 {
		return fmt.Errorf("schedule %s has a days_of_week mask of length %d, want 7", r.ID, len(r.DaysOfWeek))
	}
	return nil
}
