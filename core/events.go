package core

import (
	"time"

	"github.com/google/uuid"
)

// Event, geçmişte gerçekleşmiş bir olayı (gerçeği) temsil eder.
type Event interface {
	EventID() string
	EventName() string
	OccurredOn() time.Time
}

const (
	ScheduleSavedName   = "schedule.saved"
	ScheduleDeletedName = "schedule.deleted"
)

// ScheduleSaved is published after a schedule record was created or
// updated in the store.
type ScheduleSaved struct {
	ID        string         `json:"id"`
	Record    ScheduleRecord `json:"record"`
	Timestamp time.Time      `json:"timestamp"`
}

func NewScheduleSaved(record ScheduleRecord) ScheduleSaved {
	return ScheduleSaved{
		ID:        uuid.NewString(),
		Record:    record,
		Timestamp: time.Now().UTC(),
	}
}

func (e ScheduleSaved) EventID() string       { return e.ID }
func (e ScheduleSaved) EventName() string     { return ScheduleSavedName }
func (e ScheduleSaved) OccurredOn() time.Time { return e.Timestamp }

// ScheduleDeleted is published after a schedule record was removed from
// the store.
type ScheduleDeleted struct {
	ID         string    `json:"id"`
	ScheduleID string    `json:"schedule_id"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewScheduleDeleted(scheduleID string) ScheduleDeleted {
	return ScheduleDeleted{
		ID:         uuid.NewString(),
		ScheduleID: scheduleID,
		Timestamp:  time.Now().UTC(),
	}
}

func (e ScheduleDeleted) EventID() string       { return e.ID }
func (e ScheduleDeleted) EventName() string     { return ScheduleDeletedName }
func (e ScheduleDeleted) OccurredOn() time.Time { return e.Timestamp }
