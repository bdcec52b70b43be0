package schedules

import (
	"context"
	"fmt"
	"time"

	"github.com/Deepreo/schedulerd/core"
	"github.com/google/uuid"
)

type ScheduleBody struct {
	JobName       string         `json:"job_name"`
	Params        map[string]any `json:"params"`
	StartAfter    time.Time      `json:"start_after"`
	RepeatMinutes int            `json:"repeat_minutes"`
	TimeOfDay     string         `json:"time_of_day"`
	DaysOfWeek    []bool         `json:"days_of_week"`
}

func (b *ScheduleBody) Validate() error {
	if b.JobName == "" {
		return fmt.Errorf("job_name is required")
	}
	if b.StartAfter.IsZero() {
		return fmt.Errorf("start_after is required")
	}
	if b.TimeOfDay != "" {
		if _, err := core.ParseTimeOfDay(b.TimeOfDay); err != nil {
			return err
		}
	}
	return nil
}

func (b *ScheduleBody) toRecord(id string) core.ScheduleRecord {
	record := core.ScheduleRecord{
		ID:            id,
		JobName:       b.JobName,
		Params:        b.Params,
		StartAfter:    b.StartAfter,
		RepeatMinutes: b.RepeatMinutes,
		DaysOfWeek:    b.DaysOfWeek,
	}
	if b.TimeOfDay != "" {
		record.TimeOfDay, _ = core.ParseTimeOfDay(b.TimeOfDay)
	}
	return record
}

type CreateScheduleRequest struct {
	ScheduleBody
}

type UpdateScheduleRequest struct {
	ID string `params:"id" json:"-"`
	ScheduleBody
}

func (r *UpdateScheduleRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("schedule id is required")
	}
	return r.ScheduleBody.Validate()
}

type GetScheduleRequest struct {
	ID string `params:"id"`
}

func (r *GetScheduleRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("schedule id is required")
	}
	return nil
}

type DeleteScheduleRequest struct {
	ID string `params:"id"`
}

func (r *DeleteScheduleRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("schedule id is required")
	}
	return nil
}

type ListSchedulesRequest struct{}

func (r *ListSchedulesRequest) Validate() error { return nil }

type ScheduleResponse struct {
	Record core.ScheduleRecord `json:"record"`
}

type createEndpoint struct {
	commands core.CommandBus
}

func (e *createEndpoint) Handle(ctx context.Context, req *CreateScheduleRequest) (*ScheduleResponse, error) {
	record := req.toRecord(uuid.NewString())
	if err := e.commands.Dispatch(ctx, SaveScheduleCommand{Record: record}); err != nil {
		return nil, err
	}
	return &ScheduleResponse{Record: record}, nil
}

type updateEndpoint struct {
	commands core.CommandBus
}

func (e *updateEndpoint) Handle(ctx context.Context, req *UpdateScheduleRequest) (*ScheduleResponse, error) {
	record := req.toRecord(req.ID)
	if err := e.commands.Dispatch(ctx, SaveScheduleCommand{Record: record}); err != nil {
		return nil, err
	}
	return &ScheduleResponse{Record: record}, nil
}

type deleteEndpoint struct {
	commands core.CommandBus
}

func (e *deleteEndpoint) Handle(ctx context.Context, req *DeleteScheduleRequest) (any, error) {
	if err := e.commands.Dispatch(ctx, DeleteScheduleCommand{ID: req.ID}); err != nil {
		return nil, err
	}
	return nil, nil
}

type getEndpoint struct {
	queries core.QueryBus
}

func (e *getEndpoint) Handle(ctx context.Context, req *GetScheduleRequest) (*ScheduleResponse, error) {
	record, err := core.Ask[*core.ScheduleRecord](ctx, e.queries, GetScheduleQuery{ID: req.ID})
	if err != nil {
		return nil, err
	}
	return &ScheduleResponse{Record: *record}, nil
}

type listEndpoint struct {
	queries core.QueryBus
}

func (e *listEndpoint) Handle(ctx context.Context, req *ListSchedulesRequest) ([]core.ScheduleRecord, error) {
	return core.Ask[[]core.ScheduleRecord](ctx, e.queries, ListSchedulesQuery{})
}

// Register wires the command/query handlers onto the buses and the HTTP
// endpoints onto the server.
func Register(server core.Server, commands core.CommandBus, queries core.QueryBus, store core.ScheduleStore, notifier core.ScheduleNotifier) error {
	if err := core.RegisterCommand[SaveScheduleCommand](commands, &SaveScheduleHandler{store: store, notifier: notifier}); err != nil {
		return err
	}
	if err := core.RegisterCommand[DeleteScheduleCommand](commands, &DeleteScheduleHandler{store: store, notifier: notifier}); err != nil {
		return err
	}
	if err := core.RegisterQuery[GetScheduleQuery, *core.ScheduleRecord](queries, &GetScheduleHandler{store: store}); err != nil {
		return err
	}
	if err := core.RegisterQuery[ListSchedulesQuery, []core.ScheduleRecord](queries, &ListSchedulesHandler{store: store}); err != nil {
		return err
	}

	core.RegisterEndpoint[*CreateScheduleRequest, *ScheduleResponse](server, "POST", "/api/schedules", &createEndpoint{commands: commands})
	core.RegisterEndpoint[*UpdateScheduleRequest, *ScheduleResponse](server, "PUT", "/api/schedules/:id", &updateEndpoint{commands: commands})
	core.RegisterEndpoint[*DeleteScheduleRequest, any](server, "DELETE", "/api/schedules/:id", &deleteEndpoint{commands: commands})
	core.RegisterEndpoint[*GetScheduleRequest, *ScheduleResponse](server, "GET", "/api/schedules/:id", &getEndpoint{queries: queries})
	core.RegisterEndpoint[*ListSchedulesRequest, []core.ScheduleRecord](server, "GET", "/api/schedules", &listEndpoint{queries: queries})
	return nil
}
