package schedules

import (
	"context"
	"fmt"

	"github.com/Deepreo/schedulerd/core"
	"github.com/Deepreo/schedulerd/errors"
	"github.com/gofiber/fiber/v2"
)

type GetScheduleQuery struct {
	ID string
}

func (q GetScheduleQuery) QueryID() string { return q.ID }

type ListSchedulesQuery struct{}

func (q ListSchedulesQuery) QueryID() string { return "list-schedules" }

type GetScheduleHandler struct {
	store core.ScheduleStore
}

func (h *GetScheduleHandler) Handle(ctx context.Context, q GetScheduleQuery) (*core.ScheduleRecord, error) {
	record, err := h.store.FetchByID(ctx, q.ID)
	if err != nil {
		return nil, errors.InfraError(fmt.Errorf("failed to fetch schedule %s: %w", q.ID, err))
	}
	if record == nil {
		return nil, fiber.ErrNotFound
	}
	return record, nil
}

type ListSchedulesHandler struct {
	store core.ScheduleStore
}

func (h *ListSchedulesHandler) Handle(ctx context.Context, q ListSchedulesQuery) ([]core.ScheduleRecord, error) {
	records, err := h.store.QueryAll(ctx)
	if err != nil {
		return nil, errors.InfraError(fmt.Errorf("failed to list schedules: %w", err))
	}
	return records, nil
}
