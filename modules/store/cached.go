package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Deepreo/schedulerd/core"
	"github.com/Deepreo/schedulerd/modules/cache"
)

const (
	cacheKeyPrefix  = "schedule:"
	defaultCacheTTL = 5 * time.Minute
)

// Cached is a read-through cache decorator over a schedule store. Only
// the fetch-by-id path is cached; writes and deletes invalidate. Cache
// failures degrade to the underlying store, never to an error.
type Cached struct {
	store  core.ScheduleStore
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewCached(store core.ScheduleStore, c cache.Cache, logger *slog.Logger) *Cached {
	return &Cached{
		store:  store,
		cache:  c,
		ttl:    defaultCacheTTL,
		logger: logger,
	}
}

func (s *Cached) QueryAll(ctx context.Context) ([]core.ScheduleRecord, error) {
	return s.store.QueryAll(ctx)
}

func (s *Cached) FetchByID(ctx context.Context, id string) (*core.ScheduleRecord, error) {
	if data, err := s.cache.Get(ctx, cacheKeyPrefix+id); err == nil {
		var record core.ScheduleRecord
		if err := json.Unmarshal(data, &record); err == nil {
			return &record, nil
		}
		s.logger.Warn("dropping undecodable cache entry", "schedule_id", id)
		_ = s.cache.Del(ctx, cacheKeyPrefix+id)
	} else if !cache.IsMiss(err) {
		s.logger.Warn("schedule cache read failed", "schedule_id", id, "error", err)
	}

	record, err := s.store.FetchByID(ctx, id)
	if err != nil || record == nil {
		return record, err
	}

	if data, err := json.Marshal(record); err == nil {
		if err := s.cache.Set(ctx, cacheKeyPrefix+id, data, s.ttl); err != nil {
			s.logger.Warn("schedule cache write failed", "schedule_id", id, "error", err)
		}
	}
	return record, nil
}

func (s *Cached) Save(ctx context.Context, record *core.ScheduleRecord) error {
	if err := s.store.Save(ctx, record); err != nil {
		return err
	}
	if err := s.cache.Del(ctx, cacheKeyPrefix+record.ID); err != nil {
		s.logger.Warn("schedule cache invalidation failed", "schedule_id", record.ID, "error", err)
	}
	return nil
}

func (s *Cached) Destroy(ctx context.Context, id string) error {
	if err := s.store.Destroy(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Del(ctx, cacheKeyPrefix+id); err != nil {
		s.logger.Warn("schedule cache invalidation failed", "schedule_id", id, "error", err)
	}
	return nil
}

func (s *Cached) HealthCheck(ctx context.Context) error {
	return s.store.HealthCheck(ctx)
}
