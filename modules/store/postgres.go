// Package store provides the schedule-record persistence implementations.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Deepreo/schedulerd/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// Postgres persists schedule records in a job_schedules table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, cfg *PostgresConfig) (*Postgres, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// EnsureSchema creates the schedule table when it does not exist yet.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS job_schedules (
			id             text PRIMARY KEY,
			job_name       text NOT NULL,
			params         jsonb,
			start_after    timestamptz NOT NULL,
			repeat_minutes int NOT NULL DEFAULT 0,
			time_of_day    text NOT NULL DEFAULT '00:00:00',
			days_of_week   boolean[],
			updated_at     timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure job_schedules schema: %w", err)
	}
	return nil
}

const selectColumns = `id, job_name, COALESCE(params, '{}'::jsonb), start_after, repeat_minutes, time_of_day, COALESCE(days_of_week, '{}')`

func (s *Postgres) QueryAll(ctx context.Context) ([]core.ScheduleRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+selectColumns+` FROM job_schedules ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query job schedules: %w", err)
	}
	defer rows.Close()

	var records []core.ScheduleRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *Postgres) FetchByID(ctx context.Context, id string) (*core.ScheduleRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+selectColumns+` FROM job_schedules WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job schedule %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	record, err := scanRecord(rows)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Postgres) Save(ctx context.Context, record *core.ScheduleRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO job_schedules (id, job_name, params, start_after, repeat_minutes, time_of_day, days_of_week, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (id) DO UPDATE SET
			job_name = EXCLUDED.job_name,
			params = EXCLUDED.params,
			start_after = EXCLUDED.start_after,
			repeat_minutes = EXCLUDED.repeat_minutes,
			time_of_day = EXCLUDED.time_of_day,
			days_of_week = EXCLUDED.days_of_week,
			updated_at = now()`,
		record.ID, record.JobName, record.Params, record.StartAfter,
		record.RepeatMinutes, record.TimeOfDay.String(), record.DaysOfWeek)
	if err != nil {
		return fmt.Errorf("failed to save job schedule %s: %w", record.ID, err)
	}
	return nil
}

func (s *Postgres) Destroy(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM job_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job schedule %s: %w", id, err)
	}
	return nil
}

func (s *Postgres) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

func (s *Postgres) Close() {
	s.pool.Close()
}

func scanRecord(rows pgx.Rows) (core.ScheduleRecord, error) {
	var (
		record    core.ScheduleRecord
		timeOfDay string
	)
	if err := rows.Scan(&record.ID, &record.JobName, &record.Params, &record.StartAfter,
		&record.RepeatMinutes, &timeOfDay, &record.DaysOfWeek); err != nil {
		return core.ScheduleRecord{}, fmt.Errorf("failed to scan job schedule: %w", err)
	}
	tod, err := core.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return core.ScheduleRecord{}, fmt.Errorf("job schedule %s: %w", record.ID, err)
	}
	record.TimeOfDay = tod
	if len(record.Params) == 0 {
		record.Params = nil
	}
	if len(record.DaysOfWeek) == 0 {
		record.DaysOfWeek = nil
	}
	return record, nil
}
