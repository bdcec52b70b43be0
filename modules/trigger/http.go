// Package trigger performs the outbound call that executes a job by name
// on the remote job-execution endpoint.
package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Deepreo/schedulerd/errors"
	"github.com/gofiber/fiber/v2"
)

const (
	HeaderApplicationID = "X-Application-Id"
	HeaderMasterKey     = "X-Master-Key"

	DefaultTimeout = 15 * time.Second
)

type Config struct {
	BaseURL       string `mapstructure:"base_url"`
	ApplicationID string `mapstructure:"application_id"`
	MasterKey     string `mapstructure:"master_key"`
	Timeout       string `mapstructure:"timeout"`
}

// HTTPTrigger POSTs to {base_url}/jobs/{jobName} with the configured
// application credentials. It performs no retries; a missed fire is only
// recovered by the next natural fire of a repeating schedule.
type HTTPTrigger struct {
	cfg     *Config
	timeout time.Duration
	logger  *slog.Logger
}

func NewHTTPTrigger(cfg *Config, logger *slog.Logger) (*HTTPTrigger, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("trigger base_url is required")
	}
	if cfg.ApplicationID == "" || cfg.MasterKey == "" {
		return nil, fmt.Errorf("trigger credentials are required")
	}
	timeout := DefaultTimeout
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid trigger timeout: %s", cfg.Timeout)
		}
		timeout = d
	}
	return &HTTPTrigger{cfg: cfg, timeout: timeout, logger: logger}, nil
}

// Trigger fires the job once. Transport errors and non-success statuses
// are logged and returned; callers on the timer path swallow them there.
func (t *HTTPTrigger) Trigger(ctx context.Context, jobName string, params map[string]any) error {
	url := strings.TrimRight(t.cfg.BaseURL, "/") + "/jobs/" + jobName

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(fiber.MethodPost)
	req.SetRequestURI(url)
	req.Header.Set(HeaderApplicationID, t.cfg.ApplicationID)
	req.Header.Set(HeaderMasterKey, t.cfg.MasterKey)
	if len(params) > 0 {
		agent.JSON(params)
	} else {
		req.Header.SetContentType(fiber.MIMEApplicationJSON)
	}

	if err := agent.Parse(); err != nil {
		t.logger.Error("job trigger request is invalid", "job", jobName, "url", url, "error", err)
		return errors.InfraError(err)
	}

	code, body, errs := agent.Timeout(t.timeout).Bytes()
	if len(errs) > 0 {
		t.logger.Error("job trigger call failed", "job", jobName, "url", url, "error", errs[0])
		return errors.InfraError(errs[0])
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		err := fmt.Errorf("job %s trigger returned status %d: %s", jobName, code, body)
		t.logger.Error("job trigger rejected", "job", jobName, "status", code)
		return errors.DomainError(err)
	}

	t.logger.Debug("job triggered", "job", jobName, "status", code)
	return nil
}
