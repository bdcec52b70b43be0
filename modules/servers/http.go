package servers

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/Deepreo/schedulerd/core"
	"github.com/Deepreo/schedulerd/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"go.elastic.co/apm/module/apmfiber/v2"
	"go.elastic.co/apm/v2"
)

const (
	DefaultReadTimeout     = 3 * time.Second
	DefaultWriteTimeout    = 3 * time.Second
	DefaultServerHeader    = "Fiber"
	DefaultBodyLimit       = 4 * 1024 * 1024 // 4 MB
	DefaultPort            = "8080"
	DefaultAllowedOrigins  = "*"
	DefaultShutdownTimeout = 5 * time.Second
	DefaultHost            = "localhost"

	HeaderApplicationID = "X-Application-Id"
	HeaderMasterKey     = "X-Master-Key"
)

type HttpServer struct {
	app         *fiber.App
	cfg         *HttpServerConfig
	middlewares []core.Middleware
}

type HttpServerConfig struct {
	ReadTimeout    string `mapstructure:"read_timeout"`
	WriteTimeout   string `mapstructure:"write_timeout"`
	ServerHeader   string `mapstructure:"server_header"`
	BodyLimit      int    `mapstructure:"body_limit"`
	ErrorHandler   fiber.ErrorHandler
	Port           string   `mapstructure:"port"`
	Host           string   `mapstructure:"host"`
	AllowedOrigins string   `mapstructure:"allowed_origins"`
	Features       Features `mapstructure:"features"`
}

type Features struct {
	RequestID   RequestID   `mapstructure:"request_id"`
	Proxy       Proxy       `mapstructure:"proxy"`
	RateLimit   RateLimit   `mapstructure:"rate_limit"`
	HealthCheck HealthCheck `mapstructure:"health_check"`
	ElasticAPM  ElasticAPM  `mapstructure:"elastic_apm"`
	MasterAuth  MasterAuth  `mapstructure:"master_auth"`
}

type ElasticAPM struct {
	Enabled bool `mapstructure:"enabled"`
}

type RequestID struct {
	Enabled bool `mapstructure:"enabled"`
}

type Proxy struct {
	Enabled        bool     `mapstructure:"enabled"`
	ProxyHeader    string   `mapstructure:"proxy_header"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type RateLimit struct {
	Enabled    bool   `mapstructure:"enabled"`
	Max        int    `mapstructure:"max"`
	Expiration string `mapstructure:"expiration"`
}

type HealthCheck struct {
	Enabled bool `mapstructure:"enabled"`
}

// MasterAuth protects the API with the same application-id / master-key
// header pair the trigger uses on the job-execution side.
type MasterAuth struct {
	Enabled       bool   `mapstructure:"enabled"`
	ApplicationID string `mapstructure:"application_id"`
	MasterKey     string `mapstructure:"master_key"`
}

func WithConfig(cfg *HttpServerConfig) func(*HttpServerConfig) {
	return func(s *HttpServerConfig) {
		if cfg.ReadTimeout != "" {
			s.ReadTimeout = cfg.ReadTimeout
		}
		if cfg.WriteTimeout != "" {
			s.WriteTimeout = cfg.WriteTimeout
		}
		if cfg.ServerHeader != "" {
			s.ServerHeader = cfg.ServerHeader
		}
		if cfg.BodyLimit != 0 {
			s.BodyLimit = cfg.BodyLimit
		}
		if cfg.ErrorHandler != nil {
			s.ErrorHandler = cfg.ErrorHandler
		}
		if cfg.Port != "" {
			s.Port = cfg.Port
		}
		if cfg.AllowedOrigins != "" {
			s.AllowedOrigins = cfg.AllowedOrigins
		}
		if cfg.Host != "" {
			s.Host = cfg.Host
		}
		s.Features = cfg.Features
	}
}

func NewHttpServer(options ...func(*HttpServerConfig)) (*HttpServer, error) {
	cfg := &HttpServerConfig{
		ReadTimeout:    DefaultReadTimeout.String(),
		WriteTimeout:   DefaultWriteTimeout.String(),
		ServerHeader:   DefaultServerHeader,
		BodyLimit:      DefaultBodyLimit,
		Port:           DefaultPort,
		AllowedOrigins: DefaultAllowedOrigins,
		Host:           DefaultHost,
	}
	for _, option := range options {
		option(cfg)
	}

	fiberConfig, err := buildFiberConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}

	app := fiber.New(fiberConfig)

	server := &HttpServer{
		app: app,
		cfg: cfg,
	}
	server.applyMiddlewares()
	return server, nil
}

func (s *HttpServer) applyMiddlewares() {
	s.app.Use(recover.New())
	s.app.Use(helmet.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:  s.cfg.AllowedOrigins,
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Accept, Authorization, Content-Type, X-Application-Id, X-Master-Key",
		ExposeHeaders: "Content-Length, X-Request-ID, Link",
		AllowCredentials: func() bool {
			return s.cfg.AllowedOrigins != "*"
		}(),
		MaxAge: 300, // 5 minutes
	}))
	if s.cfg.Features.RequestID.Enabled {
		s.app.Use(requestid.New())
	}
	if s.cfg.Features.RateLimit.Enabled {
		s.app.Use(limiter.New(limiter.Config{
			Max: s.cfg.Features.RateLimit.Max,
			Expiration: func() time.Duration {
				if s.cfg.Features.RateLimit.Expiration != "" {
					d, err := time.ParseDuration(s.cfg.Features.RateLimit.Expiration)
					if err != nil {
						return 60 * time.Second // Default to 1 minute
					}
					return d
				}
				return 60 * time.Second // Default to 1 minute
			}(),
		}))
	}
	if s.cfg.Features.HealthCheck.Enabled {
		s.app.Use(healthcheck.New())
	}
	if s.cfg.Features.ElasticAPM.Enabled {
		s.app.Use(apmfiber.Middleware())
	}
	if s.cfg.Features.MasterAuth.Enabled {
		s.app.Use(s.masterAuth)
	}
}

func (s *HttpServer) masterAuth(c *fiber.Ctx) error {
	appID := c.Get(HeaderApplicationID)
	masterKey := c.Get(HeaderMasterKey)
	if subtle.ConstantTimeCompare([]byte(appID), []byte(s.cfg.Features.MasterAuth.ApplicationID)) != 1 ||
		subtle.ConstantTimeCompare([]byte(masterKey), []byte(s.cfg.Features.MasterAuth.MasterKey)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(core.BaseResponse[any]{
			Success: false,
			Error:   &core.APIError{Message: "unauthorized"},
		})
	}
	return c.Next()
}

func (s *HttpServer) GetApp() *fiber.App {
	return s.app
}

func (s *HttpServer) Run() error {
	return s.app.Listen(func() string {
		if s.cfg.Features.Proxy.Enabled {
			return fmt.Sprintf(":%s", s.cfg.Port)
		}
		return fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	}())
}

func (s *HttpServer) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *HttpServer) Use(middleware ...core.Middleware) {
	s.middlewares = append(s.middlewares, middleware...)
}

func buildFiberConfig(cfg *HttpServerConfig) (fiber.Config, error) {
	var config fiber.Config
	if cfg.ReadTimeout != "" {
		readTimeout, err := time.ParseDuration(cfg.ReadTimeout)
		if err != nil {
			return fiber.Config{}, fmt.Errorf("invalid read_timeout: %s", cfg.ReadTimeout)
		}
		config.ReadTimeout = readTimeout
	} else {
		config.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout != "" {
		writeTimeout, err := time.ParseDuration(cfg.WriteTimeout)
		if err != nil {
			return fiber.Config{}, fmt.Errorf("invalid write_timeout: %s", cfg.WriteTimeout)
		}
		config.WriteTimeout = writeTimeout
	} else {
		config.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.ServerHeader != "" {
		config.ServerHeader = cfg.ServerHeader
	} else {
		config.ServerHeader = DefaultServerHeader
	}
	if cfg.BodyLimit != 0 {
		config.BodyLimit = cfg.BodyLimit
	} else {
		config.BodyLimit = DefaultBodyLimit
	}
	if cfg.Features.Proxy.Enabled {
		if cfg.Features.Proxy.ProxyHeader != "" {
			config.ProxyHeader = cfg.Features.Proxy.ProxyHeader
		}
		if len(cfg.Features.Proxy.TrustedProxies) > 0 {
			config.EnableTrustedProxyCheck = true
			config.TrustedProxies = cfg.Features.Proxy.TrustedProxies
		}
	}
	if cfg.ErrorHandler != nil {
		config.ErrorHandler = cfg.ErrorHandler
	}
	return config, nil
}

func (s *HttpServer) Register(method, path string, handler core.HandlerFunc, reqFactory func() any) {
	genHandler := func(c *fiber.Ctx) error {
		// 1. Create concrete request struct using factory
		req := reqFactory()

		// 2. Parse request
		if err := c.BodyParser(req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		if err := c.ParamsParser(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		if err := c.QueryParser(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		// 3. Validate request
		if validator, ok := req.(core.Request); ok {
			if err := validator.Validate(); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
		}

		ctx := c.UserContext()
		var resp core.BaseResponse[any]

		var traceID string
		tx := apm.TransactionFromContext(ctx)
		if tx != nil {
			traceID = tx.TraceContext().Trace.String()
		}

		chain := handler
		for i := len(s.middlewares) - 1; i >= 0; i-- {
			chain = s.middlewares[i](chain)
		}

		res, err := chain(ctx, req)

		if err != nil {
			resp.Success = false

			if errors.IsExtendError(err) {
				var extendErr *errors.ExtendError
				if errors.As(err, &extendErr) {
					resp.Error = &core.APIError{
						Code:    extendErr.Code,
						Details: extendErr.Metadata,
					}
					if errors.IsInfraError(extendErr) {
						resp.Error.Message = "Internal Server Error"
						if resp.Error.Details == nil {
							resp.Error.Details = "Internal server error please control logs with trace ID: " + traceID
						}
						resp.Error.TraceID = traceID
						return c.Status(fiber.StatusBadGateway).JSON(resp)
					} else if errors.IsValidationError(extendErr) || errors.IsDomainError(extendErr) {
						resp.Error.Message = extendErr.Error()
						return c.Status(fiber.StatusBadRequest).JSON(resp)
					} else if errors.IsAuthError(extendErr) {
						resp.Error.Message = extendErr.Error()
						return c.Status(fiber.StatusUnauthorized).JSON(resp)
					}
					resp.Error.Message = "Internal Server Error"
					if resp.Error.Details == nil {
						resp.Error.Details = "Unknown error please control logs with trace ID: " + traceID
					}
					resp.Error.TraceID = traceID
					return c.Status(fiber.StatusInternalServerError).JSON(resp)
				}
			} else if errors.Is(err, fiber.ErrNotFound) {
				resp.Error = &core.APIError{Message: "Resource not found"}
				return c.Status(fiber.StatusNotFound).JSON(resp)
			}

			// Fallback for other errors
			resp.Error = &core.APIError{Message: err.Error()}
			return c.Status(fiber.StatusInternalServerError).JSON(resp)
		}

		resp.Success = true
		resp.Data = res
		return c.JSON(resp)
	}

	s.app.Add(method, path, genHandler)
}
