package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpHandlers "github.com/panchang/core/internal/adapters/http"
	"github.com/panchang/core/internal/adapters/repository"
	"github.com/panchang/core/internal/application/services"
	"github.com/panchang/core/internal/domain/entities"
	"github.com/panchang/core/internal/infrastructure/config"
	"github.com/panchang/core/internal/infrastructure/logger"
	"github.com/panchang/core/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logger.Logger
	replica ports.ReplicaStore
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance. replica may be nil when mirroring
// is disabled.
func New(cfg *config.Config, replica ports.ReplicaStore, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	// Set custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	// Initialize repositories
	storageLogger := appLogger.WithComponent("storage")
	calRepo, err := repository.NewCalendarRepository(cfg.Storage.DataDir, storageLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize calendar repository: %w", err)
	}
	noteRepo, err := repository.NewNoteRepository(cfg.Storage.DataDir, storageLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize note repository: %w", err)
	}

	// Initialize services
	serviceLogger := appLogger.WithComponent("service")
	calendarService := services.NewCalendarService(calRepo, replica, serviceLogger)
	noteService := services.NewNoteService(noteRepo, calRepo, replica, serviceLogger)
	exportService := services.NewExportService(calendarService, serviceLogger)

	// Initialize handlers
	calendarHandler := httpHandlers.NewCalendarHandler(calendarService, appLogger)
	noteHandler := httpHandlers.NewNoteHandler(noteService, appLogger)
	exportHandler := httpHandlers.NewExportHandler(exportService, appLogger)

	server := &Server{
		echo:    e,
		config:  cfg,
		logger:  appLogger,
		replica: replica,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes(calendarHandler, noteHandler, exportHandler)

	// Setup metrics
	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	// Rate limiting middleware
	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			id := ctx.RealIP()
			return id, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	// Security headers
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Timeout middleware
	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(calendarHandler *httpHandlers.CalendarHandler, noteHandler *httpHandlers.NoteHandler, exportHandler *httpHandlers.ExportHandler) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API routes
	api := s.echo.Group("/api")

	api.GET("/calendar/:year", calendarHandler.GetCalendar)
	api.GET("/festivals/:year", calendarHandler.GetFestivals)
	api.GET("/holidays/:year", calendarHandler.GetHolidays)

	api.GET("/notes", noteHandler.ListNotes)
	api.POST("/notes", noteHandler.CreateNote)
	api.PUT("/notes", noteHandler.UpdateNote)
	api.DELETE("/notes", noteHandler.DeleteNote)
	api.GET("/notes/search", noteHandler.SearchNotes)

	api.GET("/export/:format", exportHandler.Export)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(
		requestsTotal,
		requestDuration,
		services.GenerationsTotal,
		services.ReplicaSyncFailures,
		collectors.NewGoCollector(),
	)

	// Custom metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	// Metrics endpoint
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	// The local store is the authority; the replica being down only
	// degrades reads, so readiness ignores its state. The writer stamp
	// is reported when available so operators can tell which instance
	// last mirrored into a shared replica.
	resp := map[string]interface{}{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if s.replica != nil {
		if writer, err := s.replica.Writer(c.Request().Context()); err == nil {
			resp["replicaWriter"] = writer
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		var he *echo.HTTPError
		var ve validator.ValidationErrors
		switch {
		case errors.As(err, &he):
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		case errors.As(err, &ve):
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": ve.Error()}
		case errors.Is(err, entities.ErrNoteNotFound),
			errors.Is(err, entities.ErrDayNotFound):
			code = http.StatusNotFound
			msg = map[string]string{"message": err.Error()}
		case errors.Is(err, entities.ErrInvalidDate),
			errors.Is(err, entities.ErrInvalidYear),
			errors.Is(err, entities.ErrUnsupportedFormat):
			code = http.StatusBadRequest
			msg = map[string]string{"message": err.Error()}
		default:
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error",
				"error", err.Error(),
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
			)
		}

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				if err := c.NoContent(code); err != nil {
					logger.Errorw("Failed to send error response", "error", err)
				}
			} else if err := c.JSON(code, msg); err != nil {
				logger.Errorw("Failed to send error response", "error", err)
			}
		}
	}
}
