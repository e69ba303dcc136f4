// Package api provides the HTTP API for per-user task lists.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/emicklei/go-restful/v3"
	restfullog "github.com/emicklei/go-restful/v3/log"
	"github.com/google/uuid"

	"github.com/chrisracha/blazor-todo/pkg/observability"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"
	// CorrelationIDHeader lets callers join our logs to theirs.
	CorrelationIDHeader = "X-Correlation-ID"
	// DefaultUserHeader is set by the identity proxy in front of the API.
	DefaultUserHeader = "X-User-ID"

	userAttribute = "todo.user"
)

// Server is the HTTP API server.
type Server struct {
	container *restful.Container
	server    *http.Server
	logger    *slog.Logger
	health    *observability.HealthRegistry
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr string
	// UserHeader names the trusted header holding the verified user id.
	UserHeader   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "127.0.0.1:8080",
		UserHeader:   DefaultUserHeader,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new API server. A nil health registry reports healthy.
func NewServer(cfg ServerConfig, tasks TaskSessions, health *observability.HealthRegistry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.UserHeader == "" {
		cfg.UserHeader = DefaultUserHeader
	}
	if health == nil {
		health = observability.NewHealthRegistry()
	}
	logger = logger.With("component", "http_api")
	restfullog.SetLogger(slog.NewLogLogger(logger.Handler(), slog.LevelWarn))

	s := &Server{
		container: restful.NewContainer(),
		logger:    logger,
		health:    health,
	}
	s.container.ServiceErrorHandler(s.handleServiceError)
	s.container.Filter(s.requestContext)
	s.container.Add(s.healthService())
	s.container.Add(NewTaskHandler(tasks, logger).WebService(s.requireUser(cfg.UserHeader)))

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.container,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.container
}

func (s *Server) healthService() *restful.WebService {
	ws := new(restful.WebService)
	ws.Path("/health").Produces(restful.MIME_JSON)
	ws.Route(ws.GET("").To(s.handleHealth).
		Doc("Report the health of the database and cache").
		Writes(observability.OverallHealth{}))
	return ws
}

func (s *Server) handleHealth(req *restful.Request, resp *restful.Response) {
	health := s.health.GetOverallHealth(req.Request.Context())
	status := http.StatusOK
	if health.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(resp, status, health)
}

// requestContext tags each request with request and correlation ids and
// logs its outcome.
func (s *Server) requestContext(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()

	requestID := uuid.NewString()
	correlationID := req.HeaderParameter(CorrelationIDHeader)
	if correlationID == "" {
		correlationID = requestID
	}
	ctx := observability.WithRequestID(req.Request.Context(), requestID)
	ctx = observability.WithCorrelationID(ctx, correlationID)
	req.Request = req.Request.WithContext(ctx)
	resp.AddHeader(RequestIDHeader, requestID)

	chain.ProcessFilter(req, resp)

	s.logger.DebugContext(req.Request.Context(), "http request",
		"method", req.Request.Method,
		"path", req.Request.URL.Path,
		"status", resp.StatusCode(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// requireUser rejects requests without the identity header.
func (s *Server) requireUser(header string) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		userID := req.HeaderParameter(header)
		if userID == "" {
			writeError(resp, ErrUnauthorized.withMessage(fmt.Sprintf("missing %s header", header)))
			return
		}
		req.SetAttribute(userAttribute, userID)
		req.Request = req.Request.WithContext(observability.WithUserID(req.Request.Context(), userID))
		chain.ProcessFilter(req, resp)
	}
}

func (s *Server) handleServiceError(err restful.ServiceError, req *restful.Request, resp *restful.Response) {
	writeError(resp, &APIError{
		Status:  err.Code,
		Code:    "request_error",
		Message: err.Message,
	})
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting task API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down task API server")
	return s.server.Shutdown(ctx)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// writeJSON writes a JSON response.
func writeJSON(resp *restful.Response, status int, data any) {
	if data == nil {
		resp.WriteHeader(status)
		return
	}
	if err := resp.WriteHeaderAndJson(status, data, restful.MIME_JSON); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(resp *restful.Response, apiErr *APIError) {
	writeJSON(resp, apiErr.Status, map[string]string{
		"error":   http.StatusText(apiErr.Status),
		"code":    apiErr.Code,
		"message": apiErr.Message,
	})
}

// APIError represents an API error.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) withMessage(msg string) *APIError {
	c := *e
	c.Message = msg
	return &c
}

// Common API errors
var (
	ErrBadRequest = &APIError{
		Status:  http.StatusBadRequest,
		Code:    "bad_request",
		Message: "Invalid request",
	}
	ErrUnauthorized = &APIError{
		Status:  http.StatusUnauthorized,
		Code:    "unauthorized",
		Message: "Authentication required",
	}
	ErrNotFound = &APIError{
		Status:  http.StatusNotFound,
		Code:    "not_found",
		Message: "Task not found",
	}
	ErrInternalServer = &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "Internal server error",
	}
)
