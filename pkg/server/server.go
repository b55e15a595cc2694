package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/config"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/engine"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/expression"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/flowerr"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/graph"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/health"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/logging"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/middleware"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/telemetry"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/types"
)

// Config holds the reference HTTP binding's server-level settings,
// distinct from the traversal engine's own config.Config (retry/timeout/
// row-cap knobs, which shape the *engine.Engine passed to New).
type Config struct {
	Address            string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
	RateLimitPerSecond float64
	RateLimitBurst     int64
	RequestTimeout     time.Duration
}

// DefaultConfig returns production-sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:            ":8080",
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: middleware.DefaultMaxRequestBodySize,
		RateLimitPerSecond: 50,
		RateLimitBurst:     100,
		RequestTimeout:     middleware.DefaultRequestTimeout,
	}
}

// Server is the reference HTTP binding over one Traversal Engine: a single
// POST /v1/api/next_question_flow endpoint plus health and metrics
// endpoints (health checker, telemetry provider, structured logger,
// graceful shutdown), with the workflow-CRUD/playground surface removed and
// chi-based middleware composing the request pipeline.
type Server struct {
	config     Config
	httpServer *http.Server
	health     *health.Checker
	telemetry  *telemetry.Provider
	logger     *logging.Logger
	engine     *engine.Engine
}

// New builds a Server around eng, an already-constructed Traversal Engine
// (see NewInMemoryEngine for a ready-to-run backing store).
func New(config Config, eng *engine.Engine) (*Server, error) {
	logger := logging.New(logging.DefaultConfig())

	telemetryProvider, err := telemetry.NewProvider(context.Background(), telemetry.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("create telemetry provider: %w", err)
	}

	healthChecker := health.NewChecker("flowquest-traversal-engine", "0.1.0")
	healthChecker.RegisterCheck("engine", eng.Ping, 5*time.Second, true)

	eng.RegisterObserver(telemetry.NewTelemetryObserver(telemetryProvider))

	s := &Server{
		config:    config,
		health:    healthChecker,
		telemetry: telemetryProvider,
		logger:    logger,
		engine:    eng,
	}

	metricsMW, err := middleware.Metrics(telemetryProvider.Meter())
	if err != nil {
		return nil, fmt.Errorf("create HTTP metrics middleware: %w", err)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Timeout(config.RequestTimeout),
		middleware.SizeLimit(config.MaxRequestBodySize),
		middleware.RateLimit(config.RateLimitPerSecond, config.RateLimitBurst),
		middleware.Logging(logger),
		metricsMW,
	)

	r.Get("/health", healthChecker.HTTPHandler())
	r.Get("/health/live", healthChecker.LivenessHandler())
	r.Get("/health/ready", healthChecker.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/v1/api/next_question_flow", s.handleWalk)

	s.httpServer = &http.Server{
		Addr:         config.Address,
		Handler:      r,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return s, nil
}

// NewInMemoryEngine builds a Traversal Engine over graph.InMemoryStore
// seeded with records, the same backing store the engine's own tests use.
// No concrete graph-database driver is available to this module (graph
// storage is explicitly out of scope), so the reference binary runs
// against this fake rather than fabricating one. cfg shapes the Gateway's
// retry policy and row cap plus the Engine's max traversal depth; a nil cfg
// falls back to config.Default().
func NewInMemoryEngine(seed map[string][]graph.Record, cfg *config.Config) *engine.Engine {
	if cfg == nil {
		cfg = config.Default()
	}

	store := graph.NewInMemoryStore()
	for statement, records := range seed {
		store.Seed(statement, records)
	}

	policy := graph.RetryPolicy{
		MaxAttempts:    cfg.MaxRetryAttempts,
		InitialBackoff: cfg.RetryInitialBackoff,
		MaxBackoff:     cfg.RetryMaxBackoff,
	}
	gw := graph.NewGateway(store, policy, cfg.RowCap)

	eng := engine.New(gw, expression.NewEvaluator())
	eng.SetMaxDepth(cfg.MaxWalkDepth)
	return eng
}

func (s *Server) handleWalk(w http.ResponseWriter, r *http.Request) {
	var req types.WalkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, r, middleware.AsBodyTooLargeError(fmt.Errorf("decode request: %w", err)))
		return
	}

	s.logger.WithSectionID(req.SectionID).WithField("params", req.Params()).Info("engine invoked")

	resp, err := s.engine.Walk(r.Context(), req)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}

	s.logger.WithSectionID(req.SectionID).WithFields(map[string]interface{}{
		"completed":     resp.Completed,
		"question":      resp.Question,
		"nextSectionId": resp.NextSectionID,
	}).Info("engine response")

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	status := flowerr.HTTPStatus(err)
	body := map[string]any{
		"error":   err.Error(),
		"traceId": types.GetTraceID(r.Context()),
	}
	if fe, ok := flowerr.As(err); ok {
		body["kind"] = string(fe.Kind)
	}
	writeJSON(w, status, body)
}

// Start runs the HTTP server until Shutdown is called or it fails.
func (s *Server) Start() error {
	s.logger.WithField("address", s.config.Address).Info("starting server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and the telemetry provider.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := s.telemetry.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown telemetry: %w", err)
	}
	s.logger.Info("server shutdown complete")
	return nil
}
