// Package server exposes the evaluation pipeline over HTTP and WebSocket.
//
// It is a thin shell: requests are decoded into raw field text, handed to the
// evaluator unchanged, and structured errors are mapped to status codes.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"hiring-assistant/internal/evaluator"
	"hiring-assistant/internal/features"
)

// Evaluator is the part of evaluator.Evaluator the server depends on.
type Evaluator interface {
	Evaluate(raw features.RawInput, model string) (*evaluator.PredictionResult, error)
	Models() []evaluator.ModelStatus
	Fields() []features.Field
	Ready() bool
}

// RegistryStatus reports which models loaded and which did not.
type RegistryStatus interface {
	Names() []string
	Unavailable() map[string]error
}

// MetricsInterface defines metrics methods needed by the server
type MetricsInterface interface {
	SessionOpened()
	SessionClosed()
}

// Config holds the server wiring. Only Port is required to start listening;
// Registry, Metrics and Gatherer are optional.
type Config struct {
	Port         int
	DefaultModel string
	Registry     RegistryStatus
	Metrics      MetricsInterface
	Gatherer     prometheus.Gatherer
}

// Server serves the evaluation API, a small input form, health and metrics.
type Server struct {
	eval      Evaluator
	cfg       Config
	server    *http.Server
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]struct{}
	clientsMu sync.Mutex
	isRunning bool
	mu        sync.Mutex
}

// New creates a server with all routes registered. It does not listen until Start.
func New(eval Evaluator, cfg Config) *Server {
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		eval:     eval,
		cfg:      cfg,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  make(map[*websocket.Conn]struct{}),
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleForm).Methods("GET")
	r.HandleFunc("/api/evaluate", s.handleEvaluate).Methods("POST")
	r.HandleFunc("/api/models", s.handleModels).Methods("GET")
	r.HandleFunc("/api/features", s.handleFeatures).Methods("GET")
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})).Methods("GET")
	r.HandleFunc("/ws", s.handleWebSocket).Methods("GET")

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler returns the router, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("server is already running")
	}

	go func() {
		log.Info().Str("address", s.server.Addr).Msg("Starting evaluation server")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Evaluation server failed")
		}
	}()

	s.isRunning = true
	return nil
}

// Shutdown closes open WebSocket sessions and gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.closeClients()

	if err := s.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown evaluation server")
		return err
	}

	s.isRunning = false
	log.Info().Msg("Evaluation server stopped")
	return nil
}

// EvaluateRequest is the body of POST /api/evaluate and of each /ws frame.
type EvaluateRequest struct {
	Features RawFields `json:"features"`
	Model    string    `json:"model"`
}

// ErrorResponse describes a failed evaluation.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Field string `json:"field,omitempty"`
	Model string `json:"model,omitempty"`
}

const kindBadRequest = "bad_request"

func (s *Server) modelOrDefault(model string) string {
	if model == "" {
		return s.cfg.DefaultModel
	}
	return model
}

// evaluate runs one request and returns the status and body to send back.
func (s *Server) evaluate(req EvaluateRequest) (int, any) {
	res, err := s.eval.Evaluate(features.RawInput(req.Features), s.modelOrDefault(req.Model))
	if err != nil {
		return errorResponse(err)
	}
	return http.StatusOK, res
}

func errorResponse(err error) (int, ErrorResponse) {
	resp := ErrorResponse{Error: err.Error(), Kind: evaluator.Kind(err)}
	if field, ok := features.FieldOf(err); ok {
		resp.Field = field
	}

	var unavailable *evaluator.ModelUnavailableError
	switch {
	case evaluator.IsValidation(err):
		return http.StatusBadRequest, resp
	case errors.As(err, &unavailable):
		resp.Model = unavailable.Model
		return http.StatusServiceUnavailable, resp
	default:
		log.Error().Err(err).Msg("Unexpected evaluation error")
		return http.StatusInternalServerError, resp
	}
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request: %v", err), Kind: kindBadRequest})
		return
	}

	status, body := s.evaluate(req)
	writeJSON(w, status, body)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default": s.cfg.DefaultModel,
		"models":  s.eval.Models(),
	})
}

type fieldView struct {
	features.Field
	Range string `json:"range"`
}

func (s *Server) fieldViews() []fieldView {
	fields := s.eval.Fields()
	out := make([]fieldView, len(fields))
	for i, f := range fields {
		out[i] = fieldView{Field: f, Range: f.RangeHint()}
	}
	return out
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.fieldViews())
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status      string            `json:"status"`
	Loaded      []string          `json:"loaded"`
	Unavailable map[string]string `json:"unavailable,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{Status: "ok", Loaded: []string{}}
	if s.cfg.Registry != nil {
		health.Loaded = append(health.Loaded, s.cfg.Registry.Names()...)
		if failed := s.cfg.Registry.Unavailable(); len(failed) > 0 {
			health.Unavailable = make(map[string]string, len(failed))
			for name, err := range failed {
				health.Unavailable[name] = err.Error()
			}
		}
	}

	status := http.StatusOK
	if !s.eval.Ready() || len(health.Unavailable) > 0 {
		health.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// writeJSON encodes body before committing the status, so an unencodable body
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, body any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
		status = http.StatusInternalServerError
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(ErrorResponse{Error: "failed to encode response", Kind: evaluator.KindInternal})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Debug().Err(err).Msg("Failed to write response")
	}
}
