package server

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/localrivet/ytsummary/internal/errortypes"
	"github.com/localrivet/ytsummary/internal/pipeline"
	"github.com/localrivet/ytsummary/internal/summarizer"
	"github.com/localrivet/ytsummary/internal/telemetry"
	"github.com/localrivet/ytsummary/internal/tools"
	"github.com/localrivet/ytsummary/web"
)

// Common server error types
var (
	ErrServerNotInitialized = errors.New("server not initialized")
	ErrMissingDependencies  = errors.New("one or more required dependencies are nil")
)

// RequestIDHeader carries the per-request ID on responses.
const RequestIDHeader = "X-Request-ID"

// HTTP defaults.
const (
	DefaultAddr            = ":5000"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 300 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodyBytes    = 1 << 20
)

// HTTPConfig holds the listener settings. Zero values take the defaults.
type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	Version         string
}

func (c HTTPConfig) withDefaults() HTTPConfig {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return c
}

// HTTPServer serves the landing page and the two JSON endpoints.
type HTTPServer struct {
	pipeline *pipeline.Pipeline
	config   HTTPConfig
	logger   *slog.Logger

	index   *template.Template
	handler http.Handler

	mu  sync.Mutex
	srv *http.Server
}

// NewHTTPServer creates an HTTPServer over p. Initialize must be called
// before Handler or Start.
func NewHTTPServer(p *pipeline.Pipeline, cfg HTTPConfig, logger *slog.Logger) *HTTPServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPServer{
		pipeline: p,
		config:   cfg.withDefaults(),
		logger:   logger,
	}
}

// Initialize parses the templates and registers the routes.
func (s *HTTPServer) Initialize() error {
	if s.pipeline == nil {
		return errortypes.ConfigError(ErrMissingDependencies, "server initialization failed")
	}

	tmpl, err := web.Templates()
	if err != nil {
		return errortypes.ConfigError(err, "failed to parse templates")
	}
	s.index = tmpl

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /summarize_youtube", s.handleSummarizeYouTube)
	mux.HandleFunc("POST /summarize_transcript", s.handleSummarizeTranscript)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	s.handler = s.withRequestLogging(mux)
	s.logger.Info("HTTP server initialized", "addr", s.config.Addr)
	return nil
}

// Handler returns the routed handler, or nil before Initialize.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address until Stop is called.
func (s *HTTPServer) Start() error {
	if s.handler == nil {
		return errortypes.ConfigError(ErrServerNotInitialized, "cannot start server")
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	srv := s.srv
	s.mu.Unlock()

	s.logger.Info("Starting HTTP server", "addr", s.config.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errortypes.NetworkError(err, "HTTP server failed")
	}
	return nil
}

// Stop waits up to the shutdown timeout for in-flight requests.
func (s *HTTPServer) Stop() error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

func (s *HTTPServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Title string }{Title: "YouTube Transcript Summarizer"}
	if err := s.index.ExecuteTemplate(w, web.IndexTemplate, data); err != nil {
		s.logger.Error("Failed to render index", "error", err)
	}
}

func (s *HTTPServer) handleSummarizeYouTube(w http.ResponseWriter, r *http.Request) {
	var req tools.SummarizeYouTubeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	videoID := strings.TrimSpace(req.VideoID)
	if videoID == "" {
		HandleError(w, errortypes.ValidationError(nil, tools.MsgNoVideoID))
		return
	}

	summary, err := s.pipeline.SummarizeVideo(r.Context(), videoID)
	if err != nil {
		HandleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tools.SummaryResponse{Summary: summary})
}

func (s *HTTPServer) handleSummarizeTranscript(w http.ResponseWriter, r *http.Request) {
	var req tools.SummarizeTranscriptRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Transcript) == "" {
		HandleError(w, errortypes.ValidationError(nil, tools.MsgNoTranscript))
		return
	}

	summary, err := s.pipeline.SummarizeText(r.Context(), req.Transcript)
	if err != nil {
		HandleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tools.SummaryResponse{Summary: summary})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	report, err := summarizer.CreateHealthReport(s.pipeline.Summarizer(), s.pipeline.Metrics(), s.config.Version)
	if err != nil {
		HandleInternalError(w, "failed to build health report", err)
		return
	}

	status := http.StatusOK
	if report.Status == summarizer.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func (s *HTTPServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, s.pipeline.Metrics().GetReport())
}

// decodeBody reads a JSON object into v. An empty body leaves v at its zero
// value so the caller reports the missing field. It writes the error
// response itself and returns false when the body is unusable.
func (s *HTTPServer) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)

	err := json.NewDecoder(body).Decode(v)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeErrorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large", nil)
		return false
	}

	HandleBadRequest(w, tools.MsgInvalidJSONBody, errortypes.ValidationError(err, tools.MsgInvalidJSONBody))
	return false
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestLogging tags each request with an ID, logs it and records the
// HTTP metrics.
func (s *HTTPServer) withRequestLogging(next http.Handler) http.Handler {
	metrics := s.pipeline.Metrics()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		metrics.IncrementCounter(telemetry.MetricHTTPRequests, 1)
		metrics.RecordTimer(telemetry.MetricHTTPLatency, elapsed)
		switch {
		case rec.status >= 500:
			metrics.IncrementCounter(telemetry.MetricHTTPServerErrors, 1)
		case rec.status >= 400:
			metrics.IncrementCounter(telemetry.MetricHTTPClientErrors, 1)
		}

		s.logger.Info("HTTP request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed)
	})
}
