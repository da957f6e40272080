// Package ytsummary summarizes YouTube video transcripts with a pretrained
// summarization model, served over HTTP or as MCP tools.
package ytsummary

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/localrivet/ytsummary/internal/config"
	"github.com/localrivet/ytsummary/internal/errortypes"
	"github.com/localrivet/ytsummary/internal/pipeline"
	"github.com/localrivet/ytsummary/internal/server"
	"github.com/localrivet/ytsummary/internal/summarizer"
	"github.com/localrivet/ytsummary/internal/telemetry"
	"github.com/localrivet/ytsummary/internal/transcript"
)

// Version is the release version, set at build time with
// -ldflags "-X github.com/localrivet/ytsummary.Version=...".
var Version = "dev"

// Config represents the configuration for the ytsummary service.
type Config = config.Config

// Server wires the transcript fetcher, the summarizer and the pipeline to
// the HTTP and MCP transports.
type Server struct {
	config     *config.Config
	summarizer summarizer.Summarizer
	fetcher    transcript.Fetcher
	metrics    *telemetry.MetricsCollector
	pipeline   *pipeline.Pipeline
	httpServer *server.HTTPServer
	mcpServer  *server.MCPToolServer
	logger     *slog.Logger // Logger for this Server instance

	mu     sync.Mutex
	active server.SummaryServer
}

// ServerOptions defines the options for creating a new Server.
type ServerOptions struct {
	Config     *Config      // Pre-filled config. If nil, ConfigPath is used.
	ConfigPath string       // Path to config file. Used if Config is nil. If both are empty, DefaultConfig() is used.
	Logger     *slog.Logger // External logger. If nil, slog.Default() is used.

	// Summarizer and Fetcher replace the components built from the config.
	Summarizer summarizer.Summarizer
	Fetcher    transcript.Fetcher
}

// NewServer creates a new Server with the given options.
// If opts.Config is provided, it will be used directly.
// Otherwise, if opts.ConfigPath is provided, configuration will be loaded from that path.
// If neither is provided, DefaultConfig() will be used.
func NewServer(opts ServerOptions) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var cfg *Config
	var err error

	if opts.Config != nil {
		cfg = opts.Config
	} else if opts.ConfigPath != "" {
		logger.Info("Loading configuration", "path", opts.ConfigPath)
		cfg, err = config.LoadConfigWithPath(opts.ConfigPath)
		if err != nil {
			return nil, errortypes.ConfigError(err, "Failed to load configuration from path: "+opts.ConfigPath)
		}
	} else {
		logger.Debug("No Config object or ConfigPath provided, using default configuration")
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	metrics := telemetry.NewMetricsCollector()

	sum := opts.Summarizer
	if sum == nil {
		sum, err = CreateSummarizer(cfg, metrics, logger)
		if err != nil {
			return nil, err
		}
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = CreateFetcher(cfg, logger)
	}

	p := pipeline.New(sum, fetcher, pipeline.Config{
		MaxChunkWords:    cfg.Chunker.MaxWords,
		MaxSummaryLength: cfg.Summarizer.MaxLength,
		MinSummaryLength: cfg.Summarizer.MinLength,
	}, metrics, logger)

	httpServer := server.NewHTTPServer(p, server.HTTPConfig{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.ReadTimeout(),
		WriteTimeout:    cfg.WriteTimeout(),
		ShutdownTimeout: cfg.ShutdownTimeout(),
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		Version:         Version,
	}, logger)
	if err := httpServer.Initialize(); err != nil {
		return nil, err
	}

	mcpServer := server.NewMCPToolServer(p, logger)
	if err := mcpServer.Initialize(); err != nil {
		return nil, err
	}

	logger.Info("ytsummary server initialized", "summarizer", sum.Name())
	return &Server{
		config:     cfg,
		summarizer: sum,
		fetcher:    fetcher,
		metrics:    metrics,
		pipeline:   p,
		httpServer: httpServer,
		mcpServer:  mcpServer,
		logger:     logger,
	}, nil
}

// DefaultConfig returns the default configuration for the ytsummary service.
func DefaultConfig() *Config {
	return config.NewConfig()
}

// SaveConfig returns the configuration as indented JSON.
func SaveConfig(cfg *Config) ([]byte, error) {
	content, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, errortypes.ConfigError(err, "failed to marshal configuration")
	}
	return content, nil
}

// CreateSummarizer builds and initializes the summarizer named by the
// configuration: the extractive one for "basic", a model-backed one
// otherwise.
func CreateSummarizer(cfg *Config, metrics *telemetry.MetricsCollector, logger *slog.Logger) (summarizer.Summarizer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var sum summarizer.Summarizer
	if cfg.Summarizer.Provider == summarizer.BasicName {
		sum = summarizer.NewBasicSummarizer()
	} else {
		sum = summarizer.NewModelSummarizer(cfg.SummarizerConfig(), metrics, logger)
	}

	logger.Info("Initializing summarizer", "provider", cfg.Summarizer.Provider)
	if err := sum.Initialize(); err != nil {
		return nil, errortypes.ConfigError(err, "Failed to initialize summarizer")
	}
	return sum, nil
}

// CreateFetcher builds the YouTube transcript fetcher.
func CreateFetcher(cfg *Config, logger *slog.Logger) transcript.Fetcher {
	return transcript.NewYouTubeFetcher(transcript.YouTubeFetcherConfig{
		BaseURL:   cfg.Transcript.BaseURL,
		Languages: cfg.TranscriptLanguages(),
		Timeout:   cfg.TranscriptTimeout(),
	}, logger)
}

// Start serves HTTP until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("Starting ytsummary HTTP service", "addr", s.config.Server.Addr)
	s.setActive(s.httpServer)
	return s.httpServer.Start()
}

// StartMCP serves the MCP tools on stdio until stdin is closed.
func (s *Server) StartMCP() error {
	s.logger.Info("Starting ytsummary MCP service")
	s.setActive(s.mcpServer)
	return s.mcpServer.Start()
}

// Stop stops whichever transport was started.
func (s *Server) Stop() error {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()

	if active == nil {
		return nil
	}

	s.logger.Info("Stopping ytsummary service")
	if err := active.Stop(); err != nil {
		s.logger.Error("Error stopping server", "error", err)
		return err
	}
	return nil
}

func (s *Server) setActive(srv server.SummaryServer) {
	s.mu.Lock()
	s.active = srv
	s.mu.Unlock()
}

// SummarizeVideo fetches and summarizes the transcript of a video given by
// ID or URL.
func (s *Server) SummarizeVideo(ctx context.Context, videoID string) (string, error) {
	return s.pipeline.SummarizeVideo(ctx, videoID)
}

// SummarizeTranscript summarizes a transcript given as text.
func (s *Server) SummarizeTranscript(ctx context.Context, text string) (string, error) {
	return s.pipeline.SummarizeText(ctx, text)
}

// HTTPServer returns the HTTP transport, e.g. to mount its handler.
func (s *Server) HTTPServer() *server.HTTPServer {
	return s.httpServer
}

// GetSummarizer returns the summarizer instance used by the server.
func (s *Server) GetSummarizer() summarizer.Summarizer {
	return s.summarizer
}

// GetFetcher returns the transcript fetcher used by the server.
func (s *Server) GetFetcher() transcript.Fetcher {
	return s.fetcher
}

// GetMetrics returns the metrics collector shared by all components.
func (s *Server) GetMetrics() *telemetry.MetricsCollector {
	return s.metrics
}

// GetConfig returns the effective configuration.
func (s *Server) GetConfig() *Config {
	return s.config
}
