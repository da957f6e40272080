package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/localrivet/ytsummary/internal/summarizer/providers"
	"github.com/localrivet/ytsummary/internal/telemetry"
)

// Errors
var (
	ErrSummarizationFailed = errors.New("summarization failed")
	ErrConfigError         = errors.New("configuration error")
)

// ProviderSettings configures one summarization provider.
type ProviderSettings struct {
	Name    string
	ModelID string
	APIKey  string
	BaseURL string
}

// ModelSummarizerConfig holds configuration for the ModelSummarizer
type ModelSummarizerConfig struct {
	Primary ProviderSettings
	// Fallbacks are tried in order when the primary provider fails.
	Fallbacks []ProviderSettings
	// Timeout bounds each provider call.
	Timeout time.Duration
}

// ModelSummarizer delegates summarization to a pretrained model behind a
// providers.LLMProvider. Each call goes to the primary provider once; on
// failure each configured fallback is tried once, in order. There are no
// retries.
//
// The providers are built once by Initialize and are read-only afterwards,
// so a ModelSummarizer is safe for concurrent use.
type ModelSummarizer struct {
	config      *ModelSummarizerConfig
	provider    providers.LLMProvider
	fallbacks   []providers.LLMProvider
	initialized bool
	metrics     *telemetry.MetricsCollector
	logger      *slog.Logger
	mu          sync.RWMutex
}

// NewModelSummarizer creates a ModelSummarizer whose providers are built
// from config on Initialize. A nil metrics collector or logger gets a
// private collector or the default logger.
func NewModelSummarizer(config *ModelSummarizerConfig, metrics *telemetry.MetricsCollector, logger *slog.Logger) *ModelSummarizer {
	if config == nil {
		config = &ModelSummarizerConfig{}
	}
	if config.Primary.Name == "" {
		config.Primary.Name = providers.ProviderHuggingFace
	}
	if config.Timeout <= 0 {
		config.Timeout = providers.DefaultTimeout
	}
	if metrics == nil {
		metrics = telemetry.NewMetricsCollector()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ModelSummarizer{
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// NewModelSummarizerWithProviders creates an initialized ModelSummarizer
// over already constructed providers.
func NewModelSummarizerWithProviders(primary providers.LLMProvider, fallbacks []providers.LLMProvider, metrics *telemetry.MetricsCollector, logger *slog.Logger) *ModelSummarizer {
	s := NewModelSummarizer(&ModelSummarizerConfig{
		Primary: ProviderSettings{Name: primary.Name()},
	}, metrics, logger)
	s.provider = primary
	s.fallbacks = fallbacks
	s.initialized = true
	return s
}

// Initialize builds the primary and fallback providers.
func (s *ModelSummarizer) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	configs := map[string]providers.Config{
		s.config.Primary.Name: s.providerConfig(s.config.Primary),
	}
	var order []string
	for _, fb := range s.config.Fallbacks {
		if fb.Name == s.config.Primary.Name {
			continue
		}
		if _, dup := configs[fb.Name]; !dup {
			configs[fb.Name] = s.providerConfig(fb)
		}
		order = append(order, fb.Name)
	}

	factory := providers.NewProviderFactory(configs)

	primary, err := factory.GetProvider(s.config.Primary.Name)
	if err != nil {
		return fmt.Errorf("%w: failed to create primary provider: %v", ErrConfigError, err)
	}

	fallbacks, err := factory.GetProviderChain(order)
	if err != nil {
		return fmt.Errorf("%w: failed to create fallback providers: %v", ErrConfigError, err)
	}

	s.provider = primary
	s.fallbacks = fallbacks
	s.initialized = true

	s.logger.Info("summarizer initialized",
		"provider", primary.Name(),
		"model", s.config.Primary.ModelID,
		"fallbacks", len(fallbacks))
	return nil
}

func (s *ModelSummarizer) providerConfig(ps ProviderSettings) providers.Config {
	return providers.Config{
		APIKey:  ps.APIKey,
		ModelID: ps.ModelID,
		BaseURL: ps.BaseURL,
		Timeout: s.config.Timeout,
	}
}

// Name returns the primary provider's name.
func (s *ModelSummarizer) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.provider != nil {
		return s.provider.Name()
	}
	return s.config.Primary.Name
}

// ProviderNames lists the primary provider followed by the fallbacks.
func (s *ModelSummarizer) ProviderNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	if s.provider != nil {
		names = append(names, s.provider.Name())
	}
	for _, fb := range s.fallbacks {
		names = append(names, fb.Name())
	}
	return names
}

// Summarize implements Summarizer.
func (s *ModelSummarizer) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	startTime := time.Now()
	defer func() {
		s.metrics.RecordTimer(telemetry.MetricSummarizerTime, time.Since(startTime))
	}()

	s.mu.RLock()
	ready := s.initialized
	s.mu.RUnlock()
	if !ready {
		if err := s.Initialize(); err != nil {
			return "", fmt.Errorf("failed to initialize summarizer: %w", err)
		}
	}

	s.metrics.IncrementCounter(telemetry.MetricSummarizerCalls, 1)

	summary, err := s.call(ctx, s.provider, text, opts)
	if err == nil {
		return summary, nil
	}

	failures := []string{fmt.Sprintf("%s: %v", s.provider.Name(), err)}

	for _, fb := range s.fallbacks {
		// A cancelled request must not fan out to the fallbacks.
		if ctx.Err() != nil {
			break
		}

		s.metrics.IncrementCounter(telemetry.MetricFallbackAttempts, 1)
		s.logger.Warn("summarization provider failed, trying fallback",
			"failed", failures[len(failures)-1], "fallback", fb.Name())

		summary, err = s.call(ctx, fb, text, opts)
		if err == nil {
			s.metrics.IncrementCounter(telemetry.MetricFallbackSuccess, 1)
			return summary, nil
		}
		failures = append(failures, fmt.Sprintf("%s: %v", fb.Name(), err))
	}

	return "", fmt.Errorf("%w: %s", ErrSummarizationFailed, strings.Join(failures, "; "))
}

func (s *ModelSummarizer) call(ctx context.Context, p providers.LLMProvider, text string, opts Options) (string, error) {
	name := p.Name()
	s.metrics.IncrementCounter(telemetry.ProviderCallsMetric(name), 1)

	callCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	summary, err := p.Summarize(callCtx, text, opts)
	elapsed := time.Since(start)

	if err != nil {
		s.metrics.IncrementCounter(telemetry.MetricSummarizerFailure, 1)
		return "", err
	}

	s.metrics.IncrementCounter(telemetry.MetricSummarizerSuccess, 1)
	s.metrics.RecordTimer(telemetry.ProviderResponseTimeMetric(name), elapsed)
	s.logger.Debug("chunk summarized",
		"provider", name,
		"max_length", opts.MaxLength,
		"min_length", opts.MinLength,
		"duration", elapsed)

	return summary, nil
}

// GetMetrics returns the metrics collector for this summarizer
func (s *ModelSummarizer) GetMetrics() *telemetry.MetricsCollector {
	return s.metrics
}
