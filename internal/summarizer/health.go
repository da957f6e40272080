package summarizer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/localrivet/ytsummary/internal/telemetry"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	// StatusHealthy indicates a component is fully operational
	StatusHealthy HealthStatus = "healthy"

	// StatusDegraded indicates a component is operational but with reduced capability
	StatusDegraded HealthStatus = "degraded"

	// StatusUnhealthy indicates a component is not operational
	StatusUnhealthy HealthStatus = "unhealthy"
)

// Success rate thresholds, in percent, for the summarizer status.
const (
	healthyRate  = 90.0
	degradedRate = 50.0
)

// HealthReport summarizes the recent behaviour of the summarizer and the
// transcript fetcher, derived from collected metrics. Building it never
// calls a provider.
type HealthReport struct {
	Status            HealthStatus       `json:"status"`
	Timestamp         time.Time          `json:"timestamp"`
	Provider          string             `json:"provider"`
	Providers         []string           `json:"providers"`
	ResponseTimes     map[string]float64 `json:"response_times_ms"`
	SuccessRate       float64            `json:"success_rate"`
	TotalRequests     int64              `json:"total_requests"`
	FallbackAttempts  int64              `json:"fallback_attempts"`
	TranscriptFetches int64              `json:"transcript_fetches"`
	TranscriptErrors  int64              `json:"transcript_errors"`
	Version           string             `json:"version"`
}

// providerLister is implemented by summarizers with fallback providers.
type providerLister interface {
	ProviderNames() []string
}

// CreateHealthReport generates a health report for s from m.
func CreateHealthReport(s Summarizer, m *telemetry.MetricsCollector, version string) (*HealthReport, error) {
	if s == nil {
		return nil, fmt.Errorf("summarizer is nil")
	}
	if m == nil {
		return nil, fmt.Errorf("metrics collector is nil")
	}

	names := []string{s.Name()}
	if lister, ok := s.(providerLister); ok {
		if listed := lister.ProviderNames(); len(listed) > 0 {
			names = listed
		}
	}

	totalSuccess := m.GetCounter(telemetry.MetricSummarizerSuccess)
	totalFailure := m.GetCounter(telemetry.MetricSummarizerFailure)
	totalRequests := totalSuccess + totalFailure

	successRate := 100.0
	if totalRequests > 0 {
		successRate = float64(totalSuccess) / float64(totalRequests) * 100.0
	}

	status := StatusHealthy
	switch {
	case successRate < degradedRate:
		status = StatusUnhealthy
	case successRate < healthyRate:
		status = StatusDegraded
	}

	responseTimes := map[string]float64{
		"total": millis(m.GetTimerAverage(telemetry.MetricSummarizerTime)),
	}
	for _, name := range names {
		responseTimes[name] = millis(m.GetTimerAverage(telemetry.ProviderResponseTimeMetric(name)))
	}

	return &HealthReport{
		Status:            status,
		Timestamp:         time.Now(),
		Provider:          s.Name(),
		Providers:         names,
		ResponseTimes:     responseTimes,
		SuccessRate:       successRate,
		TotalRequests:     totalRequests,
		FallbackAttempts:  m.GetCounter(telemetry.MetricFallbackAttempts),
		TranscriptFetches: m.GetCounter(telemetry.MetricTranscriptFetches),
		TranscriptErrors:  m.GetCounter(telemetry.MetricTranscriptFailures),
		Version:           version,
	}, nil
}

// CreateHealthReportJSON generates an indented JSON health report.
func CreateHealthReportJSON(s Summarizer, m *telemetry.MetricsCollector, version string) (string, error) {
	report, err := CreateHealthReport(s, m, version)
	if err != nil {
		return "", err
	}

	reportJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal health report: %w", err)
	}

	return string(reportJSON), nil
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
