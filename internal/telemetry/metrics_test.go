package telemetry

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCountersAndGauges(t *testing.T) {
	m := NewMetricsCollector()

	m.IncrementCounter(MetricSummarizerCalls, 1)
	m.IncrementCounter(MetricSummarizerCalls, 2)
	m.SetGauge("queue", 1.5)

	if got := m.GetCounter(MetricSummarizerCalls); got != 3 {
		t.Errorf("counter = %d, want 3", got)
	}
	if got := m.GetGauge("queue"); got != 1.5 {
		t.Errorf("gauge = %v, want 1.5", got)
	}
	if got := m.GetCounter("missing"); got != 0 {
		t.Errorf("missing counter = %d, want 0", got)
	}
}

func TestTimers(t *testing.T) {
	m := NewMetricsCollector()

	for i := 1; i <= 20; i++ {
		m.RecordTimer(MetricTranscriptTime, time.Duration(i)*time.Millisecond)
	}

	if got, want := m.GetTimerAverage(MetricTranscriptTime), 10500*time.Microsecond; got != want {
		t.Errorf("average = %v, want %v", got, want)
	}
	if got, want := m.GetTimerP95(MetricTranscriptTime), 20*time.Millisecond; got != want {
		t.Errorf("p95 = %v, want %v", got, want)
	}
	if m.GetTimerAverage("missing") != 0 || m.GetTimerP95("missing") != 0 {
		t.Errorf("missing timer should report zero")
	}
}

func TestTimerSamplesAreBounded(t *testing.T) {
	m := NewMetricsCollector()

	for i := 0; i < maxTimerSamples+50; i++ {
		m.RecordTimer("t", time.Duration(i))
	}

	m.mu.RLock()
	n := len(m.timers["t"])
	first := m.timers["t"][0]
	m.mu.RUnlock()

	if n != maxTimerSamples {
		t.Fatalf("kept %d samples, want %d", n, maxTimerSamples)
	}
	if first != 50 {
		t.Errorf("oldest kept sample = %v, want 50", first)
	}
}

func TestProviderMetricNames(t *testing.T) {
	if got := ProviderCallsMetric("openai"); got != "summarizer.calls.openai" {
		t.Errorf("ProviderCallsMetric = %q", got)
	}
	if got := ProviderResponseTimeMetric("huggingface"); got != "summarizer.response_time.huggingface" {
		t.Errorf("ProviderResponseTimeMetric = %q", got)
	}
}

func TestReportAndReset(t *testing.T) {
	m := NewMetricsCollector()
	m.IncrementCounter("b.counter", 2)
	m.IncrementCounter("a.counter", 1)
	m.RecordTimer(MetricHTTPLatency, time.Millisecond)
	m.RecordTimestamp(MetricTranscriptLastOK)

	report := m.GetReport()
	for _, want := range []string{"a.counter: 1", "b.counter: 2", "http.latency: avg=1ms", "transcript.last_success"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
	if strings.Index(report, "a.counter") > strings.Index(report, "b.counter") {
		t.Errorf("counters are not sorted:\n%s", report)
	}

	m.Reset()
	if m.GetCounter("a.counter") != 0 || m.GetTimeSince(MetricTranscriptLastOK) != 0 {
		t.Errorf("Reset did not clear metrics")
	}
}

func TestConcurrentUse(t *testing.T) {
	m := NewMetricsCollector()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.IncrementCounter(MetricHTTPRequests, 1)
				m.RecordTimer(MetricHTTPLatency, time.Microsecond)
				_ = m.GetReport()
			}
		}()
	}
	wg.Wait()

	if got := m.GetCounter(MetricHTTPRequests); got != 800 {
		t.Errorf("counter = %d, want 800", got)
	}
}
