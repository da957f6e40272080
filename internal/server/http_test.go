package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/localrivet/ytsummary/internal/pipeline"
	"github.com/localrivet/ytsummary/internal/summarizer"
	"github.com/localrivet/ytsummary/internal/summarizer/providers"
	"github.com/localrivet/ytsummary/internal/telemetry"
	"github.com/localrivet/ytsummary/internal/transcript"
)

type stubFetcher struct {
	transcript *transcript.Transcript
	err        error
	calls      []string
}

func (f *stubFetcher) Fetch(_ context.Context, videoID string) (*transcript.Transcript, error) {
	f.calls = append(f.calls, videoID)
	return f.transcript, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(p providers.LLMProvider, f transcript.Fetcher) *pipeline.Pipeline {
	metrics := telemetry.NewMetricsCollector()
	s := summarizer.NewModelSummarizerWithProviders(p, nil, metrics, quietLogger())
	return pipeline.New(s, f, pipeline.DefaultConfig(), metrics, quietLogger())
}

func newTestHTTPServer(t *testing.T, p *pipeline.Pipeline, cfg HTTPConfig) http.Handler {
	t.Helper()

	s := NewHTTPServer(p, cfg, quietLogger())
	require.NoError(t, s.Initialize())
	require.NotNil(t, s.Handler())
	return s.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Error
}

func summaryBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp["summary"]
}

func TestIndexPage(t *testing.T) {
	h := newTestHTTPServer(t, newTestPipeline(providers.NewCapturingProvider("model", nil), nil), HTTPConfig{})

	w := do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/html")
	require.Contains(t, w.Body.String(), "YouTube Transcript Summarizer")
	require.Contains(t, w.Body.String(), "/summarize_transcript")

	w = do(t, h, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSummarizeTranscriptEndpoint(t *testing.T) {
	provider := providers.NewCapturingProvider("model", func(string, providers.Options) (string, error) {
		return "a short summary", nil
	})
	h := newTestHTTPServer(t, newTestPipeline(provider, nil), HTTPConfig{})

	w := do(t, h, http.MethodPost, "/summarize_transcript", `{"transcript":"First point. Second point."}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.Equal(t, "a short summary", summaryBody(t, w))
	require.NotEmpty(t, w.Header().Get(RequestIDHeader))

	calls := provider.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, "First point. Second point.", calls[0].Text)
	require.Equal(t, 4, calls[0].Options.MaxLength)
	require.Equal(t, summarizer.DefaultMinSummaryLength, calls[0].Options.MinLength)
	require.False(t, calls[0].Options.DoSample)
	require.True(t, calls[0].Options.CleanUpTokenizationSpaces)
}

func TestSummarizeTranscriptValidation(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{name: "missing field", body: `{}`, wantMessage: "Transcript not provided"},
		{name: "empty string", body: `{"transcript":""}`, wantMessage: "Transcript not provided"},
		{name: "whitespace only", body: `{"transcript":"  \n "}`, wantMessage: "Transcript not provided"},
		{name: "empty body", body: ``, wantMessage: "Transcript not provided"},
		{name: "null body", body: `null`, wantMessage: "Transcript not provided"},
		{name: "malformed JSON", body: `{"transcript":`, wantMessage: "Invalid JSON body"},
		{name: "not an object", body: `["a"]`, wantMessage: "Invalid JSON body"},
		{name: "wrong field type", body: `{"transcript":42}`, wantMessage: "Invalid JSON body"},
	}

	provider := providers.NewCapturingProvider("model", nil)
	h := newTestHTTPServer(t, newTestPipeline(provider, nil), HTTPConfig{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/summarize_transcript", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			require.Equal(t, tt.wantMessage, errorBody(t, w))
		})
	}
	require.Empty(t, provider.Calls())
}

func TestSummarizeTranscriptModelFailure(t *testing.T) {
	provider := providers.NewTestProvider("model", "", errors.New("model overloaded"))
	h := newTestHTTPServer(t, newTestPipeline(provider, nil), HTTPConfig{})

	w := do(t, h, http.MethodPost, "/summarize_transcript", `{"transcript":"Some text."}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, errorBody(t, w), "model overloaded")
}

func TestSummarizeYouTubeEndpoint(t *testing.T) {
	fetcher := &stubFetcher{transcript: &transcript.Transcript{
		VideoID:  "dQw4w9WgXcQ",
		Language: "en",
		Segments: []transcript.Segment{{Text: "never gonna give you up"}},
	}}
	provider := providers.NewCapturingProvider("model", func(text string, _ providers.Options) (string, error) {
		return "summary: " + text, nil
	})
	h := newTestHTTPServer(t, newTestPipeline(provider, fetcher), HTTPConfig{})

	w := do(t, h, http.MethodPost, "/summarize_youtube", `{"video_id":" dQw4w9WgXcQ "}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "summary: never gonna give you up.", summaryBody(t, w))
	require.Equal(t, []string{"dQw4w9WgXcQ"}, fetcher.calls)
}

func TestSummarizeYouTubeValidation(t *testing.T) {
	fetcher := &stubFetcher{}
	h := newTestHTTPServer(t, newTestPipeline(providers.NewCapturingProvider("model", nil), fetcher), HTTPConfig{})

	for _, body := range []string{``, `{}`, `{"video_id":""}`, `{"video_id":"   "}`} {
		w := do(t, h, http.MethodPost, "/summarize_youtube", body)
		require.Equal(t, http.StatusBadRequest, w.Code, body)
		require.Equal(t, "No video ID provided", errorBody(t, w), body)
	}
	require.Empty(t, fetcher.calls)
}

func TestSummarizeYouTubeFetchFailure(t *testing.T) {
	fetchErr := &transcript.FetchError{Kind: transcript.KindTranscriptsDisabled, VideoID: "dQw4w9WgXcQ"}
	provider := providers.NewCapturingProvider("model", nil)
	h := newTestHTTPServer(t, newTestPipeline(provider, &stubFetcher{err: fetchErr}), HTTPConfig{})

	w := do(t, h, http.MethodPost, "/summarize_youtube", `{"video_id":"dQw4w9WgXcQ"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, fetchErr.Error(), errorBody(t, w))
	require.Empty(t, provider.Calls())
}

func TestRequestBodyLimit(t *testing.T) {
	h := newTestHTTPServer(t, newTestPipeline(providers.NewCapturingProvider("model", nil), nil), HTTPConfig{MaxBodyBytes: 16})

	w := do(t, h, http.MethodPost, "/summarize_transcript", `{"transcript":"`+strings.Repeat("x", 64)+`"}`)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHTTPServer(t, newTestPipeline(providers.NewCapturingProvider("model", nil), nil), HTTPConfig{})

	w := do(t, h, http.MethodGet, "/summarize_transcript", "")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newTestHTTPServer(t, newTestPipeline(providers.NewCapturingProvider("model", nil), nil), HTTPConfig{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	p := newTestPipeline(providers.NewCapturingProvider("model", nil), nil)
	h := newTestHTTPServer(t, p, HTTPConfig{Version: "1.2.3"})

	w := do(t, h, http.MethodPost, "/summarize_transcript", `{"transcript":"hello."}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, h, http.MethodPost, "/summarize_transcript", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)

	var report summarizer.HealthReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Equal(t, summarizer.StatusHealthy, report.Status)
	require.Equal(t, "1.2.3", report.Version)
	require.Equal(t, int64(1), report.TotalRequests)

	w = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Metrics Report:")
	require.Contains(t, w.Body.String(), telemetry.MetricPipelineRequests)

	require.Equal(t, int64(4), p.Metrics().GetCounter(telemetry.MetricHTTPRequests))
	require.Equal(t, int64(1), p.Metrics().GetCounter(telemetry.MetricHTTPClientErrors))
}

func TestHTTPServerLifecycle(t *testing.T) {
	require.Error(t, NewHTTPServer(nil, HTTPConfig{}, nil).Initialize())

	s := NewHTTPServer(newTestPipeline(providers.NewCapturingProvider("model", nil), nil), HTTPConfig{}, quietLogger())
	require.ErrorIs(t, s.Start(), ErrServerNotInitialized)
	require.NoError(t, s.Stop())

	require.Equal(t, DefaultAddr, s.config.Addr)
	require.Equal(t, int64(DefaultMaxBodyBytes), s.config.MaxBodyBytes)
}
