package ytsummary

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/localrivet/ytsummary/internal/errortypes"
	"github.com/localrivet/ytsummary/internal/summarizer"
	"github.com/localrivet/ytsummary/internal/transcript"
)

type staticFetcher struct {
	text string
}

func (f staticFetcher) Fetch(_ context.Context, videoID string) (*transcript.Transcript, error) {
	return &transcript.Transcript{
		VideoID:  videoID,
		Language: "en",
		Segments: []transcript.Segment{{Text: f.text}},
	}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func basicConfig() *Config {
	cfg := DefaultConfig()
	cfg.Summarizer.Provider = summarizer.BasicName
	return cfg
}

func TestNewServerWithBasicSummarizer(t *testing.T) {
	s, err := NewServer(ServerOptions{
		Config:  basicConfig(),
		Logger:  quietLogger(),
		Fetcher: staticFetcher{text: "the talk covers caching"},
	})
	require.NoError(t, err)
	require.Equal(t, summarizer.BasicName, s.GetSummarizer().Name())
	require.NotNil(t, s.GetMetrics())
	require.NotNil(t, s.GetFetcher())
	require.Equal(t, ":5000", s.GetConfig().Server.Addr)

	got, err := s.SummarizeTranscript(context.Background(), "Short transcript. Two sentences.")
	require.NoError(t, err)
	require.Equal(t, "Short transcript. Two sentences.", got)

	got, err = s.SummarizeVideo(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	require.Equal(t, "the talk covers caching.", got)

	// Stop before any transport was started is a no-op.
	require.NoError(t, s.Stop())
}

func TestServerHTTPHandler(t *testing.T) {
	s, err := NewServer(ServerOptions{Config: basicConfig(), Logger: quietLogger()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/summarize_transcript", strings.NewReader(`{"transcript":"Hello world."}`))
	w := httptest.NewRecorder()
	s.HTTPServer().Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Hello world.", resp["summary"])
}

func TestNewServerRejectsInvalidConfig(t *testing.T) {
	cfg := basicConfig()
	cfg.Summarizer.MinLength = 500

	_, err := NewServer(ServerOptions{Config: cfg, Logger: quietLogger()})
	require.Error(t, err)
	require.Equal(t, errortypes.ErrorTypeConfig, errortypes.TypeOf(err))
}

func TestCreateSummarizerPicksModel(t *testing.T) {
	cfg := DefaultConfig()

	sum, err := CreateSummarizer(cfg, nil, quietLogger())
	require.NoError(t, err)
	require.Equal(t, "huggingface", sum.Name())

	// An OpenAI-compatible endpoint cannot be built without a base URL.
	cfg.Summarizer.Provider = "compatible"
	cfg.Summarizer.BaseURL = ""
	_, err = CreateSummarizer(cfg, nil, quietLogger())
	require.Error(t, err)
	require.ErrorIs(t, err, summarizer.ErrConfigError)
}

func TestSaveConfig(t *testing.T) {
	content, err := SaveConfig(DefaultConfig())
	require.NoError(t, err)

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(content, &decoded))
	require.Equal(t, "huggingface", decoded["summarizer"]["provider"])
	require.Equal(t, float64(1024), decoded["chunker"]["max_words"])
}
