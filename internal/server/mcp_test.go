package server

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/localrivet/ytsummary/internal/summarizer/providers"
	"github.com/localrivet/ytsummary/internal/tools"
	"github.com/localrivet/ytsummary/internal/transcript"
)

func TestMCPToolServerInitialize(t *testing.T) {
	require.Error(t, NewMCPToolServer(nil, quietLogger()).Initialize())

	s := NewMCPToolServer(newTestPipeline(providers.NewCapturingProvider("model", nil), nil), quietLogger())
	require.ErrorIs(t, s.Start(), ErrServerNotInitialized)
	require.NoError(t, s.Initialize())
	require.NotNil(t, s.mcpServer)
	require.NoError(t, s.Stop())
}

func TestMCPSummarizeTranscript(t *testing.T) {
	provider := providers.NewCapturingProvider("model", func(text string, _ providers.Options) (string, error) {
		return strings.ToUpper(text), nil
	})
	s := NewMCPToolServer(newTestPipeline(provider, nil), quietLogger())

	resp, err := s.handleSummarizeTranscript(nil, tools.SummarizeTranscriptRequest{Transcript: "one. two."})
	require.NoError(t, err)
	require.Equal(t, tools.ToolResponse{Status: tools.StatusSuccess, Summary: "ONE. TWO."}, resp)

	resp, err = s.handleSummarizeTranscript(nil, tools.SummarizeTranscriptRequest{Transcript: " "})
	require.NoError(t, err)
	require.Equal(t, tools.ToolResponse{Status: tools.StatusError, Error: tools.MsgNoTranscript}, resp)
}

func TestMCPSummarizeTranscriptModelFailure(t *testing.T) {
	provider := providers.NewTestProvider("model", "", errors.New("quota exceeded"))
	s := NewMCPToolServer(newTestPipeline(provider, nil), quietLogger())

	resp, err := s.handleSummarizeTranscript(nil, tools.SummarizeTranscriptRequest{Transcript: "text."})
	require.NoError(t, err)
	require.Equal(t, tools.StatusError, resp.Status)
	require.Contains(t, resp.Error, "quota exceeded")
	require.Empty(t, resp.Summary)
}

func TestMCPSummarizeYouTube(t *testing.T) {
	fetcher := &stubFetcher{transcript: &transcript.Transcript{
		VideoID:  "dQw4w9WgXcQ",
		Segments: []transcript.Segment{{Text: "caption text"}},
	}}
	s := NewMCPToolServer(newTestPipeline(providers.NewCapturingProvider("model", nil), fetcher), quietLogger())

	resp, err := s.handleSummarizeYouTube(nil, tools.SummarizeYouTubeRequest{VideoID: "dQw4w9WgXcQ"})
	require.NoError(t, err)
	require.Equal(t, tools.StatusSuccess, resp.Status)
	require.Equal(t, "caption text.", resp.Summary)

	resp, err = s.handleSummarizeYouTube(nil, tools.SummarizeYouTubeRequest{})
	require.NoError(t, err)
	require.Equal(t, tools.MsgNoVideoID, resp.Error)
	require.Len(t, fetcher.calls, 1)
}

func TestMCPSummarizeYouTubeFetchFailure(t *testing.T) {
	fetchErr := &transcript.FetchError{Kind: transcript.KindVideoUnavailable, VideoID: "dQw4w9WgXcQ"}
	s := NewMCPToolServer(newTestPipeline(providers.NewCapturingProvider("model", nil), &stubFetcher{err: fetchErr}), quietLogger())

	resp, err := s.handleSummarizeYouTube(nil, tools.SummarizeYouTubeRequest{VideoID: "dQw4w9WgXcQ"})
	require.NoError(t, err)
	require.Equal(t, tools.ToolResponse{Status: tools.StatusError, Error: fetchErr.Error()}, resp)
}
