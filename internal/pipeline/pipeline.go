// Package pipeline turns a transcript into a summary: chunk the text,
// summarize each chunk in order, and join the chunk summaries.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/localrivet/ytsummary/internal/chunker"
	"github.com/localrivet/ytsummary/internal/errortypes"
	"github.com/localrivet/ytsummary/internal/summarizer"
	"github.com/localrivet/ytsummary/internal/telemetry"
	"github.com/localrivet/ytsummary/internal/transcript"
	"github.com/localrivet/ytsummary/internal/util"
)

// Config holds the chunking and summary length settings.
type Config struct {
	// MaxChunkWords is the word budget of one chunk.
	MaxChunkWords int
	// MaxSummaryLength caps each chunk summary, in words.
	MaxSummaryLength int
	// MinSummaryLength is passed unchanged to every summarizer call.
	MinSummaryLength int
}

// DefaultConfig returns the standard settings.
func DefaultConfig() Config {
	return Config{
		MaxChunkWords:    chunker.DefaultMaxWords,
		MaxSummaryLength: summarizer.DefaultMaxSummaryLength,
		MinSummaryLength: summarizer.DefaultMinSummaryLength,
	}
}

// Pipeline summarizes transcripts. It holds no per-request state and is
// safe for concurrent use when its summarizer and fetcher are.
type Pipeline struct {
	summarizer summarizer.Summarizer
	fetcher    transcript.Fetcher
	config     Config
	metrics    *telemetry.MetricsCollector
	logger     *slog.Logger
}

// New creates a Pipeline. Zero config values take their defaults; a nil
// metrics collector or logger gets a private collector or slog.Default.
func New(s summarizer.Summarizer, f transcript.Fetcher, cfg Config, metrics *telemetry.MetricsCollector, logger *slog.Logger) *Pipeline {
	def := DefaultConfig()
	if cfg.MaxChunkWords <= 0 {
		cfg.MaxChunkWords = def.MaxChunkWords
	}
	if cfg.MaxSummaryLength <= 0 {
		cfg.MaxSummaryLength = def.MaxSummaryLength
	}
	if cfg.MinSummaryLength <= 0 {
		cfg.MinSummaryLength = def.MinSummaryLength
	}
	if metrics == nil {
		metrics = telemetry.NewMetricsCollector()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		summarizer: s,
		fetcher:    f,
		config:     cfg,
		metrics:    metrics,
		logger:     logger,
	}
}

// SummarizeVideo fetches the transcript of videoID and summarizes it. A
// fetch failure is returned with its *transcript.FetchError intact.
func (p *Pipeline) SummarizeVideo(ctx context.Context, videoID string) (string, error) {
	start := time.Now()
	p.metrics.IncrementCounter(telemetry.MetricTranscriptFetches, 1)

	t, err := p.fetcher.Fetch(ctx, videoID)
	p.metrics.RecordTimer(telemetry.MetricTranscriptTime, time.Since(start))
	if err != nil {
		p.metrics.IncrementCounter(telemetry.MetricTranscriptFailures, 1)
		appErr := errortypes.TranscriptError(err, "failed to fetch transcript").
			WithField("video_id", videoID)
		if kind, ok := transcript.KindOf(err); ok {
			appErr.WithField("kind", kind.String())
		}
		return "", appErr
	}
	p.metrics.RecordTimestamp(telemetry.MetricTranscriptLastOK)

	p.logger.Info("transcript fetched",
		"video_id", t.VideoID,
		"language", t.Language,
		"generated", t.Generated,
		"segments", len(t.Segments))

	return p.SummarizeText(ctx, t.Text())
}

// SummarizeText splits text into chunks and summarizes them sequentially,
// in order. The result is the chunk summaries joined by single spaces.
// Blank text yields an empty summary.
func (p *Pipeline) SummarizeText(ctx context.Context, text string) (string, error) {
	start := time.Now()
	defer func() {
		p.metrics.RecordTimer(telemetry.MetricPipelineTime, time.Since(start))
	}()
	p.metrics.IncrementCounter(telemetry.MetricPipelineRequests, 1)

	chunks := chunker.Split(text, p.config.MaxChunkWords)
	p.metrics.IncrementCounter(telemetry.MetricChunksProduced, int64(len(chunks)))

	fingerprint := util.Fingerprint(text)
	p.logger.Debug("transcript chunked",
		"fingerprint", fingerprint,
		"words", chunker.WordCount(text),
		"chunks", len(chunks))

	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return "", errortypes.SummarizationError(err, "summarization cancelled").
				WithField("chunk_index", i)
		}

		maxLen := summarizer.AdjustMaxLength(chunk, p.config.MaxSummaryLength)
		opts := summarizer.ChunkOptions(maxLen, p.config.MinSummaryLength)

		summary, err := p.summarizer.Summarize(ctx, chunk, opts)
		if err != nil {
			return "", errortypes.SummarizationError(err, "failed to summarize transcript").
				WithField("chunk_index", i).
				WithField("chunks", len(chunks)).
				WithField("fingerprint", fingerprint)
		}
		summaries = append(summaries, summary)
	}

	p.logger.Info("transcript summarized",
		"fingerprint", fingerprint,
		"chunks", len(chunks),
		"provider", p.summarizer.Name(),
		"duration", time.Since(start))

	return strings.Join(summaries, " "), nil
}

// Summarizer returns the summarizer the pipeline delegates to.
func (p *Pipeline) Summarizer() summarizer.Summarizer {
	return p.summarizer
}

// Metrics returns the pipeline's metrics collector.
func (p *Pipeline) Metrics() *telemetry.MetricsCollector {
	return p.metrics
}
