// Package summarizer provides interfaces and implementations for
// summarizing transcript chunks.
package summarizer

import (
	"context"

	"github.com/localrivet/ytsummary/internal/summarizer/providers"
)

const (
	// DefaultMaxSummaryLength is the upper bound, in words, of a chunk
	// summary.
	DefaultMaxSummaryLength = 150

	// DefaultMinSummaryLength is the fixed lower bound, in words, of a chunk
	// summary.
	DefaultMinSummaryLength = 50
)

// Options are the generation parameters of one summarization call.
type Options = providers.Options

// ChunkOptions returns the parameters used for every transcript chunk:
// greedy decoding with tokenization spaces cleaned up.
func ChunkOptions(maxLength, minLength int) Options {
	return Options{
		MaxLength:                 maxLength,
		MinLength:                 minLength,
		DoSample:                  false,
		CleanUpTokenizationSpaces: true,
	}
}

// Summarizer defines the interface for summarizing text content.
type Summarizer interface {
	// Summarize returns a condensed summary of text.
	Summarize(ctx context.Context, text string, opts Options) (string, error)

	// Initialize sets up the summarizer with any required configuration.
	Initialize() error

	// Name identifies the backing model or provider.
	Name() string
}
