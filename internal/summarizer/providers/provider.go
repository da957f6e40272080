// Package providers contains the summarization model backends the
// summarizer can delegate to.
package providers

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	// Provider constants
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
	ProviderGoogle      = "google"
	ProviderXAI         = "xai"
	ProviderCompatible  = "compatible"

	// DefaultTimeout bounds a single model call. Hosted seq2seq models can
	// take a while to load on first use.
	DefaultTimeout = 120 * time.Second
)

// Options are the per-call generation parameters.
type Options struct {
	// MaxLength is the upper bound on the summary length, in words.
	MaxLength int
	// MinLength is the lower bound on the summary length, in words.
	MinLength int
	// DoSample enables stochastic decoding. When false decoding is greedy.
	DoSample bool
	// CleanUpTokenizationSpaces removes the spaces tokenizers leave before
	// punctuation and contractions.
	CleanUpTokenizationSpaces bool
}

// LLMProvider is a summarization model backend.
type LLMProvider interface {
	// Summarize returns an abstractive summary of text.
	Summarize(ctx context.Context, text string, opts Options) (string, error)

	// Name returns the provider name
	Name() string
}

// Config holds common configuration for providers
type Config struct {
	APIKey  string
	ModelID string
	// BaseURL overrides the provider's default endpoint.
	BaseURL string
	Timeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

func (c Config) baseURL(def string) string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return def
}

func (c Config) model(def string) string {
	if c.ModelID != "" {
		return c.ModelID
	}
	return def
}

const systemPrompt = "You are a summarization model. Reply with the summary only, " +
	"as plain prose, without headings, lists or preamble."

// instructionPrompt asks a chat model for a summary within the word bounds
// of opts.
func instructionPrompt(text string, opts Options) string {
	minLen := opts.MinLength
	if minLen > opts.MaxLength {
		minLen = opts.MaxLength
	}
	return fmt.Sprintf(
		"Summarize the following transcript excerpt, keeping the most important points. "+
			"The summary should be between %d and %d words long:\n\n%s",
		minLen, opts.MaxLength, text)
}

// maxTokens converts a word budget to a completion token budget.
func maxTokens(words int) int {
	if words <= 0 {
		words = 1
	}
	return words*2 + 16
}

var tokenizationSpaces = strings.NewReplacer(
	" .", ".",
	" ?", "?",
	" !", "!",
	" ,", ",",
	" ' ", "'",
	" n't", "n't",
	" 'm", "'m",
	" 's", "'s",
	" 've", "'ve",
	" 're", "'re",
)

// CleanUpSpaces removes tokenization artifacts such as a space before
// punctuation or contractions, and trims the result.
func CleanUpSpaces(text string) string {
	return strings.TrimSpace(tokenizationSpaces.Replace(text))
}

// finish applies the post-processing requested in opts to raw model output.
func finish(raw string, opts Options) string {
	if opts.CleanUpTokenizationSpaces {
		return CleanUpSpaces(raw)
	}
	return strings.TrimSpace(raw)
}
