package summarizer

import (
	"context"
	"strings"

	"github.com/localrivet/ytsummary/internal/chunker"
)

// BasicName is the provider name of BasicSummarizer.
const BasicName = "basic"

// BasicSummarizer is an offline, extractive implementation of the
// Summarizer interface. It keeps leading sentences until the word budget is
// spent. It needs no model and is meant for development.
type BasicSummarizer struct{}

// NewBasicSummarizer creates a new BasicSummarizer instance.
func NewBasicSummarizer() *BasicSummarizer {
	return &BasicSummarizer{}
}

// Initialize sets up the summarizer with any required configuration.
func (s *BasicSummarizer) Initialize() error {
	return nil
}

// Name returns BasicName.
func (s *BasicSummarizer) Name() string {
	return BasicName
}

// Summarize returns the leading sentences of text that fit in
// opts.MaxLength words. When even the first sentence is too long it is cut
// at a word boundary and ends with an ellipsis.
func (s *BasicSummarizer) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	maxWords := opts.MaxLength
	if maxWords <= 0 {
		maxWords = DefaultMaxSummaryLength
	}

	text = strings.TrimSpace(text)
	if chunker.WordCount(text) <= maxWords {
		return text, nil
	}

	var (
		kept  []string
		count int
	)
	for _, sentence := range splitSentences(text) {
		n := chunker.WordCount(sentence)
		if count+n > maxWords {
			break
		}
		kept = append(kept, sentence)
		count += n
	}

	if len(kept) > 0 {
		return strings.Join(kept, " "), nil
	}

	words := strings.Fields(text)
	return strings.Join(words[:maxWords], " ") + "...", nil
}

// splitSentences breaks text after '.', '?' or '!' when followed by
// whitespace, keeping the terminator with its sentence.
func splitSentences(text string) []string {
	var (
		sentences []string
		start     int
	)
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '?', '!':
			if i+1 == len(text) || text[i+1] == ' ' || text[i+1] == '\n' || text[i+1] == '\t' {
				if s := strings.TrimSpace(text[start : i+1]); s != "" {
					sentences = append(sentences, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
