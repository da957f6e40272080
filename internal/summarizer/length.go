package summarizer

import "github.com/localrivet/ytsummary/internal/chunker"

// AdjustMaxLength caps the summary length of chunk at its own word count so
// short chunks are not padded out by the model. A non-positive defaultMax
// selects DefaultMaxSummaryLength.
func AdjustMaxLength(chunk string, defaultMax int) int {
	if defaultMax <= 0 {
		defaultMax = DefaultMaxSummaryLength
	}
	return min(chunker.WordCount(chunk), defaultMax)
}
