// Package chunker splits transcript text into word-bounded chunks along
// sentence boundaries so each chunk fits the summarization model's input.
package chunker

import "strings"

const (
	// DefaultMaxWords is the default word budget for a single chunk.
	DefaultMaxWords = 1024

	// sentenceDelimiter separates sentences. Abbreviations, decimals and
	// ellipses are not special-cased.
	sentenceDelimiter = ". "
)

// WordCount returns the number of whitespace-separated tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Split partitions text into ordered chunks of at most maxWords words,
// breaking only between sentences. Sentences are accumulated greedily; the
// sentence that would overflow the budget starts the next chunk. A sentence
// that alone exceeds maxWords becomes its own oversized chunk.
//
// Every chunk ends with a period. A non-positive maxWords selects
// DefaultMaxWords. Blank input yields no chunks.
func Split(text string, maxWords int) []string {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var (
		chunks  []string
		current []string
		length  int
	)

	for _, sentence := range strings.Split(text, sentenceDelimiter) {
		n := WordCount(sentence)
		if length+n <= maxWords {
			current = append(current, sentence)
			length += n
			continue
		}

		// Nothing accumulated yet means the sentence is oversized on its
		// own; it must not leave an empty chunk behind.
		if len(current) > 0 {
			chunks = append(chunks, closeChunk(current))
		}
		current = []string{sentence}
		length = n
	}

	if len(current) > 0 {
		chunks = append(chunks, closeChunk(current))
	}

	return chunks
}

// closeChunk re-joins sentences and terminates the chunk with a period,
// unless the last sentence already carries one.
func closeChunk(sentences []string) string {
	chunk := strings.Join(sentences, sentenceDelimiter)
	if strings.HasSuffix(chunk, ".") {
		return chunk
	}
	return chunk + "."
}
