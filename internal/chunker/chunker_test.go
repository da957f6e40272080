package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestWordCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "whitespace only", text: " \t\n ", want: 0},
		{name: "single word", text: "hello", want: 1},
		{name: "mixed whitespace", text: "one  two\tthree\nfour", want: 4},
		{name: "punctuation sticks to words", text: "A. B. C.", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, WordCount(tt.text))
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWords int
		want     []string
	}{
		{
			name:     "short text stays whole",
			text:     "A. B. C.",
			maxWords: 1024,
			want:     []string{"A. B. C."},
		},
		{
			name:     "missing trailing period is added",
			text:     "First sentence. Second sentence",
			maxWords: 1024,
			want:     []string{"First sentence. Second sentence."},
		},
		{
			name:     "splits when budget is exceeded",
			text:     "one two. three four. five six",
			maxWords: 4,
			want:     []string{"one two. three four.", "five six."},
		},
		{
			name:     "budget reached exactly",
			text:     "one two. three four",
			maxWords: 4,
			want:     []string{"one two. three four."},
		},
		{
			name:     "oversized first sentence is its own chunk",
			text:     "one two three four five. six",
			maxWords: 3,
			want:     []string{"one two three four five.", "six."},
		},
		{
			name:     "oversized sentence in the middle",
			text:     "a. b c d e f. g",
			maxWords: 2,
			want:     []string{"a.", "b c d e f.", "g."},
		},
		{
			name:     "non-positive budget uses default",
			text:     "A short one. Another",
			maxWords: 0,
			want:     []string{"A short one. Another."},
		},
		{
			name:     "blank input",
			text:     "   ",
			maxWords: 10,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Split(tt.text, tt.maxWords))
		})
	}
}

func TestSplitWithoutDelimiterProducesOneOversizedChunk(t *testing.T) {
	words := make([]string, 2000)
	for i := range words {
		words[i] = "word"
	}
	text := strings.Join(words, " ")

	chunks := Split(text, DefaultMaxWords)

	require.Len(t, chunks, 1)
	require.Equal(t, 2000, WordCount(chunks[0]))
	require.Equal(t, text+".", chunks[0])
}

// sentenceGen draws a sentence of lowercase words with no periods.
func sentenceGen() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		words := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,8}`), 1, 12).Draw(t, "words")
		return strings.Join(words, " ")
	})
}

// TestSplitIsLossless verifies that re-joining every chunk reproduces the
// original sentences in their original order.
func TestSplitIsLossless(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sentences := rapid.SliceOfN(sentenceGen(), 1, 40).Draw(t, "sentences")
		maxWords := rapid.IntRange(1, 60).Draw(t, "maxWords")

		chunks := Split(strings.Join(sentences, ". "), maxWords)

		var got []string
		for _, chunk := range chunks {
			if !strings.HasSuffix(chunk, ".") {
				t.Fatalf("chunk %q does not end with a period", chunk)
			}
			got = append(got, strings.Split(strings.TrimSuffix(chunk, "."), ". ")...)
		}

		if strings.Join(got, "|") != strings.Join(sentences, "|") {
			t.Fatalf("sentences changed: got %q, want %q", got, sentences)
		}
	})
}

// TestSplitRespectsBudget verifies that every chunk fits the budget unless
// it holds a single sentence that is oversized on its own.
func TestSplitRespectsBudget(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sentences := rapid.SliceOfN(sentenceGen(), 1, 40).Draw(t, "sentences")
		maxWords := rapid.IntRange(1, 60).Draw(t, "maxWords")

		for _, chunk := range Split(strings.Join(sentences, ". "), maxWords) {
			if WordCount(chunk) <= maxWords {
				continue
			}
			parts := strings.Split(strings.TrimSuffix(chunk, "."), ". ")
			if len(parts) != 1 {
				t.Fatalf("chunk %q has %d words over budget %d across %d sentences",
					chunk, WordCount(chunk), maxWords, len(parts))
			}
		}
	})
}
