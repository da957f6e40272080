// Package transcript fetches timed caption transcripts for YouTube videos.
package transcript

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

var thousand = decimal.NewFromInt(1000)

// Segment is one timed caption line. Start and Duration are in seconds.
type Segment struct {
	Text     string
	Start    decimal.Decimal
	Duration decimal.Decimal
}

// StartMs returns the segment start in milliseconds.
func (s Segment) StartMs() int64 {
	return s.Start.Mul(thousand).IntPart()
}

// EndMs returns the segment end in milliseconds.
func (s Segment) EndMs() int64 {
	return s.Start.Add(s.Duration).Mul(thousand).IntPart()
}

// Transcript is the ordered caption track of a video.
type Transcript struct {
	VideoID  string
	Language string
	// Generated is true for automatic speech recognition tracks.
	Generated bool
	Segments  []Segment
}

// Text joins the segment texts with single spaces, skipping empty ones.
func (t *Transcript) Text() string {
	parts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Fetcher retrieves the transcript of a video. Failures are returned as
// *FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) (*Transcript, error)
}
