package transcript

import (
	"errors"
	"fmt"
)

// ErrorKind classifies transcript fetch failures.
type ErrorKind int

const (
	// KindRequestFailed covers network errors, non-success HTTP statuses and
	// rate limiting.
	KindRequestFailed ErrorKind = iota
	KindInvalidVideoID
	KindVideoUnavailable
	KindTranscriptsDisabled
	KindNoTranscriptFound
	KindMalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidVideoID:
		return "invalid_video_id"
	case KindVideoUnavailable:
		return "video_unavailable"
	case KindTranscriptsDisabled:
		return "transcripts_disabled"
	case KindNoTranscriptFound:
		return "no_transcript_found"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "request_failed"
	}
}

// FetchError is returned by Fetcher implementations. Its message is meant
// to be shown to the client as is.
type FetchError struct {
	Kind    ErrorKind
	VideoID string
	// Detail adds context to the kind's reason, such as the playability
	// reason reported by YouTube.
	Detail string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Could not retrieve a transcript for the video %s! %s", WatchURL(e.VideoID), e.reason())
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) reason() string {
	var reason string
	switch e.Kind {
	case KindInvalidVideoID:
		reason = "The provided video ID is not valid."
	case KindVideoUnavailable:
		reason = "The video is no longer available."
	case KindTranscriptsDisabled:
		reason = "Subtitles are disabled for this video."
	case KindNoTranscriptFound:
		reason = "No transcript was found for this video."
	case KindMalformedResponse:
		reason = "YouTube returned a response that could not be parsed."
	default:
		reason = "The request to YouTube failed."
	}

	switch {
	case e.Detail != "":
		return reason + " " + e.Detail
	case e.Kind == KindRequestFailed && e.Err != nil:
		return reason + " " + e.Err.Error()
	}
	return reason
}

// WatchURL returns the canonical watch page URL of a video.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

func newFetchError(kind ErrorKind, videoID string, err error) *FetchError {
	return &FetchError{Kind: kind, VideoID: videoID, Err: err}
}

// KindOf returns the kind of the *FetchError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}
