// Package tools defines the request and response shapes shared by the
// HTTP endpoints and the MCP tools.
package tools

const (
	// ToolSummarizeYouTube is the name of the summarize_youtube MCP tool
	ToolSummarizeYouTube = "summarize_youtube"

	// ToolSummarizeTranscript is the name of the summarize_transcript MCP tool
	ToolSummarizeTranscript = "summarize_transcript"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Static validation messages returned when a required field is missing.
const (
	MsgNoVideoID       = "No video ID provided"
	MsgNoTranscript    = "Transcript not provided"
	MsgInvalidJSONBody = "Invalid JSON body"
)

// SummarizeYouTubeRequest is the body of POST /summarize_youtube and the
// input of the summarize_youtube tool.
type SummarizeYouTubeRequest struct {
	// VideoID is an 11 character YouTube ID or a YouTube URL.
	VideoID string `json:"video_id"`
}

// SummarizeTranscriptRequest is the body of POST /summarize_transcript and
// the input of the summarize_transcript tool.
type SummarizeTranscriptRequest struct {
	Transcript string `json:"transcript"`
}

// SummaryResponse is the HTTP success body.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// ToolResponse is the output of both MCP tools.
type ToolResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	Summary string `json:"summary,omitempty"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}
