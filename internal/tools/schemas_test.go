package tools

import (
	"encoding/json"
	"testing"
)

func TestSummarizeYouTubeRequestFieldName(t *testing.T) {
	var req SummarizeYouTubeRequest
	if err := json.Unmarshal([]byte(`{"video_id":"dQw4w9WgXcQ"}`), &req); err != nil {
		t.Fatalf("Failed to unmarshal SummarizeYouTubeRequest: %v", err)
	}
	if req.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("Expected VideoID='dQw4w9WgXcQ', got '%s'", req.VideoID)
	}
}

func TestSummarizeTranscriptRequestFieldName(t *testing.T) {
	var req SummarizeTranscriptRequest
	if err := json.Unmarshal([]byte(`{"transcript":"Some text. More text."}`), &req); err != nil {
		t.Fatalf("Failed to unmarshal SummarizeTranscriptRequest: %v", err)
	}
	if req.Transcript != "Some text. More text." {
		t.Errorf("Expected Transcript to be decoded, got '%s'", req.Transcript)
	}
}

func TestSummaryResponseShape(t *testing.T) {
	data, err := json.Marshal(SummaryResponse{Summary: "short"})
	if err != nil {
		t.Fatalf("Failed to marshal SummaryResponse: %v", err)
	}
	if string(data) != `{"summary":"short"}` {
		t.Errorf("Unexpected JSON: %s", data)
	}
}

func TestToolResponseOmitsEmptyFields(t *testing.T) {
	tests := []struct {
		name string
		resp ToolResponse
		want string
	}{
		{
			name: "success",
			resp: ToolResponse{Status: StatusSuccess, Summary: "s"},
			want: `{"status":"success","summary":"s"}`,
		},
		{
			name: "error",
			resp: ToolResponse{Status: StatusError, Error: "boom"},
			want: `{"status":"error","error":"boom"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.resp)
			if err != nil {
				t.Fatalf("Failed to marshal ToolResponse: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("got %s, want %s", data, tt.want)
			}
		})
	}
}
