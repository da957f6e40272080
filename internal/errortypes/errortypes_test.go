package errortypes

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	base := errors.New("connection reset")
	err := TranscriptError(base, "failed to fetch transcript")

	if got, want := err.Error(), "failed to fetch transcript: connection reset"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, base) {
		t.Errorf("errors.Is should find the wrapped error")
	}
	if err.StackInfo == "" {
		t.Errorf("expected a captured stack")
	}
}

func TestNilCauseUsesMessage(t *testing.T) {
	err := ValidationError(nil, "Transcript not provided")
	if err.Err == nil || err.Err.Error() != "Transcript not provided" {
		t.Fatalf("expected cause built from message, got %v", err.Err)
	}
	if got := err.Error(); got != "Transcript not provided" {
		t.Errorf("Error() = %q, message should not repeat", got)
	}
}

func TestTypeHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType ErrorType
	}{
		{"validation", ValidationError(nil, "bad"), ErrorTypeValidation},
		{"transcript", TranscriptError(errors.New("x"), "fetch"), ErrorTypeTranscript},
		{"summarization", SummarizationError(errors.New("x"), "model"), ErrorTypeSummarization},
		{"wrapped", fmt.Errorf("outer: %w", ConfigError(errors.New("x"), "cfg")), ErrorTypeConfig},
		{"plain", errors.New("plain"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeOf(tt.err); got != tt.wantType {
				t.Errorf("TypeOf() = %q, want %q", got, tt.wantType)
			}
		})
	}

	if !IsValidationError(ValidationError(nil, "bad")) {
		t.Errorf("IsValidationError should be true")
	}
	if !IsTranscriptError(TranscriptError(nil, "fetch")) {
		t.Errorf("IsTranscriptError should be true")
	}
	if !IsSummarizationError(SummarizationError(nil, "model")) {
		t.Errorf("IsSummarizationError should be true")
	}
	if IsSummarizationError(errors.New("plain")) {
		t.Errorf("plain errors have no type")
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	err := SummarizationError(errors.New("model overloaded"), "failed to summarize chunk").
		WithField("chunk_index", 2)
	LogError(logger, err)

	out := buf.String()
	for _, want := range []string{"failed to summarize chunk", "type=summarization", "chunk_index=2", "model overloaded"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}

	buf.Reset()
	LogError(logger, errors.New("plain failure"))
	if !strings.Contains(buf.String(), "plain failure") {
		t.Errorf("plain error not logged: %s", buf.String())
	}
}
