package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// MockResponseConfig holds configuration for mock API responses
type MockResponseConfig struct {
	StatusCode   int
	ResponseBody interface{}
	Headers      map[string]string
}

// MockServer creates a test server that returns the configured response.
// The most recent request body is recorded in *captured when it is non-nil.
func MockServer(t *testing.T, config MockResponseConfig, captured *[]byte) *httptest.Server {
	t.Helper()

	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			*captured = body
			mu.Unlock()
		}

		for k, v := range config.Headers {
			w.Header().Set(k, v)
		}
		if _, exists := config.Headers["Content-Type"]; !exists {
			w.Header().Set("Content-Type", "application/json")
		}

		w.WriteHeader(config.StatusCode)

		if config.ResponseBody == nil {
			return
		}

		var respBytes []byte
		switch body := config.ResponseBody.(type) {
		case string:
			respBytes = []byte(body)
		case []byte:
			respBytes = body
		default:
			var err error
			respBytes, err = json.Marshal(body)
			if err != nil {
				t.Errorf("Failed to marshal mock response: %v", err)
				return
			}
		}

		if _, err := w.Write(respBytes); err != nil {
			t.Errorf("Failed to write response body: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

// TestProvider is a simple implementation of LLMProvider for testing
type TestProvider struct {
	name         string
	returnError  error
	returnString string
}

// NewTestProvider creates a new TestProvider
func NewTestProvider(name string, returnString string, returnError error) *TestProvider {
	return &TestProvider{
		name:         name,
		returnString: returnString,
		returnError:  returnError,
	}
}

// Name returns the provider name
func (p *TestProvider) Name() string {
	return p.name
}

// Summarize returns the configured string or error
func (p *TestProvider) Summarize(_ context.Context, _ string, _ Options) (string, error) {
	return p.returnString, p.returnError
}

// Call is one recorded Summarize invocation.
type Call struct {
	Text    string
	Options Options
}

// CapturingProvider records every call and answers from a function.
type CapturingProvider struct {
	name    string
	respond func(text string, opts Options) (string, error)

	mu    sync.Mutex
	calls []Call
}

// NewCapturingProvider creates a new CapturingProvider. A nil respond
// returns the input text unchanged.
func NewCapturingProvider(name string, respond func(text string, opts Options) (string, error)) *CapturingProvider {
	if respond == nil {
		respond = func(text string, _ Options) (string, error) { return text, nil }
	}
	return &CapturingProvider{
		name:    name,
		respond: respond,
	}
}

// Name returns the provider name
func (p *CapturingProvider) Name() string {
	return p.name
}

// Summarize records the call and returns the configured response
func (p *CapturingProvider) Summarize(_ context.Context, text string, opts Options) (string, error) {
	p.mu.Lock()
	p.calls = append(p.calls, Call{Text: text, Options: opts})
	p.mu.Unlock()

	return p.respond(text, opts)
}

// Calls returns a copy of the recorded calls, in order.
func (p *CapturingProvider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Call, len(p.calls))
	copy(out, p.calls)
	return out
}
