package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	googleAPIURL       = "https://generativelanguage.googleapis.com/v1beta/models"
	googleDefaultModel = "gemini-2.0-flash"
)

// GoogleProvider implements the LLMProvider interface for Google's Gemini models
type GoogleProvider struct {
	Config
	httpClient *http.Client
}

// GooglePart is a single text part of a Gemini message.
type GooglePart struct {
	Text string `json:"text"`
}

// GoogleContent represents content in Google's Gemini API format
type GoogleContent struct {
	Parts []GooglePart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

// GoogleRequest represents a request to Google's Gemini API
type GoogleRequest struct {
	SystemInstruction *GoogleContent  `json:"systemInstruction,omitempty"`
	Contents          []GoogleContent `json:"contents"`
	GenerationConfig  struct {
		MaxOutputTokens int     `json:"maxOutputTokens"`
		Temperature     float64 `json:"temperature"`
	} `json:"generationConfig"`
}

// GoogleResponse represents a response from Google's Gemini API
type GoogleResponse struct {
	Candidates []struct {
		Content GoogleContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// NewGoogleProvider creates a new instance of the Google provider
func NewGoogleProvider(config Config) *GoogleProvider {
	return &GoogleProvider{
		Config: config,
		httpClient: &http.Client{
			Timeout: config.timeout(),
		},
	}
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return ProviderGoogle
}

// Summarize implements the LLMProvider interface for Google
func (p *GoogleProvider) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	if p.APIKey == "" {
		return "", fmt.Errorf("Google API key not provided")
	}

	reqBody := GoogleRequest{
		SystemInstruction: &GoogleContent{Parts: []GooglePart{{Text: systemPrompt}}},
		Contents: []GoogleContent{
			{Role: "user", Parts: []GooglePart{{Text: instructionPrompt(text, opts)}}},
		},
	}
	reqBody.GenerationConfig.MaxOutputTokens = maxTokens(opts.MaxLength)
	if opts.DoSample {
		reqBody.GenerationConfig.Temperature = 0.7
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s",
		p.baseURL(googleAPIURL), p.model(googleDefaultModel), url.QueryEscape(p.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(reqJSON))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		// The request URL carries the key; keep it out of the message.
		return "", fmt.Errorf("error sending request to Google API: %w", unwrapURLError(err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	var googleResponse GoogleResponse
	if err := json.Unmarshal(respBody, &googleResponse); err != nil {
		return "", fmt.Errorf("error unmarshaling response (status %d): %w", resp.StatusCode, err)
	}

	if googleResponse.Error != nil {
		return "", fmt.Errorf("Google API error: %s: %s",
			googleResponse.Error.Status, googleResponse.Error.Message)
	}

	if len(googleResponse.Candidates) == 0 ||
		len(googleResponse.Candidates[0].Content.Parts) == 0 ||
		googleResponse.Candidates[0].Content.Parts[0].Text == "" {
		return "", fmt.Errorf("empty response from Google API")
	}

	return finish(googleResponse.Candidates[0].Content.Parts[0].Text, opts), nil
}

func unwrapURLError(err error) error {
	if urlErr, ok := err.(*url.Error); ok {
		return urlErr.Err
	}
	return err
}
