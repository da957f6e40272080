package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	huggingFaceAPIURL       = "https://api-inference.huggingface.co/models"
	huggingFaceDefaultModel = "facebook/bart-large-cnn"
)

// HuggingFaceProvider calls a summarization pipeline on the Hugging Face
// Inference API. Generation parameters map one to one onto the pipeline's.
type HuggingFaceProvider struct {
	Config
	httpClient *http.Client
}

// HuggingFaceParameters are the summarization pipeline parameters.
type HuggingFaceParameters struct {
	MaxLength                 int  `json:"max_length"`
	MinLength                 int  `json:"min_length"`
	DoSample                  bool `json:"do_sample"`
	CleanUpTokenizationSpaces bool `json:"clean_up_tokenization_spaces"`
}

// HuggingFaceRequest represents a request to the Inference API
type HuggingFaceRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters HuggingFaceParameters `json:"parameters"`
	Options    struct {
		WaitForModel bool `json:"wait_for_model"`
	} `json:"options"`
}

// HuggingFaceSummary is one element of a successful response.
type HuggingFaceSummary struct {
	SummaryText string `json:"summary_text"`
}

// HuggingFaceError is the body of a failed response.
type HuggingFaceError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

// NewHuggingFaceProvider creates a new instance of the Hugging Face provider
func NewHuggingFaceProvider(config Config) *HuggingFaceProvider {
	return &HuggingFaceProvider{
		Config: config,
		httpClient: &http.Client{
			Timeout: config.timeout(),
		},
	}
}

// Name returns the provider name
func (p *HuggingFaceProvider) Name() string {
	return ProviderHuggingFace
}

// Summarize implements the LLMProvider interface for Hugging Face
func (p *HuggingFaceProvider) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	minLen := opts.MinLength
	if minLen > opts.MaxLength {
		minLen = opts.MaxLength
	}

	reqBody := HuggingFaceRequest{
		Inputs: text,
		Parameters: HuggingFaceParameters{
			MaxLength:                 opts.MaxLength,
			MinLength:                 minLen,
			DoSample:                  opts.DoSample,
			CleanUpTokenizationSpaces: opts.CleanUpTokenizationSpaces,
		},
	}
	reqBody.Options.WaitForModel = true

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s", p.baseURL(huggingFaceAPIURL), p.model(huggingFaceDefaultModel))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(reqJSON))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request to Hugging Face API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr HuggingFaceError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("Hugging Face API error (status %d): %s", resp.StatusCode, apiErr.Error)
		}
		return "", fmt.Errorf("Hugging Face API returned status %d", resp.StatusCode)
	}

	var summaries []HuggingFaceSummary
	if err := json.Unmarshal(respBody, &summaries); err != nil {
		return "", fmt.Errorf("error unmarshaling response: %w", err)
	}
	if len(summaries) == 0 || summaries[0].SummaryText == "" {
		return "", fmt.Errorf("empty response from Hugging Face API")
	}

	return finish(summaries[0].SummaryText, opts), nil
}
