package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anatolykoptev/go-kit/llm"
)

const (
	xaiAPIURL       = "https://api.x.ai/v1"
	xaiDefaultModel = "grok-3-mini"
)

// CompatibleProvider talks to any endpoint that speaks the OpenAI chat
// completions protocol: xAI, a local vLLM or Ollama server, or a gateway.
type CompatibleProvider struct {
	Config
	name   string
	client *llm.Client
}

// NewXAIProvider creates a provider for xAI's Grok models.
func NewXAIProvider(config Config) *CompatibleProvider {
	if config.BaseURL == "" {
		config.BaseURL = xaiAPIURL
	}
	if config.ModelID == "" {
		config.ModelID = xaiDefaultModel
	}
	return newCompatibleProvider(ProviderXAI, config)
}

// NewCompatibleProvider creates a provider for a generic OpenAI-compatible
// endpoint. BaseURL and ModelID are required.
func NewCompatibleProvider(config Config) (*CompatibleProvider, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required for the %s provider", ProviderCompatible)
	}
	if config.ModelID == "" {
		return nil, fmt.Errorf("model ID is required for the %s provider", ProviderCompatible)
	}
	return newCompatibleProvider(ProviderCompatible, config), nil
}

func newCompatibleProvider(name string, config Config) *CompatibleProvider {
	client := llm.NewClient(config.baseURL(""), config.APIKey, config.ModelID,
		llm.WithMaxTokens(maxTokens(DefaultMaxWords)),
		llm.WithTemperature(0),
		llm.WithHTTPClient(&http.Client{Timeout: config.timeout()}),
	)

	return &CompatibleProvider{
		Config: config,
		name:   name,
		client: client,
	}
}

// DefaultMaxWords caps the completion budget of compatible clients when a
// call does not set one.
const DefaultMaxWords = 512

// Name returns the provider name
func (p *CompatibleProvider) Name() string {
	return p.name
}

// Summarize implements the LLMProvider interface
func (p *CompatibleProvider) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	if p.name == ProviderXAI && p.APIKey == "" {
		return "", fmt.Errorf("xAI API key not provided")
	}

	prompt := instructionPrompt(text, opts)
	budget := maxTokens(opts.MaxLength)

	var (
		raw string
		err error
	)
	if opts.DoSample {
		raw, err = p.client.Complete(ctx, systemPrompt, prompt,
			llm.WithChatTemperature(0.7),
			llm.WithChatMaxTokens(budget),
		)
	} else {
		raw, err = p.client.Complete(ctx, systemPrompt, prompt,
			llm.WithChatTemperature(0),
			llm.WithChatMaxTokens(budget),
		)
	}
	if err != nil {
		return "", fmt.Errorf("%s API error: %w", p.name, err)
	}
	if raw == "" {
		return "", fmt.Errorf("empty response from %s API", p.name)
	}

	return finish(raw, opts), nil
}
