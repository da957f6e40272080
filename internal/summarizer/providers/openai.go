package providers

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const openAIDefaultModel = "gpt-4o-mini"

// OpenAIProvider implements the LLMProvider interface for OpenAI chat models
type OpenAIProvider struct {
	Config
	client *openai.Client
}

// NewOpenAIProvider creates a new instance of the OpenAI provider
func NewOpenAIProvider(config Config) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.baseURL("")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: config.timeout()}

	return &OpenAIProvider{
		Config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

// Summarize implements the LLMProvider interface for OpenAI
func (p *OpenAIProvider) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	if p.APIKey == "" {
		return "", fmt.Errorf("OpenAI API key not provided")
	}

	var temperature float32
	if opts.DoSample {
		temperature = 0.7
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model(openAIDefaultModel),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: instructionPrompt(text, opts)},
		},
		MaxTokens:   maxTokens(opts.MaxLength),
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from OpenAI API")
	}

	return finish(resp.Choices[0].Message.Content, opts), nil
}
