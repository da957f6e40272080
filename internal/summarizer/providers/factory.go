package providers

import (
	"fmt"
)

// KnownProviders lists the provider names GetProvider accepts.
var KnownProviders = []string{
	ProviderHuggingFace,
	ProviderOpenAI,
	ProviderAnthropic,
	ProviderGoogle,
	ProviderXAI,
	ProviderCompatible,
}

// IsKnown reports whether name is a provider GetProvider can build.
func IsKnown(name string) bool {
	for _, known := range KnownProviders {
		if name == known {
			return true
		}
	}
	return false
}

// ProviderFactory creates and returns appropriate LLM providers
type ProviderFactory struct {
	// ProviderConfigs stores configuration for each provider
	ProviderConfigs map[string]Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(configs map[string]Config) *ProviderFactory {
	if configs == nil {
		configs = make(map[string]Config)
	}
	return &ProviderFactory{
		ProviderConfigs: configs,
	}
}

// GetProvider returns an initialized provider instance for the specified provider name
func (f *ProviderFactory) GetProvider(providerName string) (LLMProvider, error) {
	config, exists := f.ProviderConfigs[providerName]
	if !exists {
		return nil, fmt.Errorf("configuration for provider '%s' not found", providerName)
	}

	switch providerName {
	case ProviderHuggingFace:
		return NewHuggingFaceProvider(config), nil
	case ProviderOpenAI:
		return NewOpenAIProvider(config), nil
	case ProviderAnthropic:
		return NewAnthropicProvider(config), nil
	case ProviderGoogle:
		return NewGoogleProvider(config), nil
	case ProviderXAI:
		return NewXAIProvider(config), nil
	case ProviderCompatible:
		return NewCompatibleProvider(config)
	default:
		return nil, fmt.Errorf("unknown provider: %s", providerName)
	}
}

// GetProviderChain returns the providers named in order, skipping names that
// have no configuration. Unknown names are an error.
func (f *ProviderFactory) GetProviderChain(order []string) ([]LLMProvider, error) {
	var chain []LLMProvider
	seen := make(map[string]bool, len(order))

	for _, name := range order {
		if seen[name] {
			continue
		}
		seen[name] = true

		if _, exists := f.ProviderConfigs[name]; !exists {
			continue
		}
		provider, err := f.GetProvider(name)
		if err != nil {
			return nil, err
		}
		chain = append(chain, provider)
	}

	return chain, nil
}
