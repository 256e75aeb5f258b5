package agent

import (
	"context"
	"fmt"

	"github.com/arb8020/ireul/pkg/tools"
)

// Provider is the strategy interface for LLM API backends. SendTurn makes
// one blocking call with the full conversation and tool declarations and
// returns the assistant message, which may carry tool-call requests.
type Provider interface {
	SendTurn(ctx context.Context, conversation []Message, declarations []tools.Definition) (Message, error)

	// Name returns the provider name.
	Name() string
}

// ProviderOptions selects and configures a backend.
type ProviderOptions struct {
	Provider string // "anthropic", "openai", "google"
	APIKey   string
	Model    string
}

// DefaultModel returns the default model id for a provider.
func DefaultModel(provider string) string {
	switch provider {
	case "anthropic":
		return "claude-3-5-sonnet-20241022"
	case "google":
		return "gemini-2.0-flash"
	default:
		return "gpt-4.1-mini"
	}
}

// APIKeyEnvVar returns the environment variable consulted for a provider's
// credentials when no key is supplied explicitly.
func APIKeyEnvVar(provider string) string {
	switch provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "google":
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// NewProvider creates an LLM provider from the given options.
func NewProvider(opts ProviderOptions) (Provider, error) {
	if opts.Model == "" {
		opts.Model = DefaultModel(opts.Provider)
	}

	switch opts.Provider {
	case "anthropic":
		return NewAnthropicProvider(opts.APIKey, opts.Model), nil
	case "openai":
		return NewOpenAIProvider(opts.APIKey, opts.Model, ""), nil
	case "google":
		// Google exposes an OpenAI-compatible surface; only the base
		// endpoint and default model differ.
		return NewOpenAIProvider(opts.APIKey, opts.Model, googleBaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", opts.Provider)
	}
}
