package llm

import "context"

// Provider defines the interface for text-generation collaborators.
// A nil Provider means generation is disabled; callers fall back to
// their neutral defaults and never treat that as a pipeline failure.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces a completion for the given prompts. An error or
	// empty result means the collaborator is unavailable; callers must
	// degrade rather than propagate.
	Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Config holds text-generation provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens default for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 1000,
	}
}
