// Package content drives a generative-text API to write every prose section
// of a book, substituting canned fallbacks when generation fails.
package content

import (
	"context"
	"fmt"
)

// Provider selects a text-generation backend.
type Provider string

// Supported providers.
const (
	// ProviderReplicate drives a hosted model through Replicate's
	// create-prediction/poll API.
	ProviderReplicate Provider = "replicate"
	// ProviderGemini drives Google Gemini directly.
	ProviderGemini Provider = "gemini"
)

// Client generates prose from a prompt.
type Client interface {
	// Generate produces text for a prompt, bounded by maxTokens.
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// ClientConfig holds provider credentials and model selection.
type ClientConfig struct {
	APIKey   string
	Model    string // Gemini model name
	ModelURL string // Replicate prediction endpoint
}

// NewClient builds a text-generation client for the configured provider.
func NewClient(ctx context.Context, provider Provider, cfg ClientConfig) (Client, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	case ProviderReplicate, "":
		return NewReplicateClient(cfg.ModelURL, cfg.APIKey), nil
	default:
		return nil, fmt.Errorf("unknown text provider %q", provider)
	}
}
