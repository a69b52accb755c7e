// Package llm holds the optional text-generation collaborator and the
// model-selection advisor. Neither ever changes clustering or scoring
// behavior: generation only renders prose, selection only annotates metrics.
package llm

import (
	"context"

	"github.com/kakashi3lite/newscurator/internal/model"
)

// Provider is the text-generation collaborator contract.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Generate renders text for a prompt.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest is the input for one generation call.
type GenerateRequest struct {
	Prompt    string
	Model     string // Overrides the configured model when set
	MaxTokens int
}

// GenerateResponse is the output of one generation call.
type GenerateResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds provider configuration.
type Config struct {
	Provider  string // "openai" or "" (disabled)
	Model     string
	APIKey    string
	BaseURL   string // Custom endpoint, e.g. a local OpenAI-compatible server
	Timeout   int    // Seconds
	MaxTokens int
}

// DefaultConfig returns provider defaults with generation disabled.
func DefaultConfig() Config {
	return Config{
		Provider:  "",
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// ConfigFromModel converts the runtime LLM configuration.
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		MaxTokens: cfg.MaxTokens,
	}
}
