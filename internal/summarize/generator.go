package summarize

import (
	"context"
	"fmt"
	"strings"
)

// GenerateOptions bounds a single text generation call.
type GenerateOptions struct {
	MaxOutputTokens int
	Temperature     float32
}

// Generator is a text-generation backend. One call, one prompt, one free
// text response.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	Name() string
	Model() string
	Close() error
}

// Provider selects and configures a Generator.
type Provider struct {
	Name           string // gemini, openai, anthropic, ollama, static, none
	Model          string
	APIKey         string
	BaseURL        string
	StaticResponse string
}

var defaultModels = map[string]string{
	"gemini":    "gemini-1.5-flash-latest",
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-sonnet-4-5-20250929",
	"ollama":    "llama3.1",
	"static":    "static",
}

var providerAliases = map[string]string{
	"google": "gemini",
	"claude": "anthropic",
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider string) string {
	return defaultModels[strings.ToLower(provider)]
}

// NewGenerator builds the backend named by p. The "none" provider returns a
// nil Generator, which makes every summarization fall back.
func NewGenerator(ctx context.Context, p Provider) (Generator, error) {
	name := strings.ToLower(strings.TrimSpace(p.Name))
	if alias, ok := providerAliases[name]; ok {
		name = alias
	}
	model := p.Model
	if model == "" {
		model = DefaultModel(name)
	}

	switch name {
	case "gemini":
		g, err := NewGeminiGenerator(ctx, p.APIKey, model)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "openai":
		return NewOpenAIGenerator(p.APIKey, p.BaseURL, model), nil
	case "anthropic":
		return NewAnthropicGenerator(p.APIKey, p.BaseURL, model), nil
	case "ollama":
		g, err := NewOllamaGenerator(p.BaseURL, model)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "static":
		return &StaticGenerator{Text: p.StaticResponse}, nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", p.Name)
	}
}
