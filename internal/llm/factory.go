package llm

import (
	"context"
	"fmt"
	"strings"

	"ocena/internal/config"
)

// Grader sends a submission to a remote model and returns its free-text
// assessment.
type Grader interface {
	Grade(ctx context.Context, text string) (string, error)
	Name() string
}

// New builds the configured grader. It returns a nil Grader, and no error,
// when the provider is "none" or its credentials are missing; callers then
// grade locally.
func New(ctx context.Context, cfg config.Config) (Grader, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Grader.Provider))
	switch provider {
	case "", "none", "offline":
		return nil, nil
	case "openai":
		if strings.TrimSpace(cfg.OpenAI.APIKey) == "" {
			return nil, nil
		}
		return NewOpenAIClient(cfg.OpenAI), nil
	case "gemini":
		if strings.TrimSpace(cfg.Gemini.APIKey) == "" {
			return nil, nil
		}
		client, err := NewGeminiClient(ctx, cfg.Gemini)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "ollama":
		return NewOllamaClient(cfg.Ollama), nil
	default:
		return nil, fmt.Errorf("unsupported grader provider: %s", cfg.Grader.Provider)
	}
}
