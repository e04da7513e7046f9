package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"ocena/internal/config"
	"ocena/internal/prompts"
)

// GeminiClient grades with Google's Gemini text generation.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

var _ Grader = (*GeminiClient)(nil)

func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
	}, nil
}

func (g *GeminiClient) Name() string {
	return "gemini:" + g.model
}

func (g *GeminiClient) Grade(ctx context.Context, text string) (string, error) {
	temperature := g.temperature
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompts.GradingSystemPrompt, genai.RoleUser),
		Temperature:       &temperature,
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), cfg)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	out := resp.Text()
	if strings.TrimSpace(out) == "" {
		return "", malformed("empty candidate text")
	}
	return out, nil
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code >= 400 {
		return &RejectedError{StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	return unavailable(err)
}
