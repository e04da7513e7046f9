package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ocena/internal/config"
	"ocena/internal/prompts"
)

// OllamaClient grades with a locally served model through /api/generate.
type OllamaClient struct {
	endpoint string
	model    string
	client   *http.Client
}

var _ Grader = (*OllamaClient)(nil)

type ollamaGenerateResponse struct {
	Response *string `json:"response"`
	Error    string  `json:"error"`
}

func NewOllamaClient(cfg config.OllamaConfig) *OllamaClient {
	return &OllamaClient{
		endpoint: ollamaGenerateEndpoint(cfg.URL),
		model:    cfg.Model,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

func ollamaGenerateEndpoint(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return "http://127.0.0.1:11434/api/generate"
	}
	if strings.Contains(base, "/api/generate") {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/api/generate"
}

func (c *OllamaClient) Name() string {
	return "ollama:" + c.model
}

func (c *OllamaClient) Grade(ctx context.Context, text string) (string, error) {
	payload := map[string]any{
		"model":   c.model,
		"prompt":  prompts.GradingPrompt(text),
		"stream":  false,
		"options": map[string]any{"temperature": 0.3},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal ollama payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", unavailable(err)
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return "", unavailable(fmt.Errorf("read body: %w", err))
	}

	var out ollamaGenerateResponse
	decodeErr := json.Unmarshal(body, &out)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(out.Error)
		if decodeErr != nil || msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", &RejectedError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", malformed("decode body: " + decodeErr.Error())
	}
	if out.Response == nil {
		return "", malformed("no response field")
	}
	return *out.Response, nil
}
