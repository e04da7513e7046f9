package offline

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"ocena/internal/config"
	"ocena/internal/grading"
	"ocena/internal/ingest"
	"ocena/internal/llm"
	"ocena/internal/rng"
)

type failTransport struct{}

func (f failTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("network disabled for offline test")
}

func TestOfflineMode(t *testing.T) {
	original := http.DefaultTransport
	http.DefaultTransport = failTransport{}
	t.Cleanup(func() { http.DefaultTransport = original })

	raw := strings.Repeat("Lakeside Parks and Recreation runs summer camps for local youth. ", 40)
	text, err := ingest.Extract([]byte(raw), "txt")
	if err != nil {
		t.Fatalf("expected extraction to work offline: %v", err)
	}

	cfg := config.Default()
	cfg.OpenAI.APIKey = "sk-test"
	cfg.OpenAI.Endpoint = "http://127.0.0.1:1/v1/chat/completions"

	for _, provider := range []string{"openai", "ollama", "none"} {
		cfg.Grader.Provider = provider
		remote, err := llm.New(context.Background(), cfg)
		if err != nil {
			t.Fatalf("build %s grader: %v", provider, err)
		}

		g := grading.New(remote, grading.WithRandomness(func() rng.Source { return rng.NewSeeded(3) }))

		res := g.Grade(context.Background(), text)
		if res.Source != grading.SourceHeuristic {
			t.Fatalf("%s: expected heuristic fallback, got %s", provider, res.Source)
		}
		if res.Score < 40 || res.Score > 95 {
			t.Fatalf("%s: fallback score out of range: %d", provider, res.Score)
		}
		if res.Error == "" {
			t.Fatalf("%s: expected a diagnostic", provider)
		}
		if remote != nil && !strings.Contains(res.Error, "unavailable") {
			t.Fatalf("%s: expected unavailable diagnostic, got %q", provider, res.Error)
		}
		if res.WordCount != 400 {
			t.Fatalf("%s: expected 400 words, got %d", provider, res.WordCount)
		}
	}
}
