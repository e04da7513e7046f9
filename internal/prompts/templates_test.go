package prompts

import (
	"strings"
	"testing"
)

func TestGradingPromptCarriesFormatAndSubmission(t *testing.T) {
	got := GradingPrompt("  Question 1: Describe your trail network.  ")
	for _, want := range []string{"Score: [0-100]", "CRITICAL ISSUES:", "SUBMISSION:\nQuestion 1: Describe your trail network."} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
	if strings.HasSuffix(got, " ") {
		t.Fatal("prompt should be trimmed")
	}
}
