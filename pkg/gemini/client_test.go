package gemini

import (
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestIsAgentSupported(t *testing.T) {
	supported := []string{
		"gemini-3-flash-preview",
		"gemini-3-pro-preview",
		"gemini-2.5-flash",
		"gemini-2.5-pro",
	}
	for _, agent := range supported {
		if !IsAgentSupported(agent) {
			t.Errorf("agent %q should be supported", agent)
		}
	}

	unsupported := []string{"gemini-1.5-pro", "gpt-4", "invalid"}
	for _, agent := range unsupported {
		if IsAgentSupported(agent) {
			t.Errorf("agent %q should not be supported", agent)
		}
	}
}

func TestNewClientDefaultAgent(t *testing.T) {
	if DefaultAgent != "gemini-2.5-flash" {
		t.Errorf("DefaultAgent = %q, want %q", DefaultAgent, "gemini-2.5-flash")
	}
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"a":`), genai.Text(`1}`)}},
		}},
	}
	got, err := extractText(resp)
	if err != nil {
		t.Fatalf("extractText: %v", err)
	}
	if got != `{"a":1}` {
		t.Errorf("extractText = %q", got)
	}

	if _, err := extractText(&genai.GenerateContentResponse{}); err == nil {
		t.Error("expected error for empty response")
	}
}

func TestIsRetryableError(t *testing.T) {
	if !isRetryableError(errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED")) {
		t.Error("quota errors should be retryable")
	}
	if isRetryableError(errors.New("googleapi: Error 400: INVALID_ARGUMENT")) {
		t.Error("bad request should not be retryable")
	}
}
