// Package ollama runs drafting prompts against a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/ollama/ollama/api"
)

const DefaultHost = "http://localhost:11434"

type Client struct {
	client *api.Client
	model  string
}

// NewClient creates a client for model on OLLAMA_HOST (default localhost).
func NewClient(model string) (*Client, error) {
	if model == "" {
		return nil, fmt.Errorf("ollama model not set (use ollama:<model>)")
	}
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		host = DefaultHost
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_HOST %q: %w", host, err)
	}
	return &Client{
		client: api.NewClient(base, http.DefaultClient),
		model:  model,
	}, nil
}

func (c *Client) Model() string {
	return "ollama:" + c.model
}

func (c *Client) GenerateContent(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := make([]api.Message, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, api.Message{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, api.Message{Role: "user", Content: userPrompt})

	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   &stream,
		Format:   []byte(`"json"`),
	}

	var sb strings.Builder
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		if strings.Contains(err.Error(), "connection refused") {
			return "", fmt.Errorf("ollama not reachable, is `ollama serve` running? %w", err)
		}
		return "", fmt.Errorf("ollama error: %w", err)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response from ollama:%s", c.model)
	}
	return sb.String(), nil
}

func (c *Client) Close() {
	// No cleanup needed
}
