// Package openai adapts the OpenAI chat completions API to the drafting client interface.
package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/xrsl/reachout/pkg/retry"
)

const DefaultAgent = "gpt-4o"

var SupportedAgents = []string{
	"gpt-4o",
	"gpt-4o-mini",
	"gpt-4.1",
	"gpt-4.1-mini",
	"gpt-5",
}

func IsAgentSupported(agent string) bool {
	for _, a := range SupportedAgents {
		if a == agent {
			return true
		}
	}
	return false
}

type Client struct {
	client openai.Client
	model  string
}

// NewClient creates a client for model. OPENAI_BASE_URL points it at a
// compatible endpoint.
func NewClient(model string) (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	if model == "" {
		model = DefaultAgent
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}

	return &Client{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) GenerateContent(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(userPrompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
	}

	return retry.Do(ctx, retry.DefaultConfig(), func() (string, error) {
		resp, err := c.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", classifyError(err, c.model)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no choices in response")
		}
		content := resp.Choices[0].Message.Content
		if strings.TrimSpace(content) == "" {
			return "", fmt.Errorf("empty response from %s", c.model)
		}
		return content, nil
	})
}

// classifyError marks throttling and server errors as retryable
func classifyError(err error, model string) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401:
			return fmt.Errorf("openai API error: invalid API key. Check OPENAI_API_KEY environment variable")
		case apiErr.StatusCode == 404:
			return fmt.Errorf("openai API error: model %q not found", model)
		case apiErr.StatusCode == 429 || apiErr.StatusCode >= 500:
			return retry.Retryable(fmt.Errorf("openai API error: %w", err))
		}
	}
	return fmt.Errorf("openai API error: %w", err)
}

func (c *Client) Close() {
	// No cleanup needed for HTTP client
}
