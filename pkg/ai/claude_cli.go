package ai

import (
	"context"
	"os"
	"os/exec"
	"strings"
)

// ClaudeCLI implements Client using the claude CLI in print mode
type ClaudeCLI struct {
	model string // e.g., "sonnet-4-5", "opus-4"
}

// NewClaudeCLI creates a Claude CLI client
func NewClaudeCLI(model string) *ClaudeCLI {
	return &ClaudeCLI{model: model}
}

// IsClaudeCLIAvailable checks if claude CLI is installed
func IsClaudeCLIAvailable() bool {
	_, err := exec.LookPath("claude")
	return err == nil
}

func (c *ClaudeCLI) GenerateContent(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := []string{"-p", userPrompt, "--output-format", "text"}
	if systemPrompt != "" {
		args = append(args, "--append-system-prompt", systemPrompt)
	}
	if c.model != "" {
		args = append(args, "--model", "claude-"+c.model)
	}
	cmd := exec.CommandContext(ctx, "claude", args...)
	cmd.Stderr = os.Stderr
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

func (c *ClaudeCLI) Model() string {
	if c.model == "" {
		return "claude-code"
	}
	return "claude-code:" + c.model
}

func (c *ClaudeCLI) Close() {
	// No cleanup needed
}
