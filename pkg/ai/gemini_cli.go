package ai

import (
	"context"
	"os"
	"os/exec"
	"strings"
)

// GeminiCLI implements Client using the gemini CLI
type GeminiCLI struct {
	model string // e.g., "flash", "pro"
}

// NewGeminiCLI creates a Gemini CLI client
func NewGeminiCLI(model string) *GeminiCLI {
	return &GeminiCLI{model: model}
}

// IsGeminiCLIAvailable checks if gemini CLI is installed
func IsGeminiCLIAvailable() bool {
	_, err := exec.LookPath("gemini")
	return err == nil
}

// GenerateContent folds the system prompt into the user prompt,
// the gemini CLI has no separate flag for it.
func (c *GeminiCLI) GenerateContent(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	prompt := userPrompt
	if systemPrompt != "" {
		prompt = systemPrompt + "\n\n" + userPrompt
	}
	args := []string{"-p", prompt, "-o", "text"}
	if c.model != "" {
		args = append(args, "--model", "gemini-"+c.model)
	}
	cmd := exec.CommandContext(ctx, "gemini", args...)
	cmd.Stderr = os.Stderr
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

func (c *GeminiCLI) Model() string {
	if c.model == "" {
		return "gemini-cli"
	}
	return "gemini-cli:" + c.model
}

func (c *GeminiCLI) Close() {
	// No cleanup needed
}

func hasEnv(key string) bool {
	return os.Getenv(key) != ""
}
