package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/xrsl/reachout/pkg/claude"
	"github.com/xrsl/reachout/pkg/gemini"
	"github.com/xrsl/reachout/pkg/ollama"
	"github.com/xrsl/reachout/pkg/openai"
)

// Client is the common interface for AI providers.
// The system prompt carries fixed instructions, the user prompt the payload.
type Client interface {
	GenerateContent(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// Model names the model that served the request, for provenance
	Model() string
	Close()
}

// DefaultAgent returns the best available agent.
// Prefers API keys that are present, then the installed CLIs.
func DefaultAgent() string {
	switch {
	case hasEnv("ANTHROPIC_API_KEY"):
		return claude.DefaultAgent
	case hasEnv("OPENAI_API_KEY"):
		return openai.DefaultAgent
	case hasEnv("GEMINI_API_KEY"):
		return gemini.DefaultAgent
	case IsClaudeCLIAvailable():
		return "claude-code"
	case IsGeminiCLIAvailable():
		return "gemini-cli"
	}
	return claude.DefaultAgent
}

// subAgent parses "claude-code:sonnet-4-5" into "sonnet-4-5"
func subAgent(agent string) string {
	if idx := strings.Index(agent, ":"); idx != -1 {
		return agent[idx+1:]
	}
	return ""
}

// NewClient creates an AI client based on the agent name
func NewClient(agent string) (Client, error) {
	switch {
	case agent == "claude-code" || strings.HasPrefix(agent, "claude-code:"):
		if !IsClaudeCLIAvailable() {
			return nil, fmt.Errorf("claude CLI not found in PATH")
		}
		return NewClaudeCLI(subAgent(agent)), nil
	case agent == "gemini-cli" || strings.HasPrefix(agent, "gemini-cli:"):
		if !IsGeminiCLIAvailable() {
			return nil, fmt.Errorf("gemini CLI not found in PATH")
		}
		return NewGeminiCLI(subAgent(agent)), nil
	case strings.HasPrefix(agent, "ollama:"):
		return ollama.NewClient(subAgent(agent))
	case strings.HasPrefix(agent, "gemini-"):
		return gemini.NewClient(agent)
	case strings.HasPrefix(agent, "claude-"):
		return claude.NewClient(agent)
	case strings.HasPrefix(agent, "gpt-") || strings.HasPrefix(agent, "openai:"):
		return openai.NewClient(strings.TrimPrefix(agent, "openai:"))
	default:
		return nil, fmt.Errorf("unknown agent: %s (use claude-code, gemini-cli, claude-*, gemini-*, gpt-*, openai:<model> or ollama:<model>)", agent)
	}
}

// IsAgentCLI returns true if the agent shells out to a local CLI
func IsAgentCLI(agent string) bool {
	return agent == "claude-code" || strings.HasPrefix(agent, "claude-code:") ||
		agent == "gemini-cli" || strings.HasPrefix(agent, "gemini-cli:")
}

// IsModelSupported checks if an API model is known to one of the providers
func IsModelSupported(model string) bool {
	switch {
	case strings.HasPrefix(model, "gemini-"):
		return gemini.IsAgentSupported(model)
	case strings.HasPrefix(model, "claude-"):
		return claude.IsAgentSupported(model)
	case strings.HasPrefix(model, "gpt-"):
		return openai.IsAgentSupported(model)
	case strings.HasPrefix(model, "ollama:"):
		return subAgent(model) != ""
	default:
		return false
	}
}

// SupportedAgents returns all supported agents (CLI + API)
func SupportedAgents() []string {
	agents := []string{}
	if IsClaudeCLIAvailable() {
		agents = append(agents, "claude-code")
	}
	if IsGeminiCLIAvailable() {
		agents = append(agents, "gemini-cli")
	}
	agents = append(agents, claude.SupportedAgents...)
	agents = append(agents, gemini.SupportedAgents...)
	agents = append(agents, openai.SupportedAgents...)
	return agents
}

// CredentialEnv returns the environment variable an API agent needs, or "" for CLI and local agents
func CredentialEnv(agent string) string {
	switch {
	case IsAgentCLI(agent), strings.HasPrefix(agent, "ollama:"):
		return ""
	case strings.HasPrefix(agent, "gemini-"):
		return "GEMINI_API_KEY"
	case strings.HasPrefix(agent, "claude-"):
		return "ANTHROPIC_API_KEY"
	case strings.HasPrefix(agent, "gpt-"), strings.HasPrefix(agent, "openai:"):
		return "OPENAI_API_KEY"
	}
	return ""
}
