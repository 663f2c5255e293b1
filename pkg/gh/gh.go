// Package gh reads job postings tracked as GitHub issues through the gh CLI
package gh

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// CLI defines the GitHub CLI operations reachout needs
type CLI interface {
	// IssueView returns issue details as JSON
	IssueView(ctx context.Context, repo string, number int, fields []string) ([]byte, error)
}

// DefaultCLI implements CLI using the gh command
type DefaultCLI struct{}

// New returns a new DefaultCLI instance
func New() *DefaultCLI {
	return &DefaultCLI{}
}

// IsAvailable reports whether gh is on PATH
func IsAvailable() bool {
	_, err := exec.LookPath("gh")
	return err == nil
}

// IssueView returns issue details
func (c *DefaultCLI) IssueView(ctx context.Context, repo string, number int, fields []string) ([]byte, error) {
	args := []string{"issue", "view", strconv.Itoa(number), "--repo", repo}
	if len(fields) > 0 {
		args = append(args, "--json", strings.Join(fields, ","))
	}
	out, err := exec.CommandContext(ctx, "gh", args...).Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return nil, fmt.Errorf("gh issue view failed: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, fmt.Errorf("gh issue view failed: %w", err)
	}
	return out, nil
}

// Issue represents a GitHub issue
type Issue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	Body   string `json:"body"`
	URL    string `json:"url"`
}

// IssueFields are the JSON fields FetchIssue asks gh for
var IssueFields = []string{"number", "title", "state", "body", "url"}

// ParseIssue parses issue JSON
func ParseIssue(data []byte) (*Issue, error) {
	var issue Issue
	if err := json.Unmarshal(data, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// FetchIssue views and parses an issue
func FetchIssue(ctx context.Context, cli CLI, repo string, number int) (*Issue, error) {
	if repo == "" {
		return nil, fmt.Errorf("no repository configured (set repo in config or pass --repo)")
	}
	data, err := cli.IssueView(ctx, repo, number, IssueFields)
	if err != nil {
		return nil, err
	}
	issue, err := ParseIssue(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse issue #%d: %w", number, err)
	}
	return issue, nil
}

// JobText renders the issue as a job description
func (i *Issue) JobText() string {
	if i.Title == "" {
		return i.Body
	}
	return "# " + i.Title + "\n\n" + i.Body
}
