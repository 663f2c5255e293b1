// Package search runs web lookups used to check recruiter details.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xrsl/reachout/pkg/log"
	"github.com/xrsl/reachout/pkg/retry"
)

const (
	// DefaultEndpoint is the DuckDuckGo Instant Answer API
	DefaultEndpoint = "https://api.duckduckgo.com/"

	maxTopics   = 5
	maxResponse = 1 << 20
)

// ErrEmptyQuery is returned when Search is called without a query
var ErrEmptyQuery = errors.New("search query is empty")

// DuckDuckGo queries the Instant Answer API. No key is needed.
type DuckDuckGo struct {
	Endpoint  string
	HTTP      *http.Client
	UserAgent string
	Retry     retry.Config

	limiter *retry.RateLimiter
}

// New returns a client for the public endpoint
func New(userAgent string) *DuckDuckGo {
	return &DuckDuckGo{
		Endpoint:  DefaultEndpoint,
		HTTP:      &http.Client{Timeout: 15 * time.Second},
		UserAgent: userAgent,
		Retry:     retry.DefaultConfig(),
		limiter:   retry.NewRateLimiter(1.0),
	}
}

type ddgResponse struct {
	Heading       string     `json:"Heading"`
	Abstract      string     `json:"Abstract"`
	AbstractURL   string     `json:"AbstractURL"`
	Answer        string     `json:"Answer"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

type ddgTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

// Search returns a plain text summary of the results, or "" when the API
// knows nothing about query.
func (d *DuckDuckGo) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	log.Debug("web search", "query", query)
	resp, err := retry.Do(ctx, d.Retry, func() (*ddgResponse, error) {
		return d.fetch(ctx, query)
	})
	if err != nil {
		return "", fmt.Errorf("web search: %w", err)
	}
	return summarize(resp), nil
}

func (d *DuckDuckGo) fetch(ctx context.Context, query string) (*ddgResponse, error) {
	endpoint := d.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	params := url.Values{
		"q":             {query},
		"format":        {"json"},
		"no_html":       {"1"},
		"skip_disambig": {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if d.UserAgent != "" {
		req.Header.Set("User-Agent", d.UserAgent)
	}

	client := d.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, retry.Retryable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("HTTP %d", resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, retry.Retryable(err)
		}
		return nil, err
	}

	var out ddgResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponse)).Decode(&out); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &out, nil
}

func summarize(r *ddgResponse) string {
	var results []string
	if r.Abstract != "" {
		results = append(results, fmt.Sprintf("## %s\n%s\nSource: %s", r.Heading, r.Abstract, r.AbstractURL))
	}
	if r.Answer != "" {
		results = append(results, "Answer: "+r.Answer)
	}
	n := 0
	for _, topic := range r.RelatedTopics {
		if n == maxTopics {
			break
		}
		if topic.Text == "" {
			continue
		}
		line := "- " + topic.Text
		if topic.FirstURL != "" {
			line += " (" + topic.FirstURL + ")"
		}
		results = append(results, line)
		n++
	}
	return strings.Join(results, "\n\n")
}
