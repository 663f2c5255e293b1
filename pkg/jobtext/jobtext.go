// Package jobtext loads job descriptions from files, stdin, web pages or
// GitHub issues.
package jobtext

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/xrsl/reachout/pkg/gh"
	"github.com/xrsl/reachout/pkg/log"
)

// maxBody caps how much of a fetched page is read
const maxBody = 5 << 20

// Fetcher resolves job description sources
type Fetcher struct {
	HTTP      *http.Client
	GitHub    gh.CLI
	Stdin     io.Reader
	UserAgent string
}

// New returns a Fetcher with a 30s HTTP timeout reading stdin from os.Stdin
func New(userAgent string) *Fetcher {
	return &Fetcher{
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		GitHub:    gh.New(),
		Stdin:     os.Stdin,
		UserAgent: userAgent,
	}
}

// IsURL reports whether src looks like an http(s) URL
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Load resolves src: "-" reads stdin, URLs are fetched and cleaned, anything
// else is a file path.
func (f *Fetcher) Load(ctx context.Context, src string) (string, error) {
	var (
		text string
		err  error
	)
	switch {
	case src == "-":
		text, err = f.FromReader(f.Stdin)
	case IsURL(src):
		text, err = f.FromURL(ctx, src)
	default:
		text, err = FromFile(src)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("job description from %s is empty", describe(src))
	}
	return text, nil
}

func describe(src string) string {
	if src == "-" {
		return "stdin"
	}
	return src
}

// FromFile reads a job description file
func FromFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	log.Debug("using job description from file", "path", path)
	return string(content), nil
}

// FromReader reads all of r
func (f *Fetcher) FromReader(r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("no input available")
	}
	content, err := io.ReadAll(io.LimitReader(r, maxBody))
	if err != nil {
		return "", fmt.Errorf("read failed: %w", err)
	}
	return string(content), nil
}

// FromURL fetches a posting and strips it down to visible text
func (f *Fetcher) FromURL(ctx context.Context, url string) (string, error) {
	log.Debug("fetching job posting", "url", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := f.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch failed: HTTP %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxBody)
	if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(ct, "text/plain") {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("read failed: %w", err)
		}
		return string(data), nil
	}
	return CleanHTML(body)
}

// CleanHTML drops scripts, styles and page chrome, returning one line per
// non-empty text line
func CleanHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, nav, footer, header").Remove()

	// Prefer the main content region when the page marks one
	sel := doc.Find("main, article").First()
	if sel.Length() == 0 {
		sel = doc.Find("body")
	}
	text := sel.Text()

	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	result := strings.Join(cleaned, "\n")
	log.Debug("extracted text from HTML", "chars", len(result))
	return result, nil
}

// FromIssue uses a GitHub issue's title and body as the job description
func (f *Fetcher) FromIssue(ctx context.Context, repo string, number int) (string, error) {
	cli := f.GitHub
	if cli == nil {
		cli = gh.New()
	}
	issue, err := gh.FetchIssue(ctx, cli, repo, number)
	if err != nil {
		return "", err
	}
	text := issue.JobText()
	if strings.TrimSpace(issue.Body) == "" {
		return "", fmt.Errorf("issue #%d has no body", number)
	}
	return text, nil
}
