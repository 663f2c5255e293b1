package drafting

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xrsl/reachout/pkg/log"
)

const (
	// ContextPrompt is the prompt template name used for synthesis
	ContextPrompt = "context"
	// VerifyPrompt checks recruiter fields against web search results
	VerifyPrompt = "verify"
)

// Searcher looks up public web information. search.DuckDuckGo satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// ContextCache stores synthesized contexts across sessions. pkg/cache satisfies it.
type ContextCache interface {
	Get(key string) ([]byte, bool)
	Put(key string, data []byte) error
}

// Synthesizer builds a Context from a job description and the user's profile text.
type Synthesizer struct {
	llm      LLM
	prompts  Prompts
	cache    ContextCache
	searcher Searcher
	logger   *slog.Logger
}

// NewSynthesizer creates a synthesizer. cache may be nil.
func NewSynthesizer(llm LLM, prompts Prompts, cache ContextCache) *Synthesizer {
	return &Synthesizer{
		llm:     llm,
		prompts: prompts,
		cache:   cache,
		logger:  log.Component("synthesizer"),
	}
}

// WithSearcher enables the recruiter check: when the first pass leaves
// recruiter fields unknown, a web search on company and role feeds a second
// pass that may fill them.
func (s *Synthesizer) WithSearcher(searcher Searcher) *Synthesizer {
	s.searcher = searcher
	return s
}

// Synthesize calls the model once (unless cached) and parses its answer.
// It never returns an empty context in place of a failure.
func (s *Synthesizer) Synthesize(ctx context.Context, jobDescription, userContext string) (*Context, Provenance, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, Provenance{}, ErrEmptyJobDescription
	}

	system, version, err := s.prompts.Render(ContextPrompt, nil)
	if err != nil {
		return nil, Provenance{}, &GenerationError{Stage: ContextPrompt, Err: err}
	}
	prov := Provenance{Model: s.llm.Model(), PromptVersion: version}

	key := CacheKey(jobDescription, userContext, prov.Model, version)
	if s.cache != nil {
		if data, ok := s.cache.Get(key); ok {
			if c, err := ParseContext(string(data)); err == nil {
				s.logger.Debug("context cache hit", "key", key[:12])
				return c, prov, nil
			}
		}
	}

	raw, err := s.llm.GenerateContent(ctx, system, contextRequest(jobDescription, userContext))
	if err != nil {
		return nil, prov, &GenerationError{Stage: ContextPrompt, Err: err}
	}

	c, err := ParseContext(raw)
	if err != nil {
		return nil, prov, &GenerationError{Stage: ContextPrompt, Raw: raw, Err: err}
	}
	s.verifyRecruiter(ctx, c, jobDescription)

	if s.cache != nil {
		if data, err := json.Marshal(c); err == nil {
			if err := s.cache.Put(key, data); err != nil {
				s.logger.Warn("context cache write failed", "error", err)
			}
		}
	}
	return c, prov, nil
}

// verifyRecruiter fills unknown recruiter fields from web search results.
// It only adds values; failures leave c as the first pass built it.
func (s *Synthesizer) verifyRecruiter(ctx context.Context, c *Context, jobDescription string) {
	if s.searcher == nil || !c.missingRecruiter() {
		return
	}
	query := SearchQuery(c)
	if query == "" {
		return
	}

	results, err := s.searcher.Search(ctx, query)
	if err != nil {
		s.logger.Warn("recruiter search failed", "query", query, "error", err)
		return
	}
	if strings.TrimSpace(results) == "" {
		s.logger.Debug("no search results", "query", query)
		return
	}

	system, _, err := s.prompts.Render(VerifyPrompt, nil)
	if err != nil {
		s.logger.Warn("verify prompt unavailable", "error", err)
		return
	}
	current, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return
	}
	user := fmt.Sprintf("Context:\n%s\n\nJob Description:\n%s\n\nWeb Search Results for %q:\n%s",
		current, strings.TrimSpace(jobDescription), query, results)

	raw, err := s.llm.GenerateContent(ctx, system, user)
	if err != nil {
		s.logger.Warn("recruiter check failed", "error", err)
		return
	}
	checked, err := ParseContext(raw)
	if err != nil {
		s.logger.Warn("recruiter check returned an invalid context", "error", err)
		return
	}

	filled := fillMissing(&c.HREmail, checked.HREmail)
	filled += fillMissing(&c.HRName, checked.HRName)
	filled += fillMissing(&c.HRLinkedIn, checked.HRLinkedIn)
	s.logger.Debug("recruiter check done", "filled", filled)
}

// SearchQuery is the web query for a context's recruiter, "" without a company
func SearchQuery(c *Context) string {
	company := strings.TrimSpace(c.CompanyName)
	if company == "" {
		return ""
	}
	return strings.Join(strings.Fields(company+" "+c.JobTitle+" recruiter"), " ")
}

func fillMissing(dst **string, v *string) int {
	if *dst != nil || v == nil || strings.TrimSpace(*v) == "" {
		return 0
	}
	val := strings.TrimSpace(*v)
	*dst = &val
	return 1
}

func contextRequest(jobDescription, userContext string) string {
	var b strings.Builder
	b.WriteString("Job Description:\n")
	b.WriteString(strings.TrimSpace(jobDescription))
	if uc := strings.TrimSpace(userContext); uc != "" {
		b.WriteString("\n\nCandidate Reference Documents:\n")
		b.WriteString(uc)
	}
	return b.String()
}

// ParseContext decodes a model response into a Context. The response must
// be a JSON object with a generated_context object.
func ParseContext(raw string) (*Context, error) {
	text := extractJSON(raw)

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	gen, ok := probe["generated_context"]
	if !ok {
		return nil, errors.New("response has no generated_context")
	}
	if trimmed := bytes.TrimSpace(gen); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("generated_context is not an object")
	}

	var c Context
	if err := json.Unmarshal([]byte(text), &c); err != nil {
		return nil, fmt.Errorf("decode context: %w", err)
	}
	return &c, nil
}

// CacheKey identifies a synthesis input. Any change to the job description,
// profile, model or prompt yields a different key.
func CacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
