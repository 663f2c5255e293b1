package drafting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xrsl/reachout/pkg/log"
)

// Request is one drafting call. Prior and Feedback are set on a refinement.
type Request struct {
	Context  *Context
	Prior    *Draft
	Feedback string
}

// Generator drafts one channel's content from a Context.
type Generator struct {
	llm     LLM
	prompts Prompts
	channel Channel
	id      Identity
	logger  *slog.Logger
}

// NewGenerator creates a generator for ch
func NewGenerator(llm LLM, prompts Prompts, ch Channel, id Identity) *Generator {
	return &Generator{
		llm:     llm,
		prompts: prompts,
		channel: ch,
		id:      id,
		logger:  log.Component("drafting").With("channel", string(ch.Type)),
	}
}

// NewGenerators creates one generator per content type
func NewGenerators(llm LLM, prompts Prompts, id Identity) map[ContentType]*Generator {
	gens := make(map[ContentType]*Generator, len(ContentTypes))
	for _, t := range ContentTypes {
		ch, _ := ChannelFor(t, id)
		gens[t] = NewGenerator(llm, prompts, ch, id)
	}
	return gens
}

// Channel returns the channel this generator drafts for
func (g *Generator) Channel() Channel {
	return g.channel
}

// Ready reports whether the generator can produce a valid draft with its
// configuration. Emails cannot be drafted without a signature block.
func (g *Generator) Ready() error {
	if g.channel.AppendSignature && g.id.SignatureBlock() == "" {
		return ErrMissingSignature
	}
	return nil
}

// wire shape shared by all channels; pointers tell missing from empty
type draftJSON struct {
	Recipient *string `json:"recipient,omitempty"`
	Subject   *string `json:"subject,omitempty"`
	Body      *string `json:"body"`
}

// Draft asks the model for a draft and enforces the channel rules on it.
func (g *Generator) Draft(ctx context.Context, req Request) (*Draft, Provenance, error) {
	if req.Context == nil {
		return nil, Provenance{}, &GenerationError{Stage: string(g.channel.Type), Err: errors.New("no context to draft from")}
	}
	if err := g.Ready(); err != nil {
		return nil, Provenance{}, err
	}

	system, version, err := g.prompts.Render(g.channel.Prompt, PromptData{
		CandidateName: g.id.CandidateName,
		Signature:     g.id.SignatureBlock(),
		WordLimit:     g.channel.WordLimit,
		Placeholder:   g.channel.Placeholder,
	})
	if err != nil {
		return nil, Provenance{}, &GenerationError{Stage: string(g.channel.Type), Err: err}
	}
	prov := Provenance{Model: g.llm.Model(), PromptVersion: version}

	user, err := g.userPrompt(req)
	if err != nil {
		return nil, prov, &GenerationError{Stage: string(g.channel.Type), Err: err}
	}

	g.logger.Debug("drafting", "refine", req.Feedback != "", "prompt", version)
	raw, err := g.llm.GenerateContent(ctx, system, user)
	if err != nil {
		return nil, prov, &GenerationError{Stage: string(g.channel.Type), Err: err}
	}

	d, err := g.decode(raw, req.Context)
	if err != nil {
		return nil, prov, err
	}
	return d, prov, nil
}

func (g *Generator) userPrompt(req Request) (string, error) {
	ctxJSON, err := json.MarshalIndent(req.Context, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode context: %w", err)
	}
	user := string(ctxJSON)

	if req.Prior != nil && strings.TrimSpace(req.Feedback) != "" {
		prior, err := json.Marshal(wireDraft(req.Prior))
		if err != nil {
			return "", fmt.Errorf("encode previous draft: %w", err)
		}
		user += fmt.Sprintf("\n\nPrevious draft was rejected. Feedback: %s.\n\nPrevious Draft: %s", req.Feedback, prior)
	}
	return user, nil
}

func wireDraft(d *Draft) draftJSON {
	w := draftJSON{Body: &d.Body}
	if d.Type != CoverLetter {
		w.Recipient = &d.Recipient
		w.Subject = &d.Subject
	}
	return w
}

func (g *Generator) reject(field, reason, raw string) error {
	return &SchemaError{Channel: g.channel.Type, Field: field, Reason: reason, Raw: raw}
}

// decode parses the model output strictly and applies the channel rules
func (g *Generator) decode(raw string, c *Context) (*Draft, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(extractJSON(raw))))
	dec.DisallowUnknownFields()

	var w draftJSON
	if err := dec.Decode(&w); err != nil {
		return nil, g.reject("", fmt.Sprintf("output does not match the %s shape: %v", g.channel.Type, err), raw)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, g.reject("", "trailing data after JSON object", raw)
	}

	if w.Body == nil || strings.TrimSpace(*w.Body) == "" {
		return nil, g.reject("body", "missing or empty", raw)
	}
	body := strings.TrimSpace(*w.Body)

	d := &Draft{Type: g.channel.Type}

	if g.channel.Addressed {
		d.Recipient = g.recipient(c)
		subject := g.subject(c, w.Subject)
		if subject == "" {
			return nil, g.reject("subject", "missing or empty", raw)
		}
		d.Subject = subject
	}

	body, err := g.finish(body, d.Subject, raw)
	if err != nil {
		return nil, err
	}
	d.Body = body
	return d, nil
}

// Check applies the channel rules to a hand-edited draft and returns it with
// the signature block restored. Violations are reported as SchemaError.
func (g *Generator) Check(d Draft) (*Draft, error) {
	if err := g.Ready(); err != nil {
		return nil, err
	}
	body := strings.TrimSpace(d.Body)
	if body == "" {
		return nil, g.reject("body", "missing or empty", d.Body)
	}
	if g.channel.Addressed && strings.TrimSpace(d.Subject) == "" {
		return nil, g.reject("subject", "missing or empty", d.Subject)
	}
	body, err := g.finish(body, d.Subject, d.Body)
	if err != nil {
		return nil, err
	}
	d.Type = g.channel.Type
	d.Body = body
	return &d, nil
}

// finish strips any copy of the signature, checks the unsigned body and
// appends the signature block for channels that carry one.
func (g *Generator) finish(body, subject, raw string) (string, error) {
	sig := g.id.SignatureBlock()
	if g.channel.AppendSignature {
		body = stripSignature(body, sig)
	}
	if err := g.checkContent(body, subject, raw); err != nil {
		return "", err
	}
	if g.channel.AppendSignature {
		body = body + "\n\n" + sig
	}
	return body, nil
}

func (g *Generator) recipient(c *Context) string {
	var r string
	switch g.channel.Type {
	case Email:
		r = c.RecruiterEmail()
	case Message:
		r = c.RecruiterProfile()
	}
	if r == "" {
		return g.channel.Placeholder
	}
	return r
}

func (g *Generator) subject(c *Context, model *string) string {
	if g.channel.Type == Email && strings.TrimSpace(c.JobTitle) != "" {
		s := "Application for " + strings.TrimSpace(c.JobTitle)
		if name := strings.TrimSpace(g.id.CandidateName); name != "" {
			s += " – " + name
		}
		return s
	}
	if model == nil {
		return ""
	}
	return strings.TrimSpace(*model)
}

// checkContent applies the banned-content and length rules to the unsigned body
func (g *Generator) checkContent(body, subject, raw string) error {
	if hasEmoji(body) || hasEmoji(subject) {
		return g.reject("body", "contains emoji", raw)
	}
	if hasMarkdown(body) || hasMarkdown(subject) {
		return g.reject("body", "contains markdown formatting", raw)
	}
	if g.channel.ForbidBullets && hasBullets(body) {
		return g.reject("body", "contains bullet points", raw)
	}
	if g.channel.ForbidAttachments && mentionsAttachment(body) {
		return g.reject("body", "mentions an attachment", raw)
	}
	if sig := g.id.SignatureBlock(); g.channel.ForbidSignature && sig != "" && strings.Contains(body, sig) {
		return g.reject("body", "contains a signature block", raw)
	}
	if n := CountWords(body); g.channel.WordLimit > 0 && n > g.channel.WordLimit {
		return g.reject("body", fmt.Sprintf("%d words exceeds the %d word limit", n, g.channel.WordLimit), raw)
	}
	return nil
}
