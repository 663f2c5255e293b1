// Package drafting turns a job description into a structured context and
// the context into channel-specific outreach drafts.
package drafting

import (
	"context"
	"fmt"
	"strings"
)

// ContentType selects the drafting channel. The zero value means no draft
// is requested.
type ContentType string

const (
	Email       ContentType = "email"
	Message     ContentType = "message"
	CoverLetter ContentType = "cover_letter"
)

// ContentTypes lists every drafting channel
var ContentTypes = []ContentType{Email, Message, CoverLetter}

// Valid reports whether c is one of the known channels
func (c ContentType) Valid() bool {
	switch c {
	case Email, Message, CoverLetter:
		return true
	}
	return false
}

// Label returns a human readable channel name
func (c ContentType) Label() string {
	switch c {
	case Email:
		return "Email"
	case Message:
		return "Professional message"
	case CoverLetter:
		return "Cover letter"
	}
	return "Context only"
}

// ParseContentType accepts the CLI spellings of a content type.
// An empty string yields the zero value.
func ParseContentType(s string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "email", "cold-email", "cold_email":
		return Email, nil
	case "message", "linkedin", "linkedin_message", "linkedin-message":
		return Message, nil
	case "cover_letter", "cover-letter", "coverletter", "letter":
		return CoverLetter, nil
	}
	return "", fmt.Errorf("unknown content type %q (use email, message or cover-letter)", s)
}

// Draft is a generated piece of outreach. Cover letters leave Recipient
// and Subject empty.
type Draft struct {
	Type      ContentType `json:"type" yaml:"type"`
	Recipient string      `json:"recipient,omitempty" yaml:"recipient,omitempty"`
	Subject   string      `json:"subject,omitempty" yaml:"subject,omitempty"`
	Body      string      `json:"body" yaml:"body"`
}

// Provenance records which model and prompt version produced an output
type Provenance struct {
	Model         string
	PromptVersion string
}

// LLM is the model collaborator. ai.Client satisfies it.
type LLM interface {
	GenerateContent(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

// Prompts renders instruction templates. prompts.Library satisfies it.
type Prompts interface {
	Render(name string, data any) (text, version string, err error)
}

// PromptData is the template data for the drafting prompts
type PromptData struct {
	CandidateName string
	Signature     string
	WordLimit     int
	Placeholder   string
}
