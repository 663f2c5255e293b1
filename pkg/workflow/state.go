package workflow

import (
	"encoding/json"
	"time"

	"github.com/xrsl/reachout/pkg/drafting"
)

// Step is a position in the state machine. Only review and terminal are
// ever persisted, the others exist while a call is running.
type Step string

const (
	StepStart             Step = "start"
	StepContentGeneration Step = "content_generation"
	StepEmailDraft        Step = "email_draft"
	StepMessageDraft      Step = "message_draft"
	StepCoverLetterDraft  Step = "cover_letter_draft"
	StepReview            Step = "review"
	StepDispatch          Step = "dispatch"
	StepTerminal          Step = "terminal"
)

// draftStep maps a content type to its drafting step
func draftStep(ct drafting.ContentType) Step {
	switch ct {
	case drafting.Email:
		return StepEmailDraft
	case drafting.Message:
		return StepMessageDraft
	case drafting.CoverLetter:
		return StepCoverLetterDraft
	}
	return StepTerminal
}

// State is everything a session carries between calls
type State struct {
	SessionID      string               `json:"session_id" yaml:"session_id"`
	JobDescription string               `json:"job_description" yaml:"job_description"`
	UserContext    string               `json:"user_context,omitempty" yaml:"user_context,omitempty"`
	ContentType    drafting.ContentType `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	Context        *drafting.Context    `json:"context,omitempty" yaml:"context,omitempty"`
	ContextSource  string               `json:"context_source,omitempty" yaml:"-"`
	Draft          *drafting.Draft      `json:"draft,omitempty" yaml:"draft,omitempty"`
	Feedback       string               `json:"feedback,omitempty" yaml:"feedback,omitempty"`
	AttachmentPath string               `json:"attachment_path,omitempty" yaml:"attachment_path,omitempty"`
	ModelUsed      string               `json:"model_used,omitempty" yaml:"model_used,omitempty"`
	PromptVersion  string               `json:"prompt_version,omitempty" yaml:"prompt_version,omitempty"`
	Step           Step                 `json:"step" yaml:"step"`
	Revision       int                  `json:"revision" yaml:"revision"`
	Delivery       string               `json:"delivery,omitempty" yaml:"delivery,omitempty"`
	CreatedAt      time.Time            `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" yaml:"updated_at"`
}

// Clone returns a deep copy of s
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	if s.Draft != nil {
		d := *s.Draft
		c.Draft = &d
	}
	if s.Context != nil {
		c.Context = cloneContext(s.Context)
	}
	return &c
}

func cloneContext(in *drafting.Context) *drafting.Context {
	data, err := json.Marshal(in)
	if err != nil {
		return in
	}
	var out drafting.Context
	if err := json.Unmarshal(data, &out); err != nil {
		return in
	}
	return &out
}

// AwaitingReview reports whether the session can be resumed
func (s *State) AwaitingReview() bool {
	return s.Step == StepReview
}

// Input starts a run
type Input struct {
	JobDescription string
	// UserContext replaces the stored profile text when set
	UserContext string
	// ContentType selects the draft; empty builds the context only
	ContentType    drafting.ContentType
	AttachmentPath string
}

// Patch holds manual edits applied at review. Nil fields are left alone.
type Patch struct {
	Recipient      *string
	Subject        *string
	Body           *string
	AttachmentPath *string
}

// Empty reports whether the patch changes nothing
func (p Patch) Empty() bool {
	return p.Recipient == nil && p.Subject == nil && p.Body == nil && p.AttachmentPath == nil
}
