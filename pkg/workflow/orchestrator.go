package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xrsl/reachout/pkg/drafting"
	"github.com/xrsl/reachout/pkg/log"
)

// SendCommand is the feedback that approves a draft
const SendCommand = "send"

// ContextBuilder synthesizes the shared context. *drafting.Synthesizer satisfies it.
type ContextBuilder interface {
	Synthesize(ctx context.Context, jobDescription, userContext string) (*drafting.Context, drafting.Provenance, error)
}

// Drafter produces one channel's draft. *drafting.Generator satisfies it.
type Drafter interface {
	Draft(ctx context.Context, req drafting.Request) (*drafting.Draft, drafting.Provenance, error)
}

// draftChecker is implemented by drafters that can validate hand-edited drafts
type draftChecker interface {
	Ready() error
	Check(d drafting.Draft) (*drafting.Draft, error)
}

// Drafters converts a generator set into the orchestrator's drafter map
func Drafters(gens map[drafting.ContentType]*drafting.Generator) map[drafting.ContentType]Drafter {
	out := make(map[drafting.ContentType]Drafter, len(gens))
	for t, g := range gens {
		out[t] = g
	}
	return out
}

// Recorder observes the workflow, e.g. for metrics
type Recorder interface {
	Transition(from, to string)
	Generation(stage string, elapsed time.Duration, err error)
	Delivery(contentType string, err error)
}

// Options tune an Orchestrator. The zero value is usable.
type Options struct {
	// DispatchAll sends every content type through Dispatch on "send",
	// not only email.
	DispatchAll bool
	Recorder    Recorder
	History     History
	Logger      *slog.Logger
	Now         func() time.Time
}

// Orchestrator owns session state and decides transitions.
type Orchestrator struct {
	store      Store
	synth      ContextBuilder
	drafters   map[drafting.ContentType]Drafter
	dispatcher Dispatcher
	opts       Options
	logger     *slog.Logger
	locks      keyedMutex
}

// New creates an orchestrator. dispatcher may be nil when nothing is ever sent.
func New(store Store, synth ContextBuilder, drafters map[drafting.ContentType]Drafter, dispatcher Dispatcher, opts Options) *Orchestrator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Component("workflow")
	}
	return &Orchestrator{
		store:      store,
		synth:      synth,
		drafters:   drafters,
		dispatcher: dispatcher,
		opts:       opts,
		logger:     logger,
	}
}

// Start begins a run for sessionID: builds (or reuses) the context, drafts
// the requested content and pauses at review. With no content type the run
// ends after the context is built.
func (o *Orchestrator) Start(ctx context.Context, sessionID string, in Input) (*State, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, invalid("session id is required")
	}
	if strings.TrimSpace(in.JobDescription) == "" {
		return nil, invalid("job description is required")
	}
	if in.ContentType != "" {
		if !in.ContentType.Valid() {
			return nil, invalid("unknown content type %q", in.ContentType)
		}
		d, ok := o.drafters[in.ContentType]
		if !ok {
			return nil, invalid("no drafter configured for %s", in.ContentType.Label())
		}
		if c, ok := d.(draftChecker); ok {
			if err := c.Ready(); err != nil {
				return nil, invalid("%v", err)
			}
		}
	}

	unlock := o.locks.Lock(sessionID)
	defer unlock()

	stored, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var work *State
	if stored == nil {
		work = &State{SessionID: sessionID, CreatedAt: o.opts.Now()}
	} else {
		work = stored.Clone()
	}

	// a new run on an existing session keeps the context cache and profile
	work.JobDescription = in.JobDescription
	if in.UserContext != "" {
		work.UserContext = in.UserContext
	}
	if in.AttachmentPath != "" {
		work.AttachmentPath = in.AttachmentPath
	}
	work.ContentType = in.ContentType
	work.Draft = nil
	work.Feedback = ""
	work.Delivery = ""
	work.Step = StepStart

	if err := o.buildContext(ctx, work); err != nil {
		return nil, err
	}

	if work.ContentType == "" {
		o.transition(work, StepTerminal)
		return o.save(ctx, work)
	}

	if err := o.draft(ctx, work, drafting.Request{Context: work.Context}); err != nil {
		return nil, err
	}
	return o.saveDraft(ctx, work)
}

// Resume continues a session paused at review. "send" (any case) finalizes
// the draft; any other feedback produces a revised draft.
func (o *Orchestrator) Resume(ctx context.Context, sessionID, feedback string) (*State, error) {
	fb := strings.TrimSpace(feedback)
	if fb == "" {
		return nil, invalid("feedback is required to resume a session")
	}

	unlock := o.locks.Lock(sessionID)
	defer unlock()

	work, err := o.loadForReview(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	work.Feedback = fb

	if strings.ToLower(fb) == SendCommand {
		return o.finalize(ctx, work)
	}

	if err := o.draft(ctx, work, drafting.Request{Context: work.Context, Prior: work.Draft, Feedback: fb}); err != nil {
		return nil, err
	}
	return o.saveDraft(ctx, work)
}

// Update applies manual edits to the draft of a session at review.
func (o *Orchestrator) Update(ctx context.Context, sessionID string, p Patch) (*State, error) {
	if p.Empty() {
		return nil, invalid("nothing to update")
	}

	unlock := o.locks.Lock(sessionID)
	defer unlock()

	work, err := o.loadForReview(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if work.ContentType == drafting.CoverLetter && (p.Recipient != nil || p.Subject != nil) {
		return nil, invalid("cover letters have no recipient or subject")
	}
	if p.Body != nil && strings.TrimSpace(*p.Body) == "" {
		return nil, invalid("body cannot be empty")
	}

	if p.AttachmentPath != nil {
		work.AttachmentPath = strings.TrimSpace(*p.AttachmentPath)
	}
	if p.Recipient == nil && p.Subject == nil && p.Body == nil {
		return o.save(ctx, work)
	}

	edited := *work.Draft
	if p.Recipient != nil {
		edited.Recipient = strings.TrimSpace(*p.Recipient)
	}
	if p.Subject != nil {
		edited.Subject = strings.TrimSpace(*p.Subject)
	}
	if p.Body != nil {
		edited.Body = strings.TrimSpace(*p.Body)
	}
	// manual edits follow the same channel rules as generated drafts
	if c, ok := o.drafters[work.ContentType].(draftChecker); ok {
		checked, err := c.Check(edited)
		if err != nil {
			return nil, invalid("%v", err)
		}
		edited = *checked
	}
	work.Draft = &edited

	work.Revision++
	work.ModelUsed = "manual"
	work.PromptVersion = ""
	return o.saveDraft(ctx, work)
}

// Get returns the stored state of a session
func (o *Orchestrator) Get(ctx context.Context, sessionID string) (*State, error) {
	s, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return s, nil
}

// Delete removes a session
func (o *Orchestrator) Delete(ctx context.Context, sessionID string) error {
	unlock := o.locks.Lock(sessionID)
	defer unlock()

	s, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return o.store.Delete(ctx, sessionID)
}

// List returns every stored session
func (o *Orchestrator) List(ctx context.Context) ([]*State, error) {
	return o.store.List(ctx)
}

func (o *Orchestrator) loadForReview(ctx context.Context, sessionID string) (*State, error) {
	stored, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if !stored.AwaitingReview() {
		return nil, fmt.Errorf("%w: %s is at %s", ErrNotAwaitingReview, sessionID, stored.Step)
	}
	if stored.Draft == nil {
		return nil, fmt.Errorf("%w: %s has no draft", ErrNotAwaitingReview, sessionID)
	}
	return stored.Clone(), nil
}

// buildContext runs content_generation, skipping the model when the
// context was built from the same job description.
func (o *Orchestrator) buildContext(ctx context.Context, work *State) error {
	o.transition(work, StepContentGeneration)
	if work.Context != nil && work.ContextSource == work.JobDescription {
		o.logger.Debug("reusing context", "session", work.SessionID)
		return nil
	}

	start := time.Now()
	c, prov, err := o.synth.Synthesize(ctx, work.JobDescription, work.UserContext)
	o.generation(string(StepContentGeneration), start, err)
	if err != nil {
		if errors.Is(err, drafting.ErrEmptyJobDescription) {
			return invalid("job description is required")
		}
		return err
	}

	work.Context = c
	work.ContextSource = work.JobDescription
	work.ModelUsed = prov.Model
	work.PromptVersion = prov.PromptVersion
	return nil
}

// draft runs the drafting step for the session's content type and moves
// to review.
func (o *Orchestrator) draft(ctx context.Context, work *State, req drafting.Request) error {
	step := draftStep(work.ContentType)
	drafter, ok := o.drafters[work.ContentType]
	if !ok {
		return invalid("no drafter configured for %s", work.ContentType.Label())
	}
	o.transition(work, step)

	start := time.Now()
	d, prov, err := drafter.Draft(ctx, req)
	o.generation(string(step), start, err)
	if err != nil {
		if errors.Is(err, drafting.ErrMissingSignature) {
			return invalid("%v", err)
		}
		return err
	}

	d.Type = work.ContentType
	work.Draft = d
	work.Revision++
	work.ModelUsed = prov.Model
	work.PromptVersion = prov.PromptVersion

	o.transition(work, StepReview)
	return nil
}

// finalize handles "send": dispatch when configured for the type, then terminal.
func (o *Orchestrator) finalize(ctx context.Context, work *State) (*State, error) {
	if work.ContentType != drafting.Email && !o.opts.DispatchAll {
		o.transition(work, StepTerminal)
		work.Delivery = "Approved"
		return o.save(ctx, work)
	}

	o.transition(work, StepDispatch)
	var outcome string
	err := errors.New("no delivery configured")
	if o.dispatcher != nil {
		outcome, err = o.dispatcher.Dispatch(ctx, *work.Draft, work.AttachmentPath)
	}
	if o.opts.Recorder != nil {
		o.opts.Recorder.Delivery(string(work.ContentType), err)
	}

	o.transition(work, StepTerminal)
	if err != nil {
		derr := &DeliveryError{Err: err}
		work.Delivery = derr.Error()
		o.logger.Warn("dispatch failed", "session", work.SessionID, "error", err)
		saved, serr := o.save(ctx, work)
		if serr != nil {
			return nil, errors.Join(derr, serr)
		}
		return saved, derr
	}

	work.Delivery = outcome
	return o.save(ctx, work)
}

func (o *Orchestrator) save(ctx context.Context, work *State) (*State, error) {
	work.UpdatedAt = o.opts.Now()
	if err := o.store.Put(ctx, work); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return work, nil
}

// saveDraft stores a session holding a new draft revision and appends it to the history
func (o *Orchestrator) saveDraft(ctx context.Context, work *State) (*State, error) {
	saved, err := o.save(ctx, work)
	if err != nil {
		return nil, err
	}
	o.record(ctx, saved)
	return saved, nil
}

func (o *Orchestrator) transition(work *State, to Step) {
	from := work.Step
	work.Step = to
	o.logger.Debug("transition", "session", work.SessionID, "from", from, "to", to)
	if o.opts.Recorder != nil {
		o.opts.Recorder.Transition(string(from), string(to))
	}
}

func (o *Orchestrator) generation(stage string, start time.Time, err error) {
	if o.opts.Recorder != nil {
		o.opts.Recorder.Generation(stage, time.Since(start), err)
	}
}

// record appends the current draft to the history. History is best effort.
func (o *Orchestrator) record(ctx context.Context, work *State) {
	if o.opts.History == nil || work.Draft == nil {
		return
	}
	err := o.opts.History.RecordDraft(ctx, DraftRecord{
		SessionID:     work.SessionID,
		Revision:      work.Revision,
		Draft:         *work.Draft,
		Feedback:      work.Feedback,
		ModelUsed:     work.ModelUsed,
		PromptVersion: work.PromptVersion,
		CreatedAt:     o.opts.Now(),
	})
	if err != nil {
		o.logger.Warn("draft history write failed", "session", work.SessionID, "error", err)
	}
}
