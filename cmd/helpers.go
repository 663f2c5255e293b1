package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/xrsl/reachout/pkg/ai"
	"github.com/xrsl/reachout/pkg/cache"
	"github.com/xrsl/reachout/pkg/config"
	"github.com/xrsl/reachout/pkg/drafting"
	"github.com/xrsl/reachout/pkg/export"
	clog "github.com/xrsl/reachout/pkg/log"
	"github.com/xrsl/reachout/pkg/mail"
	"github.com/xrsl/reachout/pkg/metrics"
	"github.com/xrsl/reachout/pkg/prompts"
	"github.com/xrsl/reachout/pkg/search"
	"github.com/xrsl/reachout/pkg/store"
	"github.com/xrsl/reachout/pkg/style"
	"github.com/xrsl/reachout/pkg/workflow"
)

func log(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// app is the wired set of collaborators a command works with
type app struct {
	cfg     *config.Config
	store   *store.SQLiteStore
	orch    *workflow.Orchestrator
	llm     ai.Client
	agent   string
	prompts *prompts.Library
}

type appOptions struct {
	// withLLM wires the synthesizer and generators; send, edit and the
	// read-only commands do without
	withLLM  bool
	agent    string
	noCache  bool
	noSearch bool
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}

func openApp(opts appOptions) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, store: st, prompts: prompts.New(prompts.DefaultDir)}

	var synth workflow.ContextBuilder
	drafters := map[drafting.ContentType]workflow.Drafter{}
	if opts.withLLM {
		agent := resolveAgent(cfg, opts.agent)
		client, err := ai.NewClient(agent)
		if err != nil {
			st.Close()
			return nil, err
		}
		a.llm, a.agent = client, agent

		var cc drafting.ContextCache
		if cfg.ContextCache && !opts.noCache {
			cc = cache.New(cache.DefaultDir)
		}
		sz := drafting.NewSynthesizer(client, a.prompts, cc)
		if cfg.WebSearch && !opts.noSearch {
			sz.WithSearcher(search.New("reachout/" + Version))
		}
		synth = sz
		drafters = workflow.Drafters(drafting.NewGenerators(client, a.prompts, identity(cfg)))
	} else {
		// still needed to check manual edits against the channel rules
		drafters = workflow.Drafters(drafting.NewGenerators(offlineLLM{}, a.prompts, identity(cfg)))
	}

	var rec workflow.Recorder
	if r := metricsRecorder(); r != nil {
		rec = r
	}

	a.orch = workflow.New(st, synth, drafters, dispatcher(cfg), workflow.Options{
		DispatchAll: cfg.DispatchAll,
		Recorder:    rec,
		History:     st,
	})
	return a, nil
}

// offlineLLM backs commands that never call a model
type offlineLLM struct{}

func (offlineLLM) GenerateContent(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("this command does not use an AI agent")
}

func (offlineLLM) Model() string { return "" }

func (a *app) Close() {
	if a.llm != nil {
		a.llm.Close()
	}
	if err := a.store.Close(); err != nil {
		clog.Warn("closing store", "error", err)
	}
}

// resolveAgent picks flag > config > best available
func resolveAgent(cfg *config.Config, flag string) string {
	if flag != "" {
		return flag
	}
	if cfg.Agent != "" {
		return cfg.Agent
	}
	return ai.DefaultAgent()
}

func identity(cfg *config.Config) drafting.Identity {
	return drafting.Identity{
		CandidateName:      cfg.CandidateName,
		Signature:          cfg.Signature,
		EmailPlaceholder:   cfg.EmailPlaceholder,
		MessagePlaceholder: cfg.MessagePlaceholder,
	}
}

// dispatcher routes email to SMTP and, with dispatch_all, the other
// channels to export files
func dispatcher(cfg *config.Config) workflow.Router {
	r := workflow.Router{
		drafting.Email: mail.Dispatcher{Sender: mail.NewSender(cfg.SMTP)},
	}
	if cfg.DispatchAll {
		exp := export.New(cfg.ExportDir)
		r[drafting.Message] = exp
		r[drafting.CoverLetter] = exp
	}
	return r
}

var (
	recorderOnce sync.Once
	recorder     *metrics.Recorder
)

// metricsRecorder returns the process recorder when --metrics-file is set
func metricsRecorder() *metrics.Recorder {
	if metricsFile == "" {
		return nil
	}
	recorderOnce.Do(func() { recorder = metrics.New(nil) })
	return recorder
}

func flushMetrics() {
	if recorder == nil || metricsFile == "" {
		return
	}
	if err := recorder.WriteTextfile(metricsFile); err != nil {
		clog.Warn("writing metrics file", "path", metricsFile, "error", err)
	}
}

// resolveSession accepts a full id or a unique prefix of one
func (a *app) resolveSession(ctx context.Context, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", &workflow.ValidationError{Reason: "session id is required"}
	}
	if s, err := a.store.Get(ctx, arg); err != nil {
		return "", err
	} else if s != nil {
		return arg, nil
	}

	all, err := a.store.List(ctx)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, s := range all {
		if strings.HasPrefix(s.SessionID, arg) {
			matches = append(matches, s.SessionID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", workflow.ErrSessionNotFound, arg)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("session prefix %q is ambiguous (%d matches)", arg, len(matches))
}

// withSpinner runs fn while drawing a spinner on stderr
func withSpinner[T any](msg string, fn func() (T, error)) (T, error) {
	if quiet || !style.IsInteractive() {
		return fn()
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			frame := style.SpinnerFrames[i%len(style.SpinnerFrames)]
			fmt.Fprintf(os.Stderr, "\r%s %s", style.C(style.Cyan, frame), msg)
			select {
			case <-done:
				fmt.Fprintf(os.Stderr, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()

	v, err := fn()
	close(done)
	wg.Wait()
	return v, err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
