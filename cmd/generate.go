package cmd

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/xrsl/reachout/pkg/drafting"
	"github.com/xrsl/reachout/pkg/jobtext"
	"github.com/xrsl/reachout/pkg/profile"
	"github.com/xrsl/reachout/pkg/workflow"
)

var (
	genType     string
	genIssue    int
	genRepo     string
	genSession  string
	genProfile  string
	genAttach   string
	genAgent    string
	genNoCache  bool
	genNoSearch bool
)

var generateCmd = &cobra.Command{
	Use:     "generate [file|url|-]",
	Aliases: []string{"gen"},
	Short:   "Draft outreach for a job description",
	Long: `Build a context from the job description and your reference documents,
then draft the requested content and pause for review.

The job description can be a file, a URL (the page text is extracted), "-"
for stdin, or a GitHub issue with --issue. Without --type only the context
is built.

Examples:
  reachout generate job.md -t email
  reachout generate https://acme.io/jobs/42 -t cover-letter
  pbpaste | reachout generate - -t message
  reachout generate --issue 12 -t email --attach cv.pdf
  reachout generate job.md -t message --session 3f2a9c1e   # new run on an existing session`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genType, "type", "t", "", "Content type: email, message, cover-letter")
	generateCmd.Flags().IntVarP(&genIssue, "issue", "i", 0, "Read the job description from a GitHub issue")
	generateCmd.Flags().StringVarP(&genRepo, "repo", "r", "", "GitHub repo for --issue (overrides config)")
	generateCmd.Flags().StringVarP(&genSession, "session", "s", "", "Reuse a session id instead of creating one")
	generateCmd.Flags().StringVarP(&genProfile, "profile", "p", "", "Reference documents file or directory (overrides config)")
	generateCmd.Flags().StringVar(&genAttach, "attach", "", "File to attach when the email is sent")
	generateCmd.Flags().StringVarP(&genAgent, "agent", "a", "", "AI agent (overrides config)")
	generateCmd.Flags().BoolVar(&genNoCache, "no-cache", false, "Always call the model for the context")
	generateCmd.Flags().BoolVar(&genNoSearch, "no-search", false, "Skip the web search for recruiter details")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ct, err := drafting.ParseContentType(genType)
	if err != nil {
		return &workflow.ValidationError{Reason: err.Error()}
	}

	a, err := openApp(appOptions{withLLM: true, agent: genAgent, noCache: genNoCache, noSearch: genNoSearch})
	if err != nil {
		return err
	}
	defer a.Close()

	fetcher := jobtext.New("reachout/" + Version)
	var jd string
	switch {
	case genIssue > 0:
		repo := genRepo
		if repo == "" {
			repo = a.cfg.Repo
		}
		jd, err = fetcher.FromIssue(ctx, repo, genIssue)
	case len(args) == 1:
		jd, err = fetcher.Load(ctx, args[0])
	default:
		return &workflow.ValidationError{Reason: "a job description source or --issue is required"}
	}
	if err != nil {
		return err
	}

	profilePath := genProfile
	if profilePath == "" {
		profilePath = a.cfg.ReferencePath
	}
	userContext, err := profile.FromPath(a.cfg.CandidateName, profilePath)
	if err != nil {
		return err
	}

	id := genSession
	if id == "" {
		id = uuid.NewString()
	} else if resolved, err := a.resolveSession(ctx, id); err == nil {
		id = resolved
	} else if !errors.Is(err, workflow.ErrSessionNotFound) {
		return err
	}

	msg := fmt.Sprintf("Drafting %s with %s...", ct.Label(), a.agent)
	if ct == "" {
		msg = fmt.Sprintf("Building context with %s...", a.agent)
	}
	st, err := withSpinner(msg, func() (*workflow.State, error) {
		return a.orch.Start(ctx, id, workflow.Input{
			JobDescription: jd,
			UserContext:    userContext,
			ContentType:    ct,
			AttachmentPath: genAttach,
		})
	})
	if err != nil {
		return err
	}

	printState(st)
	return nil
}
