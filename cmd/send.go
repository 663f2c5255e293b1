package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xrsl/reachout/pkg/drafting"
	"github.com/xrsl/reachout/pkg/workflow"
)

var sendAttach string

var sendCmd = &cobra.Command{
	Use:     "send <session>",
	Aliases: []string{"approve"},
	Short:   "Approve a draft and send it",
	Long: `Finalize the draft under review. Emails are sent over SMTP; other drafts
are marked approved, or exported when dispatch_all is set.

A session is sent at most once. If delivery fails the session still ends,
and the error is shown.

Examples:
  reachout send 3f2a9c1e
  reachout send 3f2a9c1e --attach cv.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendAttach, "attach", "", "File to attach (overrides the one given at generate)")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.resolveSession(ctx, args[0])
	if err != nil {
		return err
	}

	if sendAttach != "" {
		if _, err := a.orch.Update(ctx, id, workflow.Patch{AttachmentPath: &sendAttach}); err != nil {
			return err
		}
	}

	current, err := a.orch.Get(ctx, id)
	if err != nil {
		return err
	}
	msg := "Finalizing..."
	if current.ContentType == drafting.Email {
		msg = "Sending email..."
	}

	st, err := withSpinner(msg, func() (*workflow.State, error) {
		return a.orch.Resume(ctx, id, workflow.SendCommand)
	})
	if st != nil {
		printState(st)
	}
	return err
}
