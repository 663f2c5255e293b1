package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/xrsl/reachout/pkg/workflow"
)

var refineAgent string

var refineCmd = &cobra.Command{
	Use:   "refine <session> <feedback...>",
	Short: "Revise a draft with feedback",
	Long: `Send feedback on the current draft and get a revised one. The session
stays at review until you send it.

Examples:
  reachout refine 3f2a9c1e shorter, mention the Kafka migration
  reachout refine 3f2a9c1e "more formal tone"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRefine,
}

func init() {
	refineCmd.Flags().StringVarP(&refineAgent, "agent", "a", "", "AI agent (overrides config)")
	rootCmd.AddCommand(refineCmd)
}

func runRefine(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(appOptions{withLLM: true, agent: refineAgent})
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.resolveSession(ctx, args[0])
	if err != nil {
		return err
	}
	feedback := strings.Join(args[1:], " ")

	msg := "Revising draft with " + a.agent + "..."
	if strings.EqualFold(strings.TrimSpace(feedback), workflow.SendCommand) {
		msg = "Sending..."
	}
	st, err := withSpinner(msg, func() (*workflow.State, error) {
		return a.orch.Resume(ctx, id, feedback)
	})
	if st != nil {
		printState(st)
	}
	return err
}
