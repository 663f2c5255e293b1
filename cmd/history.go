package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xrsl/reachout/pkg/style"
)

var historyFull bool

var historyCmd = &cobra.Command{
	Use:   "history <session>",
	Short: "Show every draft revision of a session",
	Long: `List the drafts a session produced, with the feedback that led to each
and the model and prompt version that wrote it.

Examples:
  reachout history 3f2a9c1e
  reachout history 3f2a9c1e --full`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyFull, "full", false, "Print each draft body")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
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
	records, err := a.store.Drafts(ctx, id)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		log("No drafts recorded for %s", shortID(id))
		return nil
	}

	for _, r := range records {
		fmt.Printf("%s %s %s\n",
			style.C(style.Cyan, fmt.Sprintf("rev %d", r.Revision)),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			style.C(style.Gray, r.ModelUsed+" "+r.PromptVersion))
		if r.Feedback != "" {
			fmt.Printf("  %s %s\n", style.C(style.Gray, "feedback:"), r.Feedback)
		}
		if r.Draft.Subject != "" {
			fmt.Printf("  %s %s\n", style.C(style.Gray, "subject: "), r.Draft.Subject)
		}
		if historyFull {
			printDraft(&r.Draft, "")
		}
	}
	return nil
}
