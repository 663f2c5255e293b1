package cmd

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/xrsl/reachout/pkg/style"
	"github.com/xrsl/reachout/pkg/workflow"
)

var (
	listPending bool
	listLimit   int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sessions",
	Long: `List sessions, most recently updated first.

Examples:
  reachout list
  reachout list --pending`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listPending, "pending", false, "Only sessions waiting for review")
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "Max sessions to list")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	sessions, err := a.orch.List(ctx)
	if err != nil {
		return err
	}

	var rows []*workflow.State
	for _, s := range sessions {
		if listPending && !s.AwaitingReview() {
			continue
		}
		rows = append(rows, s)
		if listLimit > 0 && len(rows) == listLimit {
			break
		}
	}

	if len(rows) == 0 {
		log("No sessions. Start one with: reachout generate <job> -t email")
		return nil
	}

	fmt.Printf("%s  %-20s %-8s %-4s %-30s %s\n",
		style.C(style.Gray, "ID      "), "TYPE", "STEP", "REV", "ROLE", "UPDATED")
	for _, s := range rows {
		step := string(s.Step)
		stepColor := style.Gray
		switch {
		case s.AwaitingReview():
			stepColor = style.Yellow
		case s.Step == workflow.StepTerminal:
			stepColor = style.Green
			step = "done"
		}
		fmt.Printf("%s  %-20s %s %-4d %-30s %s\n",
			style.C(style.Cyan, shortID(s.SessionID)),
			s.ContentType.Label(),
			style.C(stepColor, fmt.Sprintf("%-8s", step)),
			s.Revision,
			truncate(role(s), 30),
			style.C(style.Gray, ago(s.UpdatedAt)),
		)
	}
	return nil
}

func role(s *workflow.State) string {
	if s.Context == nil {
		return "-"
	}
	if s.Context.CompanyName == "" {
		return s.Context.JobTitle
	}
	return s.Context.JobTitle + " @ " + s.Context.CompanyName
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func ago(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
	return t.Format("2006-01-02")
}
