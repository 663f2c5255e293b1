package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xrsl/reachout/pkg/export"
	"github.com/xrsl/reachout/pkg/style"
)

var (
	showYAML    bool
	showContext bool
)

var showCmd = &cobra.Command{
	Use:   "show <session>",
	Short: "Show a session",
	Long: `Print the current draft of a session, or the whole session as YAML.

Examples:
  reachout show 3f2a9c1e
  reachout show 3f2a9c1e --context
  reachout show 3f2a9c1e --yaml > session.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showYAML, "yaml", false, "Print the full session as YAML")
	showCmd.Flags().BoolVarP(&showContext, "context", "c", false, "Include the synthesized job context")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
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
	st, err := a.orch.Get(ctx, id)
	if err != nil {
		return err
	}

	if showYAML {
		data, err := export.Marshal(st)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	}

	printState(st)
	if showContext && st.Context != nil {
		c := st.Context
		g := c.Generated
		fmt.Printf("%s\n", style.B("Context"))
		fmt.Printf("  %s %s\n", style.C(style.Gray, "Summary:"), g.RoleSummary)
		if e := c.RecruiterEmail(); e != "" {
			fmt.Printf("  %s %s\n", style.C(style.Gray, "Recruiter:"), e)
		}
		if len(g.KeySkillAlignment) > 0 {
			fmt.Printf("  %s\n", style.C(style.Gray, "Skills:"))
			for _, s := range g.KeySkillAlignment {
				fmt.Printf("    - %s\n", s)
			}
		}
		if len(g.RelevantProjects) > 0 {
			fmt.Printf("  %s\n", style.C(style.Gray, "Projects:"))
			for _, p := range g.RelevantProjects {
				fmt.Printf("    - %s %s\n", p.Name, style.C(style.Gray, strings.Join(p.TechStack, ", ")))
			}
		}
		fmt.Printf("  %s %s\n\n", style.C(style.Gray, "Value:"), g.ValueProposition)
	}
	return nil
}
