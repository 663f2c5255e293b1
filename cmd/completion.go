package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xrsl/reachout/pkg/config"
	"github.com/xrsl/reachout/pkg/store"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for reachout. Session ids and content
types complete from the local session database.

Bash:
  $ source <(reachout completion bash)

Zsh:
  $ reachout completion zsh > "${fpath[1]}/_reachout"

Fish:
  $ reachout completion fish > ~/.config/fish/completions/reachout.fish

PowerShell:
  PS> reachout completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)

	for _, c := range []*cobra.Command{refineCmd, sendCmd, editCmd, showCmd, historyCmd} {
		c.ValidArgsFunction = completeFirstSession
	}
	rmCmd.ValidArgsFunction = completeSessions
	_ = generateCmd.RegisterFlagCompletionFunc("session", completeSessions)
	_ = generateCmd.RegisterFlagCompletionFunc("type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"email", "message", "cover-letter"}, cobra.ShellCompDirectiveNoFileComp
	})
}

func completeFirstSession(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeSessions(cmd, args, toComplete)
}

// completeSessions offers "<id>\t<label>" pairs from the session store
func completeSessions(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	if _, err := os.Stat(cfg.StorePath); err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sessions, err := st.List(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, s := range sessions {
		if !strings.HasPrefix(s.SessionID, toComplete) {
			continue
		}
		label := s.ContentType.Label()
		if s.Context != nil && s.Context.CompanyName != "" {
			label += " " + s.Context.CompanyName
		}
		out = append(out, s.SessionID+"\t"+label)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
