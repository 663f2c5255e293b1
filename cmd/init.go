package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xrsl/reachout/pkg/ai"
	"github.com/xrsl/reachout/pkg/cache"
	"github.com/xrsl/reachout/pkg/config"
	"github.com/xrsl/reachout/pkg/prompts"
	"github.com/xrsl/reachout/pkg/style"
)

var (
	initResetPrompts bool
	initYes          bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize reachout in this directory",
	Long: `Create the configuration file and working directory.

Creates:
  .reachout.yaml          Configuration file
  .reachout/prompts/      Prompt templates (edit to change how drafts are written)
  .reachout/cache/        Cached job contexts
  .reachout/out/          Exported drafts

Use -r to restore the default prompts after editing them.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initResetPrompts, "reset-prompts", "r", false, "Overwrite prompt files with the defaults")
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Accept defaults without asking")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	for _, dir := range []string{prompts.DefaultDir, cache.DefaultDir, cfg.ExportDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := ensureGitignore(workDir); err != nil {
		return err
	}
	if err := prompts.WriteDefaults(prompts.DefaultDir, initResetPrompts); err != nil {
		return fmt.Errorf("failed to write prompts: %w", err)
	}
	fmt.Printf("%s Prompts in %s\n", style.C(style.Green, "✓"), style.C(style.Cyan, prompts.DefaultDir))

	_, statErr := os.Stat(config.Path())
	if statErr == nil && !initResetPrompts {
		fmt.Printf("%s Already initialized\n", style.C(style.Green, "✓"))
		fmt.Printf("  Config: %s\n\n", style.C(style.Gray, config.Path()))
		return nil
	}

	if !initYes && style.IsInteractive() {
		askSettings(cfg)
	}
	if cfg.Agent == "" || cfg.Agent == config.DefaultAgent {
		cfg.Agent = ai.DefaultAgent()
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("%s Config written to %s\n\n", style.C(style.Green, "✓"), style.C(style.Cyan, config.Path()))
	fmt.Printf("%s Try: %s\n\n", style.C(style.Green, style.B("Ready!")), style.C(style.Cyan, "reachout generate job.md -t email"))
	return nil
}

const workDir = ".reachout"

// ensureGitignore keeps sessions and cached contexts out of git. Prompts stay tracked.
func ensureGitignore(dir string) error {
	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	content := "*\n!.gitignore\n!prompts/\n!prompts/*.md\n"
	return os.WriteFile(path, []byte(content), 0o644)
}

// askSettings walks through the candidate settings, keeping current values on Enter
func askSettings(cfg *config.Config) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("\n%s\n\n", style.C(style.Gray, "Press Enter to accept defaults shown in brackets."))

	ask := func(label, current string) string {
		fmt.Printf("%s %s ", style.C(style.Green, "?"), label)
		if current != "" {
			fmt.Printf("%s", style.C(style.Cyan, "["+current+"]"))
		}
		fmt.Print(": ")
		input, _ := reader.ReadString('\n')
		if input = strings.TrimSpace(input); input != "" {
			return input
		}
		return current
	}

	cfg.CandidateName = ask("Your name", cfg.CandidateName)
	sig := ask("Email signature (use \\n for new lines)", strings.ReplaceAll(cfg.Signature, "\n", `\n`))
	cfg.Signature = strings.ReplaceAll(sig, `\n`, "\n")
	cfg.ReferencePath = ask("Reference documents (file or directory)", cfg.ReferencePath)

	agents := ai.SupportedAgents()
	current := cfg.Agent
	if current == "" || current == config.DefaultAgent {
		current = ai.DefaultAgent()
	}
	fmt.Printf("%s AI agent\n", style.C(style.Green, "?"))
	for i, a := range agents {
		marker := "   "
		if a == current {
			marker = "  " + style.C(style.Green, "→")
		}
		note := ""
		if env := ai.CredentialEnv(a); env != "" && os.Getenv(env) == "" {
			note = style.C(style.Gray, " (requires "+env+")")
		}
		fmt.Printf("%s%s %s%s\n", marker, style.C(style.Cyan, strconv.Itoa(i+1)+")"), a, note)
	}
	choice := ask("Choice", current)
	if idx, err := strconv.Atoi(choice); err == nil && idx >= 1 && idx <= len(agents) {
		cfg.Agent = agents[idx-1]
	} else {
		cfg.Agent = choice
	}
	fmt.Println()
}
