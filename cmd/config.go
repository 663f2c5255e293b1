package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xrsl/reachout/pkg/ai"
	"github.com/xrsl/reachout/pkg/config"
	"github.com/xrsl/reachout/pkg/style"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage reachout configuration",
	Long: `Show or change settings in .reachout.yaml.

SMTP credentials are read from the environment (EMAIL_HOST, EMAIL_PORT,
EMAIL_USER, EMAIL_PASSWORD) or a .env file, and are never written to the
config file.

Examples:
  reachout config
  reachout config get agent
  reachout config set candidate_name "Ada Lovelace"
  reachout config set dispatch_all true`,
	RunE: runConfigList,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		}
		if len(args) == 1 && args[0] == "agent" {
			return ai.SupportedAgents(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveDefault
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if key == "agent" && !ai.IsAgentCLI(value) && !ai.IsModelSupported(value) {
			fmt.Printf("%s %s is not a known agent; saving anyway\n", style.C(style.Yellow, "⚠"), value)
		}
		if err := config.Set(key, value); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a config value",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return config.Keys(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := config.Get(args[0])
		if err != nil {
			return err
		}
		if value == "" {
			fmt.Println("(not set)")
		} else {
			fmt.Println(value)
		}
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all config values",
	RunE:  runConfigList,
}

func runConfigList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("\n%s\n", style.C(style.Cyan, style.B("reachout config")))
	fmt.Printf("%s\n\n", style.C(style.Gray, config.Path()))

	section := func(name string) { fmt.Printf("%s\n", style.C(style.Cyan, name)) }

	section("ai")
	printConfigRow("agent", cfg.Agent, "auto")
	printConfigRow("context_cache", fmt.Sprint(cfg.ContextCache), "")
	printConfigRow("web_search", fmt.Sprint(cfg.WebSearch), "")

	section("\ncandidate")
	printConfigRow("candidate_name", cfg.CandidateName, "")
	printConfigRow("signature", strings.ReplaceAll(cfg.Signature, "\n", " / "), "")
	printConfigRow("reference_path", cfg.ReferencePath, "")

	section("\ndrafts")
	printConfigRow("email_placeholder", cfg.EmailPlaceholder, "")
	printConfigRow("message_placeholder", cfg.MessagePlaceholder, "")
	printConfigRow("dispatch_all", fmt.Sprint(cfg.DispatchAll), "")
	printConfigRow("export_dir", cfg.ExportDir, "")
	printConfigRow("store_path", cfg.StorePath, "")
	printConfigRow("repo", cfg.Repo, "")

	section("\nsmtp")
	printConfigRow("smtp.host", cfg.SMTP.Host, "EMAIL_HOST")
	printConfigRow("smtp.port", cfg.SMTP.Port, "EMAIL_PORT")
	printConfigRow("smtp.user", cfg.SMTP.User, "EMAIL_USER")
	password := ""
	if cfg.SMTP.Password != "" {
		password = "********"
	}
	printConfigRow("smtp.password", password, "EMAIL_PASSWORD")
	printConfigRow("smtp.from", cfg.SMTP.From, "")

	fmt.Println()
	return nil
}

func printConfigRow(key, value, defaultHint string) {
	switch {
	case value != "":
		fmt.Printf("  %-20s %s\n", key, style.C(style.Green, value))
	case defaultHint != "":
		fmt.Printf("  %-20s %s\n", key, style.C(style.Gray, "("+defaultHint+")"))
	default:
		fmt.Printf("  %-20s %s\n", key, style.C(style.Gray, "(not set)"))
	}
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}
