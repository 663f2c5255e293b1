package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xrsl/reachout/pkg/ai"
	"github.com/xrsl/reachout/pkg/config"
	"github.com/xrsl/reachout/pkg/gh"
	"github.com/xrsl/reachout/pkg/mail"
	"github.com/xrsl/reachout/pkg/profile"
	"github.com/xrsl/reachout/pkg/prompts"
	"github.com/xrsl/reachout/pkg/store"
	"github.com/xrsl/reachout/pkg/style"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check reachout setup",
	Long:  `Verify the AI agent, prompts, reference documents, session store and SMTP settings.`,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var (
	okMark   = func() string { return style.C(style.Green, "✓") }
	failMark = func() string { return style.C(style.Red, "✗") }
	warnMark = func() string { return style.C(style.Yellow, "⚠") }
)

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	allGood := true

	fmt.Printf("%s %s\n\n", style.C(style.Gray, "Config:"), config.Path())

	fmt.Printf("%s Checking AI agent\n\n", style.C(style.Blue, "→"))
	agent := resolveAgent(cfg, "")
	switch {
	case ai.IsAgentCLI(agent):
		bin := "claude"
		if strings.HasPrefix(agent, "gemini-cli") {
			bin = "gemini"
		}
		if _, err := exec.LookPath(bin); err != nil {
			fmt.Printf("%s %s not found in PATH\n", failMark(), bin)
			allGood = false
		} else {
			fmt.Printf("%s %s available\n", okMark(), agent)
		}
	default:
		if !ai.IsModelSupported(agent) {
			fmt.Printf("%s %s is not a known model\n", warnMark(), agent)
		}
		if env := ai.CredentialEnv(agent); env != "" && os.Getenv(env) == "" {
			fmt.Printf("%s %s not set (required for %s)\n", failMark(), env, agent)
			allGood = false
		} else {
			fmt.Printf("%s %s configured\n", okMark(), agent)
		}
	}

	fmt.Printf("\n%s Checking prompts and documents\n\n", style.C(style.Blue, "→"))
	lib := prompts.New(prompts.DefaultDir)
	for _, name := range prompts.Names() {
		src, override, err := lib.Source(name)
		if err != nil {
			fmt.Printf("%s prompt %s: %v\n", failMark(), name, err)
			allGood = false
			continue
		}
		where := "built-in"
		if override {
			where = "custom"
		}
		fmt.Printf("%s prompt %-13s %s\n", okMark(), name, style.C(style.Gray, where+" "+prompts.Version(name, src)))
	}

	switch sig := identity(cfg).SignatureBlock(); {
	case sig == "":
		fmt.Printf("%s neither signature nor candidate_name is set (emails cannot be drafted)\n", failMark())
		allGood = false
	case cfg.Signature == "":
		fmt.Printf("%s signature not set, emails close with %q\n", warnMark(), sig)
	default:
		fmt.Printf("%s email signature configured\n", okMark())
	}
	if cfg.WebSearch {
		fmt.Printf("%s recruiter details checked with web search\n", okMark())
	} else {
		fmt.Printf("%s web_search off (recruiter fields only from the job text)\n", warnMark())
	}
	if cfg.ReferencePath == "" {
		fmt.Printf("%s reference_path not set (drafts will not use your background)\n", warnMark())
	} else if docs, err := profile.Load(cfg.ReferencePath); err != nil {
		fmt.Printf("%s reference documents: %v\n", failMark(), err)
		allGood = false
	} else {
		fmt.Printf("%s %d reference documents in %s\n", okMark(), len(docs), cfg.ReferencePath)
	}

	fmt.Printf("\n%s Checking storage\n\n", style.C(style.Blue, "→"))
	if st, err := store.Open(cfg.StorePath); err != nil {
		fmt.Printf("%s session store: %v\n", failMark(), err)
		allGood = false
	} else {
		fmt.Printf("%s session store %s\n", okMark(), cfg.StorePath)
		st.Close()
	}

	fmt.Printf("\n%s Checking delivery\n\n", style.C(style.Blue, "→"))
	if err := mail.Validate(cfg.SMTP); err != nil {
		fmt.Printf("%s %v (emails cannot be sent)\n", warnMark(), err)
	} else {
		fmt.Printf("%s SMTP %s:%s as %s\n", okMark(), cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From)
	}
	if cfg.DispatchAll {
		fmt.Printf("%s messages and cover letters export to %s\n", okMark(), cfg.ExportDir)
	}
	if cfg.Repo != "" {
		if gh.IsAvailable() {
			fmt.Printf("%s gh available for --issue (%s)\n", okMark(), cfg.Repo)
		} else {
			fmt.Printf("%s gh not found; --issue will not work\n", warnMark())
		}
	}

	fmt.Println()
	if !allGood {
		return fmt.Errorf("setup issues detected")
	}
	fmt.Printf("%s Setup OK\n", okMark())
	return nil
}
