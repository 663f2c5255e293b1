package cmd

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	clog "github.com/xrsl/reachout/pkg/log"
	"github.com/xrsl/reachout/pkg/signal"
	"github.com/xrsl/reachout/pkg/style"
)

var (
	quiet       bool
	verbose     bool
	jsonLogs    bool
	metricsFile string
)

var rootCmd = &cobra.Command{
	Use:   "reachout",
	Short: "Draft job outreach with AI and send it after review",
	Long: `reachout turns a job description and your reference documents into
cold emails, professional network messages and cover letters.

Every draft pauses for review: refine it with feedback, edit it by hand,
or send it when it reads right. Sessions are kept in a local database so
a review can continue in a later run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if jsonLogs {
			clog.SetJSON(true)
			clog.SetOutput(os.Stderr)
		}
		clog.SetVerbose(verbose)
		clog.SetQuiet(quiet)
	},
}

func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, cancel := signal.WithInterrupt(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	flushMetrics()
	cancel()

	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	// Setup Typer-style help formatting
	style.SetupHelp(rootCmd)

	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging and raw model output on errors")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "log-json", false, "Write logs as JSON lines")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
}
