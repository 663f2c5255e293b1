package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xrsl/reachout/pkg/cache"
	"github.com/xrsl/reachout/pkg/style"
	"github.com/xrsl/reachout/pkg/workflow"
)

var (
	rmOlderThan time.Duration
	rmCache     bool
)

var rmCmd = &cobra.Command{
	Use:   "rm [session...]",
	Short: "Remove sessions",
	Long: `Delete sessions and their draft history, or prune old ones.

Examples:
  reachout rm 3f2a9c1e
  reachout rm --older-than 720h
  reachout rm --cache                       # clear cached job contexts
  reachout rm --cache --older-than 168h`,
	RunE: runRm,
}

func init() {
	rmCmd.Flags().DurationVar(&rmOlderThan, "older-than", 0, "Remove sessions not updated within this duration")
	rmCmd.Flags().BoolVar(&rmCache, "cache", false, "Clear the context cache instead of sessions")
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if rmCache {
		var cutoff time.Time
		if rmOlderThan > 0 {
			cutoff = time.Now().Add(-rmOlderThan)
		}
		n, err := cache.New(cache.DefaultDir).Clear(cutoff)
		if err != nil {
			return err
		}
		fmt.Printf("%s%d cached contexts\n", style.Success("Removed"), n)
		return nil
	}

	if len(args) == 0 && rmOlderThan == 0 {
		return &workflow.ValidationError{Reason: "give session ids or --older-than"}
	}

	a, err := openApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if rmOlderThan > 0 {
		n, err := a.store.Prune(ctx, rmOlderThan)
		if err != nil {
			return err
		}
		fmt.Printf("%s%d sessions older than %s\n", style.Success("Removed"), n, rmOlderThan)
	}

	for _, arg := range args {
		id, err := a.resolveSession(ctx, arg)
		if err != nil {
			return err
		}
		if err := a.orch.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("%s%s\n", style.Success("Deleted"), style.C(style.Cyan, id))
	}
	return nil
}
