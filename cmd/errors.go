package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/xrsl/reachout/pkg/drafting"
	"github.com/xrsl/reachout/pkg/style"
	"github.com/xrsl/reachout/pkg/workflow"
)

// printError reports err by category. Raw model output is shown with --verbose.
func printError(err error) {
	var (
		validation *workflow.ValidationError
		schema     *drafting.SchemaError
		generation *drafting.GenerationError
		delivery   *workflow.DeliveryError
	)
	fail := style.C(style.Red, "✗")

	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(os.Stderr, "%s Interrupted\n", fail)
	case errors.As(err, &validation):
		fmt.Fprintf(os.Stderr, "%s %s\n", fail, validation.Error())
	case errors.As(err, &schema):
		fmt.Fprintf(os.Stderr, "%s %s\n", fail, schema.Error())
		fmt.Fprintf(os.Stderr, "  The session was left unchanged. Run the command again or refine with different feedback.\n")
		printRaw(schema.Raw)
	case errors.As(err, &generation):
		fmt.Fprintf(os.Stderr, "%s %s\n", fail, generation.Error())
		printRaw(generation.Raw)
	case errors.As(err, &delivery):
		fmt.Fprintf(os.Stderr, "%s %s\n", fail, delivery.Error())
		fmt.Fprintf(os.Stderr, "  Check SMTP settings with %s\n", style.C(style.Cyan, "reachout doctor"))
	case errors.Is(err, workflow.ErrSessionNotFound):
		fmt.Fprintf(os.Stderr, "%s %v\n", fail, err)
		fmt.Fprintf(os.Stderr, "  See sessions with %s\n", style.C(style.Cyan, "reachout list"))
	case errors.Is(err, workflow.ErrNotAwaitingReview):
		fmt.Fprintf(os.Stderr, "%s %v\n", fail, err)
		fmt.Fprintf(os.Stderr, "  Start a new run with %s\n", style.C(style.Cyan, "reachout generate --session <id>"))
	default:
		fmt.Fprintf(os.Stderr, "%s %v\n", fail, err)
	}
}

func printRaw(raw string) {
	if raw == "" {
		return
	}
	if !verbose {
		fmt.Fprintf(os.Stderr, "  Use --verbose to see the model output.\n")
		return
	}
	fmt.Fprintf(os.Stderr, "\n%s\n%s\n%s\n", style.Rule(40), raw, style.Rule(40))
}
