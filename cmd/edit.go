package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xrsl/reachout/pkg/workflow"
)

var (
	editRecipient string
	editSubject   string
	editBodyFile  string
	editAttach    string
	editEditor    bool
)

var editCmd = &cobra.Command{
	Use:   "edit <session>",
	Short: "Edit a draft by hand before sending",
	Long: `Change the recipient, subject, body or attachment of a draft under review.
Hand edits are kept in the draft history as a new revision.

Examples:
  reachout edit 3f2a9c1e --recipient jane@acme.io
  reachout edit 3f2a9c1e --body-file draft.txt
  reachout edit 3f2a9c1e -e                        # open the body in $EDITOR`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editRecipient, "recipient", "", "New recipient")
	editCmd.Flags().StringVar(&editSubject, "subject", "", "New subject")
	editCmd.Flags().StringVar(&editBodyFile, "body-file", "", "Read the new body from a file (- for stdin)")
	editCmd.Flags().StringVar(&editAttach, "attach", "", "Attachment path")
	editCmd.Flags().BoolVarP(&editEditor, "editor", "e", false, "Edit the body in $EDITOR")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
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

	var p workflow.Patch
	flags := cmd.Flags()
	if flags.Changed("recipient") {
		p.Recipient = &editRecipient
	}
	if flags.Changed("subject") {
		p.Subject = &editSubject
	}
	if flags.Changed("attach") {
		p.AttachmentPath = &editAttach
	}

	switch {
	case editBodyFile != "":
		body, err := readBodyFile(editBodyFile)
		if err != nil {
			return err
		}
		p.Body = &body
	case editEditor:
		st, err := a.orch.Get(ctx, id)
		if err != nil {
			return err
		}
		if st.Draft == nil {
			return fmt.Errorf("%w: %s has no draft", workflow.ErrNotAwaitingReview, id)
		}
		body, err := editInEditor(st.Draft.Body)
		if err != nil {
			return err
		}
		if body == strings.TrimSpace(st.Draft.Body) && p.Empty() {
			log("No changes")
			return nil
		}
		p.Body = &body
	}

	st, err := a.orch.Update(ctx, id, p)
	if err != nil {
		return err
	}
	printState(st)
	return nil
}

func readBodyFile(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return string(data), nil
}

// editInEditor opens body in $VISUAL or $EDITOR (vi by default) and returns the result
func editInEditor(body string) (string, error) {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	f, err := os.CreateTemp("", "reachout-*.txt")
	if err != nil {
		return "", err
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(body); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	parts := strings.Fields(editor)
	c := exec.Command(parts[0], append(parts[1:], f.Name())...)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := c.Run(); err != nil {
		return "", fmt.Errorf("editor failed: %w", err)
	}

	data, err := os.ReadFile(f.Name())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
