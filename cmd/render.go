package cmd

import (
	"fmt"
	"strings"

	"github.com/xrsl/reachout/pkg/drafting"
	"github.com/xrsl/reachout/pkg/style"
	"github.com/xrsl/reachout/pkg/workflow"
)

func printState(s *workflow.State) {
	fmt.Printf("\n%s %s", style.B(s.ContentType.Label()), style.C(style.Gray, "session "+s.SessionID))
	if s.Revision > 0 {
		fmt.Printf(" %s", style.C(style.Gray, fmt.Sprintf("rev %d", s.Revision)))
	}
	fmt.Println()

	if c := s.Context; c != nil {
		fmt.Printf("%s %s @ %s\n", style.C(style.Gray, "Role:"), c.JobTitle, style.C(style.Cyan, c.CompanyName))
	}
	if s.ModelUsed != "" {
		fmt.Printf("%s %s %s\n", style.C(style.Gray, "Model:"), s.ModelUsed, style.C(style.Gray, s.PromptVersion))
	}

	if d := s.Draft; d != nil {
		printDraft(d, s.AttachmentPath)
	}

	switch {
	case s.Delivery != "":
		label := style.Success("✓")
		if strings.HasPrefix(s.Delivery, "Send failed") {
			label = style.Failure("✗")
		}
		fmt.Printf("%s%s\n", label, s.Delivery)
	case s.AwaitingReview():
		printNextSteps(s)
	case s.Step == workflow.StepTerminal && s.Draft == nil:
		fmt.Printf("%sContext ready\n", style.Success("✓"))
	}
	fmt.Println()
}

func printDraft(d *drafting.Draft, attachment string) {
	fmt.Println()
	if d.Recipient != "" {
		fmt.Printf("%s %s\n", style.C(style.Gray, "To:     "), d.Recipient)
	}
	if d.Subject != "" {
		fmt.Printf("%s %s\n", style.C(style.Gray, "Subject:"), d.Subject)
	}
	if attachment != "" {
		fmt.Printf("%s %s\n", style.C(style.Gray, "Attach: "), attachment)
	}
	fmt.Println(style.Rule(60))
	fmt.Println(d.Body)
	fmt.Println(style.Rule(60))
	fmt.Printf("%s\n\n", style.C(style.Gray, fmt.Sprintf("%d words", drafting.CountWords(d.Body))))
}

func printNextSteps(s *workflow.State) {
	id := shortID(s.SessionID)
	fmt.Println(style.C(style.Gray, "Next:"))
	fmt.Printf("  %s  %s\n", style.C(style.Cyan, fmt.Sprintf("reachout refine %s \"<feedback>\"", id)), style.C(style.Gray, "revise with feedback"))
	fmt.Printf("  %s  %s\n", style.C(style.Cyan, fmt.Sprintf("reachout edit %s --subject \"...\"", id)), style.C(style.Gray, "edit by hand"))
	if s.ContentType == drafting.Email {
		fmt.Printf("  %s  %s\n", style.C(style.Cyan, "reachout send "+id), style.C(style.Gray, "send the email"))
	} else {
		fmt.Printf("  %s  %s\n", style.C(style.Cyan, "reachout send "+id), style.C(style.Gray, "approve the draft"))
	}
}
