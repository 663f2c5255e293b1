// Package prompts manages the instruction sets sent to the model.
//
// # Embedded Defaults
//
// Default prompts are embedded at compile time from the defaults/ directory:
//   - defaults/context.md      - context synthesis for every run
//   - defaults/email.md        - cold email drafting
//   - defaults/message.md      - professional network message drafting
//   - defaults/cover_letter.md - cover letter drafting
//
// # Runtime Customization
//
// Users can override any prompt by creating a file of the same name in
// .reachout/prompts/. Templates are rendered with text/template and see the
// fields of the data value passed to Render (CandidateName, Signature,
// WordLimit, Placeholder for the drafting prompts).
//
// Every rendered prompt carries a version "<name>:<hash8>" derived from the
// template source, so stored drafts record exactly which instructions produced
// them.
//
// Run 'reachout init -r' to reset prompts to the embedded defaults.
package prompts
