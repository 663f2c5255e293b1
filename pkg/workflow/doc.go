// Package workflow runs the draft-generation state machine.
//
// # Steps
//
// A run moves through
//
//	start -> content_generation -> {email_draft|message_draft|cover_letter_draft} -> review
//
// and suspends at review, persisting the session through a Store. The caller
// later resumes the session with feedback: "send" moves it to dispatch (for
// email, or every type with Options.DispatchAll) or straight to terminal;
// anything else loops back to the drafting step of the session's content type
// with the previous draft and the feedback.
//
// Every operation works on a copy of the stored state and writes it back only
// when the step succeeded, so a failed model call never leaves a partial draft
// behind. Dispatch is the exception: the terminal step and the delivery
// outcome are stored even when delivery fails, so a session is never sent twice.
package workflow
