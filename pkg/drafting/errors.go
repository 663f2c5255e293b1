package drafting

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyJobDescription is returned when synthesis is asked for without input
	ErrEmptyJobDescription = errors.New("job description is empty")
	// ErrMissingSignature is returned when an email is drafted with neither a
	// signature nor a candidate name configured
	ErrMissingSignature = errors.New("emails need a signature: set signature or candidate_name")
)

// GenerationError reports a failed model call or unparseable model output.
// Raw holds the model response when there was one.
type GenerationError struct {
	Stage string
	Raw   string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("Generation failed: %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// SchemaError reports a draft that does not satisfy its channel's shape or content rules
type SchemaError struct {
	Channel ContentType
	Field   string
	Reason  string
	Raw     string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("Draft rejected: %s: %s", e.Channel, e.Reason)
	}
	return fmt.Sprintf("Draft rejected: %s %s: %s", e.Channel, e.Field, e.Reason)
}
