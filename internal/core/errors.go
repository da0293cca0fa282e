package core

import "fmt"

// InputError signals malformed or insufficient caller input, such as a Conda
// PURL missing a required qualifier. Unlike ordinary step failures, which the
// strategy absorbs and works around, an InputError propagates out of Resolve.
type InputError struct {
	Ecosystem string
	Reason    string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Ecosystem, e.Reason)
}

// MissingQualifierError builds the InputError for a required qualifier that
// is absent from the PURL.
func MissingQualifierError(ecosystem, qualifier string) *InputError {
	return &InputError{
		Ecosystem: ecosystem,
		Reason:    fmt.Sprintf("Missing required qualifier: %s", qualifier),
	}
}

// CommandError reports a fallback command that timed out or exited non-zero.
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command %q failed: %v: %s", e.Command, e.Err, e.Stderr)
	}
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
