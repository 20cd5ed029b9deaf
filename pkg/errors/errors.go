package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ProbeError indicates the current state of a target could not be read:
// the target was not found or the provider failed transiently. The target
// is counted as errored and excluded from further action; the run continues.
type ProbeError struct {
	Target string
	Err    error
}

// NewProbeError constructs a ProbeError.
func NewProbeError(target string, err error) error {
	return &ProbeError{Target: target, Err: err}
}

func (e *ProbeError) Error() string {
	if e == nil {
		return ""
	}
	if e.Target != "" {
		return fmt.Sprintf("probe failed for %s: %v", e.Target, e.Err)
	}
	return fmt.Sprintf("probe failed: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *ProbeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StateError reports that a target's observed state is not a valid
// precondition for the requested transition, e.g. a power action against a
// VM that is mid-transition. It is reported, never acted on.
type StateError struct {
	Target  string
	State   string
	Message string
}

// NewStateError constructs a StateError.
func NewStateError(target, state, message string) error {
	return &StateError{Target: target, State: state, Message: message}
}

func (e *StateError) Error() string {
	if e == nil {
		return ""
	}
	if e.State != "" {
		return fmt.Sprintf("inconsistent state on %s (%s): %s", e.Target, e.State, e.Message)
	}
	return fmt.Sprintf("inconsistent state on %s: %s", e.Target, e.Message)
}

// ActionError wraps a provider failure raised while executing an action.
// It is converted into a failed outcome for its target and never aborts
// sibling workers.
type ActionError struct {
	Target string
	Action string
	Err    error
}

// NewActionError constructs an ActionError.
func NewActionError(target, action string, err error) error {
	return &ActionError{Target: target, Action: action, Err: err}
}

func (e *ActionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Action != "" {
		return fmt.Sprintf("%s failed on %s: %v", e.Action, e.Target, e.Err)
	}
	return fmt.Sprintf("action failed on %s: %v", e.Target, e.Err)
}

// Unwrap exposes the provider error.
func (e *ActionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UnsupportedActionError indicates a requested action or agent kind outside
// the closed catalog set. It is raised before any worker is spawned and is
// fatal to the run.
type UnsupportedActionError struct {
	Action string
	Detail string
}

// NewUnsupportedActionError constructs an UnsupportedActionError.
func NewUnsupportedActionError(action, detail string) error {
	return &UnsupportedActionError{Action: action, Detail: detail}
}

func (e *UnsupportedActionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Detail != "" {
		return fmt.Sprintf("unsupported action %q: %s", e.Action, e.Detail)
	}
	return fmt.Sprintf("unsupported action %q", e.Action)
}
