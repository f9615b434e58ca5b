package diag

import (
	"errors"
	"fmt"
)

// ErrFault is the sentinel every [Error] wraps. Callers that only need to
// detect "the core rejected this" without inspecting the [Issue] can test
// against it with errors.Is.
var ErrFault = errors.New("diag fault")

// Error adapts an [Issue] to the standard error interface so it can be
// returned and propagated with fmt.Errorf/errors.Is/errors.As like any
// other error, while still carrying the structured [Issue] for callers
// that want the code, details, and hint (§7: every core error is Fatal and
// is surfaced this way, never collected).
type Error struct {
	issue Issue
}

// Wrap adapts issue into an error. Wrap panics if issue is not valid,
// matching the other diag constructors' fail-fast posture.
func Wrap(issue Issue) *Error {
	if !issue.IsValid() {
		panic(fmt.Sprintf("diag.Wrap: invalid Issue (code=%s)", issue.Code()))
	}
	return &Error{issue: issue}
}

// Issue returns the wrapped diagnostic issue.
func (e *Error) Issue() Issue {
	return e.issue
}

// Error renders the code and message as "<code>: <message>".
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.issue.Code(), e.issue.Message())
}

// Unwrap exposes [ErrFault] so errors.Is(err, diag.ErrFault) matches any
// diag error regardless of its specific code.
func (e *Error) Unwrap() error {
	return ErrFault
}
