package ir

import (
	"errors"
	"fmt"
)

// Error sentinels for internal IR construction failures. These indicate
// programmer errors, not Grad/meta-graph content issues -- those are
// reported via diag.Issue, not error returns (§7 ERROR HANDLING DESIGN).
var (
	// ErrInternal is the base error for internal ir failures.
	ErrInternal = errors.New("internal ir failure")

	// ErrNilLambda indicates a method was called on a nil *Lambda receiver.
	ErrNilLambda = fmt.Errorf("%w: nil *Lambda receiver", ErrInternal)
)
