package env

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gradforge/gradforge/diag"
	"github.com/gradforge/gradforge/internal/obs"
	"github.com/gradforge/gradforge/ir"
)

// Error sentinels for internal environment failures. These indicate
// programmer errors, not data issues: a well-formed Grad invocation never
// re-registers a symbol.
var (
	// ErrInternal is the base error for internal environment failures.
	ErrInternal = errors.New("internal env failure")

	// ErrNilEnv indicates a method was called on a nil *GlobalEnv receiver.
	ErrNilEnv = fmt.Errorf("%w: nil *GlobalEnv receiver", ErrInternal)

	// ErrNilLambda indicates Register was called with a nil *ir.Lambda.
	ErrNilLambda = fmt.Errorf("%w: nil *ir.Lambda passed to Register", ErrInternal)
)

// ErrAlreadyRegistered indicates Register was called with a symbol that
// already has a binding. Overwriting an existing entry is a programming
// error (§5): new symbols are always fresh.
type ErrAlreadyRegistered struct {
	Symbol ir.Symbol
}

// Error implements the error interface.
func (e *ErrAlreadyRegistered) Error() string {
	return fmt.Sprintf("env: symbol %s is already registered", e.Symbol)
}

// GlobalEnv is the process-scoped symbol table Grad and the primitive and
// meta-graph registries publish generated Lambdas into (§3, §5). It is
// safe for concurrent use; the core itself is single-threaded per
// pipeline invocation, but multiple independent invocations (or a future
// parallelized driver, per §5) may share one GlobalEnv.
type GlobalEnv struct {
	mu       sync.RWMutex
	bindings map[ir.Symbol]*ir.Lambda
	runID    string
}

// New returns an empty GlobalEnv, stamped with a freshly minted run
// identity (§5: a seam for correlating a future parallelized driver's
// independent Grad instances in logs, even though registration into this
// GlobalEnv stays serialized). Call WithRunID to override it, e.g. when a
// caller already has an ambient request ID to propagate instead.
func New() *GlobalEnv {
	return &GlobalEnv{bindings: make(map[ir.Symbol]*ir.Lambda), runID: obs.NewRunID()}
}

// WithRunID stamps e with a run identity used only for log correlation;
// it has no effect on lookup or registration semantics.
func (e *GlobalEnv) WithRunID(runID string) *GlobalEnv {
	e.runID = runID
	return e
}

// RunID returns the run identity stamped on e, or "" if none was set.
func (e *GlobalEnv) RunID() string {
	return e.runID
}

// Register publishes lambda under sym. Register returns
// [*ErrAlreadyRegistered] if sym is already bound -- callers must mint a
// fresh symbol via gensym before registering, never reuse one.
//
// Register is the final step of a successful Grad invocation or gradient
// factory construction: callers build the complete Lambda first and
// register it only once finished, so a failed transform never leaves a
// partial Lambda published (§8, "a failed Grad invocation leaves no
// partial Lambda in the global environment").
func (e *GlobalEnv) Register(sym ir.Symbol, lambda *ir.Lambda) error {
	if e == nil {
		return ErrNilEnv
	}
	if lambda == nil {
		return ErrNilLambda
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bindings == nil {
		e.bindings = make(map[ir.Symbol]*ir.Lambda)
	}
	if _, exists := e.bindings[sym]; exists {
		return &ErrAlreadyRegistered{Symbol: sym}
	}
	e.bindings[sym] = lambda
	return nil
}

// Lookup returns the Lambda bound to sym, or (nil, false) if unbound.
func (e *GlobalEnv) Lookup(sym ir.Symbol) (*ir.Lambda, bool) {
	if e == nil {
		return nil, false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	lambda, ok := e.bindings[sym]
	return lambda, ok
}

// MustLookup returns the Lambda bound to sym as a [*diag.Error] with code
// [diag.E_INTERNAL] when unbound, for call sites where an unresolved
// symbol indicates a broken invariant rather than a recoverable miss.
func (e *GlobalEnv) MustLookup(sym ir.Symbol) (*ir.Lambda, error) {
	lambda, ok := e.Lookup(sym)
	if !ok {
		return nil, diag.Wrap(diag.NewIssue(diag.Fatal, diag.E_INTERNAL, "symbol not bound in global environment").
			WithDetail(diag.DetailKeySymbol, sym.String()).
			Build())
	}
	return lambda, nil
}

// Has reports whether sym is registered.
func (e *GlobalEnv) Has(sym ir.Symbol) bool {
	if e == nil {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	_, ok := e.bindings[sym]
	return ok
}

// Len returns the number of registered symbols.
func (e *GlobalEnv) Len() int {
	if e == nil {
		return 0
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.bindings)
}

// Symbols returns every registered symbol in a stable, deterministic
// order (sorted by [ir.Symbol.String]), useful for diagnostics and tests.
func (e *GlobalEnv) Symbols() []ir.Symbol {
	if e == nil {
		return nil
	}
	e.mu.RLock()
	keys := make([]ir.Symbol, 0, len(e.bindings))
	for sym := range e.bindings {
		keys = append(keys, sym)
	}
	e.mu.RUnlock()

	slices.SortFunc(keys, func(a, b ir.Symbol) int {
		return cmp.Compare(a.String(), b.String())
	})
	return keys
}
