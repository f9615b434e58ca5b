package glue

import "github.com/gradforge/gradforge/ir"

// GradientFactory resolves gradient_factory(sym, nargsClosure) to the
// symbol of a registered, memoized J'd Lambda for sym (§4.2 Caching: "per
// primitive map from nargs_closure to Lambda"). [prim.Registry] and
// [grad.Transformer] satisfy this interface; glue
// depends on the interface, never the concrete packages, to avoid an
// import cycle.
type GradientFactory interface {
	GradientFactory(sym ir.Symbol, nargsClosure int) (ir.Symbol, error)
}

// TagGlobal resolves the tagging rule for a global or builtin symbol
// reference (§4.6: "a referenced global/builtin symbol g is re-emitted as
// J(g)"). It is the only eager (construction-time) lift in this package;
// every other lift is deferred via [ApplyJ]/[ApplyJinv].
//
// TagGlobal panics if sym is not global or builtin: callers are expected
// to have already distinguished the local-symbol case via
// [ir.Symbol.IsGlobalOrBuiltin] before calling this, per Grad's own
// tagging dispatch.
func TagGlobal(factory GradientFactory, sym ir.Symbol) (ir.Symbol, error) {
	if !sym.IsGlobalOrBuiltin() {
		panic("glue: TagGlobal called with a non-global, non-builtin symbol")
	}
	return factory.GradientFactory(sym, 0)
}
