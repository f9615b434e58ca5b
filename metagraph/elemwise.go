package metagraph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gradforge/gradforge/abstract"
	"github.com/gradforge/gradforge/diag"
	"github.com/gradforge/gradforge/internal/trace"
	"github.com/gradforge/gradforge/ir"
	"github.com/gradforge/gradforge/ir/gensym"
)

// Elemwise generates a graph for an elementwise operation (§4.3): if any
// argument is an array, every non-array parameter is wrapped with
// to_array, the broadcast shape is computed, mismatched parameters are
// distributed to the final shape, and the body applies array_map over a
// scalar primitive (or the operation's own dispatch). Otherwise the body
// dispatches to the operand's method of the given name.
type Elemwise struct {
	name       string
	scalarOp   ir.Symbol
	hasScalar  bool
	inferValue bool

	logger *slog.Logger
	gen    *gensym.Gen
	cache  *cache
}

// NewElemwise returns an Elemwise generator named mname. When hasScalar
// is set, scalarOp is the scalar primitive array_map dispatches to for
// the array case; otherwise the generator recurses into itself.
func NewElemwise(mname string, scalarOp ir.Symbol, hasScalar, inferValue bool, opts ...Option) *Elemwise {
	cfg := newConfig(opts)
	return &Elemwise{
		name: mname, scalarOp: scalarOp, hasScalar: hasScalar, inferValue: inferValue,
		logger: cfg.logger, gen: gensym.New(), cache: newCache(),
	}
}

func (e *Elemwise) Name() string { return e.name }

func (e *Elemwise) NormalizeArgs(args []abstract.Value) []abstract.Value {
	if e.inferValue {
		return args
	}
	return Broaden(args)
}

// signature returns the signature key §4.3 specifies: per-argument shape
// for arrays, the zero abstract.Value for non-arrays.
func (e *Elemwise) signature(args []abstract.Value) []abstract.Value {
	sig := make([]abstract.Value, len(args))
	for i, a := range args {
		if a.Kind == abstract.KindArray {
			sig[i] = abstract.Array(a.Shape)
		}
	}
	return sig
}

func (e *Elemwise) Generate(args []abstract.Value) (lambda *ir.Lambda, err error) {
	op := trace.Begin(context.Background(), e.logger, "gradforge.metagraph.generate",
		slog.String("metagraph", e.name), slog.Int("nargs", len(args)))
	defer func() { op.End(err) }()

	key := abstract.CacheKey(e.signature(args))
	if lambda, ok := e.cache.get(key); ok {
		return lambda, nil
	}

	base := ir.Symbol{Label: e.name, Namespace: ir.NamespaceGlobal}
	b := ir.NewBuilder()

	isArrayOp := false
	var shapes []abstract.Shape
	for _, a := range args {
		if a.Kind == abstract.KindArray {
			isArrayOp = true
			shapes = append(shapes, a.Shape)
		}
	}

	params := make([]ir.Symbol, len(args))
	operands := make([]ir.Operand, len(args))
	for i, a := range args {
		p := e.gen.Fresh(base, ir.RelationNone)
		b.Param(p)
		var operand ir.Operand = p
		if isArrayOp && a.Kind != abstract.KindArray {
			wrapped := e.gen.Fresh(base, ir.RelationTmpLet)
			b.BindOne(wrapped, &ir.Apply{Fn: ToArraySymbol, Args: []ir.Operand{p}})
			operand = wrapped
		}
		params[i] = p
		operands[i] = operand
	}

	var finalShape abstract.Shape
	if isArrayOp {
		broadcast, err := abstract.BroadcastShapes(shapes)
		if err != nil {
			return nil, diag.NewShapeMismatch(fmt.Sprintf("broadcastable shapes for %s", e.name), err.Error())
		}
		finalShape = broadcast

		// shapeArg is the operand distribute's second argument receives:
		// a literal shape when every dimension is statically known, or a
		// dynamically recomputed shape (via per-argument shape + a
		// broadcast_shape fold) when the broadcast result has an
		// ANYTHING dimension (§4.3: "we will need to get the shapes
		// dynamically").
		var shapeArg ir.Operand
		if finalShape.HasWildcard() {
			shapeOperands := make([]ir.Operand, len(operands))
			for i, operand := range operands {
				shapeSym := e.gen.Fresh(base, ir.RelationTmpLet)
				b.BindOne(shapeSym, &ir.Apply{Fn: ShapeSymbol, Args: []ir.Operand{operand}})
				shapeOperands[i] = shapeSym
			}
			acc := shapeOperands[0]
			for _, next := range shapeOperands[1:] {
				merged := e.gen.Fresh(base, ir.RelationTmpLet)
				b.BindOne(merged, &ir.Apply{Fn: BroadcastShapeSymbol, Args: []ir.Operand{acc, next}})
				acc = merged
			}
			shapeArg = acc
		} else {
			shapeLit := e.gen.Fresh(base, ir.RelationTmpLet)
			b.BindOne(shapeLit, ir.NewValue(finalShape.String()))
			shapeArg = shapeLit
		}

		for i, a := range args {
			if a.Kind == abstract.KindArray && a.Shape.Equal(finalShape) {
				continue
			}
			distributed := e.gen.Fresh(base, ir.RelationTmpLet)
			b.BindOne(distributed, &ir.Apply{Fn: DistributeSymbol, Args: []ir.Operand{operands[i], shapeArg}})
			operands[i] = distributed
		}
	}

	var out ir.Symbol
	if isArrayOp {
		fn := e.scalarOp
		if !e.hasScalar {
			fn = base
		}
		fnArgs := append([]ir.Operand{fn}, operands...)
		out = e.gen.Fresh(base, ir.RelationNone)
		b.BindOne(out, &ir.Apply{Fn: ArrayMapSymbol, Args: fnArgs})
	} else {
		if len(operands) == 0 {
			return nil, diag.NewInvariantViolation("Elemwise requires at least one argument")
		}
		nameLit := e.gen.Fresh(base, ir.RelationTmpLet)
		b.BindOne(nameLit, ir.NewValue(e.name))
		method := e.gen.Fresh(base, ir.RelationTmpLet)
		b.BindOne(method, &ir.Apply{Fn: GetAttrSymbol, Args: []ir.Operand{operands[0], nameLit}})
		out = e.gen.Fresh(base, ir.RelationNone)
		b.BindOne(out, &ir.Apply{Fn: method, Args: operands[1:]})
	}
	b.SetOutput(out)

	lambda = b.Finalize()
	ref := e.gen.Fresh(base, ir.RelationNone)
	lambda.Ref = ref
	e.cache.put(key, lambda)
	return lambda, nil
}
