package ir

// Expr is the right-hand side of a [Binding]. In administrative-normal
// form every Expr's own operands are [Symbol] or [Value]: an Expr never
// contains another Expr (§3 DATA MODEL).
type Expr interface {
	isExpr()
}

// Operand is anything that may appear as a fn or an argument inside an
// Expr: a reference to a previously bound name or parameter ([Symbol]), or
// a boxed literal ([Value]).
type Operand interface {
	Expr
	isOperand()
}

func (Symbol) isExpr()    {}
func (Symbol) isOperand() {}
func (Value) isExpr()     {}
func (Value) isOperand()  {}

// Apply is a function application fn(args...). fn names either a Symbol
// (global, builtin, or local) or a literal Value used as the callee (rare,
// but not excluded by the data model); args are Operands.
type Apply struct {
	Fn   Operand
	Args []Operand
}

func (Apply) isExpr() {}

// TupleExpr is an ordered sequence of Operands bound in a single binding,
// e.g. v <- (w1, w2).
type TupleExpr struct {
	Elems []Operand
}

func (TupleExpr) isExpr() {}

// ClosureExpr is a partial application of a top-level Lambda or primitive
// to a prefix of its arguments (its "captured variables"). FnSymbol must
// resolve to a top-level Lambda or primitive; len(Args) is the closure's
// nargs_closure.
type ClosureExpr struct {
	FnSymbol Symbol
	Args     []Operand
}

func (ClosureExpr) isExpr() {}
