// Package symexpr provides a symbolic expression kernel for Go that is
// generic over its numeric scalar type.
//
// Design goals:
//   - Immutable expression trees with freely shared subtrees
//   - Exact symbolic differentiation by rule-based rewriting
//   - The same trees and rules for real and complex scalars
//   - JSON, YAML, LaTeX and tool-call APIs for embedding in services
//
// Trees are built from leaves (Num, Sym) with the arithmetic methods and the
// function constructors (SinOf, CosOf, ExpOf, LogOf, PowOf, PowN), then
// evaluated, differentiated, substituted into or rendered:
//
//	x := symexpr.Sym[float64]("x")
//	f := symexpr.PowN(x, 2).Add(symexpr.SinOf(x))
//	df, err := f.Derivative("x")
//	v, err := df.Evaluate(map[string]float64{"x": 1.5})
//
// Nothing in this package mutates a node once it has been built, so a tree
// may be read from any number of goroutines at once.
package symexpr

import "sort"

// ============================================================
// Kind
// ============================================================

// Kind identifies the constructor case of a node.
type Kind uint8

const (
	Constant Kind = iota
	Variable
	Add
	Subtract
	Multiply
	Divide
	Power
	Sin
	Cos
	Exp
	Log
	Negate
)

var kindNames = [...]string{
	Constant: "num",
	Variable: "sym",
	Add:      "add",
	Subtract: "sub",
	Multiply: "mul",
	Divide:   "div",
	Power:    "pow",
	Sin:      "sin",
	Cos:      "cos",
	Exp:      "exp",
	Log:      "log",
	Negate:   "neg",
}

// String returns the short tag used by the JSON and YAML codecs.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func kindFromString(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// IsBinary reports whether nodes of this kind have two operands.
func (k Kind) IsBinary() bool {
	switch k {
	case Add, Subtract, Multiply, Divide, Power:
		return true
	}
	return false
}

// IsUnary reports whether nodes of this kind have exactly one operand.
func (k Kind) IsUnary() bool {
	switch k {
	case Sin, Cos, Exp, Log, Negate:
		return true
	}
	return false
}

// ============================================================
// node: immutable tree record
// ============================================================

// node is never modified after construction. value is meaningful only for
// Constant, name only for Variable; right is nil for leaves and unary kinds.
type node[T Scalar] struct {
	kind        Kind
	value       T
	name        string
	left, right *node[T]
}

func constNode[T Scalar](v T) *node[T]       { return &node[T]{kind: Constant, value: v} }
func varNode[T Scalar](name string) *node[T] { return &node[T]{kind: Variable, name: name} }
func unaryNode[T Scalar](k Kind, u *node[T]) *node[T] {
	return &node[T]{kind: k, left: u}
}
func binaryNode[T Scalar](k Kind, l, r *node[T]) *node[T] {
	return &node[T]{kind: k, left: l, right: r}
}

// ============================================================
// Expr: tree handle
// ============================================================

// Expr is a handle on the root of an expression tree. Copying an Expr shares
// the tree. The zero Expr is the constant 0.
type Expr[T Scalar] struct{ root *node[T] }

func wrap[T Scalar](n *node[T]) Expr[T] { return Expr[T]{root: n} }

func (e Expr[T]) rootNode() *node[T] {
	if e.root == nil {
		return constNode[T](0)
	}
	return e.root
}

// Zero returns the constant 0.
func Zero[T Scalar]() Expr[T] { return wrap(constNode[T](0)) }

// Num returns a constant leaf holding v.
func Num[T Scalar](v T) Expr[T] { return wrap(constNode(v)) }

// Sym returns a variable leaf named name.
func Sym[T Scalar](name string) Expr[T] { return wrap(varNode[T](name)) }

func (e Expr[T]) Add(o Expr[T]) Expr[T] { return wrap(binaryNode(Add, e.rootNode(), o.rootNode())) }
func (e Expr[T]) Sub(o Expr[T]) Expr[T] { return wrap(binaryNode(Subtract, e.rootNode(), o.rootNode())) }
func (e Expr[T]) Mul(o Expr[T]) Expr[T] { return wrap(binaryNode(Multiply, e.rootNode(), o.rootNode())) }
func (e Expr[T]) Div(o Expr[T]) Expr[T] { return wrap(binaryNode(Divide, e.rootNode(), o.rootNode())) }
func (e Expr[T]) Neg() Expr[T]          { return wrap(unaryNode(Negate, e.rootNode())) }

func SinOf[T Scalar](arg Expr[T]) Expr[T] { return wrap(unaryNode(Sin, arg.rootNode())) }
func CosOf[T Scalar](arg Expr[T]) Expr[T] { return wrap(unaryNode(Cos, arg.rootNode())) }
func ExpOf[T Scalar](arg Expr[T]) Expr[T] { return wrap(unaryNode(Exp, arg.rootNode())) }
func LogOf[T Scalar](arg Expr[T]) Expr[T] { return wrap(unaryNode(Log, arg.rootNode())) }

// PowOf returns base raised to exp.
func PowOf[T Scalar](base, exp Expr[T]) Expr[T] {
	return wrap(binaryNode(Power, base.rootNode(), exp.rootNode()))
}

// PowN returns base raised to the constant n.
func PowN[T Scalar](base Expr[T], n T) Expr[T] { return PowOf(base, Num(n)) }

// ============================================================
// Accessors and predicates
// ============================================================

func (e Expr[T]) Kind() Kind { return e.rootNode().kind }

// Value returns the payload of a Constant; it is the zero scalar otherwise.
func (e Expr[T]) Value() T { return e.rootNode().value }

// Name returns the identifier of a Variable; it is empty otherwise.
func (e Expr[T]) Name() string { return e.rootNode().name }

// Operands returns handles on the node's children: none for leaves, one for
// unary kinds, two (left, right) for binary kinds. The handles share the
// children; nothing is copied.
func (e Expr[T]) Operands() []Expr[T] {
	n := e.rootNode()
	switch {
	case n.kind.IsBinary():
		return []Expr[T]{wrap(n.left), wrap(n.right)}
	case n.kind.IsUnary():
		return []Expr[T]{wrap(n.left)}
	}
	return nil
}

// Same reports whether e and o are handles on the very same root node.
func (e Expr[T]) Same(o Expr[T]) bool { return e.root != nil && e.root == o.root }

func (e Expr[T]) IsConstant() bool { return isConstant(e.rootNode()) }

func isConstant[T Scalar](n *node[T]) bool {
	switch {
	case n.kind == Constant:
		return true
	case n.kind == Variable:
		return false
	case n.kind.IsBinary():
		return isConstant(n.left) && isConstant(n.right)
	default:
		return isConstant(n.left)
	}
}

func (e Expr[T]) IsVariable() bool { return e.rootNode().kind == Variable }

// IsVariableNamed reports whether e is the variable leaf called name.
func (e Expr[T]) IsVariableNamed(name string) bool {
	n := e.rootNode()
	return n.kind == Variable && n.name == name
}

// Equal reports structural equality. Constant payloads compare with ==.
func (e Expr[T]) Equal(o Expr[T]) bool { return equalNodes(e.rootNode(), o.rootNode()) }

func equalNodes[T Scalar](a, b *node[T]) bool {
	if a == b {
		return true
	}
	if a.kind != b.kind {
		return false
	}
	switch {
	case a.kind == Constant:
		return a.value == b.value
	case a.kind == Variable:
		return a.name == b.name
	case a.kind.IsBinary():
		return equalNodes(a.left, b.left) && equalNodes(a.right, b.right)
	default:
		return equalNodes(a.left, b.left)
	}
}

// ============================================================
// Free Symbols
// ============================================================

// FreeSymbols returns the sorted names of all variables in e.
func FreeSymbols[T Scalar](e Expr[T]) []string {
	seen := map[string]struct{}{}
	collectSymbols(e.rootNode(), seen)
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectSymbols[T Scalar](n *node[T], out map[string]struct{}) {
	switch {
	case n.kind == Variable:
		out[n.name] = struct{}{}
	case n.kind.IsBinary():
		collectSymbols(n.left, out)
		collectSymbols(n.right, out)
	case n.kind.IsUnary():
		collectSymbols(n.left, out)
	}
}
