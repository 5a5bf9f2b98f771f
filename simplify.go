package symexpr

// ============================================================
// Simplification
// ============================================================

// Simplify returns an equivalent tree with constant subtrees folded and
// identity operations removed. The rewrites are limited to those that give
// bit-identical results for every input of the scalar type:
//
//   - x-0 and -(-(x)) become x for all scalars (x-(-0) is kept)
//   - x*1, 1*x, x/1 and pow(x,1) become x for real scalars only
//
// x+0 is kept because it turns -0 into +0. The complex forms of the
// multiplicative identities are kept because complex multiplication and
// cmplx.Pow do not return x unchanged for infinite operands or in the last
// bit. 0*x and pow(x,0) are kept as well. Unchanged subtrees keep their
// identity.
//
// Nothing in this package calls Simplify implicitly.
func Simplify[T Scalar](e Expr[T]) Expr[T] { return wrap(simplify(e.rootNode())) }

// Simplify is shorthand for Simplify(e).
func (e Expr[T]) Simplify() Expr[T] { return Simplify(e) }

func simplify[T Scalar](n *node[T]) *node[T] {
	switch {
	case n.kind == Constant || n.kind == Variable:
		return n
	case n.kind.IsUnary():
		left := simplify(n.left)
		if left.kind == Constant {
			return fold(unaryNode(n.kind, left))
		}
		if n.kind == Negate && left.kind == Negate {
			return left.left
		}
		if left == n.left {
			return n
		}
		return unaryNode(n.kind, left)
	}

	left, right := simplify(n.left), simplify(n.right)
	if left.kind == Constant && right.kind == Constant {
		return fold(binaryNode(n.kind, left, right))
	}
	switch n.kind {
	case Subtract:
		if right.kind == Constant && isPositiveZero(right.value) {
			return left
		}
	case Multiply:
		if IsComplex[T]() {
			break
		}
		if isConstValue(right, 1) {
			return left
		}
		if isConstValue(left, 1) {
			return right
		}
	case Divide, Power:
		if !IsComplex[T]() && isConstValue(right, 1) {
			return left
		}
	}
	if left == n.left && right == n.right {
		return n
	}
	return binaryNode(n.kind, left, right)
}

// fold evaluates a node whose operands are all constants.
func fold[T Scalar](n *node[T]) *node[T] {
	v, err := evaluate(n, nil)
	if err != nil {
		return n
	}
	return constNode(v)
}

func isConstValue[T Scalar](n *node[T], v T) bool {
	return n.kind == Constant && n.value == v
}
