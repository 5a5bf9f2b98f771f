package symexpr

// ============================================================
// Substitution
// ============================================================

// Substitute replaces every variable leaf named varName with value. The
// replacement tree is shared into the result, not copied. Any subtree that
// does not mention varName is returned as the very same node, so
// e.Substitute on an expression free of varName returns a handle on e's
// own root.
func (e Expr[T]) Substitute(varName string, value Expr[T]) Expr[T] {
	return wrap(substitute(e.rootNode(), varName, value.rootNode()))
}

func substitute[T Scalar](n *node[T], varName string, value *node[T]) *node[T] {
	switch {
	case n.kind == Variable:
		if n.name == varName {
			return value
		}
		return n
	case n.kind == Constant:
		return n
	case n.kind.IsUnary():
		left := substitute(n.left, varName, value)
		if left == n.left {
			return n
		}
		return unaryNode(n.kind, left)
	}
	left := substitute(n.left, varName, value)
	right := substitute(n.right, varName, value)
	if left == n.left && right == n.right {
		return n
	}
	return binaryNode(n.kind, left, right)
}
