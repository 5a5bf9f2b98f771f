package symexpr

import "fmt"

// ============================================================
// Differentiation
// ============================================================

// Derivative returns the symbolic derivative of e with respect to varName.
//
// The result is built from fresh nodes along every differentiated path and
// shares the untouched operands of e. It is not simplified, so terms such as
// (0 * x) or (1 * u) are expected; pass it to Simplify to tidy it up.
//
// A power is only differentiable when its exponent is constant; otherwise
// the error wraps ErrNonConstantExponent.
func (e Expr[T]) Derivative(varName string) (Expr[T], error) {
	d, err := derivative(e.rootNode(), varName)
	if err != nil {
		return Expr[T]{}, err
	}
	return wrap(d), nil
}

func derivative[T Scalar](n *node[T], varName string) (*node[T], error) {
	switch n.kind {
	case Constant:
		return constNode[T](0), nil
	case Variable:
		if n.name == varName {
			return constNode[T](1), nil
		}
		return constNode[T](0), nil
	case Power:
		return powerDerivative(n, varName)
	}

	u := n.left
	du, err := derivative(u, varName)
	if err != nil {
		return nil, err
	}
	switch n.kind {
	case Sin:
		return binaryNode(Multiply, unaryNode(Cos, u), du), nil
	case Cos:
		return binaryNode(Multiply, unaryNode(Negate, unaryNode(Sin, u)), du), nil
	case Exp:
		return binaryNode(Multiply, unaryNode(Exp, u), du), nil
	case Log:
		return binaryNode(Divide, du, u), nil
	case Negate:
		return unaryNode(Negate, du), nil
	}

	v := n.right
	dv, err := derivative(v, varName)
	if err != nil {
		return nil, err
	}
	switch n.kind {
	case Add, Subtract:
		return binaryNode(n.kind, du, dv), nil
	case Multiply:
		// (uv)' = u'v + uv'
		return binaryNode(Add,
			binaryNode(Multiply, du, v),
			binaryNode(Multiply, u, dv)), nil
	case Divide:
		// (u/v)' = (u'v - uv') / v^2
		num := binaryNode(Subtract,
			binaryNode(Multiply, du, v),
			binaryNode(Multiply, u, dv))
		return binaryNode(Divide, num, binaryNode(Power, v, constNode[T](2))), nil
	}
	return nil, fmt.Errorf("derivative: unhandled node kind %v", n.kind)
}

// powerDerivative applies (u^n)' = n * u^(n-1) * u'. The exponent must be a
// constant subtree; it is evaluated on its own to obtain n.
func powerDerivative[T Scalar](n *node[T], varName string) (*node[T], error) {
	u, exp := n.left, n.right
	if !isConstant(exp) {
		return nil, ErrNonConstantExponent
	}
	k, err := evaluate(exp, nil)
	if err != nil {
		return nil, err
	}
	du, err := derivative(u, varName)
	if err != nil {
		return nil, err
	}
	scaled := binaryNode(Multiply, constNode(k), binaryNode(Power, u, constNode(k-1)))
	return binaryNode(Multiply, scaled, du), nil
}

// DiffN returns the nth derivative of expr with respect to varName. DiffN
// with n == 0 returns expr itself.
func DiffN[T Scalar](expr Expr[T], varName string, n int) (Expr[T], error) {
	if n < 0 {
		return Expr[T]{}, fmt.Errorf("diffn: %w", ErrNegativeOrder)
	}
	result := expr
	for i := 0; i < n; i++ {
		d, err := result.Derivative(varName)
		if err != nil {
			return Expr[T]{}, fmt.Errorf("diffn: order %d: %w", i+1, err)
		}
		result = d
	}
	return result, nil
}
