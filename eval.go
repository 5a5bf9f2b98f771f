package symexpr

import "fmt"

// ============================================================
// Evaluation
// ============================================================

// Evaluate computes the value of e with each variable taken from vars. It
// fails with ErrUndefinedVariable if a variable has no binding. Division by
// zero and logarithms outside the real domain are not errors; they produce
// whatever the scalar type produces (Inf, NaN).
//
// Shared subtrees are evaluated once per occurrence.
func (e Expr[T]) Evaluate(vars map[string]T) (T, error) {
	return evaluate(e.rootNode(), vars)
}

func evaluate[T Scalar](n *node[T], vars map[string]T) (T, error) {
	switch n.kind {
	case Constant:
		return n.value, nil
	case Variable:
		v, ok := vars[n.name]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUndefinedVariable, n.name)
		}
		return v, nil
	}

	l, err := evaluate(n.left, vars)
	if err != nil {
		return 0, err
	}
	switch n.kind {
	case Sin:
		return scalarSin(l), nil
	case Cos:
		return scalarCos(l), nil
	case Exp:
		return scalarExp(l), nil
	case Log:
		return scalarLog(l), nil
	case Negate:
		return -l, nil
	}

	r, err := evaluate(n.right, vars)
	if err != nil {
		return 0, err
	}
	switch n.kind {
	case Add:
		return l + r, nil
	case Subtract:
		return l - r, nil
	case Multiply:
		return l * r, nil
	case Divide:
		return l / r, nil
	case Power:
		return scalarPow(l, r), nil
	}
	return 0, fmt.Errorf("evaluate: unhandled node kind %v", n.kind)
}
