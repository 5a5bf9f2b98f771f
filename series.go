package symexpr

import "fmt"

// ============================================================
// Taylor / Maclaurin series
// ============================================================

// TaylorSeries returns the Taylor polynomial of expr in varName around a,
// up to and including the term of the given order:
//
//	sum_{k=0..order} f^(k)(a)/k! * (x - a)^k
//
// Coefficients are obtained by substituting a into the k-th derivative and
// folding the result with Simplify; other free variables stay symbolic. The
// expansion fails wherever Derivative would.
func TaylorSeries[T Scalar](expr Expr[T], varName string, a T, order int) (Expr[T], error) {
	if order < 0 {
		return Expr[T]{}, fmt.Errorf("taylor: %w", ErrNegativeOrder)
	}
	at := Num(a)
	shift := Sym[T](varName).Sub(at)
	current := expr
	var factorial T = 1
	var series Expr[T]
	for k := 0; k <= order; k++ {
		if k > 0 {
			d, err := current.Derivative(varName)
			if err != nil {
				return Expr[T]{}, fmt.Errorf("taylor: order %d: %w", k, err)
			}
			current = d
			factorial *= realToScalar[T](float64(k))
		}
		coeff := Simplify(current.Substitute(varName, at).Div(Num(factorial)))
		if isConstValue(coeff.rootNode(), 0) {
			continue
		}
		term := coeff
		switch k {
		case 0:
		case 1:
			term = coeff.Mul(shift)
		default:
			term = coeff.Mul(PowN(shift, realToScalar[T](float64(k))))
		}
		if series.root == nil {
			series = term
		} else {
			series = series.Add(term)
		}
	}
	if series.root == nil {
		return Zero[T](), nil
	}
	return Simplify(series), nil
}

// MaclaurinSeries is TaylorSeries around 0.
func MaclaurinSeries[T Scalar](expr Expr[T], varName string, order int) (Expr[T], error) {
	return TaylorSeries(expr, varName, 0, order)
}
