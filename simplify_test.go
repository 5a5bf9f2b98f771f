package symexpr_test

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/symexpr"
)

func TestSimplify_Identities(t *testing.T) {
	x := symexpr.Sym[float64]("x")
	zero := symexpr.Num(0.0)
	one := symexpr.Num(1.0)

	tests := []struct {
		name string
		expr symexpr.Expr[float64]
	}{
		{"x-0", x.Sub(zero)},
		{"x*1", x.Mul(one)},
		{"1*x", one.Mul(x)},
		{"x/1", x.Div(one)},
		{"pow(x,1)", symexpr.PowOf(x, one)},
		{"-(-(x))", x.Neg().Neg()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, symexpr.Simplify(tt.expr).Same(x))
		})
	}
}

func TestSimplify_FoldsConstants(t *testing.T) {
	x := symexpr.Sym[float64]("x")
	e := symexpr.Num(2.0).Add(symexpr.Num(3.0)).Mul(x)
	assert.Equal(t, "(5 * x)", e.Simplify().String())
	assert.Equal(t, "0", symexpr.SinOf(symexpr.Num(0.0)).Simplify().String())
	assert.Equal(t, "8", symexpr.PowN(symexpr.Num(2.0), 3).Simplify().String())
}

func TestSimplify_KeepsRewritesThatWouldChangeResults(t *testing.T) {
	x := symexpr.Sym[float64]("x")
	tests := []struct {
		expr symexpr.Expr[float64]
		want string
	}{
		{symexpr.Num(0.0).Mul(x), "(0 * x)"},
		{symexpr.PowN(x, 0), "pow(x, 0)"},
		{x.Add(symexpr.Num(0.0)), "(x + 0)"},
		{symexpr.Num(0.0).Add(x), "(0 + x)"},
		{x.Sub(symexpr.Num(math.Copysign(0, -1))), "(x - -0)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.Simplify().String())
		})
	}
}

func TestSimplify_NegativeZeroSurvives(t *testing.T) {
	x := symexpr.Sym[float64]("x")
	negZero := map[string]float64{"x": math.Copysign(0, -1)}
	for _, e := range []symexpr.Expr[float64]{
		x.Add(symexpr.Num(0.0)),
		symexpr.Num(0.0).Add(x),
		x.Sub(symexpr.Num(0.0)),
		x.Sub(symexpr.Num(math.Copysign(0, -1))),
		x.Mul(symexpr.Num(1.0)),
	} {
		raw := mustEval(t, e, negZero)
		simplified := mustEval(t, e.Simplify(), negZero)
		assert.Equal(t, math.Signbit(raw), math.Signbit(simplified), "expr %s", e)
	}
}

func TestSimplify_ComplexKeepsMultiplicativeIdentities(t *testing.T) {
	z := symexpr.Sym[complex128]("z")
	one := symexpr.Num[complex128](1)
	tests := []struct {
		expr symexpr.Expr[complex128]
		want string
	}{
		{z.Mul(one), "(z * (1+0i))"},
		{one.Mul(z), "((1+0i) * z)"},
		{z.Div(one), "(z / (1+0i))"},
		{symexpr.PowOf(z, one), "pow(z, (1+0i))"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.Simplify().String())
		})
	}
	assert.True(t, z.Sub(symexpr.Num[complex128](0)).Simplify().Same(z))
	assert.True(t, z.Neg().Neg().Simplify().Same(z))
}

func TestSimplify_ComplexInfinityUnchanged(t *testing.T) {
	z := symexpr.Sym[complex128]("z")
	e := z.Mul(symexpr.Num[complex128](1))
	vars := map[string]complex128{"z": cmplx.Inf()}

	raw := mustEval(t, e, vars)
	simplified := mustEval(t, e.Simplify(), vars)
	assert.Equal(t, symexpr.FormatScalar(raw), symexpr.FormatScalar(simplified))
}

func TestSimplify_UnchangedTreeKeepsIdentity(t *testing.T) {
	x := symexpr.Sym[float64]("x")
	e := symexpr.SinOf(x).Mul(x.Add(symexpr.Num(2.0)))
	assert.True(t, e.Simplify().Same(e))
}

func TestSimplify_Derivative(t *testing.T) {
	x := symexpr.Sym[float64]("x")
	f := symexpr.PowN(x, 2).Add(symexpr.SinOf(x))
	df := mustDerivative(t, f, "x")
	assert.Equal(t, "((2 * x) + cos(x))", symexpr.Simplify(df).String())
}

func TestSimplify_PreservesEvaluation(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	vars := map[string]float64{"t": 0.75, "s": -1.5}
	for i := 0; i < 200; i++ {
		p := randomPolynomial(rng, 4)
		d := mustDerivative(t, p, "t")
		for _, e := range []symexpr.Expr[float64]{p, d} {
			assert.Equal(t, mustEval(t, e, vars), mustEval(t, symexpr.Simplify(e), vars), "expr %s", e)
		}
	}
}

func TestSimplify_UnboundVariableStillFails(t *testing.T) {
	x := symexpr.Sym[float64]("x")
	s := symexpr.Simplify(x.Mul(symexpr.Num(1.0)).Add(symexpr.Num(0.0)))
	_, err := s.Evaluate(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, symexpr.ErrUndefinedVariable)
}

func TestSimplify_Complex(t *testing.T) {
	z := symexpr.Sym[complex128]("z")
	e := z.Sub(symexpr.Num[complex128](0)).Add(symexpr.Num(complex(1, 1)).Mul(symexpr.Num(complex(1, -1))))
	assert.Equal(t, "(z + (2+0i))", e.Simplify().String())
}

// randomComplexTree builds trees over z and w that stay finite, with
// constant-exponent powers so derivatives are defined.
func randomComplexTree(rng *rand.Rand, depth int) symexpr.Expr[complex128] {
	if depth == 0 || rng.Intn(4) == 0 {
		switch rng.Intn(4) {
		case 0:
			return symexpr.Num(complex(float64(rng.Intn(5)-2), float64(rng.Intn(3)-1)))
		case 1:
			return symexpr.Num[complex128](1)
		case 2:
			return symexpr.Sym[complex128]("z")
		default:
			return symexpr.Sym[complex128]("w")
		}
	}
	l := randomComplexTree(rng, depth-1)
	switch rng.Intn(4) {
	case 0:
		return l.Add(randomComplexTree(rng, depth-1))
	case 1:
		return l.Sub(randomComplexTree(rng, depth-1))
	case 2:
		return l.Mul(randomComplexTree(rng, depth-1))
	default:
		return symexpr.PowN(l, complex(float64(1+rng.Intn(3)), 0))
	}
}

func TestSimplify_PreservesEvaluationComplex(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	vars := map[string]complex128{"z": complex(1, 1), "w": complex(-0.5, 2)}
	for i := 0; i < 200; i++ {
		p := randomComplexTree(rng, 4)
		d := mustDerivative(t, p, "z")
		for _, e := range []symexpr.Expr[complex128]{p, d} {
			raw := mustEval(t, e, vars)
			simplified := mustEval(t, symexpr.Simplify(e), vars)
			assert.Equal(t, symexpr.FormatScalar(raw), symexpr.FormatScalar(simplified), "expr %s", e)
		}
	}
}

func TestSimplify_ComplexPowerDerivative(t *testing.T) {
	z := symexpr.Sym[complex128]("z")
	d := mustDerivative(t, symexpr.PowN(z, 2), "z")
	vars := map[string]complex128{"z": complex(1, 1)}
	assert.Equal(t, mustEval(t, d, vars), mustEval(t, d.Simplify(), vars))
}
