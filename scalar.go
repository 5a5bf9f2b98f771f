package symexpr

import (
	"fmt"
	"math"
	"math/cmplx"
	"strconv"
	"strings"
)

// ============================================================
// Scalar: numeric domain of a tree
// ============================================================

// Scalar is the set of numeric types an expression tree can be evaluated
// over. Each member supports + - * / and negation natively; power and the
// transcendental functions come from math for real types and math/cmplx
// for complex types.
type Scalar interface {
	float32 | float64 | complex64 | complex128
}

// IsComplex reports whether T is a complex scalar type.
func IsComplex[T Scalar]() bool {
	var zero T
	switch any(zero).(type) {
	case complex64, complex128:
		return true
	}
	return false
}

// unaryFn applies fr to real scalars and fc to complex ones.
func unaryFn[T Scalar](x T, fr func(float64) float64, fc func(complex128) complex128) T {
	var out any
	switch v := any(x).(type) {
	case float64:
		out = fr(v)
	case float32:
		out = float32(fr(float64(v)))
	case complex128:
		out = fc(v)
	case complex64:
		out = complex64(fc(complex128(v)))
	}
	return out.(T)
}

func scalarPow[T Scalar](x, y T) T {
	var out any
	switch v := any(x).(type) {
	case float64:
		out = math.Pow(v, any(y).(float64))
	case float32:
		out = float32(math.Pow(float64(v), float64(any(y).(float32))))
	case complex128:
		out = cmplx.Pow(v, any(y).(complex128))
	case complex64:
		out = complex64(cmplx.Pow(complex128(v), complex128(any(y).(complex64))))
	}
	return out.(T)
}

func scalarSin[T Scalar](x T) T { return unaryFn(x, math.Sin, cmplx.Sin) }
func scalarCos[T Scalar](x T) T { return unaryFn(x, math.Cos, cmplx.Cos) }
func scalarExp[T Scalar](x T) T { return unaryFn(x, math.Exp, cmplx.Exp) }
func scalarLog[T Scalar](x T) T { return unaryFn(x, math.Log, cmplx.Log) }

// ============================================================
// Scalar text form
// ============================================================

// FormatScalar returns the shortest text that parses back to v: "1.5" for
// reals, "(1+1i)" for complex values.
func FormatScalar[T Scalar](v T) string {
	switch x := any(v).(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case complex128:
		return strconv.FormatComplex(x, 'g', -1, 128)
	case complex64:
		return strconv.FormatComplex(complex128(x), 'g', -1, 64)
	}
	return fmt.Sprint(v)
}

// ParseScalar parses s in the form produced by FormatScalar. Complex scalars
// also accept a plain real ("2") or an unparenthesized form ("1+1i").
func ParseScalar[T Scalar](s string) (T, error) {
	var zero T
	s = strings.TrimSpace(s)
	var out any
	switch any(zero).(type) {
	case float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return zero, fmt.Errorf("parse scalar %q: %w", s, err)
		}
		out = f
	case float32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return zero, fmt.Errorf("parse scalar %q: %w", s, err)
		}
		out = float32(f)
	case complex128:
		c, err := strconv.ParseComplex(s, 128)
		if err != nil {
			return zero, fmt.Errorf("parse scalar %q: %w", s, err)
		}
		out = c
	case complex64:
		c, err := strconv.ParseComplex(s, 64)
		if err != nil {
			return zero, fmt.Errorf("parse scalar %q: %w", s, err)
		}
		out = complex64(c)
	}
	return out.(T), nil
}

// scalarFromAny converts a decoded JSON or YAML value into T. Strings go
// through ParseScalar; numbers are taken as real values.
func scalarFromAny[T Scalar](v any) (T, error) {
	var zero T
	switch x := v.(type) {
	case string:
		return ParseScalar[T](x)
	case float64:
		return realToScalar[T](x), nil
	case int:
		return realToScalar[T](float64(x)), nil
	case int64:
		return realToScalar[T](float64(x)), nil
	case uint64:
		return realToScalar[T](float64(x)), nil
	}
	return zero, fmt.Errorf("scalar must be a string or number, got %T", v)
}

// isPositiveZero reports whether v is +0, or +0+0i for complex scalars.
func isPositiveZero[T Scalar](v T) bool {
	switch x := any(v).(type) {
	case float64:
		return x == 0 && !math.Signbit(x)
	case float32:
		return x == 0 && !math.Signbit(float64(x))
	case complex128:
		return x == 0 && !math.Signbit(real(x)) && !math.Signbit(imag(x))
	case complex64:
		return x == 0 && !math.Signbit(float64(real(x))) && !math.Signbit(float64(imag(x)))
	}
	return false
}

func realToScalar[T Scalar](f float64) T {
	var zero T
	var out any
	switch any(zero).(type) {
	case float64:
		out = f
	case float32:
		out = float32(f)
	case complex128:
		out = complex(f, 0)
	case complex64:
		out = complex64(complex(f, 0))
	}
	return out.(T)
}
