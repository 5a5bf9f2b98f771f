package symexpr

import "strings"

// ============================================================
// Rendering
// ============================================================

var opSymbols = map[Kind]string{
	Add:      " + ",
	Subtract: " - ",
	Multiply: " * ",
	Divide:   " / ",
}

// String renders e fully parenthesized: "(1 + x)", "pow(x, 2)", "sin(x)",
// "-(x)". Constants use the scalar text form of FormatScalar.
func (e Expr[T]) String() string {
	var b strings.Builder
	writeString(&b, e.rootNode())
	return b.String()
}

func writeString[T Scalar](b *strings.Builder, n *node[T]) {
	switch n.kind {
	case Constant:
		b.WriteString(FormatScalar(n.value))
	case Variable:
		b.WriteString(n.name)
	case Add, Subtract, Multiply, Divide:
		b.WriteByte('(')
		writeString(b, n.left)
		b.WriteString(opSymbols[n.kind])
		writeString(b, n.right)
		b.WriteByte(')')
	case Power:
		b.WriteString("pow(")
		writeString(b, n.left)
		b.WriteString(", ")
		writeString(b, n.right)
		b.WriteByte(')')
	case Negate:
		b.WriteString("-(")
		writeString(b, n.left)
		b.WriteByte(')')
	default:
		b.WriteString(n.kind.String())
		b.WriteByte('(')
		writeString(b, n.left)
		b.WriteByte(')')
	}
}

// LaTeX renders e as a LaTeX math fragment. Sums and differences nested
// inside other operators are wrapped in \left( \right).
func (e Expr[T]) LaTeX() string { return latex(e.rootNode()) }

func latex[T Scalar](n *node[T]) string {
	switch n.kind {
	case Constant:
		s := FormatScalar(n.value)
		if IsComplex[T]() || strings.HasPrefix(s, "-") {
			return `\left(` + strings.Trim(s, "()") + `\right)`
		}
		return s
	case Variable:
		return n.name
	case Add:
		return latex(n.left) + " + " + latex(n.right)
	case Subtract:
		return latex(n.left) + " - " + latexGroup(n.right)
	case Multiply:
		return latexGroup(n.left) + ` \cdot ` + latexGroup(n.right)
	case Divide:
		return `\frac{` + latex(n.left) + "}{" + latex(n.right) + "}"
	case Power:
		base := latex(n.left)
		if n.left.kind != Constant && n.left.kind != Variable {
			base = `\left(` + base + `\right)`
		}
		return base + "^{" + latex(n.right) + "}"
	case Negate:
		return "-" + latexGroup(n.left)
	case Log:
		return `\ln\left(` + latex(n.left) + `\right)`
	}
	return `\` + n.kind.String() + `\left(` + latex(n.left) + `\right)`
}

func latexGroup[T Scalar](n *node[T]) string {
	switch n.kind {
	case Add, Subtract, Negate:
		return `\left(` + latex(n) + `\right)`
	}
	return latex(n)
}
