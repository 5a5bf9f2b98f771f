package symexpr

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ============================================================
// Tool Interface
// ============================================================

// ToolRequest is a single named operation on expressions in the ToMap
// layout. Params["scalar"] selects the numeric domain: "real" (float64,
// the default) or "complex" (complex128).
type ToolRequest struct {
	Tool   string                 `json:"tool" yaml:"tool"`
	Params map[string]interface{} `json:"params" yaml:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty" yaml:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty" yaml:"latex,omitempty"`
	String string      `json:"string,omitempty" yaml:"string,omitempty"`
	Error  string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// MaxToolOrder bounds the "n" of diffn and the "order" of taylor. Derivative
// trees grow exponentially with the order.
const MaxToolOrder = 8

// Scalar domains accepted in Params["scalar"].
const (
	ScalarReal    = "real"
	ScalarComplex = "complex"
)

// ScalarOf returns the scalar domain named by a request, defaulting to real.
func ScalarOf(req ToolRequest) (string, error) {
	v, ok := req.Params["scalar"]
	if !ok {
		return ScalarReal, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("param scalar must be a string")
	}
	switch s {
	case ScalarReal, ScalarComplex:
		return s, nil
	}
	return "", fmt.Errorf("param scalar must be %q or %q, got %q", ScalarReal, ScalarComplex, s)
}

// HandleToolCall runs one tool request. Failures are reported in the
// response's Error field, never as a panic.
func HandleToolCall(req ToolRequest) ToolResponse {
	if req.Tool == "tool_spec" {
		return ToolResponse{Result: toolSchemas(), String: ToolSpec()}
	}
	scalar, err := ScalarOf(req)
	if err != nil {
		return ToolResponse{Error: err.Error()}
	}
	if scalar == ScalarComplex {
		return handleTool[complex128](req)
	}
	return handleTool[float64](req)
}

func handleTool[T Scalar](req ToolRequest) ToolResponse {
	getExpr := func(key string) (Expr[T], error) {
		v, ok := req.Params[key]
		if !ok {
			return Expr[T]{}, fmt.Errorf("missing param: %s", key)
		}
		val, ok := v.(map[string]interface{})
		if !ok {
			return Expr[T]{}, fmt.Errorf("invalid type for param %s", key)
		}
		e, err := FromJSON[T](val)
		if err != nil {
			return Expr[T]{}, fmt.Errorf("param %s: %w", key, err)
		}
		return e, nil
	}
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return "", fmt.Errorf("param %s must be a non-empty string", key)
		}
		return s, nil
	}
	getInt := func(key string, def int) (int, error) {
		v, ok := req.Params[key]
		if !ok {
			return def, nil
		}
		switch n := v.(type) {
		case float64:
			if n != float64(int(n)) {
				return 0, fmt.Errorf("param %s must be an integer", key)
			}
			return int(n), nil
		case int:
			return n, nil
		}
		return 0, fmt.Errorf("param %s must be a number", key)
	}
	getOrder := func(key string, def int) (int, error) {
		n, err := getInt(key, def)
		if err != nil {
			return 0, err
		}
		if n < 0 || n > MaxToolOrder {
			return 0, fmt.Errorf("param %s must be between 0 and %d, got %d", key, MaxToolOrder, n)
		}
		return n, nil
	}
	getScalar := func(key string) (T, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, nil
		}
		s, err := scalarFromAny[T](v)
		if err != nil {
			return 0, fmt.Errorf("param %s: %w", key, err)
		}
		return s, nil
	}
	getVars := func(key string) (map[string]T, error) {
		vars := map[string]T{}
		v, ok := req.Params[key]
		if !ok {
			return vars, nil
		}
		raw, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s must be an object", key)
		}
		for name, rv := range raw {
			s, err := scalarFromAny[T](rv)
			if err != nil {
				return nil, fmt.Errorf("param %s.%s: %w", key, name, err)
			}
			vars[name] = s
		}
		return vars, nil
	}
	respond := func(e Expr[T]) ToolResponse {
		return ToolResponse{Result: e.ToMap(), LaTeX: e.LaTeX(), String: e.String()}
	}
	fail := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

	switch req.Tool {
	case "evaluate":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		vars, err := getVars("vars")
		if err != nil {
			return fail(err)
		}
		v, err := e.Evaluate(vars)
		if err != nil {
			return fail(err)
		}
		s := FormatScalar(v)
		return ToolResponse{Result: s, String: s}

	case "derivative":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		v, err := getString("var")
		if err != nil {
			return fail(err)
		}
		d, err := e.Derivative(v)
		if err != nil {
			return fail(err)
		}
		return respond(d)

	case "diffn":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		v, err := getString("var")
		if err != nil {
			return fail(err)
		}
		n, err := getOrder("n", 1)
		if err != nil {
			return fail(err)
		}
		d, err := DiffN(e, v, n)
		if err != nil {
			return fail(err)
		}
		return respond(d)

	case "substitute":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		v, err := getString("var")
		if err != nil {
			return fail(err)
		}
		value, err := getExpr("value")
		if err != nil {
			return fail(err)
		}
		return respond(e.Substitute(v, value))

	case "simplify":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		return respond(Simplify(e))

	case "render":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		return respond(e)

	case "free_symbols":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		syms := FreeSymbols(e)
		return ToolResponse{Result: syms, String: strings.Join(syms, ", ")}

	case "is_constant":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		c := e.IsConstant()
		return ToolResponse{Result: c, String: fmt.Sprint(c)}

	case "taylor":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		v, err := getString("var")
		if err != nil {
			return fail(err)
		}
		around, err := getScalar("around")
		if err != nil {
			return fail(err)
		}
		order, err := getOrder("order", 3)
		if err != nil {
			return fail(err)
		}
		series, err := TaylorSeries(e, v, around, order)
		if err != nil {
			return fail(err)
		}
		return respond(series)
	}
	return ToolResponse{Error: fmt.Sprintf("%v: %s", ErrUnknownTool, req.Tool)}
}

// ============================================================
// Tool schema
// ============================================================

// ToolNames lists every tool HandleToolCall understands, sorted.
func ToolNames() []string {
	schemas := toolSchemas()
	names := make([]string, len(schemas))
	for i, s := range schemas {
		names[i] = s["name"].(string)
	}
	sort.Strings(names)
	return names
}

// ToolSpec returns the JSON schema of all tools, for agent registration.
func ToolSpec() string {
	spec := map[string]interface{}{"tools": toolSchemas()}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func toolSchemas() []map[string]interface{} {
	return []map[string]interface{}{
		toolSchema("evaluate", "Evaluate expr with variable bindings vars", []string{"expr"}, map[string]string{"expr": "object", "vars": "object", "scalar": "string"}),
		toolSchema("derivative", "Symbolic derivative d/dvar", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string", "scalar": "string"}),
		toolSchema("diffn", "nth derivative. n defaults to 1, at most 8", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string", "n": "integer", "scalar": "string"}),
		toolSchema("substitute", "Replace var with the expression value", []string{"expr", "var", "value"}, map[string]string{"expr": "object", "var": "string", "value": "object", "scalar": "string"}),
		toolSchema("simplify", "Fold constants and drop identity operations", []string{"expr"}, map[string]string{"expr": "object", "scalar": "string"}),
		toolSchema("render", "Render as text and LaTeX", []string{"expr"}, map[string]string{"expr": "object", "scalar": "string"}),
		toolSchema("free_symbols", "Return free variable names", []string{"expr"}, map[string]string{"expr": "object", "scalar": "string"}),
		toolSchema("is_constant", "Report whether expr contains no variables", []string{"expr"}, map[string]string{"expr": "object", "scalar": "string"}),
		toolSchema("taylor", "Taylor polynomial around a point. order defaults to 3, at most 8", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string", "around": "string", "order": "integer", "scalar": "string"}),
		toolSchema("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
}

// toolSchema describes one tool in the JSON-schema shape agents register.
func toolSchema(name, summary string, required []string, paramTypes map[string]string) map[string]interface{} {
	params := make(map[string]interface{}, len(paramTypes))
	for param, typ := range paramTypes {
		params[param] = map[string]interface{}{"type": typ}
	}
	schema := map[string]interface{}{
		"type":       "object",
		"properties": params,
		"required":   required,
	}
	return map[string]interface{}{"name": name, "description": summary, "inputSchema": schema}
}
