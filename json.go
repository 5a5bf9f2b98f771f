package symexpr

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ============================================================
// JSON / YAML Serialization
// ============================================================

// ToMap returns the tree as nested maps:
//
//	{"type": "num", "value": "1.5"}
//	{"type": "sym", "name": "x"}
//	{"type": "add", "left": {...}, "right": {...}}   (also sub, mul, div)
//	{"type": "pow", "base": {...}, "exp": {...}}
//	{"type": "sin", "arg": {...}}                    (also cos, exp, log, neg)
//
// Shared subtrees are written once per occurrence.
func (e Expr[T]) ToMap() map[string]interface{} { return toMap(e.rootNode()) }

func toMap[T Scalar](n *node[T]) map[string]interface{} {
	switch {
	case n.kind == Constant:
		return map[string]interface{}{"type": "num", "value": FormatScalar(n.value)}
	case n.kind == Variable:
		return map[string]interface{}{"type": "sym", "name": n.name}
	case n.kind == Power:
		return map[string]interface{}{"type": "pow", "base": toMap(n.left), "exp": toMap(n.right)}
	case n.kind.IsBinary():
		return map[string]interface{}{"type": n.kind.String(), "left": toMap(n.left), "right": toMap(n.right)}
	}
	return map[string]interface{}{"type": n.kind.String(), "arg": toMap(n.left)}
}

func ToJSON[T Scalar](e Expr[T]) (string, error) {
	b, err := json.Marshal(e.ToMap())
	return string(b), err
}

// ParseJSON decodes a JSON document in the ToMap layout.
func ParseJSON[T Scalar](data []byte) (Expr[T], error) {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return Expr[T]{}, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	return FromJSON[T](m)
}

// FromJSON rebuilds a tree from the ToMap layout. It accepts the output of
// encoding/json and of yaml.v3 alike; constant values may be strings in the
// FormatScalar form or plain numbers.
func FromJSON[T Scalar](data map[string]interface{}) (Expr[T], error) {
	n, err := fromMap[T](data)
	if err != nil {
		return Expr[T]{}, err
	}
	return wrap(n), nil
}

func fromMap[T Scalar](data map[string]interface{}) (*node[T], error) {
	if data == nil {
		return nil, fmt.Errorf("%w: expression must be an object", ErrInvalidExpression)
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("%w: missing 'type' field", ErrInvalidExpression)
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("%w: field 'type' must be a non-empty string", ErrInvalidExpression)
	}
	kind, ok := kindFromString(typ)
	if !ok {
		return nil, fmt.Errorf("%w: unknown expression type: %s", ErrInvalidExpression, typ)
	}

	sub := func(field string) (*node[T], error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: %w: missing %q", typ, ErrInvalidExpression, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %w: %q must be an object", typ, ErrInvalidExpression, field)
		}
		n, err := fromMap[T](m)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", typ, field, err)
		}
		return n, nil
	}

	switch {
	case kind == Constant:
		v, ok := data["value"]
		if !ok {
			return nil, fmt.Errorf("num: %w: missing 'value'", ErrInvalidExpression)
		}
		val, err := scalarFromAny[T](v)
		if err != nil {
			return nil, fmt.Errorf("num: %w: %v", ErrInvalidExpression, err)
		}
		return constNode(val), nil

	case kind == Variable:
		name, ok := data["name"].(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("sym: %w: 'name' must be a non-empty string", ErrInvalidExpression)
		}
		return varNode[T](name), nil

	case kind == Power:
		base, err := sub("base")
		if err != nil {
			return nil, err
		}
		exp, err := sub("exp")
		if err != nil {
			return nil, err
		}
		return binaryNode(Power, base, exp), nil

	case kind.IsBinary():
		left, err := sub("left")
		if err != nil {
			return nil, err
		}
		right, err := sub("right")
		if err != nil {
			return nil, err
		}
		return binaryNode(kind, left, right), nil
	}

	arg, err := sub("arg")
	if err != nil {
		return nil, err
	}
	return unaryNode(kind, arg), nil
}

func (e Expr[T]) MarshalJSON() ([]byte, error) { return json.Marshal(e.ToMap()) }

func (e *Expr[T]) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON[T](data)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

func (e Expr[T]) MarshalYAML() (interface{}, error) { return e.ToMap(), nil }

func (e *Expr[T]) UnmarshalYAML(value *yaml.Node) error {
	var m map[string]interface{}
	if err := value.Decode(&m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	parsed, err := FromJSON[T](m)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
