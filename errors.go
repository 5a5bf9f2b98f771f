package symexpr

import "errors"

var (
	// ErrUndefinedVariable is returned by Evaluate when a variable leaf has no
	// binding.
	ErrUndefinedVariable = errors.New("undefined variable")

	// ErrNonConstantExponent is returned by Derivative for a power whose
	// exponent depends on a variable.
	ErrNonConstantExponent = errors.New("derivative of non-constant exponent not supported")

	// ErrNegativeOrder is returned for a negative derivative or series order.
	ErrNegativeOrder = errors.New("order must be >= 0")

	// ErrInvalidExpression is returned by the JSON and YAML decoders.
	ErrInvalidExpression = errors.New("invalid expression")

	// ErrUnknownTool is reported by HandleToolCall for an unrecognised tool.
	ErrUnknownTool = errors.New("unknown tool")
)
