package symexpr_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/symexpr"
)

func sampleReal() symexpr.Expr[float64] {
	x := symexpr.Sym[float64]("x")
	y := symexpr.Sym[float64]("y")
	return symexpr.PowN(x, 2).Add(symexpr.SinOf(x)).
		Sub(symexpr.LogOf(y).Div(symexpr.ExpOf(x.Neg()))).
		Mul(symexpr.CosOf(symexpr.Num(1.5)))
}

func TestToMap_Layout(t *testing.T) {
	x := symexpr.Sym[float64]("x")
	e := symexpr.PowN(x, 2).Add(symexpr.SinOf(x))

	want := map[string]interface{}{
		"type": "add",
		"left": map[string]interface{}{
			"type": "pow",
			"base": map[string]interface{}{"type": "sym", "name": "x"},
			"exp":  map[string]interface{}{"type": "num", "value": "2"},
		},
		"right": map[string]interface{}{
			"type": "sin",
			"arg":  map[string]interface{}{"type": "sym", "name": "x"},
		},
	}
	if diff := cmp.Diff(want, e.ToMap()); diff != "" {
		t.Errorf("ToMap mismatch (-want +got):\n%s", diff)
	}
}

func TestToJSON_Add(t *testing.T) {
	e := symexpr.Num(1.0).Add(symexpr.Sym[float64]("x"))
	j, err := symexpr.ToJSON(e)
	require.NoError(t, err)
	assert.Equal(t, `{"left":{"type":"num","value":"1"},"right":{"name":"x","type":"sym"},"type":"add"}`, j)
}

func TestJSON_RoundTrip(t *testing.T) {
	original := sampleReal()
	j, err := symexpr.ToJSON(original)
	require.NoError(t, err)

	rebuilt, err := symexpr.ParseJSON[float64]([]byte(j))
	require.NoError(t, err)
	assert.True(t, rebuilt.Equal(original), "round-trip mismatch: %s != %s", rebuilt, original)
}

func TestJSON_RoundTripComplex(t *testing.T) {
	z := symexpr.Sym[complex128]("z")
	original := symexpr.ExpOf(z).Add(symexpr.PowN(z, complex(2, -0.5)))

	type doc struct {
		F symexpr.Expr[complex128] `json:"f"`
	}
	b, err := json.Marshal(doc{F: original})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"value":"(2-0.5i)"`)

	var out doc
	require.NoError(t, json.Unmarshal(b, &out))
	assert.True(t, out.F.Equal(original))
}

func TestYAML_RoundTrip(t *testing.T) {
	original := sampleReal()
	b, err := yaml.Marshal(original)
	require.NoError(t, err)

	var rebuilt symexpr.Expr[float64]
	require.NoError(t, yaml.Unmarshal(b, &rebuilt))
	assert.True(t, rebuilt.Equal(original))
}

func TestYAML_HandWrittenNumbers(t *testing.T) {
	src := `
type: mul
left: {type: num, value: 3}
right:
  type: pow
  base: {type: sym, name: x}
  exp: {type: num, value: 0.5}
`
	var e symexpr.Expr[float64]
	require.NoError(t, yaml.Unmarshal([]byte(src), &e))
	assert.Equal(t, "(3 * pow(x, 0.5))", e.String())

	var c symexpr.Expr[complex128]
	require.NoError(t, yaml.Unmarshal([]byte(`{type: num, value: "1+2i"}`), &c))
	assert.Equal(t, complex(1, 2), c.Value())
}

func TestFromJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing type", `{"name":"x"}`},
		{"type not string", `{"type":3}`},
		{"unknown type", `{"type":"tan","arg":{"type":"sym","name":"x"}}`},
		{"missing left", `{"type":"add","right":{"type":"sym","name":"x"}}`},
		{"operand not object", `{"type":"neg","arg":"x"}`},
		{"bad value", `{"type":"num","value":"abc"}`},
		{"missing value", `{"type":"num"}`},
		{"empty name", `{"type":"sym","name":""}`},
		{"nested", `{"type":"pow","base":{"type":"sym","name":"x"},"exp":{"type":"num","value":true}}`},
		{"not json", `{"type":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := symexpr.ParseJSON[float64]([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, symexpr.ErrInvalidExpression)
		})
	}
}

func TestFromJSON_NilMap(t *testing.T) {
	_, err := symexpr.FromJSON[float64](nil)
	assert.ErrorIs(t, err, symexpr.ErrInvalidExpression)
}
