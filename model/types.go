package model

import (
	"context"
	"reflect"
	"strings"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/i18n"
	"github.com/reoring/jsmodel/internal/num"
	js "github.com/reoring/jsmodel/jsonschema"
)

// Type converts and validates one value.
type Type interface {
	// Parse returns the accepted (possibly normalized) value or jsmodel.Issues.
	Parse(ctx context.Context, v any) (any, error)
	// String renders the type for diagnostics and the CLI.
	String() string
	// JSONSchema projects the type for documentation output.
	JSONSchema() *js.Schema
}

var (
	// Any accepts every value unchanged.
	Any Type = anyType{}
	// Null accepts only null.
	Null Type = nullType{}
	// String accepts strings.
	String Type = stringType{}
	// Bool accepts booleans.
	Bool Type = boolType{}
	// Int accepts integers only: no floats, no booleans, no numeric strings.
	Int Type = intType{}
	// Number accepts integers and floats but not booleans or strings.
	Number Type = numberType{}
	// Map accepts JSON objects.
	Map Type = mapType{}
)

func typeIssue(expected string) error {
	return jsmodel.Issues{jsmodel.Issue{
		Path:    "/",
		Code:    jsmodel.CodeInvalidType,
		Message: i18n.T(jsmodel.CodeInvalidType, map[string]string{"expected": expected}),
		Hint:    "expected " + expected,
	}}
}

type anyType struct{}

func (anyType) Parse(_ context.Context, v any) (any, error) { return v, nil }
func (anyType) String() string                              { return "Any" }
func (anyType) JSONSchema() *js.Schema                      { return &js.Schema{} }

type nullType struct{}

func (nullType) Parse(_ context.Context, v any) (any, error) {
	if v != nil {
		return nil, typeIssue("null")
	}
	return nil, nil
}
func (nullType) String() string         { return "None" }
func (nullType) JSONSchema() *js.Schema { return &js.Schema{Type: "null"} }

type stringType struct{}

func (stringType) Parse(_ context.Context, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, typeIssue("string")
	}
	return s, nil
}
func (stringType) String() string         { return "str" }
func (stringType) JSONSchema() *js.Schema { return &js.Schema{Type: "string"} }

type boolType struct{}

func (boolType) Parse(_ context.Context, v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, typeIssue("boolean")
	}
	return b, nil
}
func (boolType) String() string         { return "bool" }
func (boolType) JSONSchema() *js.Schema { return &js.Schema{Type: "boolean"} }

type intType struct{}

func (intType) Parse(_ context.Context, v any) (any, error) {
	if isGoInt(v) {
		return v, nil
	}
	if isIntLiteral(v) {
		if r, err := num.Rat(v); err == nil && r.Num().IsInt64() {
			return r.Num().Int64(), nil
		}
		return v, nil
	}
	return nil, typeIssue("integer")
}
func (intType) String() string         { return "int" }
func (intType) JSONSchema() *js.Schema { return &js.Schema{Type: "integer"} }

type numberType struct{}

func (numberType) Parse(_ context.Context, v any) (any, error) {
	if isGoInt(v) || isGoFloat(v) {
		return v, nil
	}
	if isNumberLiteral(v) && num.IsNumber(v) {
		return literalValue(v), nil
	}
	return nil, typeIssue("number")
}
func (numberType) String() string         { return "float" }
func (numberType) JSONSchema() *js.Schema { return &js.Schema{Type: "number"} }

// isNumberLiteral matches json.Number from encoding/json and goccy/go-json.
func isNumberLiteral(v any) bool {
	_, ok := v.(interface {
		String() string
		Int64() (int64, error)
		Float64() (float64, error)
	})
	return ok
}

// isIntLiteral reports a number literal written without a fraction or exponent,
// so "2.0" and "2e0" stay floats as they would after decoding into float64.
func isIntLiteral(v any) bool {
	if !isNumberLiteral(v) || !num.IsIntegral(v) {
		return false
	}
	return !strings.ContainsAny(v.(interface{ String() string }).String(), ".eE")
}

// literalValue lowers a number literal to int64 when written without a fraction
// or exponent and in range, else to float64. Unparseable literals are returned
// unchanged.
func literalValue(v any) any {
	lit, ok := v.(interface{ String() string })
	if !ok {
		return v
	}
	r, err := num.Rat(v)
	if err != nil {
		return v
	}
	if !strings.ContainsAny(lit.String(), ".eE") && r.IsInt() && r.Num().IsInt64() {
		return r.Num().Int64()
	}
	f, _ := r.Float64()
	return f
}

// Normalize lowers number literals anywhere in v (maps, lists) to int64 or
// float64 so schema-provided values compare and encode like Go values.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Normalize(e)
		}
		return out
	}
	if isNumberLiteral(v) {
		return literalValue(v)
	}
	return v
}

type mapType struct{}

func (mapType) Parse(_ context.Context, v any) (any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case *Instance:
		return m.Dump(), nil
	}
	return nil, typeIssue("object")
}
func (mapType) String() string         { return "dict" }
func (mapType) JSONSchema() *js.Schema { return &js.Schema{Type: "object"} }

func isGoInt(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isGoFloat(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
