package compiler

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/model"
	"github.com/reoring/jsmodel/source"
)

// buildEnum builds a closed-value type from def["enum"]. Values must share one
// primitive type.
func buildEnum(fieldName string, def *source.Object) (*model.EnumType, error) {
	vals, ok := def.List("enum")
	if !ok {
		return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaParse, "enum must be a list")
	}
	if len(vals) == 0 {
		return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaConversion, "Enum must declare at least one value")
	}
	first := valueKind(vals[0])
	for _, v := range vals[1:] {
		if valueKind(v) != first {
			return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaConversion, "Enum values must all be the same type")
		}
	}
	var kind model.EnumKind
	switch first {
	case kindString:
		kind = model.EnumString
	case kindInt:
		kind = model.EnumInteger
	case kindFloat:
		kind = model.EnumNumber
	case kindBool:
		kind = model.EnumBool
	default:
		return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaConversion,
			"Unable to construct enum from type %s. Must be one of {string, integer, number, boolean}", first)
	}
	e := &model.EnumType{Name: fieldName, Kind: kind}
	var prior []string
	for _, v := range vals {
		sym, err := enumSymbol(v, prior)
		if err != nil {
			return nil, err
		}
		prior = append(prior, sym)
		e.Members = append(e.Members, model.EnumMember{Symbol: sym, Value: model.Normalize(v)})
	}
	return e, nil
}

// enumSymbol upper-cases the value, replaces non-word characters with '_' and
// prefixes a leading digit with '_'. Collisions and empty symbols take the first
// free suffix from _A to _Z.
func enumSymbol(v any, prior []string) (string, error) {
	key := symbolize(enumText(v))
	taken := func(s string) bool {
		for _, p := range prior {
			if p == s {
				return true
			}
		}
		return false
	}
	if key != "" && !taken(key) {
		return key, nil
	}
	for c := 'A'; c <= 'Z'; c++ {
		cand := key + "_" + string(c)
		if !taken(cand) {
			return cand, nil
		}
	}
	return "", jsmodel.SchemaErrorf(jsmodel.ErrSchemaConversion, "Unable to make enum key from provided name: %s", key)
}

func symbolize(s string) string {
	var b strings.Builder
	for i, r := range strings.ToUpper(s) {
		if i == 0 && unicode.IsDigit(r) {
			b.WriteByte('_')
		}
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}

// enumText renders a value the way symbols are derived: booleans as TRUE/FALSE,
// integral floats keep a ".0".
func enumText(v any) string {
	switch t := v.(type) {
	case bool:
		if t {
			return "True"
		}
		return "False"
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return strconv.FormatFloat(t, 'f', 1, 64)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return enumText(float64(t))
	}
	return fmt.Sprint(v)
}

// plain converts a schema-provided value (default, const, example) into plain
// Go values.
func plain(v any) any { return model.Normalize(source.Plain(v)) }

// kindTag groups JSON values by their primitive family. Integers and floats
// are different families, so are booleans and numbers.
type kindTag int

const (
	kindOther kindTag = iota
	kindNull
	kindBool
	kindString
	kindInt
	kindFloat
	kindList
	kindObject
)

func (k kindTag) String() string {
	switch k {
	case kindNull:
		return "null"
	case kindBool:
		return "boolean"
	case kindString:
		return "string"
	case kindInt:
		return "integer"
	case kindFloat:
		return "number"
	case kindList:
		return "array"
	case kindObject:
		return "object"
	}
	return "unknown"
}

// valueKind classifies v. Number literals without a fraction or exponent are
// integers, mirroring how JSON decoders split ints and floats.
func valueKind(v any) kindTag {
	switch t := v.(type) {
	case nil:
		return kindNull
	case bool:
		return kindBool
	case string:
		return kindString
	case []any:
		return kindList
	case map[string]any, *source.Object, *model.Instance:
		return kindObject
	case interface {
		String() string
		Int64() (int64, error)
	}:
		if strings.ContainsAny(t.String(), ".eE") {
			return kindFloat
		}
		return kindInt
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return kindInt
	case reflect.Float32, reflect.Float64:
		return kindFloat
	case reflect.Slice, reflect.Array:
		return kindList
	case reflect.Map:
		return kindObject
	}
	return kindOther
}
