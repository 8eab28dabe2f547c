package compiler

import (
	"math/big"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/internal/num"
	"github.com/reoring/jsmodel/model"
	"github.com/reoring/jsmodel/source"
)

var numberKeywords = []string{"minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf"}

// hasNumberConstraints reports whether attrs carries any numeric bound keyword.
func hasNumberConstraints(attrs *source.Object) bool {
	for _, k := range numberKeywords {
		if attrs.Has(k) {
			return true
		}
	}
	return false
}

// buildNumberType builds a bounded Int (type integer) or Number (number, float).
func buildNumberType(attrs *source.Object) (model.Type, error) {
	var base model.Type
	switch t, _ := attrs.String("type"); t {
	case "integer":
		base = model.Int
	case "number", "float":
		base = model.Number
	default:
		return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaConversion, "numeric constraints on non-numeric type %q", t)
	}
	var b model.Bounds
	targets := map[string]**big.Rat{
		"minimum":          &b.Minimum,
		"maximum":          &b.Maximum,
		"exclusiveMinimum": &b.ExclusiveMinimum,
		"exclusiveMaximum": &b.ExclusiveMaximum,
		"multipleOf":       &b.MultipleOf,
	}
	for _, k := range numberKeywords {
		raw, ok := attrs.Get(k)
		if !ok {
			continue
		}
		r, err := num.Rat(raw)
		if err != nil {
			return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaParse, "%s must be a number, got %v", k, raw)
		}
		*targets[k] = r
	}
	if b.MultipleOf != nil && b.MultipleOf.Sign() <= 0 {
		return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaParse, "multipleOf must be greater than 0")
	}
	return model.Constrain(base, b), nil
}
