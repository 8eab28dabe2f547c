package compiler

import (
	"fmt"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/model"
)

// resolveType maps a JSON Schema type name, or a list of names, to a model type.
// A list becomes a union in declaration order.
func resolveType(v any) (model.Type, error) {
	switch t := v.(type) {
	case nil:
		return model.Null, nil
	case string:
		switch t {
		case "string":
			return model.String, nil
		case "integer":
			return model.Int, nil
		case "number", "float":
			return model.Number, nil
		case "boolean":
			return model.Bool, nil
		case "array":
			return model.List(model.Any), nil
		case "object":
			return model.Map, nil
		case "null":
			return model.Null, nil
		}
		return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaConversion, "unrecognized type")
	case []any:
		if len(t) == 0 {
			return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaConversion, "empty type list")
		}
		members := make([]model.Type, 0, len(t))
		for _, name := range t {
			if _, nested := name.([]any); nested {
				return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaConversion, "unrecognized type")
			}
			mt, err := resolveType(name)
			if err != nil {
				return nil, err
			}
			members = append(members, mt)
		}
		return model.Union(members...), nil
	}
	return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaConversion, "unrecognized type %s", fmt.Sprint(v))
}

// typeNames flattens a type designation into its names for slot checks.
func typeNames(v any) ([]string, error) {
	switch t := v.(type) {
	case string:
		if _, err := resolveType(t); err != nil {
			return nil, err
		}
		return []string{t}, nil
	case []any:
		if _, err := resolveType(t); err != nil {
			return nil, err
		}
		out := make([]string, 0, len(t))
		for _, n := range t {
			s, ok := n.(string)
			if !ok {
				s = "null"
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaConversion, "unrecognized type")
}
