package compiler

import (
	"context"
	"fmt"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/i18n"
	"github.com/reoring/jsmodel/model"
	"github.com/reoring/jsmodel/source"
)

// slotMatcher reports whether one array element satisfies a slot definition.
type slotMatcher func(v any) bool

// buildArray compiles an array property into its element type and the rules
// that carry the tuple, contains, length and uniqueness checks. Each keyword
// contributes an independent rule.
func (b *ClassBuilder) buildArray(ctx context.Context, className, propName string, attrs *source.Object, path string) (model.Type, []model.Rule, error) {
	var rules []model.Rule
	elem := model.Any

	if attrs.Has("contains") {
		def := attrs.Object("contains")
		if def == nil {
			return nil, nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaParse, "contains must be an object").At(path + "/contains")
		}
		match, err := b.slot(ctx, def, path+"/contains")
		if err != nil {
			return nil, nil, err
		}
		minC, err := intAttr(attrs, "minContains")
		if err != nil {
			return nil, nil, at(err, path+"/minContains")
		}
		maxC, err := intAttr(attrs, "maxContains")
		if err != nil {
			return nil, nil, at(err, path+"/maxContains")
		}
		rules = append(rules, containsRule(propName, match, minC, maxC))
	}

	items, hasItems := attrs.Get("items")
	prefix, hasPrefix := attrs.List("prefixItems")
	if !hasPrefix {
		// draft-07 tuple form: items is a list and additionalItems covers the rest.
		if list, ok := items.([]any); ok {
			prefix, hasPrefix = list, true
			items, hasItems = attrs.Get("additionalItems")
		}
	}
	switch {
	case hasPrefix:
		r, err := b.tupleRule(ctx, propName, prefix, items, hasItems, path)
		if err != nil {
			return nil, nil, err
		}
		rules = append(rules, r)
	case hasItems:
		if items == false {
			r, err := b.tupleRule(ctx, propName, nil, items, true, path)
			if err != nil {
				return nil, nil, err
			}
			rules = append(rules, r)
			break
		}
		t, err := b.itemsType(ctx, items, path+"/items")
		if err != nil {
			return nil, nil, err
		}
		elem = t
	}

	if attrs.Has("minItems") || attrs.Has("maxItems") {
		minI, err := intAttr(attrs, "minItems")
		if err != nil {
			return nil, nil, at(err, path+"/minItems")
		}
		maxI, err := intAttr(attrs, "maxItems")
		if err != nil {
			return nil, nil, at(err, path+"/maxItems")
		}
		rules = append(rules, lengthRule(propName, minI, maxI))
	}

	if attrs.Bool("uniqueItems") {
		rules = append(rules, uniqueRule(propName))
	}
	return model.List(elem), rules, nil
}

// itemsType resolves the element type declared by a non-tuple items keyword.
func (b *ClassBuilder) itemsType(ctx context.Context, items any, path string) (model.Type, error) {
	if items == true {
		return model.Any, nil
	}
	def, ok := items.(*source.Object)
	if !ok {
		return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaParse, "items must be an object").At(path)
	}
	if ref, ok := def.String("$ref"); ok {
		name, err := b.resolveRef(ctx, ref, path+"/$ref")
		if err != nil {
			return nil, err
		}
		return model.ForwardRef{Name: name}, nil
	}
	raw, ok := def.Get("type")
	if !ok {
		return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaParse,
			"items, if it exists, should include either $ref or type").At(path)
	}
	if hasNumberConstraints(def) {
		t, err := buildNumberType(def)
		return t, at(err, path)
	}
	t, err := resolveType(plain(raw))
	return t, at(err, path+"/type")
}

func (b *ClassBuilder) tupleRule(ctx context.Context, propName string, prefix []any, items any, hasItems bool, path string) (model.Rule, error) {
	slots := make([]slotMatcher, len(prefix))
	for i, raw := range prefix {
		p := fmt.Sprintf("%s/prefixItems/%d", path, i)
		def, ok := raw.(*source.Object)
		if !ok {
			return model.Rule{}, jsmodel.SchemaErrorf(jsmodel.ErrSchemaParse, "Unknown tuple type definition format: %v", plain(raw)).At(p)
		}
		m, err := b.slot(ctx, def, p)
		if err != nil {
			return model.Rule{}, err
		}
		slots[i] = m
	}
	closed := hasItems && items == false
	var trailing slotMatcher
	if def, ok := items.(*source.Object); ok && hasItems {
		m, err := b.slot(ctx, def, path+"/items")
		if err != nil {
			return model.Rule{}, err
		}
		trailing = m
	}

	return model.Rule{
		Name: "validate_" + propName + "_tuple",
		Kind: model.Check,
		Fn: func(_ context.Context, v any) (any, error) {
			list, ok := v.([]any)
			if !ok {
				return v, nil
			}
			var iss jsmodel.Issues
			for i, e := range list {
				switch {
				case i < len(slots):
					if slots[i](e) {
						continue
					}
				case closed:
					iss = append(iss, tupleIssue(i, fmt.Sprintf("no more than %d items allowed", len(slots))))
					return v, iss
				case trailing != nil:
					if trailing(e) {
						continue
					}
				default:
					continue
				}
				iss = append(iss, tupleIssue(i, "item does not match the tuple definition"))
			}
			if len(iss) > 0 {
				return v, iss
			}
			return v, nil
		},
	}, nil
}

func tupleIssue(i int, hint string) jsmodel.Issue {
	it := jsmodel.Root().Index(i).Issue(jsmodel.CodeTuple, i18n.T(jsmodel.CodeTuple, nil), "index", i)
	it.Hint = hint
	return it
}

// slot compiles a tuple slot or contains definition. The definition may carry a
// type, an inline enum, a $ref (matched as an object mapping) or a const.
func (b *ClassBuilder) slot(ctx context.Context, def *source.Object, path string) (slotMatcher, error) {
	if raw, ok := def.Get("type"); ok {
		names, err := typeNames(plain(raw))
		if err != nil {
			return nil, at(err, path+"/type")
		}
		var members []any
		if vals, ok := def.List("enum"); ok {
			members = plainList(vals)
		}
		return func(v any) bool {
			if !matchesTypeNames(names, v) {
				return false
			}
			return members == nil || inValues(members, v)
		}, nil
	}
	if vals, ok := def.List("enum"); ok {
		members := plainList(vals)
		return func(v any) bool { return inValues(members, v) }, nil
	}
	if ref, ok := def.String("$ref"); ok {
		if _, err := b.resolveRef(ctx, ref, path+"/$ref"); err != nil {
			return nil, err
		}
		return func(v any) bool { return valueKind(v) == kindObject }, nil
	}
	if raw, ok := def.Get("const"); ok {
		want := plain(raw)
		return func(v any) bool { return sameKindValue(want, v) }, nil
	}
	return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaParse, "Unknown tuple type definition format: %v", plain(def)).At(path)
}

// matchesTypeNames checks v against JSON type names. "number" accepts integers,
// "integer" does not accept floats, and booleans are never numbers.
func matchesTypeNames(names []string, v any) bool {
	k := valueKind(v)
	for _, n := range names {
		switch n {
		case "string":
			if k == kindString {
				return true
			}
		case "integer":
			if k == kindInt {
				return true
			}
		case "number", "float":
			if k == kindInt || k == kindFloat {
				return true
			}
		case "boolean":
			if k == kindBool {
				return true
			}
		case "array":
			if k == kindList {
				return true
			}
		case "object":
			if k == kindObject {
				return true
			}
		case "null":
			if k == kindNull {
				return true
			}
		}
	}
	return false
}

func containsRule(propName string, match slotMatcher, minC, maxC *int) model.Rule {
	return model.Rule{
		Name: "validate_" + propName + "_contains",
		Kind: model.Check,
		Fn: func(_ context.Context, v any) (any, error) {
			list, ok := v.([]any)
			if !ok {
				return v, nil
			}
			count := 0
			for _, e := range list {
				if match(e) {
					count++
				}
			}
			if count < 1 || (minC != nil && count < *minC) || (maxC != nil && count > *maxC) {
				it := jsmodel.Root().Issue(jsmodel.CodeContains, i18n.T(jsmodel.CodeContains, nil), "count", count)
				if minC != nil {
					it.Params["minContains"] = *minC
				}
				if maxC != nil {
					it.Params["maxContains"] = *maxC
				}
				it.Hint = fmt.Sprintf("%d matching items", count)
				return v, jsmodel.Issues{it}
			}
			return v, nil
		},
	}
}

func lengthRule(propName string, minI, maxI *int) model.Rule {
	return model.Rule{
		Name: "validate_" + propName + "_length",
		Kind: model.Check,
		Fn: func(_ context.Context, v any) (any, error) {
			list, ok := v.([]any)
			if !ok {
				return v, nil
			}
			n := len(list)
			if minI != nil && n < *minI {
				return v, jsmodel.Issues{jsmodel.Root().Issue(jsmodel.CodeTooShort, i18n.T(jsmodel.CodeTooShort, nil), "minItems", *minI, "got", n)}
			}
			if maxI != nil && n > *maxI {
				return v, jsmodel.Issues{jsmodel.Root().Issue(jsmodel.CodeTooLong, i18n.T(jsmodel.CodeTooLong, nil), "maxItems", *maxI, "got", n)}
			}
			return v, nil
		},
	}
}

func uniqueRule(propName string) model.Rule {
	return model.Rule{
		Name: "validate_" + propName + "_unique",
		Kind: model.Check,
		Fn: func(_ context.Context, v any) (any, error) {
			list, ok := v.([]any)
			if !ok {
				return v, nil
			}
			for i := range list {
				for j := i + 1; j < len(list); j++ {
					if sameKindValue(list[i], list[j]) {
						it := jsmodel.Root().Index(j).Issue(jsmodel.CodeUniqueness, i18n.T(jsmodel.CodeUniqueness, nil), "duplicateOf", i)
						return v, jsmodel.Issues{it}
					}
				}
			}
			return v, nil
		},
	}
}

// sameKindValue is equality restricted to one kind family: 1 and 1.0 differ,
// as do false and 0.
func sameKindValue(a, b any) bool {
	return valueKind(a) == valueKind(b) && model.SameValue(a, b)
}

func inValues(members []any, v any) bool {
	for _, m := range members {
		if sameKindValue(m, v) {
			return true
		}
	}
	return false
}

func plainList(vals []any) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = plain(v)
	}
	return out
}

// intAttr reads an optional non-negative integer keyword.
func intAttr(attrs *source.Object, key string) (*int, error) {
	raw, ok := attrs.Get(key)
	if !ok {
		return nil, nil
	}
	switch n := plain(raw).(type) {
	case int64:
		if n >= 0 {
			i := int(n)
			return &i, nil
		}
	case int:
		if n >= 0 {
			return &n, nil
		}
	case float64:
		if n >= 0 && n == float64(int64(n)) {
			i := int(n)
			return &i, nil
		}
	}
	return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaParse, "%s must be a non-negative integer, got %v", key, plain(raw))
}
