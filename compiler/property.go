package compiler

import (
	"context"
	"fmt"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/model"
	"github.com/reoring/jsmodel/source"
)

// propertyPlan is one compiled property plus the flags its owning model needs.
type propertyPlan struct {
	field          *model.Field
	forwardRef     bool
	populateByName bool
}

// buildProperty compiles one entry of an object's properties.
func (b *ClassBuilder) buildProperty(ctx context.Context, className, propName string, attrs *source.Object, required bool, path string) (propertyPlan, error) {
	var plan propertyPlan
	f := &model.Field{Name: propName, Required: required}

	if len(propName) > 1 && propName[0] == '_' {
		f.Name = propName[1:]
		f.Alias = propName
		plan.populateByName = true
	}

	var t model.Type
	switch {
	case attrs.Has("$ref"):
		ref, ok := attrs.String("$ref")
		if !ok {
			return plan, jsmodel.SchemaErrorf(jsmodel.ErrSchemaParse, "$ref must be a string").At(path + "/$ref")
		}
		name, err := b.resolveRef(ctx, ref, path+"/$ref")
		if err != nil {
			return plan, err
		}
		t = model.ForwardRef{Name: name}
	case attrs.Has("type"):
		raw, _ := attrs.Get("type")
		switch tn := plain(raw); {
		case tn == "array":
			lt, rules, err := b.buildArray(ctx, className, f.Name, attrs, path)
			if err != nil {
				return plan, err
			}
			t = lt
			f.Rules = append(f.Rules, rules...)
		case isNumeric(tn) && hasNumberConstraints(attrs):
			nt, err := buildNumberType(attrs)
			if err != nil {
				return plan, at(err, path)
			}
			t = nt
		case tn == "string" && hasStringConstraints(attrs):
			st, err := buildStringType(attrs)
			if err != nil {
				return plan, at(err, path)
			}
			t = st
		default:
			rt, err := resolveType(tn)
			if err != nil {
				return plan, at(err, path+"/type")
			}
			t = rt
		}
	default:
		t = model.Any
	}

	if raw, ok := attrs.Get("default"); ok {
		f.HasDefault = true
		f.Default = plain(raw)
	} else if !required {
		f.HasDefault = true
	}

	if attrs.Bool("deprecated") {
		f.Deprecated = true
		msg := fmt.Sprintf("Property %s.%s is deprecated", className, f.Name)
		f.Rules = append(f.Rules, model.Rule{
			Name: f.Name + "_deprecated",
			Kind: model.LogOnly,
			Fn: func(context.Context, any) (any, error) {
				b.log.Warn(msg)
				return nil, nil
			},
		})
	}

	switch {
	case attrs.Has("const"):
		raw, _ := attrs.Get("const")
		v := plain(raw)
		switch k := valueKind(v); k {
		case kindString, kindInt, kindFloat, kindBool:
		default:
			return plan, jsmodel.SchemaErrorf(jsmodel.ErrSchemaConversion, "Unable to construct const from type %s", k).At(path + "/const")
		}
		t = model.Literal(v)
		f.HasDefault = true
		f.Default = v
	case attrs.Has("enum"):
		et, err := buildEnum(f.Name, attrs)
		if err != nil {
			return plan, at(err, path+"/enum")
		}
		t = et
	}

	if !required {
		t = model.Optional(t)
	}
	f.Type = t
	plan.forwardRef = model.HasForwardRefs(t)

	f.Description, _ = attrs.String("description")
	f.Title, _ = attrs.String("title")
	if ex, ok := attrs.List("examples"); ok {
		f.Examples = plainList(ex)
	}
	plan.field = f
	return plan, nil
}

func isNumeric(t any) bool {
	return t == "number" || t == "integer" || t == "float"
}
