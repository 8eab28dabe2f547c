package compiler

import (
	"context"
	"fmt"
	"strings"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/model"
	"github.com/reoring/jsmodel/source"
)

// buildClass dispatches a definition on its type and registers the result.
func (b *ClassBuilder) buildClass(ctx context.Context, name string, def *source.Object, path string) error {
	raw, hasType := def.Get("type")
	if !hasType && def.Has("properties") {
		raw = "object"
	}
	switch raw {
	case "object":
		return b.buildObjectClass(ctx, name, def, path)
	case "string", "number", "integer":
		return b.buildPrimitiveClass(name, raw.(string), def, path)
	}
	return jsmodel.SchemaErrorf(jsmodel.ErrUnsupportedSchema, "definition %s has unsupported type %v", name, plain(raw)).At(path + "/type")
}

func (b *ClassBuilder) buildObjectClass(ctx context.Context, name string, def *source.Object, path string) error {
	ob := model.Object(name)
	if desc, ok := def.String("description"); ok {
		ob.Doc(desc)
	}
	if def.Bool("deprecated") {
		msg := fmt.Sprintf("Class %s is deprecated.", name)
		ob.Rule(model.Rule{
			Name: "class_deprecated",
			Kind: model.LogOnly,
			Fn: func(context.Context, any) (any, error) {
				b.log.Warn(msg)
				return nil, nil
			},
		})
	}

	required := map[string]bool{}
	if list, ok := def.List("required"); ok {
		for _, r := range list {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	var forwardRefs, populate bool
	if raw, ok := def.Get("properties"); ok {
		props, isObj := raw.(*source.Object)
		if !isObj {
			return jsmodel.SchemaErrorf(jsmodel.ErrSchemaParse, "properties must be an object").At(path + "/properties")
		}
		for _, prop := range props.Keys() {
			ppath := path + "/properties/" + jsmodel.EscapePointer(prop)
			attrs := props.Object(prop)
			if attrs == nil {
				return jsmodel.SchemaErrorf(jsmodel.ErrSchemaParse, "property %s must be an object", prop).At(ppath)
			}
			plan, err := b.buildProperty(ctx, name, prop, attrs, required[prop], ppath)
			if err != nil {
				return err
			}
			ob.AddField(plan.field)
			forwardRefs = forwardRefs || plan.forwardRef
			populate = populate || plan.populateByName
		}
	}

	switch extra, ok := def.Get("additionalProperties"); {
	case !ok:
		ob.UnknownStrip()
	case extra == false:
		ob.UnknownStrict()
	case extra == true:
		ob.UnknownPassthrough()
	default:
		ob.UnknownStrip()
		if err := b.warnf(path+"/additionalProperties", "Unrecognized additionalProperties value: %v", plain(extra)); err != nil {
			return err
		}
	}
	if ex, ok := def.Get("example"); ok {
		ob.Example(plain(ex))
	}
	if populate {
		ob.PopulateByName()
	}

	m, err := ob.Build()
	if err != nil {
		return jsmodel.SchemaErrorf(jsmodel.ErrSchemaConversion, "%v", err).Wrap(err).At(path)
	}
	b.register(m, forwardRefs)
	b.log.Debug("object model built", "name", name, "fields", len(m.Fields), "forward_refs", forwardRefs)
	return nil
}

// buildPrimitiveClass builds a named string, number or integer model. Strings may
// carry a pattern, length bounds or an enum; numbers bounds or an enum.
func (b *ClassBuilder) buildPrimitiveClass(name, typ string, def *source.Object, path string) error {
	var (
		base model.Type
		err  error
	)
	switch {
	case def.Has("enum"):
		base, err = buildEnum(name, def)
		err = at(err, path+"/enum")
	case typ == "string":
		base, err = buildStringType(def)
		err = at(err, path)
	case hasNumberConstraints(def):
		base, err = buildNumberType(def)
		err = at(err, path)
	default:
		base, err = resolveType(typ)
	}
	if err != nil {
		return err
	}
	doc, _ := def.String("description")
	var rules []model.Rule
	if def.Bool("deprecated") {
		msg := fmt.Sprintf("Class %s is deprecated.", name)
		rules = append(rules, model.Rule{
			Name: "class_deprecated",
			Kind: model.LogOnly,
			Fn: func(context.Context, any) (any, error) {
				b.log.Warn(msg)
				return nil, nil
			},
		})
	}
	m := model.NewPrimitive(name, doc, base, rules...)
	if ex, ok := def.Get("example"); ok {
		m.Config.Example = plain(ex)
	}
	b.register(m, false)
	b.log.Debug("primitive model built", "name", name, "base", base.String())
	return nil
}

func hasStringConstraints(attrs *source.Object) bool {
	return attrs.Has("pattern") || attrs.Has("minLength") || attrs.Has("maxLength")
}

// buildStringType returns model.String or a *model.Pattern when the definition
// narrows it. "//" in patterns is read as an escaped "/".
func buildStringType(def *source.Object) (model.Type, error) {
	if !hasStringConstraints(def) {
		return model.String, nil
	}
	var expr string
	if raw, ok := def.Get("pattern"); ok {
		s, isStr := raw.(string)
		if !isStr {
			return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaParse, "pattern must be a string, got %v", plain(raw))
		}
		expr = strings.ReplaceAll(s, "//", "/")
	}
	minLen, err := intAttr(def, "minLength")
	if err != nil {
		return nil, err
	}
	maxLen, err := intAttr(def, "maxLength")
	if err != nil {
		return nil, err
	}
	p, err := model.NewPattern(expr, minLen, maxLen)
	if err != nil {
		return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaConversion, "invalid pattern %q", expr).Wrap(err)
	}
	return p, nil
}
