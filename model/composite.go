package model

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/i18n"
	"github.com/reoring/jsmodel/internal/num"
	js "github.com/reoring/jsmodel/jsonschema"
)

// List returns a homogeneous list type.
func List(elem Type) Type {
	if elem == nil {
		elem = Any
	}
	return &listType{elem: elem}
}

type listType struct{ elem Type }

// Elem returns the element type of a list type, or nil when t is not a list.
func Elem(t Type) Type {
	if l, ok := t.(*listType); ok {
		return l.elem
	}
	return nil
}

func (l *listType) Parse(ctx context.Context, v any) (any, error) {
	items, ok := asSlice(v)
	if !ok {
		return nil, typeIssue("array")
	}
	out := make([]any, len(items))
	var iss jsmodel.Issues
	for i, it := range items {
		pv, err := l.elem.Parse(ctx, it)
		if err != nil {
			iss = jsmodel.AppendIssues(iss, jsmodel.IssuesFromErr(jsmodel.Root().Index(i).Pointer(), err)...)
			if jsmodel.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out[i] = pv
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (l *listType) String() string { return "List[" + l.elem.String() + "]" }

func (l *listType) JSONSchema() *js.Schema {
	s := &js.Schema{Type: "array"}
	if l.elem != Any {
		s.Items = schemaOf(l.elem)
	}
	return s
}

// asSlice accepts []any and any other slice or array kind.
func asSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Union returns a type accepting the first member that accepts the value.
// A single member is returned as is.
func Union(members ...Type) Type {
	if len(members) == 1 {
		return members[0]
	}
	return &unionType{members: append([]Type(nil), members...)}
}

type unionType struct{ members []Type }

// Members returns the members of a union or optional type, or nil otherwise.
func Members(t Type) []Type {
	switch u := t.(type) {
	case *unionType:
		return append([]Type(nil), u.members...)
	case *optionalType:
		return []Type{u.inner, Null}
	}
	return nil
}

func (u *unionType) Parse(ctx context.Context, v any) (any, error) {
	var firstIssues jsmodel.Issues
	for _, m := range u.members {
		pv, err := m.Parse(ctx, v)
		if err == nil {
			return pv, nil
		}
		if firstIssues == nil {
			firstIssues, _ = jsmodel.AsIssues(err)
		}
	}
	names := make([]string, len(u.members))
	for i, m := range u.members {
		names[i] = m.String()
	}
	iss := jsmodel.Issue{
		Path:    "/",
		Code:    jsmodel.CodeInvalidType,
		Message: i18n.T(jsmodel.CodeInvalidType, nil),
		Hint:    "expected one of " + strings.Join(names, ", "),
	}
	if len(firstIssues) > 0 {
		iss.Cause = firstIssues
	}
	return nil, jsmodel.Issues{iss}
}

func (u *unionType) String() string {
	names := make([]string, len(u.members))
	for i, m := range u.members {
		names[i] = m.String()
	}
	return "Union[" + strings.Join(names, ", ") + "]"
}

func (u *unionType) JSONSchema() *js.Schema {
	s := &js.Schema{}
	for _, m := range u.members {
		s.AnyOf = append(s.AnyOf, schemaOf(m))
	}
	return s
}

// Optional makes t nullable. Optional(Optional(t)) is Optional(t).
func Optional(t Type) Type {
	if _, ok := t.(*optionalType); ok {
		return t
	}
	return &optionalType{inner: t}
}

type optionalType struct{ inner Type }

// IsOptional reports whether t accepts null through Optional.
func IsOptional(t Type) bool {
	_, ok := t.(*optionalType)
	return ok
}

func (o *optionalType) Parse(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return o.inner.Parse(ctx, v)
}

func (o *optionalType) String() string { return "Optional[" + o.inner.String() + "]" }

func (o *optionalType) JSONSchema() *js.Schema {
	return &js.Schema{AnyOf: []*js.Schema{schemaOf(o.inner), {Type: "null"}}}
}

// Literal accepts exactly one primitive value.
func Literal(v any) Type { return &literalType{value: v} }

type literalType struct{ value any }

// LiteralValue returns the constant of a literal type.
func LiteralValue(t Type) (any, bool) {
	if l, ok := t.(*literalType); ok {
		return l.value, true
	}
	return nil, false
}

func (l *literalType) Parse(_ context.Context, v any) (any, error) {
	if SameValue(l.value, v) {
		return l.value, nil
	}
	return nil, jsmodel.Issues{jsmodel.Issue{
		Path:    "/",
		Code:    jsmodel.CodeInvalidConst,
		Message: i18n.T(jsmodel.CodeInvalidConst, nil),
		Hint:    fmt.Sprintf("expected %v", l.value),
		Params:  map[string]any{"const": l.value},
	}}
}

func (l *literalType) String() string { return fmt.Sprintf("Literal[%#v]", l.value) }

func (l *literalType) JSONSchema() *js.Schema { return &js.Schema{Const: l.value} }

// SameValue compares two JSON values requiring the same kind family: numbers
// compare numerically, so 1 equals 1.0, but false never equals 0.
func SameValue(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case *Instance:
		bi, ok := b.(*Instance)
		return ok && SameValue(av.Dump(), bi.Dump())
	}
	if num.IsNumber(a) {
		return num.IsNumber(b) && num.Equal(a, b)
	}
	if as, ok := asSlice(a); ok {
		bs, ok := asSlice(b)
		if !ok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !SameValue(as[i], bs[i]) {
				return false
			}
		}
		return true
	}
	if am, ok := a.(map[string]any); ok {
		bm, ok := b.(map[string]any)
		if !ok || len(am) != len(bm) {
			return false
		}
		for k, v := range am {
			bv, exists := bm[k]
			if !exists || !SameValue(v, bv) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// schemaOf renders t for use inside another schema; models become references.
func schemaOf(t Type) *js.Schema {
	if m, ok := t.(*Model); ok {
		return &js.Schema{Ref: defsPrefix + m.Name}
	}
	return t.JSONSchema()
}

const defsPrefix = "#/$defs/"
