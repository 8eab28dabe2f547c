package model

import (
	"context"
	"fmt"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/i18n"
	js "github.com/reoring/jsmodel/jsonschema"
)

// ForwardRef names a model that may not exist yet. It is replaced by the model
// itself in ResolveForwardRefs.
type ForwardRef struct{ Name string }

func (r ForwardRef) Parse(context.Context, any) (any, error) {
	return nil, jsmodel.Issues{jsmodel.Issue{
		Path:    "/",
		Code:    jsmodel.CodeUnresolved,
		Message: i18n.T(jsmodel.CodeUnresolved, nil),
		Hint:    r.Name,
	}}
}

func (r ForwardRef) String() string { return "ForwardRef(" + r.Name + ")" }

func (r ForwardRef) JSONSchema() *js.Schema { return &js.Schema{Ref: defsPrefix + r.Name} }

// Resolved reports whether ResolveForwardRefs already ran on m.
func (m *Model) Resolved() bool { return m.resolved }

// ResolveForwardRefs substitutes every ForwardRef in m's field types with the
// model of the same name from ns. It runs once per model.
func (m *Model) ResolveForwardRefs(ns map[string]*Model) error {
	if m.resolved {
		return fmt.Errorf("model %s: forward references already resolved", m.Name)
	}
	if m.Base != nil {
		t, err := resolveType(m.Base, ns)
		if err != nil {
			return fmt.Errorf("model %s: %w", m.Name, err)
		}
		m.Base = t
	}
	for _, f := range m.Fields {
		t, err := resolveType(f.Type, ns)
		if err != nil {
			return fmt.Errorf("model %s field %s: %w", m.Name, f.Name, err)
		}
		f.Type = t
	}
	m.resolved = true
	return nil
}

// HasForwardRefs reports whether t still contains placeholders.
func HasForwardRefs(t Type) bool {
	if _, ok := t.(ForwardRef); ok {
		return true
	}
	for _, c := range children(t) {
		if HasForwardRefs(c) {
			return true
		}
	}
	return false
}

func resolveType(t Type, ns map[string]*Model) (Type, error) {
	switch c := t.(type) {
	case ForwardRef:
		target, ok := ns[c.Name]
		if !ok {
			return nil, fmt.Errorf("unresolved reference to %q", c.Name)
		}
		return target, nil
	case *listType:
		e, err := resolveType(c.elem, ns)
		if err != nil {
			return nil, err
		}
		return &listType{elem: e}, nil
	case *optionalType:
		in, err := resolveType(c.inner, ns)
		if err != nil {
			return nil, err
		}
		return &optionalType{inner: in}, nil
	case *unionType:
		ms := make([]Type, len(c.members))
		for i, mt := range c.members {
			r, err := resolveType(mt, ns)
			if err != nil {
				return nil, err
			}
			ms[i] = r
		}
		return &unionType{members: ms}, nil
	}
	return t, nil
}
