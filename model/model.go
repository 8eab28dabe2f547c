package model

import (
	"context"
	"sort"
	"sync"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/i18n"
	js "github.com/reoring/jsmodel/jsonschema"
)

// Kind distinguishes object models from named primitives.
type Kind int

const (
	KindObject Kind = iota
	KindPrimitive
)

func (k Kind) String() string {
	if k == KindPrimitive {
		return "primitive"
	}
	return "object"
}

// Config is the model-level configuration.
type Config struct {
	// Extra is the policy for keys that match no field.
	Extra jsmodel.UnknownPolicy
	// Example is exported by JSONSchema.
	Example any
	// PopulateByName accepts internal field names for aliased fields.
	PopulateByName bool
}

// Model is a compiled data model. It is immutable once built and resolved, and
// may be shared across goroutines.
type Model struct {
	Name   string
	Doc    string
	Kind   Kind
	Fields []*Field
	Rules  []Rule
	Config Config
	// Base is the underlying type of a primitive model.
	Base Type

	once     sync.Once
	byKey    map[string]*Field
	resolved bool
}

var _ Type = (*Model)(nil)

// NewPrimitive returns a named primitive model over base.
func NewPrimitive(name, doc string, base Type, rules ...Rule) *Model {
	return &Model{Name: name, Doc: doc, Kind: KindPrimitive, Base: base, Rules: rules}
}

func (m *Model) keys() map[string]*Field {
	m.once.Do(m.index)
	return m.byKey
}

func (m *Model) index() {
	m.byKey = make(map[string]*Field, len(m.Fields))
	for _, f := range m.Fields {
		for _, k := range f.inputKeys(m.Config.PopulateByName) {
			m.byKey[k] = f
		}
	}
}

// Field returns the field with the given internal name.
func (m *Model) Field(name string) (*Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// New constructs an instance from input. All issues are collected unless the
// context requests fail-fast.
func (m *Model) New(ctx context.Context, input map[string]any) (*Instance, error) {
	if m.Kind != KindObject {
		return nil, jsmodel.SingleIssue(jsmodel.CodeInvalidType, i18n.T(jsmodel.CodeInvalidType, nil), m.Name+" is not an object model")
	}
	byKey := m.keys()
	inst := &Instance{
		model:    m,
		values:   make(map[string]any, len(m.Fields)),
		presence: jsmodel.PresenceMap{"/": jsmodel.PresenceSeen},
	}
	observe(ctx, m.Rules, input)
	var iss jsmodel.Issues
	failFast := jsmodel.IsFailFast(ctx)
	for _, f := range m.Fields {
		key, val, present := m.lookup(f, input)
		ptr := jsmodel.Root().Field(f.Key()).Pointer()
		if present {
			inst.presence[ptr] |= jsmodel.PresenceSeen
			if val == nil {
				inst.presence[ptr] |= jsmodel.PresenceWasNull
			}
			pv, err := f.Type.Parse(ctx, val)
			if err == nil {
				pv, err = runRules(ctx, f.Rules, pv)
			}
			if err != nil {
				iss = jsmodel.AppendIssues(iss, jsmodel.IssuesFromErr(jsmodel.Root().Field(key).Pointer(), err)...)
				if failFast {
					return nil, iss
				}
				continue
			}
			inst.values[f.Name] = pv
			continue
		}
		if f.HasDefault {
			inst.values[f.Name] = f.defaultValue()
			inst.presence[ptr] |= jsmodel.PresenceDefaultApplied
			continue
		}
		if f.Required {
			iss = jsmodel.AppendIssues(iss, jsmodel.Issue{Path: ptr, Code: jsmodel.CodeRequired, Message: i18n.T(jsmodel.CodeRequired, nil), Hint: "required property missing"})
			if failFast {
				return nil, iss
			}
			continue
		}
		inst.values[f.Name] = nil
	}

	unknown := make([]string, 0)
	for k := range input {
		if _, known := byKey[k]; !known {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		switch m.Config.Extra {
		case jsmodel.UnknownStrict:
			iss = jsmodel.AppendIssues(iss, jsmodel.Issue{Path: jsmodel.Root().Field(k).Pointer(), Code: jsmodel.CodeUnknownKey, Message: i18n.T(jsmodel.CodeUnknownKey, nil)})
			if failFast {
				return nil, iss
			}
		case jsmodel.UnknownStrip:
			// drop
		case jsmodel.UnknownPassthrough:
			inst.extraKeys = append(inst.extraKeys, k)
			if inst.extra == nil {
				inst.extra = map[string]any{}
			}
			inst.extra[k] = input[k]
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	if _, err := runRules(ctx, checks(m.Rules), inst); err != nil {
		return nil, jsmodel.IssuesFromErr("/", err)
	}
	return inst, nil
}

// lookup finds the input value of f, preferring the alias over the internal name.
func (m *Model) lookup(f *Field, input map[string]any) (string, any, bool) {
	for _, k := range f.inputKeys(m.Config.PopulateByName) {
		if v, ok := input[k]; ok {
			return k, v, true
		}
	}
	return "", nil, false
}

// Parse lets a model act as a field type. Object models accept a JSON object or
// an instance of the same model; primitive models validate their base type.
func (m *Model) Parse(ctx context.Context, v any) (any, error) {
	if m.Kind == KindPrimitive {
		pv, err := m.Base.Parse(ctx, v)
		if err != nil {
			return nil, err
		}
		return runRules(ctx, m.Rules, pv)
	}
	switch in := v.(type) {
	case *Instance:
		if in.model == m {
			return in, nil
		}
		return m.New(ctx, in.Dump())
	case map[string]any:
		return m.New(ctx, in)
	}
	return nil, typeIssue("object")
}

func (m *Model) String() string { return m.Name }

// JSONSchema exports the model for documentation. Referenced models are
// collected under $defs.
func (m *Model) JSONSchema() *js.Schema {
	s := m.schemaBody()
	defs := map[string]*js.Schema{}
	seen := map[*Model]bool{m: true}
	var visit func(t Type)
	visit = func(t Type) {
		if ref, ok := t.(*Model); ok {
			if ref == m {
				defs[m.Name] = m.schemaBody()
				return
			}
			if seen[ref] {
				return
			}
			seen[ref] = true
			defs[ref.Name] = ref.schemaBody()
			for _, f := range ref.Fields {
				visit(f.Type)
			}
			return
		}
		for _, c := range children(t) {
			visit(c)
		}
	}
	for _, f := range m.Fields {
		visit(f.Type)
	}
	if len(defs) > 0 {
		s.Defs = defs
	}
	return s
}

func (m *Model) schemaBody() *js.Schema {
	if m.Kind == KindPrimitive {
		s := m.Base.JSONSchema().Clone()
		s.Title = m.Name
		s.Description = m.Doc
		return s
	}
	s := &js.Schema{Title: m.Name, Description: m.Doc, Type: "object", Example: m.Config.Example}
	if len(m.Fields) > 0 {
		s.Properties = make(map[string]*js.Schema, len(m.Fields))
	}
	for _, f := range m.Fields {
		fs := schemaOf(f.Type).Clone()
		if f.Title != "" {
			fs.Title = f.Title
		}
		if f.Description != "" {
			fs.Description = f.Description
		}
		if f.HasDefault && f.Default != nil {
			fs.Default = f.Default
		}
		fs.Examples = f.Examples
		fs.Deprecated = f.Deprecated
		s.Properties[f.Key()] = fs
		if f.Required {
			s.Required = append(s.Required, f.Key())
		}
	}
	switch m.Config.Extra {
	case jsmodel.UnknownStrict:
		s.AdditionalProperties = false
	case jsmodel.UnknownPassthrough:
		s.AdditionalProperties = true
	}
	return s
}

// children returns the nested types of composite types.
func children(t Type) []Type {
	switch c := t.(type) {
	case *listType:
		return []Type{c.elem}
	case *unionType:
		return c.members
	case *optionalType:
		return []Type{c.inner}
	}
	return nil
}

// Find returns the model named name from models.
func Find(models []*Model, name string) (*Model, bool) {
	for _, m := range models {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}
