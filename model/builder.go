package model

import (
	"fmt"

	jsmodel "github.com/reoring/jsmodel"
)

// ObjectBuilder assembles an object Model.
type ObjectBuilder struct {
	m      *Model
	byName map[string]struct{}
	err    error
}

// FieldStep configures the field most recently added to an ObjectBuilder.
type FieldStep struct {
	b *ObjectBuilder
	f *Field
}

// Object starts a builder for an object model with safe defaults (UnknownStrip).
func Object(name string) *ObjectBuilder {
	return &ObjectBuilder{
		m: &Model{
			Name:   name,
			Kind:   KindObject,
			Config: Config{Extra: jsmodel.UnknownStrip},
		},
		byName: map[string]struct{}{},
	}
}

// Doc sets the model documentation string.
func (b *ObjectBuilder) Doc(doc string) *ObjectBuilder {
	b.m.Doc = doc
	return b
}

// Field registers a field with its type. Fields keep registration order.
func (b *ObjectBuilder) Field(name string, t Type) *FieldStep {
	f := &Field{Name: name, Type: t}
	if _, dup := b.byName[name]; dup && b.err == nil {
		b.err = fmt.Errorf("model %s: duplicate field %q", b.m.Name, name)
	}
	b.byName[name] = struct{}{}
	b.m.Fields = append(b.m.Fields, f)
	return &FieldStep{b: b, f: f}
}

// AddField registers a fully populated field.
func (b *ObjectBuilder) AddField(f *Field) *ObjectBuilder {
	step := b.Field(f.Name, f.Type)
	*step.f = *f
	return b
}

// Rule adds a model-level rule. It runs after all fields were accepted.
func (b *ObjectBuilder) Rule(r Rule) *ObjectBuilder {
	b.m.Rules = append(b.m.Rules, r)
	return b
}

// UnknownStrict rejects keys that match no field.
func (b *ObjectBuilder) UnknownStrict() *ObjectBuilder {
	b.m.Config.Extra = jsmodel.UnknownStrict
	return b
}

// UnknownStrip drops keys that match no field.
func (b *ObjectBuilder) UnknownStrip() *ObjectBuilder {
	b.m.Config.Extra = jsmodel.UnknownStrip
	return b
}

// UnknownPassthrough keeps keys that match no field; see Instance.Extra.
func (b *ObjectBuilder) UnknownPassthrough() *ObjectBuilder {
	b.m.Config.Extra = jsmodel.UnknownPassthrough
	return b
}

// Example attaches an example document exported by JSONSchema.
func (b *ObjectBuilder) Example(v any) *ObjectBuilder {
	b.m.Config.Example = v
	return b
}

// PopulateByName lets aliased fields also be populated by their internal name.
func (b *ObjectBuilder) PopulateByName() *ObjectBuilder {
	b.m.Config.PopulateByName = true
	return b
}

// Build validates the builder and returns the model.
func (b *ObjectBuilder) Build() (*Model, error) {
	if b.err != nil {
		return nil, b.err
	}
	keys := map[string]string{}
	for _, f := range b.m.Fields {
		if f.Type == nil {
			return nil, fmt.Errorf("model %s: field %q has no type", b.m.Name, f.Name)
		}
		for _, k := range f.inputKeys(b.m.Config.PopulateByName) {
			if other, dup := keys[k]; dup && other != f.Name {
				return nil, fmt.Errorf("model %s: key %q is claimed by fields %q and %q", b.m.Name, k, other, f.Name)
			}
			keys[k] = f.Name
		}
	}
	b.m.keys()
	return b.m, nil
}

// MustBuild is like Build but panics on error.
func (b *ObjectBuilder) MustBuild() *Model {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

// Required marks the field as required.
func (s *FieldStep) Required() *FieldStep {
	s.f.Required = true
	return s
}

// Optional marks the field as optional.
func (s *FieldStep) Optional() *FieldStep {
	s.f.Required = false
	return s
}

// Default sets the value applied when the field is missing.
func (s *FieldStep) Default(v any) *FieldStep {
	s.f.HasDefault = true
	s.f.Default = v
	return s
}

// Alias sets the external key of the field.
func (s *FieldStep) Alias(key string) *FieldStep {
	s.f.Alias = key
	return s
}

// Describe sets the field description.
func (s *FieldStep) Describe(desc string) *FieldStep {
	s.f.Description = desc
	return s
}

// Rule adds a field rule.
func (s *FieldStep) Rule(r Rule) *FieldStep {
	s.f.Rules = append(s.f.Rules, r)
	return s
}

func (s *FieldStep) Field(name string, t Type) *FieldStep { return s.b.Field(name, t) }
func (s *FieldStep) UnknownStrict() *ObjectBuilder        { return s.b.UnknownStrict() }
func (s *FieldStep) UnknownStrip() *ObjectBuilder         { return s.b.UnknownStrip() }
func (s *FieldStep) UnknownPassthrough() *ObjectBuilder   { return s.b.UnknownPassthrough() }
func (s *FieldStep) PopulateByName() *ObjectBuilder       { return s.b.PopulateByName() }
func (s *FieldStep) Build() (*Model, error)               { return s.b.Build() }
func (s *FieldStep) MustBuild() *Model                    { return s.b.MustBuild() }

func (f *Field) inputKeys(populateByName bool) []string {
	if f.Alias == "" {
		return []string{f.Name}
	}
	if populateByName && f.Alias != f.Name {
		return []string{f.Alias, f.Name}
	}
	return []string{f.Alias}
}
