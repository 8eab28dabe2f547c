package model

// Field is one declared property of an object model.
type Field struct {
	// Name is the internal field name.
	Name string
	// Alias, when set, is the external key used for input and Dump.
	Alias    string
	Type     Type
	Required bool
	// HasDefault distinguishes a nil default (null) from no default.
	HasDefault bool
	Default    any

	Title       string
	Description string
	Examples    []any
	Deprecated  bool

	Rules []Rule
}

// Key returns the external key of the field.
func (f *Field) Key() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// defaultValue returns a copy of the default so instances never share containers.
func (f *Field) defaultValue() any { return deepCopy(f.Default) }

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	}
	return v
}
