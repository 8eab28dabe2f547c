// Package source acquires schema documents: ordered JSON/YAML decoding, loading from
// files, URLs or in-memory values, and $schema version detection.
package source

import (
	"sort"
)

// Object is a JSON object that remembers key insertion order.
//
// Nested objects are *Object, arrays are []any, numbers decoded from JSON are
// json.Number literals and YAML numbers are int or float64.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: map[string]any{}}
}

// Set stores v under k. A key that is already present keeps its position.
func (o *Object) Set(k string, v any) {
	if _, ok := o.values[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.values[k] = v
}

// Get returns the value stored under k.
func (o *Object) Get(k string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[k]
	return v, ok
}

// Has reports whether k is present.
func (o *Object) Has(k string) bool {
	_, ok := o.Get(k)
	return ok
}

// Keys returns the keys in document order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Object returns the sub-object under k, or nil when absent or not an object.
func (o *Object) Object(k string) *Object {
	v, _ := o.Get(k)
	sub, _ := v.(*Object)
	return sub
}

// String returns the string under k.
func (o *Object) String(k string) (string, bool) {
	v, _ := o.Get(k)
	s, ok := v.(string)
	return s, ok
}

// Bool returns the boolean under k; absent or non-bool values report false.
func (o *Object) Bool(k string) bool {
	v, _ := o.Get(k)
	b, _ := v.(bool)
	return b
}

// List returns the array under k.
func (o *Object) List(k string) ([]any, bool) {
	v, _ := o.Get(k)
	l, ok := v.([]any)
	return l, ok
}

// Map converts o into plain map[string]any values recursively.
func (o *Object) Map() map[string]any {
	if o == nil {
		return nil
	}
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		out[k] = Plain(o.values[k])
	}
	return out
}

// Plain converts *Object values nested anywhere in v into map[string]any.
func Plain(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Map()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Plain(e)
		}
		return out
	}
	return v
}

// FromMap builds an Object from a plain map. Go maps carry no order, so keys are
// sorted lexically at every level.
func FromMap(m map[string]any) *Object {
	o := NewObject()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		o.Set(k, fromValue(m[k]))
	}
	return o
}

func fromValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return FromMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromValue(e)
		}
		return out
	}
	return v
}
