package model

import (
	"bytes"

	j "github.com/goccy/go-json"

	jsmodel "github.com/reoring/jsmodel"
)

// Instance is a validated value of an object model.
type Instance struct {
	model     *Model
	values    map[string]any
	extraKeys []string
	extra     map[string]any
	presence  jsmodel.PresenceMap
}

// Model returns the model the instance was built from.
func (i *Instance) Model() *Model { return i.model }

// Get returns the value of the field with the given internal name.
func (i *Instance) Get(name string) (any, bool) {
	v, ok := i.values[name]
	return v, ok
}

// Fields returns the internal field names in declaration order.
func (i *Instance) Fields() []string {
	out := make([]string, 0, len(i.model.Fields))
	for _, f := range i.model.Fields {
		out = append(out, f.Name)
	}
	return out
}

// Extra returns keys retained under UnknownPassthrough.
func (i *Instance) Extra() map[string]any {
	if len(i.extra) == 0 {
		return nil
	}
	out := make(map[string]any, len(i.extra))
	for k, v := range i.extra {
		out[k] = v
	}
	return out
}

// Presence reports, per external key pointer, whether the field was seen,
// null, or filled from its default.
func (i *Instance) Presence() jsmodel.PresenceMap {
	out := make(jsmodel.PresenceMap, len(i.presence))
	for k, v := range i.presence {
		out[k] = v
	}
	return out
}

// Dump exports the instance as a plain map keyed by external (alias) keys.
// Nested instances are dumped recursively; retained extras are included.
func (i *Instance) Dump() map[string]any {
	out := make(map[string]any, len(i.values)+len(i.extra))
	for _, f := range i.model.Fields {
		v, ok := i.values[f.Name]
		if !ok {
			continue
		}
		out[f.Key()] = dumpValue(v)
	}
	for _, k := range i.extraKeys {
		if _, clash := out[k]; !clash {
			out[k] = dumpValue(i.extra[k])
		}
	}
	return out
}

func dumpValue(v any) any {
	switch t := v.(type) {
	case *Instance:
		return t.Dump()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = dumpValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = dumpValue(e)
		}
		return out
	}
	return v
}

// MarshalJSON writes fields in declaration order followed by retained extras.
func (i *Instance) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	n := 0
	write := func(k string, v any) error {
		kb, err := j.Marshal(k)
		if err != nil {
			return err
		}
		vb, err := j.Marshal(v)
		if err != nil {
			return err
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		n++
		return nil
	}
	written := map[string]struct{}{}
	for _, f := range i.model.Fields {
		v, ok := i.values[f.Name]
		if !ok {
			continue
		}
		if err := write(f.Key(), v); err != nil {
			return nil, err
		}
		written[f.Key()] = struct{}{}
	}
	for _, k := range i.extraKeys {
		if _, clash := written[k]; clash {
			continue
		}
		if err := write(k, i.extra[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
