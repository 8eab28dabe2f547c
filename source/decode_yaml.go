package source

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeYAML decodes a YAML document whose root is a mapping, keeping key order.
func DecodeYAML(data []byte) (*Object, error) {
	v, err := DecodeYAMLValue(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, errors.New("yaml: document root is not a mapping")
	}
	return obj, nil
}

// DecodeYAMLValue decodes any YAML value. Mappings become *Object.
func DecodeYAMLValue(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	if doc.Kind == 0 {
		return nil, errors.New("yaml: empty document")
	}
	return nodeValue(&doc)
}

func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			kn, vn := n.Content[i], n.Content[i+1]
			if kn.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("yaml: line %d: mapping key is not a scalar", kn.Line)
			}
			val, err := nodeValue(vn)
			if err != nil {
				return nil, err
			}
			obj.Set(kn.Value, val)
		}
		return obj, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("yaml: line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("yaml: unsupported node kind %d", n.Kind)
}
