package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	j "github.com/goccy/go-json"
)

// DecodeJSON decodes a JSON document whose root is an object, keeping key order.
// Numbers are kept as json.Number literals.
func DecodeJSON(data []byte) (*Object, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	if d, ok := tok.(j.Delim); !ok || d != '{' {
		return nil, errors.New("json: document root is not an object")
	}
	obj, err := decodeObject(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("json: trailing data after document")
	}
	return obj, nil
}

// DecodeJSONValue decodes any JSON value. Objects become *Object.
func DecodeJSONValue(data []byte) (any, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return decodeValue(dec, tok)
}

func decodeValue(dec *j.Decoder, tok any) (any, error) {
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("json: unexpected delimiter %q", rune(v))
	case string, bool, j.Number, nil:
		return v, nil
	case float64:
		return v, nil
	}
	return nil, fmt.Errorf("json: unexpected token %T", tok)
}

func decodeObject(dec *j.Decoder) (*Object, error) {
	obj := NewObject()
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("json: object key is %T, want string", kt)
		}
		vt, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
		val, err := decodeValue(dec, vt)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return obj, nil
}

func decodeArray(dec *j.Decoder) ([]any, error) {
	out := []any{}
	for dec.More() {
		vt, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
		val, err := decodeValue(dec, vt)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return out, nil
}
