package jsmodel

import (
	"errors"
	"fmt"
)

// Compile-time error kinds. A SchemaError always unwraps to exactly one of them.
var (
	// ErrUnsupportedSchema reports an unrecognized $schema marker or a top-level
	// definition type outside string/number/integer/object.
	ErrUnsupportedSchema = errors.New("unsupported schema")
	// ErrInvalidReference reports a malformed $ref or a failed remote lookup.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrInvalidSchema reports that the top-level input could not be turned into a document.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrSchemaConversion reports a construct with no mapping into the model runtime.
	ErrSchemaConversion = errors.New("schema conversion")
	// ErrSchemaParse reports a missing sub-key that the grammar requires.
	ErrSchemaParse = errors.New("schema parse")
)

// SchemaError is a fatal compile-time error. Path is the JSON Pointer of the
// offending node inside the schema document when known.
type SchemaError struct {
	Kind error
	Path string
	Msg  string
	Err  error
}

func (e *SchemaError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Path != "" {
		msg = msg + " (at " + e.Path + ")"
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Is matches the error kind so callers can use errors.Is(err, jsmodel.ErrSchemaParse).
func (e *SchemaError) Is(target error) bool { return target == e.Kind }

func (e *SchemaError) Unwrap() error { return e.Err }

// SchemaErrorf builds a SchemaError of the given kind with a formatted message.
func SchemaErrorf(kind error, format string, a ...any) *SchemaError {
	return &SchemaError{Kind: kind, Msg: fmt.Sprintf(format, a...)}
}

// At returns a copy of e located at path. An existing path is kept.
func (e *SchemaError) At(path string) *SchemaError {
	if e.Path != "" {
		return e
	}
	cp := *e
	cp.Path = path
	return &cp
}

// Wrap returns a copy of e carrying cause.
func (e *SchemaError) Wrap(cause error) *SchemaError {
	cp := *e
	cp.Err = cause
	return &cp
}

// AsSchemaError extracts a SchemaError from err.
func AsSchemaError(err error) (*SchemaError, bool) {
	var se *SchemaError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
