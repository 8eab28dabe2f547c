package model

import (
	"context"
	"fmt"
	"strings"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/i18n"
	"github.com/reoring/jsmodel/internal/num"
	js "github.com/reoring/jsmodel/jsonschema"
)

// EnumKind is the shared primitive type of an enum's values.
type EnumKind int

const (
	EnumString EnumKind = iota
	EnumInteger
	EnumNumber
	EnumBool
)

func (k EnumKind) String() string {
	switch k {
	case EnumString:
		return "string"
	case EnumInteger:
		return "integer"
	case EnumNumber:
		return "number"
	case EnumBool:
		return "boolean"
	}
	return "unknown"
}

// EnumMember is one symbolic name with its schema value.
type EnumMember struct {
	Symbol string
	Value  any
}

// EnumType is a closed set of primitive values.
type EnumType struct {
	Name    string
	Kind    EnumKind
	Members []EnumMember
}

// Member returns the member whose value equals v.
func (e *EnumType) Member(v any) (EnumMember, bool) {
	for _, m := range e.Members {
		if e.matches(m.Value, v) {
			return m, true
		}
	}
	return EnumMember{}, false
}

// Lookup returns the member with the given symbol.
func (e *EnumType) Lookup(symbol string) (EnumMember, bool) {
	for _, m := range e.Members {
		if m.Symbol == symbol {
			return m, true
		}
	}
	return EnumMember{}, false
}

func (e *EnumType) matches(member, v any) bool {
	switch e.Kind {
	case EnumString:
		s, ok := v.(string)
		return ok && s == member
	case EnumBool:
		b, ok := v.(bool)
		return ok && b == member
	default:
		return num.IsNumber(v) && num.Equal(member, v)
	}
}

func (e *EnumType) Parse(_ context.Context, v any) (any, error) {
	if m, ok := e.Member(v); ok {
		return m.Value, nil
	}
	vals := make([]string, len(e.Members))
	for i, m := range e.Members {
		vals[i] = fmt.Sprintf("%v", m.Value)
	}
	return nil, jsmodel.Issues{jsmodel.Issue{
		Path:    "/",
		Code:    jsmodel.CodeInvalidEnum,
		Message: i18n.T(jsmodel.CodeInvalidEnum, nil),
		Hint:    "permitted: " + strings.Join(vals, ", "),
		Params:  map[string]any{"enum": e.Name},
	}}
}

func (e *EnumType) String() string { return e.Name }

func (e *EnumType) JSONSchema() *js.Schema {
	s := &js.Schema{Title: e.Name, Type: e.Kind.String()}
	for _, m := range e.Members {
		s.Enum = append(s.Enum, m.Value)
	}
	return s
}
