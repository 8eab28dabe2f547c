// Package num provides exact decimal arithmetic for numeric schema constraints.
//
// Values decoded from JSON arrive as Go integers, floats or json.Number literals.
// They are lifted into math/big rationals so bounds and multipleOf checks are
// free of binary floating point error (0.3 is a multiple of 0.1).
package num

import (
	"math/big"
	"reflect"
	"strconv"
)

// numberLiteral is satisfied by json.Number from both encoding/json and goccy/go-json.
type numberLiteral interface {
	String() string
	Int64() (int64, error)
	Float64() (float64, error)
}

// Rat converts v into an exact rational. Booleans and strings are rejected.
func Rat(v any) (*big.Rat, error) {
	switch n := v.(type) {
	case nil:
		return nil, &ParseError{Kind: ParseInvalid}
	case bool, string:
		return nil, &ParseError{Kind: ParseNotNumber}
	case *big.Rat:
		return new(big.Rat).Set(n), nil
	case float64:
		return ratFromFloat(n)
	case float32:
		return ratFromFloat(float64(n))
	case numberLiteral:
		return ParseDecimal(n.String())
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return new(big.Rat).SetInt64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Rat).SetInt(new(big.Int).SetUint64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return ratFromFloat(rv.Float())
	}
	return nil, &ParseError{Kind: ParseNotNumber}
}

// ratFromFloat goes through the shortest decimal form so 0.1 stays 1/10.
func ratFromFloat(f float64) (*big.Rat, error) {
	return ParseDecimal(strconv.FormatFloat(f, 'g', -1, 64))
}

// ParseDecimal parses a JSON number literal (sign, digits, fraction, exponent).
func ParseDecimal(s string) (*big.Rat, error) {
	if s == "" {
		return nil, &ParseError{Kind: ParseEmpty}
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, &ParseError{Kind: ParseBadChar}
	}
	return r, nil
}

// IsNumber reports whether v is a numeric Go value or number literal.
func IsNumber(v any) bool {
	switch v.(type) {
	case bool, string, nil:
		return false
	case numberLiteral, *big.Rat:
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// IsIntegral reports whether v is a number with no fractional part.
func IsIntegral(v any) bool {
	r, err := Rat(v)
	if err != nil {
		return false
	}
	return r.IsInt()
}

// Compare returns -1, 0 or +1 comparing a and b.
func Compare(a, b *big.Rat) int { return a.Cmp(b) }

// IsMultiple reports whether v is an integer multiple of m. m must be positive.
func IsMultiple(v, m *big.Rat) bool {
	if m.Sign() <= 0 {
		return false
	}
	q := new(big.Rat).Quo(v, m)
	return q.IsInt()
}

// Equal reports whether a and b denote the same number.
func Equal(a, b any) bool {
	ra, err := Rat(a)
	if err != nil {
		return false
	}
	rb, err := Rat(b)
	if err != nil {
		return false
	}
	return ra.Cmp(rb) == 0
}

// Format renders r as a short decimal for messages.
func Format(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	f, _ := r.Float64()
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Float converts v to float64 for documentation output.
func Float(v any) (float64, bool) {
	r, err := Rat(v)
	if err != nil {
		return 0, false
	}
	f, _ := r.Float64()
	return f, true
}
