package model

import (
	"context"
	"math/big"
	"regexp"
	"strings"
	"unicode/utf8"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/i18n"
	"github.com/reoring/jsmodel/internal/num"
	js "github.com/reoring/jsmodel/jsonschema"
)

// Bounds holds numeric constraints. Nil fields are unconstrained.
type Bounds struct {
	Minimum          *big.Rat
	Maximum          *big.Rat
	ExclusiveMinimum *big.Rat
	ExclusiveMaximum *big.Rat
	MultipleOf       *big.Rat
}

// Constrained is Int or Number narrowed by Bounds.
type Constrained struct {
	Base Type
	Bounds
}

// Constrain narrows base (Int or Number) with b.
func Constrain(base Type, b Bounds) *Constrained {
	return &Constrained{Base: base, Bounds: b}
}

func (c *Constrained) Parse(ctx context.Context, v any) (any, error) {
	pv, err := c.Base.Parse(ctx, v)
	if err != nil {
		return nil, err
	}
	r, err := num.Rat(pv)
	if err != nil {
		return nil, typeIssue("number")
	}
	var iss jsmodel.Issues
	add := func(code, key string, bound *big.Rat) {
		iss = append(iss, jsmodel.Root().Issue(code, i18n.T(code, map[string]string{key: num.Format(bound)}), key, num.Format(bound), "got", pv))
	}
	if c.Minimum != nil && r.Cmp(c.Minimum) < 0 {
		add(jsmodel.CodeTooSmall, "minimum", c.Minimum)
	}
	if c.ExclusiveMinimum != nil && r.Cmp(c.ExclusiveMinimum) <= 0 {
		add(jsmodel.CodeTooSmall, "exclusiveMinimum", c.ExclusiveMinimum)
	}
	if c.Maximum != nil && r.Cmp(c.Maximum) > 0 {
		add(jsmodel.CodeTooBig, "maximum", c.Maximum)
	}
	if c.ExclusiveMaximum != nil && r.Cmp(c.ExclusiveMaximum) >= 0 {
		add(jsmodel.CodeTooBig, "exclusiveMaximum", c.ExclusiveMaximum)
	}
	if c.MultipleOf != nil && !num.IsMultiple(r, c.MultipleOf) {
		add(jsmodel.CodeNotMultiple, "multipleOf", c.MultipleOf)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return pv, nil
}

func (c *Constrained) String() string {
	parts := []string{}
	add := func(k string, r *big.Rat) {
		if r != nil {
			parts = append(parts, k+"="+num.Format(r))
		}
	}
	add("ge", c.Minimum)
	add("gt", c.ExclusiveMinimum)
	add("le", c.Maximum)
	add("lt", c.ExclusiveMaximum)
	add("multiple_of", c.MultipleOf)
	return "con" + c.Base.String() + "(" + strings.Join(parts, ", ") + ")"
}

func (c *Constrained) JSONSchema() *js.Schema {
	s := c.Base.JSONSchema().Clone()
	f := func(r *big.Rat) *float64 {
		if r == nil {
			return nil
		}
		v, _ := r.Float64()
		return &v
	}
	s.Minimum = f(c.Minimum)
	s.Maximum = f(c.Maximum)
	s.ExclusiveMinimum = f(c.ExclusiveMinimum)
	s.ExclusiveMaximum = f(c.ExclusiveMaximum)
	s.MultipleOf = f(c.MultipleOf)
	return s
}

// Pattern is a string narrowed by a regular expression and length bounds.
// The expression must match at the start of the value.
type Pattern struct {
	Expr      string
	MinLength *int
	MaxLength *int
	re        *regexp.Regexp
}

// NewPattern compiles expr. An empty expr only applies the length bounds.
func NewPattern(expr string, minLen, maxLen *int) (*Pattern, error) {
	p := &Pattern{Expr: expr, MinLength: minLen, MaxLength: maxLen}
	if expr != "" {
		re, err := regexp.Compile(`^(?:` + expr + `)`)
		if err != nil {
			return nil, err
		}
		p.re = re
	}
	return p, nil
}

func (p *Pattern) Parse(ctx context.Context, v any) (any, error) {
	pv, err := String.Parse(ctx, v)
	if err != nil {
		return nil, err
	}
	s := pv.(string)
	n := utf8.RuneCountInString(s)
	var iss jsmodel.Issues
	if p.MinLength != nil && n < *p.MinLength {
		iss = append(iss, jsmodel.Root().Issue(jsmodel.CodeTooShort, i18n.T(jsmodel.CodeTooShort, nil), "minLength", *p.MinLength, "got", n))
	}
	if p.MaxLength != nil && n > *p.MaxLength {
		iss = append(iss, jsmodel.Root().Issue(jsmodel.CodeTooLong, i18n.T(jsmodel.CodeTooLong, nil), "maxLength", *p.MaxLength, "got", n))
	}
	if p.re != nil && !p.re.MatchString(s) {
		it := jsmodel.Root().Issue(jsmodel.CodePattern, i18n.T(jsmodel.CodePattern, nil), "pattern", p.Expr)
		it.Hint = p.Expr
		iss = append(iss, it)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return s, nil
}

func (p *Pattern) String() string {
	if p.Expr == "" {
		return "constr"
	}
	return "constr(regex=" + p.Expr + ")"
}

func (p *Pattern) JSONSchema() *js.Schema {
	return &js.Schema{Type: "string", Pattern: p.Expr, MinLength: p.MinLength, MaxLength: p.MaxLength}
}
