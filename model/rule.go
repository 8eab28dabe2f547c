package model

import (
	"context"

	jsmodel "github.com/reoring/jsmodel"
)

// RuleKind tells whether a rule may reject a value.
type RuleKind int

const (
	// Check rules reject values by returning an error.
	Check RuleKind = iota
	// LogOnly rules observe values; their errors are ignored.
	LogOnly
)

// Rule is a named validator attached to a field or a model.
//
// Field rules receive the value already accepted by the field type. On object
// models, LogOnly model rules see the raw input map before any field is checked
// and Check model rules see the finished *Instance. Primitive model rules see the
// parsed value. Fn may return a replacement value; returning the input unchanged
// is the norm.
type Rule struct {
	Name string
	Kind RuleKind
	Fn   func(ctx context.Context, v any) (any, error)
}

// observe runs only the LogOnly rules.
func observe(ctx context.Context, rules []Rule, v any) {
	for _, r := range rules {
		if r.Kind == LogOnly && r.Fn != nil {
			_, _ = r.Fn(ctx, v)
		}
	}
}

// checks runs only the Check rules.
func checks(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Kind == Check {
			out = append(out, r)
		}
	}
	return out
}

// runRules applies rules in registration order.
func runRules(ctx context.Context, rules []Rule, v any) (any, error) {
	cur := v
	for _, r := range rules {
		if r.Fn == nil {
			continue
		}
		out, err := r.Fn(ctx, cur)
		if r.Kind == LogOnly {
			continue
		}
		if err != nil {
			return nil, tagRule(err, r.Name)
		}
		cur = out
	}
	return cur, nil
}

func tagRule(err error, name string) error {
	iss, ok := jsmodel.AsIssues(err)
	if !ok {
		return err
	}
	out := make(jsmodel.Issues, len(iss))
	for i, it := range iss {
		if it.Rule == "" {
			it.Rule = name
		}
		out[i] = it
	}
	return out
}
