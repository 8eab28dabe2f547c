package model_test

import (
	"context"
	"errors"
	"testing"

	j "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/model"
)

func pointModel(t *testing.T) *model.Model {
	t.Helper()
	m, err := model.Object("Point").
		Doc("A point").
		Field("x", model.Int).Required().
		Field("y", model.Int).Required().
		Field("label", model.Optional(model.String)).Default(nil).
		Build()
	require.NoError(t, err)
	return m
}

func TestModel_New_RequiredAndDefaults(t *testing.T) {
	ctx := context.Background()
	m := pointModel(t)

	inst, err := m.New(ctx, map[string]any{"x": 2, "y": 3})
	require.NoError(t, err)
	x, _ := inst.Get("x")
	assert.Equal(t, 2, x)
	label, ok := inst.Get("label")
	assert.True(t, ok)
	assert.Nil(t, label)
	assert.True(t, inst.Presence().Has("/label", jsmodel.PresenceDefaultApplied))
	assert.True(t, inst.Presence().Has("/x", jsmodel.PresenceSeen))
	assert.Equal(t, []string{"x", "y", "label"}, inst.Fields())

	_, err = m.New(ctx, map[string]any{"x": 2})
	iss, ok := jsmodel.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	assert.Equal(t, "/y", iss[0].Path)
	assert.Equal(t, jsmodel.CodeRequired, iss[0].Code)
}

func TestModel_New_CollectVsFailFast(t *testing.T) {
	m := pointModel(t)
	in := map[string]any{"x": "a", "y": "b"}

	_, err := m.New(context.Background(), in)
	iss, _ := jsmodel.AsIssues(err)
	assert.Len(t, iss, 2)

	_, err = m.New(jsmodel.WithFailFast(context.Background(), true), in)
	iss, _ = jsmodel.AsIssues(err)
	assert.Len(t, iss, 1)
}

func TestModel_UnknownPolicies(t *testing.T) {
	ctx := context.Background()
	in := map[string]any{"a": "v", "zzz": 1}

	strict := model.Object("S").Field("a", model.String).Required().UnknownStrict().MustBuild()
	_, err := strict.New(ctx, in)
	iss, _ := jsmodel.AsIssues(err)
	require.Len(t, iss, 1)
	assert.Equal(t, jsmodel.CodeUnknownKey, iss[0].Code)
	assert.Equal(t, "/zzz", iss[0].Path)

	strip := model.Object("S").Field("a", model.String).Required().UnknownStrip().MustBuild()
	inst, err := strip.New(ctx, in)
	require.NoError(t, err)
	assert.Nil(t, inst.Extra())
	assert.NotContains(t, inst.Dump(), "zzz")

	pass := model.Object("S").Field("a", model.String).Required().UnknownPassthrough().MustBuild()
	inst, err = pass.New(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"zzz": 1}, inst.Extra())
	assert.Equal(t, map[string]any{"a": "v", "zzz": 1}, inst.Dump())
}

func TestModel_AliasRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := model.Object("Doc").
		Field("id", model.Optional(model.String)).Alias("_id").Default(nil).
		PopulateByName().
		MustBuild()

	inst, err := m.New(ctx, map[string]any{"id": "X"})
	require.NoError(t, err)
	out := inst.Dump()
	assert.Equal(t, "X", out["_id"])
	assert.NotContains(t, out, "id")

	inst, err = m.New(ctx, map[string]any{"_id": "Y"})
	require.NoError(t, err)
	v, _ := inst.Get("id")
	assert.Equal(t, "Y", v)

	b, err := j.Marshal(inst)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"Y"}`, string(b))
}

func TestModel_AliasWithoutPopulateByName(t *testing.T) {
	m := model.Object("Doc").
		Field("id", model.String).Alias("_id").Required().
		UnknownStrict().
		MustBuild()
	_, err := m.New(context.Background(), map[string]any{"id": "X"})
	iss, _ := jsmodel.AsIssues(err)
	codes := []string{}
	for _, it := range iss {
		codes = append(codes, it.Code)
	}
	assert.ElementsMatch(t, []string{jsmodel.CodeRequired, jsmodel.CodeUnknownKey}, codes)
}

func TestModel_BuildRejectsDuplicates(t *testing.T) {
	_, err := model.Object("D").Field("a", model.String).Field("a", model.Int).Build()
	assert.Error(t, err)

	_, err = model.Object("D").
		Field("a", model.String).
		Field("b", model.String).Alias("a").
		Build()
	assert.Error(t, err)
}

func TestModel_Rules(t *testing.T) {
	ctx := context.Background()
	var seen []any
	m := model.Object("R").
		Field("n", model.Int).Required().
		Rule(model.Rule{Name: "observe", Kind: model.LogOnly, Fn: func(_ context.Context, v any) (any, error) {
			seen = append(seen, v)
			return nil, errors.New("ignored")
		}}).
		Rule(model.Rule{Name: "positive", Fn: func(_ context.Context, v any) (any, error) {
			if v.(int) <= 0 {
				return nil, jsmodel.SingleIssue(jsmodel.CodeTooSmall, "must be positive", "")
			}
			return v, nil
		}}).
		MustBuild()

	_, err := m.New(ctx, map[string]any{"n": 1})
	require.NoError(t, err)
	_, err = m.New(ctx, map[string]any{"n": -1})
	iss, ok := jsmodel.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, "/n", iss[0].Path)
	assert.Equal(t, "positive", iss[0].Rule)
	assert.Equal(t, []any{1, -1}, seen)
}

func TestModel_ForwardRefs(t *testing.T) {
	ctx := context.Background()
	node := model.Object("Node").
		Field("value", model.Int).Required().
		Field("next", model.Optional(model.ForwardRef{Name: "Node"})).Default(nil).
		Field("children", model.Optional(model.List(model.ForwardRef{Name: "Node"}))).Default(nil).
		MustBuild()

	ns := map[string]*model.Model{"Node": node}
	require.NoError(t, node.ResolveForwardRefs(ns))
	assert.True(t, node.Resolved())
	assert.Error(t, node.ResolveForwardRefs(ns))

	inst, err := node.New(ctx, map[string]any{
		"value":    1,
		"next":     map[string]any{"value": 2},
		"children": []any{map[string]any{"value": 3}},
	})
	require.NoError(t, err)
	next, _ := inst.Get("next")
	require.IsType(t, &model.Instance{}, next)
	assert.Equal(t, map[string]any{
		"value":    1,
		"next":     map[string]any{"value": 2, "next": nil, "children": nil},
		"children": []any{map[string]any{"value": 3, "next": nil, "children": nil}},
	}, inst.Dump())

	_, err = node.New(ctx, map[string]any{"value": 1, "next": map[string]any{"value": "x"}})
	iss, _ := jsmodel.AsIssues(err)
	require.Len(t, iss, 1)
	assert.Equal(t, "/next/value", iss[0].Path)

	dangling := model.Object("A").Field("b", model.ForwardRef{Name: "B"}).MustBuild()
	assert.Error(t, dangling.ResolveForwardRefs(map[string]*model.Model{}))
}

func TestModel_Primitive(t *testing.T) {
	p, err := model.NewPattern(`\d{3}`, nil, nil)
	require.NoError(t, err)
	code := model.NewPrimitive("Code", "three digits", p)
	v, err := code.Parse(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "123", v)
	_, err = code.Parse(context.Background(), "ab")
	assert.Error(t, err)
	_, err = code.New(context.Background(), map[string]any{})
	assert.Error(t, err)
}

func TestInstance_MarshalJSON_Order(t *testing.T) {
	m := model.Object("O").
		Field("b", model.Int).Required().
		Field("a", model.Int).Required().
		UnknownPassthrough().
		MustBuild()
	inst, err := m.New(context.Background(), map[string]any{"a": 1, "b": 2, "c": 3})
	require.NoError(t, err)
	b, err := inst.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":2,"a":1,"c":3}`, string(b))
}

func TestModel_JSONSchema(t *testing.T) {
	child := model.Object("Child").Field("v", model.String).Required().MustBuild()
	parent := model.Object("Parent").
		Doc("parent doc").
		Example(map[string]any{"child": map[string]any{"v": "x"}}).
		Field("child", child).Required().Describe("the child").
		Field("_id", model.Optional(model.String)).Default(nil).
		UnknownStrict().
		MustBuild()

	s := parent.JSONSchema()
	assert.Equal(t, "parent doc", s.Description)
	assert.NotNil(t, s.Example)
	assert.Equal(t, []string{"child"}, s.Required)
	assert.Equal(t, false, s.AdditionalProperties)
	require.Contains(t, s.Properties, "child")
	assert.Equal(t, "#/$defs/Child", s.Properties["child"].Ref)
	assert.Equal(t, "the child", s.Properties["child"].Description)
	require.Contains(t, s.Defs, "Child")
	assert.Equal(t, []string{"v"}, s.Defs["Child"].Required)
}

func TestModel_LogOnlyModelRuleSeesRawInput(t *testing.T) {
	var calls int
	m := model.Object("Old").
		Rule(model.Rule{Name: "class_deprecated", Kind: model.LogOnly, Fn: func(_ context.Context, v any) (any, error) {
			calls++
			_, isMap := v.(map[string]any)
			assert.True(t, isMap)
			return v, nil
		}}).
		Field("a", model.Int).Required().
		MustBuild()

	_, err := m.New(context.Background(), map[string]any{"a": 1})
	require.NoError(t, err)
	_, err = m.New(context.Background(), map[string]any{})
	require.Error(t, err)
	assert.Equal(t, 2, calls)

	found, ok := model.Find([]*model.Model{m}, "Old")
	require.True(t, ok)
	assert.Same(t, m, found)
}
