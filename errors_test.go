package jsmodel_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsmodel "github.com/reoring/jsmodel"
)

func TestIssues_ErrorSummary(t *testing.T) {
	assert.Equal(t, "", jsmodel.Issues{}.Error())

	iss := jsmodel.Issues{
		{Path: "/a", Code: jsmodel.CodeRequired},
		{Path: "/b", Code: jsmodel.CodeInvalidType},
		{Path: "/c/0", Code: jsmodel.CodeTooSmall},
		{Path: "/d", Code: jsmodel.CodeUnknownKey},
	}
	assert.Equal(t, "required at /a; invalid_type at /b; too_small at /c/0; ... (total 4)", iss.Error())
	assert.Equal(t, "required at /a", iss[:1].Error())
}

func TestIssues_AsIssuesThroughWrapping(t *testing.T) {
	iss := jsmodel.Issues{{Path: "/x", Code: jsmodel.CodeTooBig}}
	wrapped := fmt.Errorf("construct: %w", iss)

	got, ok := jsmodel.AsIssues(wrapped)
	require.True(t, ok)
	assert.Equal(t, iss, got)

	_, ok = jsmodel.AsIssues(errors.New("plain"))
	assert.False(t, ok)
	_, ok = jsmodel.AsIssues(nil)
	assert.False(t, ok)
}

func TestIssues_Rebase(t *testing.T) {
	iss := jsmodel.Issues{
		{Path: "/", Code: "a"},
		{Path: "", Code: "b"},
		{Path: "/0/name", Code: "c"},
		{Path: "x", Code: "d"},
	}
	got := iss.Rebase("/items")
	paths := []string{}
	for _, it := range got {
		paths = append(paths, it.Path)
	}
	assert.Equal(t, []string{"/items", "/items", "/items/0/name", "/items/x"}, paths)
	assert.Equal(t, "/", iss[0].Path, "rebase must not mutate the receiver")
	assert.Equal(t, iss, iss.Rebase("/"))
}

func TestIssuesFromErr(t *testing.T) {
	assert.Nil(t, jsmodel.IssuesFromErr("/a", nil))

	nested := jsmodel.Issues{{Path: "/b", Code: jsmodel.CodePattern}}
	got := jsmodel.IssuesFromErr("/a", nested)
	require.Len(t, got, 1)
	assert.Equal(t, "/a/b", got[0].Path)

	cause := errors.New("boom")
	got = jsmodel.IssuesFromErr("/a", cause)
	require.Len(t, got, 1)
	assert.Equal(t, jsmodel.CodeParseError, got[0].Code)
	assert.Equal(t, "boom", got[0].Message)
	assert.ErrorIs(t, got[0].Cause, cause)
}

func TestAppendIssuesAndSingleIssue(t *testing.T) {
	var dst jsmodel.Issues
	dst = jsmodel.AppendIssues(dst)
	assert.NotNil(t, dst)
	assert.Empty(t, dst)

	err := jsmodel.SingleIssue(jsmodel.CodeInvalidType, "expected object", "pass a mapping")
	iss, ok := jsmodel.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	assert.Equal(t, "/", iss[0].Path)
	assert.Equal(t, "pass a mapping", iss[0].Hint)
}

func TestSchemaError(t *testing.T) {
	base := jsmodel.SchemaErrorf(jsmodel.ErrSchemaParse, "items needs %s", "type")
	assert.Equal(t, "items needs type", base.Error())
	assert.ErrorIs(t, base, jsmodel.ErrSchemaParse)
	assert.NotErrorIs(t, base, jsmodel.ErrInvalidReference)

	located := base.At("/definitions/A/properties/x")
	assert.Equal(t, "", base.Path, "At returns a copy")
	assert.Equal(t, "/definitions/A/properties/x", located.Path)
	assert.Equal(t, located, located.At("/elsewhere"), "an existing path wins")

	cause := errors.New("dial tcp: refused")
	wrapped := jsmodel.SchemaErrorf(jsmodel.ErrInvalidReference, "Unable to retrieve provided reference").At("/x").Wrap(cause)
	assert.Equal(t, "Unable to retrieve provided reference (at /x): dial tcp: refused", wrapped.Error())
	assert.ErrorIs(t, wrapped, jsmodel.ErrInvalidReference)
	assert.ErrorIs(t, wrapped, cause)

	noMsg := &jsmodel.SchemaError{Kind: jsmodel.ErrUnsupportedSchema}
	assert.Equal(t, "unsupported schema", noMsg.Error())

	se, ok := jsmodel.AsSchemaError(fmt.Errorf("build: %w", located))
	require.True(t, ok)
	assert.Equal(t, located.Path, se.Path)
	_, ok = jsmodel.AsSchemaError(errors.New("other"))
	assert.False(t, ok)
}

func TestPathRef(t *testing.T) {
	assert.Equal(t, "/", jsmodel.Root().Pointer())
	assert.Equal(t, "/tags/2", jsmodel.Root().Field("tags").Index(2).Pointer())
	assert.Equal(t, "/a~1b/c~0d", jsmodel.Root().Field("a/b").Field("c~d").Pointer())
	assert.Equal(t, "/", jsmodel.Root().Field("").Pointer())

	parent := jsmodel.Root().Field("p")
	left := parent.Field("l")
	right := parent.Field("r")
	assert.Equal(t, "/p/l", left.Pointer())
	assert.Equal(t, "/p/r", right.Pointer())

	assert.Equal(t, "/x/0", jsmodel.At("/x/0").Pointer())
	assert.Equal(t, "/", jsmodel.At("").Pointer())
	assert.Equal(t, "/a~1b/c~0d", jsmodel.At("/a~1b/c~0d").Pointer())
	assert.Equal(t, "/a~1b/0", jsmodel.At("/a~1b").Index(0).Pointer())

	it := jsmodel.At("/n").Issue(jsmodel.CodeTooBig, "too big", "max", 3, "got", 4, "dangling")
	assert.Equal(t, "/n", it.Path)
	assert.Equal(t, map[string]any{"max": 3, "got": 4}, it.Params)
	assert.NotNil(t, jsmodel.Root().Issue(jsmodel.CodeRequired, "missing").Params)
}

func TestPresenceMap(t *testing.T) {
	pm := jsmodel.PresenceMap{
		"/a": jsmodel.PresenceSeen,
		"/b": jsmodel.PresenceSeen | jsmodel.PresenceWasNull,
		"/c": jsmodel.PresenceDefaultApplied,
	}
	assert.True(t, pm.Has("/b", jsmodel.PresenceWasNull))
	assert.False(t, pm.Has("/a", jsmodel.PresenceWasNull))
	assert.False(t, pm.Has("/missing", jsmodel.PresenceSeen))

	seen := pm.Seen()
	sort.Strings(seen)
	assert.Equal(t, []string{"/a", "/b"}, seen)
}

func TestUnknownPolicyAndFailFast(t *testing.T) {
	assert.Equal(t, "forbid", jsmodel.UnknownStrict.String())
	assert.Equal(t, "ignore", jsmodel.UnknownStrip.String())
	assert.Equal(t, "allow", jsmodel.UnknownPassthrough.String())
	assert.Equal(t, "unknown", jsmodel.UnknownPolicy(9).String())

	ctx := context.Background()
	assert.False(t, jsmodel.IsFailFast(ctx))
	assert.True(t, jsmodel.IsFailFast(jsmodel.WithFailFast(ctx, true)))
	assert.False(t, jsmodel.IsFailFast(jsmodel.WithFailFast(ctx, false)))
}
