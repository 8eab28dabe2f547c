package source_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/source"
)

func TestLoader_ResolveFile(t *testing.T) {
	fsys := fstest.MapFS{
		"schemas/point.json": {Data: []byte(`{"$schema": "http://json-schema.org/draft-07/schema", "title": "Point"}`)},
		"schemas/point.yaml": {Data: []byte("title: Point\ntype: object\n")},
	}
	l := source.NewLoader(source.Options{FS: fsys})

	doc, err := l.Resolve(context.Background(), "schemas/point.json")
	require.NoError(t, err)
	assert.Equal(t, "schemas/point.json", doc.Base)
	title, _ := doc.Root.String("title")
	assert.Equal(t, "Point", title)

	doc, err = l.Resolve(context.Background(), "schemas/point.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "type"}, doc.Root.Keys())
}

func TestLoader_ResolveURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/schema.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"definitions": {"A": {"type": "string"}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := source.NewLoader(source.Options{HTTPClient: srv.Client()})
	doc, err := l.Resolve(context.Background(), srv.URL+"/schema.json")
	require.NoError(t, err)
	require.NotNil(t, doc.Root.Object("definitions").Object("A"))

	_, err = l.Resolve(context.Background(), srv.URL+"/missing.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, jsmodel.ErrInvalidSchema))
	assert.Contains(t, err.Error(), "failed with code 404")
}

func TestLoader_ResolveInMemory(t *testing.T) {
	l := source.NewLoader(source.Options{})
	doc, err := l.Resolve(context.Background(), map[string]any{"title": "X"})
	require.NoError(t, err)
	assert.Equal(t, "", doc.Base)

	doc, err = l.Resolve(context.Background(), []byte(`{"b": 1, "a": 2}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, doc.Root.Keys())
}

func TestLoader_ResolveInvalid(t *testing.T) {
	l := source.NewLoader(source.Options{FS: fstest.MapFS{}})
	for _, in := range []any{"not-a-file-or-url", 42, nil} {
		_, err := l.Resolve(context.Background(), in)
		require.Error(t, err)
		assert.True(t, errors.Is(err, jsmodel.ErrInvalidSchema))
		assert.Contains(t, err.Error(), "Unable to produce valid schema from input object.")
	}
}

func TestResolveRef(t *testing.T) {
	got, err := source.ResolveRef("https://example.com/schemas/root.json", "other.json")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/schemas/other.json", got)

	got, err = source.ResolveRef("schemas/root.json", "common.json")
	require.NoError(t, err)
	assert.Equal(t, "schemas/common.json", got)

	got, err = source.ResolveRef("", "https://example.com/a.json")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a.json", got)
}
