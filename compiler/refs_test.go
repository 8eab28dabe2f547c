package compiler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/compiler"
	"github.com/reoring/jsmodel/source"
)

const geneDefs = `{
  "$defs": {
    "Gene": {
      "type": "object",
      "properties": {
        "symbol": {"type": "string"},
        "location": {"$ref": "#/$defs/Location"}
      },
      "required": ["symbol"]
    },
    "Location": {
      "type": "object",
      "properties": {"chr": {"type": "string"}},
      "required": ["chr"]
    }
  }
}`

func schemaServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/defs.json":
			atomic.AddInt32(hits, 1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(geneDefs))
		case "/panel.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = fmt.Fprintf(w, `{
			  "$schema": "https://json-schema.org/draft/2020-12/schema",
			  "$defs": {
			    "Panel": {
			      "type": "object",
			      "properties": {
			        "primary": {"$ref": "defs.json#/$defs/Gene"},
			        "self": {"$ref": "%s/panel.json#/$defs/Panel"}
			      }
			    }
			  }
			}`, srv.URL)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBuild_RemoteReferences(t *testing.T) {
	ctx := context.Background()
	var hits int32
	srv := schemaServer(t, &hits)

	schema := fmt.Sprintf(`{
	  "$schema": "https://json-schema.org/draft/2020-12/schema",
	  "$defs": {
	    "Panel": {
	      "type": "object",
	      "properties": {
	        "primary": {"$ref": "%[1]s/defs.json#/$defs/Gene"},
	        "others": {"type": "array", "items": {"$ref": "%[1]s/defs.json#/$defs/Gene"}}
	      }
	    }
	  }
	}`, srv.URL)

	models, _, err := compiler.Build(ctx, []byte(schema), compiler.Options{})
	require.NoError(t, err)
	require.Len(t, models, 3)
	assert.Equal(t, "Panel", models[0].Name)
	assert.Equal(t, "Gene", models[1].Name)
	assert.Equal(t, "Location", models[2].Name)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	panel := models[0]
	_, err = panel.New(ctx, map[string]any{
		"primary": map[string]any{"symbol": "BRAF", "location": map[string]any{"chr": "7"}},
		"others":  []any{map[string]any{"symbol": "KRAS"}},
	})
	require.NoError(t, err)

	_, err = panel.New(ctx, map[string]any{
		"primary": map[string]any{"symbol": "BRAF", "location": map[string]any{}},
	})
	iss, ok := jsmodel.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	assert.Equal(t, "/primary/location/chr", iss[0].Path)
	assert.Equal(t, jsmodel.CodeRequired, iss[0].Code)
}

func TestBuild_RelativeReferenceFromURL(t *testing.T) {
	var hits int32
	srv := schemaServer(t, &hits)

	models, _, err := compiler.Build(context.Background(), srv.URL+"/panel.json", compiler.Options{})
	require.NoError(t, err)
	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name
	}
	assert.Equal(t, []string{"Panel", "Gene", "Location"}, names)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestBuild_RemoteReferenceErrors(t *testing.T) {
	var hits int32
	srv := schemaServer(t, &hits)

	tests := []struct {
		name string
		defs string
		msg  string
	}{
		{
			name: "not found",
			defs: `{"A": {"type": "object", "properties": {"b": {"$ref": "%s/missing.json#/$defs/B"}}}}`,
			msg:  "Unable to retrieve provided reference",
		},
		{
			name: "unknown definition",
			defs: `{"A": {"type": "object", "properties": {"b": {"$ref": "%s/defs.json#/$defs/Protein"}}}}`,
			msg:  "not found",
		},
		{
			name: "collides with local definition",
			defs: `{"Location": {"type": "string"}, "A": {"type": "object", "properties": {"b": {"$ref": "%s/defs.json#/$defs/Gene"}}}}`,
			msg:  "collides",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"$schema": "https://json-schema.org/draft/2020-12/schema", "$defs": ` + fmt.Sprintf(tt.defs, srv.URL) + `}`
			_, _, err := compiler.Build(context.Background(), []byte(doc), compiler.Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, jsmodel.ErrInvalidReference)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

type memFetcher map[string]string

func (f memFetcher) Fetch(_ context.Context, ref string) (*source.Object, error) {
	doc, ok := f[ref]
	if !ok {
		return nil, fmt.Errorf("no document %s", ref)
	}
	return source.DecodeJSON([]byte(doc))
}

func TestBuild_CustomFetcher(t *testing.T) {
	fetcher := memFetcher{"mem://lib": `{"definitions": {"Code": {"type": "string", "pattern": "^[A-Z]{3}$"}}}`}
	models, _, err := compiler.Build(context.Background(), []byte(`{
	  "$schema": "http://json-schema.org/draft-07/schema",
	  "definitions": {
	    "Airport": {
	      "type": "object",
	      "properties": {"code": {"$ref": "mem://lib#/definitions/Code"}},
	      "required": ["code"]
	    }
	  }
	}`), compiler.Options{Fetcher: fetcher})
	require.NoError(t, err)
	require.Len(t, models, 2)

	_, err = models[0].New(context.Background(), map[string]any{"code": "SFO"})
	assert.NoError(t, err)
	_, err = models[0].New(context.Background(), map[string]any{"code": "sfo"})
	assert.Error(t, err)
}
