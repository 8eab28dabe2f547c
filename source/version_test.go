package source_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/source"
)

func TestDetectVersion(t *testing.T) {
	tests := []struct {
		marker string
		want   source.Version
	}{
		{"https://json-schema.org/draft/2020-12/schema", source.Draft202012},
		{"https://www.json-schema.org/draft/2020-12/schema", source.Draft202012},
		{"http://json-schema.org/draft-07/schema", source.Draft07},
		{"https://json-schema.org/draft-07/schema", source.Draft07},
		{"http://json-schema.org/draft-07/schema#", source.Draft07},
	}
	for _, tt := range tests {
		t.Run(tt.marker, func(t *testing.T) {
			v, err := source.DetectVersion(tt.marker)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
	assert.Equal(t, "$defs", source.Draft202012.DefinitionsKeyword())
	assert.Equal(t, "definitions", source.Draft07.DefinitionsKeyword())
}

func TestDetectVersion_Unsupported(t *testing.T) {
	for _, m := range []string{
		"http://json-schema.org/draft/2020-12/schema",
		"http://json-schema.org/draft-04/schema",
		"",
	} {
		_, err := source.DetectVersion(m)
		require.Error(t, err, m)
		assert.True(t, errors.Is(err, jsmodel.ErrUnsupportedSchema))
	}
}
