package num

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRat_Kinds(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    string
		wantErr bool
	}{
		{name: "int", in: 42, want: "42/1"},
		{name: "int8", in: int8(-3), want: "-3/1"},
		{name: "uint64", in: uint64(7), want: "7/1"},
		{name: "float", in: 0.1, want: "1/10"},
		{name: "number literal", in: json.Number("2.50"), want: "5/2"},
		{name: "exponent", in: json.Number("1e2"), want: "100/1"},
		{name: "bool", in: true, wantErr: true},
		{name: "string", in: "1", wantErr: true},
		{name: "nil", in: nil, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Rat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.String())
		})
	}
}

func TestIsMultiple_Exact(t *testing.T) {
	v, _ := Rat(0.3)
	m, _ := Rat(0.1)
	assert.True(t, IsMultiple(v, m))

	v, _ = Rat(25)
	m, _ = Rat(10)
	assert.False(t, IsMultiple(v, m))

	assert.False(t, IsMultiple(v, new(big.Rat)))
}

func TestIsIntegral(t *testing.T) {
	assert.True(t, IsIntegral(3))
	assert.True(t, IsIntegral(json.Number("4.0")))
	assert.False(t, IsIntegral(json.Number("4.5")))
	assert.False(t, IsIntegral(false))
}

func TestEqual_Numeric(t *testing.T) {
	assert.True(t, Equal(1, 1.0))
	assert.True(t, Equal(json.Number("2"), int64(2)))
	assert.False(t, Equal(true, 1))
}

func TestFormat(t *testing.T) {
	r, _ := Rat(10)
	assert.Equal(t, "10", Format(r))
	r, _ = Rat(0.25)
	assert.Equal(t, "0.25", Format(r))
}
