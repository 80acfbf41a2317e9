package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigGet(t *testing.T) {
	cfg := map[string]any{"mode": "cabinet", "n": 3.0, "strict": true}

	assert.Equal(t, "cabinet", ConfigGet(cfg, "mode", ""))
	assert.Equal(t, "fallback", ConfigGet(cfg, "missing", "fallback"))
	assert.Equal(t, "", ConfigGet(cfg, "n", ""))
	assert.True(t, ConfigGet(cfg, "strict", false))
	assert.Equal(t, 7, ConfigGet[int](nil, "n", 7))
}

func TestConfigGetInt64(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want int64
	}{
		{"int", 5, 5},
		{"int64", int64(6), 6},
		{"float64 from yaml/json", 7.0, 7},
		{"float32", float32(8), 8},
		{"string is ignored", "9", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigGetInt64(map[string]any{"n": tt.v}, "n", -1))
		})
	}
	assert.EqualValues(t, 10, ConfigGetInt64(nil, "n", 10))
}

func TestSliceAnyToString(t *testing.T) {
	assert.Equal(t, []string{"11000", "11007", "gin", "17222"}, SliceAnyToString([]any{"11000", 11007.0, "gin", map[string]any{}, 17222}))
	assert.Nil(t, SliceAnyToString(nil))
	assert.Nil(t, SliceAnyToString("11000"))
}
