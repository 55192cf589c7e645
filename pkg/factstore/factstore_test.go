package factstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	tests := []struct {
		name        string
		config      *StoreConfig
		expectType  StoreType
		expectError bool
	}{
		{name: "nil config", config: nil, expectType: StoreTypeBoolean},
		{name: "empty type", config: &StoreConfig{}, expectType: StoreTypeBoolean},
		{name: "boolean", config: &StoreConfig{Type: StoreTypeBoolean}, expectType: StoreTypeBoolean},
		{name: "fuzzy", config: &StoreConfig{Type: StoreTypeFuzzy}, expectType: StoreTypeFuzzy},
		{name: "unknown", config: &StoreConfig{Type: "graph"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStore(tt.config)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectType, GetStats(s).Type)
			assert.Equal(t, 0, s.Size())
		})
	}
}

func TestGetStats(t *testing.T) {
	db := NewBooleanStore()
	db.Add("p", Tuple{"1"}, true)
	db.Add("p", Tuple{"2"}, false)
	db.Add("q", Tuple{"1"}, false)

	stats := GetStats(db)
	assert.Equal(t, 2, stats.Predicates)
	assert.Equal(t, 3, stats.Facts)
	assert.Equal(t, map[string]int{"p": 2, "q": 1}, stats.PerName)

	fz := NewFuzzyStore()
	fz.Add("r", Tuple{"x"}, 0.5)
	stats = GetStats(fz)
	assert.Equal(t, StoreTypeFuzzy, stats.Type)
	assert.Equal(t, map[string]int{"r": 1}, stats.PerName)
}

func TestTuple(t *testing.T) {
	t.Run("key is injective across splits", func(t *testing.T) {
		assert.NotEqual(t, Tuple{"a,b"}.Key(), Tuple{"a", "b"}.Key())
		assert.NotEqual(t, Tuple{"ab", ""}.Key(), Tuple{"a", "b"}.Key())
		assert.NotEqual(t, Tuple{}.Key(), Tuple{""}.Key())
	})

	t.Run("key decodes byte for byte", func(t *testing.T) {
		for _, want := range []Tuple{{}, {""}, {"a,b", ""}, {"12:x", "S\xe3o Paulo"}} {
			got, err := ParseKey(want.Key())
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}

		for _, corrupt := range []string{"x", ":a", "5:ab", "-1:", "2:ab3"} {
			_, err := ParseKey(corrupt)
			assert.Error(t, err, corrupt)
		}
	})

	t.Run("coerce", func(t *testing.T) {
		assert.Equal(t, Tuple{"1", "x", "0.5"}, NewTuple(1, "x", 0.5))
		assert.Equal(t, "(a, b)", Tuple{"a", "b"}.String())
		assert.True(t, Tuple{"a"}.Equal(Tuple{"a"}))
		assert.False(t, Tuple{"a"}.Equal(Tuple{"a", "b"}))
	})

	t.Run("set ordering", func(t *testing.T) {
		s := NewTupleSet(Tuple{"b"}, Tuple{"a", "z"}, Tuple{"a"}, Tuple{"a"})
		assert.Equal(t, 3, s.Len())
		assert.Equal(t, []Tuple{{"a"}, {"a", "z"}, {"b"}}, s.Tuples())
	})
}
