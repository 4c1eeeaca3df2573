package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadItems(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Item
	}{
		{"array", `[{"a":1},{"b":"x"}]`, []Item{{"a": float64(1)}, {"b": "x"}}},
		{"array with leading space", "\n  [ {\"a\": 1} ]", []Item{{"a": float64(1)}}},
		{"ndjson", "{\"a\":1}\n{\"a\":2}\n", []Item{{"a": float64(1)}, {"a": float64(2)}}},
		{"ndjson without trailing newline", `{"a":1}`, []Item{{"a": float64(1)}}},
		{"empty", "", []Item{}},
		{"whitespace only", " \n\t ", []Item{}},
		{"empty array", "[]", []Item{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadItems(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadItems_Errors(t *testing.T) {
	for _, input := range []string{
		`[1, 2]`,
		`[{"a":1}, null]`,
		`{"a":1}` + "\n" + `"text"`,
		`null`,
		`{"a":`,
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ReadItems(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestReadItemsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.ndjson")
	require.NoError(t, os.WriteFile(path, []byte("{\"title\":\"A\"}\n{\"title\":\"B\"}\n"), 0o644))

	items, err := ReadItemsFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Item{{"title": "A"}, {"title": "B"}}, items)

	_, err = ReadItemsFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
