package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	yaml := `
version: "1"
schema: post.json
mappings:
  - sanityField: title
    inputValue: "={{ $json.headline }}"
  - sanityField: slug.current
    inputValue: hello-world
  - sanityField: views
    inputValue: 42
  - sanityField: body
    inputValue:
      - _type: block
        _key: abc
`

	rf, err := Parse([]byte(yaml))
	require.NoError(t, err)
	require.NotNil(t, rf)

	assert.Equal(t, "1", rf.Version)
	assert.Equal(t, "post.json", rf.Schema)
	require.Len(t, rf.Rules, 4)

	assert.Equal(t, "title", rf.Rules[0].Path)
	assert.Equal(t, "={{ $json.headline }}", rf.Rules[0].Value)
	assert.Equal(t, "hello-world", rf.Rules[1].Value)
	assert.Equal(t, 42, rf.Rules[2].Value)
	assert.Equal(t, []any{map[string]any{"_type": "block", "_key": "abc"}}, rf.Rules[3].Value)

	assert.Equal(t, []string{"title", "slug.current", "views", "body"}, rf.Rules.Paths())
}

func TestParse_JSON(t *testing.T) {
	data := `{"mappings": [{"sanityField": "author", "inputValue": "person-42"}]}`

	rf, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, rf.Rules, 1)
	assert.Equal(t, Rule{Path: "author", Value: "person-42"}, rf.Rules[0])
	assert.Equal(t, "1", rf.Version)
}

func TestParse_NodeExportShape(t *testing.T) {
	data := `{"mappings": {"values": [` +
		`{"sanityField": "title", "inputValue": "Hello"}, ` +
		`{"sanityField": "author", "inputValue": "person-42"}]}}`

	rf, err := Parse([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "author"}, rf.Rules.Paths())
}

func TestParse_BareList(t *testing.T) {
	yaml := `
- sanityField: title
  inputValue: Hello
`

	rf, err := Parse([]byte(yaml))
	require.NoError(t, err)
	require.Len(t, rf.Rules, 1)
	assert.Equal(t, "Hello", rf.Rules[0].Value)
	assert.Equal(t, "1", rf.Version)
}

func TestParse_Empty(t *testing.T) {
	rf, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.NotNil(t, rf.Rules)
	assert.Empty(t, rf.Rules)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{"invalid yaml", "mappings: [", "failed to parse mapping YAML"},
		{"scalar mappings", "mappings: nope", "expected list of rules"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadFile_ResolvesSchemaPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schema: post.json\nmappings: []\n"), 0o600))

	rf, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "post.json"), rf.Schema)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")

	rf := &RuleFile{
		Version: "1",
		Rules: RuleList{
			{Path: "title", Value: "Hello"},
			{Path: "author", Value: "person-42"},
		},
	}

	require.NoError(t, WriteFile(rf, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, rf.Rules, loaded.Rules)
}
