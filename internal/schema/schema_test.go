package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postSchema = `{
  "name": "post",
  "fields": [
    {"name": "title", "type": "string"},
    {"name": "slug", "type": "slug"},
    {"name": "author", "type": "reference"},
    {"name": "body", "type": "array", "of": [{"type": "block"}]},
    {"name": "cover", "type": "image"},
    {"name": "attachment", "type": "file"},
    {"name": "tags", "type": "array", "of": [{"type": "string"}]},
    {"name": "publishedAt", "type": "datetime"}
  ]
}`

func mustParse(t *testing.T, data string) *Index {
	t.Helper()

	idx, err := Parse([]byte(data))
	require.NoError(t, err)

	return idx
}

func TestResolveType(t *testing.T) {
	idx := mustParse(t, postSchema)

	tests := []struct {
		path string
		want string
	}{
		{"title", "string"},
		{"slug", "slug"},
		{"slug.current", "slug"},
		{"author", "reference"},
		{"author._ref", "reference"},
		{"body", "portableText"},
		{"cover", "image"},
		{"attachment", "file"},
		{"tags", "array"},
		{"publishedAt", "datetime"},
		{"nonexistent", "unresolved"},
		{"Title", "unresolved"},
		{"", "unresolved"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, idx.ResolveType(tt.path).String())
		})
	}
}

func TestResolveType_Kinds(t *testing.T) {
	idx := mustParse(t, postSchema)

	assert.Equal(t, TypeSlug, idx.ResolveType("slug.current"))
	assert.Equal(t, TypePortableText, idx.ResolveType("body"))
	assert.Equal(t, TypeDeclared("string"), idx.ResolveType("title"))
	assert.False(t, idx.ResolveType("missing").IsResolved())
	assert.True(t, idx.ResolveType("title").IsResolved())
}

func TestResolveType_PortableTextNeedsBlock(t *testing.T) {
	idx := mustParse(t, `{"name":"doc","fields":[
		{"name":"mixed","type":"array","of":[{"type":"image"},{"type":"block"}]},
		{"name":"empty","type":"array"}
	]}`)

	assert.Equal(t, TypePortableText, idx.ResolveType("mixed"))
	assert.Equal(t, TypeDeclared("array"), idx.ResolveType("empty"))
}

func TestResolveType_Deterministic(t *testing.T) {
	idx := mustParse(t, postSchema)

	first := idx.ResolveType("body")
	for range 10 {
		assert.Equal(t, first, idx.ResolveType("body"))
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{"malformed json", `{"name": "post",`, "failed to parse schema JSON"},
		{"missing name", `{"fields": []}`, "name"},
		{"missing fields", `{"name": "post"}`, "fields"},
		{"fields not array", `{"name": "post", "fields": {}}`, "fields"},
		{"empty name", `{"name": "", "fields": []}`, "name"},
		{"field type not string", `{"name": "post", "fields": [{"name": "a", "type": 3}]}`, "type"},
		{"duplicate field", `{"name": "post", "fields": [{"name": "a", "type": "string"}, {"name": "a", "type": "slug"}]}`, `duplicate field "a"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSchema))
			assert.Contains(t, err.Error(), tt.contains)

			var pe *ParseError
			assert.True(t, errors.As(err, &pe))
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "post.json")
	require.NoError(t, os.WriteFile(path, []byte(postSchema), 0o600))

	idx, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "post", idx.Name())
	assert.Len(t, idx.Fields(), 8)
	assert.Equal(t, []string{"title", "slug", "author", "body", "cover", "attachment", "tags", "publishedAt"}, idx.FieldNames())
}

func TestLoadFile_ErrorCarriesSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSchema)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewIndex_CopiesFields(t *testing.T) {
	s := &Schema{Name: "doc", Fields: []FieldDefinition{{Name: "a", Type: "string"}}}

	idx, err := NewIndex(s)
	require.NoError(t, err)

	s.Fields[0].Type = "reference"
	assert.Equal(t, TypeDeclared("string"), idx.ResolveType("a"))
}

func TestField(t *testing.T) {
	idx := mustParse(t, postSchema)

	f, ok := idx.Field("body")
	require.True(t, ok)
	assert.Equal(t, KindArray, f.Kind())
	assert.True(t, f.IsPortableText())

	_, ok = idx.Field("nope")
	assert.False(t, ok)
}

func TestFieldKind(t *testing.T) {
	assert.Equal(t, KindSlug, KindOf("slug"))
	assert.Equal(t, KindOther, KindOf("datetime"))
	assert.Equal(t, "reference", KindReference.String())
	assert.Equal(t, "other", KindOther.String())
	assert.Equal(t, "FieldKind(42)", FieldKind(42).String())
	assert.True(t, KindBlock.IsRecognized())
	assert.False(t, KindOther.IsRecognized())
}

func TestIndexKind(t *testing.T) {
	idx := mustParse(t, postSchema)

	assert.Equal(t, KindImage, idx.Kind("cover"))
	assert.Equal(t, KindOther, idx.Kind("publishedAt"))
	assert.Equal(t, KindOther, idx.Kind("missing"))
}
