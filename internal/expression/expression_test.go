package expression_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sanity-mapper/internal/document"
	"sanity-mapper/internal/expression"
	"sanity-mapper/internal/mapping"
	"sanity-mapper/internal/schema"
)

func TestEvaluate(t *testing.T) {
	item := map[string]any{
		"title": "Hello",
		"name":  "Ada",
		"count": 3,
		"tags":  []any{"go", "cms"},
		"price": 5,
	}

	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"non-string literal", 42, 42},
		{"plain string", "plain", "plain"},
		{"nil", nil, nil},
		{"single block keeps string", "={{ $json.title }}", "Hello"},
		{"single block keeps int", "={{ $json.count }}", 3},
		{"surrounding spaces", "=  {{$json.title}}  ", "Hello"},
		{"index access", "={{ $json.tags[1] }}", "cms"},
		{"arithmetic", "={{ $json.price * 100 }}", 500},
		{"builtin", "={{ upper($json.name) }}", "ADA"},
		{"item index", "={{ $itemIndex }}", 4},
		{"missing key", "={{ $json.missing }}", nil},
		{"coalesce", `={{ $json.missing ?? "untitled" }}`, "untitled"},
		{"template", "=Hello {{ $json.name }}!", "Hello Ada!"},
		{"two blocks", "={{ $json.name }}-{{ $json.count }}", "Ada-3"},
		{"nil in template", "=a{{ $json.missing }}b", "ab"},
		{"expression mode without blocks", "=no blocks", "no blocks"},
	}

	engine := expression.NewEngine()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Evaluate(tt.value, 4, item)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	engine := expression.NewEngine()

	for _, v := range []string{
		"={{ $json.name + }}",
		"={{ nosuch }}",
		"={{   }}",
		"=x {{ $json.name + }} y",
	} {
		t.Run(v, func(t *testing.T) {
			_, err := engine.Evaluate(v, 0, map[string]any{"name": "Ada"})
			require.Error(t, err)

			var ee *expression.Error
			assert.True(t, errors.As(err, &ee))
		})
	}
}

func TestEngine_CompilesOnce(t *testing.T) {
	engine := expression.NewEngine()

	for i, name := range []string{"a", "b", "c"} {
		got, err := engine.Evaluate("={{ $json.name }}", i, map[string]any{"name": name})
		require.NoError(t, err)
		assert.Equal(t, name, got)
	}

	assert.Equal(t, 1, engine.Len())
}

func TestIsExpression(t *testing.T) {
	assert.True(t, expression.IsExpression("={{ 1 }}"))
	assert.True(t, expression.IsExpression("=text"))
	assert.False(t, expression.IsExpression("text"))
	assert.False(t, expression.IsExpression(1))
	assert.False(t, expression.IsExpression(nil))
}

func TestProvider_WithBuilder(t *testing.T) {
	idx, err := schema.Parse([]byte(`{"name":"book","fields":[
		{"name":"title","type":"string"},
		{"name":"author","type":"reference"}
	]}`))
	require.NoError(t, err)

	rules := []mapping.Rule{
		{Path: "title", Value: "={{ $json.headline }}"},
		{Path: "author", Value: "={{ $json.authorId }}"},
		{Path: "edition", Value: 2},
	}

	engine := expression.NewEngine()
	item := map[string]any{"headline": "Dune", "authorId": "person-1"}

	doc, err := document.NewBuilder(idx).Build(rules, engine.ForItem(0, item))
	require.NoError(t, err)

	assert.Equal(t, document.Document{
		"_type":   "book",
		"title":   "Dune",
		"author":  map[string]any{"_type": "reference", "_ref": "person-1"},
		"edition": 2,
	}, doc)
}

func TestProvider_ErrorFailsBuild(t *testing.T) {
	idx, err := schema.Parse([]byte(`{"name":"book","fields":[{"name":"title","type":"string"}]}`))
	require.NoError(t, err)

	_, err = document.NewBuilder(idx).Build(
		[]mapping.Rule{{Path: "title", Value: "={{ $json.a + }}"}},
		expression.NewEngine().ForItem(0, nil),
	)
	require.Error(t, err)

	var re *document.RuleError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "title", re.Path)

	var ee *expression.Error
	assert.True(t, errors.As(err, &ee))
}
