package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var docs = []map[string]any{
	{"_type": "post", "title": "One"},
	{"_type": "post", "title": "Two", "slug": map[string]any{"_type": "slug", "current": "two"}},
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, JSON, got)

	got, err = ParseFormat("NDJSON")
	require.NoError(t, err)
	assert.Equal(t, NDJSON, got)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteAll_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAll(&buf, JSON, []map[string]any{{"_type": "a", "x": 1}, {"_type": "b"}}))

	want := "[\n  {\n    \"_type\": \"a\",\n    \"x\": 1\n  },\n  {\n    \"_type\": \"b\"\n  }\n]\n"
	assert.Equal(t, want, buf.String())

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded, 2)
}

func TestWriteAll_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAll[map[string]any](&buf, JSON, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteAll_NDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAll(&buf, NDJSON, docs))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"_type":"post","title":"One"}`, lines[0])
	assert.JSONEq(t, `{"_type":"post","title":"Two","slug":{"_type":"slug","current":"two"}}`, lines[1])
}

func TestWriteAll_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAll(&buf, YAML, docs))

	dec := yaml.NewDecoder(&buf)

	var got []map[string]any

	for {
		var m map[string]any

		err := dec.Decode(&m)
		if errors.Is(err, io.EOF) {
			break
		}

		require.NoError(t, err)

		got = append(got, m)
	}

	assert.Equal(t, docs, got)
}

func TestWriteAll_CBOR(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAll(&buf, CBOR, docs))

	mode, err := cbor.DecOptions{DefaultMapType: reflect.TypeOf(map[string]any(nil))}.DecMode()
	require.NoError(t, err)

	dec := mode.NewDecoder(&buf)

	var got []map[string]any

	for {
		var m map[string]any

		err := dec.Decode(&m)
		if errors.Is(err, io.EOF) {
			break
		}

		require.NoError(t, err)

		got = append(got, m)
	}

	assert.Equal(t, docs, got)
}

func TestWriteAll_CBORDeterministic(t *testing.T) {
	var a, b bytes.Buffer

	require.NoError(t, WriteAll(&a, CBOR, docs))
	require.NoError(t, WriteAll(&b, CBOR, docs))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestNewEncoder_Unknown(t *testing.T) {
	_, err := NewEncoder("xml", io.Discard)
	assert.Error(t, err)
}
