// Package output writes mapped documents in one of several encodings.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding.
type Format string

const (
	// JSON writes one indented JSON array holding every document.
	JSON Format = "json"
	// NDJSON writes one compact JSON document per line.
	NDJSON Format = "ndjson"
	// YAML writes a YAML stream, one "---" separated document each.
	YAML Format = "yaml"
	// CBOR writes a CBOR sequence of canonically encoded documents.
	CBOR Format = "cbor"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, NDJSON, YAML, CBOR}

// ParseFormat validates a format name. The empty string is JSON.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return JSON, nil
	}

	f := Format(strings.ToLower(s))
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("unknown output format %q", s)
	}

	return f, nil
}

// Encoder writes a stream of values. Close must be called to finish the
// stream.
type Encoder interface {
	Encode(v any) error
	Close() error
}

// NewEncoder returns an Encoder for f writing to w.
func NewEncoder(f Format, w io.Writer) (Encoder, error) {
	switch f {
	case JSON, "":
		return &jsonArrayEncoder{w: w}, nil
	case NDJSON:
		return &ndjsonEncoder{enc: json.NewEncoder(w)}, nil
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		return enc, nil
	case CBOR:
		mode, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			return nil, fmt.Errorf("cbor mode: %w", err)
		}

		return &cborEncoder{enc: mode.NewEncoder(w)}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", f)
	}
}

// WriteAll encodes values to w in format f.
func WriteAll[T any](w io.Writer, f Format, values []T) error {
	enc, err := NewEncoder(f, w)
	if err != nil {
		return err
	}

	for i, v := range values {
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode item %d: %w", i, err)
		}
	}

	return enc.Close()
}

type jsonArrayEncoder struct {
	w     io.Writer
	count int
}

func (e *jsonArrayEncoder) Encode(v any) error {
	data, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		return err
	}

	sep := ",\n  "
	if e.count == 0 {
		sep = "[\n  "
	}

	e.count++

	if _, err := io.WriteString(e.w, sep); err != nil {
		return err
	}

	_, err = e.w.Write(data)

	return err
}

func (e *jsonArrayEncoder) Close() error {
	end := "\n]\n"
	if e.count == 0 {
		end = "[]\n"
	}

	_, err := io.WriteString(e.w, end)

	return err
}

type ndjsonEncoder struct {
	enc *json.Encoder
}

func (e *ndjsonEncoder) Encode(v any) error { return e.enc.Encode(v) }

func (e *ndjsonEncoder) Close() error { return nil }

type cborEncoder struct {
	enc *cbor.Encoder
}

func (e *cborEncoder) Encode(v any) error { return e.enc.Encode(v) }

func (e *cborEncoder) Close() error { return nil }
