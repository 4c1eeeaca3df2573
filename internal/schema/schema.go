package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema describes one document type.
type Schema struct {
	Name   string            `json:"name"`
	Fields []FieldDefinition `json:"fields"`
}

// FieldDefinition is a single top-level field of a document type.
type FieldDefinition struct {
	Name string           `json:"name"`
	Type string           `json:"type"`
	Of   []TypeDescriptor `json:"of,omitempty"`
}

// TypeDescriptor lists one permissible element type of an array field.
type TypeDescriptor struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// Kind classifies the declared type of the field.
func (f FieldDefinition) Kind() FieldKind {
	return KindOf(f.Type)
}

// IsPortableText reports whether the field is an array that admits blocks.
func (f FieldDefinition) IsPortableText() bool {
	if f.Kind() != KindArray {
		return false
	}

	return slices.ContainsFunc(f.Of, func(d TypeDescriptor) bool {
		return KindOf(d.Type) == KindBlock
	})
}

// ErrInvalidSchema is matched by every ParseError.
var ErrInvalidSchema = errors.New("invalid schema")

// ParseError reports schema text that is not valid JSON or does not have
// the shape {name, fields}. It is fatal for the whole run.
type ParseError struct {
	Source string   // file path or other label, may be empty
	Issues []string // structural problems, empty for JSON syntax errors
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder

	b.WriteString("invalid schema")

	if e.Source != "" {
		b.WriteString(" ")
		b.WriteString(e.Source)
	}

	if len(e.Issues) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Issues, "; "))
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidSchema) hold for any ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrInvalidSchema }

// structure is the JSON Schema every document type description must satisfy.
const structure = `{
  "type": "object",
  "required": ["name", "fields"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "fields": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "type": {"type": "string"},
          "of": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {"type": {"type": "string"}}
            }
          }
        }
      }
    }
  }
}`

var structureLoader = gojsonschema.NewStringLoader(structure)

// LoadFile reads and parses a schema file.
func LoadFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Source: path, Err: fmt.Errorf("failed to read schema file: %w", err)}
	}

	idx, err := Parse(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Source = path
		}

		return nil, err
	}

	return idx, nil
}

// Parse decodes schema JSON, validates its structure and builds an Index.
func Parse(data []byte) (*Index, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("failed to parse schema JSON: %w", err)}
	}

	result, err := gojsonschema.Validate(structureLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("failed to validate schema: %w", err)}
	}

	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			issues = append(issues, re.String())
		}

		return nil, &ParseError{Issues: issues}
	}

	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("failed to decode schema: %w", err)}
	}

	return NewIndex(&s)
}

// Index answers type questions about a parsed schema. It never changes after
// construction.
type Index struct {
	schema *Schema
	byName map[string]int
}

// NewIndex builds an Index from an already decoded schema. Field names must
// be unique; fields with an empty name are kept but never match.
func NewIndex(s *Schema) (*Index, error) {
	if s == nil || s.Name == "" {
		return nil, &ParseError{Issues: []string{"name: schema name is required"}}
	}

	s = &Schema{Name: s.Name, Fields: slices.Clone(s.Fields)}

	idx := &Index{
		schema: s,
		byName: make(map[string]int, len(s.Fields)),
	}

	var dups []string

	for i, f := range s.Fields {
		if f.Name == "" {
			continue
		}

		if _, ok := idx.byName[f.Name]; ok {
			dups = append(dups, fmt.Sprintf("fields: duplicate field %q", f.Name))
			continue
		}

		idx.byName[f.Name] = i
	}

	if len(dups) > 0 {
		return nil, &ParseError{Issues: dups}
	}

	return idx, nil
}

// Name returns the document type name, used as the _type discriminator.
func (x *Index) Name() string {
	return x.schema.Name
}

// Fields returns the field definitions in declaration order.
func (x *Index) Fields() []FieldDefinition {
	return slices.Clone(x.schema.Fields)
}

// FieldNames returns the names of all fields in declaration order.
func (x *Index) FieldNames() []string {
	names := make([]string, 0, len(x.schema.Fields))
	for _, f := range x.schema.Fields {
		if f.Name != "" {
			names = append(names, f.Name)
		}
	}

	return names
}

// Field looks up a top-level field by exact name.
func (x *Index) Field(name string) (FieldDefinition, bool) {
	i, ok := x.byName[name]
	if !ok {
		return FieldDefinition{}, false
	}

	return x.schema.Fields[i], true
}

// Kind returns the kind of a top-level field, or KindOther if it is not
// declared.
func (x *Index) Kind(name string) FieldKind {
	f, ok := x.Field(name)
	if !ok {
		return KindOther
	}

	return f.Kind()
}

// ResolveType reports the type declared at path. The result depends only on
// the schema and the path.
func (x *Index) ResolveType(path string) ResolvedType {
	name, _, nested := strings.Cut(path, ".")

	f, ok := x.Field(name)
	if !ok {
		return TypeUnresolved
	}

	kind := f.Kind()

	// "slug.current" maps as if it were the slug field itself.
	if nested && kind == KindSlug {
		return TypeSlug
	}

	if f.IsPortableText() {
		return TypePortableText
	}

	switch kind {
	case KindSlug:
		return TypeSlug
	case KindReference:
		return TypeReference
	case KindImage:
		return TypeImage
	case KindFile:
		return TypeFile
	default:
		return TypeDeclared(f.Type)
	}
}
