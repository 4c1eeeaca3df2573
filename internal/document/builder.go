package document

import (
	"fmt"
	"io"
	"log/slog"

	"sanity-mapper/internal/mapping"
	"sanity-mapper/internal/schema"
	"sanity-mapper/internal/transform"
)

// ValueProvider yields the raw value of a rule for the item being built.
type ValueProvider interface {
	Value(index int, rule mapping.Rule) (any, error)
}

// ValueProviderFunc adapts a function to ValueProvider.
type ValueProviderFunc func(index int, rule mapping.Rule) (any, error)

// Value calls f.
func (f ValueProviderFunc) Value(index int, rule mapping.Rule) (any, error) { return f(index, rule) }

// Literal returns each rule's value as written.
type Literal struct{}

// Value returns rule.Value.
func (Literal) Value(_ int, rule mapping.Rule) (any, error) { return rule.Value, nil }

// RuleError reports a rule whose value could not be produced. It fails the
// item being built.
type RuleError struct {
	Index int
	Path  string
	Err   error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %d (%s): %v", e.Index, e.Path, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

// Builder turns mapping rules into documents of one schema type. A Builder
// holds no per-item state and may build many items, one after another or
// concurrently. Built documents never share objects with the rules or with
// the values a provider returns.
type Builder struct {
	index            *schema.Index
	transformer      *transform.Transformer
	literalSlugPaths bool
	logger           *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithTransformer overrides the value transformer, e.g. to fix block keys.
func WithTransformer(t *transform.Transformer) Option {
	return func(b *Builder) {
		if t != nil {
			b.transformer = t
		}
	}
}

// WithLiteralSlugPaths keeps rules like "slug.current" at their literal
// path. By default the slug object is written at the slug field itself.
func WithLiteralSlugPaths(literal bool) Option {
	return func(b *Builder) {
		b.literalSlugPaths = literal
	}
}

// WithLogger configures structured logging of skipped and unresolved rules.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a Builder for the schema behind idx.
func NewBuilder(idx *schema.Index, opts ...Option) *Builder {
	b := &Builder{
		index:       idx,
		transformer: transform.New(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build produces one document. Rules are applied in order, so a later rule
// wins over an earlier one at the same path. Rules with unknown fields are
// written unchanged; rules with rejected paths or targeting _type are
// skipped. Only a failing value provider fails the build.
func (b *Builder) Build(rules []mapping.Rule, values ValueProvider) (Document, error) {
	if values == nil {
		values = Literal{}
	}

	doc := Document{TypeKey: b.index.Name()}

	for i, rule := range rules {
		fp, err := mapping.ParsePath(rule.Path)
		if err != nil {
			b.logger.Warn("skipping rule", "rule", i, "path", rule.Path, "error", err)
			continue
		}

		if fp.Field() == TypeKey {
			b.logger.Warn("skipping rule targeting _type", "rule", i, "path", rule.Path)
			continue
		}

		raw, err := values.Value(i, rule)
		if err != nil {
			return nil, &RuleError{Index: i, Path: rule.Path, Err: err}
		}

		// later rules may write into this value; keep rules and items intact
		raw = cloneValue(raw)

		typ := b.index.ResolveType(rule.Path)
		if !typ.IsResolved() {
			b.logger.Debug("field not in schema, passing value through", "rule", i, "path", rule.Path)
		}

		value := b.transformer.Transform(raw, typ)

		if typ.Kind == schema.Slug && fp.IsNested() && !b.literalSlugPaths {
			fp = mapping.FieldPath{Segments: fp.Segments[:1]}
		}

		AssignPath(doc, fp, value)
	}

	return doc, nil
}

// Schema returns the index the builder maps against.
func (b *Builder) Schema() *schema.Index {
	return b.index
}

// cloneValue copies the objects and arrays of a decoded JSON value. Other
// values are returned as is.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Document:
		return Document(cloneMap(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}

		return out
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	out := make(map[string]any, len(m))
	for k, e := range m {
		out[k] = cloneValue(e)
	}

	return out
}
