// Package transform converts raw mapping values into the canonical Sanity
// shape for a resolved field type.
package transform

import (
	"sanity-mapper/internal/schema"
)

// Transformer converts raw values. It is stateless apart from its key
// generator and may be shared between items of a run.
type Transformer struct {
	keys KeyGenerator
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithKeyGenerator replaces the random block key generator.
func WithKeyGenerator(g KeyGenerator) Option {
	return func(t *Transformer) {
		if g != nil {
			t.keys = g
		}
	}
}

// New creates a Transformer that uses RandomKeys unless overridden.
func New(opts ...Option) *Transformer {
	t := &Transformer{keys: RandomKeys{}}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Transform returns raw in the representation required by typ. Unresolved
// and plain declared types pass raw through unchanged.
func (t *Transformer) Transform(raw any, typ schema.ResolvedType) any {
	switch typ.Kind {
	case schema.Slug:
		return Slug(raw)
	case schema.Reference:
		return Reference(raw)
	case schema.Image:
		return Asset("image", raw)
	case schema.File:
		return Asset("file", raw)
	case schema.PortableText:
		text, ok := raw.(string)
		if !ok {
			// already a block array, or something the caller owns
			return raw
		}

		return []any{t.Block(text)}
	default:
		return raw
	}
}

// Slug wraps v as {_type: "slug", current: v}.
func Slug(v any) map[string]any {
	return map[string]any{
		"_type":   "slug",
		"current": v,
	}
}

// Reference wraps v as {_type: "reference", _ref: v}.
func Reference(v any) map[string]any {
	return map[string]any{
		"_type": "reference",
		"_ref":  v,
	}
}

// Asset wraps v as an asset pointer of the given asset type ("image" or "file").
func Asset(assetType string, v any) map[string]any {
	return map[string]any{
		"_type": assetType,
		"asset": Reference(v),
	}
}

// Block builds a single normal-style portable text block holding text in one
// unmarked span.
func (t *Transformer) Block(text string) map[string]any {
	return map[string]any{
		"_type": "block",
		"_key":  t.keys.NewKey(),
		"style": "normal",
		"children": []any{
			map[string]any{
				"_type": "span",
				"text":  text,
				"marks": []any{},
			},
		},
		"markDefs": []any{},
	}
}
