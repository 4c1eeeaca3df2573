package mapping

import (
	"errors"
	"fmt"

	"sanity-mapper/internal/diagnostic"
	"sanity-mapper/internal/schema"
	"sanity-mapper/internal/suggest"
)

// maxSuggestions caps "did you mean" hints per unknown field.
const maxSuggestions = 3

// Validate checks rules against the schema index. Nothing it reports stops
// a run: unknown fields pass through, rejected paths are skipped by the
// builder. The result is informational for the check command and logs.
func Validate(rules []Rule, idx *schema.Index) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if idx == nil {
		res.AddError("schema_is_nil", "schema index is nil", diagnostic.NoRule, "")
		return res
	}

	if len(rules) == 0 {
		res.AddWarning("no_rules", "no mapping rules defined; documents will only carry _type", diagnostic.NoRule, "")
		return res
	}

	fieldNames := idx.FieldNames()
	seenUnrecognized := map[string]struct{}{}

	for i, r := range rules {
		fp, err := ParsePath(r.Path)
		if err != nil {
			res.AddError(pathErrorCode(err), err.Error(), i, r.Path)
			continue
		}

		if fp.Field() == "_type" {
			res.AddWarning("reserved_type_field",
				fmt.Sprintf("_type is always %q and is never overwritten by a rule", idx.Name()), i, r.Path)

			continue
		}

		resolved := idx.ResolveType(r.Path)
		if !resolved.IsResolved() {
			res.AddWarning("unknown_field",
				fmt.Sprintf("field %q is not declared in schema %q; value is written unchanged", fp.Field(), idx.Name()),
				i, r.Path, suggest.Closest(fp.Field(), fieldNames, maxSuggestions)...)

			continue
		}

		validateResolved(res, i, r, fp, resolved, seenUnrecognized)
	}

	return res
}

func validateResolved(
	res *diagnostic.Diagnostics,
	i int,
	r Rule,
	fp FieldPath,
	resolved schema.ResolvedType,
	seenUnrecognized map[string]struct{},
) {
	switch resolved.Kind {
	case schema.Slug:
		if fp.IsNested() && fp.String() != fp.Field()+".current" {
			res.AddWarning("slug_subpath",
				fmt.Sprintf("slug fields only have a \"current\" sub-field; %q is mapped as the slug itself", r.Path), i, r.Path)
		}

		checkScalarRef(res, i, r, resolved)

	case schema.Reference, schema.Image, schema.File:
		checkScalarRef(res, i, r, resolved)

	case schema.PortableText:
		switch r.Value.(type) {
		case string, []any, nil:
		default:
			res.AddWarning("portable_text_shape",
				fmt.Sprintf("portable text value of type %T is neither text nor a block array; written unchanged", r.Value), i, r.Path)
		}

	case schema.Declared:
		if !schema.KindOf(resolved.Name).IsRecognized() {
			if _, ok := seenUnrecognized[resolved.Name]; !ok {
				seenUnrecognized[resolved.Name] = struct{}{}
				res.AddInfo("unrecognized_type",
					fmt.Sprintf("type %q has no special mapping; values are passed through", resolved.Name), i, r.Path)
			}
		}
	}
}

// checkScalarRef flags literal non-scalar values for types that wrap a
// single identifier. Expressions are only known at run time.
func checkScalarRef(res *diagnostic.Diagnostics, i int, r Rule, resolved schema.ResolvedType) {
	switch r.Value.(type) {
	case map[string]any, []any:
		res.AddWarning("non_scalar_value",
			fmt.Sprintf("%s expects an identifier but the value is %T", resolved, r.Value), i, r.Path)
	}
}

func pathErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrReservedSegment):
		return "reserved_segment"
	case errors.Is(err, ErrEmptySegment):
		return "empty_segment"
	case errors.Is(err, ErrEmptyPath):
		return "empty_path"
	default:
		return "invalid_path"
	}
}
