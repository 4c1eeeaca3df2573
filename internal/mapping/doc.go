// Package mapping provides mapping rule definitions, rule file parsing,
// field path parsing, and validation of rules against a document schema.
//
// A rule pairs a target field path in the Sanity document with a raw input
// value. Rules are applied in file order; when two rules write the same
// path, the later one wins.
//
// # File Format
//
// Rule files are YAML (JSON is accepted too, being a YAML subset):
//
//	version: "1"
//	schema: schemas/post.json   # optional, relative to the rule file
//	mappings:
//	  - sanityField: title
//	    inputValue: "={{ $json.headline }}"
//	  - sanityField: slug.current
//	    inputValue: "={{ $json.slug }}"
//	  - sanityField: author
//	    inputValue: person-42
//
// The mappings list may also be given in the node-export shape
// {"mappings": {"values": [...]}}, or as a bare top-level list.
//
// # Path Syntax
//
// Field paths are dot-separated: "title", "slug.current", "seo.meta.title".
// Segments must be non-empty. The names "__proto__", "constructor" and
// "prototype" are reserved and rejected so documents stay safe to hand to
// JavaScript consumers.
//
// # Validation
//
// Validate reports, without failing a run:
//   - rules whose first segment is not a schema field (with suggestions)
//   - rules targeting "_type", which the document builder never overwrites
//   - schema types the mapper passes through unchanged
//
// Invalid paths are reported as errors.
package mapping
