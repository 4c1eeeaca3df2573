// Package document builds Sanity documents from mapping rules.
//
// Assign places a value at a dotted path without touching sibling keys.
// Builder runs the per-item pipeline: seed {_type: schema name}, then for
// every rule in order resolve the field type, transform the raw value, and
// assign it.
//
// Slug sub-paths: a rule targeting "slug.current" on a slug field is written
// as {slug: {_type: "slug", current: v}}. WithLiteralSlugPaths(true) writes
// the slug object at the literal path instead, nesting it under "current".
package document
