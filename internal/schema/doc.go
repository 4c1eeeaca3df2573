// Package schema parses Sanity document type schemas and answers which type
// is declared at a given field path.
//
// A schema is the JSON description of one document type:
//
//	{
//	  "name": "post",
//	  "fields": [
//	    {"name": "title",  "type": "string"},
//	    {"name": "slug",   "type": "slug"},
//	    {"name": "author", "type": "reference"},
//	    {"name": "body",   "type": "array", "of": [{"type": "block"}]}
//	  ]
//	}
//
// Parse validates the structure once per run and builds an Index. The Index
// is immutable and safe to share between goroutines.
//
// # Resolution
//
// Only the first segment of a dotted path selects a field. Nested segments
// are ignored except for slug fields, where "slug.current" still resolves to
// the slug type. Arrays whose "of" list contains a block type resolve to
// portable text. Unknown fields resolve to Unresolved, which is not an error.
package schema
