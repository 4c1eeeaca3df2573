package document

import (
	"sanity-mapper/internal/mapping"
)

// Document is one output document. It always carries TypeKey once built by
// a Builder.
type Document map[string]any

// TypeKey is the discriminator key set from the schema name.
const TypeKey = "_type"

// Type returns the document's _type, or "" if unset.
func (d Document) Type() string {
	s, _ := d[TypeKey].(string)
	return s
}

// Assign writes value at the dotted path inside doc, creating intermediate
// objects as needed. Existing keys at every level are kept except the final
// one, which is overwritten. A non-object found where an intermediate object
// is needed is replaced by a new object. Rejected paths leave doc unchanged.
func Assign(doc Document, path string, value any) error {
	fp, err := mapping.ParsePath(path)
	if err != nil {
		return err
	}

	AssignPath(doc, fp, value)

	return nil
}

// AssignPath is Assign for an already parsed path.
func AssignPath(doc Document, fp mapping.FieldPath, value any) {
	if len(fp.Segments) == 0 {
		return
	}

	current := map[string]any(doc)

	for _, seg := range fp.Parent().Segments {
		current = child(current, seg)
	}

	current[fp.Last()] = value
}

// child returns the object stored at key, replacing anything else there.
func child(parent map[string]any, key string) map[string]any {
	switch v := parent[key].(type) {
	case map[string]any:
		return v
	case Document:
		return v
	default:
		m := map[string]any{}
		parent[key] = m

		return m
	}
}
