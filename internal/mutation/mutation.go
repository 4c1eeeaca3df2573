package mutation

import (
	"fmt"
	"maps"

	"github.com/google/uuid"
)

// Operation names one Sanity mutation type.
type Operation string

const (
	Create            Operation = "create"
	CreateIfNotExists Operation = "createIfNotExists"
	CreateOrReplace   Operation = "createOrReplace"
	Delete            Operation = "delete"
	Patch             Operation = "patch"
)

// Operations lists the supported operations.
var Operations = []Operation{Create, CreateIfNotExists, CreateOrReplace, Delete, Patch}

// ParseOperation validates an operation name.
func ParseOperation(s string) (Operation, error) {
	for _, op := range Operations {
		if string(op) == s {
			return op, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

// RequiresID reports whether the operation cannot run without a document ID.
func (o Operation) RequiresID() bool {
	switch o {
	case CreateIfNotExists, CreateOrReplace, Delete, Patch:
		return true
	default:
		return false
	}
}

// Mutation is one entry of the request's "mutations" array: a single key,
// the operation, holding its payload.
type Mutation map[string]any

// Operation returns the mutation's operation, or "" if it is malformed.
func (m Mutation) Operation() Operation {
	if len(m) != 1 {
		return ""
	}

	for k := range m {
		return Operation(k)
	}

	return ""
}

// patchKeys are the operation keys of a Sanity patch payload.
var patchKeys = []string{"set", "setIfMissing", "unset", "inc", "dec", "insert", "diffMatchPatch", "ifRevisionID"}

// Build creates the mutation for doc.
//
// The document ID is id, or doc["_id"] when id is empty. If neither is set
// and generateID is true, a random UUID is used. Create may run without an
// ID; the API then assigns one. The other operations return ErrMissingID.
//
// Create operations send a copy of doc with _id set. Delete sends only the
// ID. Patch sends doc as the patch body when it already holds patch
// operations (set, unset, inc, ...), otherwise it wraps the document's
// fields, minus _id and _type, in a "set" patch.
func Build(op Operation, id string, doc map[string]any, generateID bool) (Mutation, error) {
	if _, err := ParseOperation(string(op)); err != nil {
		return nil, err
	}

	if id == "" {
		if v, ok := doc["_id"].(string); ok {
			id = v
		}
	}

	if id == "" && generateID && op != Delete && op != Patch {
		id = uuid.NewString()
	}

	if id == "" && op.RequiresID() {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingID)
	}

	switch op {
	case Delete:
		return Mutation{string(op): map[string]any{"id": id}}, nil
	case Patch:
		return Mutation{string(op): patchPayload(id, doc)}, nil
	default:
		payload := maps.Clone(doc)
		if payload == nil {
			payload = map[string]any{}
		}

		if id != "" {
			payload["_id"] = id
		}

		return Mutation{string(op): payload}, nil
	}
}

func patchPayload(id string, doc map[string]any) map[string]any {
	for _, k := range patchKeys {
		if _, ok := doc[k]; ok {
			payload := maps.Clone(doc)
			payload["id"] = id

			return payload
		}
	}

	set := maps.Clone(doc)
	if set == nil {
		set = map[string]any{}
	}

	delete(set, "_id")
	delete(set, "_type")

	return map[string]any{"id": id, "set": set}
}

// Result is one entry of a mutate response.
type Result struct {
	ID        string         `json:"id" yaml:"id"`
	Operation string         `json:"operation" yaml:"operation"`
	Document  map[string]any `json:"document,omitempty" yaml:"document,omitempty"`
}

// Response is the body of a successful mutate request.
type Response struct {
	TransactionID string   `json:"transactionId" yaml:"transactionId"`
	Results       []Result `json:"results" yaml:"results"`
}
