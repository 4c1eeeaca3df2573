package pipeline

import (
	"context"
	"fmt"
	"math"

	"sanity-mapper/internal/document"
	"sanity-mapper/internal/mutation"
)

// Sink receives built documents.
type Sink interface {
	Send(ctx context.Context, index int, item Item, doc document.Document) (*mutation.Response, error)
}

// Mutator posts mutations. *mutation.Client implements it.
type Mutator interface {
	Mutate(ctx context.Context, mutations []mutation.Mutation, returnDocuments bool) (*mutation.Response, error)
}

// MutationSink sends each document as one mutation transaction.
type MutationSink struct {
	Client          Mutator
	Operation       mutation.Operation
	IDField         string // item field holding the document ID; empty uses the document's _id
	GenerateIDs     bool
	ReturnDocuments bool
}

// Send builds the mutation for doc and posts it.
func (s *MutationSink) Send(ctx context.Context, _ int, item Item, doc document.Document) (*mutation.Response, error) {
	m, err := mutation.Build(s.Operation, s.documentID(item), doc, s.GenerateIDs)
	if err != nil {
		return nil, err
	}

	return s.Client.Mutate(ctx, []mutation.Mutation{m}, s.ReturnDocuments)
}

func (s *MutationSink) documentID(item Item) string {
	if s.IDField == "" {
		return ""
	}

	switch v := item[s.IDField].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; integral IDs print without exponent
		if math.Abs(v) < 1<<53 && v == math.Trunc(v) {
			return fmt.Sprintf("%d", int64(v))
		}

		return fmt.Sprint(v)
	default:
		return fmt.Sprint(v)
	}
}
