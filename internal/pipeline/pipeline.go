// Package pipeline maps a batch of input items to documents and optionally
// sends each document on to a Sink such as the Sanity Mutations API.
//
// The schema is parsed once, before any item is touched, so a malformed
// schema fails the run with zero items processed. Items are built strictly
// in input order. A failing item stops the run unless ContinueOnFail is set,
// in which case its result carries the error and the run goes on. Every
// result is paired with the index of the item it came from.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"sanity-mapper/internal/common"
	"sanity-mapper/internal/document"
	"sanity-mapper/internal/expression"
	"sanity-mapper/internal/mapping"
	"sanity-mapper/internal/mutation"
	"sanity-mapper/internal/schema"
)

// Item is one decoded input object.
type Item = map[string]any

// Result is the outcome for one item.
type Result struct {
	Item     int                `json:"pairedItem" yaml:"pairedItem"`
	Document document.Document  `json:"document,omitempty" yaml:"document,omitempty"`
	Mutation *mutation.Response `json:"mutation,omitempty" yaml:"mutation,omitempty"`
	Error    string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the item failed.
func (r Result) Failed() bool { return r.Error != "" }

// Output returns what the item contributes to the run's output: the
// document, or {error: msg} for a failed item.
func (r Result) Output() map[string]any {
	if r.Failed() {
		return map[string]any{"error": r.Error}
	}

	return r.Document
}

// ItemError is a failure of one item that stopped the run.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// Runner maps items with one schema and rule set.
type Runner struct {
	builder        *document.Builder
	rules          []mapping.Rule
	engine         *expression.Engine
	sink           Sink
	concurrency    int
	continueOnFail bool
	builderOpts    []document.Option
	logger         *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithContinueOnFail records item failures as results instead of stopping.
func WithContinueOnFail(on bool) Option {
	return func(r *Runner) {
		r.continueOnFail = on
	}
}

// WithSink sends every built document to s.
func WithSink(s Sink) Option {
	return func(r *Runner) {
		r.sink = s
	}
}

// WithConcurrency bounds how many documents are sent at once. Values below
// one mean one.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		r.concurrency = max(n, 1)
	}
}

// WithBuilderOptions passes options to the document builder.
func WithBuilderOptions(opts ...document.Option) Option {
	return func(r *Runner) {
		r.builderOpts = append(r.builderOpts, opts...)
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Runner for an already parsed schema.
func New(idx *schema.Index, rules []mapping.Rule, opts ...Option) *Runner {
	r := &Runner{
		rules:       rules,
		engine:      expression.NewEngine(),
		concurrency: 1,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(r)
	}

	builderOpts := append([]document.Option{document.WithLogger(r.logger)}, r.builderOpts...)
	r.builder = document.NewBuilder(idx, builderOpts...)

	return r
}

// FromSchema parses schemaJSON and creates a Runner. A malformed schema is
// returned as a *schema.ParseError.
func FromSchema(schemaJSON []byte, rules []mapping.Rule, opts ...Option) (*Runner, error) {
	idx, err := schema.Parse(schemaJSON)
	if err != nil {
		return nil, err
	}

	return New(idx, rules, opts...), nil
}

// Schema returns the index the runner maps against.
func (r *Runner) Schema() *schema.Index { return r.builder.Schema() }

// Run builds a document for every item and, if a sink is configured, sends
// them. Results are in input order.
func (r *Runner) Run(ctx context.Context, items []Item) ([]Result, error) {
	if common.IsEmpty(items) {
		r.logger.InfoContext(ctx, "no input items")
		return []Result{}, nil
	}

	results, err := r.build(ctx, items)
	if err != nil {
		return nil, err
	}

	if r.sink == nil {
		return results, nil
	}

	if err := r.dispatch(ctx, items, results); err != nil {
		return nil, err
	}

	return results, nil
}

func (r *Runner) build(ctx context.Context, items []Item) ([]Result, error) {
	results := make([]Result, len(items))

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		results[i].Item = i

		doc, err := r.builder.Build(r.rules, r.engine.ForItem(i, item))
		if err != nil {
			if !r.continueOnFail {
				return nil, &ItemError{Index: i, Err: err}
			}

			r.logger.WarnContext(ctx, "item failed", "item", i, "error", err)
			results[i].Error = err.Error()

			continue
		}

		r.logger.DebugContext(ctx, "item mapped", "item", i, "type", doc.Type())
		results[i].Document = doc
	}

	return results, nil
}

// dispatch sends built documents to the sink. Each goroutine writes only its
// own result slot.
func (r *Runner) dispatch(ctx context.Context, items []Item, results []Result) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i := range results {
		if results[i].Failed() {
			continue
		}

		g.Go(func() error {
			resp, err := r.sink.Send(gCtx, i, items[i], results[i].Document)
			if err != nil {
				if !r.continueOnFail {
					return &ItemError{Index: i, Err: err}
				}

				r.logger.WarnContext(gCtx, "send failed", "item", i, "error", err)
				results[i] = Result{Item: i, Error: err.Error()}

				return nil
			}

			results[i].Mutation = resp

			return nil
		})
	}

	return g.Wait()
}

// Outputs returns the output object of every result.
func Outputs(results []Result) []map[string]any {
	out := make([]map[string]any, len(results))
	for i, r := range results {
		out[i] = r.Output()
	}

	return out
}

// Failures counts failed results.
func Failures(results []Result) int {
	n := 0

	for _, r := range results {
		if r.Failed() {
			n++
		}
	}

	return n
}
