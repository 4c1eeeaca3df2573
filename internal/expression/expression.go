// Package expression evaluates host-style rule values such as
// "={{ $json.headline }}" against one input item.
//
// A rule value is an expression when it is a string starting with "=".
// If the rest is a single {{ ... }} block, the evaluated value is returned
// with its own type. Otherwise every {{ ... }} block is replaced by the
// printed value and the result is a string. Values that are not expressions
// are returned unchanged.
//
// Inside a block, $json is the current item and $itemIndex its position in
// the input. Expressions use the expr language
// (https://expr-lang.org): $json.title, $json.tags[0], upper($json.name),
// $json.price * 100, $json.slug ?? "untitled".
package expression

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"sanity-mapper/internal/mapping"
)

var blockPattern = regexp.MustCompile(`\{\{(.*?)\}\}`)

// variables maps the host-style names to expr environment keys.
var variables = strings.NewReplacer("$json", "json", "$itemIndex", "itemIndex")

// Error reports an expression that failed to compile or run.
type Error struct {
	Expr string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("expression %q: %v", e.Expr, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsExpression reports whether v is an expression string.
func IsExpression(v any) bool {
	s, ok := v.(string)
	return ok && strings.HasPrefix(s, "=")
}

// Engine compiles expressions once and evaluates them per item. It is safe
// for concurrent use.
type Engine struct {
	mu       sync.Mutex
	programs map[string]*vm.Program
}

// NewEngine creates an Engine with an empty program cache.
func NewEngine() *Engine {
	return &Engine{programs: make(map[string]*vm.Program)}
}

// ForItem returns a value provider bound to one input item.
func (e *Engine) ForItem(index int, item map[string]any) *Provider {
	if item == nil {
		item = map[string]any{}
	}

	return &Provider{engine: e, env: env(index, item)}
}

// Evaluate resolves v against the item. Non-expressions are returned as is.
func (e *Engine) Evaluate(v any, index int, item map[string]any) (any, error) {
	return e.ForItem(index, item).resolve(v)
}

// Len reports how many distinct expressions have been compiled.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.programs)
}

func (e *Engine) program(code string) (*vm.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.programs[code]; ok {
		return p, nil
	}

	p, err := expr.Compile(variables.Replace(code), expr.Env(env(0, map[string]any{})))
	if err != nil {
		return nil, err
	}

	e.programs[code] = p

	return p, nil
}

func env(index int, item map[string]any) map[string]any {
	return map[string]any{
		"json":      item,
		"itemIndex": index,
	}
}

// Provider evaluates rule values for a single item. It satisfies
// document.ValueProvider.
type Provider struct {
	engine *Engine
	env    map[string]any
}

// Value returns the rule's value with any expression evaluated.
func (p *Provider) Value(_ int, rule mapping.Rule) (any, error) {
	return p.resolve(rule.Value)
}

func (p *Provider) resolve(v any) (any, error) {
	if !IsExpression(v) {
		return v, nil
	}

	tmpl := strings.TrimPrefix(v.(string), "=")

	matches := blockPattern.FindAllStringSubmatchIndex(tmpl, -1)
	if len(matches) == 0 {
		return tmpl, nil
	}

	// whole value is one block: keep the result's type
	if len(matches) == 1 && strings.TrimSpace(tmpl[:matches[0][0]]) == "" &&
		strings.TrimSpace(tmpl[matches[0][1]:]) == "" {
		return p.eval(tmpl[matches[0][2]:matches[0][3]])
	}

	var b strings.Builder

	last := 0

	for _, m := range matches {
		b.WriteString(tmpl[last:m[0]])

		out, err := p.eval(tmpl[m[2]:m[3]])
		if err != nil {
			return nil, err
		}

		if out != nil {
			fmt.Fprint(&b, out)
		}

		last = m[1]
	}

	b.WriteString(tmpl[last:])

	return b.String(), nil
}

func (p *Provider) eval(code string) (any, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, &Error{Expr: code, Err: fmt.Errorf("empty expression")}
	}

	prog, err := p.engine.program(code)
	if err != nil {
		return nil, &Error{Expr: code, Err: err}
	}

	out, err := expr.Run(prog, p.env)
	if err != nil {
		return nil, &Error{Expr: code, Err: err}
	}

	return out, nil
}
