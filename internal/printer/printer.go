// Package printer writes coloured status lines for the CLI. Documents go to
// stdout; everything printed here goes to the printer's writer, normally
// stderr. Colour is disabled by NO_COLOR or when stdout is not a terminal.
package printer

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/fatih/color"

	"sanity-mapper/internal/common"
	"sanity-mapper/internal/diagnostic"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
)

// Printer writes status messages to one writer.
type Printer struct {
	w io.Writer
}

// New creates a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Success prints a green message with a checkmark prefix.
func (p *Printer) Success(format string, a ...any) {
	green.Fprintf(p.w, "✓ %s\n", fmt.Sprintf(format, a...))
}

// Info prints a message in the default colour.
func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintf(p.w, format+"\n", a...)
}

// Warning prints a yellow message with a warning prefix.
func (p *Printer) Warning(format string, a ...any) {
	yellow.Fprintf(p.w, "⚠️  %s\n", fmt.Sprintf(format, a...))
}

// Step prints a cyan progress line.
func (p *Printer) Step(format string, a ...any) {
	cyan.Fprintf(p.w, "→ %s\n", fmt.Sprintf(format, a...))
}

// Error prints a formatted error with title, explanation, context details
// and suggestions, and returns an error carrying only the title for cobra.
func (p *Printer) Error(title, explanation string, context map[string]string, suggestions ...string) error {
	red.Fprintf(p.w, "%s\n", title)

	if explanation != "" {
		fmt.Fprintf(p.w, "\n%s\n", explanation)
	}

	if len(context) > 0 {
		fmt.Fprintln(p.w)

		for _, key := range slices.Sorted(maps.Keys(context)) {
			fmt.Fprintf(p.w, "  %s: %s\n", key, context[key])
		}
	}

	switch {
	case common.IsEmpty(suggestions):
	case common.IsSingle(suggestions):
		fmt.Fprintf(p.w, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(p.w, "\nEither:\n")

		for i, s := range suggestions {
			fmt.Fprintf(p.w, "  %d. %s\n", i+1, s)
		}
	}

	return fmt.Errorf("%s", title)
}

// Diagnostics prints every diagnostic, errors first, followed by a summary
// line.
func (p *Printer) Diagnostics(d *diagnostic.Diagnostics) {
	for _, diag := range d.All() {
		switch diag.Severity {
		case diagnostic.SeverityError:
			red.Fprintf(p.w, "error ")
		case diagnostic.SeverityWarning:
			yellow.Fprintf(p.w, "warning ")
		default:
			faint.Fprintf(p.w, "info ")
		}

		fmt.Fprintln(p.w, diag.String())
	}

	summary := fmt.Sprintf("%d error(s), %d warning(s), %d info", len(d.Errors), len(d.Warnings), len(d.Infos))

	if d.HasErrors() {
		red.Fprintln(p.w, summary)
		return
	}

	green.Fprintln(p.w, summary)
}

// Table prints aligned two-column rows.
func (p *Printer) Table(header [2]string, rows [][2]string) {
	width := len(header[0])
	for _, r := range rows {
		width = max(width, len(r[0]))
	}

	faint.Fprintf(p.w, "%-*s  %s\n", width, header[0], header[1])

	for _, r := range rows {
		fmt.Fprintf(p.w, "%-*s  %s\n", width, r[0], strings.TrimSpace(r[1]))
	}
}
