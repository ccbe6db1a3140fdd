// Package diag is the circuit simulator's error reporter. It collects
// lexical, syntax, and semantic diagnostics as a source file is
// scanned and parsed, and renders them with a source excerpt and a
// caret pointing at the offending column, in source order, with a
// final count.
package diag

import (
	"fmt"
	"strings"
)

// Kind classifies a Diagnostic by where in the pipeline it originated.
type Kind int

const (
	Lexical Kind = iota
	Syntax
	Semantic
	Runtime
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical error"
	case Syntax:
		return "syntax error"
	case Semantic:
		return "semantic error"
	case Runtime:
		return "runtime error"
	default:
		return "error"
	}
}

// Diagnostic is a single reported problem, located by line/column in
// the source buffer that produced it.
type Diagnostic struct {
	Kind    Kind
	Message string
	Line    int
	Col     int

	// SourceExcerpt is the full text of the offending source line,
	// used to render the caret pointer. It is filled in by Add from
	// the buffer passed to NewDiagnostics.
	SourceExcerpt string
}

// String renders a single diagnostic as a message line, a source
// excerpt line, and a caret line pointing at Col.
func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "line %d: %s: %s\n", d.Line, d.Kind, d.Message)
	if d.SourceExcerpt != "" {
		b.WriteString(d.SourceExcerpt)
		if !strings.HasSuffix(d.SourceExcerpt, "\n") {
			b.WriteByte('\n')
		}
		col := d.Col
		if col < 1 {
			col = 1
		}
		b.WriteString(strings.Repeat(" ", col-1))
		b.WriteString("^\n")
	}
	return b.String()
}

// Diagnostics accumulates every Diagnostic reported while processing
// one source file, so that a single run can surface many errors
// instead of stopping at the first one.
type Diagnostics struct {
	lines []string
	items []Diagnostic
}

// NewDiagnostics returns a collector that extracts source excerpts
// from source (split on '\n', with an optional trailing '\r' trimmed)
// when diagnostics are added.
func NewDiagnostics(source []byte) *Diagnostics {
	raw := strings.Split(string(source), "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &Diagnostics{lines: lines}
}

// Add records a diagnostic, filling in its source excerpt from the
// line it points at.
func (d *Diagnostics) Add(kind Kind, line, col int, format string, args ...any) {
	excerpt := ""
	if idx := line - 1; idx >= 0 && idx < len(d.lines) {
		excerpt = d.lines[idx]
	}
	d.items = append(d.items, Diagnostic{
		Kind:          kind,
		Message:       fmt.Sprintf(format, args...),
		Line:          line,
		Col:           col,
		SourceExcerpt: excerpt,
	})
}

// Items returns every diagnostic recorded so far, in the order they
// were added (which is source order, since scanning and parsing are
// strictly left to right).
func (d *Diagnostics) Items() []Diagnostic {
	return d.items
}

// HasErrors reports whether any diagnostic was recorded. Simulation is
// only permitted when this is false.
func (d *Diagnostics) HasErrors() bool {
	return len(d.items) > 0
}

// Len returns the number of recorded diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.items)
}

// String renders every diagnostic in source order, separated by a
// blank line, followed by a final total count.
func (d *Diagnostics) String() string {
	if len(d.items) == 0 {
		return ""
	}
	var b strings.Builder
	for i, item := range d.items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(item.String())
	}
	fmt.Fprintf(&b, "\n%d error(s)\n", len(d.items))
	return b.String()
}
