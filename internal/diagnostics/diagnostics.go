// Package diagnostics implements the collected-not-raised error policy
// (spec.md §7 "Error Handling"): analysis keeps running after a
// recoverable problem and the caller decides what to do with the bag
// at the end, the same shape as typesystem.SymbolNotFoundError's
// sentinel-error style in the teacher but batched instead of returned
// eagerly from a single call.
package diagnostics

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/shedskin-go/funxyc/internal/span"
)

// Kind is one of the five error kinds enumerated in spec.md §7.
type Kind int

const (
	// UnsupportedConstruct: a syntax-tree node the builder does not
	// know how to lower. Fatal on arrival.
	UnsupportedConstruct Kind = iota
	// InferenceFailure: a node never left the empty type set.
	InferenceFailure
	// TypeConflict: a node needing a single class holds incompatible
	// classes.
	TypeConflict
	// DispatchAmbiguity: method resolution could not settle on one
	// definition.
	DispatchAmbiguity
	// IterationCapExceeded: the driver's propagate/specialize/IFA loop
	// ran max_iterations rounds without reaching a fixed point. Fatal
	// on arrival.
	IterationCapExceeded
)

func (k Kind) String() string {
	switch k {
	case UnsupportedConstruct:
		return "unsupported construct"
	case InferenceFailure:
		return "cannot infer type"
	case TypeConflict:
		return "conflicting types"
	case DispatchAmbiguity:
		return "ambiguous dispatch"
	case IterationCapExceeded:
		return "iteration cap exceeded"
	default:
		return "unknown"
	}
}

// Diagnostic is one collected (span, kind, message) tuple.
type Diagnostic struct {
	Span    span.Span
	Kind    Kind
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Span, d.Kind, d.Message)
}

// Bag accumulates diagnostics across an entire compilation. Kinds 1
// and 5 are fatal: once one is added, IsFatal reports true and the
// driver stops the outer loop at the next opportunity. Kinds 2-4 never
// stop analysis on their own.
type Bag struct {
	all   []Diagnostic
	fatal bool
}

func NewBag() *Bag { return &Bag{} }

// Add records a non-fatal diagnostic (kinds 2-4 per spec.md §7).
func (b *Bag) Add(sp span.Span, kind Kind, format string, args ...any) {
	b.all = append(b.all, Diagnostic{Span: sp, Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// Fatal records a diagnostic and marks the bag fatal (kinds 1 and 5).
func (b *Bag) Fatal(sp span.Span, kind Kind, format string, args ...any) {
	b.Add(sp, kind, format, args...)
	b.fatal = true
}

func (b *Bag) IsFatal() bool   { return b.fatal }
func (b *Bag) Empty() bool     { return len(b.all) == 0 }
func (b *Bag) Count() int      { return len(b.all) }
func (b *Bag) All() []Diagnostic { return b.all }

// Render writes every diagnostic to w, one per line, colorized when w
// is a terminal (mirroring the teacher's termIsTTY detection:
// isatty.IsTerminal || isatty.IsCygwinTerminal, overridable by NO_COLOR).
func (b *Bag) Render(w *os.File) {
	color := shouldColor(w)
	for _, d := range b.all {
		if color {
			fmt.Fprintf(w, "\x1b[%dm%s\x1b[0m: %s: %s\n", colorCode(d.Kind), d.Span, d.Kind, d.Message)
		} else {
			fmt.Fprintf(w, "%s: %s: %s\n", d.Span, d.Kind, d.Message)
		}
	}
}

func shouldColor(w *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	fd := w.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorCode(k Kind) int {
	switch k {
	case UnsupportedConstruct, IterationCapExceeded:
		return 31 // red: fatal
	case TypeConflict, InferenceFailure:
		return 33 // yellow
	default:
		return 36 // cyan
	}
}
