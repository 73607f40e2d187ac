package tick

import (
	"fmt"
	"strings"

	"github.com/ticklang/tick/ascii"
)

// DiagKind classifies a Diagnostic per the error taxonomy: lexical/syntactic
// errors are propagated verbatim from the external lexer/parser
// collaborators, the rest are raised by the analyzer, lowerer or emitter.
type DiagKind int

const (
	KindLexical DiagKind = iota
	KindSyntactic
	KindName
	KindType
	KindSemantic
	KindConstant
	KindFatal
)

func (k DiagKind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindSyntactic:
		return "syntactic"
	case KindName:
		return "name"
	case KindType:
		return "type"
	case KindSemantic:
		return "semantic"
	case KindConstant:
		return "constant"
	case KindFatal:
		return "internal error"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported problem, carrying enough context (kind,
// message, source position) to print a useful compiler message.
type Diagnostic struct {
	Kind    DiagKind
	Message string
	At      Pos
	Hint    string // e.g. "did you mean `foo`?" — empty when none applies
}

func (d Diagnostic) Error() string {
	if d.Hint != "" {
		return fmt.Sprintf("%s: %s (%s)", d.Kind, d.Message, d.Hint)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.At, d.Kind, d.Message)
}

// ColorString renders a Diagnostic for a terminal, coloring the kind by
// severity and the hint (if any) using theme.
func (d Diagnostic) ColorString(theme ascii.Theme) string {
	kindColor := theme.Error
	if d.Kind == KindFatal {
		kindColor = theme.Error
	}
	line := fmt.Sprintf("%s: %s: %s", d.At, ascii.Color(kindColor, "%s", d.Kind), d.Message)
	if d.Hint != "" {
		line += " " + ascii.Color(theme.Hint, "(%s)", d.Hint)
	}
	return line
}

// Diagnostics is the fixed-capacity error buffer described in spec §7: it
// collects every error produced while draining the work queue so a single
// compilation run can report more than one problem, but never grows past
// its configured cap.
type Diagnostics struct {
	cap        int
	items      []Diagnostic
	truncated  bool
	suppressed int
}

func NewDiagnostics(cap int) *Diagnostics {
	if cap <= 0 {
		cap = 64
	}
	return &Diagnostics{cap: cap}
}

func (d *Diagnostics) Add(kind DiagKind, at Pos, format string, args ...any) {
	d.AddHint(kind, at, "", format, args...)
}

func (d *Diagnostics) AddHint(kind DiagKind, at Pos, hint, format string, args ...any) {
	if len(d.items) >= d.cap {
		d.truncated = true
		d.suppressed++
		return
	}
	d.items = append(d.items, Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		At:      at,
		Hint:    hint,
	})
}

func (d *Diagnostics) HasErrors() bool { return len(d.items) > 0 }
func (d *Diagnostics) Items() []Diagnostic { return d.items }
func (d *Diagnostics) Truncated() bool { return d.truncated }

func (d *Diagnostics) Error() string {
	var b strings.Builder
	for i, item := range d.items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(item.String())
	}
	if d.truncated {
		b.WriteString(fmt.Sprintf("\n... (%d more errors suppressed, raise analyzer.max_errors to see them)", d.suppressed))
	}
	return b.String()
}

// ColorError is Error's terminal-friendly counterpart, used by the CLI when
// stderr is a tty.
func (d *Diagnostics) ColorError(theme ascii.Theme) string {
	var b strings.Builder
	for i, item := range d.items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(item.ColorString(theme))
	}
	if d.truncated {
		b.WriteString(ascii.Color(theme.Muted, "\n... (%d more errors suppressed, raise analyzer.max_errors to see them)", d.suppressed))
	}
	return b.String()
}

// fatalf panics with a KindFatal diagnostic. Reserved for the emitter
// invariants in spec §7 ("Fatal invariants"): seeing un-lowered
// optional/slice/error-union nodes, or an unresolved type, at emission
// time is a bug in the analyzer, not a user-facing error.
func fatalf(format string, args ...any) {
	panic(Diagnostic{Kind: KindFatal, Message: fmt.Sprintf(format, args...)})
}
