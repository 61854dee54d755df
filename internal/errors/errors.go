// Package errors defines the typed error surface returned by the parser
// and lowering engine. Every handler either returns a usable fragment or
// one of these errors; there is no partial result on failure.
package errors

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Kind classifies an Error for callers that want to branch on taxonomy
// (spec.md §7) without string-matching the message.
type Kind int

const (
	// Parse covers grammar-level failures: unexpected token, unterminated
	// literal, unrecognized statement shape.
	Parse Kind = iota
	// Declaration covers duplicate declarations and undeclared-variable
	// lookups.
	Declaration
	// Context covers RETURN outside a sub-procedure, BREAK/CONTINUE
	// outside a loop, and similar structural misuse.
	Context
	// Resolution covers CALL/CREATE STATEMENT/user-statement matching
	// failures: unknown target, no overload, ambiguous match, redefinition.
	Resolution
	// IO covers missing or unreadable include files.
	IO
)

func (k Kind) String() string {
	switch k {
	case Parse:
		return "parse error"
	case Declaration:
		return "declaration error"
	case Context:
		return "context error"
	case Resolution:
		return "resolution error"
	case IO:
		return "I/O error"
	default:
		return "error"
	}
}

// Position is a 1-indexed source location.
type Position struct {
	Line   int
	Column int
}

// Error is the typed, span-carrying error returned by every stage of the
// pipeline. Length is the number of runes the offending span covers; it
// is 0 when a span isn't meaningful (e.g. file-level I/O errors).
type Error struct {
	Kind    Kind
	Message string
	File    string
	Source  string
	Pos     Position
	Length  int
}

// New builds an Error with no source context attached. Callers that have
// the originating source text should set Source via WithSource so Format
// can render a caret.
func New(kind Kind, pos Position, length int, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
		Length:  length,
	}
}

// WithSource attaches source text and a file name for caret rendering and
// returns the same error for chaining at the call site.
func (e *Error) WithSource(file, source string) *Error {
	e.File = file
	e.Source = source
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Format()
}

// Format renders the error with a source line and a caret under the
// offending span, matching the style of the error the original LDPL
// toolchain prints. Column is rune-counted; the caret is aligned using
// display width so tabs and wide glyphs inside the echoed line don't
// throw off the indicator.
func (e *Error) Format() string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d: %s\n", e.Kind, e.File, e.Pos.Line, e.Pos.Column, e.Message)
	} else {
		fmt.Fprintf(&sb, "%s at %d:%d: %s\n", e.Kind, e.Pos.Line, e.Pos.Column, e.Message)
	}

	line := e.sourceLine(e.Pos.Line)
	if line == "" {
		return strings.TrimRight(sb.String(), "\n")
	}

	gutter := fmt.Sprintf("%4d | ", e.Pos.Line)
	sb.WriteString(gutter)
	sb.WriteString(line)
	sb.WriteString("\n")

	runes := []rune(line)
	prefixWidth := 0
	upto := e.Pos.Column - 1
	if upto > len(runes) {
		upto = len(runes)
	}
	if upto > 0 {
		prefixWidth = runewidth.StringWidth(string(runes[:upto]))
	}
	sb.WriteString(strings.Repeat(" ", len(gutter)+prefixWidth))

	caretLen := e.Length
	if caretLen < 1 {
		caretLen = 1
	}
	sb.WriteString(strings.Repeat("^", caretLen))

	return sb.String()
}

func (e *Error) sourceLine(n int) string {
	if e.Source == "" || n < 1 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if n > len(lines) {
		return ""
	}
	return lines[n-1]
}
