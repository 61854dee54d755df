// Package lowering walks an LDPL parse tree and emits C++ source
// fragments, maintaining the symbol tables, indentation, and
// forward-declaration bookkeeping that threading through a whole
// program requires (spec.md §4.3).
package lowering

import (
	"fmt"
	"strings"

	ldplerr "github.com/ldpl-lang/ldplc/internal/errors"
	"github.com/ldpl-lang/ldplc/internal/lexer"
	"github.com/ldpl-lang/ldplc/internal/symbols"
)

// Context is the mutable state threaded through every lowering call for
// one compilation. It is not safe for concurrent use (spec.md §5: the
// indentation counter and temp-variable counter are single-threaded,
// per-compiler-instance state).
type Context struct {
	Symbols *symbols.Table

	Globals  strings.Builder
	Forward  strings.Builder
	Subs     strings.Builder
	Main     strings.Builder

	forwardDeclared map[string]bool

	indent      int
	tempCounter int
	loopDepth   int
	inSub       bool

	out *strings.Builder // current emission target: &Main or &Subs
}

// NewContext builds a lowering context over a fresh symbol table.
func NewContext() *Context {
	ctx := &Context{
		Symbols:         symbols.New(),
		forwardDeclared: make(map[string]bool),
	}
	ctx.out = &ctx.Main
	return ctx
}

func (c *Context) indentPrefix() string {
	return strings.Repeat("    ", c.indent)
}

// emit writes one indented, newline-terminated line to the current
// output target (spec.md §4.3: handlers emit indented fragments).
func (c *Context) emit(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s%s\n", c.indentPrefix(), fmt.Sprintf(format, args...))
}

// emitRaw writes a line with no indentation, used for GOTO labels which
// are always emitted at column zero (spec.md §4.3).
func (c *Context) emitRaw(line string) {
	fmt.Fprintf(c.out, "%s\n", line)
}

func (c *Context) indentIn()  { c.indent++ }
func (c *Context) indentOut() { c.indent-- }

// temp returns a fresh, monotonically increasing temporary name.
func (c *Context) temp() string {
	name := fmt.Sprintf("tmp%d", c.tempCounter)
	c.tempCounter++
	return name
}

// enterSub switches emission to the Subs builder for the duration of a
// sub-procedure body, resetting locals per spec.md §3.
func (c *Context) enterSub() (restore func()) {
	prevOut, prevIndent, prevInSub := c.out, c.indent, c.inSub
	c.out = &c.Subs
	c.indent = 0
	c.inSub = true
	c.Symbols.ClearLocals()
	return func() {
		c.out = prevOut
		c.indent = prevIndent
		c.inSub = prevInSub
	}
}

func (c *Context) enterLoop() (restore func()) {
	c.loopDepth++
	return func() { c.loopDepth-- }
}

func (c *Context) inLoop() bool { return c.loopDepth > 0 }

// declareForward records a forward declaration for a sub-procedure,
// emitted at most once. LowerSubProcedureDecl calls it for each
// definition; the Forward section precedes every body in the assembled
// unit, so a CALL lowered before its target's definition still compiles.
func (c *Context) declareForward(mangledName, signature string) {
	if c.forwardDeclared[mangledName] {
		return
	}
	c.forwardDeclared[mangledName] = true
	fmt.Fprintf(&c.Forward, "%s;\n", signature)
}

// errAt builds a lowering-stage error at a node's source position.
func errAt(kind ldplerr.Kind, pos lexer.Position, format string, args ...interface{}) *ldplerr.Error {
	return ldplerr.New(kind, ldplerr.Position{Line: pos.Line, Column: pos.Column}, 0, format, args...)
}
