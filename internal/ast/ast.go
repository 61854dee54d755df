// Package ast defines the parse tree LDPL source is lowered from. Every
// node carries a rule tag implicit in its Go type, a position for error
// reporting, and the fixed set of children its production guarantees
// (spec.md §3: "the grammar guarantees arity").
package ast

import "github.com/ldpl-lang/ldplc/internal/lexer"

// Node is implemented by every tree element.
type Node interface {
	Pos() lexer.Position
}

// Expression is any node that produces a value: a literal, a variable
// reference, a lookup, or a test/math sub-expression.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without producing a
// value, lowered to one or more C++ statements.
type Statement interface {
	Node
	statementNode()
}

// Program is the root of the tree: an ordered sequence of header
// directives, an optional data section, and the procedure section.
type Program struct {
	Headers   []HeaderDirective
	Data      *DataSection
	Procedure []Statement
	StartPos  lexer.Position
}

func (p *Program) Pos() lexer.Position { return p.StartPos }

// HeaderDirective is the umbrella for INCLUDE/USING/EXTENSION/FLAG/
// CREATE STATEMENT, which may appear before DATA:/PROCEDURE: and are
// not emitted inline (spec.md §4.5): the orchestrator handles INCLUDE,
// USING, EXTENSION and FLAG, and LowerProgram registers a header
// CREATE STATEMENT.
type HeaderDirective interface {
	Node
	headerNode()
}
