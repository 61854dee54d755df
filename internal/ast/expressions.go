package ast

import "github.com/ldpl-lang/ldplc/internal/lexer"

// NumberLiteral is a numeric literal, already normalized through a
// double-precision parse (spec.md §4.1).
type NumberLiteral struct {
	Token lexer.Token
	Value float64
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) Pos() lexer.Position  { return n.Token.Pos }

// TextLiteral is a double-quoted string literal; escapes are passed
// through unchanged.
type TextLiteral struct {
	Token lexer.Token
	Value string
}

func (t *TextLiteral) expressionNode()     {}
func (t *TextLiteral) Pos() lexer.Position { return t.Token.Pos }

// LinefeedLiteral is the bare keyword CRLF or LF, lowered to "\n".
type LinefeedLiteral struct {
	Token lexer.Token
}

func (l *LinefeedLiteral) expressionNode()     {}
func (l *LinefeedLiteral) Pos() lexer.Position { return l.Token.Pos }

// VariableRef is an identifier optionally followed by `:`-separated
// subscripts. Subscripts nest arbitrarily and are themselves
// expressions (spec.md §4.1).
type VariableRef struct {
	Token      lexer.Token
	Name       string
	Subscripts []Expression
}

func (v *VariableRef) expressionNode()     {}
func (v *VariableRef) Pos() lexer.Position { return v.Token.Pos }

// ParenExpression preserves explicit parentheses around a math
// sub-expression so the emitter can round-trip them (spec.md §4.1).
type ParenExpression struct {
	Token lexer.Token
	Inner Expression
}

func (p *ParenExpression) expressionNode()     {}
func (p *ParenExpression) Pos() lexer.Position { return p.Token.Pos }

// MathOp is an infix arithmetic operator inside a SOLVE expression.
type MathOp int

const (
	Add MathOp = iota
	Sub
	Mul
	Div
	Mod
)

// MathExpression is a binary arithmetic operation: `+ - * / %`.
type MathExpression struct {
	Token lexer.Token
	Op    MathOp
	Left  Expression
	Right Expression
}

func (m *MathExpression) expressionNode()     {}
func (m *MathExpression) Pos() lexer.Position { return m.Token.Pos }

// Comparison is an atomic test-expression comparison.
type Comparison int

const (
	Equal Comparison = iota
	NotEqual
	GreaterThan
	LessThan
	GreaterOrEqual
	LessOrEqual
)

// CompareExpression is a binary comparison: the lowest precedence level
// of a test expression (spec.md §4.1).
type CompareExpression struct {
	Token lexer.Token
	Op    Comparison
	Left  Expression
	Right Expression
}

func (c *CompareExpression) expressionNode()     {}
func (c *CompareExpression) Pos() lexer.Position { return c.Token.Pos }

// LogicalOp is AND/OR in a test expression.
type LogicalOp int

const (
	LogicalAnd LogicalOp = iota
	LogicalOr
)

// LogicalExpression combines test expressions with AND (binds tighter)
// or OR, per the three-level precedence in spec.md §4.1.
type LogicalExpression struct {
	Token lexer.Token
	Op    LogicalOp
	Left  Expression
	Right Expression
}

func (l *LogicalExpression) expressionNode()     {}
func (l *LogicalExpression) Pos() lexer.Position { return l.Token.Pos }
