package parser

import (
	"strconv"

	"github.com/ldpl-lang/ldplc/internal/ast"
	"github.com/ldpl-lang/ldplc/internal/lexer"
)

// parsePrimaryExpr parses a literal, a linefeed keyword, or a variable
// reference with its `:`-separated subscript chain (spec.md §4.1).
func (p *Parser) parsePrimaryExpr() (ast.Expression, error) {
	tok := p.cur()

	if (tok.Type == lexer.PLUS || tok.Type == lexer.MINUS) && p.isAdjacentNumber() {
		return p.parseSignedNumber()
	}

	switch tok.Type {
	case lexer.NUMBER:
		return p.parseUnsignedNumber()
	case lexer.STRING:
		p.advance()
		return &ast.TextLiteral{Token: tok, Value: tok.Literal}, nil
	case lexer.WORD:
		if tok.Is("CRLF") || tok.Is("LF") {
			p.advance()
			return &ast.LinefeedLiteral{Token: tok}, nil
		}
		return p.parseVariableRef()
	default:
		return nil, p.errorf(tok, "expected an expression, got %q", tok.Literal)
	}
}

// isAdjacentNumber reports whether a sign token is immediately followed
// (no intervening whitespace) by a NUMBER token, meaning the two
// together form one signed numeric literal rather than a sign token
// plus a separate operand (spec.md §4.1's optional leading sign).
func (p *Parser) isAdjacentNumber() bool {
	sign := p.cur()
	next := p.peekAt(1)
	if next.Type != lexer.NUMBER {
		return false
	}
	return next.Pos.Line == sign.Pos.Line && next.Pos.Column == sign.Pos.Column+len(sign.Literal)
}

func (p *Parser) parseSignedNumber() (ast.Expression, error) {
	sign := p.advance()
	numTok := p.advance()
	text := sign.Literal + numTok.Literal
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf(numTok, "invalid number literal %q", text)
	}
	return &ast.NumberLiteral{Token: sign, Value: v}, nil
}

func (p *Parser) parseUnsignedNumber() (ast.Expression, error) {
	tok := p.advance()
	v, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		return nil, p.errorf(tok, "invalid number literal %q", tok.Literal)
	}
	return &ast.NumberLiteral{Token: tok, Value: v}, nil
}

// parseVariableRef parses an identifier and its optional `:`-separated
// subscript chain; each subscript is itself a full expression,
// permitting arbitrary nesting (spec.md §4.1).
func (p *Parser) parseVariableRef() (*ast.VariableRef, error) {
	tok := p.cur()
	if tok.Type != lexer.WORD {
		return nil, p.errorf(tok, "expected a variable name, got %q", tok.Literal)
	}
	p.advance()
	ref := &ast.VariableRef{Token: tok, Name: tok.Literal}

	for p.cur().Type == lexer.COLON {
		p.advance()
		sub, err := p.parseSubscriptExpr()
		if err != nil {
			return nil, err
		}
		ref.Subscripts = append(ref.Subscripts, sub)
	}
	return ref, nil
}

// parseSubscriptExpr parses one subscript: a number, a text literal, or
// a bare variable name (without its own further subscripting beyond
// what the `:` chain already threads through the caller).
func (p *Parser) parseSubscriptExpr() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.NUMBER:
		return p.parseUnsignedNumber()
	case lexer.STRING:
		p.advance()
		return &ast.TextLiteral{Token: tok, Value: tok.Literal}, nil
	case lexer.WORD:
		p.advance()
		return &ast.VariableRef{Token: tok, Name: tok.Literal}, nil
	default:
		return nil, p.errorf(tok, "expected a subscript, got %q", tok.Literal)
	}
}

// parseMathExpr parses a SOLVE expression: `+ -` at the lowest
// precedence, then `* / %`, with parentheses preserved for emission
// (spec.md §4.1).
func (p *Parser) parseMathExpr() (ast.Expression, error) {
	return p.parseMathSum()
}

func (p *Parser) parseMathSum() (ast.Expression, error) {
	left, err := p.parseMathProduct()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == lexer.PLUS || p.cur().Type == lexer.MINUS {
		tok := p.advance()
		right, err := p.parseMathProduct()
		if err != nil {
			return nil, err
		}
		op := ast.Add
		if tok.Type == lexer.MINUS {
			op = ast.Sub
		}
		left = &ast.MathExpression{Token: tok, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMathProduct() (ast.Expression, error) {
	left, err := p.parseMathUnary()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == lexer.ASTERISK || p.cur().Type == lexer.SLASH || p.cur().Type == lexer.PERCENT {
		tok := p.advance()
		right, err := p.parseMathUnary()
		if err != nil {
			return nil, err
		}
		var op ast.MathOp
		switch tok.Type {
		case lexer.ASTERISK:
			op = ast.Mul
		case lexer.SLASH:
			op = ast.Div
		default:
			op = ast.Mod
		}
		left = &ast.MathExpression{Token: tok, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMathUnary() (ast.Expression, error) {
	if p.cur().Type == lexer.LPAREN {
		tok := p.advance()
		inner, err := p.parseMathExpr()
		if err != nil {
			return nil, err
		}
		if p.cur().Type != lexer.RPAREN {
			return nil, p.errorf(p.cur(), "expected ')'")
		}
		p.advance()
		return &ast.ParenExpression{Token: tok, Inner: inner}, nil
	}
	return p.parsePrimaryExpr()
}

// parseTestExpr parses the three-level test-expression precedence:
// atomic comparison, then AND, then OR (spec.md §4.1).
func (p *Parser) parseTestExpr() (ast.Expression, error) {
	return p.parseOrExpr()
}

func (p *Parser) parseOrExpr() (ast.Expression, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.atWord("OR") {
		tok := p.advance()
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpression{Token: tok, Op: ast.LogicalOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAndExpr() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.atWord("AND") {
		tok := p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpression{Token: tok, Op: ast.LogicalAnd, Left: left, Right: right}
	}
	return left, nil
}

// comparisonWords maps the recognized "IS ..." comparison phrase onto a
// Comparison op and the number of trailing words to consume beyond "IS".
var comparisonWords = []struct {
	words []string
	op    ast.Comparison
}{
	{[]string{"EQUAL", "TO"}, ast.Equal},
	{[]string{"NOT", "EQUAL", "TO"}, ast.NotEqual},
	{[]string{"GREATER", "THAN", "OR", "EQUAL", "TO"}, ast.GreaterOrEqual},
	{[]string{"LESS", "THAN", "OR", "EQUAL", "TO"}, ast.LessOrEqual},
	{[]string{"GREATER", "THAN"}, ast.GreaterThan},
	{[]string{"LESS", "THAN"}, ast.LessThan},
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseMathExpr()
	if err != nil {
		return nil, err
	}
	if !p.atWord("IS") {
		return left, nil
	}
	isTok := p.advance()

	for _, c := range comparisonWords {
		matches := true
		for i, w := range c.words {
			if !p.peekAt(i).Is(w) {
				matches = false
				break
			}
		}
		if !matches {
			continue
		}
		for range c.words {
			p.advance()
		}
		right, err := p.parseMathExpr()
		if err != nil {
			return nil, err
		}
		return &ast.CompareExpression{Token: isTok, Op: c.op, Left: left, Right: right}, nil
	}
	return nil, p.errorf(p.cur(), "expected a comparison after IS, got %q", p.cur().Literal)
}
