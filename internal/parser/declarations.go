package parser

import (
	"strings"

	"github.com/ldpl-lang/ldplc/internal/ast"
	"github.com/ldpl-lang/ldplc/internal/lexer"
)

// parseDataSection parses `DATA:` followed by zero or more
// `[EXTERNAL] name IS type` declarations, one per line.
func (p *Parser) parseDataSection() (*ast.DataSection, error) {
	tok := p.cur()
	p.advance() // DATA
	if p.cur().Type != lexer.COLON {
		return nil, p.errorf(p.cur(), "expected ':' after DATA")
	}
	p.advance()
	p.skipNewlines()

	section := &ast.DataSection{Token: tok}
	for p.looksLikeDataDecl() {
		decl, err := p.parseDataDecl()
		if err != nil {
			return nil, err
		}
		section.Decls = append(section.Decls, decl)
		p.skipNewlines()
	}
	return section, nil
}

// looksLikeDataDecl reports whether the current line starts a data
// declaration rather than the PROCEDURE: section or a header directive.
func (p *Parser) looksLikeDataDecl() bool {
	if p.atWord("PROCEDURE") || p.atEOF() {
		return false
	}
	return p.cur().Type == lexer.WORD
}

func (p *Parser) parseDataDecl() (*ast.DataDecl, error) {
	tok := p.cur()
	external := false
	if p.atWord("EXTERNAL") {
		external = true
		p.advance()
	}
	if p.cur().Type != lexer.WORD {
		return nil, p.errorf(p.cur(), "expected a variable name in DATA: section")
	}
	name := p.advance().Literal

	if err := p.expectWord("IS"); err != nil {
		return nil, err
	}

	typeName, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}

	return &ast.DataDecl{Token: tok, Name: name, TypeName: typeName, External: external}, nil
}

// parseTypeName consumes a (possibly multi-word) type name: NUMBER,
// TEXT, NUMBER LIST, TEXT LIST, NUMBER MAP/VECTOR, TEXT MAP/VECTOR.
func (p *Parser) parseTypeName() (string, error) {
	if p.cur().Type != lexer.WORD {
		return "", p.errorf(p.cur(), "expected a type name")
	}
	first := p.advance().Literal
	words := []string{first}
	for p.cur().Type == lexer.WORD {
		switch strings.ToUpper(p.cur().Literal) {
		case "LIST", "MAP", "VECTOR":
			words = append(words, p.advance().Literal)
		default:
			return strings.Join(words, " "), nil
		}
	}
	return strings.Join(words, " "), nil
}

// parseSubProcedureDecl parses:
//
//	SUB-PROCEDURE name
//	[PARAMETERS: name IS type ...]
//	[LOCAL DATA: ...]
//	PROCEDURE:
//	  ...body...
//	END SUB-PROCEDURE
func (p *Parser) parseSubProcedureDecl() (*ast.SubProcedureDecl, error) {
	tok := p.cur()
	if err := p.expectWord("SUB-PROCEDURE"); err != nil {
		return nil, err
	}
	if p.cur().Type != lexer.WORD {
		return nil, p.errorf(p.cur(), "expected sub-procedure name")
	}
	name := p.advance().Literal
	p.skipNewlines()

	decl := &ast.SubProcedureDecl{Token: tok, Name: name}

	if p.atWord("PARAMETERS") {
		p.advance()
		if p.cur().Type == lexer.COLON {
			p.advance()
		}
		p.skipNewlines()
		for p.looksLikeDataDecl() && !p.atWord("LOCAL") {
			d, err := p.parseDataDecl()
			if err != nil {
				return nil, err
			}
			decl.Params = append(decl.Params, ast.Param{Name: d.Name, TypeName: d.TypeName})
			p.skipNewlines()
		}
	}

	if p.atWord("LOCAL") {
		p.advance()
		if err := p.expectWord("DATA"); err != nil {
			return nil, err
		}
		if p.cur().Type != lexer.COLON {
			return nil, p.errorf(p.cur(), "expected ':' after LOCAL DATA")
		}
		p.advance()
		p.skipNewlines()
		for p.looksLikeDataDecl() {
			d, err := p.parseDataDecl()
			if err != nil {
				return nil, err
			}
			decl.LocalData = append(decl.LocalData, d)
			p.skipNewlines()
		}
	}

	if err := p.expectWord("PROCEDURE"); err != nil {
		return nil, err
	}
	if p.cur().Type != lexer.COLON {
		return nil, p.errorf(p.cur(), "expected ':' after PROCEDURE")
	}
	p.advance()
	p.skipNewlines()

	body, err := p.parseStatementsUntil(func() bool { return p.atPhrase("END", "SUB-PROCEDURE") })
	if err != nil {
		return nil, err
	}
	decl.Body = body

	if err := p.expectPhrase("END", "SUB-PROCEDURE"); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseCreateStatementDecl parses:
//
//	CREATE STATEMENT "say $ to $" EXECUTING say2
func (p *Parser) parseCreateStatementDecl() (*ast.CreateStatementDecl, error) {
	tok := p.cur()
	if err := p.expectPhrase("CREATE", "STATEMENT"); err != nil {
		return nil, err
	}
	if p.cur().Type != lexer.STRING {
		return nil, p.errorf(p.cur(), "expected a quoted statement pattern")
	}
	pattern := p.advance().Literal

	if err := p.expectWord("EXECUTING"); err != nil {
		return nil, err
	}
	if p.cur().Type != lexer.WORD {
		return nil, p.errorf(p.cur(), "expected a sub-procedure name")
	}
	target := p.advance().Literal

	return &ast.CreateStatementDecl{
		Token:    tok,
		Pattern:  pattern,
		Skeleton: skeletonOf(pattern),
		Target:   target,
	}, nil
}

// skeletonOf normalizes a CREATE STATEMENT pattern into an uppercase
// keyword skeleton, preserving "$" placeholders verbatim (spec.md §4.3).
func skeletonOf(pattern string) []string {
	fields := strings.Fields(pattern)
	out := make([]string, len(fields))
	for i, f := range fields {
		if f == "$" {
			out[i] = "$"
		} else {
			out[i] = strings.ToUpper(f)
		}
	}
	return out
}
