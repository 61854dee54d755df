package parser

import (
	"github.com/ldpl-lang/ldplc/internal/ast"
	"github.com/ldpl-lang/ldplc/internal/lexer"
)

// isHeaderDirective reports whether the current line opens one of the
// header directives that may precede DATA:/PROCEDURE: (spec.md §4.5).
func (p *Parser) isHeaderDirective() bool {
	return p.atWord("INCLUDE") || p.atWord("USING") || p.atWord("EXTENSION") ||
		p.atWord("FLAG") || p.atPhrase("CREATE", "STATEMENT")
}

func (p *Parser) parseHeaderDirective() (ast.HeaderDirective, error) {
	switch {
	case p.atWord("INCLUDE"):
		return p.parseIncludeDirective()
	case p.atWord("USING"):
		return p.parseUsingDirective()
	case p.atWord("EXTENSION"):
		return p.parseExtensionDirective()
	case p.atWord("FLAG"):
		return p.parseFlagDirective()
	case p.atPhrase("CREATE", "STATEMENT"):
		return p.parseCreateStatementDecl()
	default:
		return nil, p.errorf(p.cur(), "unexpected header directive %q", p.cur().Literal)
	}
}

func (p *Parser) parseIncludeDirective() (*ast.IncludeDirective, error) {
	tok := p.cur()
	p.advance()
	path, err := p.expectStringOrWord()
	if err != nil {
		return nil, err
	}
	return &ast.IncludeDirective{Token: tok, Path: path}, nil
}

func (p *Parser) parseUsingDirective() (*ast.UsingDirective, error) {
	tok := p.cur()
	p.advance()
	name, err := p.expectStringOrWord()
	if err != nil {
		return nil, err
	}
	return &ast.UsingDirective{Token: tok, Package: name}, nil
}

func (p *Parser) parseExtensionDirective() (*ast.ExtensionDirective, error) {
	tok := p.cur()
	p.advance()
	path, err := p.expectStringOrWord()
	if err != nil {
		return nil, err
	}
	return &ast.ExtensionDirective{Token: tok, Path: path}, nil
}

func (p *Parser) parseFlagDirective() (*ast.FlagDirective, error) {
	tok := p.cur()
	p.advance()
	flag, err := p.expectStringOrWord()
	if err != nil {
		return nil, err
	}
	return &ast.FlagDirective{Token: tok, Flag: flag}, nil
}

// expectStringOrWord consumes a STRING or WORD token and returns its
// literal; LDPL's header directives accept either a quoted path or a
// bare one.
func (p *Parser) expectStringOrWord() (string, error) {
	tok := p.cur()
	if tok.Type != lexer.STRING && tok.Type != lexer.WORD {
		return "", p.errorf(tok, "expected a path or name, got %q", tok.Literal)
	}
	p.advance()
	return tok.Literal, nil
}
