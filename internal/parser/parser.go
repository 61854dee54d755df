// Package parser implements a hand-written recursive-descent parser for
// LDPL (spec.md §4.1). Unlike a Pratt parser over single-character
// operators, most of LDPL's grammar is keyword prose: a statement is
// recognized by matching a run of WORD tokens case-insensitively
// against one of ~60 fixed phrase shapes. The parser is case-insensitive
// throughout and newline-delimited: one logical statement normally ends
// at the next NEWLINE, except for the handful of block constructs
// (IF/WHILE/FOR/SUB-PROCEDURE/STORE QUOTE) that explicitly consume
// further lines up to their closing keyword.
package parser

import (
	"unicode/utf8"

	"github.com/ldpl-lang/ldplc/internal/ast"
	ldplerr "github.com/ldpl-lang/ldplc/internal/errors"
	"github.com/ldpl-lang/ldplc/internal/lexer"
)

// Parser holds the token cursor and the accumulated error list. Parsing
// never returns a partial tree on failure (spec.md §4.1): the first
// error aborts Parse.
type Parser struct {
	tokens []lexer.Token
	pos    int
	errors []*ldplerr.Error
	file   string
	source string
}

// New tokenizes src in full and returns a Parser positioned at the
// first token. Buffering the whole stream up front (rather than pulling
// from the lexer lazily) keeps lookahead for multi-word keyword phrases
// simple, and LDPL programs are small enough that this costs nothing
// in practice.
func New(file, src string) *Parser {
	l := lexer.New(src)
	var toks []lexer.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == lexer.EOF {
			break
		}
	}
	return &Parser{tokens: toks, file: file, source: src}
}

func (p *Parser) cur() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) atEOF() bool { return p.cur().Type == lexer.EOF }

// skipNewlines consumes zero or more NEWLINE tokens, used to ignore
// blank lines between statements.
func (p *Parser) skipNewlines() {
	for p.cur().Type == lexer.NEWLINE {
		p.advance()
	}
}

// atWord reports whether the current token is a WORD equal (case
// insensitively) to word.
func (p *Parser) atWord(word string) bool {
	return p.cur().Is(word)
}

// atPhrase reports whether the upcoming tokens spell out each word in
// phrase, in order, on consecutive tokens. Used to recognize multi-word
// keyword sequences such as "GET INDEX OF" without consuming them.
func (p *Parser) atPhrase(phrase ...string) bool {
	off := 0
	for _, word := range phrase {
		tok := p.peekAt(off)
		if !tok.Is(word) {
			return false
		}
		off++
	}
	return true
}

// expectWord consumes the current token if it is word, else records a
// parse error and returns it.
func (p *Parser) expectWord(word string) error {
	if p.atWord(word) {
		p.advance()
		return nil
	}
	return p.errorf(p.cur(), "expected %q, got %q", word, p.cur().Literal)
}

// expectPhrase consumes each word in phrase in order.
func (p *Parser) expectPhrase(phrase ...string) error {
	for _, word := range phrase {
		if err := p.expectWord(word); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) errorf(tok lexer.Token, format string, args ...interface{}) *ldplerr.Error {
	e := ldplerr.New(ldplerr.Parse, ldplerr.Position{Line: tok.Pos.Line, Column: tok.Pos.Column}, utf8.RuneCountInString(tok.Literal), format, args...)
	e.WithSource(p.file, p.source)
	p.errors = append(p.errors, e)
	return e
}

// Errors returns every parse error accumulated. Parse itself returns
// the first one encountered; this is exposed for tooling that wants to
// report more than one at a time.
func (p *Parser) Errors() []*ldplerr.Error {
	return p.errors
}

// Parse parses an entire LDPL source file: header directives, an
// optional DATA: section, and the PROCEDURE: section.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{StartPos: p.cur().Pos}
	p.skipNewlines()

	for p.isHeaderDirective() {
		h, err := p.parseHeaderDirective()
		if err != nil {
			return nil, err
		}
		prog.Headers = append(prog.Headers, h)
		p.skipNewlines()
	}

	if p.atWord("DATA") {
		section, err := p.parseDataSection()
		if err != nil {
			return nil, err
		}
		prog.Data = section
		p.skipNewlines()
	}

	if p.atWord("PROCEDURE") {
		p.advance()
		if p.cur().Type != lexer.COLON {
			return nil, p.errorf(p.cur(), "expected ':' after PROCEDURE")
		}
		p.advance()
		p.skipNewlines()
		stmts, err := p.parseStatementsUntil(nil)
		if err != nil {
			return nil, err
		}
		prog.Procedure = stmts
	}

	p.skipNewlines()
	if !p.atEOF() {
		return nil, p.errorf(p.cur(), "unexpected token %q at top level", p.cur().Literal)
	}

	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return prog, nil
}
