package parser

import (
	"strings"

	"github.com/ldpl-lang/ldplc/internal/ast"
	"github.com/ldpl-lang/ldplc/internal/lexer"
)

// parseStatementsUntil parses statements until stop() reports true (or
// EOF, which the caller treats as an error if a closing keyword was
// expected). stop may be nil to mean "parse to EOF" (the top-level
// PROCEDURE: body).
func (p *Parser) parseStatementsUntil(stop func() bool) ([]ast.Statement, error) {
	var stmts []ast.Statement
	for {
		p.skipNewlines()
		if p.atEOF() {
			return stmts, nil
		}
		if stop != nil && stop() {
			return stmts, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

// parseStatement dispatches on the leading keyword(s) of the current
// line. Statement shapes that share a keyword prefix (almost everything
// starting with GET, or IN) are disambiguated by a dedicated helper.
func (p *Parser) parseStatement() (ast.Statement, error) {
	switch {
	case p.atPhrase("STORE", "QUOTE"):
		return p.parseStoreQuote()
	case p.atWord("STORE"):
		return p.parseStore()
	case p.atWord("IF"):
		return p.parseIf()
	case p.atWord("WHILE"):
		return p.parseWhile()
	case p.atPhrase("FOR", "EACH"):
		return p.parseForEach()
	case p.atWord("FOR"):
		return p.parseFor()
	case p.atWord("BREAK"):
		tok := p.advance()
		return &ast.BreakStatement{Token: tok}, nil
	case p.atWord("CONTINUE"):
		tok := p.advance()
		return &ast.ContinueStatement{Token: tok}, nil
	case p.atWord("RETURN"):
		return p.parseReturn()
	case p.atWord("GOTO"):
		return p.parseGoto()
	case p.atWord("LABEL"):
		return p.parseLabel()
	case p.atWord("EXIT"):
		tok := p.advance()
		return &ast.ExitStatement{Token: tok}, nil
	case p.atWord("WAIT"):
		return p.parseWait()
	case p.atPhrase("CALL", "EXTERNAL"):
		return p.parseCall(true)
	case p.atWord("CALL"):
		return p.parseCall(false)
	case p.atWord("SUB-PROCEDURE"):
		return p.parseSubProcedureDecl()
	case p.atPhrase("CREATE", "STATEMENT"):
		return p.parseCreateStatementDecl()
	case p.atWord("IN"):
		return p.parseInStatement()
	case p.atWord("JOIN"):
		return p.parseJoinUnary()
	case p.atWord("REPLACE"):
		return p.parseReplace()
	case p.atWord("SPLIT"):
		return p.parseSplit()
	case p.atWord("GET"):
		return p.parseGetStatement()
	case p.atWord("COUNT"):
		return p.parseCount()
	case p.atWord("TRIM"):
		return p.parseTrim()
	case p.atWord("PUSH"):
		return p.parsePush()
	case p.atPhrase("DELETE", "LAST", "ELEMENT", "OF"):
		return p.parseDeleteLastElement()
	case p.atWord("CLEAR"):
		return p.parseClear()
	case p.atWord("COPY"):
		return p.parseCopy()
	case p.atWord("DISPLAY"):
		return p.parseDisplay()
	case p.atPhrase("ACCEPT", "UNTIL", "EOF"):
		return p.parseAcceptUntilEof()
	case p.atWord("ACCEPT"):
		return p.parseAccept()
	case p.atPhrase("LOAD", "FILE"):
		return p.parseLoadFile()
	case p.atWord("WRITE"):
		return p.parseWrite()
	case p.atWord("APPEND"):
		return p.parseAppend()
	case p.atWord("EXECUTE"):
		return p.parseExecute()
	default:
		return p.parseUserStatement()
	}
}

func (p *Parser) endOfLine() error {
	if p.cur().Type != lexer.NEWLINE && !p.atEOF() {
		return p.errorf(p.cur(), "unexpected token %q at end of statement", p.cur().Literal)
	}
	return nil
}

func (p *Parser) parseStore() (ast.Statement, error) {
	tok := p.advance() // STORE
	value, err := p.parseTestOrPrimary()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.StoreStatement{Token: tok, Value: value, Into: into}, p.endOfLine()
}

// parseTestOrPrimary parses whatever can legally sit on the right-hand
// side of STORE: a plain value, or a full test expression when the
// statement is storing a comparison or AND/OR result (spec.md §4.2
// allows booleans to flow through STORE like any other Number).
func (p *Parser) parseTestOrPrimary() (ast.Expression, error) {
	save := p.pos
	if expr, err := p.parseTestExpr(); err == nil {
		return expr, nil
	}
	p.pos = save
	return p.parsePrimaryExpr()
}

// parseStoreQuote parses `STORE QUOTE <raw lines> END QUOTE IN v`. The
// body is taken verbatim from the source between the two keywords, with
// the parser's own leading newline stripped (spec.md §4.3).
func (p *Parser) parseStoreQuote() (ast.Statement, error) {
	tok := p.advance() // STORE
	p.advance()         // QUOTE

	// The quoted body is raw source text, not a token stream: scan
	// directly by source offset rather than re-lexing. Find "END QUOTE"
	// on its own line starting the offset right after QUOTE's token.
	startOffset := p.cur().Pos.Offset
	for !(p.atPhrase("END", "QUOTE")) {
		if p.atEOF() {
			return nil, p.errorf(p.cur(), "unterminated STORE QUOTE block")
		}
		p.advance()
	}
	endOffset := p.cur().Pos.Offset
	text := p.source[startOffset:endOffset]
	text = strings.TrimPrefix(text, "\n")
	text = strings.TrimSuffix(text, "\n")

	p.advance() // END
	p.advance() // QUOTE

	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.StoreQuoteStatement{Token: tok, Text: text, Into: into}, p.endOfLine()
}

func (p *Parser) parseIf() (ast.Statement, error) {
	tok := p.advance() // IF
	cond, err := p.parseTestExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("THEN"); err != nil {
		return nil, err
	}
	p.skipNewlines()

	stmt := &ast.IfStatement{Token: tok, Cond: cond}
	stop := func() bool {
		return p.atWord("ELSE") || p.atPhrase("END", "IF")
	}
	then, err := p.parseStatementsUntil(stop)
	if err != nil {
		return nil, err
	}
	stmt.Then = then

	for p.atWord("ELSE") && p.peekAt(1).Is("IF") {
		p.advance() // ELSE
		p.advance() // IF
		c, err := p.parseTestExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectWord("THEN"); err != nil {
			return nil, err
		}
		p.skipNewlines()
		body, err := p.parseStatementsUntil(stop)
		if err != nil {
			return nil, err
		}
		stmt.ElseIfs = append(stmt.ElseIfs, ast.ElseIfBranch{Cond: c, Body: body})
	}

	if p.atWord("ELSE") {
		p.advance()
		p.skipNewlines()
		elseBody, err := p.parseStatementsUntil(func() bool { return p.atPhrase("END", "IF") })
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBody
	}

	if err := p.expectPhrase("END", "IF"); err != nil {
		return nil, err
	}
	return stmt, p.endOfLine()
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	tok := p.advance()
	cond, err := p.parseTestExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("DO"); err != nil {
		return nil, err
	}
	p.skipNewlines()
	body, err := p.parseStatementsUntil(func() bool { return p.atWord("REPEAT") })
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("REPEAT"); err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Token: tok, Cond: cond, Body: body}, p.endOfLine()
}

func (p *Parser) parseFor() (ast.Statement, error) {
	tok := p.advance() // FOR
	v, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("FROM"); err != nil {
		return nil, err
	}
	from, err := p.parseMathExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("TO"); err != nil {
		return nil, err
	}
	to, err := p.parseMathExpr()
	if err != nil {
		return nil, err
	}
	var step ast.Expression
	if p.atWord("STEP") {
		p.advance()
		step, err = p.parseMathExpr()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectBlockOpener(); err != nil {
		return nil, err
	}
	p.skipNewlines()
	body, err := p.parseStatementsUntil(func() bool { return p.atWord("REPEAT") })
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("REPEAT"); err != nil {
		return nil, err
	}
	return &ast.ForStatement{Token: tok, Var: v, From: from, To: to, Step: step, Body: body}, p.endOfLine()
}

// expectBlockOpener consumes either DO or REPEAT as the opener for a
// FOR/FOR EACH loop body, both of which the language allows.
func (p *Parser) expectBlockOpener() error {
	if p.atWord("DO") || p.atWord("REPEAT") {
		p.advance()
		return nil
	}
	return p.errorf(p.cur(), "expected DO or REPEAT, got %q", p.cur().Literal)
}

func (p *Parser) parseForEach() (ast.Statement, error) {
	tok := p.advance() // FOR
	p.advance()         // EACH
	v, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	coll, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectBlockOpener(); err != nil {
		return nil, err
	}
	p.skipNewlines()
	body, err := p.parseStatementsUntil(func() bool { return p.atWord("REPEAT") })
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("REPEAT"); err != nil {
		return nil, err
	}
	return &ast.ForEachStatement{Token: tok, Var: v, Collection: coll, Body: body}, p.endOfLine()
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	tok := p.advance()
	if p.cur().Type == lexer.NEWLINE || p.atEOF() {
		return &ast.ReturnStatement{Token: tok}, nil
	}
	v, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{Token: tok, Value: v}, p.endOfLine()
}

func (p *Parser) parseGoto() (ast.Statement, error) {
	tok := p.advance()
	if p.cur().Type != lexer.WORD {
		return nil, p.errorf(p.cur(), "expected a label name after GOTO")
	}
	label := p.advance().Literal
	return &ast.GotoStatement{Token: tok, Label: label}, p.endOfLine()
}

func (p *Parser) parseLabel() (ast.Statement, error) {
	tok := p.advance()
	if p.cur().Type != lexer.WORD {
		return nil, p.errorf(p.cur(), "expected a label name")
	}
	name := p.advance().Literal
	return &ast.LabelStatement{Token: tok, Name: name}, p.endOfLine()
}

func (p *Parser) parseWait() (ast.Statement, error) {
	tok := p.advance()
	ms, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("MILLISECONDS"); err != nil {
		return nil, err
	}
	return &ast.WaitStatement{Token: tok, Milliseconds: ms}, p.endOfLine()
}

func (p *Parser) parseCall(external bool) (ast.Statement, error) {
	tok := p.advance() // CALL
	if external {
		p.advance() // EXTERNAL
	}
	if p.cur().Type != lexer.WORD {
		return nil, p.errorf(p.cur(), "expected a sub-procedure name after CALL")
	}
	name := p.advance().Literal

	stmt := &ast.CallStatement{Token: tok, Name: name, External: external}
	if p.atWord("WITH") {
		p.advance()
		args, err := p.parseAndSeparatedArgs()
		if err != nil {
			return nil, err
		}
		stmt.Args = args
	}
	return stmt, p.endOfLine()
}

// parseAndSeparatedArgs parses a list of expressions separated by the
// keyword AND, LDPL's argument separator in CALL/JOIN statements.
func (p *Parser) parseAndSeparatedArgs() ([]ast.Expression, error) {
	var args []ast.Expression
	first, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	args = append(args, first)
	for p.atWord("AND") {
		p.advance()
		next, err := p.parsePrimaryExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, next)
	}
	return args, nil
}

// parseInStatement disambiguates `IN v SOLVE expr` from `IN v JOIN a AND b`.
func (p *Parser) parseInStatement() (ast.Statement, error) {
	tok := p.advance() // IN
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	switch {
	case p.atWord("SOLVE"):
		p.advance()
		expr, err := p.parseMathExpr()
		if err != nil {
			return nil, err
		}
		return &ast.SolveStatement{Token: tok, Into: into, Expr: expr}, p.endOfLine()
	case p.atWord("JOIN"):
		p.advance()
		parts, err := p.parseAndSeparatedArgs()
		if err != nil {
			return nil, err
		}
		return &ast.JoinStatement{Token: tok, Parts: parts, Into: into}, p.endOfLine()
	default:
		return nil, p.errorf(p.cur(), "expected SOLVE or JOIN after IN %s, got %q", into.Name, p.cur().Literal)
	}
}

// parseJoinUnary parses `JOIN list IN v`, which flattens a text-list
// collection with no explicit separator between elements.
func (p *Parser) parseJoinUnary() (ast.Statement, error) {
	tok := p.advance()
	list, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.JoinStatement{Token: tok, Parts: []ast.Expression{list}, Into: into}, p.endOfLine()
}

func (p *Parser) parseReplace() (ast.Statement, error) {
	tok := p.advance()
	old, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("WITH"); err != nil {
		return nil, err
	}
	nw, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	in, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.ReplaceStatement{Token: tok, Old: old, New: nw, In: in, Into: into}, p.endOfLine()
}

func (p *Parser) parseSplit() (ast.Statement, error) {
	tok := p.advance()
	text, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("BY"); err != nil {
		return nil, err
	}
	sep, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.SplitStatement{Token: tok, Text: text, Sep: sep, Into: into}, p.endOfLine()
}

// parseGetStatement dispatches the many `GET ...` statement shapes that
// all start with the same keyword.
func (p *Parser) parseGetStatement() (ast.Statement, error) {
	switch {
	case p.atPhrase("GET", "FLOOR", "OF"):
		return p.parseGetFloor()
	case p.atPhrase("GET", "MODULO", "OF"):
		return p.parseGetModulo()
	case p.atPhrase("GET", "CHARACTER", "AT"):
		return p.parseGetCharacterAt()
	case p.atPhrase("GET", "ASCII", "CHARACTER"):
		return p.parseGetAsciiCharacter()
	case p.atPhrase("GET", "CHARACTER", "CODE", "OF"):
		return p.parseGetCharacterCodeOf()
	case p.atPhrase("GET", "INDEX", "OF"):
		return p.parseGetIndexOf()
	case p.atPhrase("GET", "SUBSTRING", "FROM"):
		return p.parseGetSubstring()
	case p.atPhrase("GET", "KEYS", "COUNT", "OF"):
		return p.parseGetKeysCount()
	case p.atPhrase("GET", "KEYS", "OF"):
		return p.parseGetKeys()
	case p.atPhrase("GET", "LENGTH", "OF"):
		return p.parseGetLengthOf()
	default:
		return p.parseUserStatement()
	}
}

func (p *Parser) parseGetFloor() (ast.Statement, error) {
	tok := p.advance() // GET
	p.advance()         // FLOOR
	p.advance()         // OF
	a, err := p.parseMathExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.MathCallStatement{Token: tok, Op: ast.OpFloor, A: a, Into: into}, p.endOfLine()
}

func (p *Parser) parseGetModulo() (ast.Statement, error) {
	tok := p.advance() // GET
	p.advance()         // MODULO
	p.advance()         // OF
	a, err := p.parseMathExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("AND"); err != nil {
		return nil, err
	}
	b, err := p.parseMathExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.MathCallStatement{Token: tok, Op: ast.OpModulo, A: a, B: b, Into: into}, p.endOfLine()
}

func (p *Parser) parseGetCharacterAt() (ast.Statement, error) {
	tok := p.advance() // GET
	p.advance()         // CHARACTER
	p.advance()         // AT
	idx, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("FROM"); err != nil {
		return nil, err
	}
	text, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.GetCharacterAtStatement{Token: tok, Index: idx, Text: text, Into: into}, p.endOfLine()
}

func (p *Parser) parseGetAsciiCharacter() (ast.Statement, error) {
	tok := p.advance() // GET
	p.advance()         // ASCII
	p.advance()         // CHARACTER
	code, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.GetAsciiCharacterStatement{Token: tok, Code: code, Into: into}, p.endOfLine()
}

func (p *Parser) parseGetCharacterCodeOf() (ast.Statement, error) {
	tok := p.advance() // GET
	p.advance()         // CHARACTER
	p.advance()         // CODE
	p.advance()         // OF
	ch, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.GetCharacterCodeOfStatement{Token: tok, Char: ch, Into: into}, p.endOfLine()
}

func (p *Parser) parseGetIndexOf() (ast.Statement, error) {
	tok := p.advance() // GET
	p.advance()         // INDEX
	p.advance()         // OF
	needle, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("FROM"); err != nil {
		return nil, err
	}
	haystack, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.GetIndexOfStatement{Token: tok, Needle: needle, Haystack: haystack, Into: into}, p.endOfLine()
}

func (p *Parser) parseGetSubstring() (ast.Statement, error) {
	tok := p.advance() // GET
	p.advance()         // SUBSTRING
	p.advance()         // FROM
	start, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("LENGTH"); err != nil {
		return nil, err
	}
	length, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("OF"); err != nil {
		return nil, err
	}
	text, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.SubstringStatement{Token: tok, Start: start, Length: length, Text: text, Into: into}, p.endOfLine()
}

func (p *Parser) parseGetKeysCount() (ast.Statement, error) {
	tok := p.advance() // GET
	p.advance()         // KEYS
	p.advance()         // COUNT
	p.advance()         // OF
	m, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.GetKeysCountStatement{Token: tok, Map: m, Into: into}, p.endOfLine()
}

func (p *Parser) parseGetKeys() (ast.Statement, error) {
	tok := p.advance() // GET
	p.advance()         // KEYS
	p.advance()         // OF
	m, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.GetKeysStatement{Token: tok, Map: m, Into: into}, p.endOfLine()
}

func (p *Parser) parseGetLengthOf() (ast.Statement, error) {
	tok := p.advance() // GET
	p.advance()         // LENGTH
	p.advance()         // OF
	v, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.GetLengthOfStatement{Token: tok, Value: v, Into: into}, p.endOfLine()
}

func (p *Parser) parseCount() (ast.Statement, error) {
	tok := p.advance()
	needle, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("FROM"); err != nil {
		return nil, err
	}
	src, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.CountStatement{Token: tok, Needle: needle, Source: src, Into: into}, p.endOfLine()
}

func (p *Parser) parseTrim() (ast.Statement, error) {
	tok := p.advance()
	text, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.TrimStatement{Token: tok, Text: text, Into: into}, p.endOfLine()
}

func (p *Parser) parsePush() (ast.Statement, error) {
	tok := p.advance()
	v, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("TO"); err != nil {
		return nil, err
	}
	list, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.PushStatement{Token: tok, Value: v, List: list}, p.endOfLine()
}

func (p *Parser) parseDeleteLastElement() (ast.Statement, error) {
	tok := p.advance() // DELETE
	p.advance()         // LAST
	p.advance()         // ELEMENT
	p.advance()         // OF
	list, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.DeleteLastElementStatement{Token: tok, List: list}, p.endOfLine()
}

func (p *Parser) parseClear() (ast.Statement, error) {
	tok := p.advance()
	v, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.ClearStatement{Token: tok, Target: v}, p.endOfLine()
}

func (p *Parser) parseCopy() (ast.Statement, error) {
	tok := p.advance()
	v, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.CopyStatement{Token: tok, Value: v, Into: into}, p.endOfLine()
}

func (p *Parser) parseDisplay() (ast.Statement, error) {
	tok := p.advance()
	stmt := &ast.DisplayStatement{Token: tok}
	for p.cur().Type != lexer.NEWLINE && !p.atEOF() {
		arg, err := p.parsePrimaryExpr()
		if err != nil {
			return nil, err
		}
		stmt.Args = append(stmt.Args, arg)
	}
	return stmt, nil
}

func (p *Parser) parseAccept() (ast.Statement, error) {
	tok := p.advance()
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.AcceptStatement{Token: tok, Into: into}, p.endOfLine()
}

func (p *Parser) parseAcceptUntilEof() (ast.Statement, error) {
	tok := p.advance() // ACCEPT
	p.advance()         // UNTIL
	p.advance()         // EOF
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.AcceptUntilEofStatement{Token: tok, Into: into}, p.endOfLine()
}

func (p *Parser) parseLoadFile() (ast.Statement, error) {
	tok := p.advance() // LOAD
	p.advance()         // FILE
	path, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("IN"); err != nil {
		return nil, err
	}
	into, err := p.parseVariableRef()
	if err != nil {
		return nil, err
	}
	return &ast.LoadFileStatement{Token: tok, Path: path, Into: into}, p.endOfLine()
}

func (p *Parser) parseWrite() (ast.Statement, error) {
	tok := p.advance()
	v, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("TO"); err != nil {
		return nil, err
	}
	path, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	return &ast.WriteStatement{Token: tok, Value: v, Path: path}, p.endOfLine()
}

func (p *Parser) parseAppend() (ast.Statement, error) {
	tok := p.advance()
	v, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("TO"); err != nil {
		return nil, err
	}
	path, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	return &ast.AppendStatement{Token: tok, Value: v, Path: path}, p.endOfLine()
}

func (p *Parser) parseExecute() (ast.Statement, error) {
	tok := p.advance()
	cmd, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	switch {
	case p.atPhrase("AND", "STORE", "OUTPUT", "IN"):
		p.advance()
		p.advance()
		p.advance()
		p.advance()
		into, err := p.parseVariableRef()
		if err != nil {
			return nil, err
		}
		return &ast.ExecuteStoreOutputStatement{Token: tok, Command: cmd, Into: into}, p.endOfLine()
	case p.atPhrase("AND", "STORE", "EXIT", "CODE", "IN"):
		p.advance()
		p.advance()
		p.advance()
		p.advance()
		p.advance()
		into, err := p.parseVariableRef()
		if err != nil {
			return nil, err
		}
		return &ast.ExecuteStoreExitCodeStatement{Token: tok, Command: cmd, Into: into}, p.endOfLine()
	default:
		return &ast.ExecuteStatement{Token: tok, Command: cmd}, p.endOfLine()
	}
}

// parseUserStatement handles a statement line matching no built-in
// keyword shape. It scans tokens up to the next NEWLINE, treating each
// token that starts a valid literal or colon-subscripted variable
// reference as a definite argument. A bare word with no colon is kept
// as a tentative keyword in the skeleton but also recorded in
// ambiguousWords, since only lowering (with the symbol table populated)
// can tell a keyword from a bare declared-variable argument (spec.md
// §4.3). The resulting skeleton is resolved against user_statements
// during lowering, not here.
func (p *Parser) parseUserStatement() (ast.Statement, error) {
	tok := p.cur()
	var skeleton []string
	var args []ast.Expression
	var rawWords []string
	var ambiguousWords []ast.UserStatementWord

	for p.cur().Type != lexer.NEWLINE && !p.atEOF() {
		cur := p.cur()
		switch cur.Type {
		case lexer.NUMBER, lexer.STRING:
			arg, err := p.parsePrimaryExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			skeleton = append(skeleton, "$")
			rawWords = append(rawWords, cur.Literal)
		case lexer.WORD:
			if cur.Is("CRLF") || cur.Is("LF") {
				arg, err := p.parsePrimaryExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				skeleton = append(skeleton, "$")
				rawWords = append(rawWords, cur.Literal)
				continue
			}
			// A bare word followed by ':' is a variable lookup, and
			// thus an argument position, not a skeleton keyword.
			if p.peekAt(1).Type == lexer.COLON {
				arg, err := p.parsePrimaryExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				skeleton = append(skeleton, "$")
				rawWords = append(rawWords, cur.Literal)
				continue
			}
			p.advance()
			ambiguousWords = append(ambiguousWords, ast.UserStatementWord{
				Index:   len(skeleton),
				Literal: cur.Literal,
			})
			skeleton = append(skeleton, strings.ToUpper(cur.Literal))
			rawWords = append(rawWords, cur.Literal)
		default:
			return nil, p.errorf(cur, "unrecognized statement %q", cur.Literal)
		}
	}

	if len(skeleton) == 0 {
		return nil, p.errorf(tok, "empty statement")
	}

	return &ast.UserStatementCall{
		Token:          tok,
		Skeleton:       skeleton,
		Args:           args,
		AmbiguousWords: ambiguousWords,
		Raw:            strings.Join(rawWords, " "),
	}, nil
}
