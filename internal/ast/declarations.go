package ast

import "github.com/ldpl-lang/ldplc/internal/lexer"

// DataDecl is one `name IS type` entry of a DATA:/LOCAL DATA: section.
// External marks a declaration introduced with the EXTERNAL keyword,
// which uses the simplified external-linkage mangling (spec.md §6).
type DataDecl struct {
	Token    lexer.Token
	Name     string
	TypeName string
	External bool
}

func (d *DataDecl) Pos() lexer.Position { return d.Token.Pos }

// DataSection is the top-level DATA: block.
type DataSection struct {
	Token lexer.Token
	Decls []*DataDecl
}

func (d *DataSection) Pos() lexer.Position { return d.Token.Pos }

// Param is one SUB-PROCEDURE parameter.
type Param struct {
	Name     string
	TypeName string
}

// SubProcedureDecl defines a named, parameterized block (spec.md
// Glossary: Sub-procedure). LocalData is the optional LOCAL DATA:
// section nested inside it.
type SubProcedureDecl struct {
	Token     lexer.Token
	Name      string
	Params    []Param
	LocalData []*DataDecl
	Body      []Statement
}

func (s *SubProcedureDecl) statementNode()     {}
func (s *SubProcedureDecl) Pos() lexer.Position { return s.Token.Pos }

// CreateStatementDecl registers a user-statement skeleton for a
// sub-procedure (spec.md §4.3: CREATE STATEMENT "…" EXECUTING f).
// Skeleton is the uppercase keyword sequence with "$" marking argument
// positions, exactly as written in the literal.
type CreateStatementDecl struct {
	Token    lexer.Token
	Pattern  string
	Skeleton []string
	Target   string
}

func (c *CreateStatementDecl) statementNode()     {}
func (c *CreateStatementDecl) headerNode()         {}
func (c *CreateStatementDecl) Pos() lexer.Position { return c.Token.Pos }

// IncludeDirective names another LDPL source file to recursively
// compile and splice in.
type IncludeDirective struct {
	Token lexer.Token
	Path  string
}

func (i *IncludeDirective) headerNode()       {}
func (i *IncludeDirective) Pos() lexer.Position { return i.Token.Pos }

// UsingDirective names a package to resolve against the configured
// package root (spec.md §4.5).
type UsingDirective struct {
	Token   lexer.Token
	Package string
}

func (u *UsingDirective) headerNode()       {}
func (u *UsingDirective) Pos() lexer.Position { return u.Token.Pos }

// ExtensionDirective forwards a build-side C++ source/object file to
// the external collaborator unchanged.
type ExtensionDirective struct {
	Token lexer.Token
	Path  string
}

func (e *ExtensionDirective) headerNode()       {}
func (e *ExtensionDirective) Pos() lexer.Position { return e.Token.Pos }

// FlagDirective forwards a raw compiler flag to the external
// collaborator unchanged.
type FlagDirective struct {
	Token lexer.Token
	Flag  string
}

func (f *FlagDirective) headerNode()       {}
func (f *FlagDirective) Pos() lexer.Position { return f.Token.Pos }
