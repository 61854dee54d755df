package ast

import "github.com/ldpl-lang/ldplc/internal/lexer"

// StoreStatement is `STORE e IN v`.
type StoreStatement struct {
	Token lexer.Token
	Value Expression
	Into  *VariableRef
}

func (s *StoreStatement) statementNode()     {}
func (s *StoreStatement) Pos() lexer.Position { return s.Token.Pos }

// StoreQuoteStatement is a multiline `STORE QUOTE … END QUOTE` literal
// store. Text is the literal body with one leading newline already
// stripped (a parser artifact, spec.md §4.3).
type StoreQuoteStatement struct {
	Token lexer.Token
	Text  string
	Into  *VariableRef
}

func (s *StoreQuoteStatement) statementNode()     {}
func (s *StoreQuoteStatement) Pos() lexer.Position { return s.Token.Pos }

// IfStatement covers IF/ELSE IF/ELSE/END IF. ElseIfs are evaluated in
// order; Else is nil when no ELSE branch is present.
type IfStatement struct {
	Token     lexer.Token
	Cond      Expression
	Then      []Statement
	ElseIfs   []ElseIfBranch
	Else      []Statement
}

type ElseIfBranch struct {
	Cond Expression
	Body []Statement
}

func (s *IfStatement) statementNode()     {}
func (s *IfStatement) Pos() lexer.Position { return s.Token.Pos }

// WhileStatement is `WHILE cond DO … REPEAT`.
type WhileStatement struct {
	Token lexer.Token
	Cond  Expression
	Body  []Statement
}

func (s *WhileStatement) statementNode()     {}
func (s *WhileStatement) Pos() lexer.Position { return s.Token.Pos }

// ForStatement is `FOR v FROM a TO b STEP s DO … REPEAT`. Step is nil
// when STEP was omitted, in which case the emitter uses a step of 1.
type ForStatement struct {
	Token    lexer.Token
	Var      *VariableRef
	From     Expression
	To       Expression
	Step     Expression
	Body     []Statement
}

func (s *ForStatement) statementNode()     {}
func (s *ForStatement) Pos() lexer.Position { return s.Token.Pos }

// ForEachStatement is `FOR EACH v IN c DO … REPEAT`. For a map
// collection the loop variable is bound to the value half of each
// (key, value) pair (spec.md §4.3, §8).
type ForEachStatement struct {
	Token      lexer.Token
	Var        *VariableRef
	Collection Expression
	Body       []Statement
}

func (s *ForEachStatement) statementNode()     {}
func (s *ForEachStatement) Pos() lexer.Position { return s.Token.Pos }

// BreakStatement / ContinueStatement / ReturnStatement / ExitStatement
// are simple zero-argument control statements; their validity (inside a
// loop / inside a sub-procedure) is checked during lowering.
type BreakStatement struct{ Token lexer.Token }

func (s *BreakStatement) statementNode()     {}
func (s *BreakStatement) Pos() lexer.Position { return s.Token.Pos }

type ContinueStatement struct{ Token lexer.Token }

func (s *ContinueStatement) statementNode()     {}
func (s *ContinueStatement) Pos() lexer.Position { return s.Token.Pos }

type ReturnStatement struct {
	Token lexer.Token
	Value Expression // nil for a bare RETURN
}

func (s *ReturnStatement) statementNode()     {}
func (s *ReturnStatement) Pos() lexer.Position { return s.Token.Pos }

type ExitStatement struct{ Token lexer.Token }

func (s *ExitStatement) statementNode()     {}
func (s *ExitStatement) Pos() lexer.Position { return s.Token.Pos }

// GotoStatement / LabelStatement implement unstructured control flow.
// Labels are mangled to `label_<MANGLED>` and always emitted at column
// zero regardless of indentation (spec.md §4.3).
type GotoStatement struct {
	Token lexer.Token
	Label string
}

func (s *GotoStatement) statementNode()     {}
func (s *GotoStatement) Pos() lexer.Position { return s.Token.Pos }

type LabelStatement struct {
	Token lexer.Token
	Name  string
}

func (s *LabelStatement) statementNode()     {}
func (s *LabelStatement) Pos() lexer.Position { return s.Token.Pos }

// WaitStatement is `WAIT n MILLISECONDS`.
type WaitStatement struct {
	Token       lexer.Token
	Milliseconds Expression
}

func (s *WaitStatement) statementNode()     {}
func (s *WaitStatement) Pos() lexer.Position { return s.Token.Pos }

// CallStatement is `CALL f WITH a1 … an`. External marks a call to a
// name declared EXTERNAL, which uses extern mangling (spec.md §4.3).
type CallStatement struct {
	Token    lexer.Token
	Name     string
	Args     []Expression
	External bool
}

func (s *CallStatement) statementNode()     {}
func (s *CallStatement) Pos() lexer.Position { return s.Token.Pos }

// ---- Arithmetic ----

// SolveStatement is `IN v SOLVE expr`.
type SolveStatement struct {
	Token lexer.Token
	Into  *VariableRef
	Expr  Expression
}

func (s *SolveStatement) statementNode()     {}
func (s *SolveStatement) Pos() lexer.Position { return s.Token.Pos }

// MathCallStatement is `GET FLOOR OF a IN v` or `GET MODULO OF a AND b
// IN v`; both reduce to a single runtime call keyed by Op.
type MathCallOp int

const (
	OpFloor MathCallOp = iota
	OpModulo
)

type MathCallStatement struct {
	Token lexer.Token
	Op    MathCallOp
	A     Expression
	B     Expression // nil for unary ops (FLOOR)
	Into  *VariableRef
}

func (s *MathCallStatement) statementNode()     {}
func (s *MathCallStatement) Pos() lexer.Position { return s.Token.Pos }

// ---- Text ----

// JoinStatement is `IN v JOIN a AND b` (binary) or the list-flattening
// `JOIN list IN v` (unary, Sep optional).
type JoinStatement struct {
	Token lexer.Token
	Parts []Expression
	Sep   Expression
	Into  *VariableRef
}

func (s *JoinStatement) statementNode()     {}
func (s *JoinStatement) Pos() lexer.Position { return s.Token.Pos }

// ReplaceStatement is `REPLACE a WITH b IN v IN out`.
type ReplaceStatement struct {
	Token lexer.Token
	Old   Expression
	New   Expression
	In    Expression
	Into  *VariableRef
}

func (s *ReplaceStatement) statementNode()     {}
func (s *ReplaceStatement) Pos() lexer.Position { return s.Token.Pos }

// SplitStatement is `SPLIT s BY sep IN listVar`.
type SplitStatement struct {
	Token lexer.Token
	Text  Expression
	Sep   Expression
	Into  *VariableRef
}

func (s *SplitStatement) statementNode()     {}
func (s *SplitStatement) Pos() lexer.Position { return s.Token.Pos }

// GetCharacterAtStatement is `GET CHARACTER AT i FROM s IN v`.
type GetCharacterAtStatement struct {
	Token lexer.Token
	Index Expression
	Text  Expression
	Into  *VariableRef
}

func (s *GetCharacterAtStatement) statementNode()     {}
func (s *GetCharacterAtStatement) Pos() lexer.Position { return s.Token.Pos }

// GetAsciiCharacterStatement is `GET ASCII CHARACTER n IN v`.
type GetAsciiCharacterStatement struct {
	Token lexer.Token
	Code  Expression
	Into  *VariableRef
}

func (s *GetAsciiCharacterStatement) statementNode()     {}
func (s *GetAsciiCharacterStatement) Pos() lexer.Position { return s.Token.Pos }

// GetCharacterCodeOfStatement is `GET CHARACTER CODE OF c IN v`.
type GetCharacterCodeOfStatement struct {
	Token lexer.Token
	Char  Expression
	Into  *VariableRef
}

func (s *GetCharacterCodeOfStatement) statementNode()     {}
func (s *GetCharacterCodeOfStatement) Pos() lexer.Position { return s.Token.Pos }

// GetIndexOfStatement is `GET INDEX OF needle FROM haystack IN v`.
type GetIndexOfStatement struct {
	Token   lexer.Token
	Needle  Expression
	Haystack Expression
	Into    *VariableRef
}

func (s *GetIndexOfStatement) statementNode()     {}
func (s *GetIndexOfStatement) Pos() lexer.Position { return s.Token.Pos }

// CountStatement is `COUNT c FROM s IN v`. Lowering emits the same
// ldpl_count runtime call whatever the operand types are.
type CountStatement struct {
	Token lexer.Token
	Needle Expression
	Source Expression
	Into   *VariableRef
}

func (s *CountStatement) statementNode()     {}
func (s *CountStatement) Pos() lexer.Position { return s.Token.Pos }

// SubstringStatement is `GET SUBSTRING FROM i LENGTH n OF s IN v`.
type SubstringStatement struct {
	Token  lexer.Token
	Start  Expression
	Length Expression
	Text   Expression
	Into   *VariableRef
}

func (s *SubstringStatement) statementNode()     {}
func (s *SubstringStatement) Pos() lexer.Position { return s.Token.Pos }

// TrimStatement is `TRIM s IN v`.
type TrimStatement struct {
	Token lexer.Token
	Text  Expression
	Into  *VariableRef
}

func (s *TrimStatement) statementNode()     {}
func (s *TrimStatement) Pos() lexer.Position { return s.Token.Pos }

// ---- Lists ----

// PushStatement is `PUSH v TO list`.
type PushStatement struct {
	Token lexer.Token
	Value Expression
	List  *VariableRef
}

func (s *PushStatement) statementNode()     {}
func (s *PushStatement) Pos() lexer.Position { return s.Token.Pos }

// DeleteLastElementStatement is `DELETE LAST ELEMENT OF list`.
type DeleteLastElementStatement struct {
	Token lexer.Token
	List  *VariableRef
}

func (s *DeleteLastElementStatement) statementNode()     {}
func (s *DeleteLastElementStatement) Pos() lexer.Position { return s.Token.Pos }

// ---- Maps ----

// GetKeysCountStatement is `GET KEYS COUNT OF m IN v`.
type GetKeysCountStatement struct {
	Token lexer.Token
	Map   Expression
	Into  *VariableRef
}

func (s *GetKeysCountStatement) statementNode()     {}
func (s *GetKeysCountStatement) Pos() lexer.Position { return s.Token.Pos }

// GetKeysStatement is `GET KEYS OF m IN listVar`.
type GetKeysStatement struct {
	Token lexer.Token
	Map   Expression
	Into  *VariableRef
}

func (s *GetKeysStatement) statementNode()     {}
func (s *GetKeysStatement) Pos() lexer.Position { return s.Token.Pos }

// ---- Shared (collections) ----

type ClearStatement struct {
	Token  lexer.Token
	Target *VariableRef
}

func (s *ClearStatement) statementNode()     {}
func (s *ClearStatement) Pos() lexer.Position { return s.Token.Pos }

type CopyStatement struct {
	Token lexer.Token
	Value Expression
	Into  *VariableRef
}

func (s *CopyStatement) statementNode()     {}
func (s *CopyStatement) Pos() lexer.Position { return s.Token.Pos }

type GetLengthOfStatement struct {
	Token lexer.Token
	Value Expression
	Into  *VariableRef
}

func (s *GetLengthOfStatement) statementNode()     {}
func (s *GetLengthOfStatement) Pos() lexer.Position { return s.Token.Pos }

// ---- I/O ----

type DisplayStatement struct {
	Token lexer.Token
	Args  []Expression
}

func (s *DisplayStatement) statementNode()     {}
func (s *DisplayStatement) Pos() lexer.Position { return s.Token.Pos }

type AcceptStatement struct {
	Token lexer.Token
	Into  *VariableRef
}

func (s *AcceptStatement) statementNode()     {}
func (s *AcceptStatement) Pos() lexer.Position { return s.Token.Pos }

type AcceptUntilEofStatement struct {
	Token lexer.Token
	Into  *VariableRef
}

func (s *AcceptUntilEofStatement) statementNode()     {}
func (s *AcceptUntilEofStatement) Pos() lexer.Position { return s.Token.Pos }

type LoadFileStatement struct {
	Token lexer.Token
	Path  Expression
	Into  *VariableRef
}

func (s *LoadFileStatement) statementNode()     {}
func (s *LoadFileStatement) Pos() lexer.Position { return s.Token.Pos }

type WriteStatement struct {
	Token lexer.Token
	Value Expression
	Path  Expression
}

func (s *WriteStatement) statementNode()     {}
func (s *WriteStatement) Pos() lexer.Position { return s.Token.Pos }

type AppendStatement struct {
	Token lexer.Token
	Value Expression
	Path  Expression
}

func (s *AppendStatement) statementNode()     {}
func (s *AppendStatement) Pos() lexer.Position { return s.Token.Pos }

type ExecuteStatement struct {
	Token   lexer.Token
	Command Expression
}

func (s *ExecuteStatement) statementNode()     {}
func (s *ExecuteStatement) Pos() lexer.Position { return s.Token.Pos }

type ExecuteStoreOutputStatement struct {
	Token   lexer.Token
	Command Expression
	Into    *VariableRef
}

func (s *ExecuteStoreOutputStatement) statementNode()     {}
func (s *ExecuteStoreOutputStatement) Pos() lexer.Position { return s.Token.Pos }

type ExecuteStoreExitCodeStatement struct {
	Token   lexer.Token
	Command Expression
	Into    *VariableRef
}

func (s *ExecuteStoreExitCodeStatement) statementNode()     {}
func (s *ExecuteStoreExitCodeStatement) Pos() lexer.Position { return s.Token.Pos }

// ---- User statements ----

// UserStatementCall is a statement line that matched no built-in
// keyword. Skeleton holds the uppercase keyword tokens with "$" marking
// the positions where Args were parsed as expressions, in order
// (spec.md §4.3). A bare word with no colon subscript is ambiguous at
// parse time — it reads identically whether it's a keyword or a
// variable reference — so it is provisionally kept as a keyword in
// Skeleton and also recorded in AmbiguousWords; lowering re-checks each
// one against the symbol table, where declared-variable names resolve
// to "$" argument positions instead.
type UserStatementCall struct {
	Token          lexer.Token
	Skeleton       []string
	Args           []Expression
	AmbiguousWords []UserStatementWord
	Raw            string // original statement text, for error messages
}

// UserStatementWord is one bare-word position in Skeleton that lowering
// must reclassify once declarations are known.
type UserStatementWord struct {
	Index   int    // position within Skeleton
	Literal string // original-case spelling, for variable lookup
}

func (s *UserStatementCall) statementNode()     {}
func (s *UserStatementCall) Pos() lexer.Position { return s.Token.Pos }
