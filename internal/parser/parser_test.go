package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ldpl-lang/ldplc/internal/ast"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New("test.ldpl", src)
	prog, err := p.Parse()
	require.NoError(t, err)
	require.NotNil(t, prog)
	return prog
}

func TestParseMinimalProgram(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nDISPLAY \"hi\"\n")
	require.Len(t, prog.Procedure, 1)
	disp, ok := prog.Procedure[0].(*ast.DisplayStatement)
	require.True(t, ok)
	require.Len(t, disp.Args, 1)
}

func TestParseDataSection(t *testing.T) {
	prog := parseProgram(t, "DATA:\nx IS NUMBER\nnames IS TEXT LIST\nPROCEDURE:\n")
	require.NotNil(t, prog.Data)
	require.Len(t, prog.Data.Decls, 2)
	require.Equal(t, "x", prog.Data.Decls[0].Name)
	require.Equal(t, "NUMBER", prog.Data.Decls[0].TypeName)
	require.Equal(t, "TEXT LIST", prog.Data.Decls[1].TypeName)
}

func TestParseHeaderDirectives(t *testing.T) {
	prog := parseProgram(t, "INCLUDE \"util.ldpl\"\nEXTENSION \"glue.o\"\nFLAG \"-O2\"\nPROCEDURE:\n")
	require.Len(t, prog.Headers, 3)
	inc, ok := prog.Headers[0].(*ast.IncludeDirective)
	require.True(t, ok)
	require.Equal(t, "util.ldpl", inc.Path)
}

func TestParseStore(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nSTORE 5 IN x\n")
	store, ok := prog.Procedure[0].(*ast.StoreStatement)
	require.True(t, ok)
	require.Equal(t, "x", store.Into.Name)
	lit, ok := store.Value.(*ast.NumberLiteral)
	require.True(t, ok)
	require.Equal(t, 5.0, lit.Value)
}

func TestParseStoreQuote(t *testing.T) {
	src := "PROCEDURE:\nSTORE QUOTE\nline one\nline two\nEND QUOTE IN x\n"
	prog := parseProgram(t, src)
	sq, ok := prog.Procedure[0].(*ast.StoreQuoteStatement)
	require.True(t, ok)
	require.Equal(t, "line one\nline two", sq.Text)
}

func TestParseIfElseIfElse(t *testing.T) {
	src := `PROCEDURE:
IF x IS EQUAL TO 1 THEN
DISPLAY "one"
ELSE IF x IS EQUAL TO 2 THEN
DISPLAY "two"
ELSE
DISPLAY "other"
END IF
`
	prog := parseProgram(t, src)
	ifs, ok := prog.Procedure[0].(*ast.IfStatement)
	require.True(t, ok)
	require.Len(t, ifs.Then, 1)
	require.Len(t, ifs.ElseIfs, 1)
	require.Len(t, ifs.Else, 1)
	cmp, ok := ifs.Cond.(*ast.CompareExpression)
	require.True(t, ok)
	require.Equal(t, ast.Equal, cmp.Op)
}

func TestParseWhile(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nWHILE x IS GREATER THAN 0 DO\nSTORE x - 1 IN x\nREPEAT\n")
	loop, ok := prog.Procedure[0].(*ast.WhileStatement)
	require.True(t, ok)
	require.Len(t, loop.Body, 1)
}

func TestParseForWithStep(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nFOR i FROM 0 TO 10 STEP 2 DO\nDISPLAY i\nREPEAT\n")
	loop, ok := prog.Procedure[0].(*ast.ForStatement)
	require.True(t, ok)
	require.NotNil(t, loop.Step)
}

func TestParseForEach(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nFOR EACH n IN names DO\nDISPLAY n\nREPEAT\n")
	loop, ok := prog.Procedure[0].(*ast.ForEachStatement)
	require.True(t, ok)
	require.Equal(t, "n", loop.Var.Name)
}

func TestParseSubProcedureDecl(t *testing.T) {
	src := `PROCEDURE:
SUB-PROCEDURE greet
PARAMETERS:
name IS TEXT
LOCAL DATA:
greeting IS TEXT
PROCEDURE:
DISPLAY "hi " name
END SUB-PROCEDURE
`
	prog := parseProgram(t, src)
	sub, ok := prog.Procedure[0].(*ast.SubProcedureDecl)
	require.True(t, ok)
	require.Equal(t, "greet", sub.Name)
	require.Len(t, sub.Params, 1)
	require.Len(t, sub.LocalData, 1)
	require.Len(t, sub.Body, 1)
}

func TestParseCallWithArgs(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nCALL greet WITH \"world\" AND 5\n")
	call, ok := prog.Procedure[0].(*ast.CallStatement)
	require.True(t, ok)
	require.Equal(t, "greet", call.Name)
	require.Len(t, call.Args, 2)
	require.False(t, call.External)
}

func TestParseCallExternal(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nCALL EXTERNAL puts WITH \"hi\"\n")
	call, ok := prog.Procedure[0].(*ast.CallStatement)
	require.True(t, ok)
	require.True(t, call.External)
}

func TestParseSolve(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nIN result SOLVE 1 + 2 * 3\n")
	solve, ok := prog.Procedure[0].(*ast.SolveStatement)
	require.True(t, ok)
	require.Equal(t, "result", solve.Into.Name)
	mathExpr, ok := solve.Expr.(*ast.MathExpression)
	require.True(t, ok)
	require.Equal(t, ast.Add, mathExpr.Op)
}

func TestParseJoinBinary(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nIN out JOIN a AND b\n")
	join, ok := prog.Procedure[0].(*ast.JoinStatement)
	require.True(t, ok)
	require.Len(t, join.Parts, 2)
}

func TestParseJoinUnary(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nJOIN names IN out\n")
	join, ok := prog.Procedure[0].(*ast.JoinStatement)
	require.True(t, ok)
	require.Len(t, join.Parts, 1)
}

func TestParseGetFloorAndModulo(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nGET FLOOR OF x IN y\nGET MODULO OF x AND 3 IN y\n")
	floor, ok := prog.Procedure[0].(*ast.MathCallStatement)
	require.True(t, ok)
	require.Equal(t, ast.OpFloor, floor.Op)
	require.Nil(t, floor.B)

	mod, ok := prog.Procedure[1].(*ast.MathCallStatement)
	require.True(t, ok)
	require.Equal(t, ast.OpModulo, mod.Op)
	require.NotNil(t, mod.B)
}

func TestParseGetIndexOf(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nGET INDEX OF \"b\" FROM haystack IN idx\n")
	stmt, ok := prog.Procedure[0].(*ast.GetIndexOfStatement)
	require.True(t, ok)
	require.Equal(t, "idx", stmt.Into.Name)
}

func TestParseGetSubstring(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nGET SUBSTRING FROM 1 LENGTH 3 OF s IN sub\n")
	stmt, ok := prog.Procedure[0].(*ast.SubstringStatement)
	require.True(t, ok)
	require.Equal(t, "sub", stmt.Into.Name)
}

func TestParseGetKeysAndKeysCount(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nGET KEYS OF m IN ks\nGET KEYS COUNT OF m IN n\n")
	keys, ok := prog.Procedure[0].(*ast.GetKeysStatement)
	require.True(t, ok)
	require.Equal(t, "ks", keys.Into.Name)

	count, ok := prog.Procedure[1].(*ast.GetKeysCountStatement)
	require.True(t, ok)
	require.Equal(t, "n", count.Into.Name)
}

func TestParsePushAndDeleteLastElement(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nPUSH 5 TO xs\nDELETE LAST ELEMENT OF xs\n")
	push, ok := prog.Procedure[0].(*ast.PushStatement)
	require.True(t, ok)
	require.Equal(t, "xs", push.List.Name)

	del, ok := prog.Procedure[1].(*ast.DeleteLastElementStatement)
	require.True(t, ok)
	require.Equal(t, "xs", del.List.Name)
}

func TestParseDisplayMultipleArgs(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nDISPLAY \"x is \" x crlf\n")
	disp, ok := prog.Procedure[0].(*ast.DisplayStatement)
	require.True(t, ok)
	require.Len(t, disp.Args, 3)
	_, ok = disp.Args[2].(*ast.LinefeedLiteral)
	require.True(t, ok)
}

func TestParseAcceptVariants(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nACCEPT x\nACCEPT UNTIL EOF y\n")
	_, ok := prog.Procedure[0].(*ast.AcceptStatement)
	require.True(t, ok)
	_, ok = prog.Procedure[1].(*ast.AcceptUntilEofStatement)
	require.True(t, ok)
}

func TestParseExecuteVariants(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nEXECUTE \"ls\"\nEXECUTE \"ls\" AND STORE OUTPUT IN out\nEXECUTE \"ls\" AND STORE EXIT CODE IN code\n")
	require.Len(t, prog.Procedure, 3)
	_, ok := prog.Procedure[0].(*ast.ExecuteStatement)
	require.True(t, ok)
	_, ok = prog.Procedure[1].(*ast.ExecuteStoreOutputStatement)
	require.True(t, ok)
	_, ok = prog.Procedure[2].(*ast.ExecuteStoreExitCodeStatement)
	require.True(t, ok)
}

func TestParseCreateStatementAndUserStatement(t *testing.T) {
	src := "PROCEDURE:\nCREATE STATEMENT \"say $ to $\" EXECUTING say2\nsay \"hi\" to \"world\"\n"
	prog := parseProgram(t, src)
	decl, ok := prog.Procedure[0].(*ast.CreateStatementDecl)
	require.True(t, ok)
	require.Equal(t, []string{"SAY", "$", "TO", "$"}, decl.Skeleton)
	require.Equal(t, "say2", decl.Target)

	call, ok := prog.Procedure[1].(*ast.UserStatementCall)
	require.True(t, ok)
	require.Equal(t, []string{"SAY", "$", "TO", "$"}, call.Skeleton)
	require.Len(t, call.Args, 2)
}

func TestParseVariableSubscripts(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nSTORE a:b:1 IN x\n")
	store, ok := prog.Procedure[0].(*ast.StoreStatement)
	require.True(t, ok)
	ref, ok := store.Value.(*ast.VariableRef)
	require.True(t, ok)
	require.Equal(t, "a", ref.Name)
	require.Len(t, ref.Subscripts, 2)
}

func TestParseSignedNumberLiteral(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nSTORE -5 IN x\n")
	store, ok := prog.Procedure[0].(*ast.StoreStatement)
	require.True(t, ok)
	lit, ok := store.Value.(*ast.NumberLiteral)
	require.True(t, ok)
	require.Equal(t, -5.0, lit.Value)
}

func TestParseUnterminatedIfReturnsError(t *testing.T) {
	p := New("test.ldpl", "PROCEDURE:\nIF x IS EQUAL TO 1 THEN\nDISPLAY x\n")
	_, err := p.Parse()
	require.Error(t, err)
}

func TestParseGotoAndLabel(t *testing.T) {
	prog := parseProgram(t, "PROCEDURE:\nGOTO done\nLABEL done\n")
	g, ok := prog.Procedure[0].(*ast.GotoStatement)
	require.True(t, ok)
	require.Equal(t, "done", g.Label)
	l, ok := prog.Procedure[1].(*ast.LabelStatement)
	require.True(t, ok)
	require.Equal(t, "done", l.Name)
}
