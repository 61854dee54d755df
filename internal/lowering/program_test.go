package lowering

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ldpl-lang/ldplc/internal/parser"
)

func lowerSource(t *testing.T, src string) *Context {
	t.Helper()
	prog, err := parser.New("test.ldpl", src).Parse()
	require.NoError(t, err)

	ctx := NewContext()
	require.NoError(t, ctx.LowerProgram(prog))
	return ctx
}

func TestLowerStoreIntoNumber(t *testing.T) {
	ctx := lowerSource(t, "DATA:\nx IS NUMBER\nPROCEDURE:\nSTORE 5 IN x\n")
	require.Contains(t, ctx.Globals.String(), "ldpl_number VAR_X = 0;")
	require.Contains(t, ctx.Main.String(), "VAR_X = 5;")
}

func TestLowerStoreNumberIntoText(t *testing.T) {
	ctx := lowerSource(t, "DATA:\nname IS TEXT\nPROCEDURE:\nSTORE 42 IN name\n")
	require.Contains(t, ctx.Main.String(), `VAR_NAME = "42";`)
}

func TestLowerPushAppendsToInnerCollection(t *testing.T) {
	ctx := lowerSource(t, "DATA:\nxs IS NUMBER LIST\nPROCEDURE:\nPUSH 1 TO xs\nPUSH 2 TO xs\n")
	main := ctx.Main.String()
	require.Contains(t, main, "VAR_XS.inner_collection.push_back(1);")
	require.Contains(t, main, "VAR_XS.inner_collection.push_back(2);")
}

func TestLowerIfOrCondition(t *testing.T) {
	src := "DATA:\nx IS NUMBER\nPROCEDURE:\nIF x IS EQUAL TO 1 OR x IS EQUAL TO 2 THEN\nDISPLAY x\nEND IF\n"
	ctx := lowerSource(t, src)
	require.Contains(t, ctx.Main.String(), "if (((VAR_X == 1) || (VAR_X == 2))) {")
}

func TestLowerSubProcedureAndCallHoistsLiteral(t *testing.T) {
	src := `PROCEDURE:
SUB-PROCEDURE greet
PARAMETERS:
who IS TEXT
LOCAL DATA:
PROCEDURE:
DISPLAY who
END SUB-PROCEDURE
CALL greet WITH "world"
`
	ctx := lowerSource(t, src)
	require.Contains(t, ctx.Forward.String(), "void SUBPR_GREET(chText& VAR_WHO);")
	require.Contains(t, ctx.Subs.String(), "void SUBPR_GREET(chText& VAR_WHO) {")
	main := ctx.Main.String()
	require.Contains(t, main, `chText tmp0 = "world";`)
	require.Contains(t, main, "SUBPR_GREET(tmp0);")
}

func TestLowerCreateStatementResolvesUserStatementCall(t *testing.T) {
	src := `DATA:
name IS TEXT
PROCEDURE:
SUB-PROCEDURE say2
PARAMETERS:
a IS TEXT
b IS TEXT
LOCAL DATA:
PROCEDURE:
DISPLAY a
END SUB-PROCEDURE
CREATE STATEMENT "say $ to $" EXECUTING say2
say "hi" to name
`
	ctx := lowerSource(t, src)
	main := ctx.Main.String()
	require.Contains(t, main, `chText tmp0 = "hi";`)
	require.Contains(t, main, "SUBPR_SAY2(tmp0, VAR_NAME);")
}

func TestLowerBreakOutsideLoopFails(t *testing.T) {
	prog, err := parser.New("test.ldpl", "PROCEDURE:\nBREAK\n").Parse()
	require.NoError(t, err)
	ctx := NewContext()
	err = ctx.LowerProgram(prog)
	require.Error(t, err)
}

func TestLowerBreakInsideLoopSucceeds(t *testing.T) {
	src := "DATA:\nx IS NUMBER\nPROCEDURE:\nWHILE x IS GREATER THAN 0 DO\nBREAK\nREPEAT\n"
	ctx := lowerSource(t, src)
	require.Contains(t, ctx.Main.String(), "break;")
}

func TestLowerNestedListSubscripts(t *testing.T) {
	src := "DATA:\nxs IS NUMBER LIST\ny IS NUMBER\nPROCEDURE:\nSTORE xs:5 IN y\n"
	ctx := lowerSource(t, src)
	require.Contains(t, ctx.Main.String(), "VAR_Y = VAR_XS[5];")
}

func TestLowerNestedListOfListSubscript(t *testing.T) {
	src := `DATA:
a IS NUMBER LIST
b IS NUMBER LIST
y IS NUMBER
PROCEDURE:
STORE a:b:1 IN y
`
	ctx := lowerSource(t, src)
	require.Contains(t, ctx.Main.String(), "VAR_Y = VAR_A[VAR_B[1]];")
}

func TestLowerListOfScalarSubscript(t *testing.T) {
	src := `DATA:
a IS NUMBER LIST
b IS NUMBER
y IS NUMBER
PROCEDURE:
STORE a:b:1 IN y
`
	ctx := lowerSource(t, src)
	require.Contains(t, ctx.Main.String(), "VAR_Y = VAR_A[VAR_B][1];")
}

func TestLowerForEachOverMapBindsValueHalf(t *testing.T) {
	src := `DATA:
m IS TEXT MAP
v IS TEXT
PROCEDURE:
FOR EACH v IN m DO
DISPLAY v
REPEAT
`
	ctx := lowerSource(t, src)
	main := ctx.Main.String()
	require.Contains(t, main, ".inner_collection) {")
	require.Contains(t, main, "VAR_V = tmp0.second;")
}

func TestLowerForAscendingAndDescending(t *testing.T) {
	src := "DATA:\ni IS NUMBER\nPROCEDURE:\nFOR i FROM 0 TO 10 STEP 2 DO\nDISPLAY i\nREPEAT\n"
	ctx := lowerSource(t, src)
	require.Contains(t, ctx.Main.String(), "(2) >= 0 ? VAR_I < 10 : VAR_I > 10")
}
