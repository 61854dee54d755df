package symbols

import (
	"testing"

	"github.com/ldpl-lang/ldplc/internal/types"
	"github.com/stretchr/testify/require"
)

func TestPreseededGlobals(t *testing.T) {
	tb := New()
	typ, err := tb.TypeOf("argv")
	require.NoError(t, err)
	require.Equal(t, types.TextList(), typ)

	typ, err = tb.TypeOf("ERRORCODE")
	require.NoError(t, err)
	require.Equal(t, types.NumberType, typ)
}

func TestDeclareDuplicateInSameScope(t *testing.T) {
	tb := New()
	require.NoError(t, tb.Declare("x", types.NumberType, Global, false))
	err := tb.Declare("X", types.NumberType, Global, false)
	require.Error(t, err)
	var dup *DeclareError
	require.ErrorAs(t, err, &dup)
}

func TestLocalsShadowGlobals(t *testing.T) {
	tb := New()
	require.NoError(t, tb.Declare("x", types.NumberType, Global, false))
	require.NoError(t, tb.Declare("x", types.TextType, Local, false))
	typ, err := tb.TypeOf("x")
	require.NoError(t, err)
	require.Equal(t, types.TextType, typ)

	tb.ClearLocals()
	typ, err = tb.TypeOf("x")
	require.NoError(t, err)
	require.Equal(t, types.NumberType, typ)
}

func TestUndeclaredLookup(t *testing.T) {
	tb := New()
	_, err := tb.TypeOf("nope")
	require.Error(t, err)
	var nd *NotDeclaredError
	require.ErrorAs(t, err, &nd)
}

func TestExpectedDefinitionsLifecycle(t *testing.T) {
	tb := New()
	tb.ExpectDefinition("greet")
	require.Equal(t, []string{"GREET"}, tb.UnresolvedCalls())

	require.NoError(t, tb.DefineSub("greet", nil))
	require.Empty(t, tb.UnresolvedCalls())
}

func TestDefineSubRedefinitionError(t *testing.T) {
	tb := New()
	require.NoError(t, tb.DefineSub("greet", nil))
	err := tb.DefineSub("GREET", nil)
	require.Error(t, err)
	var redef *RedefinitionError
	require.ErrorAs(t, err, &redef)
}

func TestUserStatementRegistrationOrderIsPreserved(t *testing.T) {
	tb := New()
	tb.RegisterUserStatement("SAY $ TO $", "say2_text")
	tb.RegisterUserStatement("SAY $ TO $", "say2_number")
	require.Equal(t, []string{"say2_text", "say2_number"}, tb.UserStatementOverloads("SAY $ TO $"))
}

func TestExtensionsAndFlagsPreserveOrder(t *testing.T) {
	tb := New()
	tb.AddExtension("a.cpp")
	tb.AddExtension("b.cpp")
	tb.AddFlag("-lm")
	require.Equal(t, []string{"a.cpp", "b.cpp"}, tb.Extensions())
	require.Equal(t, []string{"-lm"}, tb.Flags())
}
