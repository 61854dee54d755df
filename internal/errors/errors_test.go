package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Parse, "parse error"},
		{Declaration, "declaration error"},
		{Context, "context error"},
		{Resolution, "resolution error"},
		{IO, "I/O error"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.kind.String())
	}
}

func TestErrorWithoutSourceHasNoCaret(t *testing.T) {
	err := New(Parse, Position{Line: 2, Column: 5}, 1, "unexpected %s", "token")
	got := err.Error()
	require.Equal(t, "parse error at 2:5: unexpected token", got)
}

func TestErrorWithFileNameUsesInForm(t *testing.T) {
	err := New(Declaration, Position{Line: 1, Column: 1}, 0, "duplicate declaration").
		WithSource("main.ldpl", "x IS NUMBER\n")
	require.Contains(t, err.Error(), "declaration error in main.ldpl:1:1:")
}

func TestErrorCaretAlignsUnderSpan(t *testing.T) {
	src := "STORE 5 IN x\n"
	err := New(Declaration, Position{Line: 1, Column: 12}, 1, "undeclared variable x").
		WithSource("main.ldpl", src)
	formatted := err.Format()
	require.Contains(t, formatted, "   1 | STORE 5 IN x")
	// 7-column gutter plus 11 runes before column 12.
	require.Contains(t, formatted, "\n"+strings.Repeat(" ", 18)+"^")
}

func TestErrorMinimumCaretLengthOne(t *testing.T) {
	err := New(Parse, Position{Line: 1, Column: 1}, 0, "oops").WithSource("f.ldpl", "x\n")
	require.Contains(t, err.Format(), "^")
}
