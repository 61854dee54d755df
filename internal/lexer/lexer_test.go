package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextToken(t *testing.T) {
	input := `store 5 in x
# a comment
display "hi" crlf
xs:5`

	tests := []struct {
		typ     TokenType
		literal string
	}{
		{WORD, "store"},
		{NUMBER, "5"},
		{WORD, "in"},
		{WORD, "x"},
		{NEWLINE, "\n"},
		{NEWLINE, "\n"},
		{WORD, "display"},
		{STRING, "hi"},
		{WORD, "crlf"},
		{NEWLINE, "\n"},
		{WORD, "xs"},
		{COLON, ":"},
		{NUMBER, "5"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		require.Equalf(t, tt.typ, tok.Type, "token %d literal=%q", i, tok.Literal)
		require.Equalf(t, tt.literal, tok.Literal, "token %d", i)
	}
}

func TestTokenIsCaseInsensitive(t *testing.T) {
	tok := Token{Type: WORD, Literal: "StOrE"}
	require.True(t, tok.Is("STORE"))
	require.True(t, tok.Is("store"))
	require.False(t, tok.Is("display"))
}

func TestSignedOperatorsAreSeparateFromDigits(t *testing.T) {
	l := New("-5 + 3")
	require.Equal(t, MINUS, l.NextToken().Type)
	require.Equal(t, NUMBER, l.NextToken().Type)
	require.Equal(t, PLUS, l.NextToken().Type)
	require.Equal(t, NUMBER, l.NextToken().Type)
}

func TestUnterminatedStringRecordsError(t *testing.T) {
	l := New(`"unterminated`)
	tok := l.NextToken()
	require.Equal(t, STRING, tok.Type)
	require.NotEmpty(t, l.Errors())
}

func TestHyphenatedIdentifier(t *testing.T) {
	l := New("sub-procedure")
	tok := l.NextToken()
	require.Equal(t, WORD, tok.Type)
	require.Equal(t, "sub-procedure", tok.Literal)
}
