package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		want Type
	}{
		{"number", NumberType},
		{"TEXT", TextType},
		{"number list", NumberList()},
		{"number map", NumberMap()},
		{"number vector", NumberMap()},
		{"text list", TextList()},
		{"text vector", TextMap()},
	}
	for _, c := range cases {
		got, ok := Parse(c.name)
		require.Truef(t, ok, "Parse(%q)", c.name)
		require.Equal(t, c.want, got)
	}
}

func TestParseUnknown(t *testing.T) {
	_, ok := Parse("boolean")
	require.False(t, ok)
}

func TestPredicates(t *testing.T) {
	require.True(t, NumberType.IsNumber())
	require.True(t, TextType.IsText())
	require.True(t, NumberList().IsList())
	require.True(t, NumberMap().IsMap())
	require.True(t, NumberList().IsCollection())
	require.True(t, NumberList().IsNumberCollection())
	require.True(t, TextMap().IsTextCollection())
	require.False(t, NumberList().IsTextCollection())
}

func TestScalar(t *testing.T) {
	require.Equal(t, TextType, TextList().Scalar())
	require.Equal(t, NumberType, NumberMap().Scalar())
	require.Equal(t, NumberType, NumberType.Scalar())
}

func TestString(t *testing.T) {
	require.Equal(t, "number", NumberType.String())
	require.Equal(t, "text list", TextList().String())
	require.Equal(t, "number map", NumberMap().String())
}
