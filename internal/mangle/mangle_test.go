package mangle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentHyphen(t *testing.T) {
	require.Equal(t, "FOOc45_BAR", Ident("foo-bar"))
}

func TestVarAndSub(t *testing.T) {
	require.Equal(t, "VAR_FOO", Var("foo"))
	require.Equal(t, "SUBPR_FOO", Sub("foo"))
}

func TestIdentIsCaseInsensitive(t *testing.T) {
	require.Equal(t, Ident("Foo"), Ident("FOO"))
	require.Equal(t, Ident("Foo"), Ident("foo"))
}

func TestIdentInjective(t *testing.T) {
	seen := map[string]string{}
	for _, name := range []string{"foo", "foo-bar", "foo.bar", "foo_bar", "foo bar", "fooc45_bar"} {
		m := Ident(name)
		if prior, ok := seen[m]; ok {
			t.Fatalf("collision: %q and %q both mangle to %q", prior, name, m)
		}
		seen[m] = name
	}
}

func TestExternalReplacesWithUnderscore(t *testing.T) {
	require.Equal(t, "FOO_BAR", External("foo-bar"))
	require.Equal(t, "FOO_BAR_BAZ", External("foo.bar baz"))
}

func TestLabel(t *testing.T) {
	require.Equal(t, "label_DONE", Label("done"))
}
