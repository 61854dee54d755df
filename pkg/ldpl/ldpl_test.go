package ldpl

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type memFS map[string]string

func (fs memFS) ReadFile(path string) ([]byte, error) {
	src, ok := fs[path]
	if !ok {
		return nil, errors.New("not found: " + path)
	}
	return []byte(src), nil
}

func TestCompileSourceProducesCPP(t *testing.T) {
	c := New()
	result, err := c.CompileSource("main.ldpl", "DATA:\nx IS NUMBER\nPROCEDURE:\nSTORE 5 IN x\n")
	require.NoError(t, err)
	require.Contains(t, result.CPP, "VAR_X = 5;")
}

func TestCompileFileUsesInjectedFS(t *testing.T) {
	fs := memFS{"main.ldpl": "PROCEDURE:\nDISPLAY \"hi\"\n"}
	c := New(WithFS(fs))
	result, err := c.CompileFile("main.ldpl")
	require.NoError(t, err)
	require.Contains(t, result.CPP, `"hi"`)
}

func TestCompileFileMissingReturnsError(t *testing.T) {
	c := New(WithFS(memFS{}))
	_, err := c.CompileFile("missing.ldpl")
	require.Error(t, err)
}

func TestWithTraceWritesProgress(t *testing.T) {
	fs := memFS{
		"lib.ldpl":  "DATA:\ny IS NUMBER\nPROCEDURE:\n",
		"main.ldpl": "INCLUDE \"lib.ldpl\"\nPROCEDURE:\n",
	}
	var buf bytes.Buffer
	c := New(WithFS(fs), WithTrace(&buf))
	_, err := c.CompileFile("main.ldpl")
	require.NoError(t, err)
	require.Contains(t, buf.String(), "include")
}

func TestWithPackageRootAffectsUsing(t *testing.T) {
	fs := memFS{
		"pkgs/strings.ldpl": "PROCEDURE:\n",
		"main.ldpl":          "USING strings.ldpl\nPROCEDURE:\n",
	}
	c := New(WithFS(fs), WithPackageRoot("pkgs"))
	result, err := c.CompileFile("main.ldpl")
	require.NoError(t, err)
	require.NotNil(t, result)
}
