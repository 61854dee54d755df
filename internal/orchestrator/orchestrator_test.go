package orchestrator

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

type fakeFS map[string]string

func (fs fakeFS) ReadFile(path string) ([]byte, error) {
	src, ok := fs[path]
	if !ok {
		return nil, &fsNotFoundError{path}
	}
	return []byte(src), nil
}

type fsNotFoundError struct{ path string }

func (e *fsNotFoundError) Error() string { return "file not found: " + e.path }

func TestCompileMinimalProgramSnapshot(t *testing.T) {
	src := "DATA:\nx IS NUMBER\nPROCEDURE:\nSTORE 5 IN x\nDISPLAY x\n"
	o := New(fakeFS{"main.ldpl": src}, "", nil)
	out, err := o.Compile("main.ldpl", src)
	require.NoError(t, err)
	snaps.MatchSnapshot(t, out.CPP)
}

func TestCompileResolvesInclude(t *testing.T) {
	fs := fakeFS{
		"lib/util.ldpl": "DATA:\ncounter IS NUMBER\nPROCEDURE:\n",
		"main.ldpl":      "INCLUDE \"lib/util.ldpl\"\nPROCEDURE:\nSTORE 1 IN counter\n",
	}
	o := New(fs, "", nil)
	out, err := o.Compile("main.ldpl", fs["main.ldpl"])
	require.NoError(t, err)
	require.Contains(t, out.CPP, "ldpl_number VAR_COUNTER = 0;")
	require.Contains(t, out.CPP, "VAR_COUNTER = 1;")
}

func TestCompileCyclicIncludeDoesNotHang(t *testing.T) {
	fs := fakeFS{
		"a.ldpl": "INCLUDE \"b.ldpl\"\nPROCEDURE:\n",
		"b.ldpl": "INCLUDE \"a.ldpl\"\nPROCEDURE:\n",
	}
	o := New(fs, "", nil)
	_, err := o.Compile("a.ldpl", fs["a.ldpl"])
	require.NoError(t, err)
}

func TestCompileRecordsExtensionsAndFlags(t *testing.T) {
	src := "EXTENSION \"glue.o\"\nFLAG \"-O2 -Wall\"\nPROCEDURE:\n"
	o := New(fakeFS{"main.ldpl": src}, "", nil)
	out, err := o.Compile("main.ldpl", src)
	require.NoError(t, err)
	require.Equal(t, []string{"glue.o"}, out.Extensions)
	require.Equal(t, []string{"-O2", "-Wall"}, out.Flags)
}

func TestCompileReportsUnresolvedCalls(t *testing.T) {
	src := "PROCEDURE:\nCALL never_defined WITH 1\n"
	o := New(fakeFS{"main.ldpl": src}, "", nil)
	_, err := o.Compile("main.ldpl", src)
	require.Error(t, err)
}

func TestStripBOM(t *testing.T) {
	const bom = "\xEF\xBB\xBF"
	require.Equal(t, "PROCEDURE:\n", stripBOM(bom+"PROCEDURE:\n"))
	require.Equal(t, "PROCEDURE:\n", stripBOM("PROCEDURE:\n"))
}
