// Package ldpl is the embeddable LDPL-to-C++ compiler engine: parse,
// resolve INCLUDE/USING, lower every statement, and concatenate the
// fixed translation unit (spec.md §4.5). It owns no CLI surface and
// invokes no C++ toolchain (spec.md §1).
package ldpl

import (
	"fmt"
	"io"
	"os"

	"github.com/ldpl-lang/ldplc/internal/orchestrator"
)

// ReadFS is the filesystem surface INCLUDE/USING resolution needs.
// os.ReadFile satisfies it through osFS, the default.
type ReadFS interface {
	ReadFile(path string) ([]byte, error)
}

type osFS struct{}

func (osFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// Option configures a Compiler.
type Option func(*Compiler)

// WithPackageRoot sets the directory USING directives resolve against. A
// leading "~" is expanded to the user's home directory.
func WithPackageRoot(path string) Option {
	return func(c *Compiler) { c.packageRoot = path }
}

// WithFS injects the filesystem used to resolve INCLUDE/USING targets,
// letting callers compile against an in-memory tree.
func WithFS(fsys ReadFS) Option {
	return func(c *Compiler) { c.fs = fsys }
}

// WithTrace enables verbose progress lines (INCLUDE/USING resolution)
// written to w as the compilation proceeds.
func WithTrace(w io.Writer) Option {
	return func(c *Compiler) { c.traceOut = w }
}

// Compiler is a reusable LDPL-to-C++ engine. Each CompileFile/
// CompileSource call runs an independent compilation with its own
// symbol tables (spec.md §5); the Compiler itself only holds
// configuration, not per-compilation state.
type Compiler struct {
	fs          ReadFS
	packageRoot string
	traceOut    io.Writer
}

// New builds a Compiler from opts. With no options, INCLUDE/USING
// resolve against the real filesystem with an empty package root and no
// trace output.
func New(opts ...Option) *Compiler {
	c := &Compiler{fs: osFS{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is one compilation's output.
type Result struct {
	CPP        string
	Extensions []string
	Flags      []string
}

// CompileFile reads and compiles the LDPL source at path.
func (c *Compiler) CompileFile(path string) (*Result, error) {
	raw, err := c.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.CompileSource(path, string(raw))
}

// CompileSource compiles src as if it were read from path; path is used
// only for relative INCLUDE resolution and error messages.
func (c *Compiler) CompileSource(path, src string) (*Result, error) {
	var trace func(string, ...interface{})
	if c.traceOut != nil {
		out := c.traceOut
		trace = func(format string, args ...interface{}) {
			fmt.Fprintf(out, format+"\n", args...)
		}
	}

	o := orchestrator.New(c.fs, c.packageRoot, trace)
	out, err := o.Compile(path, src)
	if err != nil {
		return nil, err
	}

	return &Result{
		CPP:        out.CPP,
		Extensions: out.Extensions,
		Flags:      out.Flags,
	}, nil
}
