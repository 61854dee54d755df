// Command ldplfmt is a debugging aid: it compiles one LDPL source file
// through the public pkg/ldpl API and dumps the emitted C++ (or, with
// -ast, the raw parse tree) to stdout. It is not the CLI driver spec.md
// §1 places out of scope — it never invokes a C++ toolchain and has no
// build/run subcommands.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ldpl-lang/ldplc/internal/ast"
	"github.com/ldpl-lang/ldplc/internal/parser"
	"github.com/ldpl-lang/ldplc/pkg/ldpl"
)

func main() {
	fs := flag.NewFlagSet("ldplfmt", flag.ExitOnError)
	packageRoot := fs.String("package-root", "", "directory USING directives resolve against")
	dumpAST := fs.Bool("ast", false, "print the parse tree instead of lowering to C++")
	trace := fs.Bool("trace", false, "print INCLUDE/USING resolution trace to stderr")
	fs.Parse(os.Args[1:])

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ldplfmt [-ast] [-package-root dir] [-trace] <file.ldpl>")
		os.Exit(2)
	}
	path := fs.Arg(0)

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *dumpAST {
		prog, err := parser.New(path, string(src)).Parse()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		dumpProgram(prog)
		return
	}

	opts := []ldpl.Option{ldpl.WithPackageRoot(*packageRoot)}
	if *trace {
		opts = append(opts, ldpl.WithTrace(os.Stderr))
	}
	compiler := ldpl.New(opts...)
	result, err := compiler.CompileFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Print(result.CPP)
}

func dumpProgram(prog *ast.Program) {
	for _, h := range prog.Headers {
		fmt.Printf("header: %T\n", h)
	}
	if prog.Data != nil {
		for _, d := range prog.Data.Decls {
			fmt.Printf("data: %s is %s\n", d.Name, d.TypeName)
		}
	}
	for _, s := range prog.Procedure {
		fmt.Printf("stmt: %T\n", s)
	}
}
