// Package orchestrator drives one compilation end to end: it resolves
// INCLUDE/USING header directives against an injected filesystem,
// expands the configured package root, feeds the merged parse tree
// through the lowering engine, and concatenates the fixed translation
// unit sections (spec.md §4.5).
package orchestrator

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/google/shlex"
	"github.com/pkg/errors"

	"github.com/ldpl-lang/ldplc/internal/ast"
	"github.com/ldpl-lang/ldplc/internal/lowering"
	"github.com/ldpl-lang/ldplc/internal/parser"
)

// ReadFS is the minimal filesystem surface INCLUDE/USING resolution
// needs; callers inject it so tests can run against an in-memory tree
// instead of the real filesystem.
type ReadFS interface {
	ReadFile(path string) ([]byte, error)
}

// Orchestrator holds the configuration shared across one compilation.
// It is not safe for concurrent use (spec.md §5).
type Orchestrator struct {
	fs          ReadFS
	packageRoot string
	trace       func(format string, args ...interface{})
}

// New builds an Orchestrator over fsys, resolving USING directives
// against packageRoot. trace may be nil to disable verbose output.
func New(fsys ReadFS, packageRoot string, trace func(format string, args ...interface{})) *Orchestrator {
	if trace == nil {
		trace = func(string, ...interface{}) {}
	}
	return &Orchestrator{fs: fsys, packageRoot: packageRoot, trace: trace}
}

// Output is the fully assembled compilation result: one C++ translation
// unit plus the ordered build-side artifacts CREATE STATEMENT's sibling
// directives collected (spec.md §6).
type Output struct {
	CPP        string
	Extensions []string
	Flags      []string
}

// Compile parses src (whose logical path is path, used for relative
// INCLUDE resolution and error messages), recursively splices in every
// INCLUDE/USING target, lowers the merged program, and assembles the
// fixed translation unit (spec.md §4.5).
func (o *Orchestrator) Compile(path, src string) (*Output, error) {
	prog, err := parser.New(path, stripBOM(src)).Parse()
	if err != nil {
		return nil, err
	}

	ctx := lowering.NewContext()

	merged, err := o.resolveHeaders(path, prog, ctx, map[string]bool{path: true})
	if err != nil {
		return nil, err
	}

	if err := ctx.LowerProgram(merged); err != nil {
		return nil, err
	}

	if unresolved := ctx.Symbols.UnresolvedCalls(); len(unresolved) > 0 {
		return nil, errors.Errorf("unresolved sub-procedure calls: %s", strings.Join(unresolved, ", "))
	}

	cpp := assembleTranslationUnit(ctx)

	return &Output{
		CPP:        cpp,
		Extensions: ctx.Symbols.Extensions(),
		Flags:      ctx.Symbols.Flags(),
	}, nil
}

// resolveHeaders walks prog's header directives, splicing the headers,
// data declarations, and procedure statements of every INCLUDE/USING
// target into prog in place, recursively. seen guards against include
// cycles, keyed by resolved path.
func (o *Orchestrator) resolveHeaders(currentPath string, prog *ast.Program, ctx *lowering.Context, seen map[string]bool) (*ast.Program, error) {
	var extraHeaders []ast.HeaderDirective
	var extraData []*ast.DataDecl
	var extraProcedure []ast.Statement

	for _, h := range prog.Headers {
		switch d := h.(type) {
		case *ast.IncludeDirective:
			resolved := resolveRelative(currentPath, d.Path)
			sub, err := o.loadAndParse(resolved, seen)
			if err != nil {
				return nil, errors.Wrapf(err, "INCLUDE %q", d.Path)
			}
			if sub == nil {
				continue
			}
			o.trace("include %s -> %s", d.Path, resolved)
			merged, err := o.resolveHeaders(resolved, sub, ctx, seen)
			if err != nil {
				return nil, err
			}
			extraHeaders = append(extraHeaders, filterNonInclude(merged.Headers)...)
			if merged.Data != nil {
				extraData = append(extraData, merged.Data.Decls...)
			}
			extraProcedure = append(extraProcedure, merged.Procedure...)

		case *ast.UsingDirective:
			resolved := o.resolvePackage(d.Package)
			sub, err := o.loadAndParse(resolved, seen)
			if err != nil {
				return nil, errors.Wrapf(err, "USING %q", d.Package)
			}
			if sub == nil {
				continue
			}
			o.trace("using %s -> %s", d.Package, resolved)
			merged, err := o.resolveHeaders(resolved, sub, ctx, seen)
			if err != nil {
				return nil, err
			}
			extraHeaders = append(extraHeaders, filterNonInclude(merged.Headers)...)
			if merged.Data != nil {
				extraData = append(extraData, merged.Data.Decls...)
			}
			extraProcedure = append(extraProcedure, merged.Procedure...)

		case *ast.ExtensionDirective:
			ctx.Symbols.AddExtension(d.Path)
			extraHeaders = append(extraHeaders, h)

		case *ast.FlagDirective:
			words, err := shlex.Split(d.Flag)
			if err != nil {
				return nil, errors.Wrapf(err, "FLAG %q", d.Flag)
			}
			for _, w := range words {
				ctx.Symbols.AddFlag(w)
			}
			extraHeaders = append(extraHeaders, h)

		default:
			extraHeaders = append(extraHeaders, h)
		}
	}

	prog.Headers = extraHeaders
	if len(extraData) > 0 {
		if prog.Data == nil {
			prog.Data = &ast.DataSection{}
		}
		prog.Data.Decls = append(extraData, prog.Data.Decls...)
	}
	prog.Procedure = append(extraProcedure, prog.Procedure...)
	return prog, nil
}

func filterNonInclude(headers []ast.HeaderDirective) []ast.HeaderDirective {
	var out []ast.HeaderDirective
	for _, h := range headers {
		switch h.(type) {
		case *ast.IncludeDirective, *ast.UsingDirective:
			continue
		default:
			out = append(out, h)
		}
	}
	return out
}

func (o *Orchestrator) loadAndParse(path string, seen map[string]bool) (*ast.Program, error) {
	if seen[path] {
		return nil, nil
	}
	seen[path] = true

	raw, err := o.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	src := stripBOM(string(raw))

	prog, err := parser.New(path, src).Parse()
	if err != nil {
		return nil, err
	}
	return prog, nil
}

func resolveRelative(currentPath, target string) string {
	if filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(filepath.Dir(currentPath), target)
}

// resolvePackage expands pkg against the configured package root, with a
// single leading "~" substituted for the home directory (spec.md §4.5).
func (o *Orchestrator) resolvePackage(pkg string) string {
	root := o.packageRoot
	if strings.HasPrefix(root, "~") {
		root = filepath.Join(xdg.Home, strings.TrimPrefix(root, "~"))
	}
	return filepath.Join(root, pkg)
}

// stripBOM removes a leading UTF-8 byte-order mark, which some LDPL
// sources carry when authored on Windows.
func stripBOM(s string) string {
	const bom = "\xEF\xBB\xBF"
	return strings.TrimPrefix(s, bom)
}

// assembleTranslationUnit concatenates the lowering context's sections
// in the fixed order spec.md §4.5/§6 mandates, around the exact main()
// prelude and epilogue.
func assembleTranslationUnit(ctx *lowering.Context) string {
	var sb strings.Builder

	sb.WriteString(runtimeHeaderPlaceholder)
	sb.WriteString(ctx.Forward.String())
	sb.WriteString(ctx.Globals.String())
	sb.WriteString(ctx.Subs.String())

	sb.WriteString("int main(int argc, char* argv[]) {\n")
	sb.WriteString("    cout.precision(numeric_limits<ldpl_number>::digits10);\n")
	sb.WriteString("    for(int i = 1; i < argc; ++i) VAR_ARGV.inner_collection.push_back(argv[i]);\n")
	sb.WriteString(indentBody(ctx.Main.String()))
	sb.WriteString("    return 0;\n")
	sb.WriteString("}\n")

	return sb.String()
}

// runtimeHeaderPlaceholder stands in for the runtime header, which is
// verbatim content the out-of-scope external collaborator provides
// (spec.md §1, §6); the orchestrator only reserves its place in the
// concatenation order.
const runtimeHeaderPlaceholder = "#include \"ldpl_runtime.hpp\"\n\n"

func indentBody(body string) string {
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return ""
	}
	var sb strings.Builder
	for _, line := range lines {
		if line == "" {
			sb.WriteString("\n")
			continue
		}
		// Only label lines start with "label_"; they stay at column zero.
		if !strings.HasPrefix(line, "label_") {
			sb.WriteString("    ")
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}
