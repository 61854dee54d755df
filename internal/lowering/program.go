package lowering

import (
	"fmt"
	"strings"

	"github.com/ldpl-lang/ldplc/internal/ast"
	ldplerr "github.com/ldpl-lang/ldplc/internal/errors"
	"github.com/ldpl-lang/ldplc/internal/mangle"
	"github.com/ldpl-lang/ldplc/internal/symbols"
	"github.com/ldpl-lang/ldplc/internal/types"
)

// cppType names the runtime container type a Type lowers to. The
// runtime header itself is out of scope (spec.md §1); these names only
// need to be internally consistent, since nothing downstream compares
// them against a real implementation.
func cppType(t types.Type) string {
	switch {
	case t.IsNumber():
		return "ldpl_number"
	case t.IsText():
		return "chText"
	case t.IsList() && t.Elem.IsNumber():
		return "chNumberList"
	case t.IsList() && t.Elem.IsText():
		return "chTextList"
	case t.IsMap() && t.Elem.IsNumber():
		return "chNumberMap"
	case t.IsMap() && t.Elem.IsText():
		return "chTextMap"
	default:
		return "UNKNOWN_TYPE"
	}
}

// cppParamType is the parameter-list spelling for a sub-procedure
// signature: numbers pass by value, everything else by reference
// (spec.md §8 scenario 5: `void SUBPR_GREET(chText& VAR_WHO)`).
func cppParamType(t types.Type) string {
	if t.IsNumber() {
		return "ldpl_number"
	}
	return cppType(t) + "&"
}

// LowerDataSection declares every DATA: entry into globals and emits its
// default-initialized C++ declaration.
func (c *Context) LowerDataSection(section *ast.DataSection) error {
	if section == nil {
		return nil
	}
	for _, decl := range section.Decls {
		if err := c.lowerDataDecl(decl, symbols.Global, &c.Globals); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) lowerDataDecl(decl *ast.DataDecl, scope symbols.Scope, out *strings.Builder) error {
	t, ok := types.Parse(decl.TypeName)
	if !ok {
		return errAt(ldplerr.Declaration, decl.Token.Pos, "unknown type %q in declaration of %s", decl.TypeName, decl.Name)
	}
	if err := c.Symbols.Declare(decl.Name, t, scope, decl.External); err != nil {
		return errAt(ldplerr.Declaration, decl.Token.Pos, "%s", err.Error())
	}
	if decl.External {
		fmt.Fprintf(out, "extern %s %s;\n", cppType(t), mangle.External(decl.Name))
		return nil
	}
	if t.IsNumber() {
		fmt.Fprintf(out, "%s %s = 0;\n", cppType(t), mangle.Var(decl.Name))
	} else {
		fmt.Fprintf(out, "%s %s;\n", cppType(t), mangle.Var(decl.Name))
	}
	return nil
}

// LowerProgram processes header-adjacent registrations (CREATE STATEMENT
// seen before DATA:/PROCEDURE: is already folded into prog.Headers by
// the parser) and then every top-level procedure statement in order.
// Sub-procedure and CREATE STATEMENT nodes interleaved in the procedure
// body are handled specially; everything else emits into Main.
func (c *Context) LowerProgram(prog *ast.Program) error {
	for _, h := range prog.Headers {
		if decl, ok := h.(*ast.CreateStatementDecl); ok {
			if err := c.LowerCreateStatementDecl(decl); err != nil {
				return err
			}
		}
	}

	if err := c.LowerDataSection(prog.Data); err != nil {
		return err
	}

	for _, stmt := range prog.Procedure {
		if err := c.LowerStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LowerSubProcedureDecl registers decl's signature before lowering its
// body (spec.md §9: required for recursion to resolve), then emits the
// function definition into Subs.
func (c *Context) LowerSubProcedureDecl(decl *ast.SubProcedureDecl) error {
	paramTypes := make([]types.Type, len(decl.Params))
	paramParts := make([]string, len(decl.Params))
	for i, p := range decl.Params {
		t, ok := types.Parse(p.TypeName)
		if !ok {
			return errAt(ldplerr.Declaration, decl.Token.Pos, "unknown parameter type %q in %s", p.TypeName, decl.Name)
		}
		paramTypes[i] = t
		paramParts[i] = fmt.Sprintf("%s %s", cppParamType(t), mangle.Var(p.Name))
	}
	signature := fmt.Sprintf("void %s(%s)", mangle.Sub(decl.Name), strings.Join(paramParts, ", "))

	if err := c.Symbols.DefineSub(decl.Name, paramTypes); err != nil {
		return errAt(ldplerr.Resolution, decl.Token.Pos, "%s", err.Error())
	}
	c.declareForward(mangle.Sub(decl.Name), signature)

	restore := c.enterSub()
	defer restore()

	for i, p := range decl.Params {
		if err := c.Symbols.Declare(p.Name, paramTypes[i], symbols.Local, false); err != nil {
			return errAt(ldplerr.Declaration, decl.Token.Pos, "%s", err.Error())
		}
	}

	c.emit("%s {", signature)
	c.indentIn()
	for _, d := range decl.LocalData {
		if err := c.lowerLocalDataDecl(d); err != nil {
			return err
		}
	}
	for _, stmt := range decl.Body {
		if err := c.LowerStatement(stmt); err != nil {
			return err
		}
	}
	c.indentOut()
	c.emit("}")
	return nil
}

func (c *Context) lowerLocalDataDecl(decl *ast.DataDecl) error {
	t, ok := types.Parse(decl.TypeName)
	if !ok {
		return errAt(ldplerr.Declaration, decl.Token.Pos, "unknown type %q in declaration of %s", decl.TypeName, decl.Name)
	}
	if err := c.Symbols.Declare(decl.Name, t, symbols.Local, decl.External); err != nil {
		return errAt(ldplerr.Declaration, decl.Token.Pos, "%s", err.Error())
	}
	if t.IsNumber() {
		c.emit("%s %s = 0;", cppType(t), mangle.Var(decl.Name))
	} else {
		c.emit("%s %s;", cppType(t), mangle.Var(decl.Name))
	}
	return nil
}

// LowerCreateStatementDecl registers a user-statement skeleton against
// an already-defined sub-procedure (spec.md §4.3: "f must already be
// defined").
func (c *Context) LowerCreateStatementDecl(decl *ast.CreateStatementDecl) error {
	if !c.Symbols.IsDefined(decl.Target) {
		return errAt(ldplerr.Resolution, decl.Token.Pos, "CREATE STATEMENT references undefined sub-procedure %s", decl.Target)
	}
	c.Symbols.RegisterUserStatement(skeletonKey(decl.Skeleton), decl.Target)
	return nil
}

func skeletonKey(skeleton []string) string {
	return strings.Join(skeleton, " ")
}

// resolveUserStatementWords reclassifies call's ambiguous bare words now
// that the symbol table is populated: a word naming a declared variable
// becomes a "$" argument position; anything else stays a literal
// keyword, exactly as the parser tentatively guessed.
func (c *Context) resolveUserStatementWords(call *ast.UserStatementCall) ([]string, []ast.Expression) {
	skeleton := append([]string(nil), call.Skeleton...)
	args := append([]ast.Expression(nil), call.Args...)

	for _, w := range call.AmbiguousWords {
		if !c.Symbols.IsDeclared(w.Literal) {
			continue
		}
		argIdx := 0
		for i := 0; i < w.Index; i++ {
			if skeleton[i] == "$" {
				argIdx++
			}
		}
		skeleton[w.Index] = "$"
		ref := &ast.VariableRef{Name: w.Literal}
		args = append(args[:argIdx:argIdx], append([]ast.Expression{ref}, args[argIdx:]...)...)
	}

	return skeleton, args
}

// LowerUserStatementCall resolves a generic statement line against the
// user_statements registry by exact skeleton match, then by
// scalar-reduced argument-type match against the target's signature,
// erroring on no match or ambiguity (spec.md §4.3, §9).
func (c *Context) LowerUserStatementCall(call *ast.UserStatementCall) error {
	skeleton, args := c.resolveUserStatementWords(call)
	key := skeletonKey(skeleton)
	candidates := c.Symbols.UserStatementOverloads(key)
	if len(candidates) == 0 {
		return errAt(ldplerr.Resolution, call.Token.Pos, "no user statement matches %q", call.Raw)
	}

	var match string
	matches := 0
	for _, sub := range candidates {
		sig, ok := c.Symbols.Signature(sub)
		if !ok || len(sig) != len(args) {
			continue
		}
		ok = true
		for i, argType := range sig {
			actual, err := c.typeOfExpression(args[i])
			if err != nil {
				ok = false
				break
			}
			if actual.Scalar() != argType.Scalar() {
				ok = false
				break
			}
		}
		if ok {
			match = sub
			matches++
		}
	}
	if matches == 0 {
		return errAt(ldplerr.Resolution, call.Token.Pos, "no argument-type overload of %q matches %q", key, call.Raw)
	}
	if matches > 1 {
		return errAt(ldplerr.Resolution, call.Token.Pos, "ambiguous user statement %q", call.Raw)
	}

	sig, _ := c.Symbols.Signature(match)
	hoisted := make([]string, len(args))
	for i, arg := range args {
		h, err := c.hoistArg(arg, sig[i])
		if err != nil {
			return err
		}
		hoisted[i] = h
	}
	c.emit("%s(%s);", mangle.Sub(match), strings.Join(hoisted, ", "))
	return nil
}
