package lowering

import (
	"fmt"

	"github.com/ldpl-lang/ldplc/internal/ast"
	ldplerr "github.com/ldpl-lang/ldplc/internal/errors"
	"github.com/ldpl-lang/ldplc/internal/mangle"
	"github.com/ldpl-lang/ldplc/internal/types"
)

// LowerStatement dispatches one statement node to its handler, emitting
// into the context's current output target (spec.md §4.3).
func (c *Context) LowerStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.StoreStatement:
		return c.lowerStore(s)
	case *ast.StoreQuoteStatement:
		return c.lowerStoreQuote(s)
	case *ast.IfStatement:
		return c.lowerIf(s)
	case *ast.WhileStatement:
		return c.lowerWhile(s)
	case *ast.ForStatement:
		return c.lowerFor(s)
	case *ast.ForEachStatement:
		return c.lowerForEach(s)
	case *ast.BreakStatement:
		return c.lowerBreak(s)
	case *ast.ContinueStatement:
		return c.lowerContinue(s)
	case *ast.ReturnStatement:
		return c.lowerReturn(s)
	case *ast.ExitStatement:
		c.emit("exit(0);")
		return nil
	case *ast.GotoStatement:
		c.emitRaw(fmt.Sprintf("goto %s;", mangle.Label(s.Label)))
		return nil
	case *ast.LabelStatement:
		c.emitRaw(fmt.Sprintf("%s:;", mangle.Label(s.Name)))
		return nil
	case *ast.WaitStatement:
		return c.lowerWait(s)
	case *ast.CallStatement:
		return c.lowerCall(s)
	case *ast.SolveStatement:
		return c.lowerSolve(s)
	case *ast.MathCallStatement:
		return c.lowerMathCall(s)
	case *ast.JoinStatement:
		return c.lowerJoin(s)
	case *ast.ReplaceStatement:
		return c.lowerReplace(s)
	case *ast.SplitStatement:
		return c.lowerSplit(s)
	case *ast.GetCharacterAtStatement:
		return c.lowerGetCharacterAt(s)
	case *ast.GetAsciiCharacterStatement:
		return c.lowerGetAsciiCharacter(s)
	case *ast.GetCharacterCodeOfStatement:
		return c.lowerGetCharacterCodeOf(s)
	case *ast.GetIndexOfStatement:
		return c.lowerGetIndexOf(s)
	case *ast.CountStatement:
		return c.lowerCount(s)
	case *ast.SubstringStatement:
		return c.lowerSubstring(s)
	case *ast.TrimStatement:
		return c.lowerTrim(s)
	case *ast.PushStatement:
		return c.lowerPush(s)
	case *ast.DeleteLastElementStatement:
		return c.lowerDeleteLastElement(s)
	case *ast.GetKeysCountStatement:
		return c.lowerGetKeysCount(s)
	case *ast.GetKeysStatement:
		return c.lowerGetKeys(s)
	case *ast.ClearStatement:
		return c.lowerClear(s)
	case *ast.CopyStatement:
		return c.lowerCopy(s)
	case *ast.GetLengthOfStatement:
		return c.lowerGetLengthOf(s)
	case *ast.DisplayStatement:
		return c.lowerDisplay(s)
	case *ast.AcceptStatement:
		return c.lowerAccept(s)
	case *ast.AcceptUntilEofStatement:
		return c.lowerAcceptUntilEof(s)
	case *ast.LoadFileStatement:
		return c.lowerLoadFile(s)
	case *ast.WriteStatement:
		return c.lowerWrite(s)
	case *ast.AppendStatement:
		return c.lowerAppend(s)
	case *ast.ExecuteStatement:
		return c.lowerExecute(s)
	case *ast.ExecuteStoreOutputStatement:
		return c.lowerExecuteStoreOutput(s)
	case *ast.ExecuteStoreExitCodeStatement:
		return c.lowerExecuteStoreExitCode(s)
	case *ast.SubProcedureDecl:
		return c.LowerSubProcedureDecl(s)
	case *ast.CreateStatementDecl:
		return c.LowerCreateStatementDecl(s)
	case *ast.UserStatementCall:
		return c.LowerUserStatementCall(s)
	default:
		return errAt(ldplerr.Parse, stmt.Pos(), "unhandled statement %T", stmt)
	}
}

func (c *Context) lowerStore(s *ast.StoreStatement) error {
	target, err := c.Symbols.TypeOf(s.Into.Name)
	if err != nil {
		return errAt(ldplerr.Declaration, s.Token.Pos, "%s", err.Error())
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	rhs, err := c.coerce(target, s.Value)
	if err != nil {
		return err
	}
	c.emit("%s = %s;", lhs, rhs)
	return nil
}

func (c *Context) lowerStoreQuote(s *ast.StoreQuoteStatement) error {
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	c.emit("%s = %s;", lhs, escapeText(s.Text))
	return nil
}

func (c *Context) lowerIf(s *ast.IfStatement) error {
	cond, err := c.lowerExpression(s.Cond)
	if err != nil {
		return err
	}
	c.emit("if (%s) {", cond)
	c.indentIn()
	for _, stmt := range s.Then {
		if err := c.LowerStatement(stmt); err != nil {
			return err
		}
	}
	c.indentOut()

	for _, branch := range s.ElseIfs {
		branchCond, err := c.lowerExpression(branch.Cond)
		if err != nil {
			return err
		}
		c.emit("} else if (%s) {", branchCond)
		c.indentIn()
		for _, stmt := range branch.Body {
			if err := c.LowerStatement(stmt); err != nil {
				return err
			}
		}
		c.indentOut()
	}

	if s.Else != nil {
		c.emit("} else {")
		c.indentIn()
		for _, stmt := range s.Else {
			if err := c.LowerStatement(stmt); err != nil {
				return err
			}
		}
		c.indentOut()
	}
	c.emit("}")
	return nil
}

func (c *Context) lowerWhile(s *ast.WhileStatement) error {
	cond, err := c.lowerExpression(s.Cond)
	if err != nil {
		return err
	}
	c.emit("while (%s) {", cond)
	c.indentIn()
	restore := c.enterLoop()
	for _, stmt := range s.Body {
		if err := c.LowerStatement(stmt); err != nil {
			restore()
			return err
		}
	}
	restore()
	c.indentOut()
	c.emit("}")
	return nil
}

func (c *Context) lowerFor(s *ast.ForStatement) error {
	v, err := c.lowerVariableRef(s.Var)
	if err != nil {
		return err
	}
	from, err := c.lowerExpression(s.From)
	if err != nil {
		return err
	}
	to, err := c.lowerExpression(s.To)
	if err != nil {
		return err
	}
	step := "1"
	if s.Step != nil {
		step, err = c.lowerExpression(s.Step)
		if err != nil {
			return err
		}
	}
	// Direction follows the sign of the step (spec.md §4.3): ascending
	// when step >= 0, descending otherwise.
	c.emit("for (%s = %s; (%s) >= 0 ? %s < %s : %s > %s; %s += %s) {",
		v, from, step, v, to, v, to, v, step)
	c.indentIn()
	restore := c.enterLoop()
	for _, stmt := range s.Body {
		if err := c.LowerStatement(stmt); err != nil {
			restore()
			return err
		}
	}
	restore()
	c.indentOut()
	c.emit("}")
	return nil
}

// lowerForEach binds the loop variable to each element's value component
// (spec.md §4.3): for a list that's the element itself, for a map it's
// the value half of each (key, value) pair. Either way v is an existing
// declared variable, not a fresh binding, so the element is assigned
// into it rather than range-bound.
func (c *Context) lowerForEach(s *ast.ForEachStatement) error {
	v, err := c.lowerVariableRef(s.Var)
	if err != nil {
		return err
	}
	collType, err := c.typeOfExpression(s.Collection)
	if err != nil {
		return err
	}
	coll, err := c.lowerExpression(s.Collection)
	if err != nil {
		return err
	}
	elem := c.temp()
	c.emit("for (auto& %s : %s.inner_collection) {", elem, coll)
	c.indentIn()
	if collType.IsMap() {
		c.emit("%s = %s.second;", v, elem)
	} else {
		c.emit("%s = %s;", v, elem)
	}
	restore := c.enterLoop()
	for _, stmt := range s.Body {
		if err := c.LowerStatement(stmt); err != nil {
			restore()
			return err
		}
	}
	restore()
	c.indentOut()
	c.emit("}")
	return nil
}

func (c *Context) lowerBreak(s *ast.BreakStatement) error {
	if !c.inLoop() {
		return errAt(ldplerr.Context, s.Token.Pos, "BREAK outside a loop")
	}
	c.emit("break;")
	return nil
}

func (c *Context) lowerContinue(s *ast.ContinueStatement) error {
	if !c.inLoop() {
		return errAt(ldplerr.Context, s.Token.Pos, "CONTINUE outside a loop")
	}
	c.emit("continue;")
	return nil
}

func (c *Context) lowerReturn(s *ast.ReturnStatement) error {
	if !c.inSub {
		return errAt(ldplerr.Context, s.Token.Pos, "RETURN outside a sub-procedure")
	}
	c.emit("return;")
	return nil
}

func (c *Context) lowerWait(s *ast.WaitStatement) error {
	ms, err := c.lowerExpression(s.Milliseconds)
	if err != nil {
		return err
	}
	c.emit("ldpl_sleep_ms(%s);", ms)
	return nil
}

// lowerCall records a call to a not-yet-defined target for the
// end-of-compilation check and hoists literal arguments into fresh
// temporaries (spec.md §4.3): typed by the callee's parameters when its
// signature is registered, by the argument's own type otherwise. It
// emits no forward declaration; LowerSubProcedureDecl writes one for
// every sub-procedure it defines.
func (c *Context) lowerCall(s *ast.CallStatement) error {
	if s.External {
		args := make([]string, len(s.Args))
		for i, a := range s.Args {
			lowered, err := c.lowerExpression(a)
			if err != nil {
				return err
			}
			args[i] = lowered
		}
		c.emit("%s(%s);", mangle.External(s.Name), joinArgs(args))
		return nil
	}

	if !c.Symbols.IsDefined(s.Name) {
		c.Symbols.ExpectDefinition(s.Name)
	}

	sig, known := c.Symbols.Signature(s.Name)
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		if known && i < len(sig) {
			hoisted, err := c.hoistArg(a, sig[i])
			if err != nil {
				return err
			}
			args[i] = hoisted
			continue
		}
		argType, err := c.typeOfExpression(a)
		if err != nil {
			return err
		}
		hoisted, err := c.hoistArg(a, argType)
		if err != nil {
			return err
		}
		args[i] = hoisted
	}
	c.emit("%s(%s);", mangle.Sub(s.Name), joinArgs(args))
	return nil
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}

// hoistArg implements spec.md §4.3's CALL-argument rule: a literal
// argument is hoisted into a fresh, appropriately-typed local so the
// callee's reference parameter has something addressable to bind to; a
// variable argument passes through unchanged.
func (c *Context) hoistArg(expr ast.Expression, paramType types.Type) (string, error) {
	if _, isVar := expr.(*ast.VariableRef); isVar {
		return c.lowerExpression(expr)
	}
	text, err := c.coerce(paramType, expr)
	if err != nil {
		return "", err
	}
	tmp := c.temp()
	c.emit("%s %s = %s;", cppType(paramType), tmp, text)
	return tmp, nil
}

func (c *Context) lowerSolve(s *ast.SolveStatement) error {
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	rhs, err := c.lowerExpression(s.Expr)
	if err != nil {
		return err
	}
	c.emit("%s = %s;", lhs, rhs)
	return nil
}

func (c *Context) lowerMathCall(s *ast.MathCallStatement) error {
	a, err := c.lowerExpression(s.A)
	if err != nil {
		return err
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	switch s.Op {
	case ast.OpFloor:
		c.emit("%s = floor(%s);", lhs, a)
	case ast.OpModulo:
		b, err := c.lowerExpression(s.B)
		if err != nil {
			return err
		}
		c.emit("%s = ldpl_modulo(%s, %s);", lhs, a, b)
	}
	return nil
}

func (c *Context) lowerJoin(s *ast.JoinStatement) error {
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	if len(s.Parts) == 1 {
		list, err := c.lowerExpression(s.Parts[0])
		if err != nil {
			return err
		}
		sep := `""`
		if s.Sep != nil {
			sep, err = c.lowerExpression(s.Sep)
			if err != nil {
				return err
			}
		}
		c.emit("%s = ldpl_join_list(%s, %s);", lhs, list, sep)
		return nil
	}
	a, err := c.lowerExpression(s.Parts[0])
	if err != nil {
		return err
	}
	b, err := c.lowerExpression(s.Parts[1])
	if err != nil {
		return err
	}
	c.emit("%s = to_ldpl_string(%s) + to_ldpl_string(%s);", lhs, a, b)
	return nil
}

func (c *Context) lowerReplace(s *ast.ReplaceStatement) error {
	oldText, err := c.lowerExpression(s.Old)
	if err != nil {
		return err
	}
	newText, err := c.lowerExpression(s.New)
	if err != nil {
		return err
	}
	in, err := c.lowerExpression(s.In)
	if err != nil {
		return err
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	c.emit("%s = str_replace(%s, %s, %s);", lhs, oldText, newText, in)
	return nil
}

func (c *Context) lowerSplit(s *ast.SplitStatement) error {
	text, err := c.lowerExpression(s.Text)
	if err != nil {
		return err
	}
	sep, err := c.lowerExpression(s.Sep)
	if err != nil {
		return err
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	c.emit("%s = utf8_split_list(%s, %s);", lhs, text, sep)
	return nil
}

func (c *Context) lowerGetCharacterAt(s *ast.GetCharacterAtStatement) error {
	idx, err := c.lowerExpression(s.Index)
	if err != nil {
		return err
	}
	text, err := c.lowerExpression(s.Text)
	if err != nil {
		return err
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	c.emit("%s = charat(%s, %s);", lhs, text, idx)
	return nil
}

func (c *Context) lowerGetAsciiCharacter(s *ast.GetAsciiCharacterStatement) error {
	code, err := c.lowerExpression(s.Code)
	if err != nil {
		return err
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	c.emit("%s = ascii_char(%s);", lhs, code)
	return nil
}

func (c *Context) lowerGetCharacterCodeOf(s *ast.GetCharacterCodeOfStatement) error {
	ch, err := c.lowerExpression(s.Char)
	if err != nil {
		return err
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	c.emit("%s = char_code_of(%s);", lhs, ch)
	return nil
}

func (c *Context) lowerGetIndexOf(s *ast.GetIndexOfStatement) error {
	needle, err := c.lowerExpression(s.Needle)
	if err != nil {
		return err
	}
	haystack, err := c.lowerExpression(s.Haystack)
	if err != nil {
		return err
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	c.emit("%s = get_indices(%s, %s);", lhs, haystack, needle)
	return nil
}

func (c *Context) lowerCount(s *ast.CountStatement) error {
	needle, err := c.lowerExpression(s.Needle)
	if err != nil {
		return err
	}
	source, err := c.lowerExpression(s.Source)
	if err != nil {
		return err
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	c.emit("%s = ldpl_count(%s, %s);", lhs, source, needle)
	return nil
}

func (c *Context) lowerSubstring(s *ast.SubstringStatement) error {
	start, err := c.lowerExpression(s.Start)
	if err != nil {
		return err
	}
	length, err := c.lowerExpression(s.Length)
	if err != nil {
		return err
	}
	text, err := c.lowerExpression(s.Text)
	if err != nil {
		return err
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	c.emit("%s = get_substring(%s, %s, %s);", lhs, text, start, length)
	return nil
}

func (c *Context) lowerTrim(s *ast.TrimStatement) error {
	text, err := c.lowerExpression(s.Text)
	if err != nil {
		return err
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	c.emit("%s = trim_ldpl_string(%s);", lhs, text)
	return nil
}

func (c *Context) lowerPush(s *ast.PushStatement) error {
	listType, err := c.Symbols.TypeOf(s.List.Name)
	if err != nil {
		return errAt(ldplerr.Declaration, s.Token.Pos, "%s", err.Error())
	}
	elemType := types.NumberType
	if listType.Elem != nil {
		elemType = *listType.Elem
	}
	value, err := c.coerce(elemType, s.Value)
	if err != nil {
		return err
	}
	list, err := c.lowerVariableRef(s.List)
	if err != nil {
		return err
	}
	c.emit("%s.inner_collection.push_back(%s);", list, value)
	return nil
}

func (c *Context) lowerDeleteLastElement(s *ast.DeleteLastElementStatement) error {
	list, err := c.lowerVariableRef(s.List)
	if err != nil {
		return err
	}
	c.emit("if (!%s.inner_collection.empty()) %s.inner_collection.pop_back();", list, list)
	return nil
}

func (c *Context) lowerGetKeysCount(s *ast.GetKeysCountStatement) error {
	m, err := c.lowerExpression(s.Map)
	if err != nil {
		return err
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	c.emit("%s = %s.inner_collection.size();", lhs, m)
	return nil
}

func (c *Context) lowerGetKeys(s *ast.GetKeysStatement) error {
	m, err := c.lowerExpression(s.Map)
	if err != nil {
		return err
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	c.emit("%s = ldpl_map_keys(%s);", lhs, m)
	return nil
}

func (c *Context) lowerClear(s *ast.ClearStatement) error {
	targetType, err := c.Symbols.TypeOf(s.Target.Name)
	if err != nil {
		return errAt(ldplerr.Declaration, s.Token.Pos, "%s", err.Error())
	}
	target, err := c.lowerVariableRef(s.Target)
	if err != nil {
		return err
	}
	if targetType.IsText() {
		c.emit("%s = \"\";", target)
		return nil
	}
	c.emit("%s.inner_collection.clear();", target)
	return nil
}

func (c *Context) lowerCopy(s *ast.CopyStatement) error {
	target, err := c.Symbols.TypeOf(s.Into.Name)
	if err != nil {
		return errAt(ldplerr.Declaration, s.Token.Pos, "%s", err.Error())
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	rhs, err := c.coerce(target, s.Value)
	if err != nil {
		return err
	}
	c.emit("%s = %s;", lhs, rhs)
	return nil
}

func (c *Context) lowerGetLengthOf(s *ast.GetLengthOfStatement) error {
	value, err := c.lowerExpression(s.Value)
	if err != nil {
		return err
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	c.emit("%s = ldpl_length(%s);", lhs, value)
	return nil
}

func (c *Context) lowerDisplay(s *ast.DisplayStatement) error {
	if len(s.Args) == 0 {
		c.emit("std::cout << std::flush;")
		return nil
	}
	parts := make([]string, len(s.Args))
	for i, arg := range s.Args {
		lowered, err := c.lowerExpression(arg)
		if err != nil {
			return err
		}
		parts[i] = lowered
	}
	expr := "std::cout"
	for _, p := range parts {
		expr += " << " + p
	}
	c.emit("%s << std::flush;", expr)
	return nil
}

func (c *Context) lowerAccept(s *ast.AcceptStatement) error {
	target, err := c.Symbols.TypeOf(s.Into.Name)
	if err != nil {
		return errAt(ldplerr.Declaration, s.Token.Pos, "%s", err.Error())
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	if target.IsNumber() {
		c.emit("%s = input_number();", lhs)
	} else {
		c.emit("%s = input_string();", lhs)
	}
	return nil
}

func (c *Context) lowerAcceptUntilEof(s *ast.AcceptUntilEofStatement) error {
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	c.emit("%s = input_until_eof();", lhs)
	return nil
}

func (c *Context) lowerLoadFile(s *ast.LoadFileStatement) error {
	path, err := c.lowerExpression(s.Path)
	if err != nil {
		return err
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	c.emit("%s = load_file(%s);", lhs, path)
	return nil
}

func (c *Context) lowerWrite(s *ast.WriteStatement) error {
	value, err := c.lowerExpression(s.Value)
	if err != nil {
		return err
	}
	path, err := c.lowerExpression(s.Path)
	if err != nil {
		return err
	}
	c.emit("write_file(%s, %s, false);", path, value)
	return nil
}

func (c *Context) lowerAppend(s *ast.AppendStatement) error {
	value, err := c.lowerExpression(s.Value)
	if err != nil {
		return err
	}
	path, err := c.lowerExpression(s.Path)
	if err != nil {
		return err
	}
	c.emit("write_file(%s, %s, true);", path, value)
	return nil
}

// EXECUTE variants wrap the command expression in a const-char-pointer
// adapter (spec.md §4.3) rather than assuming it already has a .c_str()
// method, since the operand can be a raw text literal.
func (c *Context) lowerExecute(s *ast.ExecuteStatement) error {
	cmd, err := c.lowerExpression(s.Command)
	if err != nil {
		return err
	}
	c.emit("system(ldpl_cstr(%s));", cmd)
	return nil
}

func (c *Context) lowerExecuteStoreOutput(s *ast.ExecuteStoreOutputStatement) error {
	cmd, err := c.lowerExpression(s.Command)
	if err != nil {
		return err
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	c.emit("%s = exec(ldpl_cstr(%s));", lhs, cmd)
	return nil
}

func (c *Context) lowerExecuteStoreExitCode(s *ast.ExecuteStoreExitCodeStatement) error {
	cmd, err := c.lowerExpression(s.Command)
	if err != nil {
		return err
	}
	lhs, err := c.lowerVariableRef(s.Into)
	if err != nil {
		return err
	}
	c.emit("%s = system(ldpl_cstr(%s));", lhs, cmd)
	return nil
}
