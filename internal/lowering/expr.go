package lowering

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ldpl-lang/ldplc/internal/ast"
	"github.com/ldpl-lang/ldplc/internal/mangle"
	"github.com/ldpl-lang/ldplc/internal/types"
)

// formatNumber renders a double-precision value in its canonical
// textual form (spec.md §4.1, §8): parsed-then-emitted round-trips to
// the shortest decimal form, and signed zero collapses to "0".
func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// escapeText renders a Go string as a C++ double-quoted string literal,
// escaping embedded quotes, backslashes and newlines.
func escapeText(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// typeOfExpression implements spec.md §4.2's type_of_expression: literals
// have their obvious type, a variable chases type_of(name), and a lookup
// expression returns the type of its outermost base variable regardless
// of subscripting.
func (c *Context) typeOfExpression(expr ast.Expression) (types.Type, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return types.NumberType, nil
	case *ast.TextLiteral:
		return types.TextType, nil
	case *ast.LinefeedLiteral:
		return types.TextType, nil
	case *ast.VariableRef:
		return c.Symbols.TypeOf(e.Name)
	case *ast.ParenExpression:
		return c.typeOfExpression(e.Inner)
	case *ast.MathExpression:
		return types.NumberType, nil
	case *ast.CompareExpression, *ast.LogicalExpression:
		return types.NumberType, nil
	default:
		return types.Type{}, fmt.Errorf("cannot type expression %T", expr)
	}
}

// lowerExpression emits the C++ text for expr with no coercion applied.
func (c *Context) lowerExpression(expr ast.Expression) (string, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return formatNumber(e.Value), nil
	case *ast.TextLiteral:
		// The lexer keeps backslash escapes verbatim and they are valid
		// C++ escapes as they stand; only raw line breaks of a literal
		// spanning lines need escaping.
		return `"` + strings.ReplaceAll(e.Value, "\n", `\n`) + `"`, nil
	case *ast.LinefeedLiteral:
		return `"\n"`, nil
	case *ast.VariableRef:
		return c.lowerVariableRef(e)
	case *ast.ParenExpression:
		inner, err := c.lowerExpression(e.Inner)
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil
	case *ast.MathExpression:
		return c.lowerMathExpression(e)
	case *ast.CompareExpression:
		return c.lowerCompareExpression(e)
	case *ast.LogicalExpression:
		return c.lowerLogicalExpression(e)
	default:
		return "", fmt.Errorf("cannot lower expression %T", expr)
	}
}

func (c *Context) lowerMathExpression(e *ast.MathExpression) (string, error) {
	left, err := c.lowerExpression(e.Left)
	if err != nil {
		return "", err
	}
	right, err := c.lowerExpression(e.Right)
	if err != nil {
		return "", err
	}
	var op string
	switch e.Op {
	case ast.Add:
		op = "+"
	case ast.Sub:
		op = "-"
	case ast.Mul:
		op = "*"
	case ast.Div:
		op = "/"
	case ast.Mod:
		op = "%"
	}
	return fmt.Sprintf("%s %s %s", left, op, right), nil
}

func (c *Context) lowerCompareExpression(e *ast.CompareExpression) (string, error) {
	left, err := c.lowerExpression(e.Left)
	if err != nil {
		return "", err
	}
	right, err := c.lowerExpression(e.Right)
	if err != nil {
		return "", err
	}
	var op string
	switch e.Op {
	case ast.Equal:
		op = "=="
	case ast.NotEqual:
		op = "!="
	case ast.GreaterThan:
		op = ">"
	case ast.LessThan:
		op = "<"
	case ast.GreaterOrEqual:
		op = ">="
	case ast.LessOrEqual:
		op = "<="
	}
	return fmt.Sprintf("(%s %s %s)", left, op, right), nil
}

func (c *Context) lowerLogicalExpression(e *ast.LogicalExpression) (string, error) {
	left, err := c.lowerExpression(e.Left)
	if err != nil {
		return "", err
	}
	right, err := c.lowerExpression(e.Right)
	if err != nil {
		return "", err
	}
	op := "&&"
	if e.Op == ast.LogicalOr {
		op = "||"
	}
	return fmt.Sprintf("(%s %s %s)", left, op, right), nil
}

// lowerVariableRef mangles the base identifier and lowers its subscript
// chain per spec.md §4.4's collection-vs-scalar nesting rule: a
// subscript naming a collection-typed variable consumes the following
// subscript as its own index, nesting `a[b[1]]`; otherwise each
// subscript is a flat `[...]` onto the running expression.
func (c *Context) lowerVariableRef(ref *ast.VariableRef) (string, error) {
	base := mangle.Var(ref.Name)
	if len(ref.Subscripts) == 0 {
		return base, nil
	}
	return c.lowerSubscriptChain(base, ref.Subscripts)
}

func (c *Context) lowerSubscriptChain(base string, subs []ast.Expression) (string, error) {
	result := base
	for i := 0; i < len(subs); i++ {
		sub := subs[i]
		if vref, ok := sub.(*ast.VariableRef); ok && len(vref.Subscripts) == 0 {
			if t, err := c.Symbols.TypeOf(vref.Name); err == nil && t.IsCollection() && i+1 < len(subs) {
				nextIdx, err := c.lowerExpression(subs[i+1])
				if err != nil {
					return "", err
				}
				inner := fmt.Sprintf("%s[%s]", mangle.Var(vref.Name), nextIdx)
				result = fmt.Sprintf("%s[%s]", result, inner)
				i++
				continue
			}
		}
		idx, err := c.lowerExpression(sub)
		if err != nil {
			return "", err
		}
		result = fmt.Sprintf("%s[%s]", result, idx)
	}
	return result, nil
}

// coerce applies spec.md §4.2's assignment-site coercion rules: a
// numeric *literal* assigned to a text target is quoted; any
// text-typed source assigned to a number target goes through
// to_number; any number-typed source assigned to a text target goes
// through to_ldpl_string; otherwise the lowered text passes through.
func (c *Context) coerce(target types.Type, expr ast.Expression) (string, error) {
	lowered, err := c.lowerExpression(expr)
	if err != nil {
		return "", err
	}
	srcType, err := c.typeOfExpression(expr)
	if err != nil {
		return "", err
	}

	targetScalar := target.Scalar()
	srcScalar := srcType.Scalar()

	if targetScalar.IsText() {
		if _, isNumLit := expr.(*ast.NumberLiteral); isNumLit {
			return escapeText(lowered), nil
		}
		if srcScalar.IsNumber() {
			return fmt.Sprintf("to_ldpl_string(%s)", lowered), nil
		}
	}
	if targetScalar.IsNumber() && srcScalar.IsText() {
		return fmt.Sprintf("to_number(%s)", lowered), nil
	}
	return lowered, nil
}
