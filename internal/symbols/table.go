// Package symbols implements the symbol and registry model described in
// spec.md §3: scoped variable tables, the sub-procedure signature
// registry, the forward-reference tracker, and the user-statement
// skeleton registry. A Table is built fresh per compilation (spec.md
// §5: "all symbol tables and registries live for one compilation").
package symbols

import (
	"strings"

	"github.com/ldpl-lang/ldplc/internal/types"
)

// Scope selects which table Declare/Lookup operate on.
type Scope int

const (
	Global Scope = iota
	Local
)

// Table holds every scoped table and registry the orchestrator and
// lowering engine share for the duration of one compilation.
type Table struct {
	globals map[string]types.Type
	locals  map[string]types.Type
	// originalCase preserves the first-seen spelling of each declared
	// name, for error messages; lookups themselves are keyed uppercase
	// (spec.md §3: "Identifier … case-folded to uppercase for lookup").
	originalCase map[string]string

	externals map[string]bool

	// definitions maps an uppercase sub-procedure name to its ordered
	// parameter types.
	definitions map[string][]types.Type

	// expectedDefinitions is populated by a CALL seen before its target
	// is defined, and must be empty at the end of compilation
	// (spec.md §3, §8).
	expectedDefinitions map[string]bool

	// userStatements maps a normalized keyword skeleton to the ordered
	// list of sub-procedure names that implement it, registered in the
	// order CREATE STATEMENT was seen, so candidate order is deterministic
	// rather than map iteration order; a call that matches more than one
	// candidate is rejected as ambiguous.
	userStatements map[string][]string

	extensions []string
	flags      []string
}

// New builds a Table pre-seeded with the three globals every LDPL
// program starts with (spec.md §3).
func New() *Table {
	t := &Table{
		globals:             make(map[string]types.Type),
		locals:              make(map[string]types.Type),
		originalCase:        make(map[string]string),
		externals:           make(map[string]bool),
		definitions:         make(map[string][]types.Type),
		expectedDefinitions: make(map[string]bool),
		userStatements:      make(map[string][]string),
	}
	t.globals["ARGV"] = types.TextList()
	t.globals["ERRORCODE"] = types.NumberType
	t.globals["ERRORTEXT"] = types.TextType
	t.originalCase["ARGV"] = "ARGV"
	t.originalCase["ERRORCODE"] = "ERRORCODE"
	t.originalCase["ERRORTEXT"] = "ERRORTEXT"
	return t
}

func key(name string) string { return strings.ToUpper(name) }

// DeclareError reports a duplicate declaration within one scope.
type DeclareError struct {
	Name string
}

func (e *DeclareError) Error() string {
	return "variable " + e.Name + " is already declared in this scope"
}

// Declare inserts name into the requested scope with the given type. It
// returns a *DeclareError if name is already present in that scope
// (spec.md §3 invariant: "Redeclaration within the same scope is an
// error"). external marks the name as EXTERNAL-linked.
func (t *Table) Declare(name string, typ types.Type, scope Scope, external bool) error {
	k := key(name)
	table := t.globals
	if scope == Local {
		table = t.locals
	}
	if _, exists := table[k]; exists {
		return &DeclareError{Name: name}
	}
	table[k] = typ
	t.originalCase[k] = name
	if external {
		t.externals[k] = true
	}
	return nil
}

// ClearLocals drops every local variable, run at the start of each
// sub-procedure definition (spec.md §3).
func (t *Table) ClearLocals() {
	t.locals = make(map[string]types.Type)
}

// NotDeclaredError reports a lookup of an undeclared identifier.
type NotDeclaredError struct {
	Name string
}

func (e *NotDeclaredError) Error() string {
	return "variable " + e.Name + " was not declared"
}

// TypeOf resolves a variable's type, checking locals before globals
// (spec.md §4.2).
func (t *Table) TypeOf(name string) (types.Type, error) {
	k := key(name)
	if typ, ok := t.locals[k]; ok {
		return typ, nil
	}
	if typ, ok := t.globals[k]; ok {
		return typ, nil
	}
	return types.Type{}, &NotDeclaredError{Name: name}
}

// IsExternal reports whether name was declared EXTERNAL.
func (t *Table) IsExternal(name string) bool {
	return t.externals[key(name)]
}

// IsDeclared reports whether name is visible in the current scope
// chain (locals then globals).
func (t *Table) IsDeclared(name string) bool {
	k := key(name)
	_, inLocal := t.locals[k]
	_, inGlobal := t.globals[k]
	return inLocal || inGlobal
}

// OriginalCase returns the first-seen spelling of a declared name, for
// error messages; it falls back to the given name if never declared.
func (t *Table) OriginalCase(name string) string {
	if orig, ok := t.originalCase[key(name)]; ok {
		return orig
	}
	return name
}

// RedefinitionError reports a second definition of a sub-procedure.
type RedefinitionError struct {
	Name string
}

func (e *RedefinitionError) Error() string {
	return "sub-procedure " + e.Name + " is already defined"
}

// DefineSub registers name's parameter signature in definitions and
// clears it from expectedDefinitions, per spec.md §9: "sub-procedure
// signature registration [must] happen BEFORE lowering the body".
// Returns a RedefinitionError if name is already defined.
func (t *Table) DefineSub(name string, params []types.Type) error {
	k := key(name)
	if _, exists := t.definitions[k]; exists {
		return &RedefinitionError{Name: name}
	}
	t.definitions[k] = params
	delete(t.expectedDefinitions, k)
	return nil
}

// IsDefined reports whether name has a registered sub-procedure
// signature.
func (t *Table) IsDefined(name string) bool {
	_, ok := t.definitions[key(name)]
	return ok
}

// Signature returns the registered parameter types for name.
func (t *Table) Signature(name string) ([]types.Type, bool) {
	sig, ok := t.definitions[key(name)]
	return sig, ok
}

// ExpectDefinition records that name was referenced by CALL before
// being defined. A no-op if name is already defined.
func (t *Table) ExpectDefinition(name string) {
	k := key(name)
	if _, ok := t.definitions[k]; !ok {
		t.expectedDefinitions[k] = true
	}
}

// UnresolvedCalls returns the sub-procedure names that were called but
// never defined nor declared EXTERNAL. A non-empty result at the end of
// compilation is a hard error (spec.md §8).
func (t *Table) UnresolvedCalls() []string {
	var out []string
	for name := range t.expectedDefinitions {
		out = append(out, name)
	}
	return out
}

// RegisterUserStatement records (skeleton → sub) in declaration order.
// Overlapping skeletons are allowed; resolution at call sites picks by
// exact skeleton equality and then argument-type equality, erroring on
// ambiguity (spec.md §9 — the Open Question this implementation
// resolves in favor of deterministic, insertion-ordered overload lists
// rather than unordered-map iteration).
func (t *Table) RegisterUserStatement(skeleton string, sub string) {
	t.userStatements[skeleton] = append(t.userStatements[skeleton], sub)
}

// UserStatementOverloads returns the sub-procedure names registered for
// an exact skeleton match, in registration order.
func (t *Table) UserStatementOverloads(skeleton string) []string {
	return t.userStatements[skeleton]
}

// AddExtension/AddFlag append a build-side artifact in declaration
// order (spec.md §9: both are "ordered vectors … forwarded unchanged").
func (t *Table) AddExtension(path string) { t.extensions = append(t.extensions, path) }
func (t *Table) AddFlag(flag string)      { t.flags = append(t.flags, flag) }

func (t *Table) Extensions() []string { return append([]string(nil), t.extensions...) }
func (t *Table) Flags() []string      { return append([]string(nil), t.flags...) }
