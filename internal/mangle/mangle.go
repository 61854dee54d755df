// Package mangle implements the deterministic identifier mangling
// scheme from spec.md §6, grounded on the `mangle()` function in
// original_source/src/emitter.rs: uppercase, keep alphanumerics and
// underscore, and turn every other character into `c<codepoint>_`.
package mangle

import (
	"fmt"
	"strings"
	"unicode"
)

// Ident mangles a bare identifier without any prefix. It is injective
// over the set of identifiers the grammar accepts (spec.md §8): distinct
// inputs never collide, because every non-alphanumeric character is encoded
// with its own codepoint marker rather than simply dropped.
func Ident(name string) string {
	var sb strings.Builder
	sb.Grow(len(name) + 8)
	for _, r := range strings.ToUpper(name) {
		switch {
		case r == '_' || unicode.IsDigit(r) || unicode.IsUpper(r):
			sb.WriteRune(r)
		default:
			fmt.Fprintf(&sb, "c%d_", r)
		}
	}
	return sb.String()
}

// Var mangles a variable identifier: VAR_ + mangled name.
func Var(name string) string { return "VAR_" + Ident(name) }

// Sub mangles a sub-procedure identifier: SUBPR_ + mangled name.
func Sub(name string) string { return "SUBPR_" + Ident(name) }

// External mangles an EXTERNAL-linked variable name: uppercased, with
// every non-alphanumeric, non-underscore character replaced by a single
// underscore (spec.md §6 — a simpler rule than Ident's, reflecting that
// externally-linked symbols must match the C/C++ name the host program
// already exports).
func External(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range strings.ToUpper(name) {
		if r == '_' || unicode.IsDigit(r) || unicode.IsUpper(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

// Label mangles a GOTO/LABEL target: label_ + mangled name.
func Label(name string) string { return "label_" + Ident(name) }
