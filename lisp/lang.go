// Copyright © 2018 The ELPS authors

package lisp

import "strings"

// VarArgSymbol is the symbol that indicates a variadic builtin argument in a
// builtin's list of formal arguments.  The symbol only appears in
// documentation because lambda parameter lists are never variadic.
const VarArgSymbol = "&rest"

// cleanDocstring collapses the indentation of a multi-line docstring written
// in a Go raw string literal.
func cleanDocstring(doc string) string {
	return strings.Join(strings.Fields(doc), " ")
}
