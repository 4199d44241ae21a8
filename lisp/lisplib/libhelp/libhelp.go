// Copyright © 2021 The ELPS authors

// Package libhelp renders documentation for the special operators and
// functions bound in an environment.
package libhelp

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// WrapWidth is the column at which docstrings are wrapped.
const WrapWidth = 72

// MissingDoc describes a symbol with no documentation.
type MissingDoc struct {
	// Kind is "builtin" or "special-op".
	Kind string
	Name string
}

// CheckMissing reports default builtins and special operators which have no
// documentation.
func CheckMissing() []MissingDoc {
	var missing []MissingDoc
	for _, op := range lisp.DefaultSpecialOps() {
		if docstring(op) == "" {
			missing = append(missing, MissingDoc{Kind: "special-op", Name: op.Name()})
		}
	}
	for _, b := range lisp.DefaultBuiltins() {
		if docstring(b) == "" {
			missing = append(missing, MissingDoc{Kind: "builtin", Name: b.Name()})
		}
	}
	return missing
}

// docstring extracts the docstring from an LBuiltinDef, returning ""
// if the definition does not implement the documented interface.
func docstring(defn lisp.LBuiltinDef) string {
	type documented interface {
		Docstring() string
	}
	if doc, ok := defn.(documented); ok {
		return doc.Docstring()
	}
	return ""
}

// RenderIndex writes the documentation of every special operator followed
// by every function bound in the root of env, sorted by name.
func RenderIndex(w io.Writer, env *lisp.LEnv) error {
	for _, op := range lisp.DefaultSpecialOps() {
		err := renderFun(w, op.Name(), lisp.SpecialOpValue(op.Name()))
		if err != nil {
			return err
		}
	}
	root := env
	for root.Parent != nil {
		root = root.Parent
	}
	for _, name := range sortedSymbols(root.Scope) {
		v := root.Get(lisp.Symbol(name))
		if v.Type != lisp.LFun {
			continue
		}
		err := renderFun(w, name, v)
		if err != nil {
			return err
		}
	}
	return nil
}

func sortedSymbols(smap map[string]*lisp.LVal) []string {
	syms := make([]string, 0, len(smap))
	for k := range smap {
		syms = append(syms, k)
	}
	sort.Strings(syms)
	return syms
}

// RenderVar writes the documentation of the special operator or the value
// bound to sym in env.
func RenderVar(w io.Writer, env *lisp.LEnv, sym string) error {
	if op := lisp.SpecialOpValue(sym); op != nil {
		return renderFun(w, sym, op)
	}
	v := env.Get(lisp.Symbol(sym))
	if v.IsNil() {
		return fmt.Errorf("symbol is not bound: %s", sym)
	}
	if v.Type != lisp.LFun {
		return renderVal(w, sym, v)
	}
	return renderFun(w, sym, v)
}

func renderVal(w io.Writer, sym string, v *lisp.LVal) error {
	_, err := fmt.Fprintf(w, "%v %s %v\n", v.Type, sym, v)
	return err
}

func renderFun(w io.Writer, sym string, v *lisp.LVal) error {
	kind := "lambda"
	switch {
	case v.IsSpecialOp():
		kind = "special-op"
	case v.Builtin() != nil:
		kind = "builtin"
	}
	args := v.Formals()
	siglist := lisp.SExpr(make([]*lisp.LVal, 1+args.Len()))
	siglist.Cells[0] = lisp.Symbol(sym)
	copy(siglist.Cells[1:], args.Cells)
	_, err := fmt.Fprintf(w, "%s %v\n", kind, siglist)
	if err != nil {
		return fmt.Errorf("rendering signature: %w", err)
	}
	doc := wrapDocstring(v.Docstring())
	if doc != "" {
		_, err = fmt.Fprintln(w, doc)
		return err
	}
	return nil
}

func wrapDocstring(doc string) string {
	if doc == "" {
		return ""
	}
	doc = indent.String(wordwrap.String(doc, WrapWidth), 2)
	return strings.TrimSuffix(doc, "\n")
}
