// Copyright © 2018 The ELPS authors

// Package lisputil contains helpers for programs which embed the
// interpreter.
package lisputil

import (
	"strings"

	"github.com/luthersystems/tinylisp/lisp"
)

// Function is a helper to construct builtins.
func Function(name string, formals *lisp.LVal, fun lisp.LBuiltin) *Builtin {
	return &Builtin{formals: formals, fun: fun, name: name}
}

// DocFunction is like Function but attaches a docstring, which is displayed
// by the doc command.
func DocFunction(name string, formals *lisp.LVal, fun lisp.LBuiltin, doc string) *Builtin {
	return &Builtin{formals: formals, fun: fun, name: name, doc: doc}
}

// Builtin captures Go functions that are callable from lisp.
type Builtin struct {
	formals *lisp.LVal
	fun     lisp.LBuiltin
	name    string
	doc     string
}

var _ lisp.LBuiltinDef = (*Builtin)(nil)

// Name returns the name of a function.
func (fun *Builtin) Name() string {
	return fun.name
}

// Formals returns the formal arguments of a function.
func (fun *Builtin) Formals() *lisp.LVal {
	return fun.formals
}

// Eval evaluates a function on an environment.
func (fun *Builtin) Eval(env *lisp.LEnv, args *lisp.LVal) (*lisp.LVal, error) {
	return fun.fun(env, args)
}

// Docstring returns the function's documentation.
func (fun *Builtin) Docstring() string {
	return strings.TrimSpace(fun.doc)
}

// LoadAll returns a Loader which calls each of fn in order, stopping at the
// first failure.  The value of the last loader is returned.
func LoadAll(fn ...lisp.Loader) lisp.Loader {
	return func(env *lisp.LEnv) (*lisp.LVal, error) {
		ret := lisp.Nil()
		for _, fn := range fn {
			v, err := fn(env)
			if err != nil {
				return nil, err
			}
			ret = v
		}
		return ret, nil
	}
}

// Load evaluates fn in env and returns its value.  Load panics if env is not
// a root environment.
func Load(env *lisp.LEnv, fn lisp.Loader) (*lisp.LVal, error) {
	if env.Parent != nil {
		panic("not a root environment")
	}
	return fn(env)
}
