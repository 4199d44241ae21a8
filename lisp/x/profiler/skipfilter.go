package profiler

import (
	"github.com/luthersystems/tinylisp/lisp"
)

// SkipFilter returns true for functions which should not be traced.
type SkipFilter func(fun *lisp.LVal) bool

func defaultSkipFilter(fun *lisp.LVal) bool {
	return fun.Type != lisp.LFun
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithBuiltinsSkipped only traces applications of lambdas.  Arithmetic and
// list builtins are typically too fine grained to be worth a span.
func WithBuiltinsSkipped() Option {
	return WithSkipFilter(builtinSkipFilter)
}

func builtinSkipFilter(fun *lisp.LVal) bool {
	return fun.Builtin() != nil
}
