package profiler_test

import (
	"testing"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/lisptest"
	"github.com/luthersystems/tinylisp/parser"
	"github.com/stretchr/testify/require"
)

const testLisp = `
(define add-it (lambda (x y) (+ x y)))
(define twice (lambda (f x) (f (f x))))
(define inc (lambda (x) (add-it x 1)))
(twice inc 3)
`

// spans ending order for testLisp, innermost first
var testLispSpans = []string{"+", "add-it", "f", "+", "add-it", "f", "twice"}

var testLispLambdaSpans = []string{"add-it", "f", "add-it", "f", "twice"}

// newProfiledEnv returns a root environment with the profiler returned by
// newProfiler installed and enabled.
func newProfiledEnv(t *testing.T, newProfiler func(rt *lisp.Runtime) lisp.Profiler) (*lisp.LEnv, lisp.Profiler) {
	env := lisp.NewEnv(nil)
	p := newProfiler(env.Runtime)
	err := lisp.InitializeUserEnv(env,
		lisp.WithReader(parser.NewReader()),
		lisp.WithStderr(lisptest.NewLogger(t)),
		lisp.WithProfiler(p))
	require.NoError(t, err)
	require.True(t, p.IsEnabled())
	return env, p
}

func runTestLisp(t *testing.T, newProfiler func(rt *lisp.Runtime) lisp.Profiler) lisp.Profiler {
	env, p := newProfiledEnv(t, newProfiler)
	v, err := env.LoadString("test.lisp", testLisp)
	require.NoError(t, err)
	require.Equal(t, "5", v.String())
	require.NoError(t, p.Complete())
	require.False(t, p.IsEnabled())
	return p
}
