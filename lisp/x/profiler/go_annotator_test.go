package profiler_test

import (
	"context"
	"runtime/pprof"
	"testing"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/lisp/x/profiler"
	"github.com/luthersystems/tinylisp/lisputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPprofAnnotator(t *testing.T) {
	var labels []string
	env, p := newProfiledEnv(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewPprofAnnotator(rt, context.Background(), profiler.WithBuiltinsSkipped())
	})
	ppa := p.(interface{ Context() context.Context })
	env.AddBuiltins(lisputil.Function("probe", lisp.Formals(), func(env *lisp.LEnv, args *lisp.LVal) (*lisp.LVal, error) {
		label, _ := pprof.Label(ppa.Context(), profiler.FunctionLabel)
		labels = append(labels, label)
		return lisp.Nil(), nil
	}))
	_, err := env.LoadString("test.lisp", "(define g (lambda () (probe))) (g) (probe)")
	require.NoError(t, err)
	require.NoError(t, p.Complete())

	assert.Equal(t, []string{"g", ""}, labels)
	_, ok := pprof.Label(ppa.Context(), profiler.FunctionLabel)
	assert.False(t, ok, "labels are popped after the outermost application")
}
