// Copyright © 2018 The ELPS authors

package lisp_test

import (
	"testing"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/lisptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProfiler struct {
	enabled bool
	started []string
	open    int
}

func (p *recordingProfiler) IsEnabled() bool { return p.enabled }

func (p *recordingProfiler) Enable() error {
	p.enabled = true
	return nil
}

func (p *recordingProfiler) Complete() error {
	p.enabled = false
	return nil
}

func (p *recordingProfiler) Start(fun *lisp.LVal) func() {
	p.started = append(p.started, fun.Str)
	p.open++
	return func() { p.open-- }
}

func TestProfilerHooks(t *testing.T) {
	p := &recordingProfiler{}
	env := lisptest.NewEnv(t, lisp.WithProfiler(p))
	assert.True(t, p.enabled)
	assert.Same(t, p, env.Runtime.Profiler)

	_, err := env.LoadString("test", `
		(define square (lambda (x) (* x x)))
		(square 3)
		((lambda () 1))`)
	require.NoError(t, err)
	// special operators are not traced
	assert.Equal(t, []string{"square", "*", ""}, p.started)
	assert.Equal(t, 0, p.open)

	// failed applications are closed as well
	_, err = env.LoadString("test", "(square (car ()))")
	require.Error(t, err)
	assert.Equal(t, 0, p.open)
}

func TestConfig(t *testing.T) {
	env := lisptest.NewEnv(t, lisp.WithMaximumStackHeight(7))
	assert.Equal(t, 7, env.Runtime.Stack.MaxHeight)

	p := &recordingProfiler{enabled: true}
	err := lisp.WithProfiler(p)(env)
	require.NoError(t, err)
	assert.True(t, p.enabled)
}
