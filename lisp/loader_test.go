// Copyright © 2018 The ELPS authors

package lisp_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/lisptest"
	"github.com/luthersystems/tinylisp/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadString(t *testing.T) {
	env := lisptest.NewEnv(t)
	v, err := env.LoadString("test", "(define x 2) (define y 3) (* x y)")
	require.NoError(t, err)
	assert.Equal(t, "6", v.String())

	v, err = env.LoadString("test", "")
	require.NoError(t, err)
	assert.True(t, v.IsNil())

	// a parse error prevents evaluation of every expression
	_, err = env.LoadString("test", "(define z 1) (")
	assert.Error(t, err)
	assert.True(t, env.Get(lisp.Symbol("z")).IsNil())

	// evaluation stops at the first failure
	_, err = env.LoadString("test", "(define a 1) (car ()) (define b 2)")
	assert.Error(t, err)
	assert.False(t, env.Get(lisp.Symbol("a")).IsNil())
	assert.True(t, env.Get(lisp.Symbol("b")).IsNil())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "square.lisp")
	err := os.WriteFile(path, []byte("(define square (lambda (x) (* x x)))\n(square 12)\n"), 0600)
	require.NoError(t, err)

	env := lisptest.NewEnv(t)
	v, err := env.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "144", v.String())
	fn := env.Get(lisp.Symbol("square"))
	assert.Equal(t, "square.lisp", fn.Source.File)
	assert.Equal(t, path, fn.Source.Path)

	_, err = env.LoadFile(filepath.Join(dir, "missing.lisp"))
	assert.Error(t, err)
}

func TestLoadParsec(t *testing.T) {
	env := lisptest.NewEnv(t, lisp.WithReader(parser.NewReader(parser.WithParsec())))
	v, err := env.LoadString("test", "((lambda (x) (+ x 1)) 2)")
	require.NoError(t, err)
	assert.Equal(t, "3", v.String())
}

func TestTextLoader(t *testing.T) {
	loader, err := lisp.TextLoader(parser.NewReader(), "test", strings.NewReader("(define n 5) (+ n n)"))
	require.NoError(t, err)

	// the same loader can populate independent environments
	for i := 0; i < 2; i++ {
		env := lisptest.NewEnv(t)
		v, err := loader(env)
		require.NoError(t, err)
		assert.Equal(t, "10", v.String())
	}

	_, err = lisp.TextLoader(parser.NewReader(), "test", strings.NewReader("(+ 1"))
	assert.Error(t, err)
}
