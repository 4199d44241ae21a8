// Copyright © 2018 The ELPS authors

package lisp_test

import (
	"testing"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/stretchr/testify/assert"
)

func list(cells ...*lisp.LVal) *lisp.LVal {
	return lisp.SExpr(cells)
}

func TestString(t *testing.T) {
	tests := []struct {
		v   *lisp.LVal
		str string
	}{
		{lisp.Nil(), "<nil>"},
		{lisp.Int(0), "0"},
		{lisp.Int(-42), "-42"},
		{lisp.Symbol("foo-bar?"), "foo-bar?"},
		{list(), "()"},
		{lisp.SExpr(nil), "()"},
		{list(lisp.Int(1), lisp.Symbol("a"), list(lisp.Nil())), "(1 a (<nil>))"},
		{lisp.Fun("test", lisp.Formals(), nil), "<callable>"},
		{lisp.ErrorDatum("empty list"), "Error(empty list)"},
		{lisp.Errorf("boom %d", 1).LVal(), "Error(boom 1)"},
		{&lisp.LVal{}, "#<INVALID>"},
	}
	for i, test := range tests {
		assert.Equal(t, test.str, test.v.String(), "test %d", i)
	}
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "int", lisp.LInt.String())
	assert.Equal(t, "list", lisp.LSExpr.String())
	assert.Equal(t, "function", lisp.LFun.String())
	assert.Equal(t, "INVALID", lisp.LTypeMax.String())
	assert.Equal(t, "operator", lisp.LFunSpecialOp.String())
	assert.Equal(t, "invalid-function-type", lisp.LFunType(9).String())
}

func TestEqual(t *testing.T) {
	fn := lisp.Fun("f", lisp.Formals("x"), nil)
	other := lisp.Fun("f", lisp.Formals("x"), nil)
	tests := []struct {
		a, b  *lisp.LVal
		equal bool
	}{
		{lisp.Nil(), lisp.Nil(), true},
		{lisp.Int(1), lisp.Int(1), true},
		{lisp.Int(1), lisp.Int(2), false},
		{lisp.Int(1), lisp.Symbol("1"), false},
		{lisp.Symbol("a"), lisp.Symbol("a"), true},
		{lisp.Symbol("a"), lisp.Symbol("b"), false},
		{list(), lisp.SExpr(nil), true},
		{list(lisp.Int(1), list(lisp.Symbol("x"))), list(lisp.Int(1), list(lisp.Symbol("x"))), true},
		{list(lisp.Int(1), list(lisp.Symbol("x"))), list(lisp.Int(1), list(lisp.Symbol("y"))), false},
		{list(lisp.Int(1)), list(lisp.Int(1), lisp.Int(2)), false},
		{list(), lisp.Nil(), false},
		{fn, fn, true},
		{fn, lisp.FunRef(lisp.Symbol("g"), fn), true},
		{fn, other, false},
		{lisp.ErrorDatum("x"), lisp.ErrorDatum("x"), true},
		{lisp.Int(1), nil, false},
	}
	for i, test := range tests {
		assert.Equal(t, test.equal, lisp.Equal(test.a, test.b), "test %d", i)
		if test.b != nil {
			assert.Equal(t, test.equal, lisp.Equal(test.b, test.a), "test %d (reversed)", i)
		}
	}
}

func TestFunRef(t *testing.T) {
	fn := lisp.Fun("f", lisp.Formals("x"), nil)
	fn.Str = "f"
	ref := lisp.FunRef(lisp.Symbol("g"), fn)
	assert.NotSame(t, fn, ref)
	assert.Equal(t, "g", ref.Str)
	assert.Equal(t, "f", fn.Str)
	assert.Same(t, fn.FunData(), ref.FunData())

	assert.Same(t, fn, lisp.FunRef(lisp.Int(1), fn))
	x := lisp.Int(1)
	assert.Same(t, x, lisp.FunRef(lisp.Symbol("g"), x))
}

func TestAccessors(t *testing.T) {
	l := list(lisp.Int(1), lisp.Int(2))
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 0, lisp.Int(1).Len())
	assert.True(t, lisp.Nil().IsNil())
	assert.False(t, list().IsNil())
	assert.Nil(t, lisp.Int(1).FunData())
	assert.Nil(t, lisp.Int(1).Formals())
	assert.Nil(t, lisp.Int(1).Body())
	assert.Equal(t, "", lisp.Int(1).FID())
	assert.Nil(t, lisp.Int(1).ErrorData())
	assert.Nil(t, lisp.Int(1).CallStack())

	fn := lisp.Fun("f", lisp.Formals("x"), func(env *lisp.LEnv, args *lisp.LVal) (*lisp.LVal, error) {
		return args, nil
	})
	assert.NotNil(t, fn.Builtin())
	assert.Nil(t, fn.Body())
	assert.Equal(t, "(x)", fn.Formals().String())
	assert.Equal(t, "f", fn.FID())
	assert.False(t, fn.IsSpecialOp())
	op := lisp.SpecialOp("op", lisp.Formals(), fn.Builtin())
	assert.True(t, op.IsSpecialOp())
}
