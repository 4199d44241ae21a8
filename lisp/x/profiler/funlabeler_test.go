package profiler

import (
	"testing"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected string
	}{
		{
			name:     "empty",
			label:    "",
			expected: "",
		},
		{
			name:     "normal",
			label:    "add-it",
			expected: "add-it",
		},
		{
			name:     "predicate",
			label:    "empty?",
			expected: "empty?",
		},
		{
			name:     "spaces",
			label:    "Add  It",
			expected: "Add_It",
		},
		{
			name:     "control",
			label:    "add\x00it",
			expected: "add",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual := sanitizeLabel(tc.label)
			assert.Equal(t, tc.expected, actual, "sanitizeLabel(%q)", tc.label)
		})
	}
}

func TestDefaultFunName(t *testing.T) {
	nop := func(env *lisp.LEnv, args *lisp.LVal) (*lisp.LVal, error) { return lisp.Nil(), nil }
	builtin := lisp.Fun("<builtin-function ``car''>", lisp.Formals("lis"), nop)
	assert.Equal(t, "car", defaultFunName(builtin))
	assert.Equal(t, "first", defaultFunName(lisp.FunRef(lisp.Symbol("first"), builtin)))
	op := lisp.SpecialOpValue("define")
	assert.Equal(t, "define", defaultFunName(op))
	assert.Equal(t, "", defaultFunName(lisp.Int(1)))

	env := lisp.NewEnv(nil)
	lambda, err := env.Lambda(lisp.Formals("x"), lisp.Symbol("x"))
	assert.NoError(t, err)
	assert.Equal(t, "lambda", defaultFunName(lambda))
	assert.Equal(t, "id", defaultFunName(lisp.FunRef(lisp.Symbol("id"), lambda)))
}

func TestSkipTrace(t *testing.T) {
	nop := func(env *lisp.LEnv, args *lisp.LVal) (*lisp.LVal, error) { return lisp.Nil(), nil }
	builtin := lisp.Fun("<builtin-function ``car''>", lisp.Formals("lis"), nop)
	env := lisp.NewEnv(nil)
	lambda, err := env.Lambda(lisp.Formals(), lisp.Nil())
	assert.NoError(t, err)

	p := &profiler{}
	assert.True(t, p.skipTrace(lambda), "disabled profilers skip everything")
	assert.NoError(t, p.Enable())
	assert.Error(t, p.Enable())
	assert.False(t, p.skipTrace(lambda))
	assert.False(t, p.skipTrace(builtin))
	assert.True(t, p.skipTrace(lisp.Int(1)))

	p.applyConfigs(WithBuiltinsSkipped())
	assert.False(t, p.skipTrace(lambda))
	assert.True(t, p.skipTrace(builtin))
}
