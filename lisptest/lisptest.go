// Copyright © 2018 The ELPS authors

package lisptest

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/parser"
)

func BenchmarkParse(path string, r func() lisp.Reader) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			_, err := r().Read("test", bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// NewEnv returns a root environment initialized with the default builtins
// that writes debugging output to t.  Additional config is applied after the
// defaults.
func NewEnv(t testing.TB, config ...lisp.Config) *lisp.LEnv {
	env := lisp.NewEnv(nil)
	config = append([]lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithStderr(NewLogger(t)),
	}, config...)
	err := lisp.InitializeUserEnv(env, config...)
	if err != nil {
		t.Fatalf("failed to initialize lisp environment: %v", err)
	}
	return env
}

// LispError reports err as a test failure including a stack trace when err
// is an *lisp.ErrorVal.
func LispError(t testing.TB, err error) {
	lerr, ok := err.(*lisp.ErrorVal)
	if !ok {
		t.Error(err)
		return
	}
	var buf bytes.Buffer
	_, ioerr := lerr.WriteTrace(&buf)
	if ioerr != nil {
		t.Errorf("io error: %v", ioerr)
		t.Error(err)
		return
	}
	t.Error(buf.String())
}

// Result renders the outcome of an evaluation the way a TestSequence
// expects it.  Failures are rendered as error data.
func Result(v *lisp.LVal, err error) string {
	if err != nil {
		lerr, ok := err.(*lisp.ErrorVal)
		if !ok {
			return lisp.Error(err).LVal().String()
		}
		return lerr.LVal().String()
	}
	return v.String()
}

// TestSequence is a sequence of lisp expressions which are evaluated
// sequentially by a lisp.LEnv.  Each Expr may contain any number of
// expressions and Result is the rendered value of the last one, or of the
// first failure.
type TestSequence []struct {
	Expr   string // lisp expressions
	Result string // the evaluated result
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence in tests on isolated lisp.LEnvs.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			logger := NewLogger(t)
			defer logger.Flush()
			env := NewEnv(t, lisp.WithStderr(logger))
			for j, expr := range test.TestSequence {
				v, err := env.Runtime.Reader.Read("test", strings.NewReader(expr.Expr))
				if err != nil {
					result := Result(nil, err)
					if result != expr.Result {
						t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
					}
					continue
				}
				if len(v) == 0 {
					t.Errorf("test %d %q: expr %d: no expression parsed", i, test.Name, j)
					continue
				}
				var result string
				for _, x := range v {
					val, err := env.Eval(x)
					result = Result(val, err)
					if err != nil {
						break
					}
				}
				if result != expr.Result {
					t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
				}
			}
		})
	}
}

// RunBenchmark runs a standard benchmark that executes expressions parsed from
// source.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	p := parser.NewReader()
	exprs, err := p.Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		env := NewEnv(b, lisp.WithReader(p))
		b.StartTimer()
		for i, expr := range exprs {
			_, err := env.Eval(expr)
			if err != nil {
				b.Fatalf("expr %d: %v", i, err)
			}
		}
		b.StopTimer()
	}
}
