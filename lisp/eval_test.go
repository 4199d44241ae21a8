// Copyright © 2018 The ELPS authors

package lisp_test

import (
	"testing"

	"github.com/luthersystems/tinylisp/lisptest"
)

func TestEval(t *testing.T) {
	tests := lisptest.TestSuite{
		{"self evaluating", lisptest.TestSequence{
			{"1", "1"},
			{"-1", "<nil>"},
			{"9223372036854775807", "9223372036854775807"},
			{"()", "()"},
			{"undefined", "<nil>"},
			{"+", "<callable>"},
			{"(lambda (x) x)", "<callable>"},
		}},
		{"arithmetic", lisptest.TestSequence{
			{"(+ 1 2 3)", "6"},
			{"(+)", "0"},
			{"(+ 5)", "5"},
			{"(- 3 2 1)", "0"},
			{"(- 10 4)", "6"},
			{"(- 5)", "Error(not enough arguments)"},
			{"(-)", "Error(not enough arguments)"},
			{"(* 2 3 4)", "24"},
			{"(*)", "1"},
			{"(+ 1 (* 2 3) (- 10 4))", "13"},
			{"(+ 9223372036854775807 1)", "-9223372036854775808"},
			{"(+ 1 x)", "Error(argument has wrong type)"},
			{"(* 1 (list))", "Error(argument has wrong type)"},
			{"(- 5 ())", "Error(argument has wrong type)"},
		}},
		{"lists", lisptest.TestSequence{
			{"(list 1 2 3)", "(1 2 3)"},
			{"(list)", "()"},
			{"(list (list 1) (list))", "((1) ())"},
			{"(cons 1 2)", "(1 2)"},
			{"(cons 1 (list 2 3))", "(1 (2 3))"},
			{"(cons 1)", "Error(wrong number of arguments)"},
			{"(cons 1 2 3)", "Error(wrong number of arguments)"},
			{"(car (cons 1 2))", "1"},
			{"(car (list 3 2 1))", "3"},
			{"(car (list))", "Error(empty list)"},
			{"(car ())", "Error(empty list)"},
			{"(car 1)", "Error(argument has wrong type)"},
			{"(car)", "Error(wrong number of arguments)"},
			{"(car (list 1) (list 2))", "Error(wrong number of arguments)"},
		}},
		{"define", lisptest.TestSequence{
			{"(define foobar 15) foobar", "15"},
			{"foobar", "15"},
			{"(define foobar (+ foobar 1))", "<nil>"},
			{"foobar", "16"},
			{"(define 1 2)", "Error(argument has wrong type)"},
			{"(define (x) 2)", "Error(argument has wrong type)"},
			{"(define x)", "Error(wrong number of arguments)"},
			{"(define x 1 2)", "Error(wrong number of arguments)"},
			{"(define x (car ()))", "Error(empty list)"},
			{"x", "<nil>"},
		}},
		{"lambda", lisptest.TestSequence{
			{"((lambda (x) (+ x 1)) 2)", "3"},
			{"((lambda () 7))", "7"},
			{"((lambda (x y) (- x y)) 5 3)", "2"},
			{"(define square (lambda (x) (* x x)))", "<nil>"},
			{"(square 4)", "16"},
			{"(lambda x x)", "Error(arguments are not a list)"},
			{"(lambda (x 1) x)", "Error(arguments are not a list)"},
			{"(lambda (x))", "Error(wrong number of arguments)"},
			{"(lambda (x) x x)", "Error(wrong number of arguments)"},
			{"((lambda (x y) x) 1)", "Error(wrong number of arguments)"},
			{"((lambda (x) x) 1 2)", "Error(wrong number of arguments)"},
		}},
		{"application", lisptest.TestSequence{
			{"(1)", "Error(cannot call non-function)"},
			{"(undefined 1)", "Error(cannot call non-function)"},
			{"((list 1 2) 3)", "Error(cannot call non-function)"},
			{"(() 1)", "Error(cannot call non-function)"},
			// arguments are evaluated before the head is applied
			{"(1 (car ()))", "Error(empty list)"},
			{"(list 1 (car ()) (- 1))", "Error(empty list)"},
			// special forms are recognized syntactically and are unbound
			{"define", "<nil>"},
			{"(list define lambda)", "(<nil> <nil>)"},
		}},
	}
	lisptest.RunTestSuite(t, tests)
}

func TestScope(t *testing.T) {
	tests := lisptest.TestSuite{
		{"lexical scope", lisptest.TestSequence{
			{"(define x 1)", "<nil>"},
			{"((lambda (x) x) 2)", "2"},
			{"x", "1"},
			// define in a function body binds in the call frame
			{"((lambda (y) (define x y)) 5)", "<nil>"},
			{"x", "1"},
			{"(define f (lambda () x))", "<nil>"},
			{"((lambda (x) (f)) 3)", "1"},
		}},
		{"late binding", lisptest.TestSequence{
			{"(define f (lambda () g))", "<nil>"},
			{"(f)", "<nil>"},
			{"(define g 7)", "<nil>"},
			{"(f)", "7"},
		}},
		{"closures", lisptest.TestSequence{
			{"(define make-adder (lambda (n) (lambda (x) (+ x n))))", "<nil>"},
			{"(define add2 (make-adder 2))", "<nil>"},
			{"(define add10 (make-adder 10))", "<nil>"},
			{"(list (add2 1) (add10 1))", "(3 11)"},
			{"(((lambda (x) (lambda (y) (cons x y))) 1) 2)", "(1 2)"},
			{`(define compose
				(lambda (f g)
					(lambda (x) (f (g x)))))`, "<nil>"},
			{"((compose add2 add10) 0)", "12"},
		}},
		{"shadowing builtins", lisptest.TestSequence{
			{"((lambda (car) (car 1)) (lambda (x) (+ x 1)))", "2"},
			{"(car (list 5))", "5"},
			{"(define + -)", "<nil>"},
			{"(+ 5 3)", "2"},
		}},
	}
	lisptest.RunTestSuite(t, tests)
}
