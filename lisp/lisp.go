// Copyright © 2018 The ELPS authors

package lisp

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/luthersystems/tinylisp/parser/token"
)

// LType is the type of an LVal
type LType uint

// Possible LValType values
const (
	// LInvalid (0) is not a valid lisp type.
	LInvalid LType = iota
	// LNil is the empty value.  It is the result of looking up an unbound
	// symbol and of special forms which produce no value.
	LNil
	// LInt values store an int64 in the LVal.Int field.
	LInt
	// LError values are inert error data.  The error message is stored in
	// the LVal.Str field and an *ErrorData is stored in LVal.Native.
	//
	// An LError value never signals a failure by itself.  Failures are
	// returned through the error channel as *ErrorVal, which can be
	// converted into an LError with ErrorVal.LVal.
	LError
	// LSymbol values store the symbol name in the LVal.Str field.
	LSymbol
	// LSExpr values are "list" values in lisp and store their values in
	// LVal.Cells.
	LSExpr
	// LFun values use the following fields in an LVal:
	// 		LVal.Str      The local name used to reference the function (if any)
	// 		LVal.Native   An LFunData object
	//
	// A function defined in lisp with lambda uses the LVal.Cells field to
	// store the following items:
	//		[0]  a list of parameter symbols
	//		[1]  the body expression of the function
	//
	// Builtin functions store a descriptive argument list in Cells[0] which
	// is only used for documentation.
	LFun
	// LTypeMax is not a real type but represents a value numerically greater
	// than all valid LType values.
	LTypeMax
)

var lvalTypeStrings = []string{
	LInvalid: "INVALID",
	LNil:     "nil",
	LInt:     "int",
	LError:   "error",
	LSymbol:  "symbol",
	LSExpr:   "list",
	LFun:     "function",
}

func (t LType) String() string {
	if t >= LType(len(lvalTypeStrings)) {
		return lvalTypeStrings[LInvalid]
	}
	return lvalTypeStrings[t]
}

// LFunType denotes special functions.  LFunNone indicates a normal function.
type LFunType uint8

// LFunType constants.
const (
	LFunNone LFunType = iota
	LFunSpecialOp
)

var lfunTypeStrings = []string{
	LFunNone:      "function",
	LFunSpecialOp: "operator",
}

func (ft LFunType) String() string {
	if ft >= LFunType(len(lfunTypeStrings)) {
		return "invalid-function-type"
	}
	return lfunTypeStrings[ft]
}

// LFunData is the native data of an LFun value.  A non-nil Builtin means the
// function is implemented in Go.  Otherwise the function is a lambda and Env
// is the environment it captured when it was created.
type LFunData struct {
	Builtin LBuiltin
	Env     *LEnv
	FID     string
	Doc     string
}

// ErrorData is the native data of an LError value.
type ErrorData struct {
	Condition string
	Stack     *CallStack
	Err       error // the go error which caused the failure, if any
}

// LVal is a lisp value
type LVal struct {
	// Native is generic storage for data which cannot be represented as an
	// LVal (and thus can't be stored in Cells).
	Native interface{}

	// Source is the values originating location in source code.  Programs
	// should not modify the contents of Source as the reference may be shared
	// by multiple LVals.
	Source *token.Location

	// Str used by LSymbol and LError values and the local name of LFun
	// values.
	Str string

	// Cells used by lists and functions as a storage space for lisp
	// objects.
	Cells []*LVal

	// Type is the native type for a value in lisp.
	Type LType

	// Int is the value of an LInt.
	Int int64

	// FunType used to further classify LFun values.
	FunType LFunType
}

// Nil returns an LVal representing nil, an absent value.
func Nil() *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LNil,
	}
}

// Int returns an LVal representing the number x.
func Int(x int64) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LInt,
		Int:    x,
	}
}

// Symbol returns an LVal representing the symbol s
func Symbol(s string) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LSymbol,
		Str:    s,
	}
}

// SExpr returns an LVal representing an S-expression, a list.  Provided cells
// are used as backing storage for the returned expression and are not copied.
func SExpr(cells []*LVal) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LSExpr,
		Cells:  cells,
	}
}

// ErrorDatum returns an inert LError value with the given message.
func ErrorDatum(msg string) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LError,
		Str:    msg,
		Native: &ErrorData{Condition: CondError},
	}
}

// FunRef returns a reference to fun that uses the local name symbol.
func FunRef(symbol, fun *LVal) *LVal {
	if symbol.Type != LSymbol || fun.Type != LFun {
		return fun
	}
	cp := &LVal{}
	*cp = *fun
	cp.Str = symbol.Str
	return cp
}

// Fun returns an LVal representing a builtin function
func Fun(fid string, formals *LVal, fn LBuiltin) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LFun,
		Native: &LFunData{
			FID:     fid,
			Builtin: fn,
		},
		Cells: []*LVal{formals},
	}
}

// SpecialOp returns an LVal representing a special operator.  Special
// operators are functions which receive their arguments unevaluated.
func SpecialOp(fid string, formals *LVal, fn LBuiltin) *LVal {
	v := Fun(fid, formals, fn)
	v.FunType = LFunSpecialOp
	return v
}

// Formals returns an LVal reprsenting a function's formal argument list
// containing symbols with the given names.
func Formals(argSymbols ...string) *LVal {
	s := SExpr(make([]*LVal, len(argSymbols)))
	for i, name := range argSymbols {
		s.Cells[i] = Symbol(name)
	}
	return s
}

// FunData returns the function data of an LFun, or nil.
func (v *LVal) FunData() *LFunData {
	if v.Type != LFun {
		return nil
	}
	fd, _ := v.Native.(*LFunData)
	return fd
}

// Builtin returns the Go implementation of a builtin function.  Builtin
// returns nil for lambdas.
func (v *LVal) Builtin() LBuiltin {
	fd := v.FunData()
	if fd == nil {
		return nil
	}
	return fd.Builtin
}

// FID returns the unique function identifier of an LFun.
func (v *LVal) FID() string {
	fd := v.FunData()
	if fd == nil {
		return ""
	}
	return fd.FID
}

// Env returns the environment captured by a lambda.
func (v *LVal) Env() *LEnv {
	fd := v.FunData()
	if fd == nil {
		return nil
	}
	return fd.Env
}

// Formals returns the parameter list of an LFun.
func (v *LVal) Formals() *LVal {
	if v.Type != LFun || len(v.Cells) == 0 {
		return nil
	}
	return v.Cells[0]
}

// Body returns the body expression of a lambda, or nil for builtins.
func (v *LVal) Body() *LVal {
	if v.Type != LFun || v.Builtin() != nil || len(v.Cells) < 2 {
		return nil
	}
	return v.Cells[1]
}

// ErrorData returns the native data of an LError.
func (v *LVal) ErrorData() *ErrorData {
	if v.Type != LError {
		return nil
	}
	data, _ := v.Native.(*ErrorData)
	return data
}

// CallStack returns the call stack captured by an LError, if any.
func (v *LVal) CallStack() *CallStack {
	data := v.ErrorData()
	if data == nil {
		return nil
	}
	return data.Stack
}

// Len returns the number of cells in a list.  Len returns 0 for other types.
func (v *LVal) Len() int {
	if v.Type != LSExpr {
		return 0
	}
	return len(v.Cells)
}

// IsNil returns true if v is nil.
func (v *LVal) IsNil() bool {
	return v.Type == LNil
}

// IsSpecialOp returns true if v is a special operator.
func (v *LVal) IsSpecialOp() bool {
	return v.Type == LFun && v.FunType == LFunSpecialOp
}

// Docstring returns the docstring of the function reference v.  If v is not
// a function or has no documentation Docstring returns the empty string.
func (v *LVal) Docstring() string {
	fd := v.FunData()
	if fd == nil {
		return ""
	}
	return fd.Doc
}

// Equal returns true if a and b are structurally equal.  Functions are equal
// only when they reference the same function, regardless of local name.
func Equal(a, b *LVal) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Type != b.Type {
		return false
	}
	switch a.Type {
	case LNil:
		return true
	case LInt:
		return a.Int == b.Int
	case LSymbol, LError:
		return a.Str == b.Str
	case LSExpr:
		if len(a.Cells) != len(b.Cells) {
			return false
		}
		for i := range a.Cells {
			if !Equal(a.Cells[i], b.Cells[i]) {
				return false
			}
		}
		return true
	case LFun:
		return a.FunData() == b.FunData()
	default:
		return false
	}
}

func (v *LVal) String() string {
	switch v.Type {
	case LNil:
		return "<nil>"
	case LInt:
		return strconv.FormatInt(v.Int, 10)
	case LSymbol:
		return v.Str
	case LSExpr:
		return exprString(v)
	case LFun:
		return "<callable>"
	case LError:
		return "Error(" + v.Str + ")"
	default:
		return fmt.Sprintf("#<%s>", v.Type)
	}
}

func exprString(v *LVal) string {
	var buf bytes.Buffer
	buf.WriteString("(")
	for i, c := range v.Cells {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(c.String())
	}
	buf.WriteString(")")
	return buf.String()
}

// TODO: make LVal.Source immutable so nativeSource need not return a shared
// reference.
func nativeSource() *token.Location {
	return defaultSourceLocation
}

var defaultSourceLocation = token.Native()
