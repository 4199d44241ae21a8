// Copyright © 2018 The ELPS authors

package lisp

import (
	"bufio"
	"fmt"
	"io"
)

// ErrorVal implements the error interface so that failures can be converted
// into first class lisp objects.  An ErrorVal has the layout of an LError
// value: the error message is stored in the Str field and an *ErrorData is
// stored in the Native field.
type ErrorVal LVal

// Error returns a new ErrorVal representing err.
func Error(err error) *ErrorVal {
	return ErrorCondition(CondError, err)
}

// ErrorCondition returns an ErrorVal representing err that has the given
// condition type.
//
// Errors generated during expression evaluation typically have a non-nil
// call stack.  The LEnv.ErrorCondition method is typically the preferred
// method for creating errors because it captures an appropriate stack.
func ErrorCondition(condition string, err error) *ErrorVal {
	return &ErrorVal{
		Source: nativeSource(),
		Type:   LError,
		Str:    err.Error(),
		Native: &ErrorData{Condition: condition, Err: err},
	}
}

// Errorf returns an ErrorVal with a formatted error message.
func Errorf(format string, v ...interface{}) *ErrorVal {
	return ErrorConditionf(CondError, format, v...)
}

// ErrorConditionf returns an ErrorVal with the given condition type and a
// formatted error message.
func ErrorConditionf(condition string, format string, v ...interface{}) *ErrorVal {
	return &ErrorVal{
		Source: nativeSource(),
		Type:   LError,
		Str:    fmt.Sprintf(format, v...),
		Native: &ErrorData{Condition: condition},
	}
}

// Error implements the error interface.  The returned string is the bare
// error message.  Use String to include the source location.
func (e *ErrorVal) Error() string {
	return e.Str
}

// String returns the error message preceded by its source location, when
// the location is known.
func (e *ErrorVal) String() string {
	if e.Source != nil && e.Source.Pos >= 0 {
		return fmt.Sprintf("%s: %s", e.Source, e.Str)
	}
	return e.Str
}

// Unwrap returns the go error which caused e, if any.
func (e *ErrorVal) Unwrap() error {
	data := e.data()
	if data == nil {
		return nil
	}
	return data.Err
}

// Condition returns the error condition name (e.g., "parse-error",
// "arity-error").
func (e *ErrorVal) Condition() string {
	data := e.data()
	if data == nil {
		return CondError
	}
	return data.Condition
}

// CallStack returns the call stack captured when e was created, or nil.
func (e *ErrorVal) CallStack() *CallStack {
	data := e.data()
	if data == nil {
		return nil
	}
	return data.Stack
}

// FunName returns the name of the function on the top of the call stack when
// the error occurred.
func (e *ErrorVal) FunName() string {
	return e.CallStack().Top().FunName()
}

// LVal returns e as an inert LError value which can be printed or stored.
func (e *ErrorVal) LVal() *LVal {
	return (*LVal)(e)
}

// WriteTrace writes the error and a stack trace to w
func (e *ErrorVal) WriteTrace(w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	var n int
	var err error
	wrote := func(_n int, _err error) bool {
		n += _n
		err = _err
		return err == nil
	}
	if !wrote(bw.WriteString(e.String())) {
		return n, err
	}
	if !wrote(bw.WriteString("\n")) {
		return n, err
	}
	stack := e.CallStack()
	if stack != nil {
		if !wrote(stack.DebugPrint(bw)) {
			return n, err
		}
	}
	return n, bw.Flush()
}

func (e *ErrorVal) data() *ErrorData {
	data, _ := e.Native.(*ErrorData)
	return data
}
