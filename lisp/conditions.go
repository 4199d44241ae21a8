// Copyright © 2024 The ELPS authors

package lisp

// Error condition names.  These are stable API for programmatic error
// classification by drivers and tooling.
const (
	CondError         = "error"
	CondParseError    = "parse-error"
	CondTypeError     = "type-error"
	CondArityError    = "arity-error"
	CondCallError     = "call-error"
	CondStackOverflow = "stack-overflow"
)
