// Copyright © 2018 The ELPS authors

package lisp

import (
	"io"
)

// Config is a function that configures a root environment or its runtime.
type Config func(env *LEnv) error

// WithMaximumStackHeight returns a Config that will prevent an execution
// environment from allowing the call stack height to exceed n.  A value of 0
// removes the limit, which allows deep recursion to exhaust the go stack.
func WithMaximumStackHeight(n int) Config {
	return func(env *LEnv) error {
		env.Runtime.Stack.MaxHeight = n
		return nil
	}
}

// WithReader returns a Config that makes environments use r to parse source
// streams.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *LEnv) error {
		env.Runtime.Reader = r
		return nil
	}
}

// WithStderr returns a Config that makes environments write debugging output
// to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(env *LEnv) error {
		env.Runtime.Stderr = w
		return nil
	}
}

// WithProfiler returns a Config that installs p in the runtime and enables
// it, if it is not already enabled.
func WithProfiler(p Profiler) Config {
	return func(env *LEnv) error {
		env.Runtime.Profiler = p
		if p.IsEnabled() {
			return nil
		}
		return p.Enable()
	}
}
