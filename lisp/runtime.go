// Copyright © 2018 The ELPS authors

package lisp

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

// Runtime is an object underlying a family of tree of LEnv values.  It is
// responsible for holding shared environment state, generating identifiers,
// and writing debugging output to a stream (typically os.Stderr).
type Runtime struct {
	Stderr   io.Writer
	Stack    *CallStack
	Reader   Reader
	Profiler Profiler
	numenv   atomicCounter
	numfun   atomicCounter
}

// StandardRuntime returns a new Runtime with Stderr set to os.Stderr and a
// call stack limited to DefaultMaxStackHeight frames.
func StandardRuntime() *Runtime {
	return &Runtime{
		Stderr: os.Stderr,
		Stack:  &CallStack{MaxHeight: DefaultMaxStackHeight},
	}
}

// GenEnvID returns a new identifier for an LEnv.
func (r *Runtime) GenEnvID() uint {
	return r.numenv.Add(1)
}

// GenFID returns a new identifier for a lambda.
func (r *Runtime) GenFID() string {
	return fmt.Sprintf("_fun%d", r.numfun.Add(1))
}

func (r *Runtime) getStderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

type atomicCounter uint64

func (c *atomicCounter) Add(n uint) uint {
	return uint(atomic.AddUint64((*uint64)(c), uint64(n)))
}
