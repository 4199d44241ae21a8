package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/golang-collections/collections/stack"
	"github.com/luthersystems/tinylisp/lisp"
)

// pprofAnnotator labels the current goroutine with the name of the
// function being applied so that CPU profiles can be broken down by lisp
// function.  It does not start a CPU profile itself.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
	contexts       *stack.Stack
}

var _ lisp.Profiler = &pprofAnnotator{}

// FunctionLabel is the pprof label key holding the function name.
const FunctionLabel = "function"

func NewPprofAnnotator(runtime *lisp.Runtime, parentContext context.Context, opts ...Option) *pprofAnnotator {
	p := &pprofAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
		contexts:       stack.New(),
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return p.profiler.Complete()
}

// Context returns the context holding the labels of the innermost function
// application.
func (p *pprofAnnotator) Context() context.Context {
	return p.currentContext
}

func (p *pprofAnnotator) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	// pprof.Do would require evaluation to run inside a callback
	p.contexts.Push(p.currentContext)
	prettyLabel, _ := p.prettyFunName(fun)
	p.currentContext = pprof.WithLabels(p.currentContext, pprof.Labels(FunctionLabel, prettyLabel))
	pprof.SetGoroutineLabels(p.currentContext)
	return func() {
		p.currentContext = p.contexts.Pop().(context.Context)
		pprof.SetGoroutineLabels(p.currentContext)
	}
}
