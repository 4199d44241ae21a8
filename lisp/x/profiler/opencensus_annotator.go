package profiler

import (
	"context"
	"errors"

	"github.com/golang-collections/collections/stack"
	"github.com/luthersystems/tinylisp/lisp"
	"go.opencensus.io/trace"
)

type ocAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
	contexts       *stack.Stack
}

var _ lisp.Profiler = &ocAnnotator{}

// NewOpenCensusAnnotator returns a profiler that records an opencensus span
// for each function application.
func NewOpenCensusAnnotator(runtime *lisp.Runtime, parentContext context.Context, opts ...Option) *ocAnnotator {
	p := &ocAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
		contexts:       stack.New(),
	}
	p.profiler.applyConfigs(opts...)
	return p
}

// EnableWithContext enables the profiler with spans parented by ctx.
func (p *ocAnnotator) EnableWithContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("a context is required")
	}
	p.currentContext = ctx
	return p.Enable()
}

func (p *ocAnnotator) Enable() error {
	if p.currentContext == nil {
		return errors.New("spans can only be appended to a context linked to opencensus")
	}
	p.runtime.Profiler = p
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	for p.contexts.Len() > 0 {
		p.currentSpan.End()
		p.currentContext = p.contexts.Pop().(context.Context)
		p.currentSpan = trace.FromContext(p.currentContext)
	}
	return p.profiler.Complete()
}

func (p *ocAnnotator) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	prettyLabel, _ := p.prettyFunName(fun)
	p.contexts.Push(p.currentContext)
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, prettyLabel)
	p.currentSpan.AddAttributes(trace.StringAttribute("kind", funKind(fun)))
	return func() {
		p.end(fun)
	}
}

func (p *ocAnnotator) end(fun *lisp.LVal) {
	if p.contexts.Len() == 0 {
		return
	}
	if loc := getSourceLoc(fun); loc != nil {
		p.currentSpan.Annotate([]trace.Attribute{
			trace.StringAttribute("file", loc.File),
			trace.Int64Attribute("line", int64(loc.Line)),
		}, "source")
	}
	p.currentSpan.End()
	p.currentContext = p.contexts.Pop().(context.Context)
	p.currentSpan = trace.FromContext(p.currentContext)
}
