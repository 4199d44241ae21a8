// Package profiler provides lisp.Profiler implementations which report
// function applications to tracing systems and profiling tools.
package profiler

import (
	"fmt"
	"regexp"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/parser/token"
)

// profiler is a minimal lisp.Profiler
type profiler struct {
	runtime    *lisp.Runtime
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

var _ lisp.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Complete() error {
	p.enabled = false
	return nil
}

func (p *profiler) Start(fun *lisp.LVal) func() {
	return func() {}
}

// anonymousFunName names spans for lambdas which were never bound to a
// symbol.
const anonymousFunName = "lambda"

// defaultFunName returns the name a function was referenced by.  Builtins
// which were not referenced by name are identified by their FID.
func defaultFunName(fun *lisp.LVal) string {
	if fun.Type != lisp.LFun || fun.FunData() == nil {
		return ""
	}
	if fun.Str != "" {
		return fun.Str
	}
	if fun.Builtin() == nil {
		return anonymousFunName
	}
	return getFunNameFromFID(fun.FID())
}

// prettyFunName returns a pretty name and original name for a fun. If there is
// no pretty name, then the pretty name is the original name.
func (p *profiler) prettyFunName(fun *lisp.LVal) (string, string) {
	origLabel := defaultFunName(fun)
	if origLabel == "" {
		return "", ""
	}
	prettyLabel := origLabel
	if p.funLabeler != nil {
		prettyLabel = sanitizeLabel(p.funLabeler(p.runtime, fun))
	}
	if prettyLabel == "" {
		prettyLabel = origLabel
	}
	return prettyLabel, origLabel
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(v *lisp.LVal) bool {
	return !p.enabled || defaultSkipFilter(v) || p.skipFilter != nil && p.skipFilter(v)
}

var builtinRegex = regexp.MustCompile("<(?:builtin-function|special-op) ``(.*)''>")

// getFunNameFromFID extracts the name of a builtin from its FID.  Other FIDs
// are returned unmodified.
func getFunNameFromFID(fid string) string {
	m := builtinRegex.FindStringSubmatch(fid)
	if m == nil {
		return fid
	}
	return m[1]
}

// getSourceLoc returns the location where fun was defined, or nil for
// functions which do not originate in source text.
func getSourceLoc(fun *lisp.LVal) *token.Location {
	if fun.Source == nil || fun.Source.Pos < 0 {
		return nil
	}
	return fun.Source
}

// funKind classifies fun for span attributes.
func funKind(fun *lisp.LVal) string {
	if fun.Builtin() != nil {
		return "builtin"
	}
	return "lambda"
}
