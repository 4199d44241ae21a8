// Copyright © 2018 The ELPS authors

package lisp

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/luthersystems/tinylisp/parser/token"
)

// InitializeUserEnv populates the root environment env with the default
// builtin functions and then applies config in order.
func InitializeUserEnv(env *LEnv, config ...Config) error {
	env.AddBuiltins()
	for _, fn := range config {
		err := fn(env)
		if err != nil {
			return err
		}
	}
	return nil
}

// LEnv is a lisp environment.
type LEnv struct {
	Loc     *token.Location
	Scope   map[string]*LVal
	Parent  *LEnv
	Runtime *Runtime
	ID      uint
}

// NewEnvRuntime initializes a new LEnv, like NewEnv, but it explicitly
// specifies the runtime to use.  NewEnvRuntime is only suitable for creating
// root LEnv object, so it does not take a parent argument.  When rt is nil
// StandardRuntime() called to create a new Runtime for the returned LEnv.  It
// is an error to use the same runtime object in multiple calls to
// NewEnvRuntime if the two envs are not in the same tree and doing so will
// have unspecified results.
func NewEnvRuntime(rt *Runtime) *LEnv {
	if rt == nil {
		rt = StandardRuntime()
	}
	return &LEnv{
		ID:      rt.GenEnvID(),
		Loc:     nativeSource(),
		Scope:   make(map[string]*LVal),
		Runtime: rt,
	}
}

// NewEnv returns initializes and returns a new LEnv.  When parent is nil the
// returned LEnv is a root environment with a StandardRuntime.
func NewEnv(parent *LEnv) *LEnv {
	if parent == nil {
		return NewEnvRuntime(nil)
	}
	return &LEnv{
		ID:      parent.Runtime.GenEnvID(),
		Loc:     parent.Loc,
		Scope:   make(map[string]*LVal),
		Parent:  parent,
		Runtime: parent.Runtime,
	}
}

// LoadString reads and evaluates exprs.  See Load.
func (env *LEnv) LoadString(name, exprs string) (*LVal, error) {
	return env.Load(name, strings.NewReader(exprs))
}

// LoadFile reads the lisp source file at path and evaluates the expressions
// it contains.  See Load.
func (env *LEnv) LoadFile(path string) (*LVal, error) {
	f, err := os.Open(path) //#nosec G304
	if err != nil {
		return nil, env.Error(err)
	}
	defer f.Close()
	return env.LoadLocation(filepath.Base(path), path, f)
}

// Load reads LVals from r and evaluates them in order.  The value returned by
// the last evaluated LVal will be retured.  No expression is evaluated if r
// cannot be parsed.  If env.Runtime.Reader has not been set then an error
// will be returned by Load.
func (env *LEnv) Load(name string, r io.Reader) (*LVal, error) {
	if env.Runtime.Reader == nil {
		return nil, env.Errorf("no reader for environment runtime")
	}
	exprs, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		return nil, env.ErrorAssociate(err)
	}
	return env.load(exprs)
}

// LoadLocation is like Load but associates the physical location loc with
// source read from r, if env.Runtime.Reader is a LocationReader.
func (env *LEnv) LoadLocation(name string, loc string, r io.Reader) (*LVal, error) {
	if env.Runtime.Reader == nil {
		return nil, env.Errorf("no reader for environment runtime")
	}
	reader, ok := env.Runtime.Reader.(LocationReader)
	if !ok {
		return env.Load(name, r)
	}
	exprs, err := reader.ReadLocation(name, loc, r)
	if err != nil {
		return nil, env.ErrorAssociate(err)
	}
	return env.load(exprs)
}

func (env *LEnv) load(exprs []*LVal) (*LVal, error) {
	ret := Nil()
	for _, expr := range exprs {
		var err error
		ret, err = env.Eval(expr)
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// Get takes an LSymbol k and returns the LVal it is bound to in env or one of
// its ancestors.  Get returns Nil when k is not bound.
func (env *LEnv) Get(k *LVal) *LVal {
	if k.Type != LSymbol {
		return Nil()
	}
	for e := env; e != nil; e = e.Parent {
		v, ok := e.Scope[k.Str]
		if !ok {
			continue
		}
		if v.Type == LFun {
			// Set the function's name here in case the same function is
			// defined with multiple names.  We want to try and use the name
			// the programmer used.
			return FunRef(k, v)
		}
		return v
	}
	return Nil()
}

// GetFunName returns the local name used to reference f, if any.
func (env *LEnv) GetFunName(f *LVal) string {
	if f.Type != LFun {
		panic("not a function: " + f.Type.String())
	}
	return f.Str
}

// Put takes an LSymbol k and binds it to v in the local scope of env.  If k
// is already bound in env the binding is updated.  Bindings in ancestors of
// env are never modified.
func (env *LEnv) Put(k, v *LVal) error {
	if k.Type != LSymbol {
		return env.ErrorConditionf(CondTypeError, "argument has wrong type")
	}
	env.Scope[k.Str] = v
	return nil
}

// Lambda returns a new lambda which captures env.  Formals must be a list of
// symbols.
func (env *LEnv) Lambda(formals *LVal, body *LVal) (*LVal, error) {
	if formals.Type != LSExpr {
		return nil, env.ErrorConditionf(CondTypeError, "arguments are not a list")
	}
	for _, sym := range formals.Cells {
		if sym.Type != LSymbol {
			return nil, env.ErrorConditionf(CondTypeError, "arguments are not a list")
		}
	}
	fun := &LVal{
		Type:   LFun,
		Source: env.Loc,
		Native: &LFunData{
			FID: env.Runtime.GenFID(),
			Env: env,
		},
		Cells: []*LVal{formals, body},
	}
	return fun, nil
}

func (env *LEnv) root() *LEnv {
	for env.Parent != nil {
		env = env.Parent
	}
	return env
}

// AddBuiltins binds the given funs to their names in env.  When called with no
// arguments AddBuiltins adds the DefaultBuiltins to env.
func (env *LEnv) AddBuiltins(funs ...LBuiltinDef) {
	if len(funs) == 0 {
		funs = DefaultBuiltins()
	}
	for _, f := range funs {
		if _, ok := env.Scope[f.Name()]; ok {
			panic("symbol already defined: " + f.Name())
		}
		id := fmt.Sprintf("<builtin-function ``%s''>", f.Name())
		v := Fun(id, f.Formals(), f.Eval)
		v.Str = f.Name()
		v.FunData().Doc = builtinDocstring(f)
		env.Scope[f.Name()] = v
	}
}

// Error returns an ErrorVal representing err.
//
// Unlike the exported function, the Error method returns an ErrorVal with a
// copy env.Runtime.Stack.
func (env *LEnv) Error(err error) *ErrorVal {
	return env.ErrorCondition(CondError, err)
}

// ErrorCondition returns an ErrorVal with the given condition type
// representing err.
//
// Unlike the exported function, the ErrorCondition method returns an ErrorVal
// with a copy env.Runtime.Stack.
func (env *LEnv) ErrorCondition(condition string, err error) *ErrorVal {
	lerr := ErrorCondition(condition, err)
	lerr.Source = env.Loc
	lerr.data().Stack = env.Runtime.Stack.Copy()
	return lerr
}

// Errorf returns an ErrorVal with a formatted error message.
//
// Unlike the exported function, the Errorf method returns an ErrorVal with a
// copy env.Runtime.Stack.
func (env *LEnv) Errorf(format string, v ...interface{}) *ErrorVal {
	return env.ErrorConditionf(CondError, format, v...)
}

// ErrorConditionf returns an ErrorVal with the given condition type and a
// a formatted error message rendered using fmt.Sprintf.
//
// Unlike the exported function, the ErrorConditionf method returns an
// ErrorVal with a copy env.Runtime.Stack.
func (env *LEnv) ErrorConditionf(condition string, format string, v ...interface{}) *ErrorVal {
	lerr := ErrorConditionf(condition, format, v...)
	lerr.Source = env.Loc
	lerr.data().Stack = env.Runtime.Stack.Copy()
	return lerr
}

// ErrorAssociate associates err with env's current call stack and source
// location.  If err is not an *ErrorVal it is converted into one with the
// condition "error".  The returned error is always an *ErrorVal.
func (env *LEnv) ErrorAssociate(err error) error {
	lerr, ok := err.(*ErrorVal)
	if !ok {
		return env.Error(err)
	}
	data := lerr.data()
	if data == nil {
		data = &ErrorData{Condition: CondError}
		lerr.Native = data
	}
	if data.Stack == nil {
		data.Stack = env.Runtime.Stack.Copy()
	}
	// All objects are given a source which may be a nativeSource() value
	// which does not correspond to a file and has an invalid position (-1).
	// The env's current location is probably more accurate.
	if lerr.Source == nil || lerr.Source.Pos < 0 {
		lerr.Source = env.Loc
	}
	return lerr
}

// Eval evaluates v in the context (scope) of env and returns the resulting
// LVal.  Eval does not modify v.  Any error returned by Eval is an *ErrorVal.
func (env *LEnv) Eval(v *LVal) (*LVal, error) {
	env.Loc = v.Source
	switch v.Type {
	case LSymbol:
		return env.Get(v), nil
	case LSExpr:
		res, err := env.EvalSExpr(v)
		if err != nil {
			return nil, env.ErrorAssociate(err)
		}
		return res, nil
	default:
		return v, nil
	}
}

// EvalSExpr evaluates s and returns the resulting LVal.  The empty list
// evaluates to itself.  A list with a special operator symbol in its head is
// passed to the operator unevaluated.  Otherwise every element of s is
// evaluated and the first is applied to the rest.
func (env *LEnv) EvalSExpr(s *LVal) (*LVal, error) {
	if s.Type != LSExpr {
		return nil, env.Errorf("not an s-expression")
	}
	if len(s.Cells) == 0 {
		return s, nil
	}
	if head := s.Cells[0]; head.Type == LSymbol {
		op := lookupSpecialOp(head.Str)
		if op != nil {
			return env.SpecialOpCall(op, SExpr(s.Cells[1:]))
		}
	}
	call, err := env.evalSExprCells(s)
	if err != nil {
		return nil, err
	}
	return env.FunCall(call[0], SExpr(call[1:]))
}

func (env *LEnv) evalSExprCells(s *LVal) ([]*LVal, error) {
	loc := env.Loc
	defer func() { env.Loc = loc }()

	cells := make([]*LVal, 0, len(s.Cells))
	for _, expr := range s.Cells {
		v, err := env.Eval(expr)
		if err != nil {
			return nil, err
		}
		cells = append(cells, v)
	}
	return cells, nil
}

// SpecialOpCall invokes special operator fun with the unevaluated argument
// list args.
func (env *LEnv) SpecialOpCall(fun, args *LVal) (*LVal, error) {
	if !fun.IsSpecialOp() {
		return nil, env.Errorf("not a special operator: %v", fun.Type)
	}

	// Push a frame onto the stack to represent the operator's execution.
	err := env.Runtime.Stack.PushFID(env.Loc, fun.FID(), env.GetFunName(fun))
	if err != nil {
		return nil, env.ErrorCondition(CondStackOverflow, err)
	}
	defer env.Runtime.Stack.Pop()

	return env.callBuiltin(fun, args)
}

// FunCall invokes regular function fun with the argument list args.
func (env *LEnv) FunCall(fun, args *LVal) (*LVal, error) {
	if fun.Type != LFun {
		return nil, env.ErrorConditionf(CondCallError, "cannot call non-function")
	}
	if fun.IsSpecialOp() {
		return nil, env.ErrorConditionf(CondCallError, "not a regular function: %v", fun.FunType)
	}

	if env.Runtime.Profiler != nil {
		defer env.trace(fun)()
	}

	// Push a frame onto the stack to represent the function's execution.
	err := env.Runtime.Stack.PushFID(env.Loc, fun.FID(), env.GetFunName(fun))
	if err != nil {
		return nil, env.ErrorCondition(CondStackOverflow, err)
	}
	defer env.Runtime.Stack.Pop()

	if fun.Builtin() != nil {
		return env.callBuiltin(fun, args)
	}
	fenv, err := env.bind(fun, args)
	if err != nil {
		return nil, err
	}
	return fenv.Eval(fun.Body())
}

func (env *LEnv) trace(fun *LVal) func() {
	if env.Runtime.Profiler == nil {
		return func() {}
	}
	return env.Runtime.Profiler.Start(fun)
}

func (env *LEnv) callBuiltin(fun, args *LVal) (*LVal, error) {
	r, err := fun.Builtin()(env, args)
	if err != nil {
		return nil, env.ErrorAssociate(err)
	}
	if r == nil {
		_, _ = env.Runtime.Stack.DebugPrint(env.Runtime.getStderr())
		panic("nil LVal returned from function call")
	}
	return r, nil
}

// bind returns a new child of the environment captured by lambda fun in
// which the parameters of fun are bound to args.  The bind function does not
// modify fun or args.
func (env *LEnv) bind(fun, args *LVal) (*LEnv, error) {
	formals := fun.Formals()
	if len(args.Cells) != len(formals.Cells) {
		return nil, env.ErrorConditionf(CondArityError, "wrong number of arguments")
	}
	parent := fun.Env()
	if parent == nil {
		parent = env.root()
	}
	fenv := NewEnv(parent)
	for i, sym := range formals.Cells {
		fenv.Scope[sym.Str] = args.Cells[i]
	}
	return fenv, nil
}
