// Copyright © 2018 The ELPS authors

package lisp

import "fmt"

var langSpecialOps = []*langBuiltin{
	{"define", Formals("symbol", "expr"), opDefine,
		`Evaluates expr and binds the result to symbol in the current
		environment. An existing binding in the current environment is
		replaced, while bindings in enclosing environments are shadowed.
		Returns nil.`},
	{"lambda", Formals("formals", "expr"), opLambda,
		`Returns an anonymous function. Formals is a list of parameter
		symbols and expr is the single body expression. The function
		captures the environment in which it is created and must be
		called with exactly one argument per parameter.`},
}

// specialOps maps special operator names to their function values.  It is
// populated by init because operators indirectly reference it through
// LEnv.Eval.
var specialOps map[string]*LVal

func init() {
	specialOps = make(map[string]*LVal, len(langSpecialOps))
	for _, op := range langSpecialOps {
		id := fmt.Sprintf("<special-op ``%s''>", op.Name())
		fn := SpecialOp(id, op.Formals(), op.Eval)
		fn.Str = op.Name()
		fn.FunData().Doc = builtinDocstring(op)
		specialOps[op.Name()] = fn
	}
}

// DefaultSpecialOps returns the special operators recognized by LEnv.Eval.
// Special operators are syntax and are not bound in any environment.
func DefaultSpecialOps() []LBuiltinDef {
	ops := make([]LBuiltinDef, len(langSpecialOps))
	for i := range langSpecialOps {
		ops[i] = langSpecialOps[i]
	}
	return ops
}

// SpecialOpValue returns the function value of the special operator with the
// given name, or nil if no such operator exists.
func SpecialOpValue(name string) *LVal {
	return lookupSpecialOp(name)
}

func lookupSpecialOp(name string) *LVal {
	return specialOps[name]
}

func opDefine(env *LEnv, args *LVal) (*LVal, error) {
	if len(args.Cells) != 2 {
		return nil, env.ErrorConditionf(CondArityError, "wrong number of arguments")
	}
	sym := args.Cells[0]
	if sym.Type != LSymbol {
		return nil, env.ErrorConditionf(CondTypeError, "argument has wrong type")
	}
	v, err := env.Eval(args.Cells[1])
	if err != nil {
		return nil, err
	}
	err = env.Put(sym, v)
	if err != nil {
		return nil, err
	}
	return Nil(), nil
}

func opLambda(env *LEnv, args *LVal) (*LVal, error) {
	if len(args.Cells) != 2 {
		return nil, env.ErrorConditionf(CondArityError, "wrong number of arguments")
	}
	return env.Lambda(args.Cells[0], args.Cells[1])
}
