// Copyright © 2018 The ELPS authors

package lisp

// LBuiltin is a function that performs executes a lisp function.
type LBuiltin func(env *LEnv, args *LVal) (*LVal, error)

// LBuiltinDef is a built-in function
type LBuiltinDef interface {
	Name() string
	Formals() *LVal
	Eval(env *LEnv, args *LVal) (*LVal, error)
}

type langBuiltin struct {
	name    string
	formals *LVal
	fun     LBuiltin
	docs    string
}

func (fun *langBuiltin) Name() string {
	return fun.name
}

func (fun *langBuiltin) Formals() *LVal {
	return fun.formals
}

func (fun *langBuiltin) Eval(env *LEnv, args *LVal) (*LVal, error) {
	return fun.fun(env, args)
}

func (fun *langBuiltin) Docstring() string {
	return fun.docs
}

// builtinDocstring returns the documentation of f if it has any.
func builtinDocstring(f LBuiltinDef) string {
	d, ok := f.(interface{ Docstring() string })
	if !ok {
		return ""
	}
	return cleanDocstring(d.Docstring())
}

var langBuiltins = []*langBuiltin{
	{"+", Formals(VarArgSymbol, "numbers"), builtinAdd,
		`Returns the sum of its arguments. Returns 0 when called with no
		arguments. Integer overflow wraps around.`},
	{"-", Formals("number", VarArgSymbol, "numbers"), builtinSub,
		`Subtracts each remaining argument from the first, left to right.
		At least two arguments are required.`},
	{"*", Formals(VarArgSymbol, "numbers"), builtinMul,
		`Returns the product of its arguments. Returns 1 when called with
		no arguments. Integer overflow wraps around.`},
	{"list", Formals(VarArgSymbol, "args"), builtinList,
		`Returns a list containing the given arguments in order.`},
	{"cons", Formals("head", "tail"), builtinCons,
		`Returns a two element list containing head and tail.`},
	{"car", Formals("lis"), builtinCAR,
		`Returns the first element of a list. Signals an error if lis is
		empty or is not a list.`},
}

// DefaultBuiltins returns the default set of LBuiltinDefs added to LEnv
// objects when LEnv.AddBuiltins is called without arguments.
func DefaultBuiltins() []LBuiltinDef {
	ops := make([]LBuiltinDef, len(langBuiltins))
	for i := range langBuiltins {
		ops[i] = langBuiltins[i]
	}
	return ops
}

func checkInts(env *LEnv, args *LVal) error {
	for _, c := range args.Cells {
		if c.Type != LInt {
			return env.ErrorConditionf(CondTypeError, "argument has wrong type")
		}
	}
	return nil
}

func builtinAdd(env *LEnv, args *LVal) (*LVal, error) {
	if err := checkInts(env, args); err != nil {
		return nil, err
	}
	var sum int64
	for _, c := range args.Cells {
		sum += c.Int
	}
	return Int(sum), nil
}

func builtinSub(env *LEnv, args *LVal) (*LVal, error) {
	if len(args.Cells) < 2 {
		return nil, env.ErrorConditionf(CondArityError, "not enough arguments")
	}
	if err := checkInts(env, args); err != nil {
		return nil, err
	}
	diff := args.Cells[0].Int
	for _, c := range args.Cells[1:] {
		diff -= c.Int
	}
	return Int(diff), nil
}

func builtinMul(env *LEnv, args *LVal) (*LVal, error) {
	if err := checkInts(env, args); err != nil {
		return nil, err
	}
	prod := int64(1)
	for _, c := range args.Cells {
		prod *= c.Int
	}
	return Int(prod), nil
}

func builtinList(env *LEnv, args *LVal) (*LVal, error) {
	cells := make([]*LVal, len(args.Cells))
	copy(cells, args.Cells)
	return SExpr(cells), nil
}

func builtinCons(env *LEnv, args *LVal) (*LVal, error) {
	if len(args.Cells) != 2 {
		return nil, env.ErrorConditionf(CondArityError, "wrong number of arguments")
	}
	head, tail := args.Cells[0], args.Cells[1]
	return SExpr([]*LVal{head, tail}), nil
}

func builtinCAR(env *LEnv, args *LVal) (*LVal, error) {
	if len(args.Cells) != 1 {
		return nil, env.ErrorConditionf(CondArityError, "wrong number of arguments")
	}
	v := args.Cells[0]
	if v.Type != LSExpr {
		return nil, env.ErrorConditionf(CondTypeError, "argument has wrong type")
	}
	if len(v.Cells) == 0 {
		return nil, env.Errorf("empty list")
	}
	return v.Cells[0], nil
}
