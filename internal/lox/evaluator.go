package lox

import "time"

// Evaluator walks the resolved AST and executes it directly against a chain
// of Environments. locals is populated exclusively by the Resolver and is
// consulted here to choose between an indexed ancestor walk (GetAt/AssignAt)
// and a global lookup.
type Evaluator struct {
	globals *Environment
	env     *Environment
	locals  map[TokenKey]int
}

// NewEvaluator creates an Evaluator with a fresh global scope populated with
// the native functions.
func NewEvaluator() *Evaluator {
	globals := NewEnvironment(nil)
	ev := &Evaluator{globals: globals, env: globals, locals: make(map[TokenKey]int)}
	ev.defineNatives()
	return ev
}

// defineNatives wires the built-in functions into the global scope as
// ordinary Callable values, so arity checking and `print` formatting treat
// them like any user function.
func (ev *Evaluator) defineNatives() {
	ev.globals.Define("clock", &NativeFunction{
		Name:   "clock",
		Params: 0,
		Fn: func(_ *Evaluator, _ []Value) (Value, error) {
			return NumberValue(float64(time.Now().UnixNano()) / float64(time.Second)), nil
		},
	})
}

// Interpret executes a resolved program's statements in sequence.
func (ev *Evaluator) Interpret(stmts []Stmt) error {
	for _, s := range stmts {
		if err := ev.execute(s); err != nil {
			return err
		}
	}
	return nil
}

func (ev *Evaluator) execute(stmt Stmt) error {
	switch s := stmt.(type) {
	case *ExprStmt:
		_, err := ev.evaluate(s.Expr)
		return err
	case *PrintStmt:
		v, err := ev.evaluate(s.Expr)
		if err != nil {
			return err
		}
		ev.print(stringify(v))
		return nil
	case *VarStmt:
		var value Value = NilValue{}
		if s.Init != nil {
			v, err := ev.evaluate(s.Init)
			if err != nil {
				return err
			}
			value = v
		}
		ev.env.Define(s.Name.Lexeme, value)
		return nil
	case *BlockStmt:
		return ev.executeBlock(s.Stmts, NewEnvironment(ev.env))
	case *IfStmt:
		cond, err := ev.evaluate(s.Cond)
		if err != nil {
			return err
		}
		if IsTruthy(cond) {
			return ev.execute(s.Then)
		} else if s.Else != nil {
			return ev.execute(s.Else)
		}
		return nil
	case *WhileStmt:
		for {
			cond, err := ev.evaluate(s.Cond)
			if err != nil {
				return err
			}
			if !IsTruthy(cond) {
				return nil
			}
			if err := ev.execute(s.Body); err != nil {
				return err
			}
		}
	case *FunctionStmt:
		fn := &Function{Decl: s, Closure: ev.env}
		ev.env.Define(s.Name.Lexeme, fn)
		return nil
	case *ClassStmt:
		return ev.executeClass(s)
	case *ReturnStmt:
		var value Value = NilValue{}
		if s.Value != nil {
			v, err := ev.evaluate(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return &ReturnSignal{Value: value}
	default:
		return nil
	}
}

// print is the sole output channel for the `print` statement. It writes
// through the package-level writer that SetOutput redirects.
func (ev *Evaluator) print(s string) { stdout(s) }

func (ev *Evaluator) executeClass(s *ClassStmt) error {
	var superclass *Class
	if s.Superclass != nil {
		v, err := ev.evaluate(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return &RunTimeError{Token: &s.Superclass.Name, Message: "Superclass must be a class."}
		}
		superclass = sc
	}

	ev.env.Define(s.Name.Lexeme, NilValue{})

	classEnv := ev.env
	if superclass != nil {
		classEnv = NewEnvironment(ev.env)
		classEnv.Define("super", superclass)
	}

	methods := make(map[string]*Function)
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &Function{
			Decl:          m,
			Closure:       classEnv,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &Class{Name: s.Name.Lexeme, Methods: methods, Superclass: superclass}
	return ev.env.Assign(s.Name, class)
}

// executeBlock runs stmts against env, restoring the evaluator's prior
// environment on return (including via the ReturnSignal error path).
func (ev *Evaluator) executeBlock(stmts []Stmt, env *Environment) error {
	previous := ev.env
	ev.env = env
	defer func() { ev.env = previous }()

	for _, s := range stmts {
		if err := ev.execute(s); err != nil {
			return err
		}
	}
	return nil
}

// --- expressions -----------------------------------------------------------

func (ev *Evaluator) evaluate(expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *GroupingExpr:
		return ev.evaluate(e.Expr)
	case *LiteralExpr:
		return ev.evalLiteral(e), nil
	case *UnaryExpr:
		return ev.evalUnary(e)
	case *BinaryExpr:
		return ev.evalBinary(e)
	case *LogicalExpr:
		return ev.evalLogical(e)
	case *VariableExpr:
		return ev.lookupVariable(e.Name, e.Name)
	case *AssignExpr:
		return ev.evalAssign(e)
	case *CallExpr:
		return ev.evalCall(e)
	case *NewExpr:
		return ev.evaluate(e.Call)
	case *GetExpr:
		return ev.evalGet(e)
	case *SetExpr:
		return ev.evalSet(e)
	case *ThisExpr:
		return ev.lookupVariable(e.Keyword, e.Keyword)
	case *SuperExpr:
		return ev.evalSuper(e)
	default:
		return nil, &RunTimeError{Message: "unreachable expression kind"}
	}
}

func (ev *Evaluator) evalLiteral(e *LiteralExpr) Value {
	switch e.Kind {
	case LiteralNumber:
		return NumberValue(e.Num)
	case LiteralString:
		return StringValue(e.Str)
	case LiteralTrue:
		return BoolValue(true)
	case LiteralFalse:
		return BoolValue(false)
	default:
		return NilValue{}
	}
}

func (ev *Evaluator) evalUnary(e *UnaryExpr) (Value, error) {
	right, err := ev.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Type {
	case Minus:
		n, ok := right.(NumberValue)
		if !ok {
			return nil, &RunTimeError{Token: &e.Op, Message: "Operand must be a number."}
		}
		return -n, nil
	case Bang:
		return BoolValue(!IsTruthy(right)), nil
	default:
		return nil, &RunTimeError{Token: &e.Op, Message: "unreachable unary operator"}
	}
}

// evalBinary: `+` overloads over Number+Number and string concatenation
// (coercing the non-string operand via stringify); `-`, `*`, `/` and the
// orderings require two Numbers.
func (ev *Evaluator) evalBinary(e *BinaryExpr) (Value, error) {
	left, err := ev.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := ev.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Type {
	case Plus:
		if ln, ok := left.(NumberValue); ok {
			if rn, ok := right.(NumberValue); ok {
				return ln + rn, nil
			}
		}
		if _, ok := left.(StringValue); ok {
			return StringValue(stringify(left) + stringify(right)), nil
		}
		if _, ok := right.(StringValue); ok {
			return StringValue(stringify(left) + stringify(right)), nil
		}
		return nil, &RunTimeError{Token: &e.Op, Message: "Operands must be two numbers or a string and a value."}
	case Minus:
		ln, rn, err := ev.numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return ln - rn, nil
	case Star:
		ln, rn, err := ev.numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return ln * rn, nil
	case Slash:
		ln, rn, err := ev.numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		if rn == 0 {
			return nil, &RunTimeError{Token: &e.Op, Message: "Division by zero."}
		}
		return ln / rn, nil
	case Greater:
		ln, rn, err := ev.numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return BoolValue(ln > rn), nil
	case GreaterEqual:
		ln, rn, err := ev.numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return BoolValue(ln >= rn), nil
	case Less:
		ln, rn, err := ev.numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return BoolValue(ln < rn), nil
	case LessEqual:
		ln, rn, err := ev.numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return BoolValue(ln <= rn), nil
	case EqualEqual:
		return BoolValue(valuesEqual(left, right)), nil
	case BangEqual:
		return BoolValue(!valuesEqual(left, right)), nil
	default:
		return nil, &RunTimeError{Token: &e.Op, Message: "unreachable binary operator"}
	}
}

func (ev *Evaluator) numberOperands(op Token, left, right Value) (NumberValue, NumberValue, error) {
	ln, ok := left.(NumberValue)
	if !ok {
		return 0, 0, &RunTimeError{Token: &op, Message: "Operands must be numbers."}
	}
	rn, ok := right.(NumberValue)
	if !ok {
		return 0, 0, &RunTimeError{Token: &op, Message: "Operands must be numbers."}
	}
	return ln, rn, nil
}

// evalLogical short-circuits and always returns a Bool coerced via IsTruthy,
// never the raw operand value.
func (ev *Evaluator) evalLogical(e *LogicalExpr) (Value, error) {
	left, err := ev.evaluate(e.Left)
	if err != nil {
		return nil, err
	}

	truth := IsTruthy(left)
	if e.Op.Type == Or {
		if truth {
			return BoolValue(true), nil
		}
	} else {
		if !truth {
			return BoolValue(false), nil
		}
	}

	right, err := ev.evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	return BoolValue(IsTruthy(right)), nil
}

func (ev *Evaluator) lookupVariable(ref Token, name Token) (Value, error) {
	if distance, ok := ev.locals[ref.Key()]; ok {
		return ev.env.GetAt(distance, name.Lexeme)
	}
	return ev.globals.Get(name)
}

func (ev *Evaluator) evalAssign(e *AssignExpr) (Value, error) {
	value, err := ev.evaluate(e.Value)
	if err != nil {
		return nil, err
	}

	if distance, ok := ev.locals[e.Name.Key()]; ok {
		ev.env.AssignAt(distance, e.Name.Lexeme, value)
		return value, nil
	}

	if err := ev.globals.Assign(e.Name, value); err != nil {
		return nil, err
	}
	return value, nil
}

func (ev *Evaluator) evalCall(e *CallExpr) (Value, error) {
	callee, err := ev.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := ev.evaluate(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, &RunTimeError{Token: &e.Paren, Message: "Can only call functions and classes."}
	}

	if len(args) != callable.Arity() {
		return nil, &RunTimeError{Token: &e.Paren, Message: "Expected " +
			formatNumber(float64(callable.Arity())) + " arguments but got " +
			formatNumber(float64(len(args))) + "."}
	}

	return callable.Call(ev, args)
}

func (ev *Evaluator) evalGet(e *GetExpr) (Value, error) {
	object, err := ev.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*Instance)
	if !ok {
		return nil, &RunTimeError{Token: &e.Name, Message: "Only instances have properties."}
	}
	return instance.Get(e.Name)
}

func (ev *Evaluator) evalSet(e *SetExpr) (Value, error) {
	object, err := ev.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*Instance)
	if !ok {
		return nil, &RunTimeError{Token: &e.Name, Message: "Only instances have fields."}
	}

	value, err := ev.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	instance.Set(e.Name, value)
	return value, nil
}

func (ev *Evaluator) evalSuper(e *SuperExpr) (Value, error) {
	distance, ok := ev.locals[e.Keyword.Key()]
	if !ok {
		return nil, &RunTimeError{Token: &e.Keyword, Message: "unresolved 'super'."}
	}

	superVal, err := ev.env.GetAt(distance, "super")
	if err != nil {
		return nil, err
	}
	superclass := superVal.(*Class)

	thisVal, err := ev.env.GetAt(distance-1, "this")
	if err != nil {
		return nil, err
	}
	instance := thisVal.(*Instance)

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, &RunTimeError{Token: &e.Method, Message: "Undefined property '" + e.Method.Lexeme + "'."}
	}
	return method.bind(instance), nil
}
