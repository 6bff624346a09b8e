package lox

import (
	"fmt"
	"strconv"
)

// Value is the runtime representation of every loxscript value: Number,
// String, Bool, Nil, Function, Class and Instance. Rather than a single
// tagged struct, each variant is its own Go type implementing Value;
// type-switches in the evaluator play the role of the tag match.
type Value interface {
	valueNode()
	String() string
}

type NumberValue float64
type StringValue string
type BoolValue bool
type NilValue struct{}

func (NumberValue) valueNode() {}
func (StringValue) valueNode() {}
func (BoolValue) valueNode()   {}
func (NilValue) valueNode()    {}

func (v NumberValue) String() string { return formatNumber(float64(v)) }
func (v StringValue) String() string { return string(v) }
func (v BoolValue) String() string   { return strconv.FormatBool(bool(v)) }
func (NilValue) String() string      { return "nil" }

// formatNumber prints a float64 in its shortest lossless decimal form.
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// Callable is any Value that can appear as a Call expression's callee.
type Callable interface {
	Value
	Call(ev *Evaluator, args []Value) (Value, error)
	Arity() int
}

// NativeFunction wraps a Go closure as a callable Value, used for built-ins
// like clock().
type NativeFunction struct {
	Name   string
	Params int
	Fn     func(ev *Evaluator, args []Value) (Value, error)
}

func (*NativeFunction) valueNode()       {}
func (f *NativeFunction) String() string { return fmt.Sprintf("<native fn %s>", f.Name) }
func (f *NativeFunction) Arity() int     { return f.Params }
func (f *NativeFunction) Call(ev *Evaluator, args []Value) (Value, error) {
	return f.Fn(ev, args)
}

// Function is an immutable bundle of declaration, parameters, body and
// captured closure environment.
type Function struct {
	Decl          *FunctionStmt
	Closure       *Environment
	IsInitializer bool
}

func (*Function) valueNode()       {}
func (f *Function) String() string { return fmt.Sprintf("<fn %s>", f.Decl.Name.Lexeme) }
func (f *Function) Arity() int     { return len(f.Decl.Params) }

// bind produces a new Function whose closure is extended with a fresh scope
// defining "this" to instance.
func (f *Function) bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{Decl: f.Decl, Closure: env, IsInitializer: f.IsInitializer}
}

func (f *Function) Call(ev *Evaluator, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, param := range f.Decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	err := ev.executeBlock(f.Decl.Body.Stmts, env)
	if err != nil {
		if ret, ok := err.(*ReturnSignal); ok {
			if f.IsInitializer {
				return f.Closure.GetAt(0, "this")
			}
			return ret.Value, nil
		}
		return nil, err
	}

	if f.IsInitializer {
		return f.Closure.GetAt(0, "this")
	}
	return NilValue{}, nil
}

// Class is a named bundle of methods with an optional parent.
type Class struct {
	Name       string
	Methods    map[string]*Function
	Superclass *Class
}

func (*Class) valueNode() {}
func (c *Class) String() string { return c.Name }

func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

func (c *Class) Call(ev *Evaluator, args []Value) (Value, error) {
	instance := &Instance{Class: c, fields: make(map[string]Value)}
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.bind(instance).Call(ev, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is a class instance with mutable fields reached through a shared
// handle. Methods, `this` and callers all hold the same *Instance, so field
// writes through any of them are visible everywhere.
type Instance struct {
	Class  *Class
	fields map[string]Value
}

func (*Instance) valueNode() {}
func (i *Instance) String() string { return i.Class.Name + " instance" }

func (i *Instance) Get(name Token) (Value, error) {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v, nil
	}
	if method := i.Class.FindMethod(name.Lexeme); method != nil {
		return method.bind(i), nil
	}
	return nil, &RunTimeError{Token: &name, Message: "Undefined property '" + name.Lexeme + "'."}
}

func (i *Instance) Set(name Token, value Value) {
	i.fields[name.Lexeme] = value
}

// IsTruthy reports a value's truthiness: only false and nil are false, every
// other value (including 0 and "") is true.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case NilValue:
		return false
	case BoolValue:
		return bool(val)
	default:
		return true
	}
}

// valuesEqual implements structural equality for scalars and identity
// equality for Function/Class/Instance.
func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case NumberValue:
		bv, ok := b.(NumberValue)
		return ok && av == bv
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av == bv
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av == bv
	case *Function:
		bv, ok := b.(*Function)
		return ok && av == bv
	case *Class:
		bv, ok := b.(*Class)
		return ok && av == bv
	case *Instance:
		bv, ok := b.(*Instance)
		return ok && av == bv
	case *NativeFunction:
		bv, ok := b.(*NativeFunction)
		return ok && av == bv
	default:
		return false
	}
}

// stringify renders a value the way both print and string concatenation's
// non-string operand show it.
func stringify(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.String()
}
