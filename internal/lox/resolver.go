package lox

// FunctionType tracks what kind of function body the resolver is currently
// inside, used to validate `return` placement.
type FunctionType int

const (
	FunctionTypeNone FunctionType = iota
	FunctionTypeFunction
	FunctionTypeInitializer
	FunctionTypeMethod
)

// ClassType tracks whether the resolver is inside a class, and whether that
// class has a superclass, to validate `this`/`super` usage.
type ClassType int

const (
	ClassTypeNone ClassType = iota
	ClassTypeClass
	ClassTypeSubclass
)

// Resolver performs a single static pass over the AST between parsing and
// evaluation, annotating each variable reference with its lexical scope
// depth. It mutates exactly one field on the Evaluator it was built for:
// locals.
type Resolver struct {
	ev              *Evaluator
	scopes          []map[string]bool
	currentFunction FunctionType
	currentClass    ClassType
}

// NewResolver creates a Resolver that will record depths into ev.locals.
func NewResolver(ev *Evaluator) *Resolver {
	return &Resolver{ev: ev, currentFunction: FunctionTypeNone, currentClass: ClassTypeNone}
}

// ResolveProgram resolves a whole program's statements at the top level.
func (r *Resolver) ResolveProgram(stmts []Stmt) error {
	return r.resolveStmts(stmts)
}

func (r *Resolver) resolveStmts(stmts []Stmt) error {
	for _, s := range stmts {
		if err := r.resolveStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, map[string]bool{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name Token) error {
	if len(r.scopes) == 0 {
		return nil
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		return &ResolveError{Token: name, Message: "Already a variable with this name in this scope."}
	}
	scope[name.Lexeme] = false
	return nil
}

func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal walks the scope stack innermost-out, recording the depth at
// which name was found into the evaluator's locals map, keyed by the
// reference token's composite (kind, lexeme, line, col) key.
func (r *Resolver) resolveLocal(ref Token, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.ev.locals[ref.Key()] = len(r.scopes) - 1 - i
			return
		}
	}
	// Not found in any local scope: left unresolved, evaluator falls back to globals.
}

func (r *Resolver) resolveFunction(fn *FunctionStmt, kind FunctionType) error {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosingFunction }()

	r.beginScope()
	defer r.endScope()

	for _, param := range fn.Params {
		if err := r.declare(param); err != nil {
			return err
		}
		r.define(param)
	}
	return r.resolveStmts(fn.Body.Stmts)
}

// --- statements --------------------------------------------------------

func (r *Resolver) resolveStmt(stmt Stmt) error {
	switch s := stmt.(type) {
	case *ExprStmt:
		return r.resolveExpr(s.Expr)
	case *PrintStmt:
		return r.resolveExpr(s.Expr)
	case *VarStmt:
		if err := r.declare(s.Name); err != nil {
			return err
		}
		if s.Init != nil {
			if err := r.resolveExpr(s.Init); err != nil {
				return err
			}
		}
		r.define(s.Name)
		return nil
	case *BlockStmt:
		r.beginScope()
		err := r.resolveStmts(s.Stmts)
		r.endScope()
		return err
	case *IfStmt:
		if err := r.resolveExpr(s.Cond); err != nil {
			return err
		}
		if err := r.resolveStmt(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return r.resolveStmt(s.Else)
		}
		return nil
	case *WhileStmt:
		if err := r.resolveExpr(s.Cond); err != nil {
			return err
		}
		return r.resolveStmt(s.Body)
	case *FunctionStmt:
		if err := r.declare(s.Name); err != nil {
			return err
		}
		r.define(s.Name)
		return r.resolveFunction(s, FunctionTypeFunction)
	case *ClassStmt:
		return r.resolveClass(s)
	case *ReturnStmt:
		if r.currentFunction == FunctionTypeNone {
			return &ResolveError{Token: s.Keyword, Message: "Can't return from top-level code."}
		}
		if s.Value != nil {
			if r.currentFunction == FunctionTypeInitializer {
				return &ResolveError{Token: s.Keyword, Message: "Can't return a value from an initializer."}
			}
			return r.resolveExpr(s.Value)
		}
		return nil
	default:
		return nil
	}
}

func (r *Resolver) resolveClass(s *ClassStmt) error {
	enclosingClass := r.currentClass
	r.currentClass = ClassTypeClass
	defer func() { r.currentClass = enclosingClass }()

	if err := r.declare(s.Name); err != nil {
		return err
	}
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			return &ResolveError{Token: s.Superclass.Name, Message: "A class can't extend itself."}
		}
		r.currentClass = ClassTypeSubclass
		if err := r.resolveExpr(s.Superclass); err != nil {
			return err
		}

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	defer r.endScope()

	for _, method := range s.Methods {
		kind := FunctionTypeMethod
		if method.Name.Lexeme == "init" {
			kind = FunctionTypeInitializer
		}
		if err := r.resolveFunction(method, kind); err != nil {
			return err
		}
	}

	return nil
}

// --- expressions -----------------------------------------------------------

func (r *Resolver) resolveExpr(expr Expr) error {
	switch e := expr.(type) {
	case *GroupingExpr:
		return r.resolveExpr(e.Expr)
	case *UnaryExpr:
		return r.resolveExpr(e.Right)
	case *BinaryExpr:
		if err := r.resolveExpr(e.Left); err != nil {
			return err
		}
		return r.resolveExpr(e.Right)
	case *LogicalExpr:
		if err := r.resolveExpr(e.Left); err != nil {
			return err
		}
		return r.resolveExpr(e.Right)
	case *LiteralExpr:
		return nil
	case *VariableExpr:
		if len(r.scopes) > 0 {
			if declared, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !declared {
				return &ResolveError{Token: e.Name, Message: "Can't read local variable in its own initializer."}
			}
		}
		r.resolveLocal(e.Name, e.Name.Lexeme)
		return nil
	case *AssignExpr:
		if err := r.resolveExpr(e.Value); err != nil {
			return err
		}
		r.resolveLocal(e.Name, e.Name.Lexeme)
		return nil
	case *CallExpr:
		if err := r.resolveExpr(e.Callee); err != nil {
			return err
		}
		for _, a := range e.Args {
			if err := r.resolveExpr(a); err != nil {
				return err
			}
		}
		return nil
	case *NewExpr:
		return r.resolveExpr(e.Call)
	case *GetExpr:
		return r.resolveExpr(e.Object)
	case *SetExpr:
		if err := r.resolveExpr(e.Value); err != nil {
			return err
		}
		return r.resolveExpr(e.Object)
	case *ThisExpr:
		if r.currentClass == ClassTypeNone {
			return &ResolveError{Token: e.Keyword, Message: "Can't use 'this' outside of a class."}
		}
		r.resolveLocal(e.Keyword, "this")
		return nil
	case *SuperExpr:
		if r.currentClass == ClassTypeNone {
			return &ResolveError{Token: e.Keyword, Message: "Can't use 'super' outside of a class."}
		}
		if r.currentClass != ClassTypeSubclass {
			return &ResolveError{Token: e.Keyword, Message: "Can't use 'super' in a class with no superclass."}
		}
		r.resolveLocal(e.Keyword, "super")
		return nil
	default:
		return nil
	}
}
