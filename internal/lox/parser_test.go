package lox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func parseAll(t *testing.T, src string) []Stmt {
	t.Helper()
	tokens, errs := NewScanner(src).ScanTokens()
	require.Empty(t, errs)
	stmts, err := NewParser(tokens).ParseProgram()
	require.NoError(t, err)
	return stmts
}

func TestParseVarDeclaration(t *testing.T) {
	stmts := parseAll(t, "var a = 1 + 2;")
	require.Len(t, stmts, 1)
	v, ok := stmts[0].(*VarStmt)
	require.True(t, ok)
	require.Equal(t, "a", v.Name.Lexeme)
	bin, ok := v.Init.(*BinaryExpr)
	require.True(t, ok)
	require.Equal(t, Plus, bin.Op.Type)
}

func TestParsePrecedenceClimbing(t *testing.T) {
	stmts := parseAll(t, "1 + 2 * 3;")
	expr := stmts[0].(*ExprStmt).Expr
	top, ok := expr.(*BinaryExpr)
	require.True(t, ok)
	require.Equal(t, Plus, top.Op.Type)
	// right side should be the higher-precedence multiplication
	_, ok = top.Right.(*BinaryExpr)
	require.True(t, ok)
	require.Equal(t, Star, top.Right.(*BinaryExpr).Op.Type)
}

func TestParseAssignmentTargetReinterpretation(t *testing.T) {
	stmts := parseAll(t, "a = 1; obj.field = 2;")
	_, ok := stmts[0].(*ExprStmt).Expr.(*AssignExpr)
	require.True(t, ok)
	_, ok = stmts[1].(*ExprStmt).Expr.(*SetExpr)
	require.True(t, ok)
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	tokens, _ := NewScanner("1 + 2 = 3;").ScanTokens()
	_, err := NewParser(tokens).ParseProgram()
	require.Error(t, err)
	perr, ok := err.(*ParserError)
	require.True(t, ok)
	require.Equal(t, InvalidAssignmentTarget, perr.Kind)
}

func TestParseLogicalPrecedence(t *testing.T) {
	stmts := parseAll(t, "a or b and c;")
	top, ok := stmts[0].(*ExprStmt).Expr.(*LogicalExpr)
	require.True(t, ok)
	require.Equal(t, Or, top.Op.Type)
	right, ok := top.Right.(*LogicalExpr)
	require.True(t, ok)
	require.Equal(t, And, right.Op.Type)
}

func TestParseForDesugaring(t *testing.T) {
	stmts := parseAll(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.Len(t, stmts, 1)

	// init wraps a while loop in a block
	outer, ok := stmts[0].(*BlockStmt)
	require.True(t, ok)
	require.Len(t, outer.Stmts, 2)
	_, ok = outer.Stmts[0].(*VarStmt)
	require.True(t, ok)

	whileStmt, ok := outer.Stmts[1].(*WhileStmt)
	require.True(t, ok)
	require.NotNil(t, whileStmt.Cond)

	// body is a block of {print i; i = i + 1;}
	body, ok := whileStmt.Body.(*BlockStmt)
	require.True(t, ok)
	require.Len(t, body.Stmts, 2)
	_, ok = body.Stmts[0].(*PrintStmt)
	require.True(t, ok)
}

func TestParseForDesugaringNoIncrementNoInit(t *testing.T) {
	stmts := parseAll(t, "for (;;) print 1;")
	whileStmt, ok := stmts[0].(*WhileStmt)
	require.True(t, ok)
	lit, ok := whileStmt.Cond.(*LiteralExpr)
	require.True(t, ok)
	require.Equal(t, LiteralTrue, lit.Kind)
}

func TestParseFunctionParamLimit(t *testing.T) {
	src := "fun f("
	for i := 0; i < 256; i++ {
		if i > 0 {
			src += ", "
		}
		src += "a" + itoa(i)
	}
	src += ") {}"

	tokens, _ := NewScanner(src).ScanTokens()
	_, err := NewParser(tokens).ParseProgram()
	require.Error(t, err)
	perr, ok := err.(*ParserError)
	require.True(t, ok)
	require.Equal(t, FunctionParamUpperLimit, perr.Kind)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}

func TestParseNewAndExtend(t *testing.T) {
	stmts := parseAll(t, `
		class Animal {}
		class Dog extend Animal {}
		new Dog();
	`)
	require.Len(t, stmts, 3)

	dog, ok := stmts[1].(*ClassStmt)
	require.True(t, ok)
	require.NotNil(t, dog.Superclass)
	require.Equal(t, "Animal", dog.Superclass.Name.Lexeme)

	newExpr, ok := stmts[2].(*ExprStmt).Expr.(*NewExpr)
	require.True(t, ok)
	call, ok := newExpr.Call.(*CallExpr)
	require.True(t, ok)
	require.Equal(t, "Dog", call.Callee.(*VariableExpr).Name.Lexeme)
}

func TestParseNewWrapsFullCallChain(t *testing.T) {
	stmts := parseAll(t, "new B().hi();")
	newExpr, ok := stmts[0].(*ExprStmt).Expr.(*NewExpr)
	require.True(t, ok)

	// the outermost node of the wrapped chain is the .hi() call
	outer, ok := newExpr.Call.(*CallExpr)
	require.True(t, ok)
	get, ok := outer.Callee.(*GetExpr)
	require.True(t, ok)
	require.Equal(t, "hi", get.Name.Lexeme)

	inner, ok := get.Object.(*CallExpr)
	require.True(t, ok)
	require.Equal(t, "B", inner.Callee.(*VariableExpr).Name.Lexeme)
}

func TestParseSuperMethodCall(t *testing.T) {
	stmts := parseAll(t, `
		class A { hi() { print "A"; } }
		class B extend A { hi() { super.hi(); } }
	`)
	b := stmts[1].(*ClassStmt)
	method := b.Methods[0]
	call := method.Body.Stmts[0].(*ExprStmt).Expr.(*CallExpr)
	super, ok := call.Callee.(*SuperExpr)
	require.True(t, ok)
	require.Equal(t, "hi", super.Method.Lexeme)
}

func TestParseClassSelfInheritanceIsStructurallyParseable(t *testing.T) {
	// Self-inheritance is a *resolver* error, not a parse error: the parser
	// accepts `class A extend A {}` syntactically.
	stmts := parseAll(t, "class A extend A {}")
	c := stmts[0].(*ClassStmt)
	require.Equal(t, c.Name.Lexeme, c.Superclass.Name.Lexeme)
}

func TestParseExpectedExpressionError(t *testing.T) {
	tokens, _ := NewScanner("var a = ;").ScanTokens()
	_, err := NewParser(tokens).ParseProgram()
	require.Error(t, err)
	perr, ok := err.(*ParserError)
	require.True(t, ok)
	require.Equal(t, ExpectedExpression, perr.Kind)
}
