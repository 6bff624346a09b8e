package lox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func resolveAll(t *testing.T, src string) (*Evaluator, []Stmt, error) {
	t.Helper()
	_, stmts, err := ParseSource(src)
	require.NoError(t, err)
	ev := NewEvaluator()
	err = NewResolver(ev).ResolveProgram(stmts)
	return ev, stmts, err
}

func TestResolveLocalDepth(t *testing.T) {
	ev, stmts, err := resolveAll(t, `
		var a = "global";
		{
			var a = "local";
			print a;
		}
	`)
	require.NoError(t, err)

	block := stmts[1].(*BlockStmt)
	printStmt := block.Stmts[1].(*PrintStmt)
	varExpr := printStmt.Expr.(*VariableExpr)

	depth, ok := ev.locals[varExpr.Name.Key()]
	require.True(t, ok)
	require.Equal(t, 0, depth)
}

func TestResolveGlobalsAreUnrecorded(t *testing.T) {
	ev, stmts, err := resolveAll(t, `
		var a = 1;
		print a;
	`)
	require.NoError(t, err)

	printStmt := stmts[1].(*PrintStmt)
	varExpr := printStmt.Expr.(*VariableExpr)
	_, ok := ev.locals[varExpr.Name.Key()]
	require.False(t, ok, "global references should not be recorded in locals")
}

func TestResolveIdempotence(t *testing.T) {
	_, stmts, err := resolveAll(t, `
		fun outer() {
			var x = 1;
			fun inner() { print x; }
			inner();
		}
		outer();
	`)
	require.NoError(t, err)

	ev1 := NewEvaluator()
	require.NoError(t, NewResolver(ev1).ResolveProgram(stmts))
	ev2 := NewEvaluator()
	require.NoError(t, NewResolver(ev2).ResolveProgram(stmts))
	require.Equal(t, ev1.locals, ev2.locals)
}

func TestResolveSelfReferenceInInitializerIsError(t *testing.T) {
	_, _, err := resolveAll(t, `{ var a = a; }`)
	require.Error(t, err)
	rerr, ok := err.(*ResolveError)
	require.True(t, ok)
	require.Contains(t, rerr.Message, "own initializer")
}

func TestResolveDuplicateDeclarationInScopeIsError(t *testing.T) {
	_, _, err := resolveAll(t, `{ var a = 1; var a = 2; }`)
	require.Error(t, err)
	_, ok := err.(*ResolveError)
	require.True(t, ok)
}

func TestResolveTopLevelReturnIsError(t *testing.T) {
	_, _, err := resolveAll(t, `return 1;`)
	require.Error(t, err)
	rerr, ok := err.(*ResolveError)
	require.True(t, ok)
	require.Contains(t, rerr.Message, "top-level")
}

func TestResolveReturnValueInInitializerIsError(t *testing.T) {
	_, _, err := resolveAll(t, `
		class A { init() { return 1; } }
	`)
	require.Error(t, err)
	rerr, ok := err.(*ResolveError)
	require.True(t, ok)
	require.Contains(t, rerr.Message, "initializer")
}

func TestResolveBareReturnInInitializerIsOK(t *testing.T) {
	_, _, err := resolveAll(t, `
		class A { init() { return; } }
	`)
	require.NoError(t, err)
}

func TestResolveThisOutsideClassIsError(t *testing.T) {
	_, _, err := resolveAll(t, `print this;`)
	require.Error(t, err)
	rerr, ok := err.(*ResolveError)
	require.True(t, ok)
	require.Contains(t, rerr.Message, "this")
}

func TestResolveSelfInheritanceIsError(t *testing.T) {
	_, _, err := resolveAll(t, `class A extend A {}`)
	require.Error(t, err)
	rerr, ok := err.(*ResolveError)
	require.True(t, ok)
	require.Contains(t, rerr.Message, "extend itself")
}

func TestResolveSuperOutsideSubclassIsError(t *testing.T) {
	_, _, err := resolveAll(t, `
		class A { hi() { super.hi(); } }
	`)
	require.Error(t, err)
	rerr, ok := err.(*ResolveError)
	require.True(t, ok)
	require.Contains(t, rerr.Message, "super")
}

func TestResolveSuperInSubclassIsOK(t *testing.T) {
	_, _, err := resolveAll(t, `
		class A { hi() { print "A"; } }
		class B extend A { hi() { super.hi(); } }
	`)
	require.NoError(t, err)
}
