package lox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	tokens, errs := NewScanner(src).ScanTokens()
	require.Empty(t, errs)
	return tokens
}

func TestScanPunctuation(t *testing.T) {
	tokens := scanAll(t, "(){}[],.-+;/*")
	want := []TokenType{
		LeftParen, RightParen, LeftBrace, RightBrace, LeftBracket, RightBracket,
		Comma, Dot, Minus, Plus, Semicolon, Slash, Star, EOF,
	}
	require.Len(t, tokens, len(want))
	for i, tt := range want {
		require.Equal(t, tt, tokens[i].Type, "token %d", i)
	}
}

func TestScanOneOrTwoCharTokens(t *testing.T) {
	tokens := scanAll(t, "! != = == < <= > >=")
	want := []TokenType{Bang, BangEqual, Equal, EqualEqual, Less, LessEqual, Greater, GreaterEqual, EOF}
	require.Len(t, tokens, len(want))
	for i, tt := range want {
		require.Equal(t, tt, tokens[i].Type, "token %d", i)
	}
}

func TestScanNumberLiteral(t *testing.T) {
	tokens := scanAll(t, "123 45.67")
	require.Equal(t, Number, tokens[0].Type)
	require.Equal(t, 123.0, tokens[0].Literal.Num)
	require.Equal(t, Number, tokens[1].Type)
	require.Equal(t, 45.67, tokens[1].Literal.Num)
}

func TestScanStringLiteral(t *testing.T) {
	tokens := scanAll(t, `"hello world"`)
	require.Equal(t, String, tokens[0].Type)
	require.Equal(t, "hello world", tokens[0].Literal.Str)
}

func TestScanUnterminatedString(t *testing.T) {
	_, errs := NewScanner(`"unterminated`).ScanTokens()
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "Unterminated string")
}

func TestScanIdentifiersAndKeywords(t *testing.T) {
	tokens := scanAll(t, "and class else false fun for if nil or print return super "+
		"this true var while lambda new extend myVar")
	want := []TokenType{
		And, ClassKw, Else, False, Fun, For, If, Nil, Or, Print, Return, Super,
		This, True, Var, While, Lambda, New, Extend, Identifier, EOF,
	}
	require.Len(t, tokens, len(want))
	for i, tt := range want {
		require.Equal(t, tt, tokens[i].Type, "token %d", i)
	}
}

func TestScanLineComment(t *testing.T) {
	tokens := scanAll(t, "var a = 1; // trailing comment\nvar b = 2;")
	require.Equal(t, Var, tokens[0].Type)
	// the comment contributes no tokens; the second var starts on line 2
	var secondVar Token
	for _, tok := range tokens {
		if tok.Type == Var && tok.Line == 2 {
			secondVar = tok
		}
	}
	require.Equal(t, Var, secondVar.Type)
}

func TestScanLineAndColumnTracking(t *testing.T) {
	tokens, errs := NewScanner("var a = 1;\nvar b = 2;").ScanTokens()
	require.Empty(t, errs)

	require.Equal(t, 1, tokens[0].Line)
	var secondLineVar Token
	for _, tok := range tokens {
		if tok.Type == Var && tok.Line == 2 {
			secondLineVar = tok
			break
		}
	}
	require.Equal(t, 2, secondLineVar.Line)
	require.Equal(t, 3, secondLineVar.Col) // "var" ends at column 3 on its own line
}

func TestScanUnexpectedCharacter(t *testing.T) {
	_, errs := NewScanner("var a = @;").ScanTokens()
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "Unexpected character")
}
