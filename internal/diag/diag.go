// Package diag renders lox errors for terminal output: a colorized error
// kind, a file:line:col position header, and the offending source line with
// a caret under the column.
package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/loxscript/loxscript/internal/lox"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	posLabel   = color.New(color.FgCyan)
)

// Format renders err for terminal display. filename is shown in the
// position header when non-empty (the header reads "line L:C" otherwise);
// source, if non-empty, lets Format print the offending line with a caret
// underneath it.
func Format(err error, filename, source string) string {
	var sb strings.Builder

	switch e := err.(type) {
	case *lox.ScannerError:
		writeHeader(&sb, "ScannerError", filename, e.Line, e.Col)
		sb.WriteString(e.Message)
		writeSourceLine(&sb, source, e.Line, e.Col)
	case *lox.ParserError:
		writeHeader(&sb, "ParserError", filename, e.Found.Line, e.Found.Col)
		sb.WriteString(parserMessage(e))
		writeSourceLine(&sb, source, e.Found.Line, e.Found.Col)
	case *lox.ResolveError:
		writeHeader(&sb, "ResolveError", filename, e.Token.Line, e.Token.Col)
		sb.WriteString(e.Message)
		writeSourceLine(&sb, source, e.Token.Line, e.Token.Col)
	case *lox.RunTimeError:
		line, col := 0, 0
		if e.Token != nil {
			line, col = e.Token.Line, e.Token.Col
		}
		writeHeader(&sb, "RunTimeError", filename, line, col)
		sb.WriteString(e.Message)
		writeSourceLine(&sb, source, line, col)
	default:
		sb.WriteString(err.Error())
	}

	return sb.String()
}

func writeHeader(sb *strings.Builder, kind, filename string, line, col int) {
	sb.WriteString(errorLabel.Sprint(kind))
	sb.WriteString(": ")
	if filename != "" {
		sb.WriteString(posLabel.Sprintf("%s:%d:%d", filename, line, col))
	} else {
		sb.WriteString(posLabel.Sprintf("line %d:%d", line, col))
	}
	sb.WriteString("\n  ")
}

func writeSourceLine(sb *strings.Builder, source string, line, col int) {
	if source == "" || line <= 0 {
		return
	}
	lines := strings.Split(source, "\n")
	if line-1 >= len(lines) {
		return
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%4d | %s\n", line, lines[line-1]))
	caret := strings.Repeat(" ", 7+max(col-1, 0)) + color.YellowString("^")
	sb.WriteString(caret)
}

func parserMessage(e *lox.ParserError) string {
	switch e.Kind {
	case lox.TokenMismatch:
		return fmt.Sprintf("expected %s, found '%s': %s", e.Expected, e.Found.Lexeme, e.Message)
	case lox.ExpectedExpression:
		return fmt.Sprintf("expected expression at '%s'", e.Found.Lexeme)
	case lox.InvalidAssignmentTarget:
		return "invalid assignment target"
	case lox.FunctionParamUpperLimit:
		return "can't have more than 255 parameters/arguments"
	default:
		return e.Message
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
