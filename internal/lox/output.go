package lox

import (
	"fmt"
	"io"
	"os"
)

// out is the writer `print` statements write to. It defaults to os.Stdout;
// tests redirect it via SetOutput.
var out io.Writer = os.Stdout

// SetOutput redirects where `print` statements write. Passing nil restores
// os.Stdout.
func SetOutput(w io.Writer) {
	if w == nil {
		out = os.Stdout
		return
	}
	out = w
}

func stdout(s string) {
	fmt.Fprintln(out, s)
}
