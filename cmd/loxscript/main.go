// Command loxscript runs, tokenizes, parses, or resolves loxscript programs.
package main

import (
	"os"

	"github.com/loxscript/loxscript/cmd/loxscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
