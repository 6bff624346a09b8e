// Package cmd is the loxscript command tree: a persistent-flags root command
// plus one file per subcommand.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "loxscript",
	Short: "A tree-walking interpreter for loxscript",
	Long: `loxscript is a tree-walking interpreter for a small dynamically typed,
class-based scripting language in the Lox family, extended with new, extend
and lambda keywords.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostic output")
}

// readSource resolves the inline-eval vs. file-argument input split shared
// by every subcommand: `-e/--eval` wins over a file argument.
func readSource(evalExpr string, args []string) (source, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e/--eval for inline code")
}
