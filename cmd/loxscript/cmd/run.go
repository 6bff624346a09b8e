package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loxscript/loxscript/internal/diag"
	"github.com/loxscript/loxscript/internal/lox"
)

var (
	evalExpr string
	dumpAST  bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a loxscript file or expression",
	Long: `Execute a loxscript program from a file or inline expression.

Examples:
  # Run a script file
  loxscript run script.lox

  # Evaluate an inline expression
  loxscript run -e "print 1 + 2;"

  # Run with the parsed AST dumped first (for debugging)
  loxscript run --dump-ast script.lox`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST before executing")
}

func runScript(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "running %s (%d bytes)\n", filename, len(source))
	}

	_, stmts, err := lox.ParseSource(source)
	if err != nil {
		fmt.Fprintln(os.Stderr, diag.Format(err, filename, source))
		return fmt.Errorf("parsing failed")
	}

	if dumpAST {
		for _, s := range stmts {
			fmt.Println(s.String())
		}
	}

	ev := lox.NewEvaluator()
	if err := lox.NewResolver(ev).ResolveProgram(stmts); err != nil {
		fmt.Fprintln(os.Stderr, diag.Format(err, filename, source))
		return fmt.Errorf("resolution failed")
	}

	if err := ev.Interpret(stmts); err != nil {
		fmt.Fprintln(os.Stderr, diag.Format(err, filename, source))
		return fmt.Errorf("execution failed")
	}

	return nil
}
