package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loxscript/loxscript/internal/diag"
	"github.com/loxscript/loxscript/internal/lox"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a loxscript file or expression and print its AST",
	Args:  cobra.MaximumNArgs(1),
	RunE:  parseScript,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
}

func parseScript(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	_, stmts, err := lox.ParseSource(source)
	if err != nil {
		fmt.Fprintln(os.Stderr, diag.Format(err, filename, source))
		return fmt.Errorf("parsing failed")
	}

	for _, s := range stmts {
		fmt.Println(s.String())
	}
	return nil
}
