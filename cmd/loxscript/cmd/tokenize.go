package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loxscript/loxscript/internal/diag"
	"github.com/loxscript/loxscript/internal/lox"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [file]",
	Short: "Tokenize a loxscript file or expression",
	Long: `Scan a loxscript program and print the resulting token stream, one
token per line, terminated by EOF. Useful for debugging the scanner.`,
	Args: cobra.MaximumNArgs(1),
	RunE: tokenizeScript,
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
	tokenizeCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
}

func tokenizeScript(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	tokens, errs := lox.NewScanner(source).ScanTokens()
	for _, tok := range tokens {
		fmt.Println(tok.String())
	}

	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, diag.Format(e, filename, source))
		}
		return fmt.Errorf("scanning failed with %d error(s)", len(errs))
	}
	return nil
}
