package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loxscript/loxscript/internal/diag"
	"github.com/loxscript/loxscript/internal/lox"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Run the static resolver over a loxscript file or expression",
	Long: `Parse and resolve a loxscript program without executing it, reporting
any of the static errors the resolver enforces (duplicate declarations,
self-reference in an initializer, top-level return, this/super misuse,
self-inheriting classes).`,
	Args: cobra.MaximumNArgs(1),
	RunE: resolveScript,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "resolve inline code instead of reading from file")
}

func resolveScript(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	if _, _, err := lox.ResolveSource(source); err != nil {
		fmt.Fprintln(os.Stderr, diag.Format(err, filename, source))
		return fmt.Errorf("resolution failed")
	}

	fmt.Println("ok")
	return nil
}
