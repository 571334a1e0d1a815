package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/golox/pkg/ast"
	"github.com/lemonberrylabs/golox/pkg/diag"
	"github.com/lemonberrylabs/golox/pkg/lox"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <script>",
	Short: "Print the tokens of a Lox script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(args[0])
		if err != nil {
			return err
		}
		tokens, ds := lox.Tokens(source)
		for _, tok := range tokens {
			fmt.Fprintln(cmd.OutOrStdout(), tok.String())
		}
		return reportStatic(cmd, ds)
	},
}

var astCmd = &cobra.Command{
	Use:   "ast <script>",
	Short: "Print the syntax tree of a Lox script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(args[0])
		if err != nil {
			return err
		}
		stmts, ds := lox.Parse(source)
		if len(ds) == 0 {
			for _, s := range stmts {
				fmt.Fprintln(cmd.OutOrStdout(), ast.Sprint(s))
			}
		}
		return reportStatic(cmd, ds)
	},
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not read file %q: %v\n", path, err)
		return "", exitError{code: exitNoInput}
	}
	return string(data), nil
}

// reportStatic prints diagnostics and maps them to the static error exit code.
func reportStatic(cmd *cobra.Command, ds []diag.Diagnostic) error {
	if len(ds) == 0 {
		return nil
	}
	for _, d := range ds {
		fmt.Fprintln(cmd.ErrOrStderr(), d.Error())
	}
	return exitError{code: lox.StatusStaticError.ExitCode()}
}
