// Package main is the entry point for the golox interpreter and playground server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/golox/pkg/config"
	"github.com/lemonberrylabs/golox/pkg/lox"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// exitNoInput is sysexits EX_NOINPUT, used when a script cannot be read.
const exitNoInput = 66

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

var rootCmd = &cobra.Command{
	Use:           "golox [script]",
	Short:         "A tree-walking interpreter for the Lox language",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return runFile(cmd, args[0])
		}
		return repl(cmd)
	},
}

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a Lox script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFile(cmd, args[0])
	},
}

func init() {
	rootCmd.Version = version + " (commit=" + commit + ", built=" + date + ")"
	rootCmd.SetVersionTemplate("golox version {{.Version}}\n")

	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.golox.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log interpreter phases to stderr")
	rootCmd.PersistentFlags().Int("max-call-depth", 0, "Maximum call depth (default 1024, env GOLOX_MAX_CALL_DEPTH)")

	rootCmd.AddCommand(runCmd, replCmd, tokensCmd, astCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.Log.Verbose = true
	}
	if v, _ := cmd.Flags().GetInt("max-call-depth"); v != 0 {
		cfg.Runtime.MaxCallDepth = v
	}
	return cfg, cfg.Validate()
}

// newLogger returns a phase logger writing to stderr when verbose is set.
func newLogger(cfg config.Config) *log.Logger {
	if !cfg.Log.Verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "golox: ", log.Ltime|log.Lmicroseconds)
}

func runFile(cmd *cobra.Command, path string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not read file %q: %v\n", path, err)
		return exitError{code: exitNoInput}
	}

	l := lox.New(
		lox.WithStdout(cmd.OutOrStdout()),
		lox.WithStderr(cmd.ErrOrStderr()),
		lox.WithMaxCallDepth(cfg.Runtime.MaxCallDepth),
		lox.WithLogger(newLogger(cfg)),
	)
	status := l.Run(context.Background(), string(source), lox.ModeScript)
	if code := status.ExitCode(); code != 0 {
		return exitError{code: code}
	}
	return nil
}
