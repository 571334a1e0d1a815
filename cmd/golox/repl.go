package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/golox/pkg/lox"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Lox prompt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return repl(cmd)
	},
}

func repl(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.HistoryPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	l := lox.New(
		lox.WithStdout(cmd.OutOrStdout()),
		lox.WithStderr(cmd.ErrOrStderr()),
		lox.WithMaxCallDepth(cfg.Runtime.MaxCallDepth),
		lox.WithLogger(newLogger(cfg)),
	)

	for {
		source, ok := readEntry(ln, cfg.REPL.Prompt, cfg.REPL.Continuation)
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		}

		trimmed := strings.TrimSpace(source)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, ":"):
			if trimmed == ":quit" || trimmed == ":q" {
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "unknown command. Type :quit to exit.")
			continue
		}

		l.Run(context.Background(), source, lox.ModeREPL)
		ln.AppendHistory(strings.ReplaceAll(source, "\n", " "))
	}
}

// readEntry reads lines until they form a complete entry. It returns false
// at end of input. Ctrl-C discards the pending lines.
func readEntry(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if !lox.IsIncomplete(b.String()) {
			return b.String(), true
		}
	}
}
