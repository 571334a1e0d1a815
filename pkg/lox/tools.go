package lox

import (
	"github.com/lemonberrylabs/golox/pkg/ast"
	"github.com/lemonberrylabs/golox/pkg/diag"
	"github.com/lemonberrylabs/golox/pkg/parser"
	"github.com/lemonberrylabs/golox/pkg/resolver"
	"github.com/lemonberrylabs/golox/pkg/scanner"
	"github.com/lemonberrylabs/golox/pkg/token"
)

// Tokens scans source and returns the tokens and any lexical errors.
func Tokens(source string) ([]token.Token, []diag.Diagnostic) {
	r := diag.NewReporter(nil)
	tokens := scanner.New(source, r).ScanTokens()
	return tokens, r.Diagnostics()
}

// Parse scans and parses source. The statements that parsed cleanly are
// returned alongside every lexical and syntax error.
func Parse(source string) ([]ast.Stmt, []diag.Diagnostic) {
	r := diag.NewReporter(nil)
	tokens := scanner.New(source, r).ScanTokens()
	stmts := parser.New(tokens, r).Parse()
	return stmts, r.Diagnostics()
}

// Check runs every static pass over source without executing it.
func Check(source string) []diag.Diagnostic {
	r := diag.NewReporter(nil)
	tokens := scanner.New(source, r).ScanTokens()
	stmts := parser.New(tokens, r).Parse()
	if !r.HadError() {
		resolver.New(r).Resolve(stmts)
	}
	return r.Diagnostics()
}

// IsIncomplete reports whether source failed to parse only because it ended
// too early, such as an open brace or an unterminated string. A REPL uses it
// to ask for a continuation line. A bare expression is complete.
func IsIncomplete(source string) bool {
	if bareExpression(source) != nil {
		return false
	}
	_, diagnostics := Parse(source)
	if len(diagnostics) == 0 {
		return false
	}
	for _, d := range diagnostics {
		switch {
		case d.AtEnd:
		case d.Kind == diag.Lexical && (d.Message == scanner.MsgUnterminatedString || d.Message == scanner.MsgUnterminatedComment):
		default:
			return false
		}
	}
	return true
}
