// Package wisp wires the parse, fold, and compile stages into a single
// importable pipeline: lex, parse, fold, compile.
package wisp

import (
	"wisp/ast"
	"wisp/compiler"
	"wisp/fold"
	"wisp/lexer"
	"wisp/parser"
)

// Run parses, folds, and compiles source, returning the top-level
// function ready for disassembly. It owns one parser instance per
// call; the AST arena is released once compilation finishes, whether
// it succeeds or fails.
func Run(filename, source string) (*compiler.Function, error) {
	p := parser.NewParser(lexer.New())
	root, err := p.Parse(filename, source)
	if err != nil {
		return nil, err
	}
	defer p.FreeParse()

	fold.Fold(root)

	return compiler.Compile(filename, root)
}

// Parse runs only the parse stage, exposing the raw AST — used by the
// `parse` subcommand and by callers that want to fold or inspect the
// tree themselves before compiling.
func Parse(filename, source string) (*ast.Node, *parser.Parser, error) {
	p := parser.NewParser(lexer.New())
	root, err := p.Parse(filename, source)
	if err != nil {
		return nil, nil, err
	}
	return root, p, nil
}
