package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"wisp"
	"wisp/ast"
	"wisp/fold"
)

// parseCmd reads a file, runs it through the parser (and by default
// the folder), and dumps the resulting AST as JSON.
type parseCmd struct {
	noFold bool
	out    string
}

func (*parseCmd) Name() string     { return "parse" }
func (*parseCmd) Synopsis() string { return "Parse (and by default fold) a source file, dumping its AST as JSON" }
func (*parseCmd) Usage() string {
	return `parse [-no-fold] [-out file] <source file>:
  Parse a wisp source file and print its AST as JSON.
`
}

func (cmd *parseCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.noFold, "no-fold", false, "skip constant folding, dumping the raw parse tree")
	f.StringVar(&cmd.out, "out", "", "write the AST JSON here instead of stdout")
}

func (cmd *parseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 file not provided\n")
		return subcommands.ExitUsageError
	}
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	root, p, err := wisp.Parse(filename, string(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer p.FreeParse()

	if !cmd.noFold {
		fold.Fold(root)
	}

	return cmd.writeJSON(ast.Dump(root))
}

func (cmd *parseCmd) writeJSON(v any) subcommands.ExitStatus {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to encode AST: %v\n", err)
		return subcommands.ExitFailure
	}
	if cmd.out == "" {
		fmt.Println(string(encoded))
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(cmd.out, encoded, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to write %s: %v\n", cmd.out, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
