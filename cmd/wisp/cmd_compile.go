package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"wisp"
	"wisp/compiler"
)

// compileCmd runs the full pipeline over a file and writes out a
// disassembly listing.
type compileCmd struct {
	out string
}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "Compile a source file and emit a disassembly listing" }
func (*compileCmd) Usage() string {
	return `compile [-out file] <source file>:
  Parse, fold, and compile a wisp source file, then disassemble it.
`
}

func (cmd *compileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.out, "out", "", "write the disassembly to this file (default: <file>.dwisp); it is also printed to stdout")
}

func (cmd *compileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	fn, err := wisp.Run(filename, string(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	listing := compiler.Disassemble(fn)

	out := cmd.out
	if out == "" {
		parts := strings.Split(filename, ".")
		out = parts[0] + ".dwisp"
	}
	if err := os.WriteFile(out, []byte(listing), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to write %s: %v\n", out, err)
		return subcommands.ExitFailure
	}
	fmt.Println(listing)
	return subcommands.ExitSuccess
}
