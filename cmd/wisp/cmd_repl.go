package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"wisp"
	"wisp/compiler"
	"wisp/lexer"
	"wisp/token"
)

// replCmd accumulates lines until braces balance and the last token
// doesn't obviously expect a continuation, then runs the whole buffer
// through the pipeline and reports the result.
type replCmd struct {
	disassemble bool
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive parse/compile REPL" }
func (*replCmd) Usage() string {
	return `repl [-disassemble]:
  Read wisp source interactively and report parse/compile results.
`
}

func (cmd *replCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.disassemble, "disassemble", false, "print the compiled bytecode disassembly for each accepted input")
}

func (cmd *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to start the line editor: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	var buffer strings.Builder
	for {
		prompt := ">>> "
		if buffer.Len() > 0 {
			prompt = "... "
		}
		rl.SetPrompt(prompt)

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if buffer.Len() == 0 {
				continue
			}
			buffer.Reset()
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitFailure
		}

		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		source := buffer.String()

		if !inputLooksComplete(source) {
			continue
		}

		fn, err := wisp.Run("<repl>", source)
		buffer.Reset()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if cmd.disassemble {
			fmt.Print(compiler.Disassemble(fn))
		} else {
			fmt.Printf("ok (%d code words, %d nested functions)\n", len(fn.Code), len(fn.Funs))
		}
	}
}

// inputLooksComplete tokenizes source and reports whether braces are
// balanced and the last real token isn't one that obviously continues
// onto another line.
func inputLooksComplete(source string) bool {
	lex := lexer.New()
	lex.Init("<repl>", source)

	depth := 0
	var last token.Tag
	for {
		tag := lex.Next()
		if tag == token.EOF {
			break
		}
		if tag == token.ERROR {
			return true // let the real parse surface the error
		}
		switch tag {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
		}
		last = tag
	}
	if depth > 0 {
		return false
	}

	switch last {
	case token.ASSIGN, token.ADD, token.SUB, token.MUL, token.DIV, token.MOD,
		token.NOT, token.EQ, token.NE, token.STRICTEQ, token.STRICTNE,
		token.LT, token.GT, token.LE, token.GE, token.COMMA, token.DOT,
		token.LPAREN, token.LBRACKET, token.LOGAND, token.LOGOR,
		token.IF, token.ELSE, token.WHILE, token.FOR, token.FUNCTION,
		token.RETURN, token.VAR, token.DO, token.TRY, token.CATCH:
		return false
	}
	return true
}
