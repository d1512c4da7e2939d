// Package parser implements a recursive-descent grammar: one-token
// look-ahead over a Lexer capability, AST construction through a
// per-parse ast.Arena, reserved-word policy, and function-statement
// desugaring. It exposes a single public operation, Parse, returning
// either a complete AST or a SyntaxError — never a partial tree.
package parser

import (
	"fmt"

	"wisp/ast"
	"wisp/runtime"
	"wisp/token"
)

// Lexer is the pull-model token source the parser consumes.
// lexer.Lexer implements it; this interface exists so the parser never
// depends on the concrete scanner.
type Lexer interface {
	Init(filename, source string)
	Next() token.Tag
	Line() int32
	Newline() bool
	Text() string
	Number() float64
	RegexpFlags() string
	Strict() bool
	SetStrict(strict bool)
	Filename() string
	ScanRegexp() token.Tag
}

// Parser holds the mutable state of one parse: the look-ahead tag and
// lexeme scratch mirrored from the Lexer, the AST arena, and the
// strict-mode flag.
type Parser struct {
	lex      Lexer
	arena    *ast.Arena
	filename string

	tag     token.Tag
	line    int32
	newline bool
	text    string
	number  float64
	regexp  string

	strict bool
}

// NewParser returns a Parser bound to lex, ready for repeated Parse
// calls; one Parser serves one source file at a time per call.
func NewParser(lex Lexer) *Parser {
	return &Parser{lex: lex, arena: ast.NewArena()}
}

// Arena exposes the current parse's node arena, for tests asserting
// resource-lifecycle invariants.
func (p *Parser) Arena() *ast.Arena { return p.arena }

// FreeParse releases the AST arena.
func (p *Parser) FreeParse() { p.arena.Free() }

// Parse scans filename/source and returns the program's AST: a BLOCK
// node whose A slot is the top-level statement list, or fails with a
// SyntaxError. Every call begins with a fresh, empty arena.
func (p *Parser) Parse(filename, source string) (root *ast.Node, err error) {
	p.arena = ast.NewArena()
	p.filename = filename
	p.strict = false

	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				panic(r)
			}
			err = e
			root = nil
			p.arena.Free()
		}
	}()

	p.lex.Init(filename, source)
	p.lex.SetStrict(false)
	p.advance()

	line := p.line
	stmts := p.parseStatementList(true)
	if p.tag != token.EOF {
		p.failf("unexpected %s", token.String(p.tag))
	}
	body := p.arena.New(ast.BLOCK, line)
	ast.Link(body, p.arena.NewList(stmts, line))
	return body, nil
}

// advance pulls the next token from the lexer into the look-ahead
// scratch fields.
func (p *Parser) advance() {
	p.tag = p.lex.Next()
	p.line = p.lex.Line()
	p.newline = p.lex.Newline()
	p.text = p.lex.Text()
	p.number = p.lex.Number()
}

// accept consumes and returns true if the look-ahead matches t,
// otherwise leaves the look-ahead untouched and returns false.
func (p *Parser) accept(t token.Tag) bool {
	if p.tag == t {
		p.advance()
		return true
	}
	return false
}

// expect consumes t or raises a SyntaxError naming it.
func (p *Parser) expect(t token.Tag) {
	if !p.accept(t) {
		p.failf("expected '%s', got '%s'", token.String(t), token.String(p.tag))
	}
}

// failf constructs a SyntaxError at the current line and throws it,
// transferring control non-locally back to Parse, which returns
// failure; no partial AST is returned.
func (p *Parser) failf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	runtime.Throw(runtime.NewSyntaxError(p.filename, p.line, msg))
}

// semicolon implements automatic semicolon insertion: an explicit ';'
// is always consumed; otherwise it succeeds silently at '}',
// end-of-input, or after a line terminator; otherwise it fails.
func (p *Parser) semicolon() {
	if p.accept(token.SEMI) {
		return
	}
	if p.tag == token.RBRACE || p.tag == token.EOF || p.newline {
		return
	}
	p.failf("expected ';'")
}

// parseIdentifierName consumes an identifier, applying reserved-word
// classification: future-reserved words are never valid identifiers;
// strict-reserved words are valid only outside strict mode. Keyword
// tokens still carry their source spelling in p.text (the lexer fills
// Text before classifying a word as a keyword), so this reads
// correctly even when the look-ahead tag isn't IDENTIFIER.
func (p *Parser) parseIdentifierName() string {
	switch {
	case p.tag == token.IDENTIFIER:
		name := p.text
		p.advance()
		return name
	case token.FutureReserved[p.tag]:
		p.failf("'%s' is a reserved word", token.String(p.tag))
	case token.StrictReserved[p.tag]:
		if p.strict {
			p.failf("'%s' is a reserved word in strict mode", token.String(p.tag))
		}
		name := p.text
		p.advance()
		return name
	default:
		p.failf("expected identifier, got '%s'", token.String(p.tag))
	}
	return ""
}

func (p *Parser) node(kind ast.Kind, line int32) *ast.Node {
	return p.arena.New(kind, int(line))
}
