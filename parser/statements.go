package parser

import (
	"os"

	"wisp/ast"
	"wisp/runtime"
	"wisp/token"
)

// parseStatementList parses statements until '}' or end-of-input.
// bodyLevel is true exactly when this list is a function or program
// body's own top-level statement list — the only place a `function`
// statement is preserved as FUNDEC rather than desugared.
//
// It also recognizes the directive prologue: a run of bare string-
// literal expression statements at the front of the list. A `"use
// strict"` directive there flips strict mode for the remainder of
// this statement list and is never un-set by a later one.
func (p *Parser) parseStatementList(bodyLevel bool) []*ast.Node {
	var stmts []*ast.Node
	inPrologue := true
	for p.tag != token.RBRACE && p.tag != token.EOF {
		if !inPrologue || p.tag != token.STRING {
			inPrologue = false
			stmts = append(stmts, p.parseStatement(bodyLevel))
			continue
		}
		stmt := p.parseStatement(bodyLevel)
		stmts = append(stmts, stmt)
		if stmt.Kind != ast.EXPRSTMT || stmt.A.Kind != ast.STRING {
			inPrologue = false
			continue
		}
		if stmt.A.String == "use strict" {
			p.strict = true
			p.lex.SetStrict(true)
		}
	}
	return stmts
}

func (p *Parser) parseStatement(bodyLevel bool) *ast.Node {
	switch p.tag {
	case token.LBRACE:
		return p.parseBlock()
	case token.VAR:
		return p.parseVarStatement()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.FOR:
		return p.parseFor()
	case token.RETURN:
		return p.parseReturn()
	case token.WITH:
		return p.parseWith()
	case token.THROW:
		return p.parseThrow()
	case token.DEBUGGER:
		line := p.line
		p.advance()
		p.semicolon()
		return p.node(ast.DEBUGGER, line)
	case token.SWITCH:
		return p.parseSwitch()
	case token.BREAK:
		return p.parseBreakContinue(ast.BREAK)
	case token.CONTINUE:
		return p.parseBreakContinue(ast.CONTINUE)
	case token.TRY:
		return p.parseTry()
	case token.FUNCTION:
		return p.parseFunctionStatement(bodyLevel)
	case token.SEMI:
		line := p.line
		p.advance()
		return p.node(ast.NOP, line)
	default:
		return p.parseExpressionOrLabelStatement()
	}
}

func (p *Parser) parseBlock() *ast.Node {
	line := p.line
	p.expect(token.LBRACE)
	stmts := p.parseStatementList(false)
	p.expect(token.RBRACE)
	n := p.node(ast.BLOCK, line)
	ast.Link(n, p.arena.NewList(stmts, line))
	return n
}

// parseExpressionOrLabelStatement resolves the classic label/expression
// ambiguity without a second token of look-ahead: parse a full
// expression, then check whether it was a bare identifier immediately
// followed by ':'.
func (p *Parser) parseExpressionOrLabelStatement() *ast.Node {
	line := p.line
	expr := p.parseExpression(false)
	if expr.Kind == ast.IDENTIFIER && p.accept(token.COLON) {
		label := p.node(ast.LABEL, line)
		label.String = expr.String
		ast.Link(label, p.parseStatement(false))
		return label
	}
	p.semicolon()
	n := p.node(ast.EXPRSTMT, line)
	ast.Link(n, expr)
	return n
}

func (p *Parser) parseVarDeclList(notin bool) []*ast.Node {
	var decls []*ast.Node
	for {
		line := p.line
		name := p.parseIdentifierName()
		decl := p.node(ast.VARDECL, line)
		decl.String = name
		if p.accept(token.ASSIGN) {
			ast.Link(decl, p.parseAssignment(notin))
		}
		decls = append(decls, decl)
		if !p.accept(token.COMMA) {
			break
		}
	}
	return decls
}

func (p *Parser) parseVarStatement() *ast.Node {
	line := p.line
	p.expect(token.VAR)
	decls := p.parseVarDeclList(false)
	p.semicolon()
	n := p.node(ast.VAR, line)
	ast.Link(n, p.arena.NewList(decls, line))
	return n
}

func (p *Parser) parseIf() *ast.Node {
	line := p.line
	p.expect(token.IF)
	p.expect(token.LPAREN)
	cond := p.parseExpression(false)
	p.expect(token.RPAREN)
	then := p.parseStatement(false)
	n := p.node(ast.IF, line)
	if p.accept(token.ELSE) {
		els := p.parseStatement(false)
		ast.Link(n, cond, then, els)
	} else {
		ast.Link(n, cond, then)
	}
	return n
}

func (p *Parser) parseWhile() *ast.Node {
	line := p.line
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpression(false)
	p.expect(token.RPAREN)
	body := p.parseStatement(false)
	n := p.node(ast.WHILE, line)
	ast.Link(n, cond, body)
	return n
}

func (p *Parser) parseDoWhile() *ast.Node {
	line := p.line
	p.expect(token.DO)
	body := p.parseStatement(false)
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpression(false)
	p.expect(token.RPAREN)
	p.accept(token.SEMI)
	n := p.node(ast.DO, line)
	ast.Link(n, body, cond)
	return n
}

func (p *Parser) parseReturn() *ast.Node {
	line := p.line
	p.expect(token.RETURN)
	n := p.node(ast.RETURN, line)
	// Return expressions begin on the same line as `return`: a newline
	// before the next token means an empty return.
	if p.tag != token.SEMI && p.tag != token.RBRACE && p.tag != token.EOF && !p.newline {
		ast.Link(n, p.parseExpression(false))
	}
	p.semicolon()
	return n
}

func (p *Parser) parseWith() *ast.Node {
	line := p.line
	p.expect(token.WITH)
	p.expect(token.LPAREN)
	obj := p.parseExpression(false)
	p.expect(token.RPAREN)
	body := p.parseStatement(false)
	n := p.node(ast.WITH, line)
	ast.Link(n, obj, body)
	return n
}

func (p *Parser) parseThrow() *ast.Node {
	line := p.line
	p.expect(token.THROW)
	val := p.parseExpression(false)
	p.semicolon()
	n := p.node(ast.THROW, line)
	ast.Link(n, val)
	return n
}

func (p *Parser) parseSwitch() *ast.Node {
	line := p.line
	p.expect(token.SWITCH)
	p.expect(token.LPAREN)
	disc := p.parseExpression(false)
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)

	var cases []*ast.Node
	sawDefault := false
	for p.tag != token.RBRACE {
		caseLine := p.line
		if p.accept(token.CASE) {
			test := p.parseExpression(false)
			p.expect(token.COLON)
			stmts := p.parseCaseBody()
			c := p.node(ast.CASE, caseLine)
			ast.Link(c, test, p.arena.NewList(stmts, caseLine))
			cases = append(cases, c)
		} else {
			p.expect(token.DEFAULT)
			if sawDefault {
				p.failf("more than one default clause in switch")
			}
			sawDefault = true
			p.expect(token.COLON)
			stmts := p.parseCaseBody()
			c := p.node(ast.DEFAULT, caseLine)
			ast.Link(c, p.arena.NewList(stmts, caseLine))
			cases = append(cases, c)
		}
	}
	p.expect(token.RBRACE)

	n := p.node(ast.SWITCH, line)
	ast.Link(n, disc, p.arena.NewList(cases, line))
	return n
}

func (p *Parser) parseCaseBody() []*ast.Node {
	var stmts []*ast.Node
	for p.tag != token.CASE && p.tag != token.DEFAULT && p.tag != token.RBRACE {
		stmts = append(stmts, p.parseStatement(false))
	}
	return stmts
}

func (p *Parser) parseBreakContinue(kind ast.Kind) *ast.Node {
	line := p.line
	p.advance() // consume BREAK or CONTINUE
	n := p.node(kind, line)
	if p.tag == token.IDENTIFIER && !p.newline {
		n.String = p.text
		p.advance()
	}
	p.semicolon()
	return n
}

func (p *Parser) parseTry() *ast.Node {
	line := p.line
	p.expect(token.TRY)
	block := p.parseBlock()
	n := p.node(ast.TRY, line)

	var param *ast.Node
	var catchBlock *ast.Node
	if p.accept(token.CATCH) {
		p.expect(token.LPAREN)
		paramLine := p.line
		param = p.node(ast.IDENTIFIER, paramLine)
		param.String = p.parseIdentifierName()
		p.expect(token.RPAREN)
		catchBlock = p.parseBlock()
	}

	var finallyBlock *ast.Node
	if p.accept(token.FINALLY) {
		finallyBlock = p.parseBlock()
	}

	if catchBlock == nil && finallyBlock == nil {
		p.failf("missing catch or finally after try")
	}
	ast.Link(n, block, param, catchBlock, finallyBlock)
	return n
}

// parseFunctionStatement desugars a `function` statement: at body level
// (program or function top-level statement list) the declaration is
// preserved as FUNDEC so hoisting applies. Anywhere else it is
// rewritten into `var name = function name(params){body};` and a
// warning is printed.
func (p *Parser) parseFunctionStatement(bodyLevel bool) *ast.Node {
	line := p.line
	fn := p.parseFunction(line)

	if bodyLevel {
		return fn
	}

	runtime.Warnf(os.Stderr, p.filename, line, "function statements are not standard")
	fn.Kind = ast.FUNEXP
	decl := p.node(ast.VARDECL, line)
	decl.String = fn.A.String
	ast.Link(decl, fn)
	varNode := p.node(ast.VAR, line)
	ast.Link(varNode, p.arena.NewList([]*ast.Node{decl}, line))
	return varNode
}

// parseFunction parses `function [name] ( params ) { body }` into a
// FUNDEC node; callers that need a FUNEXP (an expression-position
// function — the primary-expression `function` case, and a desugared
// nested function statement) relabel the returned node's Kind, since
// FUNDEC and FUNEXP share every child slot (A=name identifier or nil,
// B=LIST of param identifiers, C=body).
func (p *Parser) parseFunction(line int32) *ast.Node {
	p.expect(token.FUNCTION)
	n := p.node(ast.FUNDEC, line)

	var name *ast.Node
	if p.tag == token.IDENTIFIER {
		name = p.node(ast.IDENTIFIER, p.line)
		name.String = p.parseIdentifierName()
	}

	p.expect(token.LPAREN)
	var params []*ast.Node
	if p.tag != token.RPAREN {
		for {
			paramLine := p.line
			param := p.node(ast.IDENTIFIER, paramLine)
			param.String = p.parseIdentifierName()
			params = append(params, param)
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN)

	body := p.parseFunctionBody()
	ast.Link(n, name, p.arena.NewList(params, line), body)
	return n
}

// parseFor disambiguates the four for-header shapes — classic
// `for(init;cond;update)`, `for(var ...;;)`, `for(lhs in obj)`, and
// `for(var x in obj)` — without extra look-ahead, by parsing the first
// clause with `notin` set and checking what follows it.
func (p *Parser) parseFor() *ast.Node {
	line := p.line
	p.expect(token.FOR)
	p.expect(token.LPAREN)

	if p.accept(token.VAR) {
		declLine := p.line
		name := p.parseIdentifierName()

		if p.tag == token.IN {
			p.advance()
			obj := p.parseExpression(false)
			p.expect(token.RPAREN)
			body := p.parseStatement(false)
			decl := p.node(ast.VARDECL, declLine)
			decl.String = name
			n := p.node(ast.FOR_IN_VAR, line)
			ast.Link(n, decl, obj, body)
			return n
		}

		decl := p.node(ast.VARDECL, declLine)
		decl.String = name
		if p.accept(token.ASSIGN) {
			ast.Link(decl, p.parseAssignment(true))
		}
		decls := []*ast.Node{decl}
		for p.accept(token.COMMA) {
			dLine := p.line
			dname := p.parseIdentifierName()
			d := p.node(ast.VARDECL, dLine)
			d.String = dname
			if p.accept(token.ASSIGN) {
				ast.Link(d, p.parseAssignment(true))
			}
			decls = append(decls, d)
		}
		p.expect(token.SEMI)
		varNode := p.node(ast.VAR, line)
		ast.Link(varNode, p.arena.NewList(decls, line))

		cond, update := p.parseForTail()
		p.expect(token.RPAREN)
		body := p.parseStatement(false)
		n := p.node(ast.FOR_VAR, line)
		ast.Link(n, varNode, cond, update, body)
		return n
	}

	if p.tag == token.SEMI {
		p.advance()
		cond, update := p.parseForTail()
		p.expect(token.RPAREN)
		body := p.parseStatement(false)
		n := p.node(ast.FOR, line)
		ast.Link(n, nil, cond, update, body)
		return n
	}

	init := p.parseExpression(true)
	if p.tag == token.IN {
		p.advance()
		obj := p.parseExpression(false)
		p.expect(token.RPAREN)
		body := p.parseStatement(false)
		n := p.node(ast.FOR_IN, line)
		ast.Link(n, init, obj, body)
		return n
	}
	p.expect(token.SEMI)
	cond, update := p.parseForTail()
	p.expect(token.RPAREN)
	body := p.parseStatement(false)
	n := p.node(ast.FOR, line)
	ast.Link(n, init, cond, update, body)
	return n
}

// parseForTail parses the cond and update clauses shared by the
// classic for-header shapes, stopping right before the closing ')'.
func (p *Parser) parseForTail() (cond, update *ast.Node) {
	if p.tag != token.SEMI {
		cond = p.parseExpression(false)
	}
	p.expect(token.SEMI)
	if p.tag != token.RPAREN {
		update = p.parseExpression(false)
	}
	return cond, update
}

// parseFunctionBody parses a function's block, scoping any `"use
// strict"` directive found in its prologue to this function alone: an
// outer strict mode is inherited, but a directive found here does not
// leak back out once the body closes.
func (p *Parser) parseFunctionBody() *ast.Node {
	line := p.line
	p.expect(token.LBRACE)
	savedStrict := p.strict
	stmts := p.parseStatementList(true)
	p.strict = savedStrict
	p.lex.SetStrict(savedStrict)
	p.expect(token.RBRACE)
	n := p.node(ast.BLOCK, line)
	ast.Link(n, p.arena.NewList(stmts, line))
	return n
}
