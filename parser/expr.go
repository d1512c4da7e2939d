// This file implements the expression grammar: primary through
// comma-expression, climbing precedence from primary up through the
// comma operator.
package parser

import (
	"wisp/ast"
	"wisp/token"
)

// advanceRegexp re-lexes the current '/' as a regexp literal instead
// of a division operator; lexer.ScanRegexp picks up exactly where
// Next() left the cursor after consuming the leading '/'.
func (p *Parser) advanceRegexp() {
	p.tag = p.lex.ScanRegexp()
	p.line = p.lex.Line()
	p.text = p.lex.Text()
	p.regexp = p.lex.RegexpFlags()
}

// parsePrimary implements grammar layer (a).
func (p *Parser) parsePrimary() *ast.Node {
	line := p.line
	switch p.tag {
	case token.IDENTIFIER:
		n := p.node(ast.IDENTIFIER, line)
		n.String = p.text
		p.advance()
		return n
	case token.NUMBER:
		n := p.node(ast.NUMBER, line)
		n.Number = p.number
		p.advance()
		return n
	case token.STRING:
		n := p.node(ast.STRING, line)
		n.String = p.text
		p.advance()
		return n
	case token.DIV, token.DIV_ASSIGN:
		return p.parseRegexpLiteral(line)
	case token.THIS:
		p.advance()
		return p.node(ast.THIS, line)
	case token.NULL:
		p.advance()
		return p.node(ast.NULL, line)
	case token.TRUE:
		p.advance()
		return p.node(ast.TRUE, line)
	case token.FALSE:
		p.advance()
		return p.node(ast.FALSE, line)
	case token.LBRACKET:
		return p.parseArrayLiteral(line)
	case token.LBRACE:
		return p.parseObjectLiteral(line)
	case token.LPAREN:
		p.advance()
		expr := p.parseExpression(false)
		p.expect(token.RPAREN)
		return expr
	case token.FUNCTION:
		fn := p.parseFunction(line)
		fn.Kind = ast.FUNEXP
		return fn
	default:
		p.failf("unexpected token '%s'", token.String(p.tag))
		return nil
	}
}

func (p *Parser) parseRegexpLiteral(line int32) *ast.Node {
	prefix := ""
	if p.tag == token.DIV_ASSIGN {
		prefix = "="
	}
	p.advanceRegexp()
	n := p.node(ast.REGEXP, line)
	n.String = prefix + p.text
	flags := p.node(ast.STRING, line)
	flags.String = p.regexp
	ast.Link(n, flags)
	p.advance()
	return n
}

func (p *Parser) parseArrayLiteral(line int32) *ast.Node {
	p.expect(token.LBRACKET)
	var elems []*ast.Node
	for p.tag != token.RBRACKET {
		elems = append(elems, p.parseAssignment(false))
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET)
	n := p.node(ast.ARRAY, line)
	ast.Link(n, p.arena.NewList(elems, line))
	return n
}

func (p *Parser) parseObjectLiteral(line int32) *ast.Node {
	p.expect(token.LBRACE)
	var props []*ast.Node
	for p.tag != token.RBRACE {
		props = append(props, p.parseObjectProperty())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	n := p.node(ast.OBJECT, line)
	ast.Link(n, p.arena.NewList(props, line))
	return n
}

// parseObjectProperty handles property assignment shorthand:
// `get`/`set` followed by a non-':' token is an accessor; otherwise
// (including `{ get: 1 }`) it's a plain PROP_VAL.
func (p *Parser) parseObjectProperty() *ast.Node {
	line := p.line

	if p.tag == token.IDENTIFIER && (p.text == "get" || p.text == "set") {
		word := p.text
		p.advance()
		if p.tag != token.COLON {
			name := p.parsePropertyName()
			if word == "get" {
				p.expect(token.LPAREN)
				p.expect(token.RPAREN)
				body := p.parseFunctionBody()
				n := p.node(ast.PROP_GET, line)
				ast.Link(n, name, body)
				return n
			}
			p.expect(token.LPAREN)
			arg := p.node(ast.IDENTIFIER, p.line)
			arg.String = p.parseIdentifierName()
			p.expect(token.RPAREN)
			body := p.parseFunctionBody()
			n := p.node(ast.PROP_SET, line)
			ast.Link(n, name, arg, body)
			return n
		}
		name := p.node(ast.STRING, line)
		name.String = word
		p.expect(token.COLON)
		val := p.parseAssignment(false)
		n := p.node(ast.PROP_VAL, line)
		ast.Link(n, name, val)
		return n
	}

	name := p.parsePropertyName()
	p.expect(token.COLON)
	val := p.parseAssignment(false)
	n := p.node(ast.PROP_VAL, line)
	ast.Link(n, name, val)
	return n
}

// parsePropertyName accepts an identifier, keyword, string, or
// number.
func (p *Parser) parsePropertyName() *ast.Node {
	line := p.line
	switch p.tag {
	case token.STRING:
		n := p.node(ast.STRING, line)
		n.String = p.text
		p.advance()
		return n
	case token.NUMBER:
		n := p.node(ast.NUMBER, line)
		n.Number = p.number
		p.advance()
		return n
	default:
		n := p.node(ast.STRING, line)
		n.String = p.text
		p.advance()
		return n
	}
}

// parseNewExpression implements grammar layer (b): a leading `new`
// consumes a memberexp (dot/bracket chain only, no calls) then an
// optional argument list.
func (p *Parser) parseNewExpression() *ast.Node {
	line := p.line
	p.expect(token.NEW)

	var callee *ast.Node
	if p.tag == token.NEW {
		callee = p.parseNewExpression()
	} else {
		callee = p.parsePrimary()
		for {
			switch p.tag {
			case token.DOT:
				dl := p.line
				p.advance()
				name := p.node(ast.STRING, p.line)
				name.String = p.parseIdentifierName()
				m := p.node(ast.MEMBER, dl)
				ast.Link(m, callee, name)
				callee = m
				continue
			case token.LBRACKET:
				dl := p.line
				p.advance()
				key := p.parseExpression(false)
				p.expect(token.RBRACKET)
				idx := p.node(ast.INDEX, dl)
				ast.Link(idx, callee, key)
				callee = idx
				continue
			}
			break
		}
	}

	var args []*ast.Node
	if p.accept(token.LPAREN) {
		args = p.parseArgumentList()
	}
	n := p.node(ast.NEW, line)
	ast.Link(n, callee, p.arena.NewList(args, line))
	return n
}

func (p *Parser) parseArgumentList() []*ast.Node {
	var args []*ast.Node
	if p.tag != token.RPAREN {
		for {
			args = append(args, p.parseAssignment(false))
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN)
	return args
}

// parseLeftHandSideExpression implements grammar layer (c): left-
// recursive chains of `.ident`, `[expr]`, and `(args)`.
func (p *Parser) parseLeftHandSideExpression() *ast.Node {
	var expr *ast.Node
	if p.tag == token.NEW {
		expr = p.parseNewExpression()
	} else {
		expr = p.parsePrimary()
	}

	for {
		switch p.tag {
		case token.DOT:
			line := p.line
			p.advance()
			name := p.node(ast.STRING, p.line)
			name.String = p.parseIdentifierName()
			m := p.node(ast.MEMBER, line)
			ast.Link(m, expr, name)
			expr = m
		case token.LBRACKET:
			line := p.line
			p.advance()
			key := p.parseExpression(false)
			p.expect(token.RBRACKET)
			idx := p.node(ast.INDEX, line)
			ast.Link(idx, expr, key)
			expr = idx
		case token.LPAREN:
			line := p.line
			p.advance()
			args := p.parseArgumentList()
			call := p.node(ast.CALL, line)
			ast.Link(call, expr, p.arena.NewList(args, line))
			expr = call
		default:
			return expr
		}
	}
}

// parsePostfix handles postfix ++/--, which only apply if no line
// terminator intervened.
func (p *Parser) parsePostfix() *ast.Node {
	line := p.line
	expr := p.parseLeftHandSideExpression()
	if !p.newline && (p.tag == token.INC || p.tag == token.DEC) {
		kind := ast.POSTINC
		if p.tag == token.DEC {
			kind = ast.POSTDEC
		}
		p.advance()
		n := p.node(kind, line)
		ast.Link(n, expr)
		return n
	}
	return expr
}

// parseUnary implements grammar layer (e): right-associative through
// recursion.
func (p *Parser) parseUnary() *ast.Node {
	line := p.line
	var kind ast.Kind
	switch p.tag {
	case token.DELETE:
		kind = ast.DELETE
	case token.VOID:
		kind = ast.VOID_
	case token.TYPEOF:
		kind = ast.TYPEOF
	case token.INC:
		kind = ast.PREINC
	case token.DEC:
		kind = ast.PREDEC
	case token.ADD:
		kind = ast.POS
	case token.SUB:
		kind = ast.NEG
	case token.BITNOT:
		kind = ast.BITNOT
	case token.NOT:
		kind = ast.NOT
	default:
		return p.parsePostfix()
	}
	p.advance()
	n := p.node(kind, line)
	ast.Link(n, p.parseUnary())
	return n
}

var mulOps = map[token.Tag]ast.Kind{token.MUL: ast.MUL, token.DIV: ast.DIV, token.MOD: ast.MOD}
var addOps = map[token.Tag]ast.Kind{token.ADD: ast.ADD, token.SUB: ast.SUB}
var shiftOps = map[token.Tag]ast.Kind{token.SHL: ast.SHL, token.SHR: ast.SHR, token.USHR: ast.USHR}
var relOps = map[token.Tag]ast.Kind{
	token.LT: ast.LT, token.GT: ast.GT, token.LE: ast.LE, token.GE: ast.GE,
	token.INSTANCEOF: ast.INSTANCEOF,
}
var eqOps = map[token.Tag]ast.Kind{
	token.EQ: ast.EQ, token.NE: ast.NE, token.STRICTEQ: ast.STRICTEQ, token.STRICTNE: ast.STRICTNE,
}

// parseMultiplicative through parseBitOr implement grammar layer (f):
// `* / %`, `+ -`, `<< >> >>>`, relational (`< > <= >= instanceof in`),
// equality, `&`, `^`, `|`, each left-associative.
func (p *Parser) parseMultiplicative(notin bool) *ast.Node {
	left := p.parseUnary()
	for {
		kind, ok := mulOps[p.tag]
		if !ok {
			return left
		}
		line := p.line
		p.advance()
		right := p.parseUnary()
		n := p.node(kind, line)
		ast.Link(n, left, right)
		left = n
	}
}

func (p *Parser) parseAdditive(notin bool) *ast.Node {
	left := p.parseMultiplicative(notin)
	for {
		kind, ok := addOps[p.tag]
		if !ok {
			return left
		}
		line := p.line
		p.advance()
		right := p.parseMultiplicative(notin)
		n := p.node(kind, line)
		ast.Link(n, left, right)
		left = n
	}
}

func (p *Parser) parseShift(notin bool) *ast.Node {
	left := p.parseAdditive(notin)
	for {
		kind, ok := shiftOps[p.tag]
		if !ok {
			return left
		}
		line := p.line
		p.advance()
		right := p.parseAdditive(notin)
		n := p.node(kind, line)
		ast.Link(n, left, right)
		left = n
	}
}

// parseRelational honours the `notin` flag disabling `in` inside
// `for (... in ...)` headers.
func (p *Parser) parseRelational(notin bool) *ast.Node {
	left := p.parseShift(notin)
	for {
		if p.tag == token.IN {
			if notin {
				return left
			}
			line := p.line
			p.advance()
			right := p.parseShift(notin)
			n := p.node(ast.IN, line)
			ast.Link(n, left, right)
			left = n
			continue
		}
		kind, ok := relOps[p.tag]
		if !ok {
			return left
		}
		line := p.line
		p.advance()
		right := p.parseShift(notin)
		n := p.node(kind, line)
		ast.Link(n, left, right)
		left = n
	}
}

func (p *Parser) parseEquality(notin bool) *ast.Node {
	left := p.parseRelational(notin)
	for {
		kind, ok := eqOps[p.tag]
		if !ok {
			return left
		}
		line := p.line
		p.advance()
		right := p.parseRelational(notin)
		n := p.node(kind, line)
		ast.Link(n, left, right)
		left = n
	}
}

func (p *Parser) parseBitAnd(notin bool) *ast.Node {
	left := p.parseEquality(notin)
	for p.tag == token.BITAND {
		line := p.line
		p.advance()
		right := p.parseEquality(notin)
		n := p.node(ast.BITAND, line)
		ast.Link(n, left, right)
		left = n
	}
	return left
}

func (p *Parser) parseBitXor(notin bool) *ast.Node {
	left := p.parseBitAnd(notin)
	for p.tag == token.BITXOR {
		line := p.line
		p.advance()
		right := p.parseBitAnd(notin)
		n := p.node(ast.BITXOR, line)
		ast.Link(n, left, right)
		left = n
	}
	return left
}

func (p *Parser) parseBitOr(notin bool) *ast.Node {
	left := p.parseBitXor(notin)
	for p.tag == token.BITOR {
		line := p.line
		p.advance()
		right := p.parseBitXor(notin)
		n := p.node(ast.BITOR, line)
		ast.Link(n, left, right)
		left = n
	}
	return left
}

// parseLogicalAnd/parseLogicalOr are right-recursive, giving right
// associativity at the AST level — preserved as an observed, not
// "fixed", quirk.
func (p *Parser) parseLogicalAnd(notin bool) *ast.Node {
	left := p.parseBitOr(notin)
	if p.tag == token.LOGAND {
		line := p.line
		p.advance()
		right := p.parseLogicalAnd(notin)
		n := p.node(ast.LOGAND, line)
		ast.Link(n, left, right)
		return n
	}
	return left
}

func (p *Parser) parseLogicalOr(notin bool) *ast.Node {
	left := p.parseLogicalAnd(notin)
	if p.tag == token.LOGOR {
		line := p.line
		p.advance()
		right := p.parseLogicalOr(notin)
		n := p.node(ast.LOGOR, line)
		ast.Link(n, left, right)
		return n
	}
	return left
}

// parseConditional implements grammar layer (h): ternary `? :`.
func (p *Parser) parseConditional(notin bool) *ast.Node {
	cond := p.parseLogicalOr(notin)
	if p.tag != token.QUESTION {
		return cond
	}
	line := p.line
	p.advance()
	then := p.parseAssignment(false)
	p.expect(token.COLON)
	els := p.parseAssignment(notin)
	n := p.node(ast.COND, line)
	ast.Link(n, cond, then, els)
	return n
}

var assignOps = map[token.Tag]ast.Kind{
	token.ASSIGN: ast.ASSIGN, token.ADD_ASSIGN: ast.ADD_ASSIGN, token.SUB_ASSIGN: ast.SUB_ASSIGN,
	token.MUL_ASSIGN: ast.MUL_ASSIGN, token.DIV_ASSIGN: ast.DIV_ASSIGN, token.MOD_ASSIGN: ast.MOD_ASSIGN,
	token.SHL_ASSIGN: ast.SHL_ASSIGN, token.SHR_ASSIGN: ast.SHR_ASSIGN, token.USHR_ASSIGN: ast.USHR_ASSIGN,
	token.AND_ASSIGN: ast.AND_ASSIGN, token.XOR_ASSIGN: ast.XOR_ASSIGN, token.OR_ASSIGN: ast.OR_ASSIGN,
}

// parseAssignment implements grammar layer (i): right-recursive `=`
// and the eleven compound forms.
func (p *Parser) parseAssignment(notin bool) *ast.Node {
	left := p.parseConditional(notin)
	kind, ok := assignOps[p.tag]
	if !ok {
		return left
	}
	line := p.line
	p.advance()
	right := p.parseAssignment(notin)
	n := p.node(kind, line)
	ast.Link(n, left, right)
	return n
}

// parseExpression implements grammar layer (j): comma-separated.
func (p *Parser) parseExpression(notin bool) *ast.Node {
	left := p.parseAssignment(notin)
	for p.tag == token.COMMA {
		line := p.line
		p.advance()
		right := p.parseAssignment(notin)
		n := p.node(ast.COMMA, line)
		ast.Link(n, left, right)
		left = n
	}
	return left
}
