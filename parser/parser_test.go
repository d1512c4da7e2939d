package parser

import (
	"strings"
	"testing"

	"wisp/ast"
	"wisp/lexer"
)

func parse(t *testing.T, src string) *ast.Node {
	t.Helper()
	p := NewParser(&lexer.Lexer{})
	root, err := p.Parse("test.js", src)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	return root
}

func body(root *ast.Node) []*ast.Node {
	return ast.ListSlice(root.A)
}

// TestStrictReservedWord checks that `var let = 1;` is legal outside
// strict mode but rejected inside it.
func TestStrictReservedWord(t *testing.T) {
	if _, err := NewParser(&lexer.Lexer{}).Parse("strict.js", "var let = 1;"); err != nil {
		t.Fatalf("non-strict `var let = 1;` should parse, got %v", err)
	}

	p := NewParser(&lexer.Lexer{})
	_, err := p.Parse("strict-mode.js", "\"use strict\";\nvar let = 1;")
	if err == nil {
		t.Fatalf("`var let = 1;` should fail under strict mode")
	}
}

// TestReturnASI checks that a newline right after `return` yields an
// empty return, never consuming the next line's expression.
func TestReturnASI(t *testing.T) {
	root := parse(t, "function f(){ return\n1; }")
	stmts := body(root)
	if len(stmts) != 1 || stmts[0].Kind != ast.FUNDEC {
		t.Fatalf("expected a single FUNDEC, got %v", stmts)
	}
	fnBody := body(stmts[0].C)
	if len(fnBody) != 2 {
		t.Fatalf("expected 2 statements in function body (empty return, expr stmt), got %d", len(fnBody))
	}
	ret := fnBody[0]
	if ret.Kind != ast.RETURN || ret.A != nil {
		t.Fatalf("first statement = %v with A=%v, want empty RETURN", ret.Kind, ret.A)
	}
	if fnBody[1].Kind != ast.EXPRSTMT {
		t.Fatalf("second statement = %v, want EXPRSTMT", fnBody[1].Kind)
	}
}

// TestFunctionStatementDesugaring checks that a function statement in
// nested (non-body-level) position is rewritten into a `var`
// declaration whose initialiser is a FUNEXP.
func TestFunctionStatementDesugaring(t *testing.T) {
	root := parse(t, "if (true) { function g(){} }")
	stmts := body(root)
	ifStmt := stmts[0]
	if ifStmt.Kind != ast.IF {
		t.Fatalf("expected IF, got %v", ifStmt.Kind)
	}
	blockStmts := body(ifStmt.B)
	if len(blockStmts) != 1 {
		t.Fatalf("expected 1 statement inside the if-block, got %d", len(blockStmts))
	}
	varStmt := blockStmts[0]
	if varStmt.Kind != ast.VAR {
		t.Fatalf("nested function statement did not desugar to VAR, got %v", varStmt.Kind)
	}
	decls := ast.ListSlice(varStmt.A)
	if len(decls) != 1 || decls[0].String != "g" {
		t.Fatalf("desugared declaration = %v, want a single VARDECL named g", decls)
	}
	if decls[0].A == nil || decls[0].A.Kind != ast.FUNEXP {
		t.Fatalf("desugared initialiser kind = %v, want FUNEXP", decls[0].A)
	}
}

// TestBodyLevelFunctionStatementStaysFundec checks that a top-level
// function statement is preserved as FUNDEC rather than desugared.
func TestBodyLevelFunctionStatementStaysFundec(t *testing.T) {
	root := parse(t, "function g(){}")
	stmts := body(root)
	if len(stmts) != 1 || stmts[0].Kind != ast.FUNDEC {
		t.Fatalf("expected a single body-level FUNDEC, got %v", stmts)
	}
}

func TestLabelVersusExpressionStatement(t *testing.T) {
	root := parse(t, "outer: while (true) { break outer; }")
	stmts := body(root)
	if len(stmts) != 1 || stmts[0].Kind != ast.LABEL {
		t.Fatalf("expected a single LABEL, got %v", stmts)
	}
	if stmts[0].String != "outer" {
		t.Fatalf("label = %q, want outer", stmts[0].String)
	}
	if stmts[0].A.Kind != ast.WHILE {
		t.Fatalf("labeled statement = %v, want WHILE", stmts[0].A.Kind)
	}
}

func TestPlainExpressionStatementIsNotMistakenForLabel(t *testing.T) {
	root := parse(t, "a + b;")
	stmts := body(root)
	if len(stmts) != 1 || stmts[0].Kind != ast.EXPRSTMT {
		t.Fatalf("expected EXPRSTMT, got %v", stmts)
	}
}

func TestForHeaderDisambiguation(t *testing.T) {
	cases := []struct {
		src  string
		kind ast.Kind
	}{
		{"for (;;) {}", ast.FOR},
		{"for (var i = 0; i < 10; i++) {}", ast.FOR_VAR},
		{"for (k in obj) {}", ast.FOR_IN},
		{"for (var k in obj) {}", ast.FOR_IN_VAR},
	}
	for _, c := range cases {
		root := parse(t, c.src)
		stmts := body(root)
		if len(stmts) != 1 || stmts[0].Kind != c.kind {
			t.Fatalf("%q: got %v, want %v", c.src, stmts, c.kind)
		}
	}
}

func TestForInDoesNotSwallowInOperator(t *testing.T) {
	// Without `notin` threading through the relational tier, the header
	// would parse as the single expression `k in obj` and then fail on
	// the missing ';'.
	root := parse(t, "for (k in obj) {}")
	stmts := body(root)
	forIn := stmts[0]
	if forIn.Kind != ast.FOR_IN {
		t.Fatalf("got %v, want FOR_IN", forIn.Kind)
	}
	if forIn.A.Kind != ast.IDENTIFIER || forIn.A.String != "k" {
		t.Fatalf("lhs = %v, want bare identifier k", forIn.A)
	}
}

func TestLogicalOperatorsAreRightAssociative(t *testing.T) {
	root := parse(t, "a && b && c;")
	expr := body(root)[0].A
	if expr.Kind != ast.LOGAND {
		t.Fatalf("got %v, want LOGAND", expr.Kind)
	}
	if expr.A.Kind != ast.IDENTIFIER || expr.A.String != "a" {
		t.Fatalf("left operand = %v, want identifier a", expr.A)
	}
	if expr.B.Kind != ast.LOGAND {
		t.Fatalf("right operand = %v, want nested LOGAND (b && c)", expr.B.Kind)
	}
}

func TestCompoundAssignmentAndPrecedence(t *testing.T) {
	root := parse(t, "x += 1 + 2 * 3;")
	expr := body(root)[0].A
	if expr.Kind != ast.ADD_ASSIGN {
		t.Fatalf("got %v, want ADD_ASSIGN", expr.Kind)
	}
	if expr.B.Kind != ast.ADD {
		t.Fatalf("rhs = %v, want ADD at the top", expr.B.Kind)
	}
}

func TestGetSetAccessorProperties(t *testing.T) {
	root := parse(t, "var o = { get x() { return 1; }, set x(v) {}, y: 2 };")
	decl := ast.ListSlice(body(root)[0].A)[0]
	obj := decl.A
	props := ast.ListSlice(obj.A)
	if len(props) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(props))
	}
	if props[0].Kind != ast.PROP_GET || props[0].A.String != "x" {
		t.Fatalf("first property = %v, want PROP_GET x", props[0])
	}
	if props[1].Kind != ast.PROP_SET || props[1].A.String != "x" {
		t.Fatalf("second property = %v, want PROP_SET x", props[1])
	}
	if props[2].Kind != ast.PROP_VAL {
		t.Fatalf("third property = %v, want PROP_VAL", props[2].Kind)
	}
}

func TestGetUsedAsPlainPropertyName(t *testing.T) {
	root := parse(t, "var o = { get: 1 };")
	decl := ast.ListSlice(body(root)[0].A)[0]
	props := ast.ListSlice(decl.A.A)
	if len(props) != 1 || props[0].Kind != ast.PROP_VAL || props[0].A.String != "get" {
		t.Fatalf("got %v, want a single PROP_VAL named get", props)
	}
}

func TestNewExpressionWithAndWithoutArguments(t *testing.T) {
	root := parse(t, "new Foo; new Bar(1, 2);")
	stmts := body(root)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	n1 := stmts[0].A
	if n1.Kind != ast.NEW || len(ast.ListSlice(n1.B)) != 0 {
		t.Fatalf("`new Foo` = %v, want NEW with no arguments", n1)
	}
	n2 := stmts[1].A
	if n2.Kind != ast.NEW || len(ast.ListSlice(n2.B)) != 2 {
		t.Fatalf("`new Bar(1, 2)` = %v, want NEW with 2 arguments", n2)
	}
}

func TestPostfixRestrictedAcrossNewline(t *testing.T) {
	root := parse(t, "a\n++b;")
	stmts := body(root)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements (ASI splits `a` and `++b`), got %d", len(stmts))
	}
	if stmts[0].A.Kind != ast.IDENTIFIER {
		t.Fatalf("first statement = %v, want bare identifier a", stmts[0].A)
	}
	if stmts[1].A.Kind != ast.PREINC {
		t.Fatalf("second statement = %v, want PREINC ++b", stmts[1].A.Kind)
	}
}

func TestTryRequiresCatchOrFinally(t *testing.T) {
	_, err := NewParser(&lexer.Lexer{}).Parse("bad.js", "try { a(); }")
	if err == nil {
		t.Fatalf("expected a SyntaxError for `try` with neither catch nor finally")
	}
	if !strings.Contains(err.Error(), "catch") {
		t.Fatalf("error = %q, want it to mention the missing catch/finally", err.Error())
	}
}

func TestSwitchRejectsMultipleDefaultClauses(t *testing.T) {
	_, err := NewParser(&lexer.Lexer{}).Parse("bad.js", "switch (x) { default: break; default: break; }")
	if err == nil {
		t.Fatalf("expected a SyntaxError for a second default clause")
	}
}

func TestParseResetsArenaBetweenCalls(t *testing.T) {
	p := NewParser(&lexer.Lexer{})
	if _, err := p.Parse("first.js", "1 + 1;"); err != nil {
		t.Fatalf("first parse failed: %v", err)
	}
	firstLen := p.Arena().Len()
	if _, err := p.Parse("second.js", "1;"); err != nil {
		t.Fatalf("second parse failed: %v", err)
	}
	if p.Arena().Len() >= firstLen {
		t.Fatalf("second parse's arena (len %d) should be smaller/fresh, not >= first (%d)", p.Arena().Len(), firstLen)
	}
}

func TestParseFailureLeavesNoPartialTree(t *testing.T) {
	root, err := NewParser(&lexer.Lexer{}).Parse("bad.js", "var ;")
	if err == nil {
		t.Fatalf("expected a SyntaxError")
	}
	if root != nil {
		t.Fatalf("expected a nil root on failure, got %v", root)
	}
}
