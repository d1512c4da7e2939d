package lexer

import (
	"testing"

	"wisp/token"
)

func scanAll(t *testing.T, src string) []token.Tag {
	t.Helper()
	l := New()
	l.Init("test.js", src)
	var tags []token.Tag
	for {
		tag := l.Next()
		tags = append(tags, tag)
		if tag == token.EOF {
			break
		}
	}
	return tags
}

func TestOperators(t *testing.T) {
	got := scanAll(t, "== != === !== <= >= << >> >>> && || ++ --")
	want := []token.Tag{
		token.EQ, token.NE, token.STRICTEQ, token.STRICTNE,
		token.LE, token.GE, token.SHL, token.SHR, token.USHR,
		token.LOGAND, token.LOGOR, token.INC, token.DEC, token.EOF,
	}
	assertTags(t, got, want)
}

func TestCompoundAssignments(t *testing.T) {
	got := scanAll(t, "+= -= *= /= %= <<= >>= >>>= &= ^= |=")
	want := []token.Tag{
		token.ADD_ASSIGN, token.SUB_ASSIGN, token.MUL_ASSIGN, token.DIV_ASSIGN,
		token.MOD_ASSIGN, token.SHL_ASSIGN, token.SHR_ASSIGN, token.USHR_ASSIGN,
		token.AND_ASSIGN, token.XOR_ASSIGN, token.OR_ASSIGN, token.EOF,
	}
	assertTags(t, got, want)
}

func TestKeywordsVsIdentifiers(t *testing.T) {
	got := scanAll(t, "var function foo")
	want := []token.Tag{token.VAR, token.FUNCTION, token.IDENTIFIER, token.EOF}
	assertTags(t, got, want)
}

func TestNumberLiteral(t *testing.T) {
	l := New()
	l.Init("t.js", "1 + 2 * 3")
	tag := l.Next()
	if tag != token.NUMBER || l.Number() != 1 {
		t.Fatalf("got tag=%v number=%v, want NUMBER 1", tag, l.Number())
	}
}

func TestStringLiteralEscapes(t *testing.T) {
	l := New()
	l.Init("t.js", `"a\nb"`)
	tag := l.Next()
	if tag != token.STRING || l.Text() != "a\nb" {
		t.Fatalf("got tag=%v text=%q, want STRING \"a\\nb\"", tag, l.Text())
	}
}

func TestNewlineFlagForASI(t *testing.T) {
	l := New()
	l.Init("t.js", "return\n1;")
	if tag := l.Next(); tag != token.RETURN {
		t.Fatalf("expected RETURN, got %v", tag)
	}
	if tag := l.Next(); tag != token.NUMBER || !l.Newline() {
		t.Fatalf("expected NUMBER with Newline()==true, got tag=%v newline=%v", tag, l.Newline())
	}
}

func TestNoNewlineBetweenTokensOnSameLine(t *testing.T) {
	l := New()
	l.Init("t.js", "return 1;")
	l.Next() // return
	if tag := l.Next(); tag != token.NUMBER || l.Newline() {
		t.Fatalf("expected NUMBER with Newline()==false, got tag=%v newline=%v", tag, l.Newline())
	}
}

func TestFutureReservedWordsLexAsKeywords(t *testing.T) {
	got := scanAll(t, "class const enum export extends import super")
	want := []token.Tag{
		token.CLASS, token.CONST, token.ENUM, token.EXPORT,
		token.EXTENDS, token.IMPORT, token.SUPER, token.EOF,
	}
	assertTags(t, got, want)
}

func assertTags(t *testing.T, got, want []token.Tag) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
