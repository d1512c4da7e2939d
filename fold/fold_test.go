package fold

import (
	"testing"

	"wisp/ast"
)

// buildArithmeticTree builds the initializer sub-tree for
// `var x = 1 + 2 * 3;`: ADD(NUMBER(1), MUL(NUMBER(2), NUMBER(3))).
func buildArithmeticTree(a *ast.Arena) *ast.Node {
	one := a.New(ast.NUMBER, 1)
	one.Number = 1
	two := a.New(ast.NUMBER, 1)
	two.Number = 2
	three := a.New(ast.NUMBER, 1)
	three.Number = 3
	mul := a.New(ast.MUL, 1)
	ast.Link(mul, two, three)
	add := a.New(ast.ADD, 1)
	ast.Link(add, one, mul)
	return add
}

func TestFoldConstantArithmetic(t *testing.T) {
	a := ast.NewArena()
	tree := buildArithmeticTree(a)

	if !Fold(tree) {
		t.Fatalf("Fold did not report the ADD node as constant")
	}
	if tree.Kind != ast.NUMBER {
		t.Fatalf("tree.Kind = %v, want NUMBER", tree.Kind)
	}
	if tree.Number != 7 {
		t.Fatalf("tree.Number = %v, want 7", tree.Number)
	}
	if tree.A != nil || tree.B != nil {
		t.Fatalf("folded node retained children: A=%v B=%v", tree.A, tree.B)
	}
}

func TestFoldIsIdempotent(t *testing.T) {
	a := ast.NewArena()
	tree := buildArithmeticTree(a)
	Fold(tree)
	before := *tree
	Fold(tree)
	if tree.Kind != before.Kind || tree.Number != before.Number {
		t.Fatalf("second Fold pass changed an already-folded node: got %+v, want %+v", tree, before)
	}
}

func TestFoldDoesNotCrossIdentifiers(t *testing.T) {
	a := ast.NewArena()
	x := a.New(ast.IDENTIFIER, 1)
	x.String = "x"
	one := a.New(ast.NUMBER, 1)
	one.Number = 1
	add := a.New(ast.ADD, 1)
	ast.Link(add, x, one)

	if Fold(add) {
		t.Fatalf("Fold treated an identifier-containing ADD as constant")
	}
	if add.Kind != ast.ADD {
		t.Fatalf("Fold rewrote a non-constant node: kind=%v", add.Kind)
	}
}

func TestFoldDoesNotFoldComparisons(t *testing.T) {
	a := ast.NewArena()
	one := a.New(ast.NUMBER, 1)
	one.Number = 1
	two := a.New(ast.NUMBER, 1)
	two.Number = 2
	lt := a.New(ast.LT, 1)
	ast.Link(lt, one, two)

	Fold(lt)
	if lt.Kind != ast.LT {
		t.Fatalf("Fold folded a comparison node: kind=%v", lt.Kind)
	}
}

func TestFoldUnaryNeg(t *testing.T) {
	a := ast.NewArena()
	five := a.New(ast.NUMBER, 1)
	five.Number = 5
	neg := a.New(ast.NEG, 1)
	ast.Link(neg, five)

	Fold(neg)
	if neg.Kind != ast.NUMBER || neg.Number != -5 {
		t.Fatalf("got kind=%v number=%v, want NUMBER -5", neg.Kind, neg.Number)
	}
}

func TestToInt32AndToUint32(t *testing.T) {
	cases := []struct {
		in       float64
		wantI32  int32
		wantU32  uint32
	}{
		{0, 0, 0},
		{1, 1, 1},
		{-1, -1, 4294967295},
		{4294967296, 0, 0},      // 2^32 wraps to 0
		{4294967297, 1, 1},      // 2^32 + 1 wraps to 1
		{2147483648, -2147483648, 2147483648}, // 2^31 wraps to INT32_MIN
	}
	for _, c := range cases {
		if got := ToInt32(c.in); got != c.wantI32 {
			t.Errorf("ToInt32(%v) = %v, want %v", c.in, got, c.wantI32)
		}
		if got := ToUint32(c.in); got != c.wantU32 {
			t.Errorf("ToUint32(%v) = %v, want %v", c.in, got, c.wantU32)
		}
	}
}

func TestToInt32NonFinite(t *testing.T) {
	nan := 0.0
	nan = nan / nan
	if got := ToInt32(nan); got != 0 {
		t.Errorf("ToInt32(NaN) = %v, want 0", got)
	}
}
