// Package fold implements the constant folder: a single post-order pass
// that replaces pure numeric sub-trees with literal NUMBER nodes in
// place. It is deliberately the smallest stage in the pipeline — no
// string folding, no boolean/comparison folding, no folding across
// anything that might have a side effect.
package fold

import (
	"math"

	"wisp/ast"
)

// Fold walks root post-order and mutates it in place, replacing
// constant-foldable numeric sub-trees with NUMBER nodes. It reports
// whether root itself is constant after folding (kind == ast.NUMBER),
// which lets a caller folding a larger tree avoid re-deriving that fact
// for the parent.
func Fold(root *ast.Node) bool {
	if root == nil {
		return false
	}

	if root.Kind == ast.NUMBER {
		return true
	}

	aConst := Fold(root.A)
	bConst := Fold(root.B)
	Fold(root.C)
	Fold(root.D)

	switch root.Kind {
	case ast.NEG, ast.POS, ast.BITNOT:
		if aConst {
			makeNumber(root, evalUnary(root.Kind, root.A.Number))
			return true
		}
	case ast.MUL, ast.DIV, ast.MOD, ast.ADD, ast.SUB,
		ast.SHL, ast.SHR, ast.USHR, ast.BITAND, ast.BITXOR, ast.BITOR:
		if aConst && bConst {
			makeNumber(root, evalBinary(root.Kind, root.A.Number, root.B.Number))
			return true
		}
	}
	return false
}

// makeNumber rewrites n in place into a NUMBER literal carrying v,
// severing its children. The arena still owns the now-orphaned child
// nodes, so this is safe without a separate free.
func makeNumber(n *ast.Node, v float64) {
	n.Kind = ast.NUMBER
	n.Number = v
	n.A, n.B, n.C, n.D = nil, nil, nil, nil
}

func evalUnary(kind ast.Kind, v float64) float64 {
	switch kind {
	case ast.NEG:
		return -v
	case ast.POS:
		return v
	case ast.BITNOT:
		return float64(^ToInt32(v))
	}
	panic("fold: unreachable unary kind")
}

func evalBinary(kind ast.Kind, a, b float64) float64 {
	switch kind {
	case ast.MUL:
		return a * b
	case ast.DIV:
		return a / b
	case ast.MOD:
		return math.Mod(a, b)
	case ast.ADD:
		return a + b
	case ast.SUB:
		return a - b
	case ast.SHL:
		return float64(ToInt32(a) << (ToUint32(b) & 0x1F))
	case ast.SHR:
		return float64(ToInt32(a) >> (ToUint32(b) & 0x1F))
	case ast.USHR:
		return float64(ToUint32(a) >> (ToUint32(b) & 0x1F))
	case ast.BITAND:
		return float64(ToInt32(a) & ToInt32(b))
	case ast.BITXOR:
		return float64(ToInt32(a) ^ ToInt32(b))
	case ast.BITOR:
		return float64(ToInt32(a) | ToInt32(b))
	}
	panic("fold: unreachable binary kind")
}

