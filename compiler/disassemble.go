package compiler

import (
	"fmt"
	"strings"
)

// Disassemble renders fn's code, and recursively every function in its
// Funs pool, into a human-readable listing.
func Disassemble(fn *Function) string {
	var b strings.Builder
	disassemble(&b, fn, 0)
	return b.String()
}

func disassemble(b *strings.Builder, fn *Function, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%sfunction %s(%d params):\n", indent, fn.Name, fn.NumParams)

	ip := 0
	for ip < len(fn.Code) {
		op := Op(fn.Code[ip])
		fmt.Fprintf(b, "%s%04d  %s", indent, ip, op)
		n := op.Operands()
		for i := 0; i < n; i++ {
			operand := fn.Code[ip+1+i]
			fmt.Fprintf(b, " %s", operandDetail(fn, op, operand))
		}
		fmt.Fprintln(b)
		ip += 1 + n
	}

	for _, nested := range fn.Funs {
		if nested == fn {
			continue // a named function expression's self-binding entry
		}
		disassemble(b, nested, depth+1)
	}
}

// operandDetail annotates a raw operand word with the pool value it
// indexes, where that's knowable without executing the program.
func operandDetail(fn *Function, op Op, operand int) string {
	switch op {
	case OP_NUMBER:
		if operand >= 0 && operand < len(fn.Nums) {
			return fmt.Sprintf("%d (%v)", operand, fn.Nums[operand])
		}
	case OP_STRING, OP_LOADVAR, OP_LOADMEMBER, OP_AVAR, OP_AMEMBER, OP_VARDEC, OP_FUNDEC:
		if operand >= 0 && operand < len(fn.Strs) {
			return fmt.Sprintf("%d (%q)", operand, fn.Strs[operand])
		}
	case OP_CLOSURE:
		if operand >= 0 && operand < len(fn.Funs) {
			return fmt.Sprintf("%d (%s)", operand, fn.Funs[operand].Name)
		}
	}
	return fmt.Sprintf("%d", operand)
}
