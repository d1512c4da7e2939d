package compiler

// Function is the compiled output for one function (including the
// top-level script, whose function has no name and no parameters).
// Pools grow geometrically, doubling from an initial capacity of 16
// (256 for Code).
type Function struct {
	Name      string
	NumParams int

	Code []int

	Funs []*Function
	Nums []float64
	Strs []string

	// next chains every function created during one compilation, so a
	// failed compile can release them all.
	next *Function

	// lastOpWasReturn tracks whether the most recently emitted opcode
	// was RETURN, so finish() doesn't have to guess by re-reading the
	// tail of Code (an operand word can coincidentally alias an
	// opcode's own int value).
	lastOpWasReturn bool
}

const anonymousName = "<anonymous>"

func newFunction(name string) *Function {
	if name == "" {
		name = anonymousName
	}
	return &Function{
		Name: name,
		Code: make([]int, 0, 256),
		Nums: make([]float64, 0, 16),
		Strs: make([]string, 0, 16),
		Funs: make([]*Function, 0, 16),
	}
}

// here returns the current code length: the instruction index the next
// emitted opcode will occupy.
func (f *Function) here() int { return len(f.Code) }

// emit appends op and its operand words and returns the index of the
// first operand word, or -1 if op takes no operands.
func (f *Function) emit(op Op, operands ...int) int {
	f.lastOpWasReturn = op == OP_RETURN
	f.Code = append(f.Code, int(op))
	if len(operands) == 0 {
		return -1
	}
	first := len(f.Code)
	f.Code = append(f.Code, operands...)
	return first
}

// jump emits op with a placeholder operand and returns the index of
// that operand word, to be patched later via label.
func (f *Function) jump(op Op) int {
	return f.emit(op, 0)
}

// label overwrites the placeholder operand at idx with the current code
// length.
func (f *Function) label(idx int) {
	f.Code[idx] = f.here()
}

// jumpto emits op with dest as an immediate operand, skipping the
// patch step entirely.
func (f *Function) jumpto(op Op, dest int) {
	f.emit(op, dest)
}

// addNumber dedups by floating-point value equality (==) on the
// lexer's produced value — including the `-0`/`0` collapse and the
// never-matches-itself behaviour of NaN probes, preserved verbatim
// rather than "fixed" with a bit-pattern comparison.
func (f *Function) addNumber(v float64) int {
	for i, existing := range f.Nums {
		if existing == v {
			return i
		}
	}
	f.Nums = append(f.Nums, v)
	return len(f.Nums) - 1
}

// addString dedups by byte equality.
func (f *Function) addString(s string) int {
	for i, existing := range f.Strs {
		if existing == s {
			return i
		}
	}
	f.Strs = append(f.Strs, s)
	return len(f.Strs) - 1
}

// addFunction appends a fully-compiled nested function to this
// function's pool and returns its index.
func (f *Function) addFunction(nested *Function) int {
	f.Funs = append(f.Funs, nested)
	return len(f.Funs) - 1
}

// finish appends `UNDEF; RETURN` unless the last emitted opcode is
// already RETURN — every function's code must end with RETURN.
func (f *Function) finish() {
	if f.lastOpWasReturn {
		return
	}
	f.emit(OP_UNDEF)
	f.emit(OP_RETURN)
}
