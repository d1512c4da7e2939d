// This file implements the AST-to-bytecode compiler: the single
// Compile entry point plus the declaration-hoisting passes, the
// expression/lvalue/statement lowering rules, and the call protocol.
package compiler

import (
	"fmt"

	"wisp/ast"
	"wisp/runtime"
)

// State is the compiler's per-compilation mutable state: the chain of
// every function created so far (for cleanup on failure) and the
// filename used in diagnostics.
type State struct {
	filename string
	chain    *Function
}

// NewState returns a compiler state ready to compile one source file.
func NewState(filename string) *State {
	return &State{filename: filename}
}

// Chain exposes the function cleanup chain, for tests asserting
// resource-lifecycle invariants.
func (s *State) Chain() *Function { return s.chain }

// FreeCompile releases any remaining compiled functions on the chain.
// Call this once the caller has taken ownership of the root function
// Compile returned.
func (s *State) FreeCompile() { s.chain = nil }

func (s *State) newFunction(name string, numParams int) *Function {
	f := newFunction(name)
	f.NumParams = numParams
	f.next = s.chain
	s.chain = f
	return f
}

func (s *State) errorf(node *ast.Node, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	runtime.Throw(CompileError{Filename: s.filename, Line: node.Line, Message: msg})
}

// Compile lowers root — the top-level statement-list node produced by
// the parser for an entire source file — into a compiled Function. On
// failure it returns a nil function, a non-nil error, and guarantees
// no leaked functions remain reachable through the returned value.
func Compile(filename string, root *ast.Node) (fn *Function, err error) {
	s := NewState(filename)
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				panic(r)
			}
			err = e
			fn = nil
			s.FreeCompile()
		}
	}()
	fn = s.compileTopLevel(root)
	return fn, nil
}

// compileTopLevel compiles the implicit top-level function: unnamed,
// no parameters, body == root.
func (s *State) compileTopLevel(root *ast.Node) *Function {
	fn := s.newFunction("", 0)
	s.compileBody(fn, root)
	return fn
}

// compileFunctionNode compiles a FUNEXP or FUNDEC node into a new
// Function, including the named-function-expression self-binding.
func (s *State) compileFunctionNode(node *ast.Node) *Function {
	name := ""
	if node.A != nil {
		name = node.A.String
	}
	fn := s.newFunction(name, len(ast.ListSlice(node.B)))
	if name != "" && node.Kind == ast.FUNEXP {
		selfIdx := fn.addFunction(fn)
		fn.emit(OP_CLOSURE, selfIdx)
		fn.emit(OP_FUNDEC, fn.addString(name))
	}
	s.compileBody(fn, node.C)
	return fn
}

// compileBody runs the per-function compilation order: hoist
// functions, hoist vars, lower the body, pad a trailing RETURN.
func (s *State) compileBody(fn *Function, body *ast.Node) {
	stmts := ast.ListSlice(body.A)
	s.cfundecs(fn, stmts)
	s.cvardecs(fn, body)
	s.cstmlist(fn, stmts)
	fn.finish()
}

// cfundecs walks the body's top-level statement list (not
// recursively) and eagerly compiles every FUNDEC found.
func (s *State) cfundecs(fn *Function, stmts []*ast.Node) {
	for _, stmt := range stmts {
		if stmt.Kind != ast.FUNDEC {
			continue
		}
		nested := s.compileFunctionNode(stmt)
		idx := fn.addFunction(nested)
		fn.emit(OP_CLOSURE, idx)
		fn.emit(OP_FUNDEC, fn.addString(stmt.A.String))
	}
}

// cvardecs recursively descends the entire body tree, skipping
// FUNEXP/FUNDEC subtrees, emitting VARDEC for every declared name.
// Initialisers are ignored here — cstmlist compiles them later as
// ordinary assignments.
func (s *State) cvardecs(fn *Function, node *ast.Node) {
	if node == nil {
		return
	}
	switch node.Kind {
	case ast.FUNEXP, ast.FUNDEC:
		return
	case ast.VAR:
		for _, decl := range ast.ListSlice(node.A) {
			fn.emit(OP_VARDEC, fn.addString(decl.String))
		}
		return
	case ast.VARDECL:
		fn.emit(OP_VARDEC, fn.addString(node.String))
		return
	}
	s.cvardecs(fn, node.A)
	s.cvardecs(fn, node.B)
	s.cvardecs(fn, node.C)
	s.cvardecs(fn, node.D)
}

// cstmlist lowers every top-level statement; FUNDEC nodes are no-ops
// here, already emitted by cfundecs.
func (s *State) cstmlist(fn *Function, stmts []*ast.Node) {
	for _, stmt := range stmts {
		if stmt.Kind == ast.FUNDEC {
			continue
		}
		s.cstm(fn, stmt)
	}
}

var unsupportedStatement = map[ast.Kind]bool{
	ast.FOR: true, ast.FOR_IN: true, ast.FOR_VAR: true, ast.FOR_IN_VAR: true,
	ast.SWITCH: true, ast.CASE: true, ast.DEFAULT: true, ast.LABEL: true,
	ast.BREAK: true, ast.CONTINUE: true, ast.TRY: true,
}

// cstm lowers one statement node. Constructs the parser accepts but
// this compiler core does not lower (for, for-in, switch, labelled
// statements, break, continue, try) report a compile error, as does any
// other kind without a case below; expression statements arrive wrapped
// in EXPRSTMT.
func (s *State) cstm(fn *Function, node *ast.Node) {
	if unsupportedStatement[node.Kind] {
		s.errorf(node, "statement kind %s is not supported by this compiler", node.Kind)
		return
	}

	switch node.Kind {
	case ast.BLOCK:
		for _, stmt := range ast.ListSlice(node.A) {
			s.cstm(fn, stmt)
		}
	case ast.NOP:
		// emit nothing
	case ast.VAR:
		for _, decl := range ast.ListSlice(node.A) {
			if decl.A == nil {
				continue
			}
			s.cexpr(fn, decl.A)
			fn.emit(OP_AVAR, fn.addString(decl.String))
			fn.emit(OP_STORE)
			fn.emit(OP_POP)
		}
	case ast.IF:
		s.cexpr(fn, node.A)
		if node.C != nil {
			then := fn.jump(OP_JTRUE)
			s.cstm(fn, node.C)
			end := fn.jump(OP_JUMP)
			fn.label(then)
			s.cstm(fn, node.B)
			fn.label(end)
		} else {
			end := fn.jump(OP_JFALSE)
			s.cstm(fn, node.B)
			fn.label(end)
		}
	case ast.WHILE:
		loop := fn.here()
		s.cexpr(fn, node.A)
		end := fn.jump(OP_JFALSE)
		s.cstm(fn, node.B)
		fn.jumpto(OP_JUMP, loop)
		fn.label(end)
	case ast.DO:
		loop := fn.here()
		s.cstm(fn, node.A)
		s.cexpr(fn, node.B)
		fn.jumpto(OP_JTRUE, loop)
	case ast.RETURN:
		if node.A != nil {
			s.cexpr(fn, node.A)
		} else {
			fn.emit(OP_UNDEF)
		}
		fn.emit(OP_RETURN)
	case ast.WITH:
		s.cexpr(fn, node.A)
		fn.emit(OP_WITH)
		s.cstm(fn, node.B)
		fn.emit(OP_ENDWITH)
	case ast.THROW:
		s.cexpr(fn, node.A)
		fn.emit(OP_THROW)
	case ast.DEBUGGER:
		fn.emit(OP_DEBUGGER)
	case ast.EXPRSTMT:
		s.cexpr(fn, node.A)
		fn.emit(OP_POP)
	default:
		s.errorf(node, "unknown statement kind %s", node.Kind)
	}
}

// clval compiles node into its "address" form.
func (s *State) clval(fn *Function, node *ast.Node) {
	switch node.Kind {
	case ast.IDENTIFIER:
		fn.emit(OP_AVAR, fn.addString(node.String))
	case ast.INDEX:
		s.cexpr(fn, node.A)
		s.cexpr(fn, node.B)
		fn.emit(OP_AINDEX)
	case ast.MEMBER:
		s.cexpr(fn, node.A)
		fn.emit(OP_AMEMBER, fn.addString(node.B.String))
	case ast.CALL:
		s.cexpr(fn, node)
	default:
		s.errorf(node, "invalid l-value in assignment")
	}
}

// ccall compiles a call expression: a method call duplicates the
// receiver so the callee is invoked with access to it; a plain call
// pushes the global `this` instead.
func (s *State) ccall(fn *Function, node *ast.Node) {
	callee := node.A
	args := ast.ListSlice(node.B)

	switch callee.Kind {
	case ast.MEMBER:
		s.cexpr(fn, callee.A)
		fn.emit(OP_DUP)
		fn.emit(OP_LOADMEMBER, fn.addString(callee.B.String))
	case ast.INDEX:
		s.cexpr(fn, callee.A)
		fn.emit(OP_DUP)
		s.cexpr(fn, callee.B)
		fn.emit(OP_LOADINDEX)
	default:
		fn.emit(OP_THIS)
		s.cexpr(fn, callee)
	}

	for _, arg := range args {
		s.cexpr(fn, arg)
	}
	fn.emit(OP_CALL, len(args))
}

func (s *State) cobject(fn *Function, node *ast.Node) {
	fn.emit(OP_NEWOBJECT)
	for _, prop := range ast.ListSlice(node.A) {
		switch prop.Kind {
		case ast.PROP_VAL:
			s.cexpr(fn, prop.B)
			fn.emit(OP_OBJECTPUT, s.propertyKey(fn, prop.A))
		case ast.PROP_GET, ast.PROP_SET:
			s.errorf(prop, "object accessor properties are not supported by this compiler")
		default:
			s.errorf(prop, "invalid property kind in object initialiser")
		}
	}
}

// propertyKey resolves a property name node to a pool index: the
// number pool for a numeric key, the string pool otherwise (identifier,
// keyword, or string key — parser-level concerns, all surfacing here
// as a STRING-payload node).
func (s *State) propertyKey(fn *Function, name *ast.Node) int {
	if name.Kind == ast.NUMBER {
		return fn.addNumber(name.Number)
	}
	return fn.addString(name.String)
}

func (s *State) carray(fn *Function, node *ast.Node) {
	fn.emit(OP_NEWARRAY)
	for i, elem := range ast.ListSlice(node.A) {
		s.cexpr(fn, elem)
		fn.emit(OP_ARRAYPUT, i)
	}
}

var binaryOp = map[ast.Kind]Op{
	ast.MUL: OP_MUL, ast.DIV: OP_DIV, ast.MOD: OP_MOD, ast.ADD: OP_ADD, ast.SUB: OP_SUB,
	ast.SHL: OP_SHL, ast.SHR: OP_SHR, ast.USHR: OP_USHR,
	ast.BITAND: OP_BITAND, ast.BITXOR: OP_BITXOR, ast.BITOR: OP_BITOR,
	ast.LT: OP_LT, ast.GT: OP_GT, ast.LE: OP_LE, ast.GE: OP_GE,
	ast.INSTANCEOF: OP_INSTANCEOF, ast.IN: OP_IN,
	ast.EQ: OP_EQ, ast.NE: OP_NE, ast.STRICTEQ: OP_STRICTEQ, ast.STRICTNE: OP_STRICTNE,
}

var unaryOp = map[ast.Kind]Op{
	ast.NEG: OP_NEG, ast.POS: OP_POS, ast.BITNOT: OP_BITNOT,
	ast.NOT: OP_NOT, ast.TYPEOF: OP_TYPEOF,
}

var incdecOp = map[ast.Kind]Op{
	ast.PREINC: OP_PREINC, ast.PREDEC: OP_PREDEC,
	ast.POSTINC: OP_POSTINC, ast.POSTDEC: OP_POSTDEC,
}

// cexpr lowers node so that exactly one value is left on the operand
// stack.
func (s *State) cexpr(fn *Function, node *ast.Node) {
	switch node.Kind {
	case ast.NUMBER:
		fn.emit(OP_NUMBER, fn.addNumber(node.Number))
	case ast.STRING:
		fn.emit(OP_STRING, fn.addString(node.String))
	case ast.REGEXP:
		s.errorf(node, "regexp literals are not supported by this compiler")
	case ast.UNDEF:
		fn.emit(OP_UNDEF)
	case ast.NULL:
		fn.emit(OP_NULL)
	case ast.TRUE:
		fn.emit(OP_TRUE)
	case ast.FALSE:
		fn.emit(OP_FALSE)
	case ast.THIS:
		fn.emit(OP_THIS)
	case ast.IDENTIFIER:
		fn.emit(OP_LOADVAR, fn.addString(node.String))
	case ast.OBJECT:
		s.cobject(fn, node)
	case ast.ARRAY:
		s.carray(fn, node)
	case ast.FUNEXP:
		nested := s.compileFunctionNode(node)
		idx := fn.addFunction(nested)
		fn.emit(OP_CLOSURE, idx)
	case ast.MEMBER:
		s.cexpr(fn, node.A)
		fn.emit(OP_LOADMEMBER, fn.addString(node.B.String))
	case ast.INDEX:
		s.cexpr(fn, node.A)
		s.cexpr(fn, node.B)
		fn.emit(OP_LOADINDEX)
	case ast.CALL:
		s.ccall(fn, node)
	case ast.NEW:
		s.cexpr(fn, node.A)
		args := ast.ListSlice(node.B)
		for _, a := range args {
			s.cexpr(fn, a)
		}
		fn.emit(OP_NEW, len(args))
	case ast.DELETE:
		s.clval(fn, node.A)
		fn.emit(OP_DELETE)
	case ast.VOID_:
		s.cexpr(fn, node.A)
		fn.emit(OP_POP)
		fn.emit(OP_UNDEF)
	case ast.PREINC, ast.PREDEC, ast.POSTINC, ast.POSTDEC:
		s.clval(fn, node.A)
		fn.emit(incdecOp[node.Kind])
	case ast.LOGAND:
		s.cexpr(fn, node.A)
		fn.emit(OP_DUP)
		end := fn.jump(OP_JFALSE)
		fn.emit(OP_POP)
		s.cexpr(fn, node.B)
		fn.label(end)
	case ast.LOGOR:
		s.cexpr(fn, node.A)
		fn.emit(OP_DUP)
		end := fn.jump(OP_JTRUE)
		fn.emit(OP_POP)
		s.cexpr(fn, node.B)
		fn.label(end)
	case ast.COND:
		s.cexpr(fn, node.A)
		then := fn.jump(OP_JTRUE)
		s.cexpr(fn, node.C) // else branch first: preserved quirk
		end := fn.jump(OP_JUMP)
		fn.label(then)
		s.cexpr(fn, node.B)
		fn.label(end)
	case ast.COMMA:
		s.cexpr(fn, node.A)
		fn.emit(OP_POP)
		s.cexpr(fn, node.B)
	case ast.ASSIGN:
		s.clval(fn, node.A)
		s.cexpr(fn, node.B)
		fn.emit(OP_STORE)
	default:
		if op, ok := binaryOp[node.Kind]; ok {
			s.cexpr(fn, node.A)
			s.cexpr(fn, node.B)
			fn.emit(op)
			return
		}
		if op, ok := unaryOp[node.Kind]; ok {
			s.cexpr(fn, node.A)
			fn.emit(op)
			return
		}
		if binKind, ok := ast.BinaryAssignOp[node.Kind]; ok {
			s.clval(fn, node.A)
			fn.emit(OP_LOAD)
			s.cexpr(fn, node.B)
			fn.emit(binaryOp[binKind])
			fn.emit(OP_STORE)
			return
		}
		s.errorf(node, "unknown expression kind %s", node.Kind)
	}
}
