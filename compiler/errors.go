package compiler

import "fmt"

// CompileError is raised on invalid lvalue, unknown expression kind, or
// illegal property name in an object initialiser. It is always thrown
// via runtime.Throw and caught at exactly one frame, Compile's own
// entry point.
type CompileError struct {
	Filename string
	Line     int
	Message  string
}

func (e CompileError) Error() string {
	return fmt.Sprintf("💥 %s:%d: error: %s", e.Filename, e.Line, e.Message)
}
