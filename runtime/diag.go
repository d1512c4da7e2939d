package runtime

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// errorColor and warnColor drive the `<filename>:<line>: error|warning:
// <message>` diagnostic format, keeping errors and warnings visually
// distinct on a terminal.
var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
)

// Warnf prints a warning diagnostic. Warnings never alter the
// pipeline's result — they exist purely for operator feedback, e.g.
// the function-statement desugaring notice.
func Warnf(w io.Writer, filename string, line int32, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	warnColor.Fprintf(w, "%s:%d: warning: ", filename, line)
	fmt.Fprintln(w, msg)
}

// Errorf prints an error diagnostic, used by callers that want to
// report a thrown SyntaxError/CompileError without duplicating the
// color/format logic.
func Errorf(w io.Writer, filename string, line int32, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	errorColor.Fprintf(w, "%s:%d: error: ", filename, line)
	fmt.Fprintln(w, msg)
}
