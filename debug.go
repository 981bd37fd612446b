package arview

import (
	"fmt"
	"io"
	"os"
)

// Logger writes prefixed diagnostic lines. Warnings are always written;
// Debugf output requires debug mode. A nil *Logger discards everything.
type Logger struct {
	out   io.Writer
	debug bool
}

// NewLogger creates a logger writing to out (os.Stderr when nil).
func NewLogger(out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{out: out}
}

// SetDebug enables or disables Debugf output.
func (l *Logger) SetDebug(enabled bool) {
	if l != nil {
		l.debug = enabled
	}
}

// DebugEnabled reports whether Debugf output is written.
func (l *Logger) DebugEnabled() bool {
	return l != nil && l.debug
}

// Debugf writes a line in debug mode only.
func (l *Logger) Debugf(format string, args ...any) {
	if l == nil || !l.debug {
		return
	}
	_, _ = fmt.Fprintf(l.out, "[arview] "+format+"\n", args...)
}

// Warnf writes a warning line.
func (l *Logger) Warnf(format string, args ...any) {
	if l == nil {
		return
	}
	_, _ = fmt.Fprintf(l.out, "[arview] warning: "+format+"\n", args...)
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("arview debug: %s on disposed node %q", op, n.Name))
	}
}
