package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// ParseLevel maps a configuration level name onto a Level.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "fatal":
		return LevelFatal, true
	default:
		return LevelInfo, false
	}
}

// DiagnosticWriter prints diagnostics one per line in "source:line: LEVEL
// message" form, the way compilers report.
type DiagnosticWriter struct {
	mu       sync.Mutex
	w        io.Writer
	min      interfaces.Severity
	reported int
}

var _ interfaces.DiagnosticSink = (*DiagnosticWriter)(nil)

// NewDiagnosticWriter returns a sink writing to w (stderr when nil) that
// skips diagnostics below min.
func NewDiagnosticWriter(w io.Writer, min interfaces.Severity) *DiagnosticWriter {
	if w == nil {
		w = os.Stderr
	}
	return &DiagnosticWriter{w: w, min: min}
}

// Report writes d.
func (d *DiagnosticWriter) Report(diag interfaces.Diagnostic) {
	if diag.Severity < d.min {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reported++
	fmt.Fprintln(d.w, diag.String())
}

// Reported returns how many diagnostics were written.
func (d *DiagnosticWriter) Reported() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reported
}
