// Package diagnostics collects the non-fatal warnings raised while parsing.
package diagnostics

import (
	"fmt"

	"github.com/goliatone/go-asciidoc/internal/logging"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// Diagnostic codes.
const (
	CodeUnterminatedBlock  = "unterminated-block"
	CodeUnresolvedXref     = "unresolved-xref"
	CodeMissingAttribute   = "missing-attribute"
	CodeDuplicateID        = "duplicate-id"
	CodeInvalidAbstract    = "invalid-abstract"
	CodeInvalidPartintro   = "invalid-partintro"
	CodeInvalidPart        = "invalid-part"
	CodeSectionLevel       = "section-level-skipped"
	CodeLevelZeroSection   = "level-zero-section"
	CodeIncludeUnresolved  = "include-unresolved"
	CodeIncludeDepth       = "include-depth"
	CodeUnmatchedEndif     = "unmatched-endif"
	CodeUnterminatedIf     = "unterminated-conditional"
	CodeCalloutMismatch    = "callout-mismatch"
	CodeListOutOfSequence  = "list-out-of-sequence"
	CodeTableEmpty         = "table-empty"
	CodeTableSpanOverflow  = "table-span-overflow"
	CodeInvalidAttribute   = "invalid-attribute"
	CodeUnsupportedIfeval  = "unsupported-ifeval"
	CodeDroppedContent     = "dropped-content"
	CodeFrontMatterInvalid = "front-matter-invalid"
	CodeUnresolvedFootnote = "unresolved-footnote"
	CodeUnknownSubs        = "unknown-substitution"
)

// Collector records diagnostics, logs them and forwards them to an optional
// caller supplied sink.
type Collector struct {
	source string
	logger interfaces.Logger
	next   interfaces.DiagnosticSink
	items  []interfaces.Diagnostic
}

var _ interfaces.DiagnosticSink = (*Collector)(nil)

// Option customises a collector.
type Option func(*Collector)

// WithLogger logs every diagnostic at its severity.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSink forwards every diagnostic to sink.
func WithSink(sink interfaces.DiagnosticSink) Option {
	return func(c *Collector) {
		c.next = sink
	}
}

// New returns a collector for the named source.
func New(source string, opts ...Option) *Collector {
	c := &Collector{source: source, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Report records d, filling the source when missing.
func (c *Collector) Report(d interfaces.Diagnostic) {
	if d.Source == "" {
		d.Source = c.source
	}
	c.items = append(c.items, d)

	logger := logging.WithLine(logging.WithFields(c.logger, map[string]any{
		"code": d.Code,
	}), d.Line)
	switch d.Severity {
	case interfaces.SeverityError:
		logger.Error(d.Message)
	case interfaces.SeverityWarning:
		logger.Warn(d.Message)
	default:
		logger.Info(d.Message)
	}

	if c.next != nil {
		c.next.Report(d)
	}
}

// Warn reports a warning.
func (c *Collector) Warn(line int, code, format string, args ...any) {
	c.Report(interfaces.Diagnostic{
		Severity: interfaces.SeverityWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
	})
}

// Info reports an informational message.
func (c *Collector) Info(line int, code, format string, args ...any) {
	c.Report(interfaces.Diagnostic{
		Severity: interfaces.SeverityInfo,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
	})
}

// Items returns the collected diagnostics in report order.
func (c *Collector) Items() []interfaces.Diagnostic {
	return append([]interfaces.Diagnostic(nil), c.items...)
}

// Count returns how many diagnostics carry severity.
func (c *Collector) Count(severity interfaces.Severity) int {
	n := 0
	for _, d := range c.items {
		if d.Severity == severity {
			n++
		}
	}
	return n
}

// HasCode reports whether any diagnostic carries code.
func (c *Collector) HasCode(code string) bool {
	for _, d := range c.items {
		if d.Code == code {
			return true
		}
	}
	return false
}
