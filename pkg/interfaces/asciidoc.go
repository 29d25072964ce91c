package interfaces

import (
	"context"
	"fmt"
)

// Substitution names one pass of the inline substitution pipeline.
type Substitution string

const (
	SubSpecialCharacters Substitution = "specialcharacters"
	SubQuotes            Substitution = "quotes"
	SubAttributes        Substitution = "attributes"
	SubReplacements      Substitution = "replacements"
	SubMacros            Substitution = "macros"
	SubPostReplacements  Substitution = "post_replacements"
	SubCallouts          Substitution = "callouts"
)

// Severity grades a diagnostic.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the upper-case severity label.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARN"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic is a non-fatal message produced while parsing. Structural
// warnings (dropped abstract, unresolved xref, missing attribute under the
// warn policy) are reported here and never abort the parse.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Source   string
	Line     int
}

// String renders the diagnostic in a compact "source:line: LEVEL message" form.
func (d Diagnostic) String() string {
	source := d.Source
	if source == "" {
		source = "<stdin>"
	}
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %s %s", source, d.Line, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s %s", source, d.Severity, d.Message)
}

// DiagnosticSink receives diagnostics as they are produced.
type DiagnosticSink interface {
	Report(d Diagnostic)
}

// DiagnosticFunc adapts a function to DiagnosticSink.
type DiagnosticFunc func(d Diagnostic)

// Report calls f(d).
func (f DiagnosticFunc) Report(d Diagnostic) { f(d) }

// InlineKind identifies the inline span produced by the quotes and macros passes.
type InlineKind uint8

const (
	InlineQuoted InlineKind = iota
	InlineAnchor
	InlineBreak
	InlineButton
	InlineCallout
	InlineFootnote
	InlineImage
	InlineIndexTerm
	InlineKbd
	InlineMenu
)

// InlineNode is the read view of an inline span handed to an InlineConverter.
// Type refines the kind: quoted spans use strong, emphasis, monospaced, mark,
// superscript, subscript, double, single, unquoted; anchors use link, xref,
// ref, bibref; footnotes use ref for reused indexes.
type InlineNode interface {
	Node
	InlineKind() InlineKind
	Type() string
	Text() string
	Target() string
}

// InlineConverter renders inline spans into the text stream during
// substitution. Converters for block output live outside this module.
type InlineConverter interface {
	ConvertInline(node InlineNode) string
}

// IncludeResolver loads the lines referenced by an include directive. The
// parser never touches the filesystem on its own.
type IncludeResolver interface {
	ResolveInclude(ctx context.Context, target string, attrs map[string]string) ([]string, error)
}
