// Package substitution implements the inline substitution pipeline applied to
// paragraph text, titles, attribute values and verbatim content.
package substitution

import (
	"regexp"
	"strconv"
	"strings"

	"mvdan.cc/xurls/v2"

	"github.com/goliatone/go-asciidoc/internal/ast"
	"github.com/goliatone/go-asciidoc/internal/attributes"
	"github.com/goliatone/go-asciidoc/internal/logging"
	"github.com/goliatone/go-asciidoc/internal/registry"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// Reporter receives the warnings raised while substituting.
type Reporter interface {
	Warn(line int, code, format string, args ...any)
}

// Substitutor applies substitution passes against one document's attribute
// table and registries. It is not safe for concurrent use.
type Substitutor struct {
	table     *attributes.Table
	ids       *registry.IDs
	footnotes *registry.Footnotes
	callouts  *registry.Callouts
	converter interfaces.InlineConverter
	reporter  Reporter
	logger    interfaces.Logger
	urls      *regexp.Regexp
}

// Option customises a Substitutor.
type Option func(*Substitutor)

// WithRegistries wires the id, footnote and callout registries consulted by
// the macros and callouts passes.
func WithRegistries(ids *registry.IDs, footnotes *registry.Footnotes, callouts *registry.Callouts) Option {
	return func(s *Substitutor) {
		if ids != nil {
			s.ids = ids
		}
		if footnotes != nil {
			s.footnotes = footnotes
		}
		if callouts != nil {
			s.callouts = callouts
		}
	}
}

// WithConverter overrides the inline converter. The default emits HTML.
func WithConverter(converter interfaces.InlineConverter) Option {
	return func(s *Substitutor) {
		if converter != nil {
			s.converter = converter
		}
	}
}

// WithReporter routes warnings (unresolved references, missing attributes).
func WithReporter(reporter Reporter) Option {
	return func(s *Substitutor) {
		if reporter != nil {
			s.reporter = reporter
		}
	}
}

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Substitutor) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns a Substitutor bound to table.
func New(table *attributes.Table, opts ...Option) *Substitutor {
	if table == nil {
		table = attributes.NewTable()
	}
	s := &Substitutor{
		table:     table,
		ids:       registry.NewIDs(),
		footnotes: registry.NewFootnotes(),
		callouts:  registry.NewCallouts(),
		converter: HTMLConverter{},
		reporter:  nopReporter{},
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if rx, err := xurls.StrictMatchingScheme(`(?:https?|ftp|file|irc)://`); err == nil {
		s.urls = rx
	} else {
		s.urls = xurls.Strict()
	}
	return s
}

// Table returns the attribute table the substitutor reads and mutates.
func (s *Substitutor) Table() *attributes.Table { return s.table }

// Scope is the per call context: the node owning the text, its source line
// and whether every line break is hard.
type Scope struct {
	Node       interfaces.Node
	Line       int
	Hardbreaks bool
}

// Apply runs subs over text, left to right.
func (s *Substitutor) Apply(text string, subs []interfaces.Substitution) string {
	return s.ApplyIn(Scope{}, text, subs)
}

// ApplyIn runs subs over text within scope. Passthroughs are extracted
// before the first pass when the macros pass is requested and restored after
// the last one.
func (s *Substitutor) ApplyIn(scope Scope, text string, subs []interfaces.Substitution) string {
	if text == "" || len(subs) == 0 {
		return text
	}
	st := &state{s: s, scope: scope}
	if hasSub(subs, interfaces.SubMacros) {
		text = st.extractPassthroughs(text)
	}
	for _, sub := range subs {
		switch sub {
		case interfaces.SubSpecialCharacters:
			text = EscapeSpecialChars(text)
		case interfaces.SubQuotes:
			text = st.quotes(text)
		case interfaces.SubAttributes:
			text = st.attributes(text)
		case interfaces.SubReplacements:
			text = replacements(text)
		case interfaces.SubMacros:
			text = st.macros(text)
		case interfaces.SubPostReplacements:
			text = st.postReplacements(text)
		case interfaces.SubCallouts:
			text = st.callouts(text)
		}
	}
	if len(st.passthroughs) > 0 {
		text = st.restorePassthroughs(text)
	}
	return text
}

// ApplyHeader applies the header substitutions used for attribute entry
// values and header lines.
func (s *Substitutor) ApplyHeader(text string) string {
	return s.Apply(text, HeaderSubs)
}

// state carries what one ApplyIn call extracts and holds back.
type state struct {
	s            *Substitutor
	scope        Scope
	passthroughs []passthrough
	held         []string
}

const (
	holdStart = "\u0091"
	holdEnd   = "\u0092"
)

var heldRx = regexp.MustCompile("\u0091(\\d+)\u0092")

// hold parks converted markup behind a placeholder so later macro patterns
// never see it.
func (st *state) hold(markup string) string {
	st.held = append(st.held, markup)
	return holdStart + strconv.Itoa(len(st.held)-1) + holdEnd
}

func (st *state) release(text string) string {
	for i := 0; i < 4 && strings.Contains(text, holdStart); i++ {
		text = heldRx.ReplaceAllStringFunc(text, func(m string) string {
			idx, err := strconv.Atoi(m[len(holdStart) : len(m)-len(holdEnd)])
			if err != nil || idx >= len(st.held) {
				return m
			}
			return st.held[idx]
		})
	}
	return text
}

func (st *state) convert(kind interfaces.InlineKind, typ, text, target string, attrs map[string]string) string {
	return st.s.converter.ConvertInline(ast.NewInline(st.scope.Node, kind, typ, text, target, attrs))
}

func (st *state) warn(code, format string, args ...any) {
	st.s.reporter.Warn(st.scope.Line, code, format, args...)
}

func hasSub(subs []interfaces.Substitution, sub interfaces.Substitution) bool {
	for _, s := range subs {
		if s == sub {
			return true
		}
	}
	return false
}

type nopReporter struct{}

func (nopReporter) Warn(int, string, string, ...any) {}

var specialCharsReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeSpecialChars replaces &, < and > with their entities.
func EscapeSpecialChars(text string) string {
	if !strings.ContainsAny(text, "&<>") {
		return text
	}
	return specialCharsReplacer.Replace(text)
}
