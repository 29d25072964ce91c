// Package parser builds the document tree from AsciiDoc source. Parsing runs
// in three phases: the block parser consumes preprocessed lines and records
// attribute entries, the section engine assigns ids and numbers, and the
// substitution phase replays the entries in document order while converting
// every title and leaf text.
package parser

import (
	"context"
	"path"
	"strconv"
	"strings"

	"github.com/goliatone/go-asciidoc/internal/ast"
	"github.com/goliatone/go-asciidoc/internal/attributes"
	"github.com/goliatone/go-asciidoc/internal/cache"
	"github.com/goliatone/go-asciidoc/internal/diagnostics"
	"github.com/goliatone/go-asciidoc/internal/identity"
	"github.com/goliatone/go-asciidoc/internal/logging"
	"github.com/goliatone/go-asciidoc/internal/sections"
	"github.com/goliatone/go-asciidoc/internal/substitution"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// defaultAttributes seeds every document table before API attributes.
var defaultAttributes = [][2]string{
	{"appendix-caption", "Appendix"},
	{"caution-caption", "Caution"},
	{"example-caption", "Example"},
	{"figure-caption", "Figure"},
	{"important-caption", "Important"},
	{"note-caption", "Note"},
	{"table-caption", "Table"},
	{"tip-caption", "Tip"},
	{"warning-caption", "Warning"},
	{"toc-title", "Table of Contents"},
	{"untitled-label", "Untitled"},
	{"version-label", "Version"},
	{"section-refsig", "Section"},
	{"chapter-refsig", "Chapter"},
	{"part-refsig", "Part"},
	{"idprefix", "_"},
	{"idseparator", "_"},
	{"sectids", ""},
	{"outfilesuffix", ".html"},
	{"max-include-depth", strconv.Itoa(DefaultMaxIncludeDepth)},
}

// Options are the per-parse settings.
type Options struct {
	// Source names the input in diagnostics ("<stdin>" when empty).
	Source string
	// Doctype locks the doctype attribute (article, book, inline, manpage).
	Doctype string
	// Attributes are API attributes. They are locked against in-document
	// entries; a "name!" key or a "!" value unsets and locks, a value ending
	// in "@" is a soft default documents may override.
	Attributes map[string]string
	// MaxIncludeDepth overrides max-include-depth when positive.
	MaxIncludeDepth int
	// HeaderOnly stops after the document header.
	HeaderOnly bool
}

// Parser turns source text into documents. A Parser holds only
// configuration and is safe for concurrent use.
type Parser struct {
	logger    interfaces.Logger
	resolver  interfaces.IncludeResolver
	sink      interfaces.DiagnosticSink
	converter interfaces.InlineConverter
	patterns  *cache.Patterns
	engine    *sections.Engine
}

// Option customises a Parser.
type Option func(*Parser)

// WithLogger sets the parser logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithIncludeResolver wires the collaborator that loads include targets.
func WithIncludeResolver(resolver interfaces.IncludeResolver) Option {
	return func(p *Parser) {
		p.resolver = resolver
	}
}

// WithDiagnosticSink forwards every warning to sink as well as recording it
// on the document.
func WithDiagnosticSink(sink interfaces.DiagnosticSink) Option {
	return func(p *Parser) {
		p.sink = sink
	}
}

// WithInlineConverter replaces the converter used for inline markup.
func WithInlineConverter(converter interfaces.InlineConverter) Option {
	return func(p *Parser) {
		if converter != nil {
			p.converter = converter
		}
	}
}

// WithPatternCache shares a compiled pattern cache across parses.
func WithPatternCache(patterns *cache.Patterns) Option {
	return func(p *Parser) {
		p.patterns = patterns
	}
}

// WithSectionEngine replaces the section engine.
func WithSectionEngine(engine *sections.Engine) Option {
	return func(p *Parser) {
		if engine != nil {
			p.engine = engine
		}
	}
}

// New returns a parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		logger:    logging.NoOp(),
		converter: substitution.HTMLConverter{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.engine == nil {
		p.engine = sections.New(sections.WithLogger(p.logger))
	}
	return p
}

// Parse parses source into a document. Structural warnings are recorded on
// the document; fatal problems are returned together as a *ParseError
// wrapped in a categorised error.
func (p *Parser) Parse(ctx context.Context, source string, opts Options) (*ast.Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st := p.newState(ctx, source, opts)
	st.logger.Debug("parse started", "lines", len(st.reader.lines))

	st.parseHeader()
	if !opts.HeaderOnly {
		st.parseBody()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.engine.Process(st.doc, st.diags)
	st.substitute()
	st.finish()

	if len(st.problems) > 0 {
		st.logger.Error("parse failed", "problems", len(st.problems))
		return nil, wrapParseError(&ParseError{Source: opts.Source, Problems: st.problems})
	}
	st.logger.Debug("parse finished", "diagnostics", len(st.doc.Diagnostics()))
	return st.doc, nil
}

// state is the per-parse working set. It is never shared.
type state struct {
	p        *Parser
	ctx      context.Context
	opts     Options
	doc      *ast.Document
	table    *attributes.Table
	subs     *substitution.Substitutor
	diags    *diagnostics.Collector
	logger   interfaces.Logger
	reader   *reader
	problems []Problem

	// header is the table as it stood after the document header; entries
	// holds the body attribute entries claimed by the node that follows them.
	header  *attributes.Table
	entries map[interfaces.Node][]attributes.Entry
	pending []attributes.Entry
	// cells maps asciidoc table cells to the state that parsed them.
	cells map[*ast.Cell]*state
}

func (p *Parser) newState(ctx context.Context, source string, opts Options) *state {
	table := attributes.NewTable()
	for _, kv := range defaultAttributes {
		_ = table.SetString(kv[0], kv[1])
	}
	if opts.Source != "" {
		base := path.Base(opts.Source)
		_ = table.SetString("docfile", opts.Source)
		_ = table.SetString("docname", strings.TrimSuffix(base, path.Ext(base)))
	}

	doc := ast.NewDocument(table)
	doc.Source = opts.Source
	doc.SourceID = identity.SourceUUID(source)

	logger := logging.WithDocumentContext(p.logger, opts.Source, opts.Doctype).WithContext(ctx)
	diags := diagnostics.New(opts.Source, diagnostics.WithLogger(logger), diagnostics.WithSink(p.sink))

	st := &state{
		p:       p,
		ctx:     ctx,
		opts:    opts,
		doc:     doc,
		table:   table,
		diags:   diags,
		logger:  logger,
		entries: make(map[interfaces.Node][]attributes.Entry),
		cells:   make(map[*ast.Cell]*state),
	}
	st.applyAPIAttributes()

	st.subs = substitution.New(table,
		substitution.WithRegistries(doc.IDs(), doc.Footnotes(), doc.Callouts()),
		substitution.WithConverter(p.converter),
		substitution.WithReporter(diags),
		substitution.WithLogger(logger),
	)
	st.reader = newReader(splitSource(source))
	st.reader.pp = &preprocessor{st: st}
	return st
}

// nestedState returns the state that parses the content of an asciidoc
// table cell. It shares the registries, diagnostics and logger of st.
func (st *state) nestedState(doc *ast.Document) *state {
	sub := &state{
		p:       st.p,
		ctx:     st.ctx,
		opts:    st.opts,
		doc:     doc,
		table:   doc.Table(),
		diags:   st.diags,
		logger:  st.logger,
		header:  doc.Table().Clone(),
		entries: make(map[interfaces.Node][]attributes.Entry),
		cells:   make(map[*ast.Cell]*state),
	}
	sub.subs = substitution.New(doc.Table(),
		substitution.WithRegistries(doc.IDs(), doc.Footnotes(), doc.Callouts()),
		substitution.WithConverter(st.p.converter),
		substitution.WithReporter(st.diags),
		substitution.WithLogger(st.logger),
	)
	return sub
}

func (st *state) applyAPIAttributes() {
	for name, value := range st.opts.Attributes {
		switch {
		case strings.HasSuffix(name, "!"):
			st.table.LockUnset(strings.TrimSuffix(name, "!"))
		case strings.HasPrefix(name, "!"):
			st.table.LockUnset(strings.TrimPrefix(name, "!"))
		case value == "!":
			st.table.LockUnset(name)
		case strings.HasSuffix(value, "@"):
			_ = st.table.SetString(name, strings.TrimSuffix(value, "@"))
		default:
			st.table.Lock(name, attributes.String(value))
		}
		if attributes.Normalize(name) == "lang" {
			st.validateLang(0, strings.TrimSuffix(value, "@"))
		}
	}
	if st.opts.Doctype != "" {
		st.table.Lock("doctype", attributes.String(st.opts.Doctype))
	} else if !st.table.IsSet("doctype") {
		_ = st.table.SetString("doctype", "article")
	}
}

func (st *state) maxIncludeDepth() int {
	if st.opts.MaxIncludeDepth > 0 {
		return st.opts.MaxIncludeDepth
	}
	if n, err := strconv.Atoi(st.table.Value("max-include-depth", "")); err == nil && n >= 0 {
		return n
	}
	return DefaultMaxIncludeDepth
}

func (st *state) sourceName() string {
	if st.opts.Source == "" {
		return "<stdin>"
	}
	return st.opts.Source
}

func (st *state) warn(line int, code, format string, args ...any) {
	st.diags.Warn(line, code, format, args...)
}

func (st *state) problem(line, column int, code, message string) {
	st.problems = append(st.problems, Problem{Line: line, Column: column, Code: code, Message: message})
}

// finish copies the collected warnings onto the document and freezes it.
func (st *state) finish() {
	for _, d := range st.diags.Items() {
		st.doc.AddDiagnostic(d)
	}
	st.doc.Freeze()
}
