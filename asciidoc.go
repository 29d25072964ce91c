// Package asciidoc parses AsciiDoc source into an attributed document tree
// that renderers walk through the read-only node interface.
package asciidoc

import (
	"context"
	"errors"
	"io/fs"
	"maps"
	"path"
	"strconv"

	"github.com/goliatone/go-asciidoc/internal/ast"
	"github.com/goliatone/go-asciidoc/internal/cache"
	"github.com/goliatone/go-asciidoc/internal/diagnostics"
	"github.com/goliatone/go-asciidoc/internal/frontmatter"
	"github.com/goliatone/go-asciidoc/internal/identity"
	"github.com/goliatone/go-asciidoc/internal/logging"
	"github.com/goliatone/go-asciidoc/internal/parser"
	"github.com/goliatone/go-asciidoc/internal/sections"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Document exports the parsed document tree.
type Document = ast.Document

// Section exports section nodes.
type Section = ast.Section

// Block exports block nodes.
type Block = ast.Block

// List exports list nodes.
type List = ast.List

// ListItem exports list items and description list entries.
type ListItem = ast.ListItem

// Table exports table nodes.
type Table = ast.Table

// Row exports table rows.
type Row = ast.Row

// Cell exports table cells.
type Cell = ast.Cell

// Node exports the read-only node contract converters consume.
type Node = interfaces.Node

// Diagnostic exports the structural warning record.
type Diagnostic = interfaces.Diagnostic

// ParseError exports the error holding every fatal problem of a parse.
type ParseError = parser.ParseError

// Problem exports a single fatal parse problem.
type Problem = parser.Problem

// FrontMatter exports the decoded front matter block.
type FrontMatter = frontmatter.FrontMatter

// ErrParseFailed is matched by errors.Is for every fatal parse.
var ErrParseFailed = parser.ErrParseFailed

// ErrNoFilesystem is returned by ParseFile when the engine has no filesystem.
var ErrNoFilesystem = errors.New("asciidoc: no filesystem configured")

const (
	frontMatterInvalidCode = "ASCIIDOC_FRONT_MATTER_INVALID"
	sourceUnreadableCode   = "ASCIIDOC_SOURCE_UNREADABLE"
)

// Walk visits node and its descendants depth first until fn returns false.
func Walk(node Node, fn func(Node) bool) {
	ast.Walk(node, fn)
}

// ParseOptions are the per-call settings layered over the configuration.
type ParseOptions struct {
	// Source names the input in diagnostics.
	Source string
	// Doctype locks the doctype for this parse.
	Doctype string
	// Attributes are API attributes; they override the configured ones.
	Attributes map[string]string
	// HeaderOnly stops after the document header.
	HeaderOnly bool
	// NoCache bypasses the document cache for this call.
	NoCache bool
}

// Engine parses documents with a fixed configuration. It is safe for
// concurrent use.
type Engine struct {
	cfg       Config
	provider  interfaces.LoggerProvider
	logger    interfaces.Logger
	sink      interfaces.DiagnosticSink
	resolver  interfaces.IncludeResolver
	converter interfaces.InlineConverter
	fsys      fs.FS

	parser    *parser.Parser
	documents *cache.Documents[*ast.Document]
	patterns  *cache.Patterns
	schema    *frontmatter.Schema
}

// Option customises an Engine.
type Option func(*Engine)

// WithLoggerProvider replaces the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(e *Engine) {
		e.provider = provider
	}
}

// WithDiagnosticSink receives every diagnostic as it is produced.
func WithDiagnosticSink(sink interfaces.DiagnosticSink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithIncludeResolver loads include targets. Without one, ParseFile resolves
// includes against its filesystem and Parse leaves them unresolved.
func WithIncludeResolver(resolver interfaces.IncludeResolver) Option {
	return func(e *Engine) {
		e.resolver = resolver
	}
}

// WithInlineConverter replaces the built in HTML inline converter.
func WithInlineConverter(converter interfaces.InlineConverter) Option {
	return func(e *Engine) {
		e.converter = converter
	}
}

// WithFS sets the filesystem ParseFile reads from.
func WithFS(fsys fs.FS) Option {
	return func(e *Engine) {
		e.fsys = fsys
	}
}

// New validates cfg and builds an engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	if e.provider == nil {
		provider, err := newLoggerProvider(cfg)
		if err != nil {
			return nil, err
		}
		e.provider = provider
	}
	e.logger = logging.RootLogger(e.provider)

	if cfg.Cache.Enabled {
		documents, err := cache.NewDocuments[*ast.Document](cfg.Cache.Size)
		if err != nil {
			return nil, err
		}
		e.documents = documents
		patternSize := cfg.Cache.PatternSize
		if patternSize <= 0 {
			patternSize = cache.DefaultPatternSize
		}
		patterns, err := cache.NewPatterns(patternSize)
		if err != nil {
			return nil, err
		}
		e.patterns = patterns
	}

	if cfg.FrontMatter.Enabled && len(cfg.FrontMatter.Schema) > 0 {
		schema, err := frontmatter.CompileSchemaMap(cfg.FrontMatter.Schema)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid front matter schema").
				WithTextCode(frontMatterInvalidCode)
		}
		e.schema = schema
	}

	e.parser = e.newParser(e.resolver)
	e.logger.Debug("engine ready",
		"cache", cfg.Cache.Enabled,
		"front_matter", cfg.FrontMatter.Enabled,
	)
	return e, nil
}

func (e *Engine) newParser(resolver interfaces.IncludeResolver) *parser.Parser {
	return parser.New(
		parser.WithLogger(logging.ParserLogger(e.provider)),
		parser.WithSectionEngine(sections.New(sections.WithLogger(logging.SectionsLogger(e.provider)))),
		parser.WithIncludeResolver(resolver),
		parser.WithDiagnosticSink(e.sink),
		parser.WithInlineConverter(e.converter),
		parser.WithPatternCache(e.patterns),
	)
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Parse parses source. Fatal problems come back as an error matching
// ErrParseFailed that unwraps to *ParseError; structural warnings are on the
// returned document.
func (e *Engine) Parse(ctx context.Context, source string, opts ParseOptions) (*Document, error) {
	return e.parse(ctx, e.parser, source, opts)
}

// ParseFile reads name from the engine filesystem and parses it. Includes
// resolve relative to the directory of name unless an include resolver was
// configured.
func (e *Engine) ParseFile(ctx context.Context, name string, opts ParseOptions) (*Document, error) {
	if e.fsys == nil {
		return nil, ErrNoFilesystem
	}
	data, err := fs.ReadFile(e.fsys, name)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryNotFound, "asciidoc source could not be read").
			WithTextCode(sourceUnreadableCode).
			WithMetadata(map[string]any{"path": name})
	}
	if opts.Source == "" {
		opts.Source = name
	}

	p := e.parser
	if e.resolver == nil {
		p = e.newParser(NewFSResolver(e.fsys, path.Dir(name)))
	}
	return e.parse(ctx, p, string(data), opts)
}

// Purge empties the document cache.
func (e *Engine) Purge() {
	e.documents.Purge()
}

// CachedDocuments returns the number of cached documents.
func (e *Engine) CachedDocuments() int {
	return e.documents.Len()
}

func (e *Engine) parse(ctx context.Context, p *parser.Parser, source string, opts ParseOptions) (*Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var fm frontmatter.FrontMatter
	if e.cfg.FrontMatter.Enabled {
		meta, body, err := frontmatter.Parse([]byte(source))
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "front matter could not be decoded").
				WithTextCode(frontMatterInvalidCode).
				WithMetadata(map[string]any{"source": opts.Source})
		}
		fm = meta
		source = string(body)
	}

	popts := parser.Options{
		Source:          opts.Source,
		Doctype:         opts.Doctype,
		Attributes:      e.attributes(fm, opts),
		MaxIncludeDepth: e.cfg.Parser.MaxIncludeDepth,
		HeaderOnly:      opts.HeaderOnly,
	}

	logger := e.logger.WithContext(logging.ContextWithSource(ctx, opts.Source))
	key := e.cacheKey(source, popts, opts.NoCache || p != e.parser)
	if doc, ok := e.documents.Get(key); ok {
		logger.Debug("document cache hit")
		return doc, nil
	}

	doc, err := p.Parse(ctx, source, popts)
	if err != nil {
		return nil, err
	}
	if fm.Found() {
		doc.SetFrontMatter(fm.Raw)
		e.checkFrontMatter(logger, doc, fm, opts.Source)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.documents.Add(key, doc)
	return doc, nil
}

// attributes layers, lowest first: configured soft defaults, front matter,
// configured API attributes, per-call attributes.
func (e *Engine) attributes(fm frontmatter.FrontMatter, opts ParseOptions) map[string]string {
	out := e.cfg.Parser.SoftAttributes()
	for k, v := range fm.DocumentAttributes() {
		out[k] = v + "@"
	}
	maps.Copy(out, e.cfg.Parser.Attributes)
	maps.Copy(out, opts.Attributes)
	return out
}

func (e *Engine) cacheKey(source string, opts parser.Options, skip bool) uuid.UUID {
	if skip || e.documents == nil {
		return uuid.Nil
	}
	fields := map[string]string{
		"@source":      opts.Source,
		"@doctype":     opts.Doctype,
		"@header-only": strconv.FormatBool(opts.HeaderOnly),
	}
	for k, v := range opts.Attributes {
		fields[k] = v
	}
	return identity.DocumentUUID(identity.SourceUUID(source), fields)
}

func (e *Engine) checkFrontMatter(logger interfaces.Logger, doc *Document, fm frontmatter.FrontMatter, source string) {
	for _, issue := range e.schema.Validate(fm) {
		d := interfaces.Diagnostic{
			Severity: interfaces.SeverityWarning,
			Code:     diagnostics.CodeFrontMatterInvalid,
			Message:  "front matter " + issue.String(),
			Source:   source,
			Line:     1,
		}
		doc.AddDiagnostic(d)
		if e.sink != nil {
			e.sink.Report(d)
		}
		logging.WithLine(logger, d.Line).Warn(d.Message, "code", d.Code)
	}
}
