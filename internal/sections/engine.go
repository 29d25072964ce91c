// Package sections assigns section ids, numbers sections and validates the
// placement of special sections once the block tree is built.
package sections

import (
	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-asciidoc/internal/ast"
	"github.com/goliatone/go-asciidoc/internal/logging"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// DefaultSectnumLevels is the deepest numbered level when sectnumlevels is unset.
const DefaultSectnumLevels = 3

// Reporter receives the structural warnings raised by the engine.
type Reporter interface {
	Warn(line int, code, format string, args ...any)
}

// Engine post-processes the sections of a parsed document. It keeps no
// per-document state and can be shared.
type Engine struct {
	logger     interfaces.Logger
	normalizer slug.Normalizer
	titleText  func(*ast.Section) string
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithNormalizer replaces the slug normalizer used for generated ids.
func WithNormalizer(normalizer slug.Normalizer) Option {
	return func(e *Engine) {
		if normalizer != nil {
			e.normalizer = normalizer
		}
	}
}

// WithTitleText sets how the title used for id generation is obtained; the
// raw source title is used by default.
func WithTitleText(fn func(*ast.Section) string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.titleText = fn
		}
	}
}

// New returns an engine using the default go-slug normalizer.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:     logging.NoOp(),
		normalizer: slug.Default(),
		titleText:  func(s *ast.Section) string { return s.RawTitle() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Process validates special sections, assigns and registers ids and numbers
// the sections of doc.
func (e *Engine) Process(doc *ast.Document, reporter Reporter) {
	if reporter == nil {
		reporter = nopReporter{}
	}
	logger := logging.WithFields(e.logger, map[string]any{"doctype": doc.Doctype()})

	e.validate(doc, reporter)
	assigned := e.assignIDs(doc, reporter)
	numbered := e.number(doc)

	logger.Debug("sections processed", "ids", assigned, "numbered", numbered)
}

// NormalizeLevel maps a parsed heading level onto the doctype. Level 0
// headings inside the body are parts and only exist in books; elsewhere they
// are demoted to level 1 and the second result is false.
func NormalizeLevel(doctype string, level int) (int, bool) {
	if level == 0 && doctype != "book" {
		return 1, false
	}
	return level, true
}

type nopReporter struct{}

func (nopReporter) Warn(int, string, string, ...any) {}

// each visits every section below parent depth first in document order.
func each(parent interfaces.Node, fn func(*ast.Section)) {
	for _, child := range parent.Children() {
		if s, ok := child.(*ast.Section); ok {
			fn(s)
			each(s, fn)
		}
	}
}
