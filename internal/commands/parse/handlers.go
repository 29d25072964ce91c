package parsecmd

import (
	"context"

	"github.com/goliatone/go-asciidoc/internal/ast"
	"github.com/goliatone/go-asciidoc/internal/commands"
	"github.com/goliatone/go-asciidoc/internal/logging"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	parseDocumentOperation = "parse.document"
	parseFileOperation     = "parse.file"
)

var (
	_ command.Commander[ParseDocumentCommand] = (*ParseDocumentHandler)(nil)
	_ command.Commander[ParseFileCommand]     = (*ParseFileHandler)(nil)
)

// Request is the parse input handed to the Service.
type Request struct {
	Name       string
	Content    string
	Path       string
	Doctype    string
	Attributes map[string]string
	HeaderOnly bool
}

// Service parses documents on behalf of the command handlers.
type Service interface {
	ParseSource(ctx context.Context, req Request) (*ast.Document, error)
	ParseFile(ctx context.Context, req Request) (*ast.Document, error)
}

// ResultFunc receives every successfully parsed document. Commands carry no
// return value, so this is how callers collect the tree.
type ResultFunc func(ctx context.Context, doc *ast.Document)

// ParseDocumentHandler parses in-memory sources.
type ParseDocumentHandler struct {
	inner *commands.Handler[ParseDocumentCommand]
}

// NewParseDocumentHandler creates a handler bound to service.
func NewParseDocumentHandler(service Service, logger interfaces.Logger, results ResultFunc, opts ...commands.HandlerOption[ParseDocumentCommand]) *ParseDocumentHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ParseDocumentCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		doc, err := service.ParseSource(ctx, Request{
			Name:       msg.Name,
			Content:    msg.Content,
			Doctype:    msg.Doctype,
			Attributes: msg.Attributes,
			HeaderOnly: msg.HeaderOnly,
		})
		if err != nil {
			return err
		}
		summarize(baseLogger, doc).Info("asciidoc.command.parse_document.completed")
		if results != nil {
			results(ctx, doc)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ParseDocumentCommand]{
		commands.WithLogger[ParseDocumentCommand](baseLogger),
		commands.WithOperation[ParseDocumentCommand](parseDocumentOperation),
		commands.WithMessageFields(func(msg ParseDocumentCommand) map[string]any {
			fields := map[string]any{
				"source": msg.Name,
				"bytes":  len(msg.Content),
			}
			if msg.Doctype != "" {
				fields["doctype"] = msg.Doctype
			}
			if msg.HeaderOnly {
				fields["header_only"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ParseDocumentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ParseDocumentCommand].
func (h *ParseDocumentHandler) Execute(ctx context.Context, msg ParseDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ParseFileHandler parses files resolved by the service.
type ParseFileHandler struct {
	inner *commands.Handler[ParseFileCommand]
}

// NewParseFileHandler creates a handler bound to service.
func NewParseFileHandler(service Service, logger interfaces.Logger, results ResultFunc, opts ...commands.HandlerOption[ParseFileCommand]) *ParseFileHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ParseFileCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		doc, err := service.ParseFile(ctx, Request{
			Name:       msg.Path,
			Path:       msg.Path,
			Doctype:    msg.Doctype,
			Attributes: msg.Attributes,
			HeaderOnly: msg.HeaderOnly,
		})
		if err != nil {
			return err
		}
		summarize(baseLogger, doc).Info("asciidoc.command.parse_file.completed")
		if results != nil {
			results(ctx, doc)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ParseFileCommand]{
		commands.WithLogger[ParseFileCommand](baseLogger),
		commands.WithOperation[ParseFileCommand](parseFileOperation),
		commands.WithMessageFields(func(msg ParseFileCommand) map[string]any {
			fields := map[string]any{
				"path": msg.Path,
			}
			if msg.Doctype != "" {
				fields["doctype"] = msg.Doctype
			}
			if msg.HeaderOnly {
				fields["header_only"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ParseFileHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ParseFileCommand].
func (h *ParseFileHandler) Execute(ctx context.Context, msg ParseFileCommand) error {
	return h.inner.Execute(ctx, msg)
}

func summarize(logger interfaces.Logger, doc *ast.Document) interfaces.Logger {
	if doc == nil {
		return logger
	}
	return logging.WithFields(logger, map[string]any{
		"title":         doc.Title(),
		"doctype":       doc.Doctype(),
		"section_count": len(doc.Sections()),
		"block_count":   len(doc.Blocks()),
		"footnotes":     doc.Footnotes().Len(),
		"diagnostics":   len(doc.Diagnostics()),
	})
}
