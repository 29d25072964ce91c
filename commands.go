package asciidoc

import (
	"context"

	"github.com/goliatone/go-asciidoc/internal/ast"
	"github.com/goliatone/go-asciidoc/internal/commands"
	parsecmd "github.com/goliatone/go-asciidoc/internal/commands/parse"
)

type (
	// ParseDocumentCommand parses in-memory source through a command bus.
	ParseDocumentCommand = parsecmd.ParseDocumentCommand
	// ParseFileCommand parses a file from the engine filesystem.
	ParseFileCommand = parsecmd.ParseFileCommand
	// CommandHandlers groups the registered parse handlers.
	CommandHandlers = parsecmd.HandlerSet
	// CommandRegistry is satisfied by go-command registries.
	CommandRegistry = parsecmd.CommandRegistry
	// CommandOption customises command registration.
	CommandOption = parsecmd.Option
)

// WithCommandResults receives every document parsed by a command.
func WithCommandResults(fn func(ctx context.Context, doc *Document)) CommandOption {
	return parsecmd.WithResults(parsecmd.ResultFunc(fn))
}

// RegisterCommands builds the parse command handlers bound to the engine and
// registers them with reg when it is not nil. The configured command timeout
// applies to both handlers.
func (e *Engine) RegisterCommands(reg CommandRegistry, opts ...CommandOption) (*CommandHandlers, error) {
	timeout := e.cfg.Commands.Timeout
	base := []CommandOption{
		parsecmd.WithDocumentHandlerOptions(commands.WithTimeout[parsecmd.ParseDocumentCommand](timeout)),
		parsecmd.WithFileHandlerOptions(commands.WithTimeout[parsecmd.ParseFileCommand](timeout)),
	}
	return parsecmd.RegisterParseCommands(reg, commandService{engine: e}, e.provider, append(base, opts...)...)
}

type commandService struct {
	engine *Engine
}

func (s commandService) ParseSource(ctx context.Context, req parsecmd.Request) (*ast.Document, error) {
	return s.engine.Parse(ctx, req.Content, requestOptions(req))
}

func (s commandService) ParseFile(ctx context.Context, req parsecmd.Request) (*ast.Document, error) {
	return s.engine.ParseFile(ctx, req.Path, requestOptions(req))
}

func requestOptions(req parsecmd.Request) ParseOptions {
	return ParseOptions{
		Source:     req.Name,
		Doctype:    req.Doctype,
		Attributes: req.Attributes,
		HeaderOnly: req.HeaderOnly,
	}
}
