package parsecmd

import (
	"errors"

	"github.com/goliatone/go-asciidoc/internal/commands"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the handlers produced by RegisterParseCommands.
type HandlerSet struct {
	Document *ParseDocumentHandler
	File     *ParseFileHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	results      ResultFunc
	documentOpts []commands.HandlerOption[ParseDocumentCommand]
	fileOpts     []commands.HandlerOption[ParseFileCommand]
}

// WithResults installs the callback receiving parsed documents.
func WithResults(fn ResultFunc) Option {
	return func(cfg *options) {
		cfg.results = fn
	}
}

// WithDocumentHandlerOptions forwards options to the ParseDocumentHandler constructor.
func WithDocumentHandlerOptions(opts ...commands.HandlerOption[ParseDocumentCommand]) Option {
	return func(cfg *options) {
		cfg.documentOpts = append(cfg.documentOpts, opts...)
	}
}

// WithFileHandlerOptions forwards options to the ParseFileHandler constructor.
func WithFileHandlerOptions(opts ...commands.HandlerOption[ParseFileCommand]) Option {
	return func(cfg *options) {
		cfg.fileOpts = append(cfg.fileOpts, opts...)
	}
}

// RegisterParseCommands builds the parse handlers and registers them with
// reg when it is not nil.
func RegisterParseCommands(reg CommandRegistry, service Service, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("parse command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "parse")
	set := &HandlerSet{
		Document: NewParseDocumentHandler(service, logger, cfg.results, cfg.documentOpts...),
		File:     NewParseFileHandler(service, logger, cfg.results, cfg.fileOpts...),
	}

	if reg != nil {
		if err := reg.RegisterCommand(set.Document); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(set.File); err != nil {
			return nil, err
		}
	}
	return set, nil
}
