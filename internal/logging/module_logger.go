package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

const (
	rootModule         = "asciidoc"
	parserModule       = "asciidoc.parser"
	substitutionModule = "asciidoc.substitution"
	sectionsModule     = "asciidoc.sections"
	commandsModule     = "asciidoc.commands"
)

const (
	fieldSource  = "source"
	fieldDoctype = "doctype"
	fieldLine    = "line"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{"module": module})
}

// WithFields attaches fields when logger implements interfaces.FieldsLogger
// and returns it unchanged otherwise. The map is copied.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fl, ok := logger.(interfaces.FieldsLogger); ok {
		return fl.WithFields(maps.Clone(fields))
	}
	return logger
}

// RootLogger returns the façade logger.
func RootLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rootModule)
}

// ParserLogger returns the logger namespace reserved for the block parser.
func ParserLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, parserModule)
}

// SubstitutionLogger returns the logger namespace reserved for the inline pipeline.
func SubstitutionLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, substitutionModule)
}

// SectionsLogger returns the logger namespace reserved for the section engine.
func SectionsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, sectionsModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithDocumentContext enriches the provided logger with the source name and
// doctype of the document being parsed. Empty values are ignored.
func WithDocumentContext(logger interfaces.Logger, source, doctype string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(source); trimmed != "" {
		fields[fieldSource] = trimmed
	}
	if trimmed := strings.TrimSpace(doctype); trimmed != "" {
		fields[fieldDoctype] = trimmed
	}
	return WithFields(logger, fields)
}

// WithLine attaches a source line number. Zero is ignored.
func WithLine(logger interfaces.Logger, line int) interfaces.Logger {
	if line <= 0 {
		return logger
	}
	return WithFields(logger, map[string]any{fieldLine: line})
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
