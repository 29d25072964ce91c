package commands

import (
	"strings"

	"github.com/goliatone/go-asciidoc/internal/logging"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// CommandLogger returns the asciidoc.commands logger narrowed to module, with
// the fields every command entry carries.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	return logging.WithFields(logging.CommandsLogger(provider), map[string]any{
		"component":      "command",
		"command_module": name,
	})
}

// EnsureLogger returns logger, or a no-op logger when it is nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
