package asciidoc

import (
	"strings"

	"github.com/goliatone/go-asciidoc/internal/logging/console"
	"github.com/goliatone/go-asciidoc/internal/logging/gologger"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// newLoggerProvider builds the provider named by the logging config. A nil
// provider means every module logs to a no-op logger.
func newLoggerProvider(cfg Config) (interfaces.LoggerProvider, error) {
	if !cfg.Features.Logger {
		return nil, nil
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Provider)) {
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
	default:
		opts := console.Options{}
		if level, ok := console.ParseLevel(cfg.Logging.Level); ok {
			opts.MinLevel = &level
		}
		if format, ok := console.ParseFormat(cfg.Logging.Format); ok {
			opts.Format = format
		}
		return console.NewProvider(opts), nil
	}
}
