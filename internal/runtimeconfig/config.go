package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

var ErrFrontMatterFeatureRequired = errors.New("asciidoc config: front matter schema requires front matter to be enabled")
var ErrCacheSizeRequired = errors.New("asciidoc config: cache size must be positive when the cache is enabled")
var ErrLoggingProviderRequired = errors.New("asciidoc config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("asciidoc config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("asciidoc config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("asciidoc config: logging format is invalid")

const configValidationCode = "ASCIIDOC_CONFIG_INVALID"

// DefaultDocumentCacheSize bounds the parsed document cache.
const DefaultDocumentCacheSize = 128

// DefaultPatternCacheSize bounds the compiled pattern cache.
const DefaultPatternCacheSize = 256

// Config aggregates parser defaults, optional features and logging for the
// engine façade.
type Config struct {
	Parser      ParserConfig
	FrontMatter FrontMatterConfig
	Cache       CacheConfig
	Commands    CommandsConfig
	Features    Features
	Logging     LoggingConfig
}

// ParserConfig holds the defaults applied to every parse. Attributes are
// API attributes; the doctype, id and numbering settings are soft so
// documents may override them.
type ParserConfig struct {
	Doctype          string
	Attributes       map[string]string
	AttributeMissing string
	SectnumLevels    int
	IDPrefix         string
	IDSeparator      string
	MaxIncludeDepth  int
}

// FrontMatterConfig controls stripping of a leading YAML or TOML block.
// Schema, when set, is a JSON schema the decoded block is checked against.
type FrontMatterConfig struct {
	Enabled bool
	Schema  map[string]any
}

// CacheConfig sizes the document and pattern caches.
type CacheConfig struct {
	Enabled     bool
	Size        int
	PatternSize int
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Timeout time.Duration
}

// Features toggles module functionality.
type Features struct {
	Logger bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the defaults used when the host supplies nothing.
func DefaultConfig() Config {
	return Config{
		Parser: ParserConfig{
			Doctype:          "article",
			Attributes:       map[string]string{},
			AttributeMissing: "skip",
			SectnumLevels:    3,
			IDPrefix:         "_",
			IDSeparator:      "_",
			MaxIncludeDepth:  64,
		},
		FrontMatter: FrontMatterConfig{},
		Cache: CacheConfig{
			Enabled:     true,
			Size:        DefaultDocumentCacheSize,
			PatternSize: DefaultPatternCacheSize,
		},
		Commands: CommandsConfig{
			Timeout: 30 * time.Second,
		},
		Features: Features{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs consistency checks. Cross-field problems return the
// package sentinels; field rules are reported by ozzo-validation wrapped as a
// validation category error.
func (cfg Config) Validate() error {
	if !cfg.FrontMatter.Enabled && len(cfg.FrontMatter.Schema) > 0 {
		return ErrFrontMatterFeatureRequired
	}
	if cfg.Cache.Enabled && cfg.Cache.Size <= 0 {
		return ErrCacheSizeRequired
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(provider, format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}

	if err := cfg.Parser.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid parser configuration").
			WithTextCode(configValidationCode)
	}
	return nil
}

// Validate checks the parser defaults.
func (p ParserConfig) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Doctype, validation.In("", "article", "book", "inline", "manpage")),
		validation.Field(&p.AttributeMissing, validation.In("", "skip", "drop", "drop-line", "warn")),
		validation.Field(&p.SectnumLevels, validation.Min(0), validation.Max(5)),
		validation.Field(&p.MaxIncludeDepth, validation.Min(0)),
		validation.Field(&p.Attributes, validation.By(func(value any) error {
			attrs, _ := value.(map[string]string)
			for name := range attrs {
				if strings.Trim(strings.TrimSpace(name), "!") == "" {
					return validation.NewError("asciidoc.config.attribute_name", "attribute names cannot be blank")
				}
			}
			return nil
		})),
	)
}

// SoftAttributes returns the parser defaults that documents may override,
// in the "value@" form understood by the parser.
func (p ParserConfig) SoftAttributes() map[string]string {
	out := map[string]string{
		"idprefix":    p.IDPrefix + "@",
		"idseparator": p.IDSeparator + "@",
	}
	if p.Doctype != "" {
		out["doctype"] = p.Doctype + "@"
	}
	if p.AttributeMissing != "" {
		out["attribute-missing"] = p.AttributeMissing + "@"
	}
	if p.SectnumLevels > 0 {
		out["sectnumlevels"] = fmt.Sprintf("%d@", p.SectnumLevels)
	}
	return out
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

// isSupportedFormat reports whether provider can write format. Only go-logger
// has a pretty printer.
func isSupportedFormat(provider, format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console":
		return true
	case "pretty":
		return provider == "gologger"
	default:
		return false
	}
}
