package asciidoc_test

import (
	"errors"
	"testing"

	asciidoc "github.com/goliatone/go-asciidoc"
)

func TestConfigValidateSchemaRequiresFrontMatter(t *testing.T) {
	cfg := asciidoc.DefaultConfig()
	cfg.FrontMatter.Schema = map[string]any{"type": "object"}
	if err := cfg.Validate(); !errors.Is(err, asciidoc.ErrFrontMatterFeatureRequired) {
		t.Fatalf("expected ErrFrontMatterFeatureRequired, got %v", err)
	}
}

func TestConfigValidateCacheSize(t *testing.T) {
	cfg := asciidoc.DefaultConfig()
	cfg.Cache.Size = -1
	if err := cfg.Validate(); !errors.Is(err, asciidoc.ErrCacheSizeRequired) {
		t.Fatalf("expected ErrCacheSizeRequired, got %v", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := asciidoc.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"
	if _, err := asciidoc.New(cfg); !errors.Is(err, asciidoc.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}
