package asciidoc

import "github.com/goliatone/go-asciidoc/internal/runtimeconfig"

var (
	ErrFrontMatterFeatureRequired = runtimeconfig.ErrFrontMatterFeatureRequired
	ErrCacheSizeRequired          = runtimeconfig.ErrCacheSizeRequired
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config            = runtimeconfig.Config
	ParserConfig      = runtimeconfig.ParserConfig
	FrontMatterConfig = runtimeconfig.FrontMatterConfig
	CacheConfig       = runtimeconfig.CacheConfig
	CommandsConfig    = runtimeconfig.CommandsConfig
	Features          = runtimeconfig.Features
	LoggingConfig     = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
