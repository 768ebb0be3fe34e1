package contentlayer

import "github.com/goliatone/go-contentlayer/internal/runtimeconfig"

var (
	ErrContentDirRequired     = runtimeconfig.ErrContentDirRequired
	ErrContentPatternInvalid  = runtimeconfig.ErrContentPatternInvalid
	ErrOutputDirRequired      = runtimeconfig.ErrOutputDirRequired
	ErrWorkersInvalid         = runtimeconfig.ErrWorkersInvalid
	ErrAnchorPositionInvalid  = runtimeconfig.ErrAnchorPositionInvalid
	ErrCDNDomainRequired      = runtimeconfig.ErrCDNDomainRequired
	ErrCachePathRequired      = runtimeconfig.ErrCachePathRequired
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrLoggingProviderInvalid = runtimeconfig.ErrLoggingProviderInvalid
	ErrSecretMissing          = runtimeconfig.ErrSecretMissing
)

type (
	Config          = runtimeconfig.Config
	ContentConfig   = runtimeconfig.ContentConfig
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	AnchorConfig    = runtimeconfig.AnchorConfig
	ImagesConfig    = runtimeconfig.ImagesConfig
	CacheConfig     = runtimeconfig.CacheConfig
	GeneratorConfig = runtimeconfig.GeneratorConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
