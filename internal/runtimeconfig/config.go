package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrContentDirRequired = errors.New("contentlayer config: content directory is required")
var ErrContentPatternInvalid = errors.New("contentlayer config: content pattern is invalid")
var ErrOutputDirRequired = errors.New("contentlayer config: generator output directory is required")
var ErrWorkersInvalid = errors.New("contentlayer config: generator workers must be zero or positive")
var ErrAnchorPositionInvalid = errors.New("contentlayer config: heading anchor position is invalid")
var ErrCDNDomainRequired = errors.New("contentlayer config: image CDN domain is required")
var ErrCachePathRequired = errors.New("contentlayer config: cache path is required when cache is enabled")
var ErrLoggingLevelInvalid = errors.New("contentlayer config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("contentlayer config: logging format is invalid")
var ErrLoggingProviderInvalid = errors.New("contentlayer config: logging provider is invalid")

// Anchor positions relative to the heading element.
const (
	AnchorBefore  = "before"
	AnchorAfter   = "after"
	AnchorPrepend = "prepend"
	AnchorAppend  = "append"
)

// Config aggregates every knob of the content build.
type Config struct {
	Content   ContentConfig
	Markdown  MarkdownConfig
	Images    ImagesConfig
	Cache     CacheConfig
	Generator GeneratorConfig
	Logging   LoggingConfig
}

// ContentConfig locates the content store.
type ContentConfig struct {
	Dir     string
	Pattern string
}

// MarkdownConfig controls the transform pipeline.
type MarkdownConfig struct {
	// Extensions lists goldmark extensions on top of GFM (footnote, definition).
	Extensions []string
	// Theme names the chroma style used for code blocks.
	Theme  string
	Anchor AnchorConfig
	// Emoji toggles :shortcode: emoji rendering.
	Emoji bool
}

// AnchorConfig drives the heading anchor stage.
type AnchorConfig struct {
	Enabled   bool
	Position  string
	Group     bool
	GroupTag  string
	GroupCSS  string
	ClassName string
}

// ImagesConfig covers both image resolution branches.
type ImagesConfig struct {
	PhotoAPIBase      string
	PhotoAccessKeyEnv string
	PhotoTimeout      time.Duration
	CDNDomain         string
	CDNTokenEnv       string
	CDNUseHTTPS       bool
	// DefaultParams are merged under the parameters of each CDN reference.
	DefaultParams map[string]string
}

// CacheConfig locates the persistent image cache.
type CacheConfig struct {
	Enabled bool
	Path    string
}

// GeneratorConfig controls generated output.
type GeneratorConfig struct {
	OutputDir  string
	CleanBuild bool
	// Workers bounds concurrent document processing; zero means NumCPU.
	Workers int
	// EditURLTemplate builds per-document edit links; {slug} is substituted.
	EditURLTemplate string
	SiteURL         string
	OGCardPreset    string
}

// LoggingConfig captures go-logger options.
type LoggingConfig struct {
	// Provider selects the logger backend: "gologger" or "noop".
	Provider string
	Level    string
	Format   string
}

// DefaultConfig mirrors the blog's original content layer settings.
func DefaultConfig() Config {
	return Config{
		Content: ContentConfig{
			Dir:     "content/posts",
			Pattern: "*.mdx",
		},
		Markdown: MarkdownConfig{
			Theme: "github",
			Anchor: AnchorConfig{
				Enabled:   true,
				Position:  AnchorAfter,
				Group:     true,
				GroupTag:  "div",
				GroupCSS:  "heading-container",
				ClassName: "anchor",
			},
			Emoji: true,
		},
		Images: ImagesConfig{
			PhotoAPIBase:      "https://api.unsplash.com",
			PhotoAccessKeyEnv: "UNSPLASH_ACCESS_KEY",
			PhotoTimeout:      15 * time.Second,
			CDNDomain:         "osiuxws.imgix.net",
			CDNTokenEnv:       "IMGIX_SECURE_TOKEN",
			CDNUseHTTPS:       true,
			DefaultParams: map[string]string{
				"w":    "500",
				"h":    "350",
				"fit":  "crop",
				"crop": "faces,focalpoint,entropy",
			},
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    ".contentlayer/cache.db",
		},
		Generator: GeneratorConfig{
			OutputDir:       ".contentlayer/generated",
			CleanBuild:      true,
			EditURLTemplate: "https://github.com/osiux/osiux.ws/edit/main/content/posts/{slug}.mdx",
			SiteURL:         "http://localhost:4040",
			OGCardPreset:    "simple",
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
	}
}

// Validate performs consistency checks. Secrets are checked separately by
// LoadSecrets since they come from the environment.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if pattern := strings.TrimSpace(cfg.Content.Pattern); pattern != "" && strings.ContainsAny(pattern, "/\\") {
		return fmt.Errorf("%w: %s", ErrContentPatternInvalid, pattern)
	}
	if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
		return ErrOutputDirRequired
	}
	if cfg.Generator.Workers < 0 {
		return ErrWorkersInvalid
	}
	if cfg.Markdown.Anchor.Enabled && !isSupportedAnchorPosition(cfg.Markdown.Anchor.Position) {
		return fmt.Errorf("%w: %s", ErrAnchorPositionInvalid, cfg.Markdown.Anchor.Position)
	}
	if strings.TrimSpace(cfg.Images.CDNDomain) == "" {
		return ErrCDNDomainRequired
	}
	if cfg.Cache.Enabled && strings.TrimSpace(cfg.Cache.Path) == "" {
		return ErrCachePathRequired
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Provider)) {
	case "", "gologger", "noop":
	default:
		return fmt.Errorf("%w: %s", ErrLoggingProviderInvalid, cfg.Logging.Provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func isSupportedAnchorPosition(position string) bool {
	switch strings.ToLower(strings.TrimSpace(position)) {
	case AnchorBefore, AnchorAfter, AnchorPrepend, AnchorAppend:
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

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
