package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

const (
	rootModule     = "contentlayer"
	markdownModule = "contentlayer.markdown"
	imagesModule   = "contentlayer.images"
	cacheModule    = "contentlayer.cache"
	buildModule    = "contentlayer.build"
)

const (
	fieldSlug      = "slug"
	fieldPath      = "path"
	fieldReference = "reference"
)

// ModuleLogger returns a logger scoped to module. A nil provider yields the
// no-op logger so services never have to nil-check.
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

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// MarkdownLogger is used by the loader and the transform pipeline.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// ImagesLogger is used by the image resolvers and remote clients.
func ImagesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, imagesModule)
}

// CacheLogger is used by the persistent image cache.
func CacheLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, cacheModule)
}

// BuildLogger is used by the build orchestrator and output writer.
func BuildLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, buildModule)
}

// WithDocumentContext tags logger with the document slug and source path.
// Blank values are skipped.
func WithDocumentContext(logger interfaces.Logger, slug, path string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldSlug] = trimmed
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldPath] = trimmed
	}
	return WithFields(logger, fields)
}

// WithImageReference tags logger with the raw image reference.
func WithImageReference(logger interfaces.Logger, reference string) interfaces.Logger {
	if strings.TrimSpace(reference) == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldReference: reference})
}

// NoOp returns a logger that drops every entry.
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
