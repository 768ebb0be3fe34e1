package contentlayer

import (
	"context"

	"github.com/goliatone/go-contentlayer/internal/build"
	"github.com/goliatone/go-contentlayer/internal/commands/buildcmd"
	"github.com/goliatone/go-contentlayer/internal/commands/cachecmd"
	"github.com/goliatone/go-contentlayer/internal/di"
	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

// Report summarises a build run.
type Report = build.Report

// BuildOptions narrows a single build run.
type BuildOptions = build.Options

// BuildCommand and CacheClearCommand are the command messages accepted by the module.
type (
	BuildCommand      = buildcmd.BuildCommand
	CacheClearCommand = cachecmd.CacheClearCommand
)

// ErrNoDocuments is returned when the content store is empty.
var ErrNoDocuments = build.ErrNoDocuments

// Option customises how New wires the module.
type Option = di.Option

// WithoutImageCredentials builds the module without image service secrets.
// Builds that reach an external photo fail with di.ErrImagesOffline.
func WithoutImageCredentials() Option {
	return di.WithoutImageCredentials()
}

// Module is the top level content layer façade.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg. Missing credentials are reported as
// *interfaces.ConfigurationError.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Build runs the content build once.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*Report, error) {
	return m.container.BuildService().Build(ctx, opts)
}

// Preview loads a single document and renders its body.
func (m *Module) Preview(ctx context.Context, name string) (*interfaces.Document, interfaces.RenderedBody, error) {
	svc := m.container.MarkdownService()
	doc, err := svc.Load(ctx, name)
	if err != nil {
		return nil, interfaces.RenderedBody{}, err
	}
	body, err := svc.Render(ctx, doc)
	if err != nil {
		return nil, interfaces.RenderedBody{}, err
	}
	return doc, body, nil
}

// CacheKeys lists cached image references.
func (m *Module) CacheKeys(ctx context.Context) ([]string, error) {
	return m.container.Cache().Keys(ctx)
}

// BuildHandler returns the go-command handler for BuildCommand.
func (m *Module) BuildHandler(onReport func(*Report)) *buildcmd.BuildHandler {
	return m.container.BuildHandler(onReport)
}

// CacheClearHandler returns the go-command handler for CacheClearCommand.
func (m *Module) CacheClearHandler() *cachecmd.ClearHandler {
	return m.container.CacheClearHandler()
}

// Close releases resources held by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
