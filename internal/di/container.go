package di

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-contentlayer/internal/build"
	"github.com/goliatone/go-contentlayer/internal/cache"
	"github.com/goliatone/go-contentlayer/internal/commands"
	"github.com/goliatone/go-contentlayer/internal/commands/buildcmd"
	"github.com/goliatone/go-contentlayer/internal/commands/cachecmd"
	"github.com/goliatone/go-contentlayer/internal/computed"
	"github.com/goliatone/go-contentlayer/internal/generator"
	"github.com/goliatone/go-contentlayer/internal/images"
	"github.com/goliatone/go-contentlayer/internal/logging"
	"github.com/goliatone/go-contentlayer/internal/logging/gologger"
	"github.com/goliatone/go-contentlayer/internal/markdown"
	"github.com/goliatone/go-contentlayer/internal/runtimeconfig"
	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

// Container wires the content build from configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	getenv         func(string) string
	now            func() time.Time
	httpClient     *http.Client

	store        interfaces.ImageCacheAdmin
	storeCloser  func() error
	instrumented *cache.Instrumented

	photoClient   images.PhotoClient
	signer        images.URLSigner
	offlineImages bool

	imageResolver *images.Resolver
	computed      *computed.Resolver
	markdownSvc   *markdown.Service
	generatorSvc  generator.Service
	buildSvc      *build.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the configured logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithCacheStore overrides the configured cache backend. The container does
// not close stores supplied this way.
func WithCacheStore(store interfaces.ImageCacheAdmin) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithPhotoClient overrides the photo service client. The photo access key is
// not required when a client is supplied.
func WithPhotoClient(client images.PhotoClient) Option {
	return func(c *Container) {
		c.photoClient = client
	}
}

// WithCDNSigner overrides the CDN URL signer. The CDN token is not required
// when a signer is supplied.
func WithCDNSigner(signer images.URLSigner) Option {
	return func(c *Container) {
		c.signer = signer
	}
}

// WithClock overrides the clock used for cache timestamps and build reports.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		if now != nil {
			c.now = now
		}
	}
}

// WithGetenv overrides the environment lookup used for secrets.
func WithGetenv(getenv func(string) string) Option {
	return func(c *Container) {
		if getenv != nil {
			c.getenv = getenv
		}
	}
}

// WithHTTPClient overrides the HTTP client used by the photo service client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// ErrImagesOffline is returned by the photo client installed through
// WithoutImageCredentials.
var ErrImagesOffline = errors.New("contentlayer: image services are offline")

// WithoutImageCredentials wires image services that need no secrets: photo
// lookups fail with ErrImagesOffline and CDN URLs are unsigned. Commands that
// only inspect the cache or preview bodies use it.
func WithoutImageCredentials() Option {
	return func(c *Container) {
		c.offlineImages = true
	}
}

// NewContainer validates cfg, resolves secrets and wires every service.
// Missing credentials surface as *interfaces.ConfigurationError before any
// document is read.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureImageServices(); err != nil {
		return nil, err
	}
	if err := c.configureCache(ctx); err != nil {
		return nil, err
	}
	if err := c.configureServices(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "noop":
		c.loggerProvider = noopProvider{}
		return nil
	default:
		provider, err := gologger.NewProvider(gologger.Config{
			Level:  c.Config.Logging.Level,
			Format: c.Config.Logging.Format,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
		return nil
	}
}

func (c *Container) configureImageServices() error {
	imgCfg := c.Config.Images
	if c.offlineImages {
		if c.photoClient == nil {
			c.photoClient = offlinePhotoClient{}
		}
		if c.signer == nil {
			c.signer = images.NewImgixSigner(imgCfg.CDNDomain, "", imgCfg.CDNUseHTTPS)
		}
		return nil
	}
	if c.photoClient == nil && c.signer == nil {
		secrets, err := runtimeconfig.LoadSecrets(imgCfg, c.getenv)
		if err != nil {
			return err
		}
		c.photoClient = c.newPhotoClient(secrets.PhotoAccessKey)
		c.signer = images.NewImgixSigner(imgCfg.CDNDomain, secrets.CDNToken, imgCfg.CDNUseHTTPS)
		return nil
	}
	if c.photoClient == nil {
		key, err := runtimeconfig.LookupSecret(imgCfg.PhotoAccessKeyEnv, c.getenv)
		if err != nil {
			return err
		}
		c.photoClient = c.newPhotoClient(key)
	}
	if c.signer == nil {
		token, err := runtimeconfig.LookupSecret(imgCfg.CDNTokenEnv, c.getenv)
		if err != nil {
			return err
		}
		c.signer = images.NewImgixSigner(imgCfg.CDNDomain, token, imgCfg.CDNUseHTTPS)
	}
	return nil
}

type offlinePhotoClient struct{}

func (offlinePhotoClient) GetPhoto(context.Context, string) (*images.Photo, error) {
	return nil, ErrImagesOffline
}

func (c *Container) newPhotoClient(accessKey string) *images.UnsplashClient {
	client := images.NewUnsplashClient(accessKey, c.Config.Images.PhotoAPIBase, c.Config.Images.PhotoTimeout)
	if c.httpClient != nil {
		client = client.WithHTTPClient(c.httpClient)
	}
	return client
}

func (c *Container) configureCache(ctx context.Context) error {
	if c.store == nil {
		if c.Config.Cache.Enabled {
			store, err := cache.OpenBunStore(ctx, c.Config.Cache.Path)
			if err != nil {
				return &interfaces.ConfigurationError{Field: "cache.path", Err: err}
			}
			store.WithClock(c.now)
			c.store = store
			c.storeCloser = store.Close
		} else {
			c.store = cache.NewMemoryStore()
		}
	}
	c.instrumented = cache.NewInstrumented(c.store, logging.CacheLogger(c.loggerProvider))
	return nil
}

func (c *Container) configureServices() error {
	c.imageResolver = images.NewResolver(c.instrumented,
		images.WithPhotoClient(c.photoClient),
		images.WithSigner(c.signer),
		images.WithDefaultParams(c.Config.Images.DefaultParams),
		images.WithLogger(logging.ImagesLogger(c.loggerProvider)),
	)
	c.computed = computed.NewResolver(c.imageResolver, logging.ModuleLogger(c.loggerProvider, "contentlayer.computed"))

	md := c.Config.Markdown
	markdownSvc, err := markdown.NewService(markdown.Config{
		BasePath: c.Config.Content.Dir,
		Pattern:  c.Config.Content.Pattern,
		Pipeline: markdown.PipelineOptions{
			Extensions: md.Extensions,
			Theme:      md.Theme,
			Emoji:      md.Emoji,
			Anchor: markdown.AnchorOptions{
				Enabled:   md.Anchor.Enabled,
				Position:  md.Anchor.Position,
				Group:     md.Anchor.Group,
				GroupTag:  md.Anchor.GroupTag,
				GroupCSS:  md.Anchor.GroupCSS,
				ClassName: md.Anchor.ClassName,
			},
		},
	}, markdown.WithLogger(logging.MarkdownLogger(c.loggerProvider)))
	if err != nil {
		return err
	}
	c.markdownSvc = markdownSvc

	gen := c.Config.Generator
	c.generatorSvc = generator.NewService(generator.Config{
		OutputDir:       gen.OutputDir,
		CleanBuild:      gen.CleanBuild,
		EditURLTemplate: gen.EditURLTemplate,
		SiteURL:         gen.SiteURL,
		OGCardPreset:    gen.OGCardPreset,
	}, logging.ModuleLogger(c.loggerProvider, "contentlayer.generator"))

	buildSvc, err := build.NewService(build.Config{Workers: gen.Workers}, build.Dependencies{
		Documents: c.markdownSvc,
		Computed:  c.computed,
		Output:    c.generatorSvc,
		Stats:     c.instrumented,
		Logger:    logging.BuildLogger(c.loggerProvider),
		Now:       c.now,
	})
	if err != nil {
		return err
	}
	c.buildSvc = buildSvc
	return nil
}

// LoggerProvider returns the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// Cache returns the instrumented image cache.
func (c *Container) Cache() *cache.Instrumented { return c.instrumented }

// MarkdownService returns the document loader and renderer.
func (c *Container) MarkdownService() *markdown.Service { return c.markdownSvc }

// ImageResolver returns the shared image resolver.
func (c *Container) ImageResolver() *images.Resolver { return c.imageResolver }

// BuildService returns the build orchestrator.
func (c *Container) BuildService() *build.Service { return c.buildSvc }

// GeneratorService returns the generated output writer.
func (c *Container) GeneratorService() generator.Service { return c.generatorSvc }

// BuildHandler returns the command handler for BuildCommand.
func (c *Container) BuildHandler(onReport buildcmd.ReportFunc, opts ...commands.HandlerOption[buildcmd.BuildCommand]) *buildcmd.BuildHandler {
	return buildcmd.NewBuildHandler(c.buildSvc, commands.CommandLogger(c.loggerProvider, "build"), onReport, opts...)
}

// CacheClearHandler returns the command handler for CacheClearCommand.
func (c *Container) CacheClearHandler(opts ...commands.HandlerOption[cachecmd.CacheClearCommand]) *cachecmd.ClearHandler {
	return cachecmd.NewClearHandler(c.instrumented, commands.CommandLogger(c.loggerProvider, "cache"), opts...)
}

// Close releases the cache store when the container opened it.
func (c *Container) Close() error {
	if c == nil || c.storeCloser == nil {
		return nil
	}
	closer := c.storeCloser
	c.storeCloser = nil
	return closer()
}

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }
