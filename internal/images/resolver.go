package images

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-contentlayer/internal/logging"
	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

var (
	ErrPhotoClientMissing = errors.New("images: photo client not configured")
	ErrSignerMissing      = errors.New("images: cdn signer not configured")
)

// Result is the outcome of resolving one reference.
type Result struct {
	Resolution *interfaces.ImageResolution
	// Missing names photo fields the service did not return.
	Missing  []string
	CacheHit bool
}

// Resolver turns references into ImageResolution values, reading through the
// cache. Concurrent calls for the same reference share one lookup.
type Resolver struct {
	cache    interfaces.ImageCache
	photos   PhotoClient
	signer   URLSigner
	defaults map[string]string
	logger   interfaces.Logger
	group    singleflight.Group
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithPhotoClient sets the external photo service client.
func WithPhotoClient(client PhotoClient) Option {
	return func(r *Resolver) {
		r.photos = client
	}
}

// WithSigner sets the CDN URL signer.
func WithSigner(signer URLSigner) Option {
	return func(r *Resolver) {
		r.signer = signer
	}
}

// WithDefaultParams replaces the CDN default transform params.
func WithDefaultParams(params map[string]string) Option {
	return func(r *Resolver) {
		if params != nil {
			r.defaults = MergeParams(params, nil)
		}
	}
}

// WithLogger sets the resolver logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver builds a resolver backed by cache. A nil cache disables caching.
func NewResolver(cache interfaces.ImageCache, opts ...Option) *Resolver {
	r := &Resolver{
		cache:    cache,
		defaults: DefaultParams(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve parses raw and resolves it. A blank reference yields an empty
// Result without touching the cache or the network.
func (r *Resolver) Resolve(ctx context.Context, raw string) (Result, error) {
	ref := ParseReference(raw)
	if ref == nil {
		return Result{}, nil
	}
	return r.ResolveReference(ctx, ref)
}

// ResolveReference resolves an already parsed reference.
func (r *Resolver) ResolveReference(ctx context.Context, ref Reference) (Result, error) {
	if ref == nil {
		return Result{}, nil
	}
	key := ref.Raw()
	logger := logging.WithImageReference(r.logger, key)

	value, err, shared := r.group.Do(key, func() (any, error) {
		return r.lookup(ctx, ref, logger)
	})
	if err != nil {
		return Result{}, err
	}

	out := value.(flightResult)
	resolution := out.resolution
	result := Result{
		Resolution: &resolution,
		CacheHit:   out.hit,
	}
	if resolution.Photo != nil {
		result.Missing = missingPhotoFields(resolution.Photo)
	}
	if shared {
		logger.Debug("image resolution shared with in-flight lookup")
	}
	return result, nil
}

type flightResult struct {
	resolution interfaces.ImageResolution
	hit        bool
}

func (r *Resolver) lookup(ctx context.Context, ref Reference, logger interfaces.Logger) (flightResult, error) {
	key := ref.Raw()
	if r.cache != nil {
		cached, ok, err := r.cache.Get(ctx, key)
		if err != nil {
			return flightResult{}, fmt.Errorf("image cache get %q: %w", key, err)
		}
		if ok {
			logger.Debug("image cache hit", "cache_hit", true)
			return flightResult{resolution: cached, hit: true}, nil
		}
	}

	var (
		resolution interfaces.ImageResolution
		err        error
	)
	switch typed := ref.(type) {
	case ExternalPhoto:
		resolution, err = r.resolvePhoto(ctx, typed)
	case CDNTransform:
		resolution, err = r.resolveCDN(typed)
	default:
		err = fmt.Errorf("images: unsupported reference %T", ref)
	}
	if err != nil {
		return flightResult{}, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, resolution); err != nil {
			return flightResult{}, fmt.Errorf("image cache set %q: %w", key, err)
		}
	}
	logger.Debug("image resolved", "cache_hit", false)
	return flightResult{resolution: resolution}, nil
}

func (r *Resolver) resolvePhoto(ctx context.Context, ref ExternalPhoto) (interfaces.ImageResolution, error) {
	if r.photos == nil {
		return interfaces.ImageResolution{}, ErrPhotoClientMissing
	}
	photo, err := r.photos.GetPhoto(ctx, ref.ID)
	if err != nil {
		return interfaces.ImageResolution{}, err
	}
	return interfaces.ImageResolution{Photo: photoImage(photo)}, nil
}

func (r *Resolver) resolveCDN(ref CDNTransform) (interfaces.ImageResolution, error) {
	if r.signer == nil {
		return interfaces.ImageResolution{}, ErrSignerMissing
	}
	params := MergeParams(r.defaults, ref.Params)
	return interfaces.ImageResolution{
		CDN: &interfaces.CDNImage{URL: r.signer.BuildURL(ref.Path, params)},
	}, nil
}

// photoImage extracts the rendered fields. The description falls back to the
// alt description when blank.
func photoImage(photo *Photo) *interfaces.PhotoImage {
	if photo == nil {
		return &interfaces.PhotoImage{}
	}
	description := deref(photo.Description)
	if description == "" {
		description = deref(photo.AltDescription)
	}
	return &interfaces.PhotoImage{
		Description:     description,
		URL:             deref(photo.URLs.Raw),
		BlurHash:        deref(photo.BlurHash),
		AttributionLink: deref(photo.Links.HTML),
		Width:           photo.Width,
		Height:          photo.Height,
		User: interfaces.PhotoUser{
			Name: deref(photo.User.Name),
			Link: deref(photo.User.Links.HTML),
		},
	}
}

func missingPhotoFields(photo *interfaces.PhotoImage) []string {
	var missing []string
	check := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}
	check("description", photo.Description != "")
	check("url", photo.URL != "")
	check("blur_hash", photo.BlurHash != "")
	check("attributionLink", photo.AttributionLink != "")
	check("width", photo.Width != nil)
	check("height", photo.Height != nil)
	check("user.name", photo.User.Name != "")
	check("user.link", photo.User.Link != "")
	return missing
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
