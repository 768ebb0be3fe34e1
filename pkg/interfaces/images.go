package interfaces

import "context"

// ImageResolution is the resolved image attached to a document. Exactly one of
// Photo or CDN is set.
type ImageResolution struct {
	Photo *PhotoImage `json:"photo,omitempty"`
	CDN   *CDNImage   `json:"cdn,omitempty"`
}

// PhotoImage carries the fields extracted from the external photo service.
// Fields the service omitted stay empty; nothing is validated.
type PhotoImage struct {
	Description     string    `json:"description,omitempty"`
	URL             string    `json:"url,omitempty"`
	BlurHash        string    `json:"blur_hash,omitempty"`
	AttributionLink string    `json:"attributionLink,omitempty"`
	Width           *int      `json:"width,omitempty"`
	Height          *int      `json:"height,omitempty"`
	User            PhotoUser `json:"user"`
}

// PhotoUser is the photo author attribution.
type PhotoUser struct {
	Name string `json:"name,omitempty"`
	Link string `json:"link,omitempty"`
}

// CDNImage wraps a signed CDN transform URL.
type CDNImage struct {
	URL string `json:"url"`
}

// URL returns the image URL regardless of the resolution branch.
func (r *ImageResolution) URL() string {
	if r == nil {
		return ""
	}
	if r.Photo != nil {
		return r.Photo.URL
	}
	if r.CDN != nil {
		return r.CDN.URL
	}
	return ""
}

// ImageCache is the persistent key/value store for resolved images, keyed by
// the raw image reference string. Entries never expire.
type ImageCache interface {
	Get(ctx context.Context, key string) (ImageResolution, bool, error)
	Set(ctx context.Context, key string, value ImageResolution) error
}

// ImageCacheAdmin exposes manual invalidation for cache maintenance commands.
type ImageCacheAdmin interface {
	ImageCache
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Keys(ctx context.Context) ([]string, error)
}
