package images

import (
	"net/url"
	"strings"
)

// CDNPrefix marks a CDN transform reference.
const CDNPrefix = "imgix:"

// Reference is a parsed image reference. It is implemented only by
// ExternalPhoto and CDNTransform.
type Reference interface {
	// Raw returns the reference exactly as written in frontmatter. It is the
	// cache key for the resolution.
	Raw() string
	isReference()
}

// ExternalPhoto references a photo by its id on the photo service.
type ExternalPhoto struct {
	ID string
}

func (p ExternalPhoto) Raw() string { return p.ID }
func (ExternalPhoto) isReference()  {}

// CDNTransform references an image path on the CDN plus transform params.
type CDNTransform struct {
	Path   string
	Params map[string]string
	raw    string
}

func (c CDNTransform) Raw() string { return c.raw }
func (CDNTransform) isReference()  {}

// ParseReference classifies raw. It returns nil for a blank reference.
func ParseReference(raw string) Reference {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if !strings.HasPrefix(trimmed, CDNPrefix) {
		return ExternalPhoto{ID: trimmed}
	}

	rest := strings.TrimPrefix(trimmed, CDNPrefix)
	path, query, _ := strings.Cut(rest, "?")
	return CDNTransform{
		Path:   path,
		Params: parseParams(query),
		raw:    trimmed,
	}
}

// parseParams keeps the first value of repeated keys. Malformed pairs are
// skipped.
func parseParams(query string) map[string]string {
	params := map[string]string{}
	if query == "" {
		return params
	}
	values, _ := url.ParseQuery(query)
	for key, list := range values {
		if key == "" || len(list) == 0 {
			continue
		}
		params[key] = list[0]
	}
	return params
}

// MergeParams overlays overrides on top of defaults into a new map.
func MergeParams(defaults, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(overrides))
	for key, value := range defaults {
		out[key] = value
	}
	for key, value := range overrides {
		out[key] = value
	}
	return out
}

// DefaultParams are applied under every CDN transform.
func DefaultParams() map[string]string {
	return map[string]string{
		"w":    "500",
		"h":    "350",
		"fit":  "crop",
		"crop": "faces,focalpoint,entropy",
	}
}
