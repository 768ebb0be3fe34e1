package computed

import (
	"path"
	"strings"

	"github.com/goliatone/go-slug"
)

var sourceExtensions = []string{".mdx", ".md", ".markdown"}

// Slug derives the URL identifier from a source file name by dropping its
// last content extension. Other dots are kept: notes.md.mdx becomes notes.md.
// The result depends only on the file name.
func Slug(fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	lower := strings.ToLower(base)
	for _, ext := range sourceExtensions {
		if strings.HasSuffix(lower, ext) && len(base) > len(ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}

// IsURLSafe reports whether value already satisfies the slug rules.
func IsURLSafe(value string) bool {
	return slug.IsValid(value)
}
