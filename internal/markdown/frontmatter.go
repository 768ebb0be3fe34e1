package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-contentlayer/internal/validation"
	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

var postSchema = mustCompilePostSchema()

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 -0700",
}

var knownKeys = map[string]struct{}{
	"title":   {},
	"date":    {},
	"tags":    {},
	"image":   {},
	"excerpt": {},
}

// ParseFrontMatter extracts metadata and the Markdown body from source. The
// metadata must satisfy the Post document type; any failure is returned as a
// *interfaces.ParseError carrying path.
func ParseFrontMatter(path string, source []byte) (interfaces.Frontmatter, []byte, error) {
	meta := map[string]any{}

	body, err := frontmatter.MustParse(bytes.NewReader(source), &meta)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return interfaces.Frontmatter{}, nil, &interfaces.ParseError{Path: path, Issues: []string{"missing frontmatter block"}, Err: err}
		}
		return interfaces.Frontmatter{}, nil, &interfaces.ParseError{Path: path, Err: err}
	}

	normalized, _ := validation.NormalizeYAML(meta).(map[string]any)
	if err := postSchema.Validate(normalized); err != nil {
		return interfaces.Frontmatter{}, nil, &interfaces.ParseError{
			Path:   path,
			Issues: issueStrings(validation.Issues(err)),
			Err:    err,
		}
	}

	fm, err := toFrontmatter(normalized)
	if err != nil {
		return interfaces.Frontmatter{}, nil, &interfaces.ParseError{Path: path, Err: err}
	}
	return fm, body, nil
}

// BuildDocument assembles a Document from a source file.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	fm, body, err := ParseFrontMatter(path, source)
	if err != nil {
		return nil, err
	}
	return &interfaces.Document{
		SourceFileName: baseName(path),
		FilePath:       path,
		Frontmatter:    fm,
		Body:           body,
		LastModified:   modified,
	}, nil
}

func toFrontmatter(meta map[string]any) (interfaces.Frontmatter, error) {
	date, err := parseDate(meta["date"])
	if err != nil {
		return interfaces.Frontmatter{}, err
	}

	fm := interfaces.Frontmatter{
		Title:   stringValue(meta["title"]),
		Date:    date,
		Tags:    stringSlice(meta["tags"]),
		Image:   strings.TrimSpace(stringValue(meta["image"])),
		Excerpt: stringValue(meta["excerpt"]),
	}

	for key, value := range meta {
		if _, ok := knownKeys[key]; ok {
			continue
		}
		if fm.Custom == nil {
			fm.Custom = map[string]any{}
		}
		fm.Custom[key] = value
	}
	return fm, nil
}

func parseDate(value any) (time.Time, error) {
	switch typed := value.(type) {
	case time.Time:
		return typed.UTC(), nil
	case string:
		raw := strings.TrimSpace(typed)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, raw); err == nil {
				return parsed.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	default:
		return time.Time{}, fmt.Errorf("invalid date %v", value)
	}
}

func stringValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func stringSlice(value any) []string {
	items, ok := value.([]any)
	if !ok || len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func issueStrings(issues []validation.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.String())
	}
	sort.Strings(out)
	return out
}

func mustCompilePostSchema() *validation.Schema {
	schema, err := validation.PostType().Compile()
	if err != nil {
		panic(fmt.Sprintf("markdown: compile post schema: %v", err))
	}
	return schema
}
