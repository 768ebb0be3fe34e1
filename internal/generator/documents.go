package generator

import (
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

// Entry is a fully processed document ready to be written.
type Entry struct {
	Document *interfaces.Document
	Body     interfaces.RenderedBody
	Computed interfaces.ComputedFields
}

// Document is the page layer contract for a single post.
type Document struct {
	Slug           string                      `json:"slug"`
	Title          string                      `json:"title"`
	Date           time.Time                   `json:"date"`
	Tags           []string                    `json:"tags"`
	Excerpt        string                      `json:"excerpt"`
	ReadingTime    interfaces.ReadingTime      `json:"readingTime"`
	Image          *interfaces.ImageResolution `json:"image"`
	Body           interfaces.RenderedBody     `json:"body"`
	SEO            SEO                         `json:"seo"`
	SourceFileName string                      `json:"sourceFileName"`
	Custom         map[string]any              `json:"custom,omitempty"`
}

// Summary is the index representation of a post.
type Summary struct {
	Slug        string                      `json:"slug"`
	Title       string                      `json:"title"`
	Date        time.Time                   `json:"date"`
	Tags        []string                    `json:"tags"`
	Excerpt     string                      `json:"excerpt"`
	ReadingTime interfaces.ReadingTime      `json:"readingTime"`
	Image       *interfaces.ImageResolution `json:"image"`
}

// NewDocument projects an entry into the page layer shape.
func NewDocument(entry Entry, cfg Config) Document {
	fm := entry.Document.Frontmatter
	tags := fm.Tags
	if tags == nil {
		tags = []string{}
	}
	return Document{
		Slug:           entry.Computed.Slug,
		Title:          fm.Title,
		Date:           fm.Date,
		Tags:           tags,
		Excerpt:        fm.Excerpt,
		ReadingTime:    entry.Computed.ReadingTime,
		Image:          entry.Computed.Image,
		Body:           entry.Body,
		SEO:            buildSEO(cfg, entry.Computed.Slug, fm.Title, fm.Excerpt),
		SourceFileName: entry.Document.SourceFileName,
		Custom:         fm.Custom,
	}
}

// Summary returns the index representation of d.
func (d Document) Summary() Summary {
	return Summary{
		Slug:        d.Slug,
		Title:       d.Title,
		Date:        d.Date,
		Tags:        d.Tags,
		Excerpt:     d.Excerpt,
		ReadingTime: d.ReadingTime,
		Image:       d.Image,
	}
}

// SortSummaries orders newest first; equal dates fall back to slug.
func SortSummaries(items []Summary) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.After(items[j].Date)
		}
		return items[i].Slug < items[j].Slug
	})
}

// TagIndex maps each tag to the slugs carrying it, newest first.
func TagIndex(items []Summary) map[string][]string {
	index := map[string][]string{}
	for _, item := range items {
		seen := map[string]struct{}{}
		for _, tag := range item.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			index[tag] = append(index[tag], item.Slug)
		}
	}
	return index
}
