package generator

import (
	"net/url"
	"strings"
)

const (
	ogCardBase  = "https://cards.microlink.io/"
	ogImageBase = "https://i.microlink.io/"
)

// SEO carries the metadata the page layer renders into head tags.
type SEO struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	CanonicalURL string `json:"canonicalUrl,omitempty"`
	EditURL      string `json:"editUrl,omitempty"`
	OGImage      string `json:"ogImage,omitempty"`
}

func buildSEO(cfg Config, slug, title, excerpt string) SEO {
	return SEO{
		Title:        title,
		Description:  excerpt,
		CanonicalURL: canonicalURL(cfg.SiteURL, slug),
		EditURL:      editURL(cfg.EditURLTemplate, slug),
		OGImage:      ogImageURL(cfg.OGCardPreset, title, excerpt),
	}
}

func canonicalURL(site, slug string) string {
	site = strings.TrimRight(strings.TrimSpace(site), "/")
	if site == "" {
		return ""
	}
	return site + "/blog/" + url.PathEscape(slug)
}

func editURL(template, slug string) string {
	if strings.TrimSpace(template) == "" {
		return ""
	}
	return strings.ReplaceAll(template, "{slug}", slug)
}

// ogImageURL renders a microlink card screenshot URL. The card URL is
// embedded as a single escaped path segment.
func ogImageURL(preset, title, caption string) string {
	if strings.TrimSpace(preset) == "" || strings.TrimSpace(title) == "" {
		return ""
	}
	query := "preset=" + componentEscape(preset) + "&headline=" + componentEscape(title)
	if caption != "" {
		query += "&caption=" + componentEscape(caption)
	}
	return ogImageBase + componentEscape(ogCardBase+"?"+query)
}

func componentEscape(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
