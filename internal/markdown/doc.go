// Package markdown loads blog posts from the content store and runs their
// bodies through the HTML transform pipeline. Frontmatter is validated against
// the Post document type before any transform happens.
package markdown
