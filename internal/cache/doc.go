// Package cache stores resolved images keyed by their raw frontmatter
// reference. Entries never expire; maintenance commands clear them manually.
package cache
