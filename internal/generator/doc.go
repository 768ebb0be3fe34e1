// Package generator writes the generated document set consumed by the page
// layer: one JSON file per post, a date ordered index, a tag index and a
// build manifest.
package generator
